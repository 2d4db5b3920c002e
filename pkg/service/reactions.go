package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/ahmednagradev/ansnips/pkg/api"
	"github.com/ahmednagradev/ansnips/pkg/optimistic"
	"github.com/ahmednagradev/ansnips/pkg/output"
)

// reactions runs the optimistic like and save toggles for one content kind
type reactions struct {
	api  *api.API
	kind string
}

func (r reactions) like(ctx context.Context, id string, liked bool) error {
	st, err := r.api.SetLiked(ctx, r.kind, id, liked)
	if err != nil {
		return r.failed("like", err)
	}
	printToggle("Liked", "Unliked", "like", st)
	return nil
}

func (r reactions) save(ctx context.Context, id string, saved bool) error {
	st, err := r.api.SetSaved(ctx, r.kind, id, saved)
	if err != nil {
		return r.failed("save", err)
	}
	if output.IsJSON() {
		return output.Print("", st)
	}
	if st.Active {
		output.PrintSuccess("✓ Saved %s %s", r.kind, id)
	} else {
		output.PrintSuccess("✓ Removed %s %s from saved", r.kind, id)
	}
	return nil
}

// failed reports a toggle error. The toggle has already rolled back.
func (r reactions) failed(action string, err error) error {
	if errors.Is(err, optimistic.ErrInFlight) {
		return err
	}
	return fmt.Errorf("failed to %s %s: %w", action, r.kind, err)
}
