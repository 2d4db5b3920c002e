// Package service holds the interactive flows behind each CLI command:
// prompting, calling the api package and printing the result.
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/ahmednagradev/ansnips/pkg/api"
	"github.com/ahmednagradev/ansnips/pkg/formatter"
	"github.com/ahmednagradev/ansnips/pkg/logger"
	"github.com/ahmednagradev/ansnips/pkg/optimistic"
	"github.com/ahmednagradev/ansnips/pkg/output"
	"github.com/ahmednagradev/ansnips/pkg/prompter"
)

func printf(format string, args ...interface{}) {
	fmt.Fprintf(output.Stdout(), format, args...)
}

func pluralize(count int) string {
	if count == 1 {
		return ""
	}
	return "s"
}

// people resolves profiles for display. Unknown ids are left out and shown
// by id.
func people(ctx context.Context, a *api.API, ids ...string) map[string]*api.UserInfo {
	out := make(map[string]*api.UserInfo, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := out[id]; ok {
			continue
		}
		u, err := a.GetUser(ctx, id)
		if err != nil {
			logger.Debug("Profile lookup failed", "user_id", id, "error", err)
			continue
		}
		out[id] = u
	}
	return out
}

// confirm asks before destructive actions unless force is set
func confirm(force bool, label string) (bool, error) {
	if force {
		return true, nil
	}
	return prompter.PromptConfirm(label)
}

// printToggle reports the settled state of an optimistic toggle
func printToggle(on, off, noun string, st optimistic.State) {
	if output.IsJSON() {
		_ = output.Print("", st)
		return
	}
	label := off
	if st.Active {
		label = on
	}
	output.PrintSuccess("✓ %s (%s %s%s)", label, formatter.Count(st.Count), noun, pluralize(st.Count))
}

// contentKind normalizes a user-supplied content type
func contentKind(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func nextPageHint(cursor string) {
	if cursor != "" && !output.IsJSON() {
		formatter.Faint.Fprintf(output.Stdout(), "More: --cursor %s\n", cursor)
	}
}
