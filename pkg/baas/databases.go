package baas

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/ahmednagradev/ansnips/pkg/logger"
)

// Document holds the system attributes present on every stored document.
// Entity types embed it.
type Document struct {
	ID           string    `json:"$id"`
	CollectionID string    `json:"$collectionId"`
	DatabaseID   string    `json:"$databaseId"`
	CreatedAt    time.Time `json:"$createdAt"`
	UpdatedAt    time.Time `json:"$updatedAt"`
	Permissions  []string  `json:"$permissions"`
}

// DocumentList is one page of a document listing
type DocumentList[T any] struct {
	Total     int `json:"total"`
	Documents []T `json:"documents"`
}

type createDocumentRequest struct {
	DocumentID  string      `json:"documentId"`
	Data        interface{} `json:"data"`
	Permissions []string    `json:"permissions,omitempty"`
}

type updateDocumentRequest struct {
	Data        interface{} `json:"data"`
	Permissions []string    `json:"permissions,omitempty"`
}

// Collection is a typed handle on one collection of one database
type Collection[T any] struct {
	client     *Client
	databaseID string
	id         string
}

// NewCollection returns a typed collection handle
func NewCollection[T any](client *Client, databaseID, collectionID string) *Collection[T] {
	return &Collection[T]{client: client, databaseID: databaseID, id: collectionID}
}

// ID returns the collection id
func (col *Collection[T]) ID() string {
	return col.id
}

func (col *Collection[T]) path() string {
	return fmt.Sprintf("/databases/%s/collections/%s/documents", col.databaseID, col.id)
}

// Create stores data as a new document. An empty documentID lets the
// client pick a unique one.
func (col *Collection[T]) Create(ctx context.Context, documentID string, data interface{}, permissions []string) (*T, error) {
	if documentID == "" {
		documentID = UniqueID()
	}
	logger.Debug("Creating document", "collection", col.id, "id", documentID)

	var doc T
	req := createDocumentRequest{DocumentID: documentID, Data: data, Permissions: permissions}
	if _, err := col.client.call(ctx, http.MethodPost, col.path(), req, &doc); err != nil {
		return nil, fmt.Errorf("create %s document: %w", col.id, err)
	}
	return &doc, nil
}

// Get fetches a document by id
func (col *Collection[T]) Get(ctx context.Context, documentID string) (*T, error) {
	var doc T
	if _, err := col.client.call(ctx, http.MethodGet, col.path()+"/"+documentID, nil, &doc); err != nil {
		return nil, fmt.Errorf("get %s document %s: %w", col.id, documentID, err)
	}
	return &doc, nil
}

// List returns the documents matching queries
func (col *Collection[T]) List(ctx context.Context, queries ...Query) (*DocumentList[T], error) {
	req := col.client.R(ctx)
	for _, q := range queries {
		req.QueryParam.Add("queries[]", q.String())
	}

	resp, err := req.Get(col.path())
	if err := CheckResponse(resp, err); err != nil {
		return nil, fmt.Errorf("list %s documents: %w", col.id, err)
	}

	var list DocumentList[T]
	if err := decode(resp.Body(), &list); err != nil {
		return nil, fmt.Errorf("list %s documents: %w", col.id, err)
	}
	if list.Documents == nil {
		list.Documents = []T{}
	}
	return &list, nil
}

// First returns the first document matching queries, or nil if none do
func (col *Collection[T]) First(ctx context.Context, queries ...Query) (*T, error) {
	list, err := col.List(ctx, append(queries, Limit(1))...)
	if err != nil {
		return nil, err
	}
	if len(list.Documents) == 0 {
		return nil, nil
	}
	return &list.Documents[0], nil
}

// Count returns the number of documents matching queries
func (col *Collection[T]) Count(ctx context.Context, queries ...Query) (int, error) {
	list, err := col.List(ctx, append(queries, Limit(1), Select(AttrID))...)
	if err != nil {
		return 0, err
	}
	return list.Total, nil
}

// Update patches the given attributes of a document
func (col *Collection[T]) Update(ctx context.Context, documentID string, data interface{}) (*T, error) {
	logger.Debug("Updating document", "collection", col.id, "id", documentID)

	var doc T
	req := updateDocumentRequest{Data: data}
	if _, err := col.client.call(ctx, http.MethodPatch, col.path()+"/"+documentID, req, &doc); err != nil {
		return nil, fmt.Errorf("update %s document %s: %w", col.id, documentID, err)
	}
	return &doc, nil
}

// Delete removes a document
func (col *Collection[T]) Delete(ctx context.Context, documentID string) error {
	logger.Debug("Deleting document", "collection", col.id, "id", documentID)

	if _, err := col.client.call(ctx, http.MethodDelete, col.path()+"/"+documentID, nil, nil); err != nil {
		return fmt.Errorf("delete %s document %s: %w", col.id, documentID, err)
	}
	return nil
}
