package baas

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/ahmednagradev/ansnips/pkg/logger"
)

// File is a stored file's metadata
type File struct {
	ID           string    `json:"$id"`
	BucketID     string    `json:"bucketId"`
	CreatedAt    time.Time `json:"$createdAt"`
	Name         string    `json:"name"`
	MimeType     string    `json:"mimeType"`
	SizeOriginal int64     `json:"sizeOriginal"`
	Signature    string    `json:"signature"`
}

// Bucket is a handle on one storage bucket
type Bucket struct {
	client *Client
	id     string
}

// NewBucket returns a bucket handle
func NewBucket(client *Client, bucketID string) *Bucket {
	return &Bucket{client: client, id: bucketID}
}

// ID returns the bucket id
func (b *Bucket) ID() string {
	return b.id
}

func (b *Bucket) path() string {
	return fmt.Sprintf("/storage/buckets/%s/files", b.id)
}

// Upload stores the file at path
func (b *Bucket) Upload(ctx context.Context, fileID, path string, permissions []string) (*File, error) {
	if fileID == "" {
		fileID = UniqueID()
	}
	logger.Debug("Uploading file", "bucket", b.id, "path", path)

	req := b.client.R(ctx).
		SetFile("file", path).
		SetFormData(map[string]string{"fileId": fileID})
	for _, p := range permissions {
		req.FormData.Add("permissions[]", p)
	}

	resp, err := req.Post(b.path())
	if err := CheckResponse(resp, err); err != nil {
		return nil, fmt.Errorf("upload %s: %w", filepath.Base(path), err)
	}

	var file File
	if err := decode(resp.Body(), &file); err != nil {
		return nil, err
	}
	return &file, nil
}

// UploadReader stores the content of r under name
func (b *Bucket) UploadReader(ctx context.Context, fileID, name string, r io.Reader, permissions []string) (*File, error) {
	if fileID == "" {
		fileID = UniqueID()
	}

	req := b.client.R(ctx).
		SetFileReader("file", name, r).
		SetFormData(map[string]string{"fileId": fileID})
	for _, p := range permissions {
		req.FormData.Add("permissions[]", p)
	}

	resp, err := req.Post(b.path())
	if err := CheckResponse(resp, err); err != nil {
		return nil, fmt.Errorf("upload %s: %w", name, err)
	}

	var file File
	if err := decode(resp.Body(), &file); err != nil {
		return nil, err
	}
	return &file, nil
}

// Get returns file metadata
func (b *Bucket) Get(ctx context.Context, fileID string) (*File, error) {
	var file File
	if _, err := b.client.call(ctx, http.MethodGet, b.path()+"/"+fileID, nil, &file); err != nil {
		return nil, fmt.Errorf("get file %s: %w", fileID, err)
	}
	return &file, nil
}

// Delete removes a file
func (b *Bucket) Delete(ctx context.Context, fileID string) error {
	logger.Debug("Deleting file", "bucket", b.id, "id", fileID)
	if _, err := b.client.call(ctx, http.MethodDelete, b.path()+"/"+fileID, nil, nil); err != nil {
		return fmt.Errorf("delete file %s: %w", fileID, err)
	}
	return nil
}

// ViewURL is the public URL serving the original file
func (b *Bucket) ViewURL(fileID string) string {
	return b.client.fileURL(b.path()+"/"+fileID+"/view", nil)
}

// PreviewURL is the URL of a resized image preview. Zero dimensions keep
// the original size on that axis.
func (b *Bucket) PreviewURL(fileID string, width, height int) string {
	params := map[string]string{}
	if width > 0 {
		params["width"] = strconv.Itoa(width)
	}
	if height > 0 {
		params["height"] = strconv.Itoa(height)
	}
	return b.client.fileURL(b.path()+"/"+fileID+"/preview", params)
}

// DownloadURL is the URL that serves the file as an attachment
func (b *Bucket) DownloadURL(fileID string) string {
	return b.client.fileURL(b.path()+"/"+fileID+"/download", nil)
}
