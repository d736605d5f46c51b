package storage

import (
	"context"
	"fmt"
	"strconv"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/container"
)

// MaxListCap bounds a single listing page regardless of configuration.
const MaxListCap int32 = 500

// Metadata describes a stored blob.
type Metadata struct {
	Key          string `json:"key"`
	ContentType  string `json:"content_type"`
	SizeBytes    int64  `json:"size_bytes"`
	LastModified string `json:"last_modified"`
}

// Page is one page of a blob listing. NextMarker is empty on the last page.
type Page struct {
	Blobs      []Metadata `json:"blobs"`
	NextMarker string     `json:"next_marker,omitempty"`
}

// ParseMaxResults parses a max_results query value, falling back to the
// configured default and clamping to MaxListCap.
func ParseMaxResults(s string, fallback int32) (int32, error) {
	if s == "" {
		return fallback, nil
	}

	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid max_results: %q", s)
	}

	return min(int32(n), MaxListCap), nil
}

func (a *azure) List(ctx context.Context, prefix, marker string, maxResults int32) (*Page, error) {
	opts := &azblob.ListBlobsFlatOptions{
		MaxResults: &maxResults,
	}
	if prefix != "" {
		opts.Prefix = &prefix
	}
	if marker != "" {
		opts.Marker = &marker
	}

	pager := a.client.NewListBlobsFlatPager(a.container, opts)
	if !pager.More() {
		return &Page{Blobs: []Metadata{}}, nil
	}

	resp, err := pager.NextPage(ctx)
	if err != nil {
		return nil, fmt.Errorf("list blobs: %w", err)
	}

	page := &Page{Blobs: make([]Metadata, 0, len(resp.Segment.BlobItems))}
	for _, item := range resp.Segment.BlobItems {
		page.Blobs = append(page.Blobs, metadataFromItem(item))
	}
	if resp.NextMarker != nil && *resp.NextMarker != "" {
		page.NextMarker = *resp.NextMarker
	}

	return page, nil
}

func (a *azure) Find(ctx context.Context, key string) (*Metadata, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	blobClient := a.client.
		ServiceClient().
		NewContainerClient(a.container).
		NewBlobClient(key)

	props, err := blobClient.GetProperties(ctx, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("blob properties %s: %w", key, err)
	}

	meta := &Metadata{Key: key}
	if props.ContentType != nil {
		meta.ContentType = *props.ContentType
	}
	if props.ContentLength != nil {
		meta.SizeBytes = *props.ContentLength
	}
	if props.LastModified != nil {
		meta.LastModified = props.LastModified.UTC().Format("2006-01-02T15:04:05Z07:00")
	}

	return meta, nil
}

func metadataFromItem(item *container.BlobItem) Metadata {
	var meta Metadata
	if item.Name != nil {
		meta.Key = *item.Name
	}
	if item.Properties != nil {
		if item.Properties.ContentType != nil {
			meta.ContentType = *item.Properties.ContentType
		}
		if item.Properties.ContentLength != nil {
			meta.SizeBytes = *item.Properties.ContentLength
		}
		if item.Properties.LastModified != nil {
			meta.LastModified = item.Properties.LastModified.UTC().Format("2006-01-02T15:04:05Z07:00")
		}
	}
	return meta
}
