package provider

import (
	"context"

	"github.com/ytget/ytfetch/internal/model"
)

// ProgressFunc receives byte counts for one encoding while it is fetched
type ProgressFunc func(encodingID string, totalBytes, bytesRemaining int64)

// Listing is one catalog snapshot of an item
type Listing struct {
	Title     string
	Encodings []model.EncodingDescriptor
}

// Provider defines the remote source used by the catalog and the executor.
type Provider interface {
	// List returns every encoding available for itemRef
	List(ctx context.Context, itemRef string) (Listing, error)

	// Fetch writes the encoding into destDir as baseName.<ext> and returns the path
	Fetch(ctx context.Context, itemRef string, desc model.EncodingDescriptor, destDir, baseName string, progress ProgressFunc) (string, error)
}
