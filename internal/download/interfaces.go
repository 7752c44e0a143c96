package download

import (
	"context"

	"github.com/ytget/ytfetch/internal/model"
)

// Executor defines the interface for the transfer executor.
type Executor interface {
	SetUpdateCallback(func(Update))
	Fetch(ctx context.Context, itemRef string, desc model.EncodingDescriptor, destDir, baseName string) (string, error)
	FetchPlan(ctx context.Context, itemRef string, plan model.DownloadPlan, destDir string, names Names) (Paths, error)
}

var _ Executor = (*Service)(nil)
