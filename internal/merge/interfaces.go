package merge

import (
	"context"

	"github.com/ytget/ytfetch/internal/model"
)

// Merger defines the interface for the merge service.
type Merger interface {
	CheckTool() error
	Merge(ctx context.Context, job model.MergeJob) (Result, error)
	Convert(ctx context.Context, inputPath, outputPath string) (Result, error)
}

var _ Merger = (*Service)(nil)
