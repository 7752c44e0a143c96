package ui

import (
	"context"

	"github.com/ytget/ytfetch/internal/model"
	"github.com/ytget/ytfetch/internal/pipeline"
)

// Pipeline is the part of the coordinator the window drives
type Pipeline interface {
	Events() *pipeline.Queue
	Start(ctx context.Context, req model.DownloadRequest) <-chan pipeline.Result
	ListResolutions(ctx context.Context, itemRef, container string) ([]string, error)
}
