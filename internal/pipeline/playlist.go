package pipeline

import (
	"context"
	"fmt"

	"github.com/ytget/ytfetch/internal/model"
)

// RunPlaylist runs the pending items of pl one after another. Each item gets
// a copy of tmpl with its own ID and reference. Items that have not started
// when ctx is done are marked skipped.
func (c *Coordinator) RunPlaylist(ctx context.Context, pl *model.Playlist, tmpl model.DownloadRequest) []Result {
	log := c.logger.WithField("playlist_id", pl.ID)
	results := make([]Result, 0, len(pl.Items))

	for i, item := range pl.Items {
		if item.Status != model.ItemStatusPending {
			continue
		}
		if err := ctx.Err(); err != nil {
			pl.UpdateItemStatus(item.ID, model.ItemStatusSkipped, err.Error())
			continue
		}

		req := tmpl
		req.ID = model.NewRequestID()
		req.ItemRef = item.URL

		c.events.Emit(model.Status{Text: fmt.Sprintf("Playlist item %d/%d: %s", i+1, len(pl.Items), item.Title)})
		pl.UpdateItemStatus(item.ID, model.ItemStatusRunning, "")

		res := c.Run(ctx, req)
		if res.Err != nil {
			pl.UpdateItemStatus(item.ID, model.ItemStatusFailed, res.Err.Error())
			log.WithError(res.Err).WithField("item_id", item.ID).Warn("playlist item failed")
		} else {
			pl.UpdateItemOutput(item.ID, res.OutputPath)
		}
		results = append(results, res)
	}

	log.WithFields(map[string]any{
		"done":   len(pl.ItemsWithStatus(model.ItemStatusDone)),
		"failed": len(pl.ItemsWithStatus(model.ItemStatusFailed)),
	}).Info("playlist finished")
	return results
}
