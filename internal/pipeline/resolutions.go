package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/ytget/ytfetch/internal/model"
	"github.com/ytget/ytfetch/internal/selector"
)

// ListResolutions lists the quality labels offered for itemRef in container
// and emits ResolutionsFound. Video-only labels are preferred; progressive
// labels are used when the item has no separate video tracks.
func (c *Coordinator) ListResolutions(ctx context.Context, itemRef, container string) ([]string, error) {
	container = strings.ToLower(strings.TrimSpace(container))
	log := c.logger.WithField("ref", itemRef)

	c.events.Emit(model.Status{Text: "Fetching available resolutions..."})
	listing, err := c.catalog.List(ctx, itemRef)
	if err != nil {
		kind, msg := classify(ctx, err)
		log.WithError(err).Warn("listing resolutions failed")
		c.events.Emit(model.Error{Kind: kind, Message: msg})
		return nil, err
	}

	labels := selector.Labels(listing.Encodings, model.SelectionRequest{Kind: model.KindVideo, Container: container})
	if len(labels) == 0 {
		labels = selector.Labels(listing.Encodings, model.SelectionRequest{Kind: model.KindProgressive, Container: container})
	}
	if len(labels) == 0 {
		err := fmt.Errorf("%w: no %s resolutions", selector.ErrNotFound, displayContainer(container))
		c.events.Emit(model.Error{
			Kind:    model.ErrorSelection,
			Message: fmt.Sprintf("No resolutions found for %s. Try another format.", displayContainer(container)),
		})
		return nil, err
	}

	log.WithField("labels", labels).Debug("resolutions found")
	c.events.Emit(model.ResolutionsFound{Title: listing.Title, Labels: labels})
	return labels, nil
}

func displayContainer(container string) string {
	if container == "" {
		return "any format"
	}
	return container
}
