package model

import (
	"time"
)

// ItemStatus represents the status of a single playlist entry
type ItemStatus string

const (
	ItemStatusPending ItemStatus = "pending"
	ItemStatusRunning ItemStatus = "running"
	ItemStatusDone    ItemStatus = "done"
	ItemStatusFailed  ItemStatus = "failed"
	// Skipped is used when the run was cancelled before the item started
	ItemStatusSkipped ItemStatus = "skipped"
)

// PlaylistItem represents a single entry of an expanded playlist
type PlaylistItem struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	URL        string     `json:"url"`
	Status     ItemStatus `json:"status"`
	Error      string     `json:"error,omitempty"`
	OutputPath string     `json:"output_path,omitempty"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// Playlist is an ordered list of items processed one at a time
type Playlist struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	URL       string          `json:"url"`
	Items     []*PlaylistItem `json:"items"`
	CreatedAt time.Time       `json:"created_at"`
}

// NewPlaylist creates a new playlist instance
func NewPlaylist(url string) *Playlist {
	return &Playlist{
		URL:       url,
		Items:     make([]*PlaylistItem, 0),
		CreatedAt: time.Now(),
	}
}

// AddItem appends an item in pending state
func (p *Playlist) AddItem(item *PlaylistItem) {
	if item.Status == "" {
		item.Status = ItemStatusPending
	}
	item.UpdatedAt = time.Now()
	p.Items = append(p.Items, item)
}

// find returns the item with the given ID or nil
func (p *Playlist) find(itemID string) *PlaylistItem {
	for _, item := range p.Items {
		if item.ID == itemID {
			return item
		}
	}
	return nil
}

// UpdateItemStatus updates the status of a specific item
func (p *Playlist) UpdateItemStatus(itemID string, status ItemStatus, errMsg string) {
	if item := p.find(itemID); item != nil {
		item.Status = status
		item.Error = errMsg
		item.UpdatedAt = time.Now()
	}
}

// UpdateItemOutput records the output path of a finished item
func (p *Playlist) UpdateItemOutput(itemID string, outputPath string) {
	if item := p.find(itemID); item != nil {
		item.OutputPath = outputPath
		item.Status = ItemStatusDone
		item.UpdatedAt = time.Now()
	}
}

// ItemsWithStatus returns all items in the given status
func (p *Playlist) ItemsWithStatus(status ItemStatus) []*PlaylistItem {
	var out []*PlaylistItem
	for _, item := range p.Items {
		if item.Status == status {
			out = append(out, item)
		}
	}
	return out
}

// GetDownloadProgress returns overall progress as percentage of finished items
func (p *Playlist) GetDownloadProgress() float64 {
	if len(p.Items) == 0 {
		return 0
	}

	done := len(p.ItemsWithStatus(ItemStatusDone))
	return float64(done) / float64(len(p.Items)) * 100
}

// HasErrors checks if any item failed
func (p *Playlist) HasErrors() bool {
	return len(p.ItemsWithStatus(ItemStatusFailed)) > 0
}
