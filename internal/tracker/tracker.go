package tracker

import (
	"math"
	"sort"
	"sync"

	"github.com/ytget/ytfetch/internal/model"
)

// Tracker holds the transfer state of every encoding of the current request
type Tracker struct {
	mu     sync.Mutex
	states map[string]model.TransferState
}

// New creates an empty tracker
func New() *Tracker {
	return &Tracker{states: make(map[string]model.TransferState)}
}

// OnBytes replaces the state of one encoding.
// NaN, infinite and negative values are stored as zero. When the total is
// known, downloaded is capped at it.
func (t *Tracker) OnBytes(encodingID string, total, downloaded float64) {
	total, downloaded = sanitize(total), sanitize(downloaded)
	if total > 0 && downloaded > total {
		downloaded = total
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.states[encodingID] = model.TransferState{
		EncodingID:      encodingID,
		TotalBytes:      total,
		DownloadedBytes: downloaded,
	}
}

// CombinedPercent returns sum(downloaded)/sum(total)*100 clamped to [0,100].
// It is zero while no total is known.
func (t *Tracker) CombinedPercent() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	// Sums are taken relative to the largest value so huge sizes cannot overflow.
	var scale float64
	for _, s := range t.states {
		scale = max(scale, s.TotalBytes, s.DownloadedBytes)
	}
	if scale <= 0 {
		return 0
	}

	var total, downloaded float64
	for _, s := range t.states {
		total += s.TotalBytes / scale
		downloaded += s.DownloadedBytes / scale
	}
	if total <= 0 {
		return 0
	}

	pct := downloaded / total * 100
	switch {
	case math.IsNaN(pct), pct < 0:
		return 0
	case math.IsInf(pct, 1), pct > 100:
		return 100
	}
	return pct
}

// Reset forgets every transfer
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	clear(t.states)
}

// Snapshot returns a copy of all states ordered by encoding ID
func (t *Tracker) Snapshot() []model.TransferState {
	t.mu.Lock()
	out := make([]model.TransferState, 0, len(t.states))
	for _, s := range t.states {
		out = append(out, s)
	}
	t.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].EncodingID < out[j].EncodingID })
	return out
}

func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
