package download

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/ytget/ytfetch/internal/model"
	"github.com/ytget/ytfetch/internal/platform"
	"github.com/ytget/ytfetch/internal/provider"
	"github.com/ytget/ytfetch/internal/tracker"
)

// Update is sent to the update callback after every progress chunk
type Update struct {
	EncodingID      string
	CombinedPercent float64
}

// Names holds the base file names (without extension) for each plan track
type Names struct {
	Video string
	Audio string
}

// Paths holds the local files produced by FetchPlan
type Paths struct {
	Video string
	Audio string
}

// Config configures the transfer executor
type Config struct {
	Provider   provider.Provider
	Tracker    *tracker.Tracker // a new tracker is created when nil
	Concurrent bool             // fetch video and audio in parallel
	Logger     logrus.FieldLogger
}

// Service handles transfer operations
type Service struct {
	provider   provider.Provider
	tracker    *tracker.Tracker
	concurrent bool
	logger     logrus.FieldLogger
	onUpdate   func(Update) // callback for progress updates
}

// NewService creates a new transfer executor
func NewService(cfg Config) *Service {
	if cfg.Tracker == nil {
		cfg.Tracker = tracker.New()
	}
	if cfg.Logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		cfg.Logger = l
	}
	return &Service{
		provider:   cfg.Provider,
		tracker:    cfg.Tracker,
		concurrent: cfg.Concurrent,
		logger:     cfg.Logger,
	}
}

// SetUpdateCallback sets the callback function for progress updates.
// It must be set before fetching starts and may be called from several goroutines.
func (s *Service) SetUpdateCallback(callback func(Update)) {
	s.onUpdate = callback
}

// Tracker returns the tracker fed by this executor
func (s *Service) Tracker() *tracker.Tracker {
	return s.tracker
}

// Fetch downloads one encoding into destDir and returns the local path,
// whose extension matches desc.Container. A partial file is left in place on error.
func (s *Service) Fetch(ctx context.Context, itemRef string, desc model.EncodingDescriptor, destDir, baseName string) (string, error) {
	log := s.logger.WithField("encoding_id", desc.ID)

	if err := platform.EnsureWritableDir(destDir); err != nil {
		return "", &TransferError{Op: OpPrepare, EncodingID: desc.ID, Err: err}
	}

	progress := func(encodingID string, totalBytes, bytesRemaining int64) {
		s.tracker.OnBytes(encodingID, float64(totalBytes), float64(totalBytes-bytesRemaining))
		s.notifyUpdate(Update{EncodingID: encodingID, CombinedPercent: s.tracker.CombinedPercent()})
	}

	log.WithField("container", desc.Container).Info("starting transfer")
	path, err := s.provider.Fetch(ctx, itemRef, desc, destDir, baseName, progress)
	if err != nil {
		log.WithError(err).Warn("transfer failed")
		return "", &TransferError{Op: OpFetch, EncodingID: desc.ID, Err: err}
	}

	path, err = normalizeExtension(path, destDir, baseName, desc.Container)
	if err != nil {
		return "", &TransferError{Op: OpRename, EncodingID: desc.ID, Err: err}
	}

	log.WithField("path", path).Info("transfer finished")
	return path, nil
}

// FetchPlan resets the tracker and downloads every track of the plan.
// With Concurrent set both tracks are fetched in parallel and the first
// failure cancels the other.
func (s *Service) FetchPlan(ctx context.Context, itemRef string, plan model.DownloadPlan, destDir string, names Names) (Paths, error) {
	if plan.IsEmpty() {
		return Paths{}, &TransferError{Op: OpPrepare, Err: errors.New("plan has no tracks")}
	}

	s.tracker.Reset()
	// Seed known sizes so combined progress is weighted from the first chunk.
	for _, t := range plan.Tracks() {
		s.tracker.OnBytes(t.ID, float64(t.ApproxSizeBytes), 0)
	}

	var paths Paths
	fetchVideo := func(ctx context.Context) error {
		if plan.Video == nil {
			return nil
		}
		p, err := s.Fetch(ctx, itemRef, *plan.Video, destDir, names.Video)
		paths.Video = p
		return err
	}
	fetchAudio := func(ctx context.Context) error {
		if plan.Audio == nil {
			return nil
		}
		p, err := s.Fetch(ctx, itemRef, *plan.Audio, destDir, names.Audio)
		paths.Audio = p
		return err
	}

	if s.concurrent && plan.NeedsMerge() {
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error { return fetchVideo(gctx) })
		g.Go(func() error { return fetchAudio(gctx) })
		if err := g.Wait(); err != nil {
			return paths, err
		}
		return paths, nil
	}

	if err := fetchVideo(ctx); err != nil {
		return paths, err
	}
	if err := fetchAudio(ctx); err != nil {
		return paths, err
	}
	return paths, nil
}

// normalizeExtension renames path to destDir/baseName.<container> when the
// provider wrote a different extension.
func normalizeExtension(path, destDir, baseName, container string) (string, error) {
	if container == "" {
		return path, nil
	}
	expected := platform.PathWithExtension(destDir, baseName, container)
	if path == expected {
		return path, nil
	}
	if err := os.Rename(path, expected); err != nil {
		return path, err
	}
	return expected, nil
}

// notifyUpdate calls the update callback if set
func (s *Service) notifyUpdate(update Update) {
	if s.onUpdate != nil {
		s.onUpdate(update)
	}
}
