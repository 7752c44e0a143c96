package catalog

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ytget/ytfetch/internal/provider"
)

// ErrEmptyCatalog is returned when an item has no encodings at all
var ErrEmptyCatalog = errors.New("item has no encodings")

// Service queries the provider for item encodings
type Service struct {
	provider provider.Provider
	timeout  time.Duration
	logger   logrus.FieldLogger
}

// Config configures the catalog service
type Config struct {
	Provider provider.Provider
	Timeout  time.Duration // zero disables the per-call timeout
	Logger   logrus.FieldLogger
}

// NewService creates a catalog service
func NewService(cfg Config) *Service {
	if cfg.Logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		cfg.Logger = l
	}
	return &Service{
		provider: cfg.Provider,
		timeout:  cfg.Timeout,
		logger:   cfg.Logger,
	}
}

// List returns the encodings of itemRef.
// Failures are *provider.Error; an empty listing wraps ErrEmptyCatalog.
func (s *Service) List(ctx context.Context, itemRef string) (provider.Listing, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	listing, err := s.provider.List(ctx, itemRef)
	if err != nil {
		var perr *provider.Error
		if !errors.As(err, &perr) {
			err = &provider.Error{Op: provider.OpList, Ref: itemRef, Err: err}
		}
		if errors.Is(err, provider.ErrNoFormats) {
			err = &provider.Error{Op: provider.OpList, Ref: itemRef, Err: ErrEmptyCatalog}
		}
		return provider.Listing{}, err
	}
	if len(listing.Encodings) == 0 {
		return provider.Listing{}, &provider.Error{Op: provider.OpList, Ref: itemRef, Err: ErrEmptyCatalog}
	}

	s.logger.WithFields(logrus.Fields{
		"ref":       itemRef,
		"title":     listing.Title,
		"encodings": len(listing.Encodings),
	}).Debug("catalog listed")
	return listing, nil
}
