package provider

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/lrstanley/go-ytdlp"
	"github.com/sirupsen/logrus"

	"github.com/ytget/ytfetch/internal/model"
	"github.com/ytget/ytfetch/internal/platform"
)

// Defaults for the yt-dlp provider
const (
	DefaultExecutable       = "yt-dlp"
	DefaultProgressInterval = 500 * time.Millisecond
)

// Config configures the yt-dlp provider
type Config struct {
	Executable       string        // yt-dlp binary name or path
	ProgressInterval time.Duration // minimum time between progress callbacks
	Logger           logrus.FieldLogger
}

// YTDLP is a Provider backed by the yt-dlp command line tool
type YTDLP struct {
	executable string
	interval   time.Duration
	logger     logrus.FieldLogger
}

// NewYTDLP creates a yt-dlp provider, filling unset fields with defaults
func NewYTDLP(cfg Config) *YTDLP {
	if cfg.Executable == "" {
		cfg.Executable = DefaultExecutable
	}
	if cfg.ProgressInterval <= 0 {
		cfg.ProgressInterval = DefaultProgressInterval
	}
	if cfg.Logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		cfg.Logger = l
	}
	return &YTDLP{
		executable: cfg.Executable,
		interval:   cfg.ProgressInterval,
		logger:     cfg.Logger,
	}
}

// command returns a fresh yt-dlp command using the configured binary
func (y *YTDLP) command() *ytdlp.Command {
	dl := ytdlp.New()
	if y.executable != DefaultExecutable {
		dl.SetExecutable(y.executable)
	}
	return dl
}

// List dumps the item info JSON without downloading and converts its formats
func (y *YTDLP) List(ctx context.Context, itemRef string) (Listing, error) {
	dl := y.command().
		DumpSingleJSON().
		SkipDownload().
		NoPlaylist()

	y.logger.WithField("ref", itemRef).Debug("listing formats")

	result, err := dl.Run(ctx, itemRef)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		return Listing{}, &Error{Op: OpList, Ref: itemRef, Err: err}
	}
	if result == nil {
		return Listing{}, &Error{Op: OpList, Ref: itemRef, Err: errors.New("empty result")}
	}

	listing, err := parseListing(result.Stdout)
	if err != nil {
		return Listing{}, &Error{Op: OpParse, Ref: itemRef, Err: err}
	}
	if len(listing.Encodings) == 0 {
		return listing, &Error{Op: OpParse, Ref: itemRef, Err: ErrNoFormats}
	}
	return listing, nil
}

// Fetch downloads exactly one format into destDir/baseName.<ext>
func (y *YTDLP) Fetch(ctx context.Context, itemRef string, desc model.EncodingDescriptor, destDir, baseName string, progress ProgressFunc) (string, error) {
	template := filepath.Join(destDir, escapeTemplate(baseName)+".%(ext)s")

	dl := y.command().
		Format(desc.ID).
		NoPlaylist().
		ForceOverwrites().
		Output(template)

	// reported holds the file name yt-dlp announced for this run
	var (
		mu       sync.Mutex
		reported string
	)
	dl.ProgressFunc(y.interval, func(update ytdlp.ProgressUpdate) {
		if update.Filename != "" {
			mu.Lock()
			reported = update.Filename
			mu.Unlock()
		}
		if progress == nil {
			return
		}
		total := int64(update.TotalBytes)
		downloaded := int64(update.DownloadedBytes)
		if total <= 0 && desc.ApproxSizeBytes > 0 {
			total = desc.ApproxSizeBytes
		}
		progress(desc.ID, total, max(total-downloaded, 0))
	})

	log := y.logger.WithFields(logrus.Fields{"ref": itemRef, "encoding_id": desc.ID})
	log.Debug("fetching encoding")

	if _, err := dl.Run(ctx, itemRef); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		return "", &Error{Op: OpFetch, Ref: itemRef, Err: err}
	}

	mu.Lock()
	announced := reported
	mu.Unlock()
	path, err := resolveOutput(announced, destDir, baseName, desc.Container)
	if err != nil {
		return "", &Error{Op: OpFetch, Ref: itemRef, Err: fmt.Errorf("output not found: %w", err)}
	}

	if progress != nil {
		// Report completion even if the last progress line was throttled
		if size := fileSize(path); size > 0 {
			progress(desc.ID, size, 0)
		}
	}

	log.WithField("path", path).Debug("encoding fetched")
	return path, nil
}

// resolveOutput picks the file written by this fetch. The name yt-dlp
// announced wins when it is a finished file of this base name; otherwise
// base.<container> is preferred over older siblings.
func resolveOutput(announced, destDir, baseName, container string) (string, error) {
	if announced != "" {
		announced = strings.TrimSuffix(announced, ".part")
		if !filepath.IsAbs(announced) && filepath.Dir(announced) == "." {
			announced = filepath.Join(destDir, announced)
		}
		name := filepath.Base(announced)
		if strings.HasPrefix(name, baseName+".") && !strings.Contains(strings.TrimPrefix(name, baseName+"."), ".") {
			if info, err := os.Stat(announced); err == nil && info.Mode().IsRegular() {
				return announced, nil
			}
		}
	}
	return platform.FindOutputFile(destDir, baseName, container)
}

// escapeTemplate protects literal percent signs from yt-dlp template expansion
func escapeTemplate(name string) string {
	return strings.ReplaceAll(name, "%", "%%")
}

func fileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}
