package merge

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ytget/ytfetch/internal/model"
	"github.com/ytget/ytfetch/internal/platform"
)

// FFmpeg constants for remux settings
const (
	// Executable
	FFmpegCommand = "ffmpeg"

	// Global flags
	OverwriteFlag = "-y"
	LogLevelFlag  = "-loglevel"
	LogLevelError = "error"
	InputFlag     = "-i"

	// Codec selection
	VideoCodecFlag = "-c:v"
	AudioCodecFlag = "-c:a"
	StrictFlag     = "-strict"
	StrictLevel    = "-2" // allow the native aac encoder on old builds

	// Output container of merged files
	DefaultOutputContainer = "mp4"

	// Diagnostics
	MaxDiagnosticBytes = 512

	JobIDPrefix = "merge-"
)

// Result describes a finished merge or conversion
type Result struct {
	JobID      string
	OutputPath string
	Warnings   []string // cleanup problems that did not fail the job
}

// Config configures the merge service
type Config struct {
	FFmpegPath string // binary name or path; defaults to FFmpegCommand
	Logger     logrus.FieldLogger
}

// Service runs the remux tool
type Service struct {
	tool   string
	logger logrus.FieldLogger
}

// NewService creates a new merge service
func NewService(cfg Config) *Service {
	if cfg.FFmpegPath == "" {
		cfg.FFmpegPath = FFmpegCommand
	}
	if cfg.Logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		cfg.Logger = l
	}
	return &Service{tool: cfg.FFmpegPath, logger: cfg.Logger}
}

// CheckTool reports whether the remux tool can be found
func (s *Service) CheckTool() error {
	if _, err := exec.LookPath(s.tool); err != nil {
		return &Error{Kind: KindToolMissing, Err: err}
	}
	return nil
}

// Merge combines the job's video and audio into OutputPath.
// On success both inputs are removed; on failure they are left untouched.
func (s *Service) Merge(ctx context.Context, job model.MergeJob) (Result, error) {
	if job.ID == "" {
		job.ID = generateJobID()
	}
	log := s.logger.WithFields(logrus.Fields{"job_id": job.ID, "output": job.OutputPath})
	log.Info("merging tracks")

	if err := s.run(ctx, s.BuildFFmpegArgs(job), job.OutputPath); err != nil {
		log.WithError(err).Warn("merge failed, inputs preserved")
		return Result{JobID: job.ID}, err
	}

	result := Result{JobID: job.ID, OutputPath: job.OutputPath}
	result.Warnings = removeInputs(log, job.VideoPath, job.AudioPath)
	log.Info("merge finished")
	return result, nil
}

// Convert re-muxes a single audio file into the container implied by outputPath.
// The input is removed only after a successful conversion.
func (s *Service) Convert(ctx context.Context, inputPath, outputPath string) (Result, error) {
	jobID := generateJobID()
	log := s.logger.WithFields(logrus.Fields{"job_id": jobID, "output": outputPath})
	log.Info("converting audio")

	if err := s.run(ctx, BuildConvertArgs(inputPath, outputPath), outputPath); err != nil {
		log.WithError(err).Warn("conversion failed, input preserved")
		return Result{JobID: jobID}, err
	}

	result := Result{JobID: jobID, OutputPath: outputPath}
	result.Warnings = removeInputs(log, inputPath)
	return result, nil
}

// BuildFFmpegArgs builds the ffmpeg arguments for a merge job
func (s *Service) BuildFFmpegArgs(job model.MergeJob) []string {
	videoMode := job.VideoCodecMode
	if videoMode == "" {
		videoMode = model.CodecCopy
	}
	audioMode := job.AudioCodecMode
	if audioMode == "" {
		audioMode = model.CodecAAC
	}
	return []string{
		OverwriteFlag,               // Overwrite output file
		LogLevelFlag, LogLevelError, // Only errors on stderr
		InputFlag, job.VideoPath,
		InputFlag, job.AudioPath,
		VideoCodecFlag, string(videoMode),
		AudioCodecFlag, string(audioMode),
		StrictFlag, StrictLevel,
		job.OutputPath,
	}
}

// BuildConvertArgs builds the ffmpeg arguments for a container conversion
func BuildConvertArgs(inputPath, outputPath string) []string {
	return []string{
		OverwriteFlag,
		LogLevelFlag, LogLevelError,
		InputFlag, inputPath,
		outputPath,
	}
}

// run starts the tool once and classifies the outcome
func (s *Service) run(ctx context.Context, args []string, outputPath string) error {
	toolPath, err := exec.LookPath(s.tool)
	if err != nil {
		return &Error{Kind: KindToolMissing, Err: err}
	}

	if dir := filepath.Dir(outputPath); dir != "" {
		if err := platform.CreateDirectoryIfNotExists(dir); err != nil {
			return &Error{Kind: KindPrepare, Err: fmt.Errorf("create output dir: %w", err)}
		}
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, toolPath, args...)
	cmd.Stderr = &stderr

	started := time.Now()
	runErr := cmd.Run()
	s.logger.WithField("elapsed", time.Since(started).Round(time.Millisecond)).Debug("remux tool exited")

	if ctxErr := ctx.Err(); ctxErr != nil {
		_ = os.Remove(outputPath)
		return fmt.Errorf("remux interrupted: %w", ctxErr)
	}

	if runErr != nil {
		var exitErr *exec.ExitError
		switch {
		case errors.As(runErr, &exitErr):
			_ = os.Remove(outputPath)
			return &Error{
				Kind:       KindNonZeroExit,
				Code:       exitErr.ExitCode(),
				Diagnostic: diagnostic(stderr.Bytes()),
				Err:        runErr,
			}
		case errors.Is(runErr, exec.ErrNotFound), errors.Is(runErr, os.ErrNotExist):
			return &Error{Kind: KindToolMissing, Err: runErr}
		default:
			return &Error{Kind: KindNonZeroExit, Code: -1, Err: runErr}
		}
	}

	info, err := os.Stat(outputPath)
	if err != nil {
		return &Error{Kind: KindOutputMissing, Err: err}
	}
	if info.Size() == 0 {
		return &Error{Kind: KindOutputMissing, Err: fmt.Errorf("%s is empty", outputPath)}
	}
	return nil
}

// diagnostic returns the last non-empty stderr line, or the start of stderr
// when no line has content. The result is bounded to MaxDiagnosticBytes.
func diagnostic(stderr []byte) string {
	lines := strings.Split(string(stderr), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return truncate(line, MaxDiagnosticBytes)
		}
	}
	return truncate(string(stderr), MaxDiagnosticBytes)
}

// truncate cuts s to at most n bytes without splitting a rune
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := n
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// removeInputs deletes intermediate files and reports failures as warnings
func removeInputs(log logrus.FieldLogger, paths ...string) []string {
	var warnings []string
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			msg := fmt.Sprintf("could not remove %s: %v", filepath.Base(p), err)
			log.Warn(msg)
			warnings = append(warnings, msg)
		}
	}
	return warnings
}

// generateJobID generates a unique job ID using UUID v7 for time ordering
func generateJobID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to timestamp if UUID generation fails
		return fmt.Sprintf(JobIDPrefix+"%d", time.Now().UnixNano())
	}
	return JobIDPrefix + id.String()
}
