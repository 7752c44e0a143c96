package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ytget/ytfetch/internal/download"
	"github.com/ytget/ytfetch/internal/merge"
	"github.com/ytget/ytfetch/internal/model"
	"github.com/ytget/ytfetch/internal/platform"
	"github.com/ytget/ytfetch/internal/provider"
	"github.com/ytget/ytfetch/internal/selector"
)

// File name suffixes of intermediate tracks
const (
	VideoSuffix  = ".video"
	AudioSuffix  = ".audio"
	SourceSuffix = ".source"
)

// Catalog lists the encodings of an item
type Catalog interface {
	List(ctx context.Context, itemRef string) (provider.Listing, error)
}

// Config wires the coordinator to its collaborators
type Config struct {
	Catalog         Catalog
	Executor        download.Executor
	Merger          merge.Merger
	Events          *Queue // created when nil
	OutputContainer string // container of merged files, default mp4
	Logger          logrus.FieldLogger
}

// Result is the outcome of one request
type Result struct {
	RequestID   string
	State       model.PipelineState
	OutputPath  string
	Err         error
	Transitions []model.PipelineState
}

// Coordinator runs download requests one at a time
type Coordinator struct {
	catalog         Catalog
	executor        download.Executor
	merger          merge.Merger
	events          *Queue
	outputContainer string
	logger          logrus.FieldLogger
}

// NewCoordinator creates a coordinator and hooks executor progress into its event queue
func NewCoordinator(cfg Config) *Coordinator {
	if cfg.Events == nil {
		cfg.Events = NewQueue()
	}
	if cfg.OutputContainer == "" {
		cfg.OutputContainer = merge.DefaultOutputContainer
	}
	if cfg.Logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		cfg.Logger = l
	}

	c := &Coordinator{
		catalog:         cfg.Catalog,
		executor:        cfg.Executor,
		merger:          cfg.Merger,
		events:          cfg.Events,
		outputContainer: strings.TrimPrefix(strings.ToLower(cfg.OutputContainer), "."),
		logger:          cfg.Logger,
	}
	c.executor.SetUpdateCallback(func(u download.Update) {
		c.events.Emit(model.Progress{Percent: u.CombinedPercent})
	})
	return c
}

// Events returns the queue every request reports on
func (c *Coordinator) Events() *Queue {
	return c.events
}

// Start runs the request on its own goroutine and delivers the result once
func (c *Coordinator) Start(ctx context.Context, req model.DownloadRequest) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		defer close(out)
		out <- c.Run(ctx, req)
	}()
	return out
}

// Run executes one request synchronously. Exactly one terminal event,
// Done or Error, is emitted per call.
func (c *Coordinator) Run(ctx context.Context, req model.DownloadRequest) Result {
	if req.ID == "" {
		req.ID = model.NewRequestID()
	}
	r := &run{
		c:      c,
		ctx:    ctx,
		req:    req,
		state:  model.StateIdle,
		log:    c.logger.WithField("request_id", req.ID),
		result: Result{RequestID: req.ID, State: model.StateIdle},
	}
	r.execute()
	r.result.State = r.state
	return r.result
}

// run carries the state of one request
type run struct {
	c      *Coordinator
	ctx    context.Context
	req    model.DownloadRequest
	state  model.PipelineState
	log    logrus.FieldLogger
	result Result
}

func (r *run) execute() {
	if err := r.req.Validate(); err != nil {
		r.fail(err)
		return
	}

	if !r.transition(model.StateResolving) {
		return
	}
	r.status("Fetching stream info...")
	listing, err := r.c.catalog.List(r.ctx, r.req.ItemRef)
	if err != nil {
		r.fail(err)
		return
	}
	r.log.WithField("encodings", len(listing.Encodings)).Debug("catalog ready")

	if !r.transition(model.StateSelecting) {
		return
	}
	plan, err := BuildPlan(listing.Encodings, r.req)
	if err != nil {
		r.fail(err)
		return
	}
	if plan.Fallback != "" {
		r.status(plan.Fallback)
		r.log.WithField("fallback", plan.Fallback).Info("fallback plan selected")
	}
	if err := r.ctx.Err(); err != nil {
		r.fail(err)
		return
	}

	if !r.transition(model.StateFetching) {
		return
	}
	safe := platform.SanitizeFilename(listing.Title)
	convert := NeedsConversion(plan, r.req.AudioFormat)
	names := trackNames(plan, safe, convert)
	r.status(fetchingText(plan, listing.Title))

	paths, err := r.c.executor.FetchPlan(r.ctx, r.req.ItemRef, plan, r.req.Folder, names)
	if err != nil {
		r.fail(err)
		return
	}

	output := paths.Video
	if output == "" {
		output = paths.Audio
	}

	if plan.NeedsMerge() {
		if !r.transition(model.StateMerging) {
			return
		}
		r.status("Merging video and audio...")
		job := model.NewMergeJob(paths.Video, paths.Audio, platform.PathWithExtension(r.req.Folder, safe, r.c.outputContainer))
		res, err := r.c.merger.Merge(r.ctx, job)
		if err != nil {
			r.fail(err)
			return
		}
		r.warn(res.Warnings)
		output = res.OutputPath
	} else if convert {
		output = r.convert(paths.Audio, platform.PathWithExtension(r.req.Folder, safe, r.req.AudioFormat))
	}

	if !r.transition(model.StateDone) {
		return
	}
	r.result.OutputPath = output
	r.c.events.Emit(model.Progress{Percent: 100})
	r.c.events.Emit(model.Done{Path: output})
	r.log.WithField("path", output).Info("request finished")
}

// convert re-muxes an audio-only download. Failure keeps the source file
// and is reported as a status, not as a request failure.
func (r *run) convert(source, target string) string {
	r.status(fmt.Sprintf("Converting audio to %s...", strings.ToLower(r.req.AudioFormat)))
	res, err := r.c.merger.Convert(r.ctx, source, target)
	if err != nil {
		r.log.WithError(err).Warn("audio conversion failed")
		r.status(fmt.Sprintf("Audio conversion failed, kept original file %s: %v", filepath.Base(source), err))
		return source
	}
	r.warn(res.Warnings)
	return res.OutputPath
}

func (r *run) transition(next model.PipelineState) bool {
	if !r.state.CanTransitionTo(next) {
		r.fail(fmt.Errorf("illegal state transition %s -> %s", r.state, next))
		return false
	}
	r.log.WithFields(logrus.Fields{"from": r.state, "to": next}).Debug("state transition")
	r.state = next
	r.result.Transitions = append(r.result.Transitions, next)
	return true
}

func (r *run) fail(err error) {
	kind, msg := classify(r.ctx, err)
	r.result.Err = err
	if r.state.CanTransitionTo(model.StateFailed) {
		r.state = model.StateFailed
		r.result.Transitions = append(r.result.Transitions, model.StateFailed)
	}
	r.log.WithError(err).WithField("kind", kind).Error("request failed")
	r.c.events.Emit(model.Error{Kind: kind, Message: msg})
}

func (r *run) status(text string) {
	r.c.events.Emit(model.Status{Text: text})
}

func (r *run) warn(warnings []string) {
	for _, w := range warnings {
		r.log.Warn(w)
		r.status("Warning: " + w)
	}
}

// trackNames returns the base names used for each track of the plan
func trackNames(plan model.DownloadPlan, safe string, convert bool) download.Names {
	if plan.NeedsMerge() {
		return download.Names{Video: safe + VideoSuffix, Audio: safe + AudioSuffix}
	}
	if convert {
		return download.Names{Audio: safe + SourceSuffix}
	}
	return download.Names{Video: safe, Audio: safe}
}

func fetchingText(plan model.DownloadPlan, title string) string {
	switch {
	case plan.NeedsMerge():
		return fmt.Sprintf("Downloading video and audio: %s", title)
	case plan.Video != nil:
		return fmt.Sprintf("Downloading video: %s", title)
	default:
		return fmt.Sprintf("Downloading audio: %s", title)
	}
}

// classify maps an error to exactly one event kind and a user-facing message
func classify(ctx context.Context, err error) (model.ErrorKind, string) {
	var (
		mergeErr    *merge.Error
		transferErr *download.TransferError
		providerErr *provider.Error
	)

	switch {
	case errors.Is(err, context.Canceled) || (ctx != nil && errors.Is(ctx.Err(), context.Canceled)):
		return model.ErrorCancelled, "Download cancelled"
	case errors.As(err, &mergeErr):
		if mergeErr.Kind == merge.KindToolMissing {
			return model.ErrorMerge, "ffmpeg not found. Install ffmpeg to merge video and audio."
		}
		return model.ErrorMerge, "Merge failed: " + mergeErr.Error()
	case errors.As(err, &transferErr):
		return model.ErrorTransfer, "Download failed: " + transferErr.Error()
	case errors.Is(err, selector.ErrNotFound):
		return model.ErrorSelection, "No matching stream: " + err.Error() + ". Try another quality or format."
	case errors.As(err, &providerErr):
		return model.ErrorProvider, "Could not fetch stream info: " + providerErr.Error()
	default:
		return model.ErrorInternal, err.Error()
	}
}
