package ui

import (
	"context"
	"errors"
	"sync"
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/ytfetch/internal/config"
	"github.com/ytget/ytfetch/internal/model"
	"github.com/ytget/ytfetch/internal/pipeline"
)

type fakePipeline struct {
	mu        sync.Mutex
	events    *pipeline.Queue
	requests  []model.DownloadRequest
	listed    []string
	started   chan model.DownloadRequest
	listCalls chan string
}

func newFakePipeline() *fakePipeline {
	return &fakePipeline{
		events:    pipeline.NewQueue(),
		started:   make(chan model.DownloadRequest, 1),
		listCalls: make(chan string, 1),
	}
}

func (f *fakePipeline) Events() *pipeline.Queue { return f.events }

func (f *fakePipeline) Start(_ context.Context, req model.DownloadRequest) <-chan pipeline.Result {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()
	f.started <- req
	out := make(chan pipeline.Result, 1)
	out <- pipeline.Result{RequestID: req.ID, State: model.StateDone}
	close(out)
	return out
}

func (f *fakePipeline) ListResolutions(_ context.Context, itemRef, container string) ([]string, error) {
	f.listCalls <- itemRef + "|" + container
	return nil, errors.New("not needed")
}

func testSettings(dir string) config.Settings {
	return config.Settings{
		Download: config.DownloadSettings{Dir: dir, Type: "both", VideoFormat: "mp4", AudioFormat: "m4a"},
		UI:       config.UISettings{Language: "en", AutoReveal: true},
	}
}

func newTestUI(t *testing.T) (*RootUI, *fakePipeline, *[]string) {
	t.Helper()
	test.NewApp()
	w := test.NewWindow(nil)
	t.Cleanup(w.Close)

	fp := newFakePipeline()
	ui := NewRootUI(w, Options{Pipeline: fp, Settings: testSettings(t.TempDir())})
	var revealed []string
	ui.reveal = func(path string) error {
		revealed = append(revealed, path)
		return nil
	}
	return ui, fp, &revealed
}

func TestNewRootUIDefaults(t *testing.T) {
	ui, _, _ := newTestUI(t)

	assert.Equal(t, "both", ui.typeSelect.Selected)
	assert.Equal(t, "mp4", ui.videoFormatSelect.Selected)
	assert.Equal(t, "m4a", ui.audioFormatSelect.Selected)
	assert.True(t, ui.audioFormatSelect.Disabled())
	assert.Equal(t, QualityBest, ui.selectedQuality())
	assert.Equal(t, "Ready", ui.statusLabel.Text)
	assert.True(t, ui.cancelBtn.Disabled())
}

func TestTypeChangeTogglesSelects(t *testing.T) {
	ui, _, _ := newTestUI(t)

	ui.typeSelect.SetSelected("audio")
	assert.True(t, ui.videoFormatSelect.Disabled())
	assert.True(t, ui.qualitySelect.Disabled())
	assert.False(t, ui.audioFormatSelect.Disabled())

	ui.typeSelect.SetSelected("video")
	assert.False(t, ui.videoFormatSelect.Disabled())
	assert.True(t, ui.audioFormatSelect.Disabled())
}

func TestApplyEvent(t *testing.T) {
	ui, _, revealed := newTestUI(t)

	ui.applyEvent(model.Status{Text: "Fetching video info..."})
	assert.Equal(t, "Fetching video info...", ui.statusLabel.Text)

	ui.applyEvent(model.Progress{Percent: 50})
	assert.InDelta(t, 0.5, ui.progress.Value, 0.0001)

	ui.applyEvent(model.ResolutionsFound{Title: "Clip", Labels: []string{"1080p", "720p"}})
	assert.Equal(t, []string{"Best available", "1080p", "720p"}, ui.qualitySelect.Options)
	assert.Contains(t, ui.statusLabel.Text, "1080p, 720p")

	ui.setBusy(true)
	ui.applyEvent(model.Done{Path: "/tmp/out/Clip.mp4"})
	assert.InDelta(t, 1.0, ui.progress.Value, 0.0001)
	assert.Contains(t, ui.statusLabel.Text, "/tmp/out/Clip.mp4")
	assert.False(t, ui.busy)
	assert.False(t, ui.downloadBtn.Disabled())
	assert.Equal(t, []string{"/tmp/out/Clip.mp4"}, *revealed)
}

func TestApplyErrorReleasesControls(t *testing.T) {
	ui, _, revealed := newTestUI(t)
	cancelled := false
	ui.cancel = func() { cancelled = true }
	ui.setBusy(true)
	require.True(t, ui.downloadBtn.Disabled())

	ui.applyEvent(model.Error{Kind: model.ErrorMerge, Message: "ffmpeg exited with code 1"})

	assert.Contains(t, ui.statusLabel.Text, "ffmpeg exited with code 1")
	assert.False(t, ui.busy)
	assert.True(t, cancelled)
	assert.Nil(t, ui.cancel)
	assert.Empty(t, *revealed)
}

func TestSelectedQualityKeepsChoiceAcrossRefresh(t *testing.T) {
	ui, _, _ := newTestUI(t)
	ui.applyEvent(model.ResolutionsFound{Labels: []string{"1080p", "720p"}})
	ui.qualitySelect.SetSelected("720p")

	ui.applyEvent(model.ResolutionsFound{Labels: []string{"720p", "360p"}})
	assert.Equal(t, "720p", ui.selectedQuality())

	ui.applyEvent(model.ResolutionsFound{Labels: []string{"480p"}})
	assert.Equal(t, QualityBest, ui.selectedQuality())
}

func TestDownloadClick(t *testing.T) {
	ui, fp, _ := newTestUI(t)

	ui.onDownloadClick()
	assert.Equal(t, "Please enter a URL", ui.statusLabel.Text)

	ui.urlEntry.SetText("ftp://example.com/clip")
	ui.onDownloadClick()
	assert.Contains(t, ui.statusLabel.Text, "Invalid URL")

	ui.applyEvent(model.ResolutionsFound{Labels: []string{"1080p", "720p"}})
	ui.qualitySelect.SetSelected("720p")
	ui.urlEntry.SetText(" https://example.com/watch?v=abc ")
	ui.onDownloadClick()

	req := <-fp.started
	assert.Equal(t, "https://example.com/watch?v=abc", req.ItemRef)
	assert.Equal(t, model.TypeBoth, req.Type)
	assert.Equal(t, "720p", req.Quality)
	assert.Equal(t, "mp4", req.VideoFormat)
	assert.Equal(t, ui.settings.Download.Dir, req.Folder)
	assert.True(t, ui.busy)
	assert.False(t, ui.cancelBtn.Disabled())

	// a second click while busy is ignored
	ui.onDownloadClick()
	assert.Len(t, fp.started, 0)
}

func TestAudioRequestIgnoresQuality(t *testing.T) {
	ui, _, _ := newTestUI(t)
	ui.applyEvent(model.ResolutionsFound{Labels: []string{"1080p"}})
	ui.qualitySelect.SetSelected("1080p")
	ui.typeSelect.SetSelected("audio")
	ui.audioFormatSelect.SetSelected("mp3")

	req := ui.buildRequest("https://example.com/watch?v=abc")
	assert.Equal(t, model.TypeAudio, req.Type)
	assert.Equal(t, "mp3", req.AudioFormat)
	assert.Empty(t, req.Quality)
}

func TestCancelClick(t *testing.T) {
	ui, _, _ := newTestUI(t)
	ui.onCancelClick()

	cancelled := false
	ui.cancel = func() { cancelled = true }
	ui.onCancelClick()
	assert.True(t, cancelled)
	assert.Equal(t, "Cancelling...", ui.statusLabel.Text)
}

func TestFetchResolutionsUsesVideoFormat(t *testing.T) {
	ui, fp, _ := newTestUI(t)
	ui.videoFormatSelect.SetSelected("webm")
	ui.urlEntry.SetText("https://example.com/watch?v=abc")

	ui.onFetchResolutions()
	assert.Equal(t, "https://example.com/watch?v=abc|webm", <-fp.listCalls)
}

func TestLanguageChange(t *testing.T) {
	ui, _, _ := newTestUI(t)
	ui.onLanguageChange("pt")

	assert.Equal(t, "pt", ui.settings.UI.Language)
	assert.Equal(t, "Baixar", ui.downloadBtn.Text)
	assert.Equal(t, "Melhor disponível", ui.qualitySelect.Options[0])
}

func TestSetFolderPersists(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	store, err := config.Load(config.Options{})
	require.NoError(t, err)

	ui, _, _ := newTestUI(t)
	ui.store = store
	dir := t.TempDir()
	ui.setFolder(dir)

	assert.Equal(t, dir, ui.folderLabel.Text)
	cfg, err := store.Settings()
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.Download.Dir)
	assert.FileExists(t, store.ConfigFile())
}

func TestValidateURL(t *testing.T) {
	ui, _, _ := newTestUI(t)
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"", false},
		{"https://www.youtube.com/watch?v=abc", false},
		{"http://example.com", false},
		{"ftp://example.com", true},
		{"not a url", true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := ui.validateURL(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
