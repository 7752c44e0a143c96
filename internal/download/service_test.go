package download

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/ytfetch/internal/model"
	"github.com/ytget/ytfetch/internal/provider"
)

// fakeProvider writes size bytes in two chunks and reports progress.
type fakeProvider struct {
	mu       sync.Mutex
	ext      map[string]string // encoding ID -> extension written
	fail     map[string]error
	fetched  []string
	blockFor string // encoding that waits for cancellation
}

func (f *fakeProvider) List(context.Context, string) (provider.Listing, error) {
	return provider.Listing{}, nil
}

func (f *fakeProvider) Fetch(ctx context.Context, itemRef string, desc model.EncodingDescriptor, destDir, baseName string, progress provider.ProgressFunc) (string, error) {
	f.mu.Lock()
	f.fetched = append(f.fetched, desc.ID)
	f.mu.Unlock()

	if desc.ID == f.blockFor {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if err := f.fail[desc.ID]; err != nil {
		return "", err
	}

	ext := desc.Container
	if e, ok := f.ext[desc.ID]; ok {
		ext = e
	}
	const size = 100
	progress(desc.ID, size, size/2)
	path := filepath.Join(destDir, baseName+"."+ext)
	if err := os.WriteFile(path, make([]byte, size), 0644); err != nil {
		return "", err
	}
	progress(desc.ID, size, 0)
	return path, nil
}

var (
	videoDesc = model.EncodingDescriptor{ID: "137", Kind: model.KindVideo, Container: "mp4", QualityLabel: "1080p", ApproxSizeBytes: 100}
	audioDesc = model.EncodingDescriptor{ID: "140", Kind: model.KindAudio, Container: "m4a", QualityLabel: "128k", ApproxSizeBytes: 100}
)

func TestService_Fetch(t *testing.T) {
	dir := t.TempDir()
	svc := NewService(Config{Provider: &fakeProvider{}})

	var mu sync.Mutex
	var updates []Update
	svc.SetUpdateCallback(func(u Update) {
		mu.Lock()
		updates = append(updates, u)
		mu.Unlock()
	})

	path, err := svc.Fetch(context.Background(), "ref", videoDesc, dir, "clip.video")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "clip.video.mp4"), path)
	assert.FileExists(t, path)

	require.Len(t, updates, 2)
	assert.InDelta(t, 50.0, updates[0].CombinedPercent, 1e-9)
	assert.InDelta(t, 100.0, updates[1].CombinedPercent, 1e-9)
	assert.Equal(t, "137", updates[1].EncodingID)
}

func TestService_FetchNormalizesExtension(t *testing.T) {
	dir := t.TempDir()
	fake := &fakeProvider{ext: map[string]string{"140": "mp4"}}
	svc := NewService(Config{Provider: fake})

	path, err := svc.Fetch(context.Background(), "ref", audioDesc, dir, "clip")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "clip.m4a"), path)
	assert.FileExists(t, path)
	assert.NoFileExists(t, filepath.Join(dir, "clip.mp4"))
}

func TestService_FetchErrors(t *testing.T) {
	cause := errors.New("connection reset")

	t.Run("prepare", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "file")
		require.NoError(t, os.WriteFile(file, nil, 0644))

		_, err := NewService(Config{Provider: &fakeProvider{}}).Fetch(context.Background(), "ref", videoDesc, file, "clip")
		var terr *TransferError
		require.ErrorAs(t, err, &terr)
		assert.Equal(t, OpPrepare, terr.Op)
		assert.Equal(t, "137", terr.EncodingID)
	})

	t.Run("fetch", func(t *testing.T) {
		fake := &fakeProvider{fail: map[string]error{"137": cause}}
		_, err := NewService(Config{Provider: fake}).Fetch(context.Background(), "ref", videoDesc, t.TempDir(), "clip")
		var terr *TransferError
		require.ErrorAs(t, err, &terr)
		assert.Equal(t, OpFetch, terr.Op)
		assert.ErrorIs(t, err, cause)
	})
}

func TestService_FetchPlan(t *testing.T) {
	for _, concurrent := range []bool{false, true} {
		t.Run(map[bool]string{false: "sequential", true: "concurrent"}[concurrent], func(t *testing.T) {
			dir := t.TempDir()
			fake := &fakeProvider{}
			svc := NewService(Config{Provider: fake, Concurrent: concurrent})

			// Stale state from a previous request must not leak in.
			svc.Tracker().OnBytes("old", 1000, 0)

			plan := model.DownloadPlan{Video: &videoDesc, Audio: &audioDesc}
			paths, err := svc.FetchPlan(context.Background(), "ref", plan, dir, Names{Video: "clip.video", Audio: "clip.audio"})
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(dir, "clip.video.mp4"), paths.Video)
			assert.Equal(t, filepath.Join(dir, "clip.audio.m4a"), paths.Audio)
			assert.InDelta(t, 100.0, svc.Tracker().CombinedPercent(), 1e-9)
			assert.Len(t, svc.Tracker().Snapshot(), 2)
			assert.ElementsMatch(t, []string{"137", "140"}, fake.fetched)
		})
	}
}

func TestService_FetchPlanAudioOnly(t *testing.T) {
	fake := &fakeProvider{}
	svc := NewService(Config{Provider: fake, Concurrent: true})

	paths, err := svc.FetchPlan(context.Background(), "ref", model.DownloadPlan{Audio: &audioDesc}, t.TempDir(), Names{Audio: "clip"})
	require.NoError(t, err)
	assert.Empty(t, paths.Video)
	assert.NotEmpty(t, paths.Audio)
	assert.Equal(t, []string{"140"}, fake.fetched)
}

func TestService_FetchPlanFailureCancelsSibling(t *testing.T) {
	cause := errors.New("http 403")
	fake := &fakeProvider{fail: map[string]error{"140": cause}, blockFor: "137"}
	svc := NewService(Config{Provider: fake, Concurrent: true})

	plan := model.DownloadPlan{Video: &videoDesc, Audio: &audioDesc}
	_, err := svc.FetchPlan(context.Background(), "ref", plan, t.TempDir(), Names{Video: "v", Audio: "a"})
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
}

func TestService_FetchPlanEmpty(t *testing.T) {
	_, err := NewService(Config{Provider: &fakeProvider{}}).FetchPlan(context.Background(), "ref", model.DownloadPlan{}, t.TempDir(), Names{})
	var terr *TransferError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, OpPrepare, terr.Op)
}
