package ui

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"

	"github.com/ytget/ytfetch/internal/config"
	"github.com/ytget/ytfetch/internal/model"
	"github.com/ytget/ytfetch/internal/platform"
)

// Options wire the window to the pipeline and settings
type Options struct {
	Pipeline Pipeline
	Settings config.Settings
	Store    *config.Store // persists folder and language changes; optional
	Logger   logrus.FieldLogger
	Context  context.Context
}

// RootUI represents the main UI structure
type RootUI struct {
	window       fyne.Window
	pipeline     Pipeline
	settings     config.Settings
	store        *config.Store
	localization *Localization
	logger       logrus.FieldLogger
	ctx          context.Context

	urlEntry          *widget.Entry
	typeSelect        *widget.Select
	videoFormatSelect *widget.Select
	audioFormatSelect *widget.Select
	qualitySelect     *widget.Select
	folderLabel       *widget.Label
	browseBtn         *widget.Button
	resolutionsBtn    *widget.Button
	downloadBtn       *widget.Button
	cancelBtn         *widget.Button
	progress          *widget.ProgressBar
	statusLabel       *widget.Label

	busy   bool
	cancel context.CancelFunc
	// reveal opens the folder of a finished download
	reveal func(path string) error
}

// NewRootUI creates and initializes the main UI
func NewRootUI(window fyne.Window, opts Options) *RootUI {
	if opts.Logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		opts.Logger = l
	}
	if opts.Context == nil {
		opts.Context = context.Background()
	}

	localization := NewLocalization()
	localization.SetLanguage(opts.Settings.UI.Language)

	ui := &RootUI{
		window:       window,
		pipeline:     opts.Pipeline,
		settings:     opts.Settings,
		store:        opts.Store,
		localization: localization,
		logger:       opts.Logger,
		ctx:          opts.Context,
		reveal:       platform.OpenFileInManager,
	}

	window.SetTitle(localization.GetText(KeyAppTitle))
	ui.setupUI()
	return ui
}

// Listen renders pipeline events until the queue is closed
func (ui *RootUI) Listen() {
	for ev := range ui.pipeline.Events().C() {
		fyne.Do(func() { ui.applyEvent(ev) })
	}
}

// setupUI creates and arranges all UI components
func (ui *RootUI) setupUI() {
	ui.createMenu()

	ui.urlEntry = widget.NewEntry()
	ui.urlEntry.Validator = ui.validateURL
	ui.urlEntry.OnSubmitted = func(string) { ui.onDownloadClick() }

	ui.typeSelect = widget.NewSelect(config.DownloadTypeOptions(), ui.onTypeChanged)
	ui.videoFormatSelect = widget.NewSelect(config.VideoFormatOptions(), nil)
	ui.audioFormatSelect = widget.NewSelect(config.AudioFormatOptions(), nil)
	ui.qualitySelect = widget.NewSelect(nil, nil)

	ui.folderLabel = widget.NewLabel(ui.settings.Download.Dir)
	ui.folderLabel.Truncation = fyne.TextTruncateEllipsis
	ui.browseBtn = widget.NewButton(IconFolder, ui.onBrowseFolder)

	ui.resolutionsBtn = widget.NewButton("", ui.onFetchResolutions)
	ui.downloadBtn = widget.NewButton("", ui.onDownloadClick)
	ui.downloadBtn.Importance = widget.HighImportance
	ui.cancelBtn = widget.NewButton("", ui.onCancelClick)
	ui.cancelBtn.Disable()

	ui.progress = widget.NewProgressBar()
	ui.statusLabel = widget.NewLabel("")
	ui.statusLabel.Wrapping = fyne.TextWrapWord

	ui.videoFormatSelect.SetSelected(ui.settings.Download.VideoFormat)
	ui.audioFormatSelect.SetSelected(ui.settings.Download.AudioFormat)
	ui.setQualityOptions(nil)
	ui.typeSelect.SetSelected(ui.settings.Download.Type)

	var urlRow fyne.CanvasObject = container.NewBorder(nil, nil, nil, ui.resolutionsBtn, ui.urlEntry)
	if logo, err := LoadLogoResource(); err == nil {
		img := canvas.NewImageFromResource(logo)
		img.SetMinSize(fyne.NewSize(LogoSize, LogoSize))
		img.FillMode = canvas.ImageFillContain
		urlRow = container.NewBorder(nil, nil, img, ui.resolutionsBtn, ui.urlEntry)
	}

	form := container.NewGridWithColumns(4,
		ui.typeSelect, ui.videoFormatSelect, ui.audioFormatSelect, ui.qualitySelect,
	)
	folderRow := container.NewBorder(nil, nil, nil, ui.browseBtn, ui.folderLabel)
	actions := container.NewHBox(ui.downloadBtn, ui.cancelBtn)

	ui.window.SetContent(container.NewVBox(
		urlRow,
		form,
		folderRow,
		actions,
		ui.progress,
		ui.statusLabel,
	))
	ui.refreshUITexts()
	ui.statusLabel.SetText(ui.localization.GetText(KeyReady))
}

// createMenu creates the application menu
func (ui *RootUI) createMenu() {
	openItem := fyne.NewMenuItem(ui.localization.GetText(KeyOpenFolder), func() {
		ui.revealPath(ui.settings.Download.Dir)
	})

	languageMenu := fyne.NewMenu(ui.localization.GetText(KeyLanguage))
	for code, name := range ui.localization.GetAvailableLanguages() {
		langItem := fyne.NewMenuItem(name, func() { ui.onLanguageChange(code) })
		langItem.Checked = ui.localization.GetCurrentLanguage() == code
		languageMenu.Items = append(languageMenu.Items, langItem)
	}

	ui.window.SetMainMenu(fyne.NewMainMenu(
		fyne.NewMenu(ui.localization.GetText(KeyFile), openItem),
		languageMenu,
	))
}

// onLanguageChange handles language change
func (ui *RootUI) onLanguageChange(langCode string) {
	ui.localization.SetLanguage(langCode)
	ui.settings.UI.Language = langCode
	ui.persist(config.KeyLanguage, langCode)
	ui.refreshUITexts()
	ui.createMenu()
}

// refreshUITexts updates all UI texts with current language
func (ui *RootUI) refreshUITexts() {
	ui.window.SetTitle(ui.localization.GetText(KeyAppTitle))
	ui.urlEntry.SetPlaceHolder(ui.localization.GetText(KeyEnterURL))
	ui.typeSelect.PlaceHolder = ui.localization.GetText(KeyDownloadType)
	ui.videoFormatSelect.PlaceHolder = ui.localization.GetText(KeyVideoFormat)
	ui.audioFormatSelect.PlaceHolder = ui.localization.GetText(KeyAudioFormat)
	ui.qualitySelect.PlaceHolder = ui.localization.GetText(KeyQuality)
	ui.resolutionsBtn.SetText(ui.localization.GetText(KeyFetchResolutions))
	ui.downloadBtn.SetText(ui.localization.GetText(KeyDownload))
	ui.cancelBtn.SetText(ui.localization.GetText(KeyCancel))
	ui.setQualityOptions(ui.qualitySelect.Options[1:])
}

// validateURL validates the entered URL
func (ui *RootUI) validateURL(input string) error {
	if strings.TrimSpace(input) == "" {
		return nil
	}

	parsedURL, err := url.Parse(strings.TrimSpace(input))
	if err != nil {
		return err
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("URL must start with http:// or https://")
	}
	return nil
}

// currentRef returns the entered URL or an empty string after reporting why it is unusable
func (ui *RootUI) currentRef() string {
	ref := strings.TrimSpace(ui.urlEntry.Text)
	if ref == "" {
		ui.statusLabel.SetText(ui.localization.GetText(KeyPleaseEnterURL))
		return ""
	}
	if err := ui.validateURL(ref); err != nil {
		ui.statusLabel.SetText(ui.localization.GetText(KeyInvalidURL) + ": " + err.Error())
		return ""
	}
	return ref
}

// onTypeChanged enables the selects that apply to the chosen download type
func (ui *RootUI) onTypeChanged(kind string) {
	if model.DownloadType(kind) == model.TypeAudio {
		ui.videoFormatSelect.Disable()
		ui.qualitySelect.Disable()
		ui.audioFormatSelect.Enable()
		return
	}
	ui.videoFormatSelect.Enable()
	ui.qualitySelect.Enable()
	// both derives its audio container from the video format
	ui.audioFormatSelect.Disable()
}

// setQualityOptions replaces the quality list keeping "best" first
func (ui *RootUI) setQualityOptions(labels []string) {
	selected := ui.qualitySelect.Selected
	options := append([]string{ui.localization.GetText(KeyQualityBest)}, labels...)
	ui.qualitySelect.Options = options
	ui.qualitySelect.Refresh()
	for _, o := range labels {
		if o == selected {
			ui.qualitySelect.SetSelected(o)
			return
		}
	}
	if ui.settings.Download.Quality != "" && len(labels) == 0 {
		ui.qualitySelect.Options = append(options, ui.settings.Download.Quality)
		ui.qualitySelect.SetSelected(ui.settings.Download.Quality)
		return
	}
	ui.qualitySelect.SetSelectedIndex(0)
}

// selectedQuality maps the "best" option to an empty quality label
func (ui *RootUI) selectedQuality() string {
	if ui.qualitySelect.SelectedIndex() <= 0 {
		return QualityBest
	}
	return ui.qualitySelect.Selected
}

// buildRequest turns the form into a download request
func (ui *RootUI) buildRequest(ref string) model.DownloadRequest {
	quality := ui.selectedQuality()
	if model.DownloadType(ui.typeSelect.Selected) == model.TypeAudio {
		quality = QualityBest
	}
	return model.NewDownloadRequest(ref, model.DownloadType(ui.typeSelect.Selected),
		ui.videoFormatSelect.Selected, ui.audioFormatSelect.Selected, quality, ui.settings.Download.Dir)
}

// onFetchResolutions lists the qualities offered for the entered URL
func (ui *RootUI) onFetchResolutions() {
	ref := ui.currentRef()
	if ref == "" || ui.busy {
		return
	}
	format := ui.videoFormatSelect.Selected
	ui.resolutionsBtn.Disable()
	go func() {
		if _, err := ui.pipeline.ListResolutions(ui.ctx, ref, format); err != nil {
			ui.logger.WithError(err).WithField("ref", ref).Debug("resolutions unavailable")
		}
		fyne.Do(func() {
			if !ui.busy {
				ui.resolutionsBtn.Enable()
			}
		})
	}()
}

// onDownloadClick submits the form to the pipeline
func (ui *RootUI) onDownloadClick() {
	if ui.busy {
		return
	}
	ref := ui.currentRef()
	if ref == "" {
		return
	}

	req := ui.buildRequest(ref)
	if err := req.Validate(); err != nil {
		ui.statusLabel.SetText(fmt.Sprintf(ErrorTextFormat, err.Error()))
		return
	}

	ctx, cancel := context.WithCancel(ui.ctx)
	ui.cancel = cancel
	ui.setBusy(true)
	ui.progress.SetValue(0)

	log := ui.logger.WithFields(logrus.Fields{"request_id": req.ID, "ref": req.ItemRef, "type": req.Type})
	log.Info("download requested")
	results := ui.pipeline.Start(ctx, req)
	go func() {
		res := <-results
		log.WithFields(logrus.Fields{"state": res.State, "output": res.OutputPath}).Info("download finished")
	}()
}

// onCancelClick cancels the running request
func (ui *RootUI) onCancelClick() {
	if ui.cancel == nil {
		return
	}
	ui.statusLabel.SetText(ui.localization.GetText(KeyCancelling))
	ui.cancel()
}

// onBrowseFolder lets the user pick the destination directory
func (ui *RootUI) onBrowseFolder() {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil || uri == nil {
			return
		}
		ui.setFolder(uri.Path())
	}, ui.window)
}

// setFolder changes the destination directory and remembers it
func (ui *RootUI) setFolder(dir string) {
	ui.settings.Download.Dir = dir
	ui.folderLabel.SetText(dir)
	ui.persist(config.KeyDownloadDir, dir)
}

// persist saves one setting when a store is attached
func (ui *RootUI) persist(key string, value any) {
	if ui.store == nil {
		return
	}
	ui.store.Set(key, value)
	if err := ui.store.Save(); err != nil {
		ui.logger.WithError(err).WithField("key", key).Warn("failed to save settings")
	}
}

// setBusy toggles the controls that must not be used while a request runs
func (ui *RootUI) setBusy(busy bool) {
	ui.busy = busy
	if busy {
		ui.downloadBtn.Disable()
		ui.resolutionsBtn.Disable()
		ui.browseBtn.Disable()
		ui.cancelBtn.Enable()
		return
	}
	ui.downloadBtn.Enable()
	ui.resolutionsBtn.Enable()
	ui.browseBtn.Enable()
	ui.cancelBtn.Disable()
	if ui.cancel != nil {
		ui.cancel()
		ui.cancel = nil
	}
}

// applyEvent renders one pipeline event; must run on the UI goroutine
func (ui *RootUI) applyEvent(ev model.Event) {
	switch e := ev.(type) {
	case model.Status:
		ui.statusLabel.SetText(e.Text)
	case model.Progress:
		ui.progress.SetValue(e.Percent / 100)
	case model.ResolutionsFound:
		ui.setQualityOptions(e.Labels)
		ui.statusLabel.SetText(fmt.Sprintf("%s: %s", ui.localization.GetText(KeyResolutionsFound), strings.Join(e.Labels, ", ")))
	case model.Error:
		ui.statusLabel.SetText(fmt.Sprintf(ErrorTextFormat, e.Message))
		ui.setBusy(false)
	case model.Done:
		ui.progress.SetValue(1)
		ui.statusLabel.SetText(fmt.Sprintf(DoneTextFormat, ui.localization.GetText(KeySavedTo), e.Path))
		ui.setBusy(false)
		ui.sendCompletionNotification(e.Path)
		if ui.settings.UI.AutoReveal {
			ui.revealPath(e.Path)
		}
	}
}

// sendCompletionNotification sends a system notification for a finished download
func (ui *RootUI) sendCompletionNotification(path string) {
	app := fyne.CurrentApp()
	if app == nil {
		return
	}
	app.SendNotification(&fyne.Notification{
		Title:   ui.localization.GetText(KeyAppTitle),
		Content: ui.localization.GetText(KeySavedTo) + " " + path,
	})
}

// revealPath opens the file manager at path
func (ui *RootUI) revealPath(path string) {
	if path == "" {
		return
	}
	if err := ui.reveal(path); err != nil {
		ui.logger.WithError(err).WithField("path", path).Warn("failed to reveal file")
		ui.statusLabel.SetText(ui.localization.GetText(KeyErrorOpeningFile) + ": " + err.Error())
	}
}
