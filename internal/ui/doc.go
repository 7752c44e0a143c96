// Package ui contains the Fyne desktop front-end. It submits one download
// request at a time to the pipeline and renders the events the pipeline
// emits: status text, combined progress, available resolutions, errors and
// the final output path. All UI strings are localized via Localization.
package ui
