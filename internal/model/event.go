package model

import "fmt"

// ErrorKind classifies a pipeline failure for the presentation layer
type ErrorKind string

const (
	ErrorProvider  ErrorKind = "provider"
	ErrorSelection ErrorKind = "selection"
	ErrorTransfer  ErrorKind = "transfer"
	ErrorMerge     ErrorKind = "merge"
	ErrorCancelled ErrorKind = "cancelled"
	ErrorInternal  ErrorKind = "internal"
)

// Event is one message of the pipeline event stream.
// The set of variants is closed: Status, Progress, ResolutionsFound, Error and Done.
type Event interface {
	isEvent()
	fmt.Stringer
}

// Status carries a human readable progress note
type Status struct {
	Text string
}

// Progress carries the combined transfer percentage in [0,100]
type Progress struct {
	Percent float64
}

// ResolutionsFound lists the quality labels available for an item
type ResolutionsFound struct {
	Title  string
	Labels []string
}

// Error reports a terminal failure of a request
type Error struct {
	Kind    ErrorKind
	Message string
}

// Done reports the final output path of a request
type Done struct {
	Path string
}

func (Status) isEvent()           {}
func (Progress) isEvent()         {}
func (ResolutionsFound) isEvent() {}
func (Error) isEvent()            {}
func (Done) isEvent()             {}

func (e Status) String() string   { return "status: " + e.Text }
func (e Progress) String() string { return fmt.Sprintf("progress: %.1f%%", e.Percent) }
func (e ResolutionsFound) String() string {
	return fmt.Sprintf("resolutions: %d found for %q", len(e.Labels), e.Title)
}
func (e Error) String() string { return fmt.Sprintf("error[%s]: %s", e.Kind, e.Message) }
func (e Done) String() string  { return "done: " + e.Path }
