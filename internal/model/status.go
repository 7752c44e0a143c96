package model

// PipelineState represents the current state of one pipeline run
type PipelineState string

const (
	// StateIdle means no request has been accepted yet
	StateIdle PipelineState = "idle"

	// StateResolving means the catalog is being queried
	StateResolving PipelineState = "resolving"

	// StateSelecting means the fallback policy is choosing encodings
	StateSelecting PipelineState = "selecting"

	// StateFetching means tracks are being downloaded
	StateFetching PipelineState = "fetching"

	// StateMerging means the remux tool is combining tracks
	StateMerging PipelineState = "merging"

	// StateDone means the output file is ready
	StateDone PipelineState = "done"

	// StateFailed means the run stopped with an error
	StateFailed PipelineState = "failed"
)

// transitions lists the legal successors of every non-terminal state.
var transitions = map[PipelineState][]PipelineState{
	StateIdle:      {StateResolving, StateFailed},
	StateResolving: {StateSelecting, StateFailed},
	StateSelecting: {StateFetching, StateFailed},
	StateFetching:  {StateMerging, StateDone, StateFailed},
	StateMerging:   {StateDone, StateFailed},
}

// String returns the string representation of PipelineState
func (s PipelineState) String() string {
	return string(s)
}

// IsActive returns true if the run is past Idle and not yet finished
func (s PipelineState) IsActive() bool {
	return s == StateResolving || s == StateSelecting || s == StateFetching || s == StateMerging
}

// IsTerminal returns true if no further transition is possible
func (s PipelineState) IsTerminal() bool {
	return s == StateDone || s == StateFailed
}

// CanTransitionTo reports whether next is a legal successor of s
func (s PipelineState) CanTransitionTo(next PipelineState) bool {
	for _, candidate := range transitions[s] {
		if candidate == next {
			return true
		}
	}
	return false
}
