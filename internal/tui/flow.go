package tui

// flowState is the lifecycle of a single auth form. Transitions happen
// only on explicit user submission and on the arrival of the matching
// result message; there are no automatic retries.
type flowState int

const (
	flowIdle flowState = iota
	flowSubmitting
	flowSucceeded
	flowFailed
)

// submittingLabel is rendered in place of the submit hint while a request
// is in flight. The flows ignore further submits in that state, so at
// most one request per form is ever outstanding.
const submittingLabel = "working..."
