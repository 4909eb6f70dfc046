// Package bench walks a directory of model files, runs the proof loop over
// each with a per-file timeout, and emits one JSON report summarizing the
// batch (spec §5, §6).
package bench

// Kind discriminates the shape of one file's Result.
type Kind string

const (
	KindSuccess Kind = "success"
	KindTimeout Kind = "timeout"
	KindError   Kind = "error"
	KindPanic   Kind = "panic"
)

// Result is the outcome of running the proof loop over a single file.
type Result struct {
	Kind Kind `json:"kind"`

	// Safe/Unsafe populated only for KindSuccess.
	Safe           bool `json:"safe,omitempty"`
	UsedInstances  int  `json:"used_instances,omitempty"`
	ConstInstances int  `json:"const_instances,omitempty"`

	Millis int64 `json:"millis,omitempty"` // KindTimeout

	Message string `json:"message,omitempty"` // KindError, KindPanic
}

// FileResult pairs one example's path with its Result.
type FileResult struct {
	Example string `json:"example"`
	Result  Result `json:"result"`
}

// Report is the full JSON document one benchmark run produces.
type Report struct {
	RunID   string       `json:"run_id"`
	Results []FileResult `json:"results"`
}
