package batch

// Event is a per-file notification delivered through the EventFunc
// callback. The concrete types are Progress, Completed and Error; every
// file sees zero or more Progress events followed by exactly one terminal
// Completed or Error.
type Event interface {
	isEvent()
}

// Progress reports how far a single file's transform has advanced,
// as a percentage in [0,100]. Values for one file never decrease.
type Progress struct {
	Percent int
}

// Completed is the terminal event of a successful transform.
type Completed struct{}

// Error is the terminal event of a failed transform. Percent carries the
// last observed progress and is meaningful only when HasPercent is set,
// i.e. when at least one Progress event preceded the failure.
type Error struct {
	Kind       Kind
	Err        error
	Percent    int
	HasPercent bool
}

func (Progress) isEvent()  {}
func (Completed) isEvent() {}
func (Error) isEvent()     {}
