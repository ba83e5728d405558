package pipeline

// RunStats tracks aggregate counters and byte totals across a batch run.
// Counters only increase; converted+failed always equals the number of
// dispatched jobs.
type RunStats struct {
	ShotsTotal       int
	ShotsDone        int
	Converted        int
	Failed           int
	Planned          int // Frames a dry run would have dispatched.
	TotalInputBytes  int64
	TotalOutputBytes int64
}

// SpaceSaved returns the aggregate byte difference between inputs and
// outputs. Positive means outputs are smaller; negative means they grew.
func (s *RunStats) SpaceSaved() int64 {
	return s.TotalInputBytes - s.TotalOutputBytes
}
