package model

// TimeWindow is a [Start, End] range in epoch seconds. Start <= End is not
// enforced; values are passed to the API as given.
type TimeWindow struct {
	Start int64
	End   int64
}

// StartMillis returns Start in epoch milliseconds, the unit CloudWatch Logs expects.
func (w TimeWindow) StartMillis() int64 { return w.Start * 1000 }

// EndMillis returns End in epoch milliseconds.
func (w TimeWindow) EndMillis() int64 { return w.End * 1000 }
