package model

// LogGroup is a CloudWatch Logs log group as returned by DescribeLogGroups.
type LogGroup struct {
	Name *string
}

// LogStream is a log stream of one log group. The owning group is the one
// it was queried under and is not stored.
type LogStream struct {
	Name *string
}

// LogEvent is a single event read from a stream. Times are epoch milliseconds.
type LogEvent struct {
	IngestionTime *int64
	Message       *string
	Timestamp     *int64
}

// Complete reports whether the event carries all three fields.
// Incomplete events are dropped without being reported.
func (e LogEvent) Complete() bool {
	return e.IngestionTime != nil && e.Message != nil && e.Timestamp != nil
}

// Page is one bounded response of a paginated API call.
type Page[T any] struct {
	Items     []T
	NextToken *string
}
