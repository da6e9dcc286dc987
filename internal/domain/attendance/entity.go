package attendance

import "time"

type RecordType string

const (
	RecordCheckIn  RecordType = "CHECK_IN"
	RecordCheckOut RecordType = "CHECK_OUT"
)

// Record is one raw clock event. Payroll pairs the first CHECK_IN and
// last CHECK_OUT per local calendar day into worked hours.
type Record struct {
	ID        string
	UserID    string
	Type      RecordType
	Timestamp time.Time
	CreatedAt time.Time
}
