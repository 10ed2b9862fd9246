package meetpg

// Pagination defaults shared by every list procedure and the list UI.
const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MinPageSize     = 1
	MaxPageSize     = 100
)

// MeetingStatus is the lifecycle marker stored on a meeting (mirrors the
// meetings.status CHECK constraint). No transitions are defined between
// statuses; new meetings start as MeetingStatusUpcoming.
type MeetingStatus string

const (
	MeetingStatusUpcoming   MeetingStatus = "upcoming"
	MeetingStatusActive     MeetingStatus = "active"
	MeetingStatusCompleted  MeetingStatus = "completed"
	MeetingStatusProcessing MeetingStatus = "processing"
	MeetingStatusCancelled  MeetingStatus = "cancelled"
)

// MeetingStatuses lists every valid status in display order.
var MeetingStatuses = []MeetingStatus{
	MeetingStatusUpcoming,
	MeetingStatusActive,
	MeetingStatusCompleted,
	MeetingStatusProcessing,
	MeetingStatusCancelled,
}

// String returns the string representation of the status.
func (s MeetingStatus) String() string {
	return string(s)
}

// Valid reports whether s is one of MeetingStatuses.
func (s MeetingStatus) Valid() bool {
	for _, v := range MeetingStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// MeetingStatusStrings returns MeetingStatuses as plain strings, the form
// schema enums and SQL constraints use.
func MeetingStatusStrings() []string {
	out := make([]string, len(MeetingStatuses))
	for i, s := range MeetingStatuses {
		out[i] = string(s)
	}
	return out
}
