package model

import "time"

// OutcomeKind classifies a status event emitted during scheduling or after a
// scheduled post fires.
type OutcomeKind string

const (
	// KindScheduled means a task was registered for a future time slot.
	KindScheduled OutcomeKind = "Scheduled"
	// KindRejected means an item was skipped before a task was created
	// (missing file, slot already in the past).
	KindRejected OutcomeKind = "Rejected"
	// KindPosted means a fired task uploaded its media successfully.
	KindPosted OutcomeKind = "Posted"
	// KindFailed means a fired task could not upload its media.
	KindFailed OutcomeKind = "Failed"
)

// MediaItem is one image file picked up from the media folder.
type MediaItem struct {
	Path string `json:"path"`
	Name string `json:"name"`
}

// Credentials is the username/password pair persisted between runs so the
// user does not have to retype them. Stored in plain text.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SessionState is the opaque blob the publishing service hands back after a
// fresh login. The core never inspects it, only round-trips it through the
// session store.
type SessionState []byte

// Outcome is one status event: either an immediate scheduling decision or
// the terminal result of a fired task.
type Outcome struct {
	Kind        OutcomeKind `json:"kind"`
	When        time.Time   `json:"when"`
	Media       string      `json:"media"`
	ScheduledAt time.Time   `json:"scheduled_at"`
	OK          bool        `json:"ok"`
	Message     string      `json:"message"`
}

// slotLayout is the timestamp format used in every user-visible outcome line.
const slotLayout = "2006-01-02 15:04"

func (o Outcome) String() string {
	status := "FAILED"
	if o.OK {
		status = "OK"
	}
	if o.Kind == KindScheduled {
		status = "SCHEDULED"
	}
	return o.Media + " at " + o.ScheduledAt.Format(slotLayout) + ": " + status + " - " + o.Message
}
