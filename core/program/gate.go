package program

// WeekStatus classifies a program week relative to a client's current week.
type WeekStatus string

const (
	StatusLocked    WeekStatus = "locked"
	StatusCurrent   WeekStatus = "current"
	StatusCompleted WeekStatus = "completed"
)

// ClassifyWeek places a week order in exactly one of locked/current/completed.
func ClassifyWeek(weekOrder, currentWeek int) WeekStatus {
	switch {
	case weekOrder > currentWeek:
		return StatusLocked
	case weekOrder < currentWeek:
		return StatusCompleted
	default:
		return StatusCurrent
	}
}

// GatedSession is a Session classified against a client's current week.
// Locked sessions carry no resource listings.
type GatedSession struct {
	Session
	Status WeekStatus `json:"status"`
}

// VisibleSessions applies the content gate on a program's sessions. It is the
// authorization boundary between visible and not-yet-earned content: resource
// listings of locked weeks are withheld, not merely flagged.
func VisibleSessions(sessions []Session, currentWeek int) []GatedSession {
	gated := make([]GatedSession, 0, len(sessions))
	for _, sess := range sessions {
		gs := GatedSession{Session: sess, Status: ClassifyWeek(sess.Order, currentWeek)}
		if gs.Status == StatusLocked {
			gs.Resources = nil
		}
		gated = append(gated, gs)
	}
	return gated
}
