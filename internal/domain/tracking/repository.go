package tracking

import (
	"context"
	"time"
)

type LocationLogRepository interface {
	Create(ctx context.Context, log LocationLog) (LocationLog, error)

	// LatestForSession returns the newest log of logType for a session, or nil.
	LatestForSession(ctx context.Context, sessionID string, logType LogType) (*LocationLog, error)

	// ListByEmployee returns logs of scope with from <= timestamp < to, oldest first.
	ListByEmployee(ctx context.Context, employeeID, companyID string, scope Scope, from, to time.Time) ([]LocationLog, error)
}
