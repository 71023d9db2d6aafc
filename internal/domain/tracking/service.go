package tracking

import "context"

type TrackingService interface {
	// SubmitLocation records a periodic sample for the caller's open session.
	SubmitLocation(ctx context.Context, req SubmitLocationRequest) (SubmitLocationResponse, error)

	GetStatus(ctx context.Context) (TrackingStatusResponse, error)

	// GetHistory lists an employee's session trail for one local date.
	GetHistory(ctx context.Context, req HistoryRequest) (HistoryResponse, error)
}
