package exception

import "time"

type RequestType string

const (
	TypeCheckIn  RequestType = "CHECK_IN"
	TypeCheckOut RequestType = "CHECK_OUT"
)

func (t RequestType) IsValid() bool {
	return t == TypeCheckIn || t == TypeCheckOut
}

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

type Action string

const (
	ActionApprove Action = "APPROVE"
	ActionReject  Action = "REJECT"
)

func (a Action) IsValid() bool {
	return a == ActionApprove || a == ActionReject
}

// Outcome is the terminal status the action leads to.
func (a Action) Outcome() Status {
	if a == ActionApprove {
		return StatusApproved
	}
	return StatusRejected
}

// Request is a check-in or check-out attempt deferred to an admin because
// location or face verification failed. It lives in the queue only while PENDING.
type Request struct {
	ID             string
	EmployeeID     string
	Type           RequestType
	Reason         string
	AttemptedAt    time.Time
	Latitude       float64
	Longitude      float64
	LocationFailed bool
	FaceFailed     bool
	FaceImageKey   *string
	Status         Status
	CreatedAt      time.Time
}

// ArchiveEntry is the immutable record of a resolved request.
type ArchiveEntry struct {
	ID             string
	RequestID      string
	EmployeeID     string
	Type           RequestType
	Reason         string
	AttemptedAt    time.Time
	Latitude       float64
	Longitude      float64
	LocationFailed bool
	FaceFailed     bool
	FaceImageKey   *string
	Status         Status
	ResolvedAt     time.Time
	ResolvedBy     string
}

// Archive copies req into an archive entry with its final status.
func Archive(id string, req Request, status Status, resolvedBy string, resolvedAt time.Time) ArchiveEntry {
	return ArchiveEntry{
		ID:             id,
		RequestID:      req.ID,
		EmployeeID:     req.EmployeeID,
		Type:           req.Type,
		Reason:         req.Reason,
		AttemptedAt:    req.AttemptedAt,
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		LocationFailed: req.LocationFailed,
		FaceFailed:     req.FaceFailed,
		FaceImageKey:   req.FaceImageKey,
		Status:         status,
		ResolvedAt:     resolvedAt,
		ResolvedBy:     resolvedBy,
	}
}
