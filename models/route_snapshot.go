package models

const (
	CaptureManual = "manual"
	CaptureAuto   = "auto"
)

// RouteSnapshot freezes a session's route and the meetings along it for later review.
// It outlives the session it was taken from.
type RouteSnapshot struct {
	ID            string     `json:"_id" bson:"_id"`
	EmployeeID    string     `json:"employeeId" bson:"employeeId"`
	SessionID     string     `json:"sessionId,omitempty" bson:"sessionId,omitempty"`
	Title         string     `json:"title" bson:"title"`
	Description   string     `json:"description,omitempty" bson:"description,omitempty"`
	CaptureType   string     `json:"captureType" bson:"captureType"`
	Route         []Location `json:"route" bson:"route"`
	Meetings      []Meeting  `json:"meetings,omitempty" bson:"meetings,omitempty"`
	Bounds        *Bounds    `json:"bounds,omitempty" bson:"bounds,omitempty"`
	TotalDistance float64    `json:"totalDistance" bson:"totalDistance"`
	CapturedAt    string     `json:"capturedAt" bson:"capturedAt"`
	CreatedAt     string     `json:"createdAt" bson:"createdAt"`
	UpdatedAt     string     `json:"updatedAt" bson:"updatedAt"`
}

func (r RouteSnapshot) GetID() string { return r.ID }

// SnapshotFilter narrows a route snapshot listing.
type SnapshotFilter struct {
	EmployeeID string
	SessionID  string
	StartDate  string
	EndDate    string
	Limit      int64
}
