package domain

import "time"

type VisitStatus string

const (
	VisitPending   VisitStatus = "pending"
	VisitRealized  VisitStatus = "realized"
	VisitCancelled VisitStatus = "cancelled"
)

// Visit is one scheduled group visit. Only Status and Description change
// after creation; everything else is immutable.
type Visit struct {
	ID          int64       `json:"id"`
	Institution string      `json:"institution" validate:"required,min=3,max=100"`
	PartySize   int         `json:"party_size" validate:"required,gt=0"`
	VisitDate   time.Time   `json:"visit_date"`
	BlockLabel  string      `json:"block_label"` // "HH:MM", member of the day's slot set
	BlockID     string      `json:"block_id"`    // "YYYYMMDD-HHMM", groups visits sharing date+slot
	Status      VisitStatus `json:"status"`
	Description string      `json:"description,omitempty" validate:"omitempty,max=500"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// Counted reports whether the visit contributes to block occupancy.
func (v *Visit) Counted() bool {
	return v.Status != VisitCancelled
}

// VisitorEntry is a walk-in visitor log record, unrelated to scheduling.
type VisitorEntry struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name" validate:"required,min=3,max=100"`
	NationalID  string    `json:"national_id" validate:"required"`
	Institution string    `json:"institution" validate:"required"`
	Date        time.Time `json:"date"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
