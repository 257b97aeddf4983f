package visit

const dateFormat = "2006-01-02"

type CreateVisitRequest struct {
	Institution string `json:"institution" binding:"required"`
	PartySize   int    `json:"party_size" binding:"required"`
	VisitDate   string `json:"visit_date" binding:"required"` // YYYY-MM-DD
	BlockLabel  string `json:"block_label" binding:"required"` // HH:MM
	Description string `json:"description"`
}

type UpdateStatusRequest struct {
	Status      string `json:"status" binding:"required"`
	Description string `json:"description"`
}

// CapacityFigures accompany both successful creations and capacity
// rejections so callers can retry with a smaller party or another slot.
type CapacityFigures struct {
	Occupied    int `json:"occupied"`
	Remaining   int `json:"remaining"`
	MaxCapacity int `json:"max_capacity"`
}

// SlotAvailability is one block row in the day-availability answer.
type SlotAvailability struct {
	Label     string        `json:"block"`
	Occupied  int           `json:"occupied"`
	Remaining int           `json:"remaining"`
	State     string        `json:"state"` // disponible | casi_lleno | completo
	Bookings  []SlotBooking `json:"bookings"`
}

type SlotBooking struct {
	Institution string `json:"institution"`
	PartySize   int    `json:"party_size"`
}

type DayAvailability struct {
	Date             string             `json:"date"`
	DayName          string             `json:"day_name"`
	OperatingHours   string             `json:"operating_hours"`
	LunchWindow      string             `json:"lunch_window"`
	MaxCapacityBlock int                `json:"max_capacity_per_block"`
	Slots            []SlotAvailability `json:"slots"`
	Note             string             `json:"note"`
}

// SlotSuggestion is one block that still fits the requested party.
type SlotSuggestion struct {
	Label     string `json:"block"`
	Remaining int    `json:"remaining"`
}
