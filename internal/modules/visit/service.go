package visit

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"museo/internal/config"
	"museo/internal/domain"
	"museo/internal/pkg/validator"
	"museo/internal/repository"
	"museo/internal/schedule"
)

const holidayNote = "remember not to schedule visits on national holidays"

const maxDescriptionLength = 500

type Service struct {
	visits VisitRepository
	events EventSink
	cfg    *config.Config
}

func NewService(visits VisitRepository, events EventSink, cfg *config.Config) *Service {
	return &Service{
		visits: visits,
		events: events,
		cfg:    cfg,
	}
}

// CreateVisit runs the schedule policy, derives the block key and inserts
// the booking under the capacity ceiling. Nothing is persisted on any
// failure. The returned figures reflect the block after the insert.
func (s *Service) CreateVisit(ctx context.Context, req CreateVisitRequest) (*domain.Visit, *CapacityFigures, error) {
	institution := strings.TrimSpace(req.Institution)
	if err := s.validateInstitution(institution); err != nil {
		return nil, nil, err
	}

	vc := s.cfg.Visits
	if req.PartySize < vc.MinPartySize || req.PartySize > vc.MaxPartySize {
		return nil, nil, fmt.Errorf("%w: party size must be between %d and %d",
			ErrValidation, vc.MinPartySize, vc.MaxPartySize)
	}

	description := strings.TrimSpace(req.Description)
	if err := validateDescription(description); err != nil {
		return nil, nil, err
	}

	visitDate, err := time.Parse(dateFormat, req.VisitDate)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: visit_date must be YYYY-MM-DD", ErrValidation)
	}

	if err := schedule.ValidateVisit(time.Now(), visitDate, req.BlockLabel, vc); err != nil {
		return nil, nil, err
	}

	v := &domain.Visit{
		Institution: institution,
		PartySize:   req.PartySize,
		VisitDate:   visitDate,
		BlockLabel:  req.BlockLabel,
		BlockID:     schedule.BlockID(visitDate, req.BlockLabel),
		Status:      domain.VisitPending,
		Description: description,
	}
	if fields := validator.Validate(v); fields != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrValidation, fields)
	}

	snap, err := s.visits.CreateWithCapacity(ctx, v, vc.MaxPerBlock)
	if err != nil {
		return nil, nil, err
	}

	if s.events != nil {
		s.events.VisitCreated(v)
	}

	figures := &CapacityFigures{
		Occupied:    snap.Occupied + v.PartySize,
		Remaining:   snap.MaxCapacity - snap.Occupied - v.PartySize,
		MaxCapacity: snap.MaxCapacity,
	}
	return v, figures, nil
}

// DayAvailability answers "what is open on date D": every generated block
// with its occupancy, remaining seats and state classification.
func (s *Service) DayAvailability(ctx context.Context, dateStr string) (*DayAvailability, error) {
	day, err := time.Parse(dateFormat, dateStr)
	if err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrValidation)
	}

	vc := s.cfg.Visits
	if !vc.OperatingWeekdays[day.Weekday()] {
		return nil, &schedule.PolicyError{
			Rule:    schedule.ErrNotOperatingDay,
			Message: fmt.Sprintf("%s is not an operating day", day.Weekday()),
		}
	}

	occupancy, bookings, err := s.dayOccupancy(ctx, day)
	if err != nil {
		return nil, err
	}

	blocks := schedule.DailyBlocks(vc)
	slots := make([]SlotAvailability, 0, len(blocks))
	for _, label := range blocks {
		blockID := schedule.BlockID(day, label)
		occupied := occupancy[blockID]
		slots = append(slots, SlotAvailability{
			Label:     label,
			Occupied:  occupied,
			Remaining: vc.MaxPerBlock - occupied,
			State:     schedule.SlotState(occupied, vc.MaxPerBlock),
			Bookings:  bookings[blockID],
		})
	}

	return &DayAvailability{
		Date:             day.Format(dateFormat),
		DayName:          day.Weekday().String(),
		OperatingHours:   vc.OpeningTime + " - " + vc.ClosingTime,
		LunchWindow:      vc.LunchStart + " - " + vc.LunchEnd,
		MaxCapacityBlock: vc.MaxPerBlock,
		Slots:            slots,
		Note:             holidayNote,
	}, nil
}

// SuggestSlots returns the blocks that still fit a party of the given size,
// in ascending time order. Party size is validated before any slot work.
func (s *Service) SuggestSlots(ctx context.Context, dateStr string, partySize int) ([]SlotSuggestion, error) {
	vc := s.cfg.Visits
	if partySize < vc.MinPartySize || partySize > vc.MaxPartySize {
		return nil, fmt.Errorf("%w: party size must be between %d and %d",
			ErrValidation, vc.MinPartySize, vc.MaxPartySize)
	}

	day, err := time.Parse(dateFormat, dateStr)
	if err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrValidation)
	}
	if !vc.OperatingWeekdays[day.Weekday()] {
		return nil, &schedule.PolicyError{
			Rule:    schedule.ErrNotOperatingDay,
			Message: fmt.Sprintf("%s is not an operating day", day.Weekday()),
		}
	}

	occupancy, _, err := s.dayOccupancy(ctx, day)
	if err != nil {
		return nil, err
	}

	suggestions := make([]SlotSuggestion, 0)
	for _, label := range schedule.DailyBlocks(vc) {
		remaining := vc.MaxPerBlock - occupancy[schedule.BlockID(day, label)]
		if remaining >= partySize {
			suggestions = append(suggestions, SlotSuggestion{Label: label, Remaining: remaining})
		}
	}
	sort.Slice(suggestions, func(i, j int) bool { return suggestions[i].Label < suggestions[j].Label })
	return suggestions, nil
}

// UpdateStatus applies a status transition. Cancellation demands a reason;
// realization defaults one. Previous state is deliberately not checked.
func (s *Service) UpdateStatus(ctx context.Context, id int64, req UpdateStatusRequest) (*domain.Visit, error) {
	status := strings.TrimSpace(req.Status)
	if !s.statusAllowed(status) {
		return nil, fmt.Errorf("%w: %q is not one of %s",
			ErrInvalidStatus, status, strings.Join(s.cfg.Visits.Statuses, ", "))
	}

	description := strings.TrimSpace(req.Description)
	if err := validateDescription(description); err != nil {
		return nil, err
	}
	switch domain.VisitStatus(status) {
	case domain.VisitCancelled:
		if description == "" {
			return nil, ErrReasonMissing
		}
	case domain.VisitRealized:
		if description == "" {
			description = config.RealizedDefaultNote
		}
	}

	v, err := s.visits.GetByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}

	if description == "" {
		description = v.Description
	}

	if v.Status == domain.VisitCancelled && domain.VisitStatus(status) != domain.VisitCancelled {
		// Cancelling released the seats; reinstating must fit under the
		// ceiling again alongside whatever was booked in the meantime. The
		// check and the write land in one transaction so a concurrent
		// booking cannot slip between them.
		if err := s.visits.ReinstateWithCapacity(ctx, v, status, description, s.cfg.Visits.MaxPerBlock); err != nil {
			return nil, err
		}
	} else if err := s.visits.UpdateStatus(ctx, id, status, description); err != nil {
		return nil, err
	}

	v.Status = domain.VisitStatus(status)
	v.Description = description
	if s.events != nil {
		s.events.VisitStatusChanged(v)
	}
	return v, nil
}

// Delete removes the booking unconditionally. Occupancy is always
// recomputed from live rows, so no other booking is affected.
func (s *Service) Delete(ctx context.Context, id int64) error {
	v, err := s.visits.GetByID(ctx, id)
	if err != nil {
		return ErrNotFound
	}

	if err := s.visits.Delete(ctx, id); err != nil {
		return err
	}
	if s.events != nil {
		s.events.VisitDeleted(id, v.BlockID)
	}
	return nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*domain.Visit, error) {
	v, err := s.visits.GetByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	return v, nil
}

func (s *Service) List(ctx context.Context, f repository.VisitFilter) ([]domain.Visit, error) {
	return s.visits.List(ctx, f)
}

func (s *Service) Stats(ctx context.Context) (*repository.VisitStats, error) {
	return s.visits.Stats(ctx)
}

// dayOccupancy groups the day's counted visits by block.
func (s *Service) dayOccupancy(ctx context.Context, day time.Time) (map[string]int, map[string][]SlotBooking, error) {
	visits, err := s.visits.VisitsForDate(ctx, day)
	if err != nil {
		return nil, nil, err
	}

	occupancy := make(map[string]int)
	bookings := make(map[string][]SlotBooking)
	for _, v := range visits {
		occupancy[v.BlockID] += v.PartySize
		bookings[v.BlockID] = append(bookings[v.BlockID], SlotBooking{
			Institution: v.Institution,
			PartySize:   v.PartySize,
		})
	}
	return occupancy, bookings, nil
}

func (s *Service) validateInstitution(name string) error {
	vcfg := s.cfg.Validation
	if len([]rune(name)) < vcfg.NameMinLength || len([]rune(name)) > vcfg.NameMaxLength {
		return fmt.Errorf("%w: institution must be %d-%d characters",
			ErrValidation, vcfg.NameMinLength, vcfg.NameMaxLength)
	}
	if !vcfg.NameRegexp.MatchString(name) {
		return fmt.Errorf("%w: institution may only contain letters and spaces", ErrValidation)
	}
	return nil
}

func validateDescription(desc string) error {
	if len([]rune(desc)) > maxDescriptionLength {
		return fmt.Errorf("%w: description must be at most %d characters",
			ErrValidation, maxDescriptionLength)
	}
	return nil
}

func (s *Service) statusAllowed(status string) bool {
	for _, st := range s.cfg.Visits.Statuses {
		if st == status {
			return true
		}
	}
	return false
}
