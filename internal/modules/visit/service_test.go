package visit

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"museo/internal/config"
	"museo/internal/domain"
	"museo/internal/repository"
	"museo/internal/schedule"
)

type MockVisitRepository struct {
	mock.Mock
}

func (m *MockVisitRepository) CreateWithCapacity(ctx context.Context, v *domain.Visit, maxCapacity int) (*repository.CapacityBlock, error) {
	args := m.Called(ctx, v, maxCapacity)
	if v != nil {
		v.ID = 999 // simulate DB insert
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.CapacityBlock), args.Error(1)
}

func (m *MockVisitRepository) ReinstateWithCapacity(ctx context.Context, v *domain.Visit, status, description string, maxCapacity int) error {
	args := m.Called(ctx, v, status, description, maxCapacity)
	return args.Error(0)
}

func (m *MockVisitRepository) VisitsForDate(ctx context.Context, day time.Time) ([]domain.Visit, error) {
	args := m.Called(ctx, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Visit), args.Error(1)
}

func (m *MockVisitRepository) List(ctx context.Context, f repository.VisitFilter) ([]domain.Visit, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Visit), args.Error(1)
}

func (m *MockVisitRepository) GetByID(ctx context.Context, id int64) (*domain.Visit, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Visit), args.Error(1)
}

func (m *MockVisitRepository) UpdateStatus(ctx context.Context, id int64, status, description string) error {
	args := m.Called(ctx, id, status, description)
	return args.Error(0)
}

func (m *MockVisitRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockVisitRepository) Stats(ctx context.Context) (*repository.VisitStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.VisitStats), args.Error(1)
}

type MockEventSink struct {
	mock.Mock
}

func (m *MockEventSink) VisitCreated(v *domain.Visit)        { m.Called(v) }
func (m *MockEventSink) VisitStatusChanged(v *domain.Visit)  { m.Called(v) }
func (m *MockEventSink) VisitDeleted(id int64, blockID string) { m.Called(id, blockID) }

func testConfig() *config.Config {
	return &config.Config{
		Visits: config.VisitConfig{
			OpeningTime:  "08:00",
			ClosingTime:  "16:30",
			LunchStart:   "12:30",
			LunchEnd:     "13:30",
			BlockMinutes: 30,
			OperatingWeekdays: map[time.Weekday]bool{
				time.Monday: true, time.Tuesday: true, time.Wednesday: true,
				time.Thursday: true, time.Friday: true,
			},
			MaxPerBlock:    40,
			MinPartySize:   2,
			MaxPartySize:   25,
			MinAdvanceDays: 1,
			Statuses:       []string{"pending", "realized", "cancelled"},
		},
		Validation: config.ValidationConfig{
			NameMinLength: 3,
			NameMaxLength: 100,
			NameRegexp:    regexp.MustCompile(`^[a-zA-ZáéíóúÁÉÍÓÚñÑ\s]+$`),
		},
	}
}

// nextWeekday finds the first occurrence of wd at least `days` ahead of now.
func nextWeekday(wd time.Weekday, days int) time.Time {
	d := time.Now().AddDate(0, 0, days)
	for d.Weekday() != wd {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

func TestCreateVisit_Success(t *testing.T) {
	repo := new(MockVisitRepository)
	events := new(MockEventSink)
	svc := NewService(repo, events, testConfig())

	day := nextWeekday(time.Wednesday, 7)
	repo.On("CreateWithCapacity", mock.Anything, mock.AnythingOfType("*domain.Visit"), 40).
		Return(&repository.CapacityBlock{Occupied: 10, MaxCapacity: 40, Remaining: 30}, nil)
	events.On("VisitCreated", mock.AnythingOfType("*domain.Visit")).Return()

	v, figures, err := svc.CreateVisit(context.Background(), CreateVisitRequest{
		Institution: "Colegio San Gabriel",
		PartySize:   15,
		VisitDate:   day.Format("2006-01-02"),
		BlockLabel:  "09:00",
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(999), v.ID)
	assert.Equal(t, domain.VisitPending, v.Status)
	assert.Equal(t, day.Format("20060102")+"-0900", v.BlockID)
	assert.Equal(t, 25, figures.Occupied)
	assert.Equal(t, 15, figures.Remaining)
	assert.Equal(t, 40, figures.MaxCapacity)
	repo.AssertExpectations(t)
	events.AssertExpectations(t)
}

func TestCreateVisit_CapacityExceeded(t *testing.T) {
	repo := new(MockVisitRepository)
	events := new(MockEventSink)
	svc := NewService(repo, events, testConfig())

	day := nextWeekday(time.Wednesday, 7)
	capErr := &repository.CapacityExceededError{Occupied: 38, MaxCapacity: 40, Remaining: 2, Requested: 10}
	repo.On("CreateWithCapacity", mock.Anything, mock.AnythingOfType("*domain.Visit"), 40).
		Return(nil, capErr)

	_, _, err := svc.CreateVisit(context.Background(), CreateVisitRequest{
		Institution: "Escuela Sucre",
		PartySize:   10,
		VisitDate:   day.Format("2006-01-02"),
		BlockLabel:  "09:00",
	})

	var got *repository.CapacityExceededError
	assert.ErrorAs(t, err, &got)
	assert.Equal(t, 2, got.Remaining)
	events.AssertNotCalled(t, "VisitCreated", mock.Anything)
}

func TestCreateVisit_RejectsBadInstitution(t *testing.T) {
	svc := NewService(new(MockVisitRepository), nil, testConfig())
	day := nextWeekday(time.Wednesday, 7)

	cases := []string{"AB", "Colegio 24 de Mayo", ""}
	for _, name := range cases {
		_, _, err := svc.CreateVisit(context.Background(), CreateVisitRequest{
			Institution: name,
			PartySize:   10,
			VisitDate:   day.Format("2006-01-02"),
			BlockLabel:  "09:00",
		})
		assert.ErrorIs(t, err, ErrValidation, "institution %q", name)
	}
}

func TestCreateVisit_RejectsPartySizeOutOfBounds(t *testing.T) {
	svc := NewService(new(MockVisitRepository), nil, testConfig())
	day := nextWeekday(time.Wednesday, 7)

	for _, size := range []int{1, 26, 0} {
		_, _, err := svc.CreateVisit(context.Background(), CreateVisitRequest{
			Institution: "Colegio Central",
			PartySize:   size,
			VisitDate:   day.Format("2006-01-02"),
			BlockLabel:  "09:00",
		})
		assert.ErrorIs(t, err, ErrValidation, "size %d", size)
	}
}

func TestCreateVisit_RejectsOverlongDescription(t *testing.T) {
	repo := new(MockVisitRepository)
	svc := NewService(repo, nil, testConfig())
	day := nextWeekday(time.Wednesday, 7)

	_, _, err := svc.CreateVisit(context.Background(), CreateVisitRequest{
		Institution: "Colegio Central",
		PartySize:   10,
		VisitDate:   day.Format("2006-01-02"),
		BlockLabel:  "09:00",
		Description: strings.Repeat("a", 501),
	})

	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "500")
	repo.AssertNotCalled(t, "CreateWithCapacity", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateVisit_PolicyRejectionsDoNotTouchStore(t *testing.T) {
	repo := new(MockVisitRepository)
	svc := NewService(repo, nil, testConfig())

	saturday := nextWeekday(time.Saturday, 7)
	_, _, err := svc.CreateVisit(context.Background(), CreateVisitRequest{
		Institution: "Colegio Central",
		PartySize:   10,
		VisitDate:   saturday.Format("2006-01-02"),
		BlockLabel:  "09:00",
	})
	assert.ErrorIs(t, err, schedule.ErrNotOperatingDay)

	yesterday := time.Now().AddDate(0, 0, -1)
	_, _, err = svc.CreateVisit(context.Background(), CreateVisitRequest{
		Institution: "Colegio Central",
		PartySize:   10,
		VisitDate:   yesterday.Format("2006-01-02"),
		BlockLabel:  "09:00",
	})
	assert.ErrorIs(t, err, schedule.ErrPastDate)

	repo.AssertNotCalled(t, "CreateWithCapacity", mock.Anything, mock.Anything, mock.Anything)
}

func TestDayAvailability_GroupsByBlock(t *testing.T) {
	repo := new(MockVisitRepository)
	svc := NewService(repo, nil, testConfig())

	day := nextWeekday(time.Wednesday, 7)
	block0900 := schedule.BlockID(day, "09:00")
	block1000 := schedule.BlockID(day, "10:00")
	repo.On("VisitsForDate", mock.Anything, mock.AnythingOfType("time.Time")).Return([]domain.Visit{
		{Institution: "Colegio Central", PartySize: 20, BlockID: block0900, BlockLabel: "09:00"},
		{Institution: "Escuela Sucre", PartySize: 10, BlockID: block0900, BlockLabel: "09:00"},
		{Institution: "Liceo Naval", PartySize: 40, BlockID: block1000, BlockLabel: "10:00"},
	}, nil)

	avail, err := svc.DayAvailability(context.Background(), day.Format("2006-01-02"))
	assert.NoError(t, err)
	assert.Equal(t, day.Weekday().String(), avail.DayName)
	assert.Equal(t, "08:00 - 16:30", avail.OperatingHours)
	assert.Len(t, avail.Slots, 15)

	byLabel := map[string]SlotAvailability{}
	for _, s := range avail.Slots {
		byLabel[s.Label] = s
		assert.NotContains(t, []string{"12:30", "13:00", "13:30"}, s.Label)
	}

	assert.Equal(t, 30, byLabel["09:00"].Occupied)
	assert.Equal(t, schedule.SlotNearlyFull, byLabel["09:00"].State)
	assert.Len(t, byLabel["09:00"].Bookings, 2)
	assert.Equal(t, 40, byLabel["10:00"].Occupied)
	assert.Equal(t, schedule.SlotFull, byLabel["10:00"].State)
	assert.Equal(t, 0, byLabel["10:00"].Remaining)
	assert.Equal(t, schedule.SlotOpen, byLabel["08:00"].State)
}

func TestDayAvailability_NonOperatingDay(t *testing.T) {
	repo := new(MockVisitRepository)
	svc := NewService(repo, nil, testConfig())

	sunday := nextWeekday(time.Sunday, 3)
	_, err := svc.DayAvailability(context.Background(), sunday.Format("2006-01-02"))
	assert.ErrorIs(t, err, schedule.ErrNotOperatingDay)
	assert.Contains(t, err.Error(), "Sunday")
	repo.AssertNotCalled(t, "VisitsForDate", mock.Anything, mock.Anything)
}

func TestSuggestSlots_FiltersByRemaining(t *testing.T) {
	repo := new(MockVisitRepository)
	svc := NewService(repo, nil, testConfig())

	day := nextWeekday(time.Thursday, 7)
	repo.On("VisitsForDate", mock.Anything, mock.AnythingOfType("time.Time")).Return([]domain.Visit{
		{Institution: "Colegio Central", PartySize: 35, BlockID: schedule.BlockID(day, "08:00"), BlockLabel: "08:00"},
		{Institution: "Escuela Sucre", PartySize: 25, BlockID: schedule.BlockID(day, "08:30"), BlockLabel: "08:30"},
	}, nil)

	slots, err := svc.SuggestSlots(context.Background(), day.Format("2006-01-02"), 10)
	assert.NoError(t, err)

	labels := make([]string, 0, len(slots))
	for _, s := range slots {
		labels = append(labels, s.Label)
		assert.GreaterOrEqual(t, s.Remaining, 10)
	}
	assert.NotContains(t, labels, "08:00") // only 5 left
	assert.Contains(t, labels, "08:30")    // 15 left
	assert.Contains(t, labels, "09:00")    // empty
	assert.IsIncreasing(t, labels)
}

func TestSuggestSlots_ValidatesPartySizeFirst(t *testing.T) {
	repo := new(MockVisitRepository)
	svc := NewService(repo, nil, testConfig())

	day := nextWeekday(time.Thursday, 7)
	_, err := svc.SuggestSlots(context.Background(), day.Format("2006-01-02"), 1)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.SuggestSlots(context.Background(), day.Format("2006-01-02"), 30)
	assert.ErrorIs(t, err, ErrValidation)
	repo.AssertNotCalled(t, "VisitsForDate", mock.Anything, mock.Anything)
}

func TestUpdateStatus_CancellationRequiresReason(t *testing.T) {
	repo := new(MockVisitRepository)
	svc := NewService(repo, nil, testConfig())

	_, err := svc.UpdateStatus(context.Background(), 7, UpdateStatusRequest{Status: "cancelled"})
	assert.ErrorIs(t, err, ErrReasonMissing)
	repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateStatus_RealizedDefaultsNote(t *testing.T) {
	repo := new(MockVisitRepository)
	events := new(MockEventSink)
	svc := NewService(repo, events, testConfig())

	repo.On("GetByID", mock.Anything, int64(7)).Return(&domain.Visit{ID: 7, Status: domain.VisitPending}, nil)
	repo.On("UpdateStatus", mock.Anything, int64(7), "realized", "sin novedad").Return(nil)
	events.On("VisitStatusChanged", mock.AnythingOfType("*domain.Visit")).Return()

	v, err := svc.UpdateStatus(context.Background(), 7, UpdateStatusRequest{Status: "realized"})
	assert.NoError(t, err)
	assert.Equal(t, domain.VisitRealized, v.Status)
	assert.Equal(t, "sin novedad", v.Description)
	repo.AssertExpectations(t)
}

func TestUpdateStatus_ReinstateOverCapacityRejected(t *testing.T) {
	repo := new(MockVisitRepository)
	svc := NewService(repo, nil, testConfig())

	cancelled := &domain.Visit{ID: 7, PartySize: 15, BlockID: "20260901-0900", Status: domain.VisitCancelled}
	repo.On("GetByID", mock.Anything, int64(7)).Return(cancelled, nil)
	repo.On("ReinstateWithCapacity", mock.Anything, cancelled, "pending", "", 40).
		Return(&repository.CapacityExceededError{Occupied: 30, MaxCapacity: 40, Remaining: 10, Requested: 15})

	_, err := svc.UpdateStatus(context.Background(), 7, UpdateStatusRequest{Status: "pending"})
	var capErr *repository.CapacityExceededError
	assert.ErrorAs(t, err, &capErr)
	assert.Equal(t, 30, capErr.Occupied)
	assert.Equal(t, 10, capErr.Remaining)
	assert.Equal(t, 15, capErr.Requested)
	repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateStatus_ReinstateGoesThroughCheckedWrite(t *testing.T) {
	repo := new(MockVisitRepository)
	events := new(MockEventSink)
	svc := NewService(repo, events, testConfig())

	cancelled := &domain.Visit{ID: 7, PartySize: 15, BlockID: "20260901-0900", Status: domain.VisitCancelled, Description: "llamaron a cancelar"}
	repo.On("GetByID", mock.Anything, int64(7)).Return(cancelled, nil)
	repo.On("ReinstateWithCapacity", mock.Anything, cancelled, "pending", "llamaron a cancelar", 40).Return(nil)
	events.On("VisitStatusChanged", mock.AnythingOfType("*domain.Visit")).Return()

	v, err := svc.UpdateStatus(context.Background(), 7, UpdateStatusRequest{Status: "pending"})
	assert.NoError(t, err)
	assert.Equal(t, domain.VisitPending, v.Status)
	// The plain two-step write must never carry a reinstatement.
	repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	repo.AssertExpectations(t)
}

func TestUpdateStatus_RejectsOverlongDescription(t *testing.T) {
	repo := new(MockVisitRepository)
	svc := NewService(repo, nil, testConfig())

	_, err := svc.UpdateStatus(context.Background(), 7, UpdateStatusRequest{
		Status:      "cancelled",
		Description: strings.Repeat("ñ", 501),
	})

	assert.ErrorIs(t, err, ErrValidation)
	repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateStatus_RejectsUnknownStatus(t *testing.T) {
	svc := NewService(new(MockVisitRepository), nil, testConfig())

	_, err := svc.UpdateStatus(context.Background(), 7, UpdateStatusRequest{Status: "archived"})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestUpdateStatus_NotFound(t *testing.T) {
	repo := new(MockVisitRepository)
	svc := NewService(repo, nil, testConfig())

	repo.On("GetByID", mock.Anything, int64(404)).Return(nil, errors.New("record not found"))

	_, err := svc.UpdateStatus(context.Background(), 404, UpdateStatusRequest{Status: "realized"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete_EmitsEvent(t *testing.T) {
	repo := new(MockVisitRepository)
	events := new(MockEventSink)
	svc := NewService(repo, events, testConfig())

	repo.On("GetByID", mock.Anything, int64(3)).Return(&domain.Visit{ID: 3, BlockID: "20260901-0900"}, nil)
	repo.On("Delete", mock.Anything, int64(3)).Return(nil)
	events.On("VisitDeleted", int64(3), "20260901-0900").Return()

	err := svc.Delete(context.Background(), 3)
	assert.NoError(t, err)
	repo.AssertExpectations(t)
	events.AssertExpectations(t)
}
