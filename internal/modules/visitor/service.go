package visitor

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"museo/internal/config"
	"museo/internal/domain"
	"museo/internal/pkg/validator"
	"museo/internal/repository"
)

var nationalIDPattern = regexp.MustCompile(`^\d{10}$`)

type Service struct {
	visitors VisitorRepository
	cfg      *config.Config
}

func NewService(visitors VisitorRepository, cfg *config.Config) *Service {
	return &Service{visitors: visitors, cfg: cfg}
}

// Register logs one walk-in visitor. The date defaults to the current day;
// back-dated entries are accepted because the log is filled from paper forms.
func (s *Service) Register(ctx context.Context, req RegisterVisitorRequest) (*domain.VisitorEntry, error) {
	name := strings.TrimSpace(req.Name)
	vcfg := s.cfg.Validation
	if len([]rune(name)) < vcfg.NameMinLength || len([]rune(name)) > vcfg.NameMaxLength {
		return nil, fmt.Errorf("%w: name must be %d-%d characters",
			ErrValidation, vcfg.NameMinLength, vcfg.NameMaxLength)
	}
	if !vcfg.NameRegexp.MatchString(name) {
		return nil, fmt.Errorf("%w: name may only contain letters and spaces", ErrValidation)
	}

	nationalID := strings.TrimSpace(req.NationalID)
	if !nationalIDPattern.MatchString(nationalID) {
		return nil, fmt.Errorf("%w: national_id must be 10 digits", ErrValidation)
	}

	institution := strings.TrimSpace(req.Institution)
	if institution == "" {
		return nil, fmt.Errorf("%w: institution is required", ErrValidation)
	}

	date := time.Now()
	if req.Date != "" {
		parsed, err := time.Parse(dateFormat, req.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrValidation)
		}
		date = parsed
	}

	e := &domain.VisitorEntry{
		Name:        name,
		NationalID:  nationalID,
		Institution: institution,
		Date:        date,
	}
	if fields := validator.Validate(e); fields != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, fields)
	}
	if err := s.visitors.Create(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *Service) List(ctx context.Context, f repository.VisitorFilter) ([]domain.VisitorEntry, error) {
	return s.visitors.List(ctx, f)
}

func (s *Service) GetByID(ctx context.Context, id int64) (*domain.VisitorEntry, error) {
	e, err := s.visitors.GetByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	return e, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.visitors.Delete(ctx, id); err != nil {
		return ErrNotFound
	}
	return nil
}

func (s *Service) Stats(ctx context.Context) (*repository.VisitorStats, error) {
	return s.visitors.Stats(ctx)
}
