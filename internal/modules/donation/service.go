package donation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"museo/internal/config"
	"museo/internal/domain"
	"museo/internal/pkg/validator"
	"museo/internal/repository"
)

const maxItemDetailLength = 500

type Service struct {
	donations DonationRepository
	gateway   CheckoutGateway
	cfg       *config.Config
}

// NewService wires the donation flows. A nil gateway keeps money donations
// in pending state with no checkout redirect.
func NewService(donations DonationRepository, gateway CheckoutGateway, cfg *config.Config) *Service {
	return &Service{donations: donations, gateway: gateway, cfg: cfg}
}

// CreateMoney records a monetary pledge and opens a checkout session for
// it. The record is persisted before the gateway call so a gateway outage
// never loses the pledge.
func (s *Service) CreateMoney(ctx context.Context, req CreateMoneyDonationRequest) (*MoneyDonationResponse, error) {
	donor, institution, err := s.validateDonor(req.DonorName, req.Institution)
	if err != nil {
		return nil, err
	}
	if req.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be greater than zero", ErrValidation)
	}

	d := &domain.MoneyDonation{
		DonorName:   donor,
		Institution: institution,
		Amount:      req.Amount,
		Status:      domain.MoneyDonationPending,
		Date:        time.Now(),
	}
	if fields := validator.Validate(d); fields != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, fields)
	}
	if err := s.donations.CreateMoney(ctx, d); err != nil {
		return nil, err
	}

	resp := &MoneyDonationResponse{
		ID:          d.ID,
		DonorName:   d.DonorName,
		Institution: d.Institution,
		Amount:      d.Amount,
		Status:      string(d.Status),
	}

	if s.gateway != nil {
		sessionID, checkoutURL, err := s.gateway.CreateSession(ctx, d)
		if err != nil {
			return nil, err
		}
		if err := s.donations.SetMoneySession(ctx, d.ID, sessionID); err != nil {
			return nil, err
		}
		resp.CheckoutURL = checkoutURL
	}
	return resp, nil
}

// HandleWebhook settles the money donation named by a verified gateway
// event. Unknown sessions are ignored so replayed events stay harmless.
func (s *Service) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	if s.gateway == nil {
		return ErrGatewayDisabled
	}

	sessionID, paid, err := s.gateway.ParseWebhook(payload, signature)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadWebhook, err)
	}
	if sessionID == "" {
		return nil
	}

	d, err := s.donations.GetMoneyBySession(ctx, sessionID)
	if err != nil {
		return nil
	}

	status := domain.MoneyDonationFailed
	if paid {
		status = domain.MoneyDonationCompleted
	}
	return s.donations.UpdateMoneyStatus(ctx, d.ID, status)
}

func (s *Service) GetMoney(ctx context.Context, id int64) (*domain.MoneyDonation, error) {
	d, err := s.donations.GetMoneyByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	return d, nil
}

func (s *Service) ListMoney(ctx context.Context) ([]domain.MoneyDonation, error) {
	return s.donations.ListMoney(ctx)
}

// CreateGoods records a donation of physical items awaiting staff review.
func (s *Service) CreateGoods(ctx context.Context, req CreateGoodsDonationRequest) (*domain.GoodsDonation, error) {
	donor, institution, err := s.validateDonor(req.DonorName, req.Institution)
	if err != nil {
		return nil, err
	}

	detail := strings.TrimSpace(req.ItemDetail)
	if detail == "" || len([]rune(detail)) > maxItemDetailLength {
		return nil, fmt.Errorf("%w: item_detail must be 1-%d characters", ErrValidation, maxItemDetailLength)
	}

	condition := strings.TrimSpace(req.Condition)
	if !contains(s.cfg.Donations.ItemConditions, condition) {
		return nil, fmt.Errorf("%w: condition must be one of %s",
			ErrValidation, strings.Join(s.cfg.Donations.ItemConditions, ", "))
	}

	d := &domain.GoodsDonation{
		DonorName:      donor,
		Institution:    institution,
		ItemDetail:     detail,
		Condition:      domain.ItemCondition(condition),
		Status:         domain.GoodsDonationPending,
		EvaluationNote: config.GoodsDefaultNote,
		Date:           time.Now(),
	}
	if fields := validator.Validate(d); fields != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, fields)
	}
	if err := s.donations.CreateGoods(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// ReviewGoods resolves a pending goods donation. A missing note keeps the
// default one.
func (s *Service) ReviewGoods(ctx context.Context, id int64, req ReviewGoodsRequest) (*domain.GoodsDonation, error) {
	status := strings.TrimSpace(req.Status)
	if !contains(s.cfg.Donations.GoodsStatuses, status) || status == string(domain.GoodsDonationPending) {
		return nil, fmt.Errorf("%w: status must be %s or %s",
			ErrInvalidStatus, domain.GoodsDonationAccepted, domain.GoodsDonationRejected)
	}

	d, err := s.donations.GetGoodsByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}

	note := strings.TrimSpace(req.EvaluationNote)
	if note == "" {
		note = d.EvaluationNote
	}
	if err := s.donations.UpdateGoodsStatus(ctx, id, domain.GoodsDonationStatus(status), note); err != nil {
		return nil, err
	}

	d.Status = domain.GoodsDonationStatus(status)
	d.EvaluationNote = note
	return d, nil
}

func (s *Service) GetGoods(ctx context.Context, id int64) (*domain.GoodsDonation, error) {
	d, err := s.donations.GetGoodsByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	return d, nil
}

func (s *Service) ListGoods(ctx context.Context) ([]domain.GoodsDonation, error) {
	return s.donations.ListGoods(ctx)
}

func (s *Service) DeleteMoney(ctx context.Context, id int64) error {
	if err := s.donations.DeleteMoney(ctx, id); err != nil {
		return ErrNotFound
	}
	return nil
}

func (s *Service) DeleteGoods(ctx context.Context, id int64) error {
	if err := s.donations.DeleteGoods(ctx, id); err != nil {
		return ErrNotFound
	}
	return nil
}

func (s *Service) Stats(ctx context.Context) (*repository.DonationStats, error) {
	return s.donations.Stats(ctx)
}

func (s *Service) validateDonor(donorName, institution string) (string, string, error) {
	donor := strings.TrimSpace(donorName)
	vcfg := s.cfg.Validation
	if len([]rune(donor)) < vcfg.NameMinLength || len([]rune(donor)) > vcfg.NameMaxLength {
		return "", "", fmt.Errorf("%w: donor_name must be %d-%d characters",
			ErrValidation, vcfg.NameMinLength, vcfg.NameMaxLength)
	}
	if !vcfg.NameRegexp.MatchString(donor) {
		return "", "", fmt.Errorf("%w: donor_name may only contain letters and spaces", ErrValidation)
	}

	inst := strings.TrimSpace(institution)
	if inst == "" {
		return "", "", fmt.Errorf("%w: institution is required", ErrValidation)
	}
	return donor, inst, nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
