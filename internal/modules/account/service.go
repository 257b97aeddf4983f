package account

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"museo/internal/config"
	"museo/internal/domain"
	"museo/internal/mailer"
	"museo/internal/repository"
)

const minPasswordLength = 8

type Service struct {
	accounts AccountRepository
	interns  InternRepository
	tokens   TokenIssuer
	mail     mailer.Mailer
	cfg      *config.Config
}

func NewService(accounts AccountRepository, interns InternRepository, tokens TokenIssuer, mail mailer.Mailer, cfg *config.Config) *Service {
	return &Service{
		accounts: accounts,
		interns:  interns,
		tokens:   tokens,
		mail:     mail,
		cfg:      cfg,
	}
}

// Login authenticates a back-office account. Credential failures and
// unknown emails produce the same error.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	a, err := s.accounts.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !a.Active {
		return nil, ErrAccountDisabled
	}
	if !a.EmailConfirmed {
		return nil, ErrNotConfirmed
	}

	token, err := s.tokens.GenerateToken(a.ID, string(a.Role))
	if err != nil {
		return nil, err
	}
	return &LoginResponse{Token: token, Account: a}, nil
}

func (s *Service) Profile(ctx context.Context, accountID int64) (*domain.Account, error) {
	a, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, ErrNotFound
	}
	return a, nil
}

// ConfirmEmail redeems a confirmation token. Tokens are single use.
func (s *Service) ConfirmEmail(ctx context.Context, token string) error {
	a, err := s.accounts.GetByConfirmToken(ctx, token)
	if err != nil {
		return ErrTokenInvalid
	}

	a.EmailConfirmed = true
	a.ConfirmToken = ""
	return s.accounts.Update(ctx, a)
}

// UpdateProfile lets an account change its own display data. Role, kind
// and internship fields are only touched through staff administration.
func (s *Service) UpdateProfile(ctx context.Context, accountID int64, req UpdateProfileRequest) (*domain.Account, error) {
	a, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, ErrNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if err := s.validateName(name); err != nil {
			return nil, err
		}
		a.Name = name
	}
	if req.Phone != nil {
		a.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.AvatarURL != nil {
		a.AvatarURL = strings.TrimSpace(*req.AvatarURL)
	}

	if err := s.accounts.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) ChangePassword(ctx context.Context, accountID int64, req ChangePasswordRequest) error {
	a, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return ErrNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return ErrInvalidCredentials
	}
	if err := validatePassword(req.NewPassword); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	a.PasswordHash = string(hash)
	return s.accounts.Update(ctx, a)
}

// RecoverPassword emails a reset token. Unknown emails succeed silently so
// the endpoint cannot be used to probe for registered addresses.
func (s *Service) RecoverPassword(ctx context.Context, req RecoverPasswordRequest) error {
	a, err := s.accounts.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil
	}

	a.ConfirmToken = uuid.NewString()
	if err := s.accounts.Update(ctx, a); err != nil {
		return err
	}
	return s.mail.SendPasswordRecovery(ctx, a.Email, a.ConfirmToken)
}

func (s *Service) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	a, err := s.accounts.GetByConfirmToken(ctx, req.Token)
	if err != nil {
		return ErrTokenInvalid
	}
	if err := validatePassword(req.NewPassword); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	a.PasswordHash = string(hash)
	a.ConfirmToken = ""
	a.EmailConfirmed = true
	return s.accounts.Update(ctx, a)
}

// CreateStaff registers a secondary administrator. Student staff carry
// internship data; administrative staff never do.
func (s *Service) CreateStaff(ctx context.Context, req CreateStaffRequest) (*domain.Account, error) {
	name := strings.TrimSpace(req.Name)
	if err := s.validateName(name); err != nil {
		return nil, err
	}
	if err := validatePassword(req.Password); err != nil {
		return nil, err
	}

	kind := domain.StaffKind(strings.TrimSpace(req.Kind))
	switch kind {
	case domain.StaffAdministrative:
	case domain.StaffStudent:
		if strings.TrimSpace(req.Faculty) == "" {
			return nil, fmt.Errorf("%w: faculty is required for student staff", ErrValidation)
		}
		if req.InternshipHours < 0 {
			return nil, fmt.Errorf("%w: internship_hours must be >= 0", ErrValidation)
		}
	default:
		return nil, fmt.Errorf("%w: kind must be %s or %s",
			ErrValidation, domain.StaffAdministrative, domain.StaffStudent)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	a := &domain.Account{
		Name:         name,
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hash),
		Role:         domain.RoleStaff,
		Phone:        strings.TrimSpace(req.Phone),
		Kind:         kind,
		ConfirmToken: uuid.NewString(),
		Active:       true,
	}
	if kind == domain.StaffStudent {
		a.Faculty = strings.TrimSpace(req.Faculty)
		a.InternshipHours = req.InternshipHours
	}

	if err := s.accounts.Create(ctx, a); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	if err := s.mail.SendAccountConfirmation(ctx, a.Email, a.ConfirmToken); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) ListStaff(ctx context.Context, search string) ([]domain.Account, error) {
	return s.accounts.ListStaff(ctx, search)
}

func (s *Service) GetStaff(ctx context.Context, id int64) (*domain.Account, error) {
	a, err := s.accounts.GetByID(ctx, id)
	if err != nil || a.Role != domain.RoleStaff {
		return nil, ErrNotFound
	}
	return a, nil
}

func (s *Service) UpdateStaff(ctx context.Context, id int64, req UpdateStaffRequest) (*domain.Account, error) {
	a, err := s.GetStaff(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if err := s.validateName(name); err != nil {
			return nil, err
		}
		a.Name = name
	}
	if req.Phone != nil {
		a.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.AvatarURL != nil {
		a.AvatarURL = strings.TrimSpace(*req.AvatarURL)
	}
	if a.Kind == domain.StaffStudent {
		if req.Faculty != nil {
			a.Faculty = strings.TrimSpace(*req.Faculty)
		}
		if req.InternshipHours != nil {
			if *req.InternshipHours < 0 {
				return nil, fmt.Errorf("%w: internship_hours must be >= 0", ErrValidation)
			}
			a.InternshipHours = *req.InternshipHours
		}
	}
	if req.Active != nil {
		a.Active = *req.Active
	}

	if err := s.accounts.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// DeleteStaff removes a staff account. An account never deletes itself,
// and the principal admin is untouchable.
func (s *Service) DeleteStaff(ctx context.Context, actorID, id int64) error {
	if actorID == id {
		return ErrSelfDelete
	}

	a, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return ErrNotFound
	}
	if a.Role == domain.RoleAdmin {
		return ErrAdminImmutable
	}
	return s.accounts.Delete(ctx, id)
}

func (s *Service) CreateIntern(ctx context.Context, req CreateInternRequest) (*domain.Intern, error) {
	name := strings.TrimSpace(req.Name)
	if err := s.validateName(name); err != nil {
		return nil, err
	}
	if req.InternshipHours < 0 {
		return nil, fmt.Errorf("%w: internship_hours must be >= 0", ErrValidation)
	}

	i := &domain.Intern{
		Name:            name,
		Email:           strings.ToLower(strings.TrimSpace(req.Email)),
		Faculty:         strings.TrimSpace(req.Faculty),
		InternshipHours: req.InternshipHours,
		Phone:           strings.TrimSpace(req.Phone),
		ConfirmToken:    uuid.NewString(),
		Active:          true,
	}
	if err := s.interns.Create(ctx, i); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	if err := s.mail.SendAccountConfirmation(ctx, i.Email, i.ConfirmToken); err != nil {
		return nil, err
	}
	return i, nil
}

func (s *Service) ListInterns(ctx context.Context, search string) ([]domain.Intern, error) {
	return s.interns.List(ctx, search)
}

func (s *Service) GetIntern(ctx context.Context, id int64) (*domain.Intern, error) {
	i, err := s.interns.GetByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	return i, nil
}

func (s *Service) UpdateIntern(ctx context.Context, id int64, req UpdateInternRequest) (*domain.Intern, error) {
	i, err := s.GetIntern(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if err := s.validateName(name); err != nil {
			return nil, err
		}
		i.Name = name
	}
	if req.Faculty != nil {
		i.Faculty = strings.TrimSpace(*req.Faculty)
	}
	if req.InternshipHours != nil {
		if *req.InternshipHours < 0 {
			return nil, fmt.Errorf("%w: internship_hours must be >= 0", ErrValidation)
		}
		i.InternshipHours = *req.InternshipHours
	}
	if req.Phone != nil {
		i.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.AvatarURL != nil {
		i.AvatarURL = strings.TrimSpace(*req.AvatarURL)
	}
	if req.Active != nil {
		i.Active = *req.Active
	}

	if err := s.interns.Update(ctx, i); err != nil {
		return nil, err
	}
	return i, nil
}

func (s *Service) DeleteIntern(ctx context.Context, id int64) error {
	if err := s.interns.Delete(ctx, id); err != nil {
		return ErrNotFound
	}
	return nil
}

func (s *Service) validateName(name string) error {
	vcfg := s.cfg.Validation
	if len([]rune(name)) < vcfg.NameMinLength || len([]rune(name)) > vcfg.NameMaxLength {
		return fmt.Errorf("%w: name must be %d-%d characters",
			ErrValidation, vcfg.NameMinLength, vcfg.NameMaxLength)
	}
	if !vcfg.NameRegexp.MatchString(name) {
		return fmt.Errorf("%w: name may only contain letters and spaces", ErrValidation)
	}
	return nil
}

func validatePassword(pw string) error {
	if len(pw) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrValidation, minPasswordLength)
	}
	return nil
}
