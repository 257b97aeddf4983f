package account

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"museo/internal/config"
	"museo/internal/domain"
	"museo/internal/mailer"
)

type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) Create(ctx context.Context, a *domain.Account) error {
	args := m.Called(ctx, a)
	if a != nil {
		a.ID = 42 // simulate DB insert
	}
	return args.Error(0)
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) GetByConfirmToken(ctx context.Context, token string) (*domain.Account, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListStaff(ctx context.Context, search string) ([]domain.Account, error) {
	args := m.Called(ctx, search)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) Update(ctx context.Context, a *domain.Account) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAccountRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockInternRepository struct {
	mock.Mock
}

func (m *MockInternRepository) Create(ctx context.Context, i *domain.Intern) error {
	args := m.Called(ctx, i)
	if i != nil {
		i.ID = 77 // simulate DB insert
	}
	return args.Error(0)
}

func (m *MockInternRepository) GetByID(ctx context.Context, id int64) (*domain.Intern, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Intern), args.Error(1)
}

func (m *MockInternRepository) GetByEmail(ctx context.Context, email string) (*domain.Intern, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Intern), args.Error(1)
}

func (m *MockInternRepository) List(ctx context.Context, search string) ([]domain.Intern, error) {
	args := m.Called(ctx, search)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Intern), args.Error(1)
}

func (m *MockInternRepository) Update(ctx context.Context, i *domain.Intern) error {
	args := m.Called(ctx, i)
	return args.Error(0)
}

func (m *MockInternRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockTokenIssuer struct {
	mock.Mock
}

func (m *MockTokenIssuer) GenerateToken(accountID int64, role string) (string, error) {
	args := m.Called(accountID, role)
	return args.String(0), args.Error(1)
}

func testConfig() *config.Config {
	return &config.Config{
		Validation: config.ValidationConfig{
			NameMinLength: 3,
			NameMaxLength: 100,
			NameRegexp:    regexp.MustCompile(`^[a-zA-ZáéíóúÁÉÍÓÚñÑ\s]+$`),
		},
	}
}

func hashOf(t *testing.T, pw string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
	assert.NoError(t, err)
	return string(h)
}

func newTestService(accounts *MockAccountRepository, interns *MockInternRepository, tokens *MockTokenIssuer) *Service {
	return NewService(accounts, interns, tokens, mailer.NewDevConsoleMailer(false), testConfig())
}

func TestLogin_Success(t *testing.T) {
	accounts := new(MockAccountRepository)
	tokens := new(MockTokenIssuer)
	svc := newTestService(accounts, new(MockInternRepository), tokens)

	accounts.On("GetByEmail", mock.Anything, "admin@museo.ec").Return(&domain.Account{
		ID:             1,
		Email:          "admin@museo.ec",
		PasswordHash:   hashOf(t, "secret-password"),
		Role:           domain.RoleAdmin,
		Active:         true,
		EmailConfirmed: true,
	}, nil)
	tokens.On("GenerateToken", int64(1), "admin").Return("signed.jwt", nil)

	resp, err := svc.Login(context.Background(), LoginRequest{Email: "admin@museo.ec", Password: "secret-password"})
	assert.NoError(t, err)
	assert.Equal(t, "signed.jwt", resp.Token)
	assert.Equal(t, int64(1), resp.Account.ID)
}

func TestLogin_WrongPassword(t *testing.T) {
	accounts := new(MockAccountRepository)
	svc := newTestService(accounts, new(MockInternRepository), new(MockTokenIssuer))

	accounts.On("GetByEmail", mock.Anything, "admin@museo.ec").Return(&domain.Account{
		PasswordHash:   hashOf(t, "secret-password"),
		Active:         true,
		EmailConfirmed: true,
	}, nil)

	_, err := svc.Login(context.Background(), LoginRequest{Email: "admin@museo.ec", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownEmailSameError(t *testing.T) {
	accounts := new(MockAccountRepository)
	svc := newTestService(accounts, new(MockInternRepository), new(MockTokenIssuer))

	accounts.On("GetByEmail", mock.Anything, "ghost@museo.ec").Return(nil, assert.AnError)

	_, err := svc.Login(context.Background(), LoginRequest{Email: "ghost@museo.ec", Password: "whatever"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_DisabledAndUnconfirmed(t *testing.T) {
	accounts := new(MockAccountRepository)
	svc := newTestService(accounts, new(MockInternRepository), new(MockTokenIssuer))

	accounts.On("GetByEmail", mock.Anything, "off@museo.ec").Return(&domain.Account{
		PasswordHash: hashOf(t, "secret-password"), Active: false, EmailConfirmed: true,
	}, nil)
	accounts.On("GetByEmail", mock.Anything, "new@museo.ec").Return(&domain.Account{
		PasswordHash: hashOf(t, "secret-password"), Active: true, EmailConfirmed: false,
	}, nil)

	_, err := svc.Login(context.Background(), LoginRequest{Email: "off@museo.ec", Password: "secret-password"})
	assert.ErrorIs(t, err, ErrAccountDisabled)

	_, err = svc.Login(context.Background(), LoginRequest{Email: "new@museo.ec", Password: "secret-password"})
	assert.ErrorIs(t, err, ErrNotConfirmed)
}

func TestConfirmEmail_SingleUse(t *testing.T) {
	accounts := new(MockAccountRepository)
	svc := newTestService(accounts, new(MockInternRepository), new(MockTokenIssuer))

	a := &domain.Account{ID: 2, ConfirmToken: "tok-123"}
	accounts.On("GetByConfirmToken", mock.Anything, "tok-123").Return(a, nil)
	accounts.On("Update", mock.Anything, mock.MatchedBy(func(got *domain.Account) bool {
		return got.EmailConfirmed && got.ConfirmToken == ""
	})).Return(nil)

	assert.NoError(t, svc.ConfirmEmail(context.Background(), "tok-123"))
	accounts.AssertExpectations(t)
}

func TestCreateStaff_StudentRequiresFaculty(t *testing.T) {
	accounts := new(MockAccountRepository)
	svc := newTestService(accounts, new(MockInternRepository), new(MockTokenIssuer))

	_, err := svc.CreateStaff(context.Background(), CreateStaffRequest{
		Name:     "Lucía Paredes",
		Email:    "lucia@museo.ec",
		Password: "secret-password",
		Kind:     "student",
	})
	assert.ErrorIs(t, err, ErrValidation)
	accounts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateStaff_AdministrativeDropsInternshipFields(t *testing.T) {
	accounts := new(MockAccountRepository)
	svc := newTestService(accounts, new(MockInternRepository), new(MockTokenIssuer))

	accounts.On("Create", mock.Anything, mock.AnythingOfType("*domain.Account")).Return(nil)

	a, err := svc.CreateStaff(context.Background(), CreateStaffRequest{
		Name:            "Lucía Paredes",
		Email:           "Lucia@Museo.EC",
		Password:        "secret-password",
		Kind:            "administrative",
		Faculty:         "Biología",
		InternshipHours: 120,
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.RoleStaff, a.Role)
	assert.Equal(t, "lucia@museo.ec", a.Email)
	assert.Empty(t, a.Faculty)
	assert.Zero(t, a.InternshipHours)
	assert.NotEmpty(t, a.ConfirmToken)
	assert.False(t, a.EmailConfirmed)
}

func TestCreateStaff_ShortPassword(t *testing.T) {
	svc := newTestService(new(MockAccountRepository), new(MockInternRepository), new(MockTokenIssuer))

	_, err := svc.CreateStaff(context.Background(), CreateStaffRequest{
		Name:     "Lucía Paredes",
		Email:    "lucia@museo.ec",
		Password: "short",
		Kind:     "administrative",
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDeleteStaff_Guards(t *testing.T) {
	accounts := new(MockAccountRepository)
	svc := newTestService(accounts, new(MockInternRepository), new(MockTokenIssuer))

	err := svc.DeleteStaff(context.Background(), 5, 5)
	assert.ErrorIs(t, err, ErrSelfDelete)

	accounts.On("GetByID", mock.Anything, int64(1)).Return(&domain.Account{ID: 1, Role: domain.RoleAdmin}, nil)
	err = svc.DeleteStaff(context.Background(), 5, 1)
	assert.ErrorIs(t, err, ErrAdminImmutable)

	accounts.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDeleteStaff_Success(t *testing.T) {
	accounts := new(MockAccountRepository)
	svc := newTestService(accounts, new(MockInternRepository), new(MockTokenIssuer))

	accounts.On("GetByID", mock.Anything, int64(9)).Return(&domain.Account{ID: 9, Role: domain.RoleStaff}, nil)
	accounts.On("Delete", mock.Anything, int64(9)).Return(nil)

	assert.NoError(t, svc.DeleteStaff(context.Background(), 5, 9))
	accounts.AssertExpectations(t)
}

func TestRecoverPassword_UnknownEmailSilent(t *testing.T) {
	accounts := new(MockAccountRepository)
	svc := newTestService(accounts, new(MockInternRepository), new(MockTokenIssuer))

	accounts.On("GetByEmail", mock.Anything, "ghost@museo.ec").Return(nil, assert.AnError)

	err := svc.RecoverPassword(context.Background(), RecoverPasswordRequest{Email: "ghost@museo.ec"})
	assert.NoError(t, err)
	accounts.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestResetPassword_RedeemsToken(t *testing.T) {
	accounts := new(MockAccountRepository)
	svc := newTestService(accounts, new(MockInternRepository), new(MockTokenIssuer))

	a := &domain.Account{ID: 3, ConfirmToken: "reset-tok", PasswordHash: hashOf(t, "old-password")}
	accounts.On("GetByConfirmToken", mock.Anything, "reset-tok").Return(a, nil)
	accounts.On("Update", mock.Anything, mock.MatchedBy(func(got *domain.Account) bool {
		if got.ConfirmToken != "" {
			return false
		}
		return bcrypt.CompareHashAndPassword([]byte(got.PasswordHash), []byte("brand-new-password")) == nil
	})).Return(nil)

	err := svc.ResetPassword(context.Background(), ResetPasswordRequest{Token: "reset-tok", NewPassword: "brand-new-password"})
	assert.NoError(t, err)
	accounts.AssertExpectations(t)
}

func TestCreateIntern_Success(t *testing.T) {
	interns := new(MockInternRepository)
	svc := newTestService(new(MockAccountRepository), interns, new(MockTokenIssuer))

	interns.On("Create", mock.Anything, mock.AnythingOfType("*domain.Intern")).Return(nil)

	i, err := svc.CreateIntern(context.Background(), CreateInternRequest{
		Name:            "Pedro Salazar",
		Email:           "pedro@museo.ec",
		Faculty:         "Geología",
		InternshipHours: 60,
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(77), i.ID)
	assert.True(t, i.Active)
	assert.NotEmpty(t, i.ConfirmToken)
}

func TestUpdateIntern_RejectsNegativeHours(t *testing.T) {
	interns := new(MockInternRepository)
	svc := newTestService(new(MockAccountRepository), interns, new(MockTokenIssuer))

	interns.On("GetByID", mock.Anything, int64(77)).Return(&domain.Intern{ID: 77, Name: "Pedro Salazar"}, nil)

	bad := -10
	_, err := svc.UpdateIntern(context.Background(), 77, UpdateInternRequest{InternshipHours: &bad})
	assert.ErrorIs(t, err, ErrValidation)
	interns.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdateProfile_AppliesProvidedFields(t *testing.T) {
	accounts := new(MockAccountRepository)
	svc := newTestService(accounts, new(MockInternRepository), new(MockTokenIssuer))

	accounts.On("GetByID", mock.Anything, int64(42)).Return(&domain.Account{
		ID:   42,
		Name: "Rosa Jaramillo",
		Role: domain.RoleStaff,
	}, nil)
	accounts.On("Update", mock.Anything, mock.MatchedBy(func(a *domain.Account) bool {
		return a.Name == "Rosa Elena Jaramillo" && a.Phone == "0991234567"
	})).Return(nil)

	name := "Rosa Elena Jaramillo"
	phone := "0991234567"
	a, err := svc.UpdateProfile(context.Background(), 42, UpdateProfileRequest{Name: &name, Phone: &phone})
	assert.NoError(t, err)
	assert.Equal(t, "Rosa Elena Jaramillo", a.Name)
	accounts.AssertExpectations(t)
}

func TestUpdateProfile_RejectsBadName(t *testing.T) {
	accounts := new(MockAccountRepository)
	svc := newTestService(accounts, new(MockInternRepository), new(MockTokenIssuer))

	accounts.On("GetByID", mock.Anything, int64(42)).Return(&domain.Account{ID: 42}, nil)

	name := "x1"
	_, err := svc.UpdateProfile(context.Background(), 42, UpdateProfileRequest{Name: &name})
	assert.ErrorIs(t, err, ErrValidation)
	accounts.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}
