package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"museo/internal/domain"
)

// IsUniqueViolation reports whether err is a postgres unique-constraint
// violation. sqlite surfaces the same condition as gorm.ErrDuplicatedKey.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

type AccountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

type accountModel struct {
	ID              int64     `gorm:"column:id;primaryKey"`
	Name            string    `gorm:"column:name"`
	Email           string    `gorm:"column:email;uniqueIndex"`
	PasswordHash    string    `gorm:"column:password_hash"`
	Role            string    `gorm:"column:role"`
	Phone           *string   `gorm:"column:phone"`
	AvatarURL       *string   `gorm:"column:avatar_url"`
	Kind            *string   `gorm:"column:kind"`
	Faculty         *string   `gorm:"column:faculty"`
	InternshipHours int       `gorm:"column:internship_hours"`
	ConfirmToken    *string   `gorm:"column:confirm_token;index"`
	EmailConfirmed  bool      `gorm:"column:email_confirmed"`
	Active          bool      `gorm:"column:active"`
	CreatedAt       time.Time `gorm:"column:created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at"`
}

func (accountModel) TableName() string { return "accounts" }

func strOrEmpty(p *string) string {
	if p != nil {
		return *p
	}
	return ""
}

func strOrNil(s string) *string {
	if s == "" {
		return nil
	}
	v := s
	return &v
}

func toDomainAccount(m accountModel) *domain.Account {
	return &domain.Account{
		ID:              m.ID,
		Name:            m.Name,
		Email:           m.Email,
		PasswordHash:    m.PasswordHash,
		Role:            domain.Role(m.Role),
		Phone:           strOrEmpty(m.Phone),
		AvatarURL:       strOrEmpty(m.AvatarURL),
		Kind:            domain.StaffKind(strOrEmpty(m.Kind)),
		Faculty:         strOrEmpty(m.Faculty),
		InternshipHours: m.InternshipHours,
		ConfirmToken:    strOrEmpty(m.ConfirmToken),
		EmailConfirmed:  m.EmailConfirmed,
		Active:          m.Active,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func toAccountModel(a *domain.Account) accountModel {
	return accountModel{
		ID:              a.ID,
		Name:            a.Name,
		Email:           strings.ToLower(strings.TrimSpace(a.Email)),
		PasswordHash:    a.PasswordHash,
		Role:            string(a.Role),
		Phone:           strOrNil(a.Phone),
		AvatarURL:       strOrNil(a.AvatarURL),
		Kind:            strOrNil(string(a.Kind)),
		Faculty:         strOrNil(a.Faculty),
		InternshipHours: a.InternshipHours,
		ConfirmToken:    strOrNil(a.ConfirmToken),
		EmailConfirmed:  a.EmailConfirmed,
		Active:          a.Active,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

func (r *AccountRepository) Create(ctx context.Context, a *domain.Account) error {
	m := toAccountModel(a)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*a = *toDomainAccount(m)
	return nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	var m accountModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainAccount(m), nil
}

func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	var m accountModel
	tx := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainAccount(m), nil
}

func (r *AccountRepository) GetByConfirmToken(ctx context.Context, token string) (*domain.Account, error) {
	var m accountModel
	tx := r.db.WithContext(ctx).Where("confirm_token = ?", token).First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainAccount(m), nil
}

// ListStaff returns staff accounts only, newest first.
func (r *AccountRepository) ListStaff(ctx context.Context, search string) ([]domain.Account, error) {
	q := r.db.WithContext(ctx).Model(&accountModel{}).
		Where("role = ?", string(domain.RoleStaff))
	if search != "" {
		like := "%" + search + "%"
		q = q.Where("name LIKE ? OR email LIKE ? OR faculty LIKE ?", like, like, like)
	}

	var rows []accountModel
	if err := q.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]domain.Account, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainAccount(m))
	}
	return out, nil
}

func (r *AccountRepository) Update(ctx context.Context, a *domain.Account) error {
	m := toAccountModel(a)
	m.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Save(&m).Error
}

func (r *AccountRepository) Delete(ctx context.Context, id int64) error {
	tx := r.db.WithContext(ctx).Delete(&accountModel{}, id)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
