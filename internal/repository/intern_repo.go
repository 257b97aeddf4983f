package repository

import (
	"context"
	"strings"
	"time"

	"museo/internal/domain"

	"gorm.io/gorm"
)

type InternRepository struct {
	db *gorm.DB
}

func NewInternRepository(db *gorm.DB) *InternRepository {
	return &InternRepository{db: db}
}

type internModel struct {
	ID              int64     `gorm:"column:id;primaryKey"`
	Name            string    `gorm:"column:name"`
	Email           string    `gorm:"column:email;uniqueIndex"`
	Faculty         string    `gorm:"column:faculty"`
	InternshipHours int       `gorm:"column:internship_hours"`
	Phone           string    `gorm:"column:phone"`
	AvatarURL       *string   `gorm:"column:avatar_url"`
	GoogleID        *string   `gorm:"column:google_id"`
	ConfirmToken    *string   `gorm:"column:confirm_token;index"`
	EmailConfirmed  bool      `gorm:"column:email_confirmed"`
	Active          bool      `gorm:"column:active"`
	CreatedAt       time.Time `gorm:"column:created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at"`
}

func (internModel) TableName() string { return "interns" }

func toDomainIntern(m internModel) *domain.Intern {
	return &domain.Intern{
		ID:              m.ID,
		Name:            m.Name,
		Email:           m.Email,
		Faculty:         m.Faculty,
		InternshipHours: m.InternshipHours,
		Phone:           m.Phone,
		AvatarURL:       strOrEmpty(m.AvatarURL),
		GoogleID:        strOrEmpty(m.GoogleID),
		ConfirmToken:    strOrEmpty(m.ConfirmToken),
		EmailConfirmed:  m.EmailConfirmed,
		Active:          m.Active,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func toInternModel(i *domain.Intern) internModel {
	return internModel{
		ID:              i.ID,
		Name:            i.Name,
		Email:           strings.ToLower(strings.TrimSpace(i.Email)),
		Faculty:         i.Faculty,
		InternshipHours: i.InternshipHours,
		Phone:           i.Phone,
		AvatarURL:       strOrNil(i.AvatarURL),
		GoogleID:        strOrNil(i.GoogleID),
		ConfirmToken:    strOrNil(i.ConfirmToken),
		EmailConfirmed:  i.EmailConfirmed,
		Active:          i.Active,
		CreatedAt:       i.CreatedAt,
		UpdatedAt:       i.UpdatedAt,
	}
}

func (r *InternRepository) Create(ctx context.Context, i *domain.Intern) error {
	m := toInternModel(i)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*i = *toDomainIntern(m)
	return nil
}

func (r *InternRepository) GetByID(ctx context.Context, id int64) (*domain.Intern, error) {
	var m internModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainIntern(m), nil
}

func (r *InternRepository) GetByEmail(ctx context.Context, email string) (*domain.Intern, error) {
	var m internModel
	tx := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainIntern(m), nil
}

func (r *InternRepository) List(ctx context.Context, search string) ([]domain.Intern, error) {
	q := r.db.WithContext(ctx).Model(&internModel{})
	if search != "" {
		like := "%" + search + "%"
		q = q.Where("name LIKE ? OR email LIKE ? OR faculty LIKE ?", like, like, like)
	}

	var rows []internModel
	if err := q.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]domain.Intern, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainIntern(m))
	}
	return out, nil
}

func (r *InternRepository) Update(ctx context.Context, i *domain.Intern) error {
	m := toInternModel(i)
	m.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Save(&m).Error
}

func (r *InternRepository) Delete(ctx context.Context, id int64) error {
	tx := r.db.WithContext(ctx).Delete(&internModel{}, id)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
