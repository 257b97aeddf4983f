package repository

import (
	"context"
	"time"

	"museo/internal/domain"

	"gorm.io/gorm"
)

type VisitorRepository struct {
	db *gorm.DB
}

func NewVisitorRepository(db *gorm.DB) *VisitorRepository {
	return &VisitorRepository{db: db}
}

type visitorModel struct {
	ID          int64     `gorm:"column:id;primaryKey"`
	Name        string    `gorm:"column:name"`
	NationalID  string    `gorm:"column:national_id"`
	Institution string    `gorm:"column:institution"`
	Date        time.Time `gorm:"column:date"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (visitorModel) TableName() string { return "visitors" }

func toDomainVisitor(m visitorModel) *domain.VisitorEntry {
	return &domain.VisitorEntry{
		ID:          m.ID,
		Name:        m.Name,
		NationalID:  m.NationalID,
		Institution: m.Institution,
		Date:        m.Date,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func (r *VisitorRepository) Create(ctx context.Context, e *domain.VisitorEntry) error {
	m := visitorModel{
		Name:        e.Name,
		NationalID:  e.NationalID,
		Institution: e.Institution,
		Date:        e.Date,
	}
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*e = *toDomainVisitor(m)
	return nil
}

// VisitorFilter narrows List; zero values mean "no filter".
type VisitorFilter struct {
	Search      string
	Institution string
	Date        *time.Time
}

func (r *VisitorRepository) List(ctx context.Context, f VisitorFilter) ([]domain.VisitorEntry, error) {
	q := r.db.WithContext(ctx).Model(&visitorModel{})

	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Where("name LIKE ? OR national_id LIKE ? OR institution LIKE ?", like, like, like)
	}
	if f.Institution != "" {
		q = q.Where("institution LIKE ?", "%"+f.Institution+"%")
	}
	if f.Date != nil {
		start := time.Date(f.Date.Year(), f.Date.Month(), f.Date.Day(), 0, 0, 0, 0, f.Date.Location())
		q = q.Where("date >= ? AND date < ?", start, start.Add(24*time.Hour))
	}

	var rows []visitorModel
	if err := q.Order("date DESC").Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]domain.VisitorEntry, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainVisitor(m))
	}
	return out, nil
}

func (r *VisitorRepository) GetByID(ctx context.Context, id int64) (*domain.VisitorEntry, error) {
	var m visitorModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainVisitor(m), nil
}

func (r *VisitorRepository) Delete(ctx context.Context, id int64) error {
	tx := r.db.WithContext(ctx).Delete(&visitorModel{}, id)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

type VisitorStats struct {
	Total           int64
	MonthTotal      int64
	TopInstitutions []InstitutionCount
}

func (r *VisitorRepository) Stats(ctx context.Context) (*VisitorStats, error) {
	var stats VisitorStats
	db := r.db.WithContext(ctx)

	if err := db.Model(&visitorModel{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}

	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	if err := db.Model(&visitorModel{}).
		Where("date >= ?", monthStart).
		Count(&stats.MonthTotal).Error; err != nil {
		return nil, err
	}

	q := `
SELECT institution, COUNT(1) AS total_visits, COUNT(1) AS total_people
FROM visitors
GROUP BY institution
ORDER BY total_visits DESC
LIMIT 10
`
	if err := db.Raw(q).Scan(&stats.TopInstitutions).Error; err != nil {
		return nil, err
	}

	return &stats, nil
}
