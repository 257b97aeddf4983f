package repository

import (
	"context"
	"fmt"
	"time"

	"museo/internal/domain"

	"gorm.io/gorm"
)

type VisitRepository struct {
	db *gorm.DB
}

func NewVisitRepository(db *gorm.DB) *VisitRepository {
	return &VisitRepository{db: db}
}

type visitModel struct {
	ID          int64     `gorm:"column:id;primaryKey"`
	Institution string    `gorm:"column:institution"`
	PartySize   int       `gorm:"column:party_size"`
	VisitDate   time.Time `gorm:"column:visit_date"`
	BlockLabel  string    `gorm:"column:block_label"`
	BlockID     string    `gorm:"column:block_id;index"`
	Status      string    `gorm:"column:status"`
	Description *string   `gorm:"column:description"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (visitModel) TableName() string { return "visits" }

func toDomainVisit(m visitModel) *domain.Visit {
	var desc string
	if m.Description != nil {
		desc = *m.Description
	}

	return &domain.Visit{
		ID:          m.ID,
		Institution: m.Institution,
		PartySize:   m.PartySize,
		VisitDate:   m.VisitDate,
		BlockLabel:  m.BlockLabel,
		BlockID:     m.BlockID,
		Status:      domain.VisitStatus(m.Status),
		Description: desc,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func toVisitModel(v *domain.Visit) visitModel {
	var desc *string
	if v.Description != "" {
		d := v.Description
		desc = &d
	}

	return visitModel{
		ID:          v.ID,
		Institution: v.Institution,
		PartySize:   v.PartySize,
		VisitDate:   v.VisitDate,
		BlockLabel:  v.BlockLabel,
		BlockID:     v.BlockID,
		Status:      string(v.Status),
		Description: desc,
		CreatedAt:   v.CreatedAt,
		UpdatedAt:   v.UpdatedAt,
	}
}

// CapacityBlock is the occupancy snapshot of one block at decision time.
type CapacityBlock struct {
	Occupied    int
	MaxCapacity int
	Remaining   int
}

// CapacityExceededError is returned when a party does not fit under the
// block ceiling; it carries the figures callers surface to the client.
type CapacityExceededError struct {
	Occupied    int
	MaxCapacity int
	Remaining   int
	Requested   int
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("block is at %d/%d, %d spot(s) left, requested %d",
		e.Occupied, e.MaxCapacity, e.Remaining, e.Requested)
}

// CreateWithCapacity inserts the visit only if the party still fits under
// maxCapacity. The occupancy aggregate and the insert run in one
// transaction; on postgres a per-block advisory lock serializes concurrent
// creations for the same block so two requests cannot jointly overshoot the
// ceiling. Returns the pre-insert snapshot.
func (r *VisitRepository) CreateWithCapacity(ctx context.Context, v *domain.Visit, maxCapacity int) (*CapacityBlock, error) {
	var snap CapacityBlock

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if tx.Dialector.Name() == "postgres" {
			if err := tx.Exec(`SELECT pg_advisory_xact_lock(hashtext(?))`, v.BlockID).Error; err != nil {
				return err
			}
		}

		occupied, err := blockOccupancy(tx, v.BlockID, 0)
		if err != nil {
			return err
		}

		snap = CapacityBlock{
			Occupied:    occupied,
			MaxCapacity: maxCapacity,
			Remaining:   maxCapacity - occupied,
		}

		if occupied+v.PartySize > maxCapacity {
			return &CapacityExceededError{
				Occupied:    occupied,
				MaxCapacity: maxCapacity,
				Remaining:   maxCapacity - occupied,
				Requested:   v.PartySize,
			}
		}

		m := toVisitModel(v)
		if err := tx.Create(&m).Error; err != nil {
			return err
		}
		*v = *toDomainVisit(m)
		return nil
	})
	if err != nil {
		if capErr, ok := err.(*CapacityExceededError); ok {
			return nil, capErr
		}
		return nil, err
	}
	return &snap, nil
}

// ReinstateWithCapacity moves a cancelled visit back into a counted status.
// Its seats re-enter occupancy, so the ceiling is re-checked and the
// transition applied in one transaction under the same per-block advisory
// lock the create path takes; a concurrent booking or reinstatement cannot
// jointly overshoot the block.
func (r *VisitRepository) ReinstateWithCapacity(ctx context.Context, v *domain.Visit, status, description string, maxCapacity int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if tx.Dialector.Name() == "postgres" {
			if err := tx.Exec(`SELECT pg_advisory_xact_lock(hashtext(?))`, v.BlockID).Error; err != nil {
				return err
			}
		}

		occupied, err := blockOccupancy(tx, v.BlockID, v.ID)
		if err != nil {
			return err
		}
		if occupied+v.PartySize > maxCapacity {
			return &CapacityExceededError{
				Occupied:    occupied,
				MaxCapacity: maxCapacity,
				Remaining:   maxCapacity - occupied,
				Requested:   v.PartySize,
			}
		}

		return updateStatus(tx, v.ID, status, description)
	})
}

// blockOccupancy sums party sizes of counted visits in the block, optionally
// excluding one visit id. Callers needing a race-free read run it inside a
// transaction holding the block's advisory lock.
func blockOccupancy(tx *gorm.DB, blockID string, excludeID int64) (int, error) {
	var occupied int
	q := tx.Model(&visitModel{}).
		Select("COALESCE(SUM(party_size), 0)").
		Where("block_id = ? AND status <> ?", blockID, string(domain.VisitCancelled))
	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Scan(&occupied).Error; err != nil {
		return 0, err
	}
	return occupied, nil
}

// VisitsForDate returns the day's non-cancelled visits ordered by block.
func (r *VisitRepository) VisitsForDate(ctx context.Context, day time.Time) ([]domain.Visit, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.Add(24 * time.Hour)

	var rows []visitModel
	tx := r.db.WithContext(ctx).
		Where("visit_date >= ? AND visit_date < ? AND status <> ?", start, end, string(domain.VisitCancelled)).
		Order("block_label ASC").
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Visit, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainVisit(m))
	}
	return out, nil
}

// VisitFilter narrows List; zero values mean "no filter".
type VisitFilter struct {
	Search      string
	Institution string
	Status      string
	Date        *time.Time
}

func (r *VisitRepository) List(ctx context.Context, f VisitFilter) ([]domain.Visit, error) {
	q := r.db.WithContext(ctx).Model(&visitModel{})

	if f.Search != "" {
		q = q.Where("institution LIKE ?", "%"+f.Search+"%")
	}
	if f.Institution != "" {
		q = q.Where("institution LIKE ?", "%"+f.Institution+"%")
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Date != nil {
		start := time.Date(f.Date.Year(), f.Date.Month(), f.Date.Day(), 0, 0, 0, 0, f.Date.Location())
		q = q.Where("visit_date >= ? AND visit_date < ?", start, start.Add(24*time.Hour))
	}

	var rows []visitModel
	if err := q.Order("visit_date DESC, block_label DESC").Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]domain.Visit, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainVisit(m))
	}
	return out, nil
}

func (r *VisitRepository) GetByID(ctx context.Context, id int64) (*domain.Visit, error) {
	var m visitModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainVisit(m), nil
}

// UpdateStatus mutates status and description only. Every other field is
// immutable after creation. Transitions out of cancelled go through
// ReinstateWithCapacity instead.
func (r *VisitRepository) UpdateStatus(ctx context.Context, id int64, status, description string) error {
	return updateStatus(r.db.WithContext(ctx), id, status, description)
}

func updateStatus(tx *gorm.DB, id int64, status, description string) error {
	res := tx.Model(&visitModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":      status,
			"description": description,
			"updated_at":  time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *VisitRepository) Delete(ctx context.Context, id int64) error {
	tx := r.db.WithContext(ctx).Delete(&visitModel{}, id)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// InstitutionCount is one row of the per-institution ranking.
type InstitutionCount struct {
	Institution string `gorm:"column:institution"`
	TotalVisits int    `gorm:"column:total_visits"`
	TotalPeople int    `gorm:"column:total_people"`
}

type VisitStats struct {
	TotalVisits     int64
	TotalPeople     int
	MonthVisits     int64
	MonthPeople     int
	TopInstitutions []InstitutionCount
}

func (r *VisitRepository) Stats(ctx context.Context) (*VisitStats, error) {
	var stats VisitStats
	db := r.db.WithContext(ctx)

	if err := db.Model(&visitModel{}).Count(&stats.TotalVisits).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&visitModel{}).
		Select("COALESCE(SUM(party_size), 0)").
		Scan(&stats.TotalPeople).Error; err != nil {
		return nil, err
	}

	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	if err := db.Model(&visitModel{}).
		Where("visit_date >= ?", monthStart).
		Count(&stats.MonthVisits).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&visitModel{}).
		Select("COALESCE(SUM(party_size), 0)").
		Where("visit_date >= ?", monthStart).
		Scan(&stats.MonthPeople).Error; err != nil {
		return nil, err
	}

	q := `
SELECT institution, COUNT(1) AS total_visits, SUM(party_size) AS total_people
FROM visits
GROUP BY institution
ORDER BY total_visits DESC
LIMIT 10
`
	if err := db.Raw(q).Scan(&stats.TopInstitutions).Error; err != nil {
		return nil, err
	}

	return &stats, nil
}
