package repository

import (
	"context"
	"time"

	"museo/internal/domain"

	"gorm.io/gorm"
)

type DonationRepository struct {
	db *gorm.DB
}

func NewDonationRepository(db *gorm.DB) *DonationRepository {
	return &DonationRepository{db: db}
}

type moneyDonationModel struct {
	ID                int64     `gorm:"column:id;primaryKey"`
	DonorName         string    `gorm:"column:donor_name"`
	Institution       string    `gorm:"column:institution"`
	Amount            float64   `gorm:"column:amount"`
	Status            string    `gorm:"column:status"`
	CheckoutSessionID *string   `gorm:"column:checkout_session_id;index"`
	Date              time.Time `gorm:"column:date"`
	CreatedAt         time.Time `gorm:"column:created_at"`
	UpdatedAt         time.Time `gorm:"column:updated_at"`
}

func (moneyDonationModel) TableName() string { return "money_donations" }

type goodsDonationModel struct {
	ID             int64     `gorm:"column:id;primaryKey"`
	DonorName      string    `gorm:"column:donor_name"`
	Institution    string    `gorm:"column:institution"`
	ItemDetail     string    `gorm:"column:item_detail"`
	Condition      string    `gorm:"column:condition"`
	Status         string    `gorm:"column:status"`
	EvaluationNote string    `gorm:"column:evaluation_note"`
	Date           time.Time `gorm:"column:date"`
	CreatedAt      time.Time `gorm:"column:created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`
}

func (goodsDonationModel) TableName() string { return "goods_donations" }

func toDomainMoney(m moneyDonationModel) *domain.MoneyDonation {
	var session string
	if m.CheckoutSessionID != nil {
		session = *m.CheckoutSessionID
	}

	return &domain.MoneyDonation{
		ID:                m.ID,
		DonorName:         m.DonorName,
		Institution:       m.Institution,
		Amount:            m.Amount,
		Status:            domain.MoneyDonationStatus(m.Status),
		CheckoutSessionID: session,
		Date:              m.Date,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

func toDomainGoods(m goodsDonationModel) *domain.GoodsDonation {
	return &domain.GoodsDonation{
		ID:             m.ID,
		DonorName:      m.DonorName,
		Institution:    m.Institution,
		ItemDetail:     m.ItemDetail,
		Condition:      domain.ItemCondition(m.Condition),
		Status:         domain.GoodsDonationStatus(m.Status),
		EvaluationNote: m.EvaluationNote,
		Date:           m.Date,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func (r *DonationRepository) CreateMoney(ctx context.Context, d *domain.MoneyDonation) error {
	m := moneyDonationModel{
		DonorName:   d.DonorName,
		Institution: d.Institution,
		Amount:      d.Amount,
		Status:      string(d.Status),
		Date:        d.Date,
	}
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*d = *toDomainMoney(m)
	return nil
}

func (r *DonationRepository) GetMoneyByID(ctx context.Context, id int64) (*domain.MoneyDonation, error) {
	var m moneyDonationModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainMoney(m), nil
}

func (r *DonationRepository) GetMoneyBySession(ctx context.Context, sessionID string) (*domain.MoneyDonation, error) {
	var m moneyDonationModel
	tx := r.db.WithContext(ctx).Where("checkout_session_id = ?", sessionID).First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainMoney(m), nil
}

func (r *DonationRepository) SetMoneySession(ctx context.Context, id int64, sessionID string) error {
	return r.db.WithContext(ctx).
		Model(&moneyDonationModel{}).
		Where("id = ?", id).
		Updates(map[string]any{"checkout_session_id": sessionID, "updated_at": time.Now()}).Error
}

func (r *DonationRepository) UpdateMoneyStatus(ctx context.Context, id int64, status domain.MoneyDonationStatus) error {
	tx := r.db.WithContext(ctx).
		Model(&moneyDonationModel{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": string(status), "updated_at": time.Now()})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *DonationRepository) ListMoney(ctx context.Context) ([]domain.MoneyDonation, error) {
	var rows []moneyDonationModel
	if err := r.db.WithContext(ctx).Order("date DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.MoneyDonation, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainMoney(m))
	}
	return out, nil
}

func (r *DonationRepository) CreateGoods(ctx context.Context, d *domain.GoodsDonation) error {
	m := goodsDonationModel{
		DonorName:      d.DonorName,
		Institution:    d.Institution,
		ItemDetail:     d.ItemDetail,
		Condition:      string(d.Condition),
		Status:         string(d.Status),
		EvaluationNote: d.EvaluationNote,
		Date:           d.Date,
	}
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*d = *toDomainGoods(m)
	return nil
}

func (r *DonationRepository) GetGoodsByID(ctx context.Context, id int64) (*domain.GoodsDonation, error) {
	var m goodsDonationModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainGoods(m), nil
}

func (r *DonationRepository) UpdateGoodsStatus(ctx context.Context, id int64, status domain.GoodsDonationStatus, note string) error {
	tx := r.db.WithContext(ctx).
		Model(&goodsDonationModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":          string(status),
			"evaluation_note": note,
			"updated_at":      time.Now(),
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *DonationRepository) ListGoods(ctx context.Context) ([]domain.GoodsDonation, error) {
	var rows []goodsDonationModel
	if err := r.db.WithContext(ctx).Order("date DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.GoodsDonation, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainGoods(m))
	}
	return out, nil
}

func (r *DonationRepository) DeleteMoney(ctx context.Context, id int64) error {
	tx := r.db.WithContext(ctx).Delete(&moneyDonationModel{}, id)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *DonationRepository) DeleteGoods(ctx context.Context, id int64) error {
	tx := r.db.WithContext(ctx).Delete(&goodsDonationModel{}, id)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

type DonationStats struct {
	MoneyTotal     float64 `json:"money_total"`
	MoneyCompleted int64   `json:"money_completed"`
	MoneyPending   int64   `json:"money_pending"`
	GoodsTotal     int64   `json:"goods_total"`
	GoodsPending   int64   `json:"goods_pending"`
	GoodsAccepted  int64   `json:"goods_accepted"`
}

// Stats aggregates both donation kinds. The money total only counts
// settled payments.
func (r *DonationRepository) Stats(ctx context.Context) (*DonationStats, error) {
	var stats DonationStats
	db := r.db.WithContext(ctx)

	if err := db.Model(&moneyDonationModel{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("status = ?", string(domain.MoneyDonationCompleted)).
		Scan(&stats.MoneyTotal).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&moneyDonationModel{}).
		Where("status = ?", string(domain.MoneyDonationCompleted)).
		Count(&stats.MoneyCompleted).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&moneyDonationModel{}).
		Where("status = ?", string(domain.MoneyDonationPending)).
		Count(&stats.MoneyPending).Error; err != nil {
		return nil, err
	}

	if err := db.Model(&goodsDonationModel{}).Count(&stats.GoodsTotal).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&goodsDonationModel{}).
		Where("status = ?", string(domain.GoodsDonationPending)).
		Count(&stats.GoodsPending).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&goodsDonationModel{}).
		Where("status = ?", string(domain.GoodsDonationAccepted)).
		Count(&stats.GoodsAccepted).Error; err != nil {
		return nil, err
	}

	return &stats, nil
}
