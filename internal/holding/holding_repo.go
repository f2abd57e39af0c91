package holding

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=holding_repo.go -destination=mock/holding_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, h *EmployeeCertification) error
	FindByID(ctx context.Context, id string) (*EmployeeCertification, error)
	FindAll(ctx context.Context) ([]EmployeeCertification, error)
	FindByUser(ctx context.Context, userID string) ([]EmployeeCertification, error)
	FindByCertifications(ctx context.Context, certificationIDs []string) ([]EmployeeCertification, error)
	UpdateWithExpectedStatus(ctx context.Context, h *EmployeeCertification, expectedStatus string) (int64, error)
	MarkExpiringSoon(ctx context.Context, today time.Time) (int64, error)
	MarkExpired(ctx context.Context, today time.Time) (int64, error)
	FindActiveExpiringOn(ctx context.Context, dates []time.Time) ([]EmployeeCertification, error)
	CountByStatus(ctx context.Context, statuses ...string) (int64, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) Create(ctx context.Context, h *EmployeeCertification) error {
	return r.db.WithContext(ctx).Create(h).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*EmployeeCertification, error) {
	var h EmployeeCertification
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Certification").
		First(&h, "id = ?", id).Error
	return &h, err
}

func (r *repository) FindAll(ctx context.Context) ([]EmployeeCertification, error) {
	var holdings []EmployeeCertification
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Certification").
		Order("expiry_date ASC").
		Find(&holdings).Error
	return holdings, err
}

func (r *repository) FindByUser(ctx context.Context, userID string) ([]EmployeeCertification, error) {
	var holdings []EmployeeCertification
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Certification").
		Where("user_id = ?", userID).
		Order("expiry_date ASC").
		Find(&holdings).Error
	return holdings, err
}

func (r *repository) FindByCertifications(ctx context.Context, certificationIDs []string) ([]EmployeeCertification, error) {
	if len(certificationIDs) == 0 {
		return nil, nil
	}
	var holdings []EmployeeCertification
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Certification").
		Where("certification_id IN ?", certificationIDs).
		Order("expiry_date ASC").
		Find(&holdings).Error
	return holdings, err
}

// UpdateWithExpectedStatus writes the workflow fields only if the row still
// carries expectedStatus. A zero row count means a concurrent actor moved the
// holding first.
func (r *repository) UpdateWithExpectedStatus(ctx context.Context, h *EmployeeCertification, expectedStatus string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&EmployeeCertification{}).
		Where("id = ?", h.ID).
		Where("status = ?", expectedStatus).
		Updates(map[string]interface{}{
			"status":       h.Status,
			"issue_date":   h.IssueDate,
			"expiry_date":  h.ExpiryDate,
			"renewal_date": h.RenewalDate,
		})
	return res.RowsAffected, res.Error
}

func (r *repository) MarkExpiringSoon(ctx context.Context, today time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&EmployeeCertification{}).
		Where("status = ?", StatusActive).
		Where("expiry_date >= ?", today).
		Where("expiry_date <= ?", today.AddDate(0, 0, ExpiresSoonWindowDays)).
		Update("status", StatusExpiresSoon)
	return res.RowsAffected, res.Error
}

func (r *repository) MarkExpired(ctx context.Context, today time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&EmployeeCertification{}).
		Where("status IN ?", []string{StatusActive, StatusExpiresSoon}).
		Where("expiry_date < ?", today).
		Update("status", StatusExpired)
	return res.RowsAffected, res.Error
}

func (r *repository) FindActiveExpiringOn(ctx context.Context, dates []time.Time) ([]EmployeeCertification, error) {
	if len(dates) == 0 {
		return nil, nil
	}
	var holdings []EmployeeCertification
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Certification").
		Where("status = ?", StatusActive).
		Where("expiry_date IN ?", dates).
		Find(&holdings).Error
	return holdings, err
}

func (r *repository) CountByStatus(ctx context.Context, statuses ...string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&EmployeeCertification{}).
		Where("status IN ?", statuses).
		Count(&count).Error
	return count, err
}
