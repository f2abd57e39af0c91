package certification

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=certification_repo.go -destination=mock/certification_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, cert *Certification) error
	FindAll(ctx context.Context) ([]Certification, error)
	FindByID(ctx context.Context, id string) (*Certification, error)
	Update(ctx context.Context, cert *Certification) error
	ReplacePortalMasters(ctx context.Context, certificationID string, userIDs []string) error
	IsPortalMaster(ctx context.Context, certificationID, userID string) (bool, error)
	PortalMasterIDs(ctx context.Context, certificationID string) ([]string, error)
	CertificationIDsForMaster(ctx context.Context, userID string) ([]string, error)
	CountAll(ctx context.Context) (int64, error)
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

func (r *repository) Create(ctx context.Context, cert *Certification) error {
	return r.db.WithContext(ctx).Create(cert).Error
}

func (r *repository) FindAll(ctx context.Context) ([]Certification, error) {
	var certs []Certification
	err := r.db.WithContext(ctx).
		Preload("PortalMasters").
		Order("name ASC").
		Find(&certs).Error
	return certs, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Certification, error) {
	var cert Certification
	err := r.db.WithContext(ctx).
		Preload("PortalMasters").
		First(&cert, "id = ?", id).Error
	return &cert, err
}

func (r *repository) Update(ctx context.Context, cert *Certification) error {
	return r.db.WithContext(ctx).
		Model(&Certification{}).
		Where("id = ?", cert.ID).
		Updates(map[string]interface{}{
			"name":        cert.Name,
			"description": cert.Description,
		}).Error
}

func (r *repository) ReplacePortalMasters(ctx context.Context, certificationID string, userIDs []string) error {
	if err := r.db.WithContext(ctx).
		Where("certification_id = ?", certificationID).
		Delete(&PortalMaster{}).Error; err != nil {
		return err
	}

	if len(userIDs) == 0 {
		return nil
	}

	rows := make([]PortalMaster, 0, len(userIDs))
	for _, uid := range userIDs {
		rows = append(rows, PortalMaster{
			CertificationID: mustUUID(certificationID),
			UserID:          mustUUID(uid),
		})
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

func (r *repository) IsPortalMaster(ctx context.Context, certificationID, userID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&PortalMaster{}).
		Where("certification_id = ?", certificationID).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) CertificationIDsForMaster(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&PortalMaster{}).
		Where("user_id = ?", userID).
		Pluck("certification_id", &ids).Error
	return ids, err
}

func (r *repository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Certification{}).Count(&count).Error
	return count, err
}

// mustUUID is safe here: ids reaching the repository have passed binding
// validation in the DTO layer.
func mustUUID(v string) uuid.UUID {
	id, err := uuid.Parse(v)
	if err != nil {
		return uuid.Nil
	}
	return id
}

func (r *repository) PortalMasterIDs(ctx context.Context, certificationID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&PortalMaster{}).
		Where("certification_id = ?", certificationID).
		Pluck("user_id", &ids).Error
	return ids, err
}
