package certification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Certification struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string    `gorm:"column:name;type:varchar(255);not null;uniqueIndex"`
	Description string    `gorm:"column:description;type:text;not null"`

	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index"`

	PortalMasters []PortalMaster `gorm:"foreignKey:CertificationID"`
}

// PortalMaster links a certification type to a user authorized to manage its
// renewal workflow.
type PortalMaster struct {
	CertificationID uuid.UUID `gorm:"column:certification_id;type:uuid;primaryKey"`
	UserID          uuid.UUID `gorm:"column:user_id;type:uuid;primaryKey;index"`
}

func (PortalMaster) TableName() string {
	return "certification_portal_masters"
}
