package holding

import (
	"time"

	"github.com/hafizthesakora/cert-tracking/internal/certification"
	"github.com/hafizthesakora/cert-tracking/internal/user"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EmployeeCertification is a single certification held by a single employee,
// together with the state of its renewal workflow. Dates are date-only and
// stored at UTC midnight.
type EmployeeCertification struct {
	ID              uuid.UUID  `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID          uuid.UUID  `gorm:"column:user_id;type:uuid;not null;index"`
	CertificationID uuid.UUID  `gorm:"column:certification_id;type:uuid;not null;index"`
	IssueDate       time.Time  `gorm:"column:issue_date;type:date;not null"`
	ExpiryDate      time.Time  `gorm:"column:expiry_date;type:date;not null;index"`
	Status          string     `gorm:"column:status;type:varchar(50);not null;default:'ACTIVE';index"`
	RenewalDate     *time.Time `gorm:"column:renewal_date;type:date"`

	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index"`

	User          *user.User                   `gorm:"foreignKey:UserID"`
	Certification *certification.Certification `gorm:"foreignKey:CertificationID"`
}

func (EmployeeCertification) TableName() string {
	return "employee_certifications"
}
