package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleAdmin        = "ADMIN"
	RolePortalMaster = "PORTAL_MASTER"
	RoleEmployee     = "EMPLOYEE"
)

type User struct {
	ID        uuid.UUID      `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string         `gorm:"column:name;type:varchar(255);not null"`
	Email     string         `gorm:"column:email;type:text;not null;uniqueIndex"`
	Password  string         `gorm:"column:password;type:text;not null"`
	Role      string         `gorm:"column:role;type:varchar(50);not null;default:'EMPLOYEE'"`
	IsActive  bool           `gorm:"column:is_active;default:true"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func IsValidRole(role string) bool {
	switch role {
	case RoleAdmin, RolePortalMaster, RoleEmployee:
		return true
	default:
		return false
	}
}
