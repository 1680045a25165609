package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Role string

const (
	RoleClient    Role = "client"
	RoleDeveloper Role = "developer"
)

func (r Role) Valid() bool {
	return r == RoleClient || r == RoleDeveloper
}

// internal/models/user.go
type User struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name  string    `gorm:"not null" json:"name"`
	Email string    `gorm:"uniqueIndex;not null" json:"email"`

	Password string `gorm:"not null" json:"-"`
	Role     Role   `gorm:"type:varchar(20);not null;index" json:"role"`

	// developer profile
	Bio       string                      `gorm:"type:text" json:"bio,omitempty"`
	Skills    datatypes.JSONSlice[string] `json:"skills,omitempty"`
	GitHub    string                      `json:"github,omitempty"`
	LinkedIn  string                      `json:"linkedin,omitempty"`
	Portfolio string                      `json:"portfolio,omitempty"`

	// client profile
	Company     string `json:"company,omitempty"`
	CompanyLogo string `json:"companyLogo,omitempty"`
	Contact     string `json:"contact,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return
}
