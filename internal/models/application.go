package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "Pending"
	ApplicationAccepted ApplicationStatus = "Accepted"
	ApplicationRejected ApplicationStatus = "Rejected"
)

// Application is one developer's bid on one project. The composite unique
// index keeps a single row per (project, freelancer) even under concurrent
// submissions.
type Application struct {
	ID           uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID    uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_application_project_freelancer" json:"projectId"`
	FreelancerID uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_application_project_freelancer;index" json:"freelancerId"`
	Status       ApplicationStatus `gorm:"type:varchar(20);not null;default:'Pending'" json:"status"`
	CoverLetter  string            `gorm:"type:text;not null;default:''" json:"coverLetter"`
	CreatedAt    time.Time         `json:"createdAt"`

	Project    *Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Freelancer *User    `gorm:"foreignKey:FreelancerID" json:"freelancer,omitempty"`
}

func (a *Application) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Status == "" {
		a.Status = ApplicationPending
	}
	return
}
