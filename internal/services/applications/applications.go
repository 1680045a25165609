// Package applications is the application ledger. It records developer bids
// and keeps each project's applicant list and status in step with them.
package applications

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Windi-Fikriyansyah/devhire_be/internal/apperror"
	"github.com/Windi-Fikriyansyah/devhire_be/internal/metrics"
	"github.com/Windi-Fikriyansyah/devhire_be/internal/models"
	"github.com/Windi-Fikriyansyah/devhire_be/internal/notify"
)

const (
	MsgNotAccepting   = "This project is no longer accepting applications"
	MsgAlreadyApplied = "You have already applied to this project"
)

// Publisher hands events to the notification pipeline. Implementations must
// not block.
type Publisher interface {
	Publish(ev notify.Event)
}

type Service struct {
	DB        *gorm.DB
	Publisher Publisher
}

func NewService(db *gorm.DB, pub Publisher) *Service {
	return &Service{DB: db, Publisher: pub}
}

type ApplyInput struct {
	CoverLetter string `json:"coverLetter"`
}

// Apply files caller's application against projectID.
//
// The project row is locked for the whole transaction so the status gate,
// the duplicate check, the applicant append and the Open -> Applied switch
// all see the same state. The (project, freelancer) unique index backs the
// duplicate check should the lock ever be unavailable.
func (s *Service) Apply(ctx context.Context, caller models.User, projectID uuid.UUID, in ApplyInput) (models.Application, error) {
	if caller.Role != models.RoleDeveloper {
		return models.Application{}, apperror.Forbidden("Only developers can apply to projects")
	}

	var (
		app        models.Application
		project    models.Project
		transition bool
	)
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&project, "id = ?", projectID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NotFound("Project not found")
			}
			return err
		}

		if !project.Status.AcceptsApplications() {
			return apperror.Invalid(MsgNotAccepting)
		}

		var existing int64
		if err := tx.Model(&models.Application{}).
			Where("project_id = ? AND freelancer_id = ?", project.ID, caller.ID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return apperror.Conflict(MsgAlreadyApplied)
		}

		app = models.Application{
			ProjectID:    project.ID,
			FreelancerID: caller.ID,
			Status:       models.ApplicationPending,
			CoverLetter:  strings.TrimSpace(in.CoverLetter),
		}
		if err := tx.Create(&app).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperror.Conflict(MsgAlreadyApplied)
			}
			return err
		}

		if !project.HasApplicant(caller.ID) {
			project.AppliedFreelancers = append(project.AppliedFreelancers, caller.ID)
		}
		updates := map[string]interface{}{
			"applied_freelancers": project.AppliedFreelancers,
		}
		// one-shot: only the very first applicant moves the project on
		if len(project.AppliedFreelancers) == 1 && project.Status.CanAdvanceTo(models.ProjectApplied) {
			updates["status"] = models.ProjectApplied
			transition = true
		}
		return tx.Model(&project).Updates(updates).Error
	})
	if err != nil {
		if _, ok := apperror.As(err); ok {
			return models.Application{}, err
		}
		return models.Application{}, fmt.Errorf("apply to project: %w", err)
	}

	metrics.ApplicationsSubmitted.Inc()
	if transition {
		project.Status = models.ProjectApplied
		metrics.ProjectStatusTransitions.WithLabelValues(string(models.ProjectOpen), string(models.ProjectApplied)).Inc()
		slog.Info("project received first application", "project", project.ID, "freelancer", caller.ID)
	}

	s.notifyClient(project, app, caller)
	return app, nil
}

func (s *Service) notifyClient(project models.Project, app models.Application, caller models.User) {
	if s.Publisher == nil {
		return
	}
	s.Publisher.Publish(notify.Event{
		Type:          notify.EventApplicationSubmitted,
		RecipientID:   project.ClientID,
		ProjectID:     project.ID,
		ProjectTitle:  project.Title,
		ApplicationID: app.ID,
		ActorID:       caller.ID,
		ActorName:     caller.Name,
		OccurredAt:    time.Now(),
	})
}

// ListMine returns caller's applications, newest first, with projects loaded.
func (s *Service) ListMine(ctx context.Context, caller models.User) ([]models.Application, error) {
	var out []models.Application
	if err := s.DB.WithContext(ctx).
		Preload("Project").
		Where("freelancer_id = ?", caller.ID).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return out, nil
}
