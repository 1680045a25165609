// Package projects is the project registry. Only the creating client may
// read a single project by id, change it or delete it.
package projects

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Windi-Fikriyansyah/devhire_be/internal/apperror"
	"github.com/Windi-Fikriyansyah/devhire_be/internal/models"
	"github.com/Windi-Fikriyansyah/devhire_be/internal/utils"
)

type Service struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewService(db *gorm.DB) *Service {
	return &Service{DB: db, Now: time.Now}
}

type CreateInput struct {
	Title        string   `json:"title" validate:"required"`
	Description  string   `json:"description" validate:"required"`
	Budget       float64  `json:"budget" validate:"gte=0"`
	Technologies []string `json:"technologies"`
	Deadline     string   `json:"deadline" validate:"required"`
}

type UpdateInput struct {
	Title        utils.Optional[string]   `json:"title"`
	Description  utils.Optional[string]   `json:"description"`
	Budget       utils.Optional[float64]  `json:"budget"`
	Technologies utils.Optional[[]string] `json:"technologies"`
	Deadline     utils.Optional[string]   `json:"deadline"`
}

// ParseDeadline accepts a calendar date or a full RFC 3339 timestamp.
func ParseDeadline(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, apperror.Invalid("Deadline must be a date (YYYY-MM-DD)")
}

// a deadline of today is still acceptable
func (s *Service) checkDeadline(raw string) (time.Time, error) {
	deadline, err := ParseDeadline(raw)
	if err != nil {
		return time.Time{}, err
	}
	now := s.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if deadline.Before(today) {
		return time.Time{}, apperror.Invalid("Deadline cannot be in the past")
	}
	return deadline, nil
}

func cleanTechnologies(in []string) []string {
	out := make([]string, 0, len(in))
	for _, t := range in {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func (s *Service) Create(ctx context.Context, caller models.User, in CreateInput) (models.Project, error) {
	if caller.Role != models.RoleClient {
		return models.Project{}, apperror.Forbidden("Only clients can create projects")
	}
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Description) == "" {
		return models.Project{}, apperror.Invalid("Title and description are required")
	}
	if in.Budget < 0 {
		return models.Project{}, apperror.Invalid("Budget cannot be negative")
	}
	deadline, err := s.checkDeadline(in.Deadline)
	if err != nil {
		return models.Project{}, err
	}

	p := models.Project{
		ClientID:     caller.ID,
		Title:        strings.TrimSpace(in.Title),
		Description:  strings.TrimSpace(in.Description),
		Budget:       in.Budget,
		Technologies: cleanTechnologies(in.Technologies),
		Deadline:     deadline,
		Status:       models.ProjectOpen,
	}
	if err := s.DB.WithContext(ctx).Create(&p).Error; err != nil {
		return models.Project{}, fmt.Errorf("create project: %w", err)
	}
	return p, nil
}

func withClientSummary(db *gorm.DB) *gorm.DB {
	return db.Preload("Client", func(tx *gorm.DB) *gorm.DB {
		return tx.Select("id", "name", "email")
	})
}

func (s *Service) ListAll(ctx context.Context) ([]models.Project, error) {
	var out []models.Project
	if err := withClientSummary(s.DB.WithContext(ctx)).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return out, nil
}

func (s *Service) ListMine(ctx context.Context, caller models.User) ([]models.Project, error) {
	if caller.Role != models.RoleClient {
		return nil, apperror.Forbidden("Only clients can access their projects")
	}
	var out []models.Project
	if err := s.DB.WithContext(ctx).
		Where("client_id = ?", caller.ID).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list client projects: %w", err)
	}
	return out, nil
}

func (s *Service) ListAvailable(ctx context.Context) ([]models.Project, error) {
	var out []models.Project
	if err := withClientSummary(s.DB.WithContext(ctx)).
		Where("status = ?", models.ProjectOpen).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list open projects: %w", err)
	}
	return out, nil
}

// lockProject holds the row until tx ends, serialising writers with Apply.
func lockProject(tx *gorm.DB, id uuid.UUID) (models.Project, error) {
	return findProject(tx.Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func findProject(tx *gorm.DB, id uuid.UUID) (models.Project, error) {
	var p models.Project
	if err := tx.First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Project{}, apperror.NotFound("Project not found")
		}
		return models.Project{}, fmt.Errorf("find project: %w", err)
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, caller models.User, id uuid.UUID) (models.Project, error) {
	p, err := findProject(s.DB.WithContext(ctx), id)
	if err != nil {
		return models.Project{}, err
	}
	if !p.OwnedBy(caller.ID) {
		return models.Project{}, apperror.Forbidden("Not authorized to access this project")
	}
	return p, nil
}

func (s *Service) Update(ctx context.Context, caller models.User, id uuid.UUID, in UpdateInput) (models.Project, error) {
	if in.Title.Set && strings.TrimSpace(in.Title.Value) == "" {
		return models.Project{}, apperror.Invalid("Title cannot be empty")
	}
	if in.Description.Set && strings.TrimSpace(in.Description.Value) == "" {
		return models.Project{}, apperror.Invalid("Description cannot be empty")
	}
	if in.Budget.Set && in.Budget.Value < 0 {
		return models.Project{}, apperror.Invalid("Budget cannot be negative")
	}
	var deadline time.Time
	if in.Deadline.Set {
		var err error
		if deadline, err = s.checkDeadline(in.Deadline.Value); err != nil {
			return models.Project{}, err
		}
	}

	var p models.Project
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if p, err = lockProject(tx, id); err != nil {
			return err
		}
		if !p.OwnedBy(caller.ID) {
			return apperror.Forbidden("Only the project owner can update this project")
		}

		// status and applied_freelancers belong to the application ledger
		var cols []string
		if in.Title.Set {
			p.Title = strings.TrimSpace(in.Title.Value)
			cols = append(cols, "title")
		}
		if in.Description.Set {
			p.Description = strings.TrimSpace(in.Description.Value)
			cols = append(cols, "description")
		}
		if in.Budget.Apply(&p.Budget) {
			cols = append(cols, "budget")
		}
		if in.Technologies.Set {
			p.Technologies = cleanTechnologies(in.Technologies.Value)
			cols = append(cols, "technologies")
		}
		if in.Deadline.Set {
			p.Deadline = deadline
			cols = append(cols, "deadline")
		}
		if len(cols) == 0 {
			return nil
		}

		return tx.Model(&p).Select(cols).Updates(&p).Error
	})
	if err != nil {
		if _, ok := apperror.As(err); ok {
			return models.Project{}, err
		}
		return models.Project{}, fmt.Errorf("update project: %w", err)
	}
	return p, nil
}

// Delete removes the project together with the applications filed against it.
func (s *Service) Delete(ctx context.Context, caller models.User, id uuid.UUID) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := lockProject(tx, id)
		if err != nil {
			return err
		}
		if !p.OwnedBy(caller.ID) {
			return apperror.Forbidden("Only the project owner can delete this project")
		}
		if err := tx.Where("project_id = ?", p.ID).Delete(&models.Application{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Project{}, "id = ?", p.ID).Error
	})
	if err != nil {
		if _, ok := apperror.As(err); ok {
			return err
		}
		return fmt.Errorf("delete project: %w", err)
	}
	return nil
}
