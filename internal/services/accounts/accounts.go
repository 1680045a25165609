// Package accounts is the credential store: registration, password login and
// profile maintenance for clients and developers.
package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Windi-Fikriyansyah/devhire_be/internal/apperror"
	"github.com/Windi-Fikriyansyah/devhire_be/internal/models"
	"github.com/Windi-Fikriyansyah/devhire_be/internal/utils"
)

type Service struct {
	DB *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{DB: db}
}

type RegisterInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required,oneof=client developer"`
}

// ProfilePatch updates only the fields present in the request body.
type ProfilePatch struct {
	Name        utils.Optional[string]   `json:"name"`
	Bio         utils.Optional[string]   `json:"bio"`
	Skills      utils.Optional[[]string] `json:"skills"`
	GitHub      utils.Optional[string]   `json:"github"`
	LinkedIn    utils.Optional[string]   `json:"linkedin"`
	Portfolio   utils.Optional[string]   `json:"portfolio"`
	Company     utils.Optional[string]   `json:"company"`
	CompanyLogo utils.Optional[string]   `json:"companyLogo"`
	Contact     utils.Optional[string]   `json:"contact"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (models.User, error) {
	email := normalizeEmail(in.Email)
	role := models.Role(strings.ToLower(strings.TrimSpace(in.Role)))
	if !role.Valid() {
		return models.User{}, apperror.Invalid("Role must be client or developer")
	}

	var existing models.User
	err := s.DB.WithContext(ctx).Where("email = ?", email).First(&existing).Error
	if err == nil {
		return models.User{}, apperror.Conflict("User already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, fmt.Errorf("lookup email: %w", err)
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}

	u := models.User{
		Name:     strings.TrimSpace(in.Name),
		Email:    email,
		Password: hash,
		Role:     role,
	}
	if err := s.DB.WithContext(ctx).Create(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.User{}, apperror.Conflict("User already exists")
		}
		return models.User{}, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// Authenticate never reveals whether the email or the password was wrong.
func (s *Service) Authenticate(ctx context.Context, email, password string) (models.User, error) {
	var u models.User
	err := s.DB.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, apperror.Unauthorized("Invalid email or password")
	}
	if err != nil {
		return models.User{}, fmt.Errorf("lookup email: %w", err)
	}
	if !utils.CheckPassword(u.Password, password) {
		return models.User{}, apperror.Unauthorized("Invalid email or password")
	}
	return u, nil
}

func (s *Service) FindByID(ctx context.Context, id uuid.UUID) (models.User, error) {
	var u models.User
	err := s.DB.WithContext(ctx).Omit("password").First(&u, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, apperror.NotFound("User not found")
	}
	if err != nil {
		return models.User{}, fmt.Errorf("find user: %w", err)
	}
	return u, nil
}

// FindOrCreateByEmail backs third-party sign-in. New accounts get a random
// password that is never disclosed, so only the external provider can log in.
func (s *Service) FindOrCreateByEmail(ctx context.Context, email, name string, role models.Role) (models.User, error) {
	email = normalizeEmail(email)
	var u models.User
	err := s.DB.WithContext(ctx).Where("email = ?", email).First(&u).Error
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, fmt.Errorf("lookup email: %w", err)
	}

	if !role.Valid() {
		role = models.RoleDeveloper
	}
	if strings.TrimSpace(name) == "" {
		name = strings.SplitN(email, "@", 2)[0]
	}
	hash, err := utils.HashPassword(uuid.NewString())
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}
	u = models.User{Name: strings.TrimSpace(name), Email: email, Password: hash, Role: role}
	if err := s.DB.WithContext(ctx).Create(&u).Error; err != nil {
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.User{}, fmt.Errorf("create user: %w", err)
		}
		// a concurrent sign-in created the account first
		var existing models.User
		if err := s.DB.WithContext(ctx).Where("email = ?", email).First(&existing).Error; err != nil {
			return models.User{}, fmt.Errorf("lookup email: %w", err)
		}
		return existing, nil
	}
	return u, nil
}

func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, patch ProfilePatch) (models.User, error) {
	if patch.Name.Set && strings.TrimSpace(patch.Name.Value) == "" {
		return models.User{}, apperror.Invalid("Name cannot be empty")
	}

	var u models.User
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&u, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NotFound("User not found")
			}
			return err
		}

		if patch.Name.Set {
			u.Name = strings.TrimSpace(patch.Name.Value)
		}
		patch.Bio.Apply(&u.Bio)
		if patch.Skills.Set {
			u.Skills = patch.Skills.Value
		}
		patch.GitHub.Apply(&u.GitHub)
		patch.LinkedIn.Apply(&u.LinkedIn)
		patch.Portfolio.Apply(&u.Portfolio)
		patch.Company.Apply(&u.Company)
		patch.CompanyLogo.Apply(&u.CompanyLogo)
		patch.Contact.Apply(&u.Contact)

		return tx.Save(&u).Error
	})
	if err != nil {
		if _, ok := apperror.As(err); ok {
			return models.User{}, err
		}
		return models.User{}, fmt.Errorf("update profile: %w", err)
	}
	u.Password = ""
	return u, nil
}
