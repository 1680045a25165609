package handlers

import (
	"time"

	"github.com/google/uuid"

	"github.com/Windi-Fikriyansyah/devhire_be/internal/models"
)

type UserMini struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

type ProjectResponse struct {
	ID                 string      `json:"id"`
	Title              string      `json:"title"`
	Description        string      `json:"description"`
	Budget             float64     `json:"budget"`
	Technologies       []string    `json:"technologies"`
	Deadline           string      `json:"deadline"`
	Status             string      `json:"status"`
	ClientID           string      `json:"clientId"`
	Client             *UserMini   `json:"client,omitempty"`
	AppliedFreelancers []uuid.UUID `json:"appliedFreelancers"`
	CreatedAt          time.Time   `json:"createdAt"`
	UpdatedAt          time.Time   `json:"updatedAt"`
}

func toProjectResponse(p *models.Project) ProjectResponse {
	resp := ProjectResponse{
		ID:                 p.ID.String(),
		Title:              p.Title,
		Description:        p.Description,
		Budget:             p.Budget,
		Technologies:       []string(p.Technologies),
		Deadline:           p.Deadline.Format("2006-01-02"),
		Status:             string(p.Status),
		ClientID:           p.ClientID.String(),
		AppliedFreelancers: []uuid.UUID(p.AppliedFreelancers),
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
	if resp.Technologies == nil {
		resp.Technologies = []string{}
	}
	if resp.AppliedFreelancers == nil {
		resp.AppliedFreelancers = []uuid.UUID{}
	}

	if p.Client != nil {
		resp.Client = &UserMini{
			ID:    p.Client.ID.String(),
			Name:  p.Client.Name,
			Email: p.Client.Email,
		}
	}
	return resp
}

func toProjectResponses(ps []models.Project) []ProjectResponse {
	out := make([]ProjectResponse, 0, len(ps))
	for i := range ps {
		out = append(out, toProjectResponse(&ps[i]))
	}
	return out
}

type ApplicationResponse struct {
	ID           string           `json:"id"`
	ProjectID    string           `json:"projectId"`
	FreelancerID string           `json:"freelancerId"`
	Status       string           `json:"status"`
	CoverLetter  string           `json:"coverLetter"`
	CreatedAt    time.Time        `json:"createdAt"`
	Project      *ProjectResponse `json:"project,omitempty"`
}

func toApplicationResponse(a *models.Application) ApplicationResponse {
	resp := ApplicationResponse{
		ID:           a.ID.String(),
		ProjectID:    a.ProjectID.String(),
		FreelancerID: a.FreelancerID.String(),
		Status:       string(a.Status),
		CoverLetter:  a.CoverLetter,
		CreatedAt:    a.CreatedAt,
	}
	if a.Project != nil {
		p := toProjectResponse(a.Project)
		resp.Project = &p
	}
	return resp
}
