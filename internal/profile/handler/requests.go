package handler

import (
	"strings"

	"talentlink/internal/profile/models"
	"talentlink/internal/profile/service"
	dErrors "talentlink/pkg/domain-errors"
)

const maxSkills = 50

// CreateCandidateRequest is the body for POST /candidates.
type CreateCandidateRequest struct {
	FullName string   `json:"full_name"`
	Email    string   `json:"email"`
	Phone    string   `json:"phone"`
	Location string   `json:"location"`
	Headline string   `json:"headline"`
	Skills   []string `json:"skills"`
}

func (r *CreateCandidateRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if len(r.Skills) > maxSkills {
		return dErrors.New(dErrors.CodeValidation, "at most 50 skills are allowed")
	}
	r.FullName = strings.TrimSpace(r.FullName)
	if r.FullName == "" {
		return dErrors.New(dErrors.CodeValidation, "full_name is required")
	}
	return nil
}

func (r *CreateCandidateRequest) details() models.CandidateDetails {
	return models.CandidateDetails{
		FullName: r.FullName,
		Email:    r.Email,
		Phone:    r.Phone,
		Location: r.Location,
		Headline: r.Headline,
		Skills:   r.Skills,
	}
}

// CreateCompanyRequest is the body for POST /companies.
type CreateCompanyRequest struct {
	CompanyName  string `json:"company_name"`
	ContactEmail string `json:"contact_email"`
	ContactPhone string `json:"contact_phone"`
	Location     string `json:"location"`
	Sector       string `json:"sector"`
	Description  string `json:"description"`
}

func (r *CreateCompanyRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.CompanyName = strings.TrimSpace(r.CompanyName)
	if r.CompanyName == "" {
		return dErrors.New(dErrors.CodeValidation, "company_name is required")
	}
	return nil
}

func (r *CreateCompanyRequest) details() models.CompanyDetails {
	return models.CompanyDetails{
		CompanyName:  r.CompanyName,
		ContactEmail: r.ContactEmail,
		ContactPhone: r.ContactPhone,
		Location:     r.Location,
		Sector:       r.Sector,
		Description:  r.Description,
	}
}

// RenameRequest is the body for PUT /me/name.
type RenameRequest struct {
	FullName string `json:"full_name"`
}

func (r *RenameRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.FullName = strings.TrimSpace(r.FullName)
	if r.FullName == "" {
		return dErrors.New(dErrors.CodeValidation, "full_name is required")
	}
	return nil
}

// VisibilityRequest is the body for PUT /me/visibility. Omitted fields are unchanged.
type VisibilityRequest struct {
	ShowFullName    *bool `json:"show_full_name,omitempty"`
	ShowCompanyName *bool `json:"show_company_name,omitempty"`
	ShowContact     *bool `json:"show_contact,omitempty"`
	ShowLocation    *bool `json:"show_location,omitempty"`
}

func (r *VisibilityRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if r.ShowFullName == nil && r.ShowCompanyName == nil && r.ShowContact == nil && r.ShowLocation == nil {
		return dErrors.New(dErrors.CodeValidation, "at least one preference is required")
	}
	return nil
}

func (r *VisibilityRequest) change() service.VisibilityChange {
	return service.VisibilityChange{
		ShowFullName:    r.ShowFullName,
		ShowCompanyName: r.ShowCompanyName,
		ShowContact:     r.ShowContact,
		ShowLocation:    r.ShowLocation,
	}
}
