package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/yigit/cvportal/internal/app/models"
)

// CompanyProfileResponse is the public view of a company account
type CompanyProfileResponse struct {
	ID               uuid.UUID  `json:"id"`
	Name             string     `json:"name" example:"Acme"`
	Email            string     `json:"email" example:"a@acme.com"`
	IsVerified       bool       `json:"isVerified"`
	TwoFactorEnabled bool       `json:"twoFactorEnabled"`
	LastLogin        *time.Time `json:"lastLogin,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
}

// NewCompanyProfileResponse builds the profile view, leaving out credentials and tokens
func NewCompanyProfileResponse(company *models.Company) CompanyProfileResponse {
	return CompanyProfileResponse{
		ID:               company.ID,
		Name:             company.Name,
		Email:            company.Email,
		IsVerified:       company.IsVerified,
		TwoFactorEnabled: company.TwoFactorEnabled,
		LastLogin:        company.LastLogin,
		CreatedAt:        company.CreatedAt,
	}
}

// UpdateCompanyProfileRequest is a partial profile update; absent fields are left untouched
type UpdateCompanyProfileRequest struct {
	Name  *string `json:"name" binding:"omitempty,min=1"`
	Email *string `json:"email" binding:"omitempty,email"`
}

// StudentSearchQuery holds the query string of the company student search
type StudentSearchQuery struct {
	Career         string   `form:"career"`
	MinGPA         *float64 `form:"minGPA" binding:"omitempty,gte=0"`
	HasExperience  string   `form:"hasExperience"`
	Certifications string   `form:"certifications"`
	YearOfStudy    *int     `form:"yearOfStudy" binding:"omitempty,gte=1"`
	SortBy         string   `form:"sortBy"`
}
