package dto

import (
	"strings"

	"github.com/yigit/cvportal/internal/app/models"
	"github.com/yigit/cvportal/internal/pkg/apperrors"
	"github.com/yigit/cvportal/internal/pkg/helpers"
)

// StudentListQuery holds the query string of the public student listing
type StudentListQuery struct {
	Career        string   `form:"career"`
	MinGPA        *float64 `form:"minGPA" binding:"omitempty,gte=0"`
	HasExperience string   `form:"hasExperience"`
}

// GradeRequest is one academic record entry
type GradeRequest struct {
	Subject  string  `json:"subject" binding:"required"`
	Grade    float64 `json:"grade" binding:"gte=0"`
	Semester string  `json:"semester" binding:"required"`
}

// ApprovedCourseRequest is one approved course entry
type ApprovedCourseRequest struct {
	Name     string  `json:"name" binding:"required"`
	Grade    float64 `json:"grade" binding:"gte=0"`
	Semester string  `json:"semester" binding:"required"`
}

// CertificationRequest is a certification entry given as JSON
type CertificationRequest struct {
	Name        string  `json:"name" binding:"required"`
	Institution string  `json:"institution" binding:"required"`
	Date        string  `json:"date" binding:"required" example:"2024-05-01"`
	File        *string `json:"file"`
}

// ExperienceRequest is a work experience entry; omit endDate for ongoing positions
type ExperienceRequest struct {
	Company     string  `json:"company" binding:"required"`
	Position    string  `json:"position" binding:"required"`
	StartDate   string  `json:"startDate" binding:"required" example:"2023-06-01"`
	EndDate     *string `json:"endDate" example:"2023-09-01"`
	Description string  `json:"description"`
}

// AddCertificationForm is the multipart form of the certification append endpoint.
// The optional file travels in the "file" part.
type AddCertificationForm struct {
	Name        string `form:"name" binding:"required"`
	Institution string `form:"institution" binding:"required"`
	Date        string `form:"date" binding:"required"`
}

// UpdateStudentRequest is a partial student update; absent fields are left untouched
// and present lists replace the stored ones.
type UpdateStudentRequest struct {
	Name            *string                  `json:"name" binding:"omitempty,min=1"`
	Career          *string                  `json:"career" binding:"omitempty,min=1"`
	YearOfStudy     *int                     `json:"yearOfStudy" binding:"omitempty,gte=1"`
	Grades          *[]GradeRequest          `json:"grades" binding:"omitempty,dive"`
	ApprovedCourses *[]ApprovedCourseRequest `json:"approvedCourses" binding:"omitempty,dive"`
}

// HasExperienceFlag interprets the hasExperience query value; only "true" enables the filter
func HasExperienceFlag(value string) bool {
	return strings.EqualFold(strings.TrimSpace(value), "true")
}

// SplitList splits a comma separated query value, dropping blanks
func SplitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ToGrades converts request entries to models
func ToGrades(in []GradeRequest) []models.Grade {
	out := make([]models.Grade, 0, len(in))
	for _, g := range in {
		out = append(out, models.Grade{Subject: g.Subject, Grade: g.Grade, Semester: g.Semester})
	}
	return out
}

// ToApprovedCourses converts request entries to models
func ToApprovedCourses(in []ApprovedCourseRequest) []models.ApprovedCourse {
	out := make([]models.ApprovedCourse, 0, len(in))
	for _, c := range in {
		out = append(out, models.ApprovedCourse{Name: c.Name, Grade: c.Grade, Semester: c.Semester})
	}
	return out
}

// ToModel converts the entry, rejecting dates that do not parse
func (r CertificationRequest) ToModel(field string) (models.Certification, error) {
	date, err := helpers.ParseDate(r.Date)
	if err != nil {
		return models.Certification{}, apperrors.NewValidationError(apperrors.FieldError{Field: field + ".date", Message: err.Error()})
	}
	return models.Certification{
		Name:        r.Name,
		Institution: r.Institution,
		Date:        date,
		File:        r.File,
	}, nil
}

// ToModel converts the entry, rejecting malformed dates and an end date before the start date
func (r ExperienceRequest) ToModel(field string) (models.Experience, error) {
	start, err := helpers.ParseDate(r.StartDate)
	if err != nil {
		return models.Experience{}, apperrors.NewValidationError(apperrors.FieldError{Field: field + ".startDate", Message: err.Error()})
	}
	end, err := helpers.ParseOptionalDate(r.EndDate)
	if err != nil {
		return models.Experience{}, apperrors.NewValidationError(apperrors.FieldError{Field: field + ".endDate", Message: err.Error()})
	}
	if end != nil && end.Before(start) {
		return models.Experience{}, apperrors.NewValidationError(apperrors.FieldError{Field: field + ".endDate", Message: "endDate must not be before startDate"})
	}
	return models.Experience{
		Company:     r.Company,
		Position:    r.Position,
		StartDate:   start,
		EndDate:     end,
		Description: r.Description,
	}, nil
}
