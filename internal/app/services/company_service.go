package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/cvportal/internal/app/models"
	"github.com/yigit/cvportal/internal/app/models/dto"
	"github.com/yigit/cvportal/internal/app/repositories"
	"github.com/yigit/cvportal/internal/pkg/apperrors"
	"github.com/yigit/cvportal/internal/pkg/auth"
	"github.com/yigit/cvportal/internal/pkg/validation"
)

// CompanyService serves the authenticated company surface: own profile and student discovery
type CompanyService struct {
	companyRepo repositories.ICompanyRepository
	studentRepo repositories.IStudentRepository
	lookups     *StudentLookups
	logger      zerolog.Logger
}

// NewCompanyService creates a new CompanyService
func NewCompanyService(
	companyRepo repositories.ICompanyRepository,
	studentRepo repositories.IStudentRepository,
	lookups *StudentLookups,
	logger zerolog.Logger,
) *CompanyService {
	return &CompanyService{
		companyRepo: companyRepo,
		studentRepo: studentRepo,
		lookups:     lookups,
		logger:      logger,
	}
}

// GetProfile returns the profile of the authenticated company
func (s *CompanyService) GetProfile(ctx context.Context, identity auth.Identity) (*dto.CompanyProfileResponse, error) {
	company, err := s.companyRepo.GetByID(ctx, identity.CompanyID)
	if err != nil {
		return nil, err
	}
	profile := dto.NewCompanyProfileResponse(company)
	return &profile, nil
}

// UpdateProfile overwrites only the fields present in req
func (s *CompanyService) UpdateProfile(ctx context.Context, identity auth.Identity, req *dto.UpdateCompanyProfileRequest) (*dto.CompanyProfileResponse, error) {
	company, err := s.companyRepo.GetByID(ctx, identity.CompanyID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperrors.NewValidationError(apperrors.FieldError{Field: "name", Message: "Company name is required"})
		}
		company.Name = name
	}
	if req.Email != nil {
		emailAddr := normalizeEmail(*req.Email)
		if !validation.IsValidEmail(emailAddr) {
			return nil, apperrors.NewValidationError(apperrors.FieldError{Field: "email", Message: "Please include a valid email"})
		}
		company.Email = emailAddr
	}

	if err := s.companyRepo.Update(ctx, company); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, apperrors.NewConflictError(MsgCompanyExists)
		}
		return nil, err
	}

	profile := dto.NewCompanyProfileResponse(company)
	return &profile, nil
}

// SearchStudents returns every student matching the query, sorted by the requested key
func (s *CompanyService) SearchStudents(ctx context.Context, query *dto.StudentSearchQuery) ([]*models.Student, error) {
	filter := repositories.StudentFilter{
		MinGrade:       query.MinGPA,
		HasExperience:  dto.HasExperienceFlag(query.HasExperience),
		Certifications: dto.SplitList(query.Certifications),
		YearOfStudy:    query.YearOfStudy,
		SortBy:         models.ParseSortKey(query.SortBy),
	}
	if career := strings.TrimSpace(query.Career); career != "" {
		filter.Career = &career
	}

	students, err := s.studentRepo.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to search students: %w", err)
	}
	return students, nil
}

// GetStudent returns one student; a malformed id is reported as not found
func (s *CompanyService) GetStudent(ctx context.Context, id string) (*models.Student, error) {
	return s.studentRepo.GetByID(ctx, id)
}

// ListCareers returns the distinct careers of all students
func (s *CompanyService) ListCareers(ctx context.Context) ([]string, error) {
	return s.lookups.Careers(ctx)
}

// ListCertificationNames returns the distinct certification names of all students
func (s *CompanyService) ListCertificationNames(ctx context.Context) ([]string, error) {
	return s.lookups.CertificationNames(ctx)
}
