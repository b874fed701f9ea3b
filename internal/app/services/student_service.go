package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/cvportal/internal/app/models"
	"github.com/yigit/cvportal/internal/app/models/dto"
	"github.com/yigit/cvportal/internal/app/repositories"
	"github.com/yigit/cvportal/internal/pkg/apperrors"
	"github.com/yigit/cvportal/internal/pkg/filestorage"
)

// Acknowledgement messages
const (
	MsgPhotoUpdated = "Photo updated successfully"
)

// StudentService handles the public student profile operations
type StudentService struct {
	studentRepo   repositories.IStudentRepository
	storage       filestorage.FileStorage
	lookups       *StudentLookups
	maxUploadSize int64
	logger        zerolog.Logger
}

// NewStudentService creates a new StudentService
func NewStudentService(
	studentRepo repositories.IStudentRepository,
	storage filestorage.FileStorage,
	lookups *StudentLookups,
	maxUploadSize int64,
	logger zerolog.Logger,
) *StudentService {
	if maxUploadSize <= 0 {
		maxUploadSize = filestorage.MaxUploadSize
	}
	return &StudentService{
		studentRepo:   studentRepo,
		storage:       storage,
		lookups:       lookups,
		maxUploadSize: maxUploadSize,
		logger:        logger,
	}
}

// List returns students matching query, best grade first
func (s *StudentService) List(ctx context.Context, query *dto.StudentListQuery) ([]*models.Student, error) {
	filter := repositories.StudentFilter{
		MinGrade:      query.MinGPA,
		HasExperience: dto.HasExperienceFlag(query.HasExperience),
		SortBy:        models.SortByGPA,
	}
	if career := strings.TrimSpace(query.Career); career != "" {
		filter.Career = &career
	}

	students, err := s.studentRepo.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	return students, nil
}

// Get returns one student
func (s *StudentService) Get(ctx context.Context, id string) (*models.Student, error) {
	return s.studentRepo.GetByID(ctx, id)
}

// UpdatePhoto validates and stores an uploaded photo and records its path on the student.
// The previous photo is removed once the new path is saved.
func (s *StudentService) UpdatePhoto(ctx context.Context, id string, fileHeader *multipart.FileHeader) (*dto.MessageResponse, error) {
	if err := filestorage.ValidateUpload(fileHeader, s.maxUploadSize); err != nil {
		return nil, err
	}

	student, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	saved, err := s.storage.SaveFile(fileHeader)
	if err != nil {
		return nil, apperrors.NewUnavailableError(err)
	}

	previous := student.Photo
	student.Photo = saved
	if err := s.studentRepo.Update(ctx, student); err != nil {
		s.removeFile(saved)
		return nil, err
	}

	if previous != "" && previous != saved {
		s.removeFile(previous)
	}

	return &dto.MessageResponse{Message: MsgPhotoUpdated}, nil
}

// Update overwrites only the fields present in req; present lists replace the stored ones
func (s *StudentService) Update(ctx context.Context, id string, req *dto.UpdateStudentRequest) (*models.Student, error) {
	student, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		student.Name = *req.Name
	}
	if req.Career != nil {
		student.Career = *req.Career
	}
	if req.YearOfStudy != nil {
		student.YearOfStudy = *req.YearOfStudy
	}
	if req.Grades != nil {
		student.Grades = dto.ToGrades(*req.Grades)
	}
	if req.ApprovedCourses != nil {
		student.ApprovedCourses = dto.ToApprovedCourses(*req.ApprovedCourses)
	}

	if err := s.studentRepo.Update(ctx, student); err != nil {
		return nil, err
	}
	s.lookups.Invalidate(ctx)
	return student, nil
}

// AddCertification appends a certification, storing the optional file first.
// It returns the updated certification list.
func (s *StudentService) AddCertification(ctx context.Context, id string, form *dto.AddCertificationForm, fileHeader *multipart.FileHeader) ([]models.Certification, error) {
	if fileHeader != nil {
		if err := filestorage.ValidateUpload(fileHeader, s.maxUploadSize); err != nil {
			return nil, err
		}
	}

	cert, err := dto.CertificationRequest{
		Name:        form.Name,
		Institution: form.Institution,
		Date:        form.Date,
	}.ToModel("")
	if err != nil {
		return nil, trimFieldPrefix(err)
	}

	student, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var saved string
	if fileHeader != nil {
		saved, err = s.storage.SaveFile(fileHeader)
		if err != nil {
			return nil, apperrors.NewUnavailableError(err)
		}
		cert.File = &saved
	}

	certs, err := s.studentRepo.AppendCertification(ctx, student.ID, cert)
	if err != nil {
		if saved != "" {
			s.removeFile(saved)
		}
		return nil, err
	}
	s.lookups.Invalidate(ctx)
	return certs, nil
}

// AddExperience appends an experience entry and returns the updated list
func (s *StudentService) AddExperience(ctx context.Context, id string, req *dto.ExperienceRequest) ([]models.Experience, error) {
	exp, err := req.ToModel("")
	if err != nil {
		return nil, trimFieldPrefix(err)
	}

	studentID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperrors.ErrStudentNotFound
	}

	experience, err := s.studentRepo.AppendExperience(ctx, studentID, exp)
	if err != nil {
		return nil, err
	}
	s.lookups.Invalidate(ctx)
	return experience, nil
}

func (s *StudentService) removeFile(path string) {
	if err := s.storage.DeleteFile(path); err != nil {
		s.logger.Warn().Err(err).Str("path", path).Msg("Failed to remove stored file")
	}
}

// trimFieldPrefix drops the leading "." left by converting a top-level entry
func trimFieldPrefix(err error) error {
	fields := apperrors.FieldErrors(err)
	if len(fields) == 0 {
		return err
	}
	out := make([]apperrors.FieldError, len(fields))
	for i, f := range fields {
		out[i] = apperrors.FieldError{Field: strings.TrimPrefix(f.Field, "."), Message: f.Message}
	}
	return apperrors.NewValidationError(out...)
}
