package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"

	"github.com/rs/zerolog"
	"github.com/yigit/cvportal/internal/app/models"
	"github.com/yigit/cvportal/internal/app/models/dto"
	"github.com/yigit/cvportal/internal/app/repositories"
	"github.com/yigit/cvportal/internal/pkg/cvpdf"
	"github.com/yigit/cvportal/internal/pkg/filestorage"
)

// CVRenderer draws a CV layout as a PDF document
type CVRenderer interface {
	Render(layout cvpdf.Layout, w io.Writer) error
}

// GeneratedCV is a rendered CV waiting to be streamed; Path must be passed to Cleanup afterwards
type GeneratedCV struct {
	Path     string
	FileName string
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// CVService renders student CVs and replaces their CV sections
type CVService struct {
	studentRepo repositories.IStudentRepository
	storage     filestorage.FileStorage
	renderer    CVRenderer
	lookups     *StudentLookups
	tempDir     string
	logger      zerolog.Logger
}

// NewCVService creates a new CVService writing temporary documents to tempDir
func NewCVService(
	studentRepo repositories.IStudentRepository,
	storage filestorage.FileStorage,
	renderer CVRenderer,
	lookups *StudentLookups,
	tempDir string,
	logger zerolog.Logger,
) (*CVService, error) {
	if err := os.MkdirAll(tempDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create temp directory %s: %w", tempDir, err)
	}
	return &CVService{
		studentRepo: studentRepo,
		storage:     storage,
		renderer:    renderer,
		lookups:     lookups,
		tempDir:     tempDir,
		logger:      logger,
	}, nil
}

// Generate renders the CV of a student into a fresh temporary file.
// Nothing is written when the student does not exist.
func (s *CVService) Generate(ctx context.Context, studentID string) (*GeneratedCV, error) {
	student, err := s.studentRepo.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}

	var photoPath string
	if student.Photo != "" {
		photoPath = s.storage.GetFullPath(student.Photo)
	}
	layout := cvpdf.BuildLayout(student, photoPath)

	f, err := os.CreateTemp(s.tempDir, tempNamePrefix(student)+"-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("failed to create temporary CV file: %w", err)
	}

	renderErr := s.renderer.Render(layout, f)
	closeErr := f.Close()
	if renderErr != nil || closeErr != nil {
		s.Cleanup(f.Name())
		if renderErr != nil {
			return nil, fmt.Errorf("failed to render CV: %w", renderErr)
		}
		return nil, fmt.Errorf("failed to write CV: %w", closeErr)
	}

	s.logger.Debug().Str("studentID", student.ID.String()).Str("path", f.Name()).Msg("CV generated")
	return &GeneratedCV{
		Path:     f.Name(),
		FileName: student.Name + "-CV.pdf",
	}, nil
}

// Cleanup removes a generated document; failures are logged only
func (s *CVService) Cleanup(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		s.logger.Error().Err(err).Str("path", path).Msg("Failed to remove temporary CV")
	}
}

// UpdateSections replaces the certification and/or experience lists present in req
func (s *CVService) UpdateSections(ctx context.Context, studentID string, req *dto.UpdateCVRequest) (*models.Student, error) {
	student, err := s.studentRepo.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}

	if req.Certifications != nil {
		certs, err := dto.ToCertifications(*req.Certifications)
		if err != nil {
			return nil, err
		}
		student.Certifications = certs
	}
	if req.Experience != nil {
		experience, err := dto.ToExperience(*req.Experience)
		if err != nil {
			return nil, err
		}
		student.Experience = experience
	}

	if err := s.studentRepo.Update(ctx, student); err != nil {
		return nil, err
	}
	s.lookups.Invalidate(ctx)
	return student, nil
}

func tempNamePrefix(student *models.Student) string {
	name := unsafeFileChars.ReplaceAllString(student.IdentificationNumber, "_")
	if name == "" {
		name = student.ID.String()
	}
	return filepath.Base(name)
}
