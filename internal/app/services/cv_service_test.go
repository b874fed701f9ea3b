package services

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/cvportal/internal/app/models/dto"
	"github.com/yigit/cvportal/internal/pkg/apperrors"
	"github.com/yigit/cvportal/internal/pkg/cvpdf"
)

type recordingRenderer struct {
	layouts []cvpdf.Layout
	err     error
}

func (r *recordingRenderer) Render(layout cvpdf.Layout, w io.Writer) error {
	r.layouts = append(r.layouts, layout)
	if r.err != nil {
		return r.err
	}
	_, err := io.WriteString(w, "%PDF-1.4\n")
	return err
}

func newCVService(t *testing.T, f *studentFixture, renderer CVRenderer) (*CVService, string) {
	t.Helper()

	tempDir := filepath.Join(t.TempDir(), "temp")
	svc, err := NewCVService(f.repo, f.storage, renderer, f.lookups, tempDir, zerolog.Nop())
	require.NoError(t, err)
	return svc, tempDir
}

func tempFiles(t *testing.T, dir string) []os.DirEntry {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	return entries
}

func TestCVService_Generate(t *testing.T) {
	f := newStudentFixture(t)
	id := f.repo.MustAdd(ana())
	svc, tempDir := newCVService(t, f, cvpdf.NewRenderer(zerolog.Nop()))

	cv, err := svc.Generate(context.Background(), id.String())
	require.NoError(t, err)

	assert.Equal(t, "Ana Perez-CV.pdf", cv.FileName)
	assert.Equal(t, tempDir, filepath.Dir(cv.Path))
	assert.True(t, strings.HasPrefix(filepath.Base(cv.Path), "20201234-"))

	content, err := os.ReadFile(cv.Path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(content), "%PDF-"))

	svc.Cleanup(cv.Path)
	assert.NoFileExists(t, cv.Path)
	assert.Empty(t, tempFiles(t, tempDir))
}

func TestCVService_Generate_DistinctTempFiles(t *testing.T) {
	f := newStudentFixture(t)
	id := f.repo.MustAdd(ana())
	svc, tempDir := newCVService(t, f, &recordingRenderer{})

	first, err := svc.Generate(context.Background(), id.String())
	require.NoError(t, err)
	second, err := svc.Generate(context.Background(), id.String())
	require.NoError(t, err)

	assert.NotEqual(t, first.Path, second.Path)
	assert.Len(t, tempFiles(t, tempDir), 2)
}

func TestCVService_Generate_OmitsEmptySections(t *testing.T) {
	f := newStudentFixture(t)
	id := f.repo.MustAdd(bruno())
	renderer := &recordingRenderer{}
	svc, _ := newCVService(t, f, renderer)

	cv, err := svc.Generate(context.Background(), id.String())
	require.NoError(t, err)
	defer svc.Cleanup(cv.Path)

	require.Len(t, renderer.layouts, 1)
	headings := renderer.layouts[0].Headings()
	assert.NotContains(t, headings, cvpdf.HeadingCertifications)
	assert.NotContains(t, headings, cvpdf.HeadingExperience)
	assert.Empty(t, renderer.layouts[0].PhotoPath)
}

func TestCVService_Generate_UnknownStudentCreatesNothing(t *testing.T) {
	f := newStudentFixture(t)
	renderer := &recordingRenderer{}
	svc, tempDir := newCVService(t, f, renderer)

	for _, id := range []string{"not-a-uuid", "6c1f6f0e-6a4e-4c1c-9a7f-2b1e3f5d9c11"} {
		_, err := svc.Generate(context.Background(), id)
		assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
	}
	assert.Empty(t, renderer.layouts)
	assert.Empty(t, tempFiles(t, tempDir))
}

func TestCVService_Generate_RenderFailureRemovesTempFile(t *testing.T) {
	f := newStudentFixture(t)
	id := f.repo.MustAdd(ana())
	svc, tempDir := newCVService(t, f, &recordingRenderer{err: errors.New("boom")})

	_, err := svc.Generate(context.Background(), id.String())
	require.Error(t, err)
	assert.Empty(t, tempFiles(t, tempDir))
}

func TestCVService_UpdateSections(t *testing.T) {
	f := newStudentFixture(t)
	id := f.repo.MustAdd(ana())
	svc, _ := newCVService(t, f, &recordingRenderer{})
	ctx := context.Background()

	updated, err := svc.UpdateSections(ctx, id.String(), &dto.UpdateCVRequest{
		Certifications: &[]dto.CertificationRequest{
			{Name: "CKA", Institution: "CNCF", Date: "2024-02-01"},
			{Name: "CKAD", Institution: "CNCF", Date: "2024-03-01T00:00:00Z"},
		},
	})
	require.NoError(t, err)
	require.Len(t, updated.Certifications, 2)
	assert.Equal(t, "CKA", updated.Certifications[0].Name)
	assert.Len(t, updated.Experience, 1, "absent sections are untouched")

	updated, err = svc.UpdateSections(ctx, id.String(), &dto.UpdateCVRequest{Experience: &[]dto.ExperienceRequest{}})
	require.NoError(t, err)
	assert.Empty(t, updated.Experience)
	assert.Len(t, updated.Certifications, 2)
}

func TestCVService_UpdateSections_Errors(t *testing.T) {
	f := newStudentFixture(t)
	id := f.repo.MustAdd(ana())
	svc, _ := newCVService(t, f, &recordingRenderer{})
	ctx := context.Background()

	_, err := svc.UpdateSections(ctx, "missing", &dto.UpdateCVRequest{})
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)

	_, err = svc.UpdateSections(ctx, id.String(), &dto.UpdateCVRequest{
		Experience: &[]dto.ExperienceRequest{{Company: "Acme", Position: "Dev", StartDate: "yesterday"}},
	})
	require.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.Equal(t, "experience[0].startDate", apperrors.FieldErrors(err)[0].Field)
}
