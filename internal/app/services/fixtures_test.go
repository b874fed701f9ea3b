package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/yigit/cvportal/internal/app/models"
	"github.com/yigit/cvportal/internal/pkg/cache"
	"github.com/yigit/cvportal/internal/pkg/filestorage"
	"github.com/yigit/cvportal/internal/testhelpers"
)

type studentFixture struct {
	repo     *testhelpers.StudentRepo
	storage  *filestorage.LocalStorage
	lookups  *StudentLookups
	students *StudentService
	uploads  string
}

func newStudentFixture(t *testing.T) *studentFixture {
	t.Helper()

	uploads := t.TempDir()
	storage, err := filestorage.NewLocalStorage(uploads, "uploads")
	require.NoError(t, err)

	repo := testhelpers.NewStudentRepo()
	lookups := NewStudentLookups(repo, cache.NoopCache{}, zerolog.Nop())
	return &studentFixture{
		repo:     repo,
		storage:  storage,
		lookups:  lookups,
		students: NewStudentService(repo, storage, lookups, filestorage.MaxUploadSize, zerolog.Nop()),
		uploads:  uploads,
	}
}

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func ana() models.Student {
	return models.Student{
		Name:                 "Ana Perez",
		IdentificationNumber: "20201234",
		Career:               "Computer Science",
		YearOfStudy:          3,
		Grades:               []models.Grade{{Subject: "A", Grade: 90, Semester: "2024-1"}},
		Certifications: []models.Certification{
			{Name: "AWS Cloud Practitioner", Institution: "Amazon", Date: date("2024-05-01")},
		},
		Experience: []models.Experience{
			{Company: "Acme", Position: "Intern", StartDate: date("2023-06-01")},
		},
	}
}

func bruno() models.Student {
	return models.Student{
		Name:                 "Bruno Diaz",
		IdentificationNumber: "20195678",
		Career:               "Law",
		YearOfStudy:          4,
		Grades:               []models.Grade{{Subject: "B", Grade: 70, Semester: "2024-1"}},
	}
}

type failingUpdateRepo struct {
	*testhelpers.StudentRepo
	err error
}

func (r *failingUpdateRepo) Update(context.Context, *models.Student) error {
	return r.err
}
