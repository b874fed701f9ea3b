// Package seed inserts demo student profiles so the read and update endpoints
// are usable without an external creation path.
package seed

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/yigit/cvportal/internal/app/models"
	appRepos "github.com/yigit/cvportal/internal/app/repositories"
	"github.com/yigit/cvportal/internal/db"
)

// DemoStudents returns the demo profiles. Identification numbers are the idempotency key.
func DemoStudents() []models.Student {
	day := func(s string) time.Time {
		t, _ := time.Parse("2006-01-02", s)
		return t
	}
	summerEnd := day("2024-08-31")

	return []models.Student{
		{
			Name:                 "Ana Perez",
			IdentificationNumber: "20201234",
			Career:               "Computer Science",
			YearOfStudy:          4,
			Grades: []models.Grade{
				{Subject: "Algorithms", Grade: 92, Semester: "2023-1"},
				{Subject: "Databases", Grade: 88, Semester: "2023-2"},
			},
			ApprovedCourses: []models.ApprovedCourse{
				{Name: "Programming I", Grade: 95, Semester: "2021-1"},
				{Name: "Discrete Mathematics", Grade: 85, Semester: "2021-2"},
			},
			Certifications: []models.Certification{
				{Name: "AWS Cloud Practitioner", Institution: "Amazon", Date: day("2024-05-01")},
			},
			Experience: []models.Experience{
				{Company: "Acme", Position: "Backend Intern", StartDate: day("2024-06-01"), EndDate: &summerEnd, Description: "Built internal APIs"},
			},
		},
		{
			Name:                 "Bruno Diaz",
			IdentificationNumber: "20195678",
			Career:               "Industrial Engineering",
			YearOfStudy:          5,
			Grades: []models.Grade{
				{Subject: "Operations Research", Grade: 78, Semester: "2023-1"},
				{Subject: "Statistics", Grade: 81, Semester: "2023-2"},
			},
			Experience: []models.Experience{
				{Company: "Globex", Position: "Process Analyst", StartDate: day("2024-02-01")},
			},
		},
		{
			Name:                 "Carla Ruiz",
			IdentificationNumber: "20221111",
			Career:               "Computer Science",
			YearOfStudy:          2,
			Grades: []models.Grade{
				{Subject: "Calculus", Grade: 70, Semester: "2023-1"},
			},
			Certifications: []models.Certification{
				{Name: "Scrum Fundamentals", Institution: "Scrum.org", Date: day("2023-11-15")},
			},
		},
	}
}

// Students inserts every demo profile whose identification number is not stored yet, in one transaction.
// It returns how many profiles were inserted.
func Students(ctx context.Context, beginner db.TxBeginner, lgr zerolog.Logger) (int, error) {
	lgr.Info().Msg("Checking/Creating demo students...")

	var created int
	err := db.RunInTransaction(ctx, beginner, func(ctx context.Context, tx pgx.Tx) error {
		repo := appRepos.NewStudentRepository(tx)
		for _, student := range DemoStudents() {
			exists, err := repo.ExistsByIdentificationNumber(ctx, student.IdentificationNumber)
			if err != nil {
				return err
			}
			if exists {
				lgr.Debug().Str("identificationNumber", student.IdentificationNumber).Msg("Demo student already present")
				continue
			}
			if err := repo.Create(ctx, &student); err != nil {
				return err
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	lgr.Info().Int("created", created).Msg("Demo students ensured")
	return created, nil
}
