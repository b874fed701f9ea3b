package cvpdf

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/yigit/cvportal/internal/app/models"
)

func sampleStudent() *models.Student {
	return &models.Student{
		Name:                 "Ana Perez",
		IdentificationNumber: "20201234",
		Career:               "Computer Science",
		YearOfStudy:          3,
		Grades: []models.Grade{
			{Subject: "Algorithms", Grade: 90, Semester: "2024-1"},
			{Subject: "Databases", Grade: 87.5, Semester: "2024-1"},
		},
		ApprovedCourses: []models.ApprovedCourse{{Name: "Calculus", Grade: 80, Semester: "2023-2"}},
	}
}

func TestBuildLayout_OmitsEmptyCertificationsAndExperience(t *testing.T) {
	layout := BuildLayout(sampleStudent(), "")

	assert.Equal(t, DocumentTitle, layout.Title)
	assert.Empty(t, layout.PhotoPath)
	assert.Equal(t, []string{HeadingPersonal, HeadingAcademic, HeadingApprovedCourses}, layout.Headings())
	assert.Equal(t, []string{
		"Name: Ana Perez",
		"ID: 20201234",
		"Career: Computer Science",
		"Year of Study: 3",
	}, layout.Sections[0].Lines)
	assert.Equal(t, []string{"Grades:", "Algorithms: 90 (2024-1)", "Databases: 87.5 (2024-1)"}, layout.Sections[1].Lines)
	assert.Equal(t, []string{"Calculus: 80 (2023-2)"}, layout.Sections[2].Lines)
}

func TestBuildLayout_CertificationsAndExperience(t *testing.T) {
	student := sampleStudent()
	end := time.Date(2023, 9, 1, 0, 0, 0, 0, time.UTC)
	student.Certifications = []models.Certification{
		{Name: "AWS Cloud Practitioner", Institution: "Amazon", Date: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)},
	}
	student.Experience = []models.Experience{
		{Company: "Acme", Position: "Intern", StartDate: time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC), EndDate: &end, Description: "Built things"},
		{Company: "Globex", Position: "Developer", StartDate: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
	}

	layout := BuildLayout(student, "/srv/uploads/p.png")

	assert.Equal(t, "/srv/uploads/p.png", layout.PhotoPath)
	assert.Equal(t, []string{HeadingPersonal, HeadingAcademic, HeadingApprovedCourses, HeadingCertifications, HeadingExperience}, layout.Headings())
	assert.Equal(t, []string{"AWS Cloud Practitioner - Amazon (May 1, 2024)"}, layout.Sections[3].Lines)
	assert.Equal(t, []string{
		"Intern at Acme",
		"Jun 1, 2023 - Sep 1, 2023",
		"Built things",
		"",
		"Developer at Globex",
		"Jan 15, 2024 - Present",
	}, layout.Sections[4].Lines)
}

func TestFitBox(t *testing.T) {
	w, h := fitBox(400, 200, 100)
	assert.InDelta(t, 100, w, 0.001)
	assert.InDelta(t, 50, h, 0.001)

	w, h = fitBox(50, 80, 100)
	assert.InDelta(t, 62.5, w, 0.001)
	assert.InDelta(t, 100, h, 0.001)
}
