package models

import (
	"time"

	"github.com/google/uuid"
)

// Grade is one entry of a student's academic record
type Grade struct {
	Subject  string  `json:"subject" example:"Algorithms"`
	Grade    float64 `json:"grade" example:"90"`
	Semester string  `json:"semester" example:"2024-1"`
}

// ApprovedCourse is a course the student has passed
type ApprovedCourse struct {
	Name     string  `json:"name" example:"Databases"`
	Grade    float64 `json:"grade" example:"85"`
	Semester string  `json:"semester" example:"2023-2"`
}

// Certification is a certificate earned by the student, optionally with an uploaded file
type Certification struct {
	Name        string    `json:"name" example:"AWS Cloud Practitioner"`
	Institution string    `json:"institution" example:"Amazon"`
	Date        time.Time `json:"date"`
	File        *string   `json:"file"`
}

// Experience is a work experience entry; a nil EndDate means ongoing
type Experience struct {
	Company     string     `json:"company" example:"Acme"`
	Position    string     `json:"position" example:"Intern"`
	StartDate   time.Time  `json:"startDate"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	Description string     `json:"description"`
}

// Student defines the student profile based on the 'students' table.
// The four lists are stored as JSONB arrays.
type Student struct {
	ID                   uuid.UUID        `json:"id" db:"id"`
	Name                 string           `json:"name" db:"name" example:"Ana Perez"`
	IdentificationNumber string           `json:"identificationNumber" db:"identification_number" example:"20201234"`
	Career               string           `json:"career" db:"career" example:"Computer Science"`
	YearOfStudy          int              `json:"yearOfStudy" db:"year_of_study" example:"3"`
	Photo                string           `json:"photo" db:"photo" example:"uploads/3f1c.png"`
	Grades               []Grade          `json:"grades" db:"grades"`
	ApprovedCourses      []ApprovedCourse `json:"approvedCourses" db:"approved_courses"`
	Certifications       []Certification  `json:"certifications" db:"certifications"`
	Experience           []Experience     `json:"experience" db:"experience"`
	CreatedAt            time.Time        `json:"createdAt" db:"created_at"`
	UpdatedAt            time.Time        `json:"updatedAt" db:"updated_at"`
}

// BeforeSave refreshes UpdatedAt and replaces nil lists with empty ones
func (s *Student) BeforeSave() {
	s.UpdatedAt = time.Now()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = s.UpdatedAt
	}
	if s.Grades == nil {
		s.Grades = []Grade{}
	}
	if s.ApprovedCourses == nil {
		s.ApprovedCourses = []ApprovedCourse{}
	}
	if s.Certifications == nil {
		s.Certifications = []Certification{}
	}
	if s.Experience == nil {
		s.Experience = []Experience{}
	}
}

// HighestGrade returns the best grade in the academic record and whether one exists
func (s *Student) HighestGrade() (float64, bool) {
	if len(s.Grades) == 0 {
		return 0, false
	}
	best := s.Grades[0].Grade
	for _, g := range s.Grades[1:] {
		if g.Grade > best {
			best = g.Grade
		}
	}
	return best, true
}
