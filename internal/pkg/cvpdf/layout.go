// Package cvpdf turns a student profile into a printable CV.
package cvpdf

import (
	"fmt"
	"strconv"
	"time"

	"github.com/yigit/cvportal/internal/app/models"
)

// DateFormat is used for every date printed on a CV
const DateFormat = "Jan 2, 2006"

// Section headings, in document order
const (
	DocumentTitle          = "Curriculum Vitae"
	HeadingPersonal        = "Personal Information"
	HeadingAcademic        = "Academic Information"
	HeadingApprovedCourses = "Approved Courses"
	HeadingCertifications  = "Certifications"
	HeadingExperience      = "Work Experience"
)

// Section is a heading followed by lines of body text. An empty line is a paragraph break.
type Section struct {
	Heading string
	Lines   []string
}

// Layout is everything a CV shows, independent of how it is drawn
type Layout struct {
	Title     string
	PhotoPath string
	Sections  []Section
}

// Headings lists the section headings in order
func (l Layout) Headings() []string {
	out := make([]string, 0, len(l.Sections))
	for _, s := range l.Sections {
		out = append(out, s.Heading)
	}
	return out
}

// BuildLayout assembles the CV of student. photoPath is the on-disk photo location,
// empty when the student has none. Certifications and experience are left out when empty.
func BuildLayout(student *models.Student, photoPath string) Layout {
	layout := Layout{
		Title:     DocumentTitle,
		PhotoPath: photoPath,
	}

	layout.Sections = append(layout.Sections, Section{
		Heading: HeadingPersonal,
		Lines: []string{
			"Name: " + student.Name,
			"ID: " + student.IdentificationNumber,
			"Career: " + student.Career,
			"Year of Study: " + strconv.Itoa(student.YearOfStudy),
		},
	})

	academic := Section{Heading: HeadingAcademic, Lines: []string{"Grades:"}}
	for _, g := range student.Grades {
		academic.Lines = append(academic.Lines, fmt.Sprintf("%s: %s (%s)", g.Subject, formatGrade(g.Grade), g.Semester))
	}
	layout.Sections = append(layout.Sections, academic)

	courses := Section{Heading: HeadingApprovedCourses, Lines: []string{}}
	for _, c := range student.ApprovedCourses {
		courses.Lines = append(courses.Lines, fmt.Sprintf("%s: %s (%s)", c.Name, formatGrade(c.Grade), c.Semester))
	}
	layout.Sections = append(layout.Sections, courses)

	if len(student.Certifications) > 0 {
		certs := Section{Heading: HeadingCertifications}
		for _, c := range student.Certifications {
			certs.Lines = append(certs.Lines, fmt.Sprintf("%s - %s (%s)", c.Name, c.Institution, formatDate(c.Date)))
		}
		layout.Sections = append(layout.Sections, certs)
	}

	if len(student.Experience) > 0 {
		exp := Section{Heading: HeadingExperience}
		for i, e := range student.Experience {
			if i > 0 {
				exp.Lines = append(exp.Lines, "")
			}
			exp.Lines = append(exp.Lines,
				fmt.Sprintf("%s at %s", e.Position, e.Company),
				DateRange(e.StartDate, e.EndDate),
			)
			if e.Description != "" {
				exp.Lines = append(exp.Lines, e.Description)
			}
		}
		layout.Sections = append(layout.Sections, exp)
	}

	return layout
}

// DateRange formats start and end, printing "Present" for an ongoing entry
func DateRange(start time.Time, end *time.Time) string {
	if end == nil {
		return formatDate(start) + " - Present"
	}
	return formatDate(start) + " - " + formatDate(*end)
}

func formatDate(t time.Time) string {
	return t.Format(DateFormat)
}

func formatGrade(g float64) string {
	return strconv.FormatFloat(g, 'f', -1, 64)
}
