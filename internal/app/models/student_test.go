package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStudent_BeforeSave(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := &Student{CreatedAt: created}

	s.BeforeSave()

	assert.Equal(t, created, s.CreatedAt)
	assert.True(t, s.UpdatedAt.After(created))
	assert.NotNil(t, s.Grades)
	assert.NotNil(t, s.ApprovedCourses)
	assert.NotNil(t, s.Certifications)
	assert.NotNil(t, s.Experience)

	first := s.UpdatedAt
	time.Sleep(time.Millisecond)
	s.BeforeSave()
	assert.True(t, s.UpdatedAt.After(first))
}

func TestStudent_BeforeSaveSetsCreatedAtOnce(t *testing.T) {
	s := &Student{}
	s.BeforeSave()
	assert.Equal(t, s.UpdatedAt, s.CreatedAt)
}

func TestStudent_HighestGrade(t *testing.T) {
	s := &Student{}
	_, ok := s.HighestGrade()
	assert.False(t, ok)

	s.Grades = []Grade{{Subject: "A", Grade: 70}, {Subject: "B", Grade: 90}, {Subject: "C", Grade: 85}}
	best, ok := s.HighestGrade()
	assert.True(t, ok)
	assert.Equal(t, 90.0, best)
}

func TestParseSortKey(t *testing.T) {
	assert.Equal(t, SortByGPA, ParseSortKey(""))
	assert.Equal(t, SortByGPA, ParseSortKey("gpa"))
	assert.Equal(t, SortByExperience, ParseSortKey("experience"))
	assert.Equal(t, SortByCertifications, ParseSortKey("certifications"))
	assert.Equal(t, SortByGPA, ParseSortKey("name"))
}
