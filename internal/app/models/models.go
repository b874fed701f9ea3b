package models

// SortKey selects the ordering of student search results
type SortKey string

const (
	SortByGPA            SortKey = "gpa"
	SortByExperience     SortKey = "experience"
	SortByCertifications SortKey = "certifications"
)

// ParseSortKey maps a query value to a SortKey, falling back to SortByGPA
func ParseSortKey(value string) SortKey {
	switch SortKey(value) {
	case SortByExperience:
		return SortByExperience
	case SortByCertifications:
		return SortByCertifications
	default:
		return SortByGPA
	}
}
