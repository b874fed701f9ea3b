package dto

import (
	"fmt"

	"github.com/yigit/cvportal/internal/app/models"
)

// UpdateCVRequest replaces the certification and/or experience lists wholesale
type UpdateCVRequest struct {
	Certifications *[]CertificationRequest `json:"certifications" binding:"omitempty,dive"`
	Experience     *[]ExperienceRequest    `json:"experience" binding:"omitempty,dive"`
}

// ToCertifications converts every entry; the first malformed date aborts the conversion
func ToCertifications(in []CertificationRequest) ([]models.Certification, error) {
	out := make([]models.Certification, 0, len(in))
	for i, r := range in {
		cert, err := r.ToModel(fmt.Sprintf("certifications[%d]", i))
		if err != nil {
			return nil, err
		}
		out = append(out, cert)
	}
	return out, nil
}

// ToExperience converts every entry; the first malformed date aborts the conversion
func ToExperience(in []ExperienceRequest) ([]models.Experience, error) {
	out := make([]models.Experience, 0, len(in))
	for i, r := range in {
		exp, err := r.ToModel(fmt.Sprintf("experience[%d]", i))
		if err != nil {
			return nil, err
		}
		out = append(out, exp)
	}
	return out, nil
}
