package kernel

import "strings"

type JobTitle string

type JobType string

type SalaryRange string

type JobDuty string

type JobQualification string

type BucketURL string

// Phone is a candidate contact number
type Phone string

// IsValid accepts mainland mobile numbers (11 digits starting with 1),
// optionally prefixed with +86
func (p Phone) IsValid() bool {
	s := strings.TrimPrefix(string(p), "+86")
	if len(s) != 11 || s[0] != '1' {
		return false
	}
	return isNumeric(s)
}

// Gender as captured on the candidate profile
type Gender string

const (
	GenderUnknown Gender = ""
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
)

// IsValid reports whether g is one of the known values
func (g Gender) IsValid() bool {
	switch g {
	case GenderUnknown, GenderMale, GenderFemale:
		return true
	default:
		return false
	}
}

// Education levels
type Education string

const (
	EducationHighSchool Education = "high_school"
	EducationAssociate  Education = "associate"
	EducationBachelor   Education = "bachelor"
	EducationMaster     Education = "master"
	EducationDoctorate  Education = "doctorate"
)

// GetDisplayName returns the label used in exports
func (e Education) GetDisplayName() string {
	switch e {
	case EducationHighSchool:
		return "High school"
	case EducationAssociate:
		return "Associate"
	case EducationBachelor:
		return "Bachelor"
	case EducationMaster:
		return "Master"
	case EducationDoctorate:
		return "Doctorate"
	default:
		return string(e)
	}
}

// IsValid reports whether e is empty or a known level
func (e Education) IsValid() bool {
	switch e {
	case "", EducationHighSchool, EducationAssociate, EducationBachelor, EducationMaster, EducationDoctorate:
		return true
	default:
		return false
	}
}

func isNumeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
