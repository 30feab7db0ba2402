package candidate

import (
	"time"

	"github.com/Abraxas-365/hirehub/pkg/kernel"
)

// RegisterRequest - DTO for first-time registration
type RegisterRequest struct {
	Code           string           `json:"code" validate:"required"`
	Name           string           `json:"name" validate:"required,max=64"`
	AvatarURL      string           `json:"avatar_url,omitempty" validate:"omitempty,url"`
	Phone          kernel.Phone     `json:"phone,omitempty"`
	Gender         kernel.Gender    `json:"gender,omitempty" validate:"omitempty,oneof=male female"`
	Age            int              `json:"age,omitempty" validate:"omitempty,min=14,max=120"`
	Region         string           `json:"region,omitempty"`
	Education      kernel.Education `json:"education,omitempty"`
	IsFullTime     bool             `json:"is_full_time"`
	SchoolName     string           `json:"school_name,omitempty"`
	Major          string           `json:"major,omitempty"`
	GraduationDate string           `json:"graduation_date,omitempty"`
	// TempResumeFileID points at an upload outside the candidate's folder
	TempResumeFileID kernel.FileID `json:"temp_resume_file_id,omitempty"`
}

// LoginRequest - DTO for code login. The client may send the identity
// provider's current name, avatar and phone to refresh the stored profile.
type LoginRequest struct {
	Code      string                        `json:"code" validate:"required"`
	Name      kernel.Optional[string]       `json:"name"`
	AvatarURL kernel.Optional[string]       `json:"avatar_url"`
	Phone     kernel.Optional[kernel.Phone] `json:"phone"`
}

// ProfilePatch is the profile refresh carried by the login
func (r LoginRequest) ProfilePatch() ProfileUpdate {
	return ProfileUpdate{
		Name:      r.Name,
		AvatarURL: r.AvatarURL,
		Phone:     r.Phone,
	}
}

// CandidateResponse - DTO for returning candidate data
type CandidateResponse struct {
	ID             kernel.CandidateID `json:"id"`
	Name           string             `json:"name"`
	AvatarURL      string             `json:"avatar_url"`
	Phone          kernel.Phone       `json:"phone"`
	Gender         kernel.Gender      `json:"gender"`
	Age            int                `json:"age"`
	Region         string             `json:"region"`
	Education      kernel.Education   `json:"education"`
	IsFullTime     bool               `json:"is_full_time"`
	SchoolName     string             `json:"school_name"`
	Major          string             `json:"major"`
	GraduationDate string             `json:"graduation_date"`
	ResumeFileID   kernel.FileID      `json:"resume_file_id"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

// Response type alias for paginated candidates
type PaginatedCandidatesResponse = kernel.Paginated[CandidateResponse]

// CandidateSession is returned after login or registration
type CandidateSession struct {
	CandidateID kernel.CandidateID `json:"candidate_id"`
	Token       string             `json:"token"`
	ExpiresAt   time.Time          `json:"expires_at"`
	Profile     CandidateResponse  `json:"profile"`
}

// ToResponse converts the entity into its API shape
func (c *Candidate) ToResponse() CandidateResponse {
	return CandidateResponse{
		ID:             c.ID,
		Name:           c.Name,
		AvatarURL:      c.AvatarURL,
		Phone:          c.Phone,
		Gender:         c.Gender,
		Age:            c.Age,
		Region:         c.Region,
		Education:      c.Education,
		IsFullTime:     c.IsFullTime,
		SchoolName:     c.SchoolName,
		Major:          c.Major,
		GraduationDate: c.GraduationDate,
		ResumeFileID:   c.ResumeFileID,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}
