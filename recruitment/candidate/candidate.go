package candidate

import (
	"time"

	"github.com/Abraxas-365/hirehub/pkg/kernel"
)

type Candidate struct {
	ID             kernel.CandidateID `db:"id" json:"id"`
	OpenID         kernel.OpenID      `db:"open_id" json:"-"`
	Name           string             `db:"name" json:"name"`
	AvatarURL      string             `db:"avatar_url" json:"avatar_url"`
	Phone          kernel.Phone       `db:"phone" json:"phone"`
	Gender         kernel.Gender      `db:"gender" json:"gender"`
	Age            int                `db:"age" json:"age"`
	Region         string             `db:"region" json:"region"`
	Education      kernel.Education   `db:"education" json:"education"`
	IsFullTime     bool               `db:"is_full_time" json:"is_full_time"`
	SchoolName     string             `db:"school_name" json:"school_name"`
	Major          string             `db:"major" json:"major"`
	GraduationDate string             `db:"graduation_date" json:"graduation_date"`
	ResumeFileID   kernel.FileID      `db:"resume_file_id" json:"resume_file_id"`
	LastLoginAt    *time.Time         `db:"last_login_at" json:"last_login_at,omitempty"`
	CreatedAt      time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time          `db:"updated_at" json:"updated_at"`
}

// ============================================================================
// Domain Methods
// ============================================================================

// HasResume checks if a résumé file is attached
func (c *Candidate) HasResume() bool {
	return !c.ResumeFileID.IsEmpty()
}

// Apply writes every present field of u onto the candidate
func (c *Candidate) Apply(u ProfileUpdate, now time.Time) {
	if v, ok := u.Name.Get(); ok {
		c.Name = v
	}
	if v, ok := u.AvatarURL.Get(); ok {
		c.AvatarURL = v
	}
	if v, ok := u.Phone.Get(); ok {
		c.Phone = v
	}
	if v, ok := u.Gender.Get(); ok {
		c.Gender = v
	}
	if v, ok := u.Age.Get(); ok {
		c.Age = v
	}
	if v, ok := u.Region.Get(); ok {
		c.Region = v
	}
	if v, ok := u.Education.Get(); ok {
		c.Education = v
	}
	if v, ok := u.IsFullTime.Get(); ok {
		c.IsFullTime = v
	}
	if v, ok := u.SchoolName.Get(); ok {
		c.SchoolName = v
	}
	if v, ok := u.Major.Get(); ok {
		c.Major = v
	}
	if v, ok := u.GraduationDate.Get(); ok {
		c.GraduationDate = v
	}
	if v, ok := u.ResumeFileID.Get(); ok {
		c.ResumeFileID = v
	}
	c.UpdatedAt = now
}

// ============================================================================
// Profile Update Set
// ============================================================================

// ProfileUpdate is a partial profile change. Absent fields are left untouched;
// a present empty value clears the field.
type ProfileUpdate struct {
	Name           kernel.Optional[string]           `json:"name"`
	AvatarURL      kernel.Optional[string]           `json:"avatar_url"`
	Phone          kernel.Optional[kernel.Phone]     `json:"phone"`
	Gender         kernel.Optional[kernel.Gender]    `json:"gender"`
	Age            kernel.Optional[int]              `json:"age"`
	Region         kernel.Optional[string]           `json:"region"`
	Education      kernel.Optional[kernel.Education] `json:"education"`
	IsFullTime     kernel.Optional[bool]             `json:"is_full_time"`
	SchoolName     kernel.Optional[string]           `json:"school_name"`
	Major          kernel.Optional[string]           `json:"major"`
	GraduationDate kernel.Optional[string]           `json:"graduation_date"`
	ResumeFileID   kernel.Optional[kernel.FileID]    `json:"resume_file_id"`
}

// Fields returns column -> value for every present field. Cleared text
// columns map to nil so they are stored as NULL.
func (u ProfileUpdate) Fields() map[string]any {
	fields := make(map[string]any)
	text := func(col string, v string, ok bool) {
		if !ok {
			return
		}
		if v == "" {
			fields[col] = nil
			return
		}
		fields[col] = v
	}

	v, ok := u.Name.Get()
	text("name", v, ok)
	v, ok = u.AvatarURL.Get()
	text("avatar_url", v, ok)
	p, ok := u.Phone.Get()
	text("phone", string(p), ok)
	g, ok := u.Gender.Get()
	text("gender", string(g), ok)
	if age, ok := u.Age.Get(); ok {
		fields["age"] = age
	}
	v, ok = u.Region.Get()
	text("region", v, ok)
	e, ok := u.Education.Get()
	text("education", string(e), ok)
	if ft, ok := u.IsFullTime.Get(); ok {
		fields["is_full_time"] = ft
	}
	v, ok = u.SchoolName.Get()
	text("school_name", v, ok)
	v, ok = u.Major.Get()
	text("major", v, ok)
	v, ok = u.GraduationDate.Get()
	text("graduation_date", v, ok)
	f, ok := u.ResumeFileID.Get()
	text("resume_file_id", string(f), ok)

	return fields
}

// IsEmpty reports whether no field is present
func (u ProfileUpdate) IsEmpty() bool {
	return len(u.Fields()) == 0
}

// TouchesSnapshot reports whether the update changes a field copied into application views
func (u ProfileUpdate) TouchesSnapshot() bool {
	fields := u.Fields()
	delete(fields, "avatar_url")
	return len(fields) > 0
}

// Validate checks the present fields
func (u ProfileUpdate) Validate() error {
	if p, ok := u.Phone.Get(); ok && p != "" && !p.IsValid() {
		return ErrInvalidPhone().WithDetail("phone", p)
	}
	if g, ok := u.Gender.Get(); ok && !g.IsValid() {
		return ErrValidationFailed().WithDetail("gender", g)
	}
	if e, ok := u.Education.Get(); ok && !e.IsValid() {
		return ErrValidationFailed().WithDetail("education", e)
	}
	if a, ok := u.Age.Get(); ok && (a < 0 || a > 120) {
		return ErrValidationFailed().WithDetail("age", a)
	}
	if n, ok := u.Name.Get(); ok && n == "" {
		return ErrValidationFailed().WithDetail("name", "cannot be cleared")
	}
	return nil
}
