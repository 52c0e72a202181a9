// Package model defines the core domain types for the gym registration system.
package model

import (
	"encoding/json"
	"strings"
	"time"
)

// Specialty is the training category a coach teaches.
type Specialty string

const (
	SpecialtyYoga        Specialty = "yoga"
	SpecialtyPilates     Specialty = "pilates"
	SpecialtyCrossfit    Specialty = "crossfit"
	SpecialtyCalisthenic Specialty = "calisthenic"
	SpecialtyBody        Specialty = "body training"
	SpecialtyAthletes    Specialty = "athletes trainings"
	SpecialtyZumba       Specialty = "zumba"
)

// Specialties lists every accepted specialty in display order.
var Specialties = []Specialty{
	SpecialtyYoga,
	SpecialtyPilates,
	SpecialtyCrossfit,
	SpecialtyCalisthenic,
	SpecialtyBody,
	SpecialtyAthletes,
	SpecialtyZumba,
}

// ParseSpecialty matches s case-insensitively against the closed specialty set.
func ParseSpecialty(s string) (Specialty, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, sp := range Specialties {
		if string(sp) == s {
			return sp, true
		}
	}
	return "", false
}

// Member is a registered gym member.
type Member struct {
	ID           int64  `json:"member_id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	AccessCardID *int64 `json:"access_card_id"`
}

// AccessCard is the physical card handed to a member.
type AccessCard struct {
	ID           int64 `json:"card_id"`
	UniqueNumber int64 `json:"unique_number"`
}

// Coach runs zero or more courses.
type Coach struct {
	ID        int64     `json:"coach_id"`
	Name      string    `json:"name"`
	Specialty Specialty `json:"specialty"`
}

// Course is a scheduled session with a fixed number of places.
type Course struct {
	ID          int64     `json:"course_id"`
	Name        string    `json:"name"`
	ScheduledAt time.Time `json:"scheduled_at"`
	MaxCapacity int       `json:"max_capacity"`
	CoachID     *int64    `json:"coach_id"`
}

// Registration admits one member to one course. RegistrationDate carries the
// course's scheduled time, not the moment of booking.
type Registration struct {
	ID               int64     `json:"registration_id"`
	RegistrationDate time.Time `json:"registration_date"`
	MemberID         int64     `json:"member_id"`
	CourseID         int64     `json:"course_id"`
}

// NewMemberRequest is the payload for adding a member. A nil CardNumber
// lets the store mint a random card code.
type NewMemberRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	CardNumber *int64 `json:"access_card_number,omitempty"`
}

// NewCoachRequest is the payload for adding a coach.
type NewCoachRequest struct {
	Name      string `json:"name"`
	Specialty string `json:"specialty"`
}

// NewCourseRequest is the payload for adding a course. ScheduledAt is an
// ISO-8601 date-time.
type NewCourseRequest struct {
	Name        string `json:"name"`
	ScheduledAt string `json:"scheduled_at"`
	MaxCapacity int    `json:"max_capacity"`
	CoachID     *int64 `json:"coach_id"`
}

// RegisterRequest is the payload for registering a member to a course.
// Identifiers may be sent as JSON numbers or numeric strings.
type RegisterRequest struct {
	MemberID json.Number `json:"member_id"`
	CourseID json.Number `json:"course_id"`
}

// MemberUpdate carries a partial member update; nil fields are untouched.
type MemberUpdate struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
}

// CoachUpdate carries a partial coach update; nil fields are untouched.
type CoachUpdate struct {
	Name      *string `json:"name,omitempty"`
	Specialty *string `json:"specialty,omitempty"`
}
