package model

import (
	"cmp"
	"slices"
	"strings"
	"time"
)

// Availability labels whether a course still has places.
type Availability string

const (
	Available Availability = "Available"
	Full      Availability = "Full"
)

// MemberStatus labels whether a member holds any registration.
type MemberStatus string

const (
	Active   MemberStatus = "Active"
	Inactive MemberStatus = "Inactive"
)

// CourseListing is a course joined with its coach and live registration count.
type CourseListing struct {
	CourseID             int64        `json:"course_id"`
	Name                 string       `json:"name"`
	ScheduledAt          time.Time    `json:"scheduled_at"`
	MaxCapacity          int          `json:"max_capacity"`
	CoachID              *int64       `json:"coach_id"`
	CoachName            string       `json:"coach_name,omitempty"`
	CoachSpecialty       Specialty    `json:"coach_specialty,omitempty"`
	CurrentRegistrations int          `json:"current_registrations"`
	AvailableSpots       int          `json:"available_spots"`
	Availability         Availability `json:"availability"`
}

// NewCourseListing derives the computed fields from the registration count.
func NewCourseListing(c Course, coachName string, specialty Specialty, registrations int) CourseListing {
	return CourseListing{
		CourseID:             c.ID,
		Name:                 c.Name,
		ScheduledAt:          c.ScheduledAt,
		MaxCapacity:          c.MaxCapacity,
		CoachID:              c.CoachID,
		CoachName:            coachName,
		CoachSpecialty:       specialty,
		CurrentRegistrations: registrations,
		AvailableSpots:       Remaining(c.MaxCapacity, registrations),
		Availability:         AvailabilityOf(c.MaxCapacity, registrations),
	}
}

// Remaining returns the number of free places, never below zero.
func Remaining(capacity, registrations int) int {
	if registrations >= capacity {
		return 0
	}
	return capacity - registrations
}

// AvailabilityOf classifies a course by its registration count.
func AvailabilityOf(capacity, registrations int) Availability {
	if registrations < capacity {
		return Available
	}
	return Full
}

// MemberListing is a member with their total registration count.
type MemberListing struct {
	MemberID           int64        `json:"member_id"`
	Name               string       `json:"name"`
	Email              string       `json:"email"`
	AccessCardID       *int64       `json:"access_card_id"`
	CardNumber         *int64       `json:"card_number,omitempty"`
	TotalRegistrations int          `json:"total_registrations"`
	Status             MemberStatus `json:"status"`
}

// StatusOf classifies a member by their registration count.
func StatusOf(registrations int) MemberStatus {
	if registrations > 0 {
		return Active
	}
	return Inactive
}

// CoachListing is a coach with the number of courses they run.
type CoachListing struct {
	CoachID     int64     `json:"coach_id"`
	Name        string    `json:"name"`
	Specialty   Specialty `json:"specialty"`
	CourseCount int       `json:"course_count"`
}

// RegistrationDetail is a registration joined with member and course details.
type RegistrationDetail struct {
	RegistrationID   int64     `json:"registration_id"`
	RegistrationDate time.Time `json:"registration_date"`
	MemberID         int64     `json:"member_id"`
	MemberName       string    `json:"member_name"`
	Email            string    `json:"email"`
	CourseID         int64     `json:"course_id"`
	CourseName       string    `json:"course_name"`
	ScheduledAt      time.Time `json:"scheduled_at"`
}

// Statistics summarises the registration ledger.
type Statistics struct {
	TotalMembers       int               `json:"total_members"`
	ActiveMembers      int               `json:"active_members"`
	TotalCoaches       int               `json:"total_coaches"`
	TotalCourses       int               `json:"total_courses"`
	FullCourses        int               `json:"full_courses"`
	TotalRegistrations int               `json:"total_registrations"`
	CoachesBySpecialty map[Specialty]int `json:"coaches_by_specialty"`
}

// SortKey orders course listings.
type SortKey string

const (
	SortByDate          SortKey = "date"
	SortByName          SortKey = "name"
	SortByRegistrations SortKey = "registrations"
)

// CourseFilter narrows a course listing. Zero values mean "all".
type CourseFilter struct {
	Specialty    Specialty
	Availability Availability
	SortBy       SortKey
}

// Apply returns the listings matching f, ordered by f.SortBy (date by default).
func (f CourseFilter) Apply(listings []CourseListing) []CourseListing {
	out := make([]CourseListing, 0, len(listings))
	for _, l := range listings {
		if f.Specialty != "" && l.CoachSpecialty != f.Specialty {
			continue
		}
		if f.Availability != "" && l.Availability != f.Availability {
			continue
		}
		out = append(out, l)
	}

	switch f.SortBy {
	case SortByName:
		slices.SortStableFunc(out, func(a, b CourseListing) int {
			return strings.Compare(a.Name, b.Name)
		})
	case SortByRegistrations:
		slices.SortStableFunc(out, func(a, b CourseListing) int {
			return cmp.Compare(b.CurrentRegistrations, a.CurrentRegistrations)
		})
	default:
		slices.SortStableFunc(out, func(a, b CourseListing) int {
			return a.ScheduledAt.Compare(b.ScheduledAt)
		})
	}
	return out
}
