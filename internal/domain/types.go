package domain

import "time"

type Role string

const (
	RoleAttendee  Role = "attendee"
	RoleOrganizer Role = "organizer"
	RoleAdmin     Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAttendee, RoleOrganizer, RoleAdmin:
		return true
	}
	return false
}

type Identity struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     Role   `json:"role"`
	IsActive bool   `json:"is_active"`
}

// IsZero reports whether no identity is set (unauthenticated).
func (i Identity) IsZero() bool { return i.ID == 0 }

type RSVPStatus string

const (
	RSVPGoing    RSVPStatus = "going"
	RSVPMaybe    RSVPStatus = "maybe"
	RSVPNotGoing RSVPStatus = "not_going"
)

func (s RSVPStatus) Valid() bool {
	switch s {
	case RSVPGoing, RSVPMaybe, RSVPNotGoing:
		return true
	}
	return false
}

type RSVPRecord struct {
	ID        int64      `json:"id"`
	UserID    int64      `json:"user_id"`
	EventID   int64      `json:"event_id"`
	Status    RSVPStatus `json:"status"`
	Notes     string     `json:"notes,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type EventSummary struct {
	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Category       string    `json:"category"`
	Date           time.Time `json:"date"`
	Time           string    `json:"time,omitempty"`
	Location       string    `json:"location"`
	MaxAttendees   int       `json:"max_attendees"`
	AttendeesCount int       `json:"attendees_count"`
	Price          float64   `json:"price"`
	OrganizerID    int64     `json:"organizer_id"`
	ImageURL       string    `json:"image,omitempty"`
}

type EventMutation struct {
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Category     string    `json:"category"`
	Date         time.Time `json:"date"`
	Time         string    `json:"time,omitempty"`
	Location     string    `json:"location"`
	MaxAttendees int       `json:"max_attendees"`
	Price        float64   `json:"price"`
}

// EventFilter carries the optional query parameters of the event listing.
// Zero values mean "no filter".
type EventFilter struct {
	Search     string     `json:"search,omitempty"`
	Category   string     `json:"category,omitempty"`
	Date       string     `json:"date,omitempty"`
	Location   string     `json:"location,omitempty"`
	CreatedBy  int64      `json:"created_by,omitempty"`
	RSVPStatus RSVPStatus `json:"rsvp_status,omitempty"`
}

type Registration struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}

// CatalogOption is one predefined avatar or banner choice. Options are
// fixed at build time and scoped by role category.
type CatalogOption struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"image"`
	Category Role   `json:"category"`
}
