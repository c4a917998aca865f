package models

import "time"

// Role identifies which record a sign-up creates.
type Role string

const (
	RoleTutee Role = "tutee"
	RoleTutor Role = "tutor"
)

// User represents a tutee in the system
type User struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	PhotoURL  *string    `json:"photo_url,omitempty"`
	PushToken *string    `json:"push_token,omitempty"`
	MyTutors  []TutorRef `json:"my_tutors"`
	CreatedAt time.Time  `json:"created_at"`
}

// TutorRef is a user's pointer to one of their tutors
type TutorRef struct {
	TutorID string `json:"tutor_id"`
	Name    string `json:"name"`
	Subject string `json:"subject"`
}

// Tutor represents a tutor profile
type Tutor struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Email       string         `json:"email"`
	Phone       *string        `json:"phone,omitempty"`
	Website     *string        `json:"website,omitempty"`
	PhotoURL    *string        `json:"photo_url,omitempty"`
	PushToken   *string        `json:"push_token,omitempty"`
	IsOnboarded bool           `json:"is_onboarded"`
	Tutees      []TuteeSummary `json:"tutees"`
	CreatedAt   time.Time      `json:"created_at"`
}

// TuteeSummary is the tutor-side view of a linked tutee
type TuteeSummary struct {
	UserID   string  `json:"user_id"`
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	PhotoURL *string `json:"photo_url,omitempty"`
	Subject  string  `json:"subject"`
}

// BookingInterval is one scheduled session within a pair's booking record
type BookingInterval struct {
	StartsAt time.Time `json:"starts_at"`
	EndsAt   time.Time `json:"ends_at"`
}

// Booking holds every interval booked between one tutor/tutee pair.
// The pair key addresses exactly one record; Version guards concurrent
// appends to the interval collection.
type Booking struct {
	TutorID   string            `json:"tutor_id"`
	TuteeID   string            `json:"tutee_id"`
	Intervals []BookingInterval `json:"intervals"`
	Version   int64             `json:"version"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// SharedFile is the metadata record written after a file-share upload.
// Immutable once created.
type SharedFile struct {
	ID         string    `json:"id"`
	FileURL    string    `json:"file_url"`
	UploadedBy string    `json:"uploaded_by"`
	SharedWith string    `json:"shared_with"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// Activity is a discovery-feed content record, read-only here
type Activity struct {
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	Attrs     map[string]string `json:"attrs"`
	CreatedAt time.Time         `json:"created_at"`
}
