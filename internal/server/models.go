package server

import "time"

// User represents a registered user. Password holds only the bcrypt hash
// and is never serialized.
type User struct {
	ID                 uint       `json:"id" gorm:"primaryKey"`
	Name               string     `json:"name" gorm:"not null"`
	Email              string     `json:"email" gorm:"uniqueIndex;not null"`
	Password           string     `json:"-" gorm:"not null"`
	Bio                string     `json:"bio"`
	AvatarURL          string     `json:"avatarUrl"`
	IsProfileCompleted bool       `json:"isProfileCompleted"`
	Interests          []Interest `json:"interests" gorm:"foreignKey:UserID"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// Interest is a free-form tag on a user profile. Clients share a fixed
// catalog, so the same interest id appears on many users; the key is
// per-user.
type Interest struct {
	UserID uint   `json:"-" gorm:"primaryKey;autoIncrement:false"`
	ID     string `json:"id" gorm:"primaryKey"`
	Name   string `json:"name" gorm:"not null"`
}

// Event is the core event model. OrganizerID is set at creation from the
// authenticated caller and never reassigned.
type Event struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Title       string    `json:"title" gorm:"not null"`
	Description string    `json:"description"`
	Date        string    `json:"date" gorm:"index;not null"` // calendar day, YYYY-MM-DD
	Time        string    `json:"time"`
	Location    string    `json:"location"`
	MeetingLink string    `json:"meetingLink"`
	IsOnline    bool      `json:"isOnline"`
	Category    string    `json:"category" gorm:"index;not null"`
	Price       string    `json:"price"`
	Capacity    *int      `json:"capacity,omitempty"`
	OrganizerID uint      `json:"organizer_id" gorm:"index;not null"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Organizer User `gorm:"foreignKey:OrganizerID" json:"-"`
}

// Category is read-mostly reference data.
type Category struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"uniqueIndex;not null"`
	Icon      string    `json:"icon"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
