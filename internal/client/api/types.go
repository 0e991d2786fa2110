package api

// User is the client-side view of a server user record. The server copy is
// authoritative; this is what the session snapshot caches.
type User struct {
	ID                 uint       `json:"id"`
	Name               string     `json:"name"`
	Email              string     `json:"email"`
	Bio                string     `json:"bio"`
	AvatarURL          string     `json:"avatarUrl"`
	IsProfileCompleted bool       `json:"isProfileCompleted"`
	Interests          []Interest `json:"interests"`
}

type Interest struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

type Organizer struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

type Event struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        string    `json:"date"`
	Time        string    `json:"time"`
	Location    string    `json:"location"`
	MeetingLink string    `json:"meetingLink"`
	IsOnline    bool      `json:"isOnline"`
	Category    string    `json:"category"`
	Price       string    `json:"price"`
	Capacity    *int      `json:"capacity,omitempty"`
	Organizer   Organizer `json:"organizer"`
}

type Category struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// AuthResponse is returned by register, login and profile update.
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type RegisterParams struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginParams struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateProfileParams carries only the fields to merge; nil fields are
// omitted from the request body entirely.
type UpdateProfileParams struct {
	Name      *string `json:"name,omitempty"`
	Email     *string `json:"email,omitempty"`
	Bio       *string `json:"bio,omitempty"`
	AvatarURL *string `json:"avatarUrl,omitempty"`
	Password  *string `json:"password,omitempty"`
}

type CompleteProfileParams struct {
	Bio       string     `json:"bio"`
	Interests []Interest `json:"interests"`
}

type CreateEventParams struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Location    string `json:"location,omitempty"`
	MeetingLink string `json:"meetingLink,omitempty"`
	IsOnline    bool   `json:"isOnline"`
	Category    string `json:"category"`
	Price       string `json:"price"`
	Capacity    *int   `json:"capacity,omitempty"`
}

// EventFilter narrows ListEvents; zero values impose no constraint.
type EventFilter struct {
	Category string
	Date     string
}

type CreateCategoryParams struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
}
