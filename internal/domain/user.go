package domain

import (
	"net/mail"
	"strings"
	"time"
)

type User struct {
	ID           uint      `gorm:"primaryKey"`
	Username     string    `gorm:"size:150;uniqueIndex;not null"`
	Email        string    `gorm:"size:254;uniqueIndex;not null"`
	PasswordHash string    `gorm:"size:255"`
	FirstName    string    `gorm:"size:150"`
	LastName     string    `gorm:"size:150"`
	IsStaff      bool      `gorm:"not null;default:false"`
	DateJoined   time.Time `gorm:"autoCreateTime"`
}

// Actor is the authenticated identity an operation runs on behalf of.
type Actor struct {
	UserID   uint
	Username string
	IsStaff  bool
}

func (a Actor) Authenticated() bool { return a.UserID != 0 }

func (u *User) Actor() Actor {
	return Actor{UserID: u.ID, Username: u.Username, IsStaff: u.IsStaff}
}

// DisplayName is the full name when one is set, the username otherwise.
func (u *User) DisplayName() string {
	if n := strings.TrimSpace(u.FirstName + " " + u.LastName); n != "" {
		return n
	}
	return u.Username
}

const MinPasswordLength = 8

type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

func (in *RegisterInput) Validate() error {
	verr := &ValidationError{}
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)

	if n := len([]rune(in.Username)); n < 3 || n > 150 {
		verr.Add("username", "username must be between 3 and 150 characters")
	} else if strings.ContainsAny(in.Username, " \t\r\n") {
		verr.Add("username", "username may not contain spaces")
	}
	if in.Email == "" {
		verr.Add("email", "this field is required")
	} else if a, err := mail.ParseAddress(in.Email); err != nil || a.Address != in.Email {
		verr.Add("email", "enter a valid email address")
	}
	if len(in.Password) < MinPasswordLength {
		verr.Add("password", "password must be at least 8 characters")
	}
	return verr.Err()
}

// Session is the bearer token handed out after a successful sign-in.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      *User
}
