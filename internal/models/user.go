package models

import (
	"net/mail"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Username  string             `bson:"username" json:"username"`
	Email     string             `bson:"email" json:"email"`
	Password  string             `bson:"password" json:"-"`
	FirstName string             `bson:"firstName" json:"firstName"`
	LastName  string             `bson:"lastName,omitempty" json:"lastName,omitempty"`
	Private   bool               `bson:"private" json:"private"`
	Admin     bool               `bson:"admin" json:"admin"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// UserFields is the body of register and update requests. A nil pointer
// means the field was not sent.
type UserFields struct {
	Username  *string `json:"username"`
	Email     *string `json:"email"`
	Password  *string `json:"password"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Private   *bool   `json:"private"`
	Admin     *bool   `json:"admin"`
}

// ValidateRegister checks the fields required to create a user.
func (f UserFields) ValidateRegister() error {
	var errs ValidationErrors
	if isBlank(f.Username) {
		errs.Add("username", "Please include a username")
	}
	if f.Email == nil || !validEmail(*f.Email) {
		errs.Add("email", "Please include a valid email")
	}
	if isBlank(f.Password) {
		errs.Add("password", "Password is required")
	}
	return errs.Err()
}

// ValidatePatch checks the fields of an update that are present.
func (f UserFields) ValidatePatch() error {
	var errs ValidationErrors
	if !isBlank(f.Email) && !validEmail(*f.Email) {
		errs.Add("email", "Please include a valid email")
	}
	return errs.Err()
}

// NewUser builds a user from validated register fields. passwordHash replaces
// the plaintext password.
func (f UserFields) NewUser(passwordHash string, now time.Time) *User {
	u := &User{
		Username:  strings.TrimSpace(*f.Username),
		Email:     NormalizeEmail(*f.Email),
		Password:  passwordHash,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if f.FirstName != nil {
		u.FirstName = *f.FirstName
	}
	if f.LastName != nil {
		u.LastName = *f.LastName
	}
	u.Private = f.Private != nil && *f.Private
	u.Admin = f.Admin != nil && *f.Admin
	return u
}

// Apply copies every present, non-empty field onto u. Booleans only apply
// when true. The caller must have replaced Password with its hash.
func (f UserFields) Apply(u *User) {
	if !isBlank(f.Username) {
		u.Username = strings.TrimSpace(*f.Username)
	}
	if !isBlank(f.Email) {
		u.Email = NormalizeEmail(*f.Email)
	}
	if !isBlank(f.Password) {
		u.Password = *f.Password
	}
	if !isBlank(f.FirstName) {
		u.FirstName = *f.FirstName
	}
	if !isBlank(f.LastName) {
		u.LastName = *f.LastName
	}
	if f.Private != nil && *f.Private {
		u.Private = true
	}
	if f.Admin != nil && *f.Admin {
		u.Admin = true
	}
}

// Credentials is the login request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c Credentials) Validate() error {
	var errs ValidationErrors
	if !validEmail(c.Email) {
		errs.Add("email", "Please include a email and make sure it is valid.")
	}
	if c.Password == "" {
		errs.Add("password", "Please include a password")
	}
	return errs.Err()
}

// validEmail accepts a bare address only. Display names and angle brackets
// are rejected so the stored email is the mailbox itself.
func validEmail(s string) bool {
	s = strings.TrimSpace(s)
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}

// NormalizeEmail lowercases and trims an address so lookups match stored emails.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func isBlank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}
