package model

import (
	"strings"
	"time"
)

type User struct {
	ID            string     `db:"id" json:"id"`
	GoogleSub     *string    `db:"google_sub" json:"-"`
	Email         string     `db:"email" json:"email"`
	EmailVerified bool       `db:"email_verified" json:"email_verified"`
	Name          *string    `db:"name" json:"name"`
	PictureURL    *string    `db:"picture_url" json:"picture_url"`
	Gender        *string    `db:"gender" json:"gender"`
	DOB           *time.Time `db:"dob" json:"dob"`
	HeightCm      *float64   `db:"height_cm" json:"height_cm"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}

// DisplayName returns the profile name, or an empty string when none is set.
func (u *User) DisplayName() string {
	if u == nil || u.Name == nil {
		return ""
	}
	return strings.TrimSpace(*u.Name)
}

// ProfileComplete reports whether the onboarding profile fields are filled in.
func (u *User) ProfileComplete() bool {
	return u.Gender != nil && *u.Gender != "" && u.DOB != nil && u.HeightCm != nil && *u.HeightCm > 0
}

// DefaultName derives a display name from the local part of an email address.
func DefaultName(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return local
}
