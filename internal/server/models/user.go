// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is a registered person. Email is unique and stored trimmed and
// lower-cased; PasswordHash is a bcrypt digest and is never serialised.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	IsAdmin      bool
	Profile

	// ResumeKey is the object-storage key of the uploaded resume.
	ResumeKey *string
	// ResumeFilename is the file name the user uploaded it under.
	ResumeFilename *string

	CreatedAt time.Time
}

// HasResume reports whether a resume object is attached to the user.
func (u *User) HasResume() bool {
	return u.ResumeKey != nil && *u.ResumeKey != ""
}

// Profile holds the self-service fields of a user. All of them are optional.
type Profile struct {
	Name                       *string
	Surname                    *string
	Gender                     *string
	Age                        *int
	Phone                      *string
	Citizenship                *string
	EmploymentStatus           *string
	PreferredJob               *string
	SecondPreferredJob         *string
	PreferredJobLocation       *string
	SecondPreferredJobLocation *string
	About                      *string
}

// AdminUserUpdate is a partial update applied by an administrator.
// Nil fields are left unchanged.
type AdminUserUpdate struct {
	Name             *string
	Surname          *string
	Phone            *string
	Citizenship      *string
	EmploymentStatus *string
	IsAdmin          *bool
}

// Apply copies the set fields of upd onto u.
func (upd AdminUserUpdate) Apply(u *User) {
	if upd.Name != nil {
		u.Name = upd.Name
	}
	if upd.Surname != nil {
		u.Surname = upd.Surname
	}
	if upd.Phone != nil {
		u.Phone = upd.Phone
	}
	if upd.Citizenship != nil {
		u.Citizenship = upd.Citizenship
	}
	if upd.EmploymentStatus != nil {
		u.EmploymentStatus = upd.EmploymentStatus
	}
	if upd.IsAdmin != nil {
		u.IsAdmin = *upd.IsAdmin
	}
}

// Experience is one free-text work-experience entry of a user.
type Experience struct {
	ID     int64  `json:"id"`
	UserID int64  `json:"userId"`
	Text   string `json:"userExperience"`
}
