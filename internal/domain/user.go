package domain

import "time"

// User is the credential record a session is issued against.
//
// RenewalToken holds the single renewal token currently honored for the user.
// A new login overwrites it; logout and cleanup clear it.
type User struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	Email        string    `json:"email" gorm:"size:255;uniqueIndex;not null"`
	Name         string    `json:"name" gorm:"size:255"`
	Secret       string    `json:"-" gorm:"column:secret;not null"`
	RenewalToken *string   `json:"-" gorm:"column:renewal_token;index"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (User) TableName() string { return "users" }

// UserSnapshot is the part of a user embedded in access tokens.
type UserSnapshot struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) Snapshot() UserSnapshot {
	return UserSnapshot{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: u.CreatedAt,
	}
}

func (u *User) HasRenewalToken() bool {
	return u.RenewalToken != nil && *u.RenewalToken != ""
}
