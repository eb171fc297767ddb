package model

import "time"

const (
	ThemeDark   = "dark"
	ThemeLight  = "light"
	ThemeSystem = "system"
)

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Profile      Profile   `json:"profile"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type Profile struct {
	Name       *string    `json:"name"`
	Bio        *string    `json:"bio"`
	DOB        *time.Time `json:"dob"`
	Settings   Settings   `json:"settings"`
	DiaryStats DiaryStats `json:"diaryStats"`
}

type Settings struct {
	Theme         string `json:"theme"`
	Notifications bool   `json:"notifications"`
	Timezone      string `json:"timezone"`
}

type DiaryStats struct {
	TotalEntries int `json:"totalEntries"`
	// LastEntryDate is the last local calendar date (YYYY-MM-DD) the
	// end-of-day migrator processed for this user. Only the migrator
	// writes it.
	LastEntryDate *string `json:"lastEntryDate"`
}

type UpdateProfileRequest struct {
	Name          *string `json:"name"`
	Bio           *string `json:"bio"`
	DOB           *string `json:"dob"`
	Theme         *string `json:"theme"`
	Notifications *bool   `json:"notifications"`
	Timezone      *string `json:"timezone"`
}

type UserResponse struct {
	Success bool  `json:"success"`
	User    *User `json:"user"`
}

func ValidTheme(theme string) bool {
	switch theme {
	case ThemeDark, ThemeLight, ThemeSystem:
		return true
	}
	return false
}
