package user

import "time"

type User struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password  string `json:"-"`
	IsAdmin   bool   `json:"isAdmin"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type RegisterParams struct {
	Name     string
	Email    string
	Password string
}
