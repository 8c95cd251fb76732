package user

import "time"

type User struct {
	ID       string
	Email    string
	Password string
}

type Profile struct {
	UserID    string
	FullName  *string
	Role      string
	CreatedAt time.Time
}
