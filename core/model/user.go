package model

// User is a club member. Admins may bypass the cancellation notice window.
type User struct {
	ID    int64
	Name  string
	Email string
	Admin bool
}
