package users

import "time"

// UserRepo stores storefront users. Lookups return errors.ErrUserNotFound for unknown users.
type UserRepo interface {
	Upsert(user *User) error
	GetByEmail(email string) (*User, error)
	GetByID(ID string) (*User, error)
	List() ([]*User, error)
	SetLastLogin(ID string, at time.Time) error
}
