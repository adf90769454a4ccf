package user

import "errors"

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrUsernameTaken = errors.New("username is already taken")
)

type User struct {
	Id          int
	Uid         string
	Username    string
	DisplayName string
}
