package auth

import "errors"

var (
	UserNotFoundError = errors.New("user not found")
	EmailExistsError  = errors.New("a user with that email already exists")
)
