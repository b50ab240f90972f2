package service

import "errors"

var (
	ErrInternal           = errors.New("internal server error")
	ErrPostNotFound       = errors.New("post not found")
	ErrNotPostAuthor      = errors.New("only the author can modify this post")
	ErrFieldsEmpty        = errors.New("email and password cannot be empty")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters long")
	ErrInvalidCredentials = errors.New("invalid email or password")
)
