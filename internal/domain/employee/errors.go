package employee

import "errors"

var (
	ErrEmployeeNotFound     = errors.New("employee not found")
	ErrManagerNotFound      = errors.New("employee has no manager with a user account")
	ErrCompensationNotFound = errors.New("compensation record not found")
	ErrInvalidEmployeeRef   = errors.New("employee reference must be an employee id or employee code")
)
