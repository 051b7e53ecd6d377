package user

import "errors"

var (
	// ErrEmployeeAccessDenied is returned when a non-manager targets another employee
	ErrEmployeeAccessDenied = errors.New("manager access required for another employee's attendance")
)
