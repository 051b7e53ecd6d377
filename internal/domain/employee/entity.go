package employee

import (
	"time"
)

// Employee is the slice of the employee record attendance depends on.
type Employee struct {
	ID               string
	EmployeeCode     string
	FullName         string
	BranchID         *string
	EmploymentStatus EmploymentStatus
	CreatedAt        time.Time
	UpdatedAt        time.Time
	DeletedAt        *time.Time
}

type EmploymentStatus string

const (
	EmploymentStatusActive   EmploymentStatus = "active"
	EmploymentStatusInactive EmploymentStatus = "inactive"
)

// LocationID is the key holidays are scoped by.
func (e Employee) LocationID() *string {
	return e.BranchID
}
