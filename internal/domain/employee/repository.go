package employee

import "context"

type EmployeeRepository interface {
	// GetByID returns ErrEmployeeNotFound for unknown or deleted employees
	GetByID(ctx context.Context, id string) (Employee, error)
	Exists(ctx context.Context, id string) (bool, error)
}
