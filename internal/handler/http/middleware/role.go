package middleware

import (
	"context"
	"net/http"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
)

// RoleFromContext returns the role claim, or "" when the token carries none.
func RoleFromContext(ctx context.Context) user.Role {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return ""
	}
	role, _ := claims[jwt.ClaimRole].(string)
	return user.Role(role)
}

// CanAccessEmployee reports whether the token may act on employeeID: its own
// employee, or any employee for managers and owners.
func CanAccessEmployee(ctx context.Context, employeeID string) bool {
	if RoleFromContext(ctx).IsManager() {
		return true
	}
	own := EmployeeIDFromContext(ctx)
	return own != "" && own == employeeID
}

// RequireEmployeeAccess guards routes whose URL parameter names an employee.
func RequireEmployeeAccess(param string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !CanAccessEmployee(r.Context(), chi.URLParam(r, param)) {
				response.HandleError(w, user.ErrEmployeeAccessDenied)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
