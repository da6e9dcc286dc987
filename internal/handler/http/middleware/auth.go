package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"

	"github.com/worklane/worklane-backend-go/internal/domain/shift"
	"github.com/worklane/worklane-backend-go/internal/handler/http/response"
)

func AuthRequired(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, _, err := jwtauth.FromContext(r.Context())

			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}

			if token == nil {
				response.Unauthorized(w, "Missing or invalid token")
				return
			}

			claims, err := token.AsMap(r.Context())
			if err != nil {
				response.Unauthorized(w, "Missing or invalid token")
				return
			}
			tokenType, ok := claims["type"].(string)
			if tokenType != "access" || !ok {
				response.Unauthorized(w, "Missing or invalid token")
				return
			}

			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(hfn)
	}
}

// ApproverOnly gates routes on the approval-override capability rather
// than a role name.
func ApproverOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.Unauthorized(w, "Missing or invalid token")
			return
		}

		canOverride, ok := claims["can_override_approval"].(bool)
		if !canOverride || !ok {
			response.HandleError(w, shift.ErrApprovalRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// PrincipalFromContext rebuilds the acting principal from verified JWT
// claims. The zero Principal (no employee, no capabilities) is returned
// when the claims are unusable; callers behind AuthRequired never see that
// case.
func PrincipalFromContext(r *http.Request) shift.Principal {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return shift.Principal{}
	}

	p := shift.Principal{}
	if id, ok := claims["employee_id"].(string); ok {
		p.EmployeeID = id
	}
	if canOverride, ok := claims["can_override_approval"].(bool); ok {
		p.CanOverrideApproval = canOverride
	}
	if scope, ok := claims["employee_scope"].([]interface{}); ok {
		for _, item := range scope {
			if id, ok := item.(string); ok {
				p.EmployeeScope = append(p.EmployeeScope, id)
			}
		}
	}
	return p
}
