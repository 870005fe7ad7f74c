package middleware

import (
	"net/http"
	"strings"

	"orgconfig/pkg/auth"
	apperrors "orgconfig/pkg/errors"

	"go.uber.org/zap"
)

// DevUserHeader names the caller in non-production environments.
const DevUserHeader = "X-User-Id"

const devUserID = "local-admin"

// Authenticator resolves the caller of every API request.
type Authenticator struct {
	validator  *auth.JWTValidator
	production bool
	errors     *apperrors.ErrorHandler
	logger     *zap.Logger
}

// NewAuthenticator creates the authentication middleware factory. In
// production validator must be non-nil; elsewhere every request is accepted as
// an administrator.
func NewAuthenticator(validator *auth.JWTValidator, production bool, errorHandler *apperrors.ErrorHandler, logger *zap.Logger) *Authenticator {
	return &Authenticator{
		validator:  validator,
		production: production,
		errors:     errorHandler,
		logger:     logger,
	}
}

// Authenticate puts the caller's principal into the request context or
// answers 401.
func (a *Authenticator) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !a.production {
			id := strings.TrimSpace(r.Header.Get(DevUserHeader))
			if id == "" {
				id = devUserID
			}
			principal := auth.Principal{ID: id, Roles: []string{auth.RoleAdmin}}
			next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), principal)))
			return
		}

		if a.validator == nil {
			a.errors.Handle(w, r, apperrors.NewInternalError("authentication is not configured"))
			return
		}

		header := r.Header.Get("Authorization")
		if header == "" {
			a.errors.Handle(w, r, apperrors.NewUnauthorizedError("Missing authorization header"))
			return
		}
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") {
			a.errors.Handle(w, r, apperrors.NewUnauthorizedError("Invalid authorization header format"))
			return
		}

		claims, err := a.validator.ValidateToken(token)
		if err != nil {
			a.logger.Debug("Token rejected", zap.Error(err))
			a.errors.Handle(w, r, apperrors.NewUnauthorizedError("Invalid or expired token").WithCause(err))
			return
		}

		principal := auth.FromClaims(claims)
		next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), principal)))
	})
}

// RequireRole answers 403 unless the principal holds one of roles.
func (a *Authenticator) RequireRole(roles ...string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := auth.PrincipalFrom(r.Context())
			if !ok {
				a.errors.Handle(w, r, apperrors.NewUnauthorizedError("Authentication required"))
				return
			}
			if !principal.HasAnyRole(roles...) {
				a.logger.Info("Access denied", principalField(r), zap.Strings("required_roles", roles))
				a.errors.Handle(w, r, apperrors.NewForbiddenError("Insufficient permissions", roles))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
