package app

import (
	"fmt"
	"strings"

	"defnixsite/pkg/auth"
	"defnixsite/pkg/domain"
)

// Login validates admin credentials and returns a signed access token.
// Unknown email and wrong password produce the same error.
func (a *App) Login(email, password string) (string, domain.AdminUser, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	user, ok, err := a.store.GetAdminUserByEmail(email)
	if err != nil {
		return "", domain.AdminUser{}, fmt.Errorf("fetch admin user: %w", err)
	}
	if !ok {
		return "", domain.AdminUser{}, ErrInvalidCredentials
	}
	if !auth.CheckPassword(password, user.PasswordHash) {
		return "", domain.AdminUser{}, ErrInvalidCredentials
	}
	token, err := a.tokens.Issue(user.ID, user.Email, user.Role)
	if err != nil {
		return "", domain.AdminUser{}, fmt.Errorf("sign token: %w", err)
	}
	return token, user, nil
}

// UserFromToken verifies a bearer token and loads the referenced admin
// user. It fails closed when the user no longer exists.
func (a *App) UserFromToken(token string) (domain.AdminUser, bool) {
	claims, err := a.tokens.Verify(token)
	if err != nil {
		return domain.AdminUser{}, false
	}
	user, ok, err := a.store.GetAdminUserByID(claims.Subject)
	if err != nil || !ok {
		return domain.AdminUser{}, false
	}
	return user, true
}
