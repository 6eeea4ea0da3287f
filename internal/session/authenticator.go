package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"admin-console/internal/clients"
	"admin-console/internal/models"

	"golang.org/x/crypto/bcrypt"
)

// ErrBadCredentials is returned for an unknown email or wrong password.
var ErrBadCredentials = errors.New("invalid email or password")

// Identity is an authenticated operator and the backend token, if any.
type Identity struct {
	User         models.User
	BackendToken string
}

// Authenticator checks operator credentials.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (*Identity, error)
}

// LoginAPI is the backend login surface.
type LoginAPI interface {
	Login(ctx context.Context, email, password string) (*clients.LoginResult, error)
}

// BackendAuthenticator delegates credential checks to the backend.
type BackendAuthenticator struct {
	api LoginAPI
}

func NewBackendAuthenticator(api LoginAPI) *BackendAuthenticator {
	return &BackendAuthenticator{api: api}
}

func (a *BackendAuthenticator) Authenticate(ctx context.Context, email, password string) (*Identity, error) {
	result, err := a.api.Login(ctx, strings.TrimSpace(email), password)
	if err != nil {
		if code := clients.StatusCode(err); code == 400 || code == 401 || code == 403 {
			return nil, fmt.Errorf("%w: %v", ErrBadCredentials, err)
		}
		return nil, err
	}
	user := result.User
	if user.Email == "" {
		user.Email = strings.TrimSpace(email)
	}
	if user.ID == "" {
		user.ID = user.Email
	}
	return &Identity{User: user, BackendToken: result.Token}, nil
}

type localAccount struct {
	user models.User
	hash []byte
}

// LocalAuthenticator checks bcrypt hashes configured on the console itself.
type LocalAuthenticator struct {
	accounts map[string]localAccount
}

// ParseAccounts reads "email:role:bcrypt-hash" entries separated by commas.
// The role may be omitted ("email::hash") and defaults to admin.
func ParseAccounts(list string) (*LocalAuthenticator, error) {
	a := &LocalAuthenticator{accounts: make(map[string]localAccount)}
	for _, entry := range strings.Split(list, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, ":", 3)
		if len(parts) != 3 || parts[0] == "" || parts[2] == "" {
			return nil, fmt.Errorf("invalid account entry %q, want email:role:hash", entry)
		}
		if _, err := bcrypt.Cost([]byte(parts[2])); err != nil {
			return nil, fmt.Errorf("account %s: %w", parts[0], err)
		}
		role := parts[1]
		if role == "" {
			role = models.RoleAdmin
		}
		email := strings.ToLower(parts[0])
		a.accounts[email] = localAccount{
			user: models.User{ID: email, Email: email, Role: role},
			hash: []byte(parts[2]),
		}
	}
	if len(a.accounts) == 0 {
		return nil, fmt.Errorf("no accounts configured")
	}
	return a, nil
}

func (a *LocalAuthenticator) Authenticate(_ context.Context, email, password string) (*Identity, error) {
	account, ok := a.accounts[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return nil, ErrBadCredentials
	}
	if err := bcrypt.CompareHashAndPassword(account.hash, []byte(password)); err != nil {
		return nil, ErrBadCredentials
	}
	return &Identity{User: account.user}, nil
}
