// Package auth verifies operator credentials and issues session tokens.
// Passwords are bcrypt digests in the users collection; sessions are HS256
// JWTs carrying the role claim. In demo mode (no reachable store) a fixed
// set of default credentials authenticates, and user administration is
// refused because no mutation is possible.
package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rotisserie/eris"
	"golang.org/x/crypto/bcrypt"

	"github.com/grazioso-salvare/shelter-cli/internal/audit"
	"github.com/grazioso-salvare/shelter-cli/internal/model"
	"github.com/grazioso-salvare/shelter-cli/internal/store"
)

var (
	// ErrInvalidCredentials is returned for a bad username/password pair.
	ErrInvalidCredentials = eris.New("auth: invalid credentials")
	// ErrNotAuthorized is returned when the acting user lacks the admin role.
	ErrNotAuthorized = eris.New("auth: insufficient privileges, admin role required")
	// ErrStoreUnavailable is returned for user administration in demo mode.
	ErrStoreUnavailable = eris.New("auth: user store unavailable in demo mode")
	// ErrUserExists is returned when creating a duplicate username.
	ErrUserExists = eris.New("auth: user already exists")
	// ErrInvalidRole is returned for a role outside admin/viewer/analyst.
	ErrInvalidRole = eris.New("auth: invalid role")
	// ErrSelfDeactivation is returned when a user deactivates their own account.
	ErrSelfDeactivation = eris.New("auth: cannot deactivate your own account")
	// ErrUserNotFound is returned when the target user is absent or inactive.
	ErrUserNotFound = eris.New("auth: user not found or already deactivated")
)

// demoCredentials authenticate when no backing store is reachable.
var demoCredentials = map[string]struct {
	password string
	role     model.Role
}{
	"admin":   {"admin234", model.RoleAdmin},
	"user":    {"user123", model.RoleViewer},
	"analyst": {"analyst456", model.RoleAnalyst},
}

// Claims is the JWT payload for a session.
type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Service performs credential verification and user administration.
type Service struct {
	conn      store.Connector
	log       *audit.Logger
	available bool
	secret    []byte
	ttl       time.Duration
}

// New creates a Service. available mirrors the DataStore's availability;
// conn is only consulted when it is true.
func New(conn store.Connector, log *audit.Logger, available bool, secret string, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Service{conn: conn, log: log, available: available, secret: []byte(secret), ttl: ttl}
}

// SeedDefaults creates the default operator accounts if they do not exist.
// Called once after migration; a no-op in demo mode.
func (s *Service) SeedDefaults(ctx context.Context) error {
	if !s.available {
		return nil
	}
	defaults := []struct {
		username, password, email string
		role                      model.Role
	}{
		{"admin", "admin234", "admin@grazioso.org", model.RoleAdmin},
		{"user", "user123", "user@grazioso.org", model.RoleViewer},
		{"analyst", "analyst456", "analyst@grazioso.org", model.RoleAnalyst},
	}
	for _, d := range defaults {
		existing, err := s.conn.FindUser(ctx, d.username)
		if err != nil {
			return eris.Wrapf(err, "auth: seed lookup %s", d.username)
		}
		if existing != nil {
			continue
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(d.password), bcrypt.DefaultCost)
		if err != nil {
			return eris.Wrap(err, "auth: hash default password")
		}
		if err := s.conn.InsertUser(ctx, model.User{
			Username:     d.username,
			PasswordHash: hash,
			Role:         d.role,
			Email:        d.email,
			Active:       true,
			CreatedAt:    time.Now().UTC(),
			CreatedBy:    "system",
		}); err != nil {
			return eris.Wrapf(err, "auth: seed user %s", d.username)
		}
		s.log.Record(ctx, "system", audit.ActionUserCreated, "default user "+d.username+" created")
	}
	return nil
}

// Authenticate verifies the credential pair and returns a signed session
// token. Failed attempts against a live store are audit-logged.
func (s *Service) Authenticate(ctx context.Context, username, password string) (string, error) {
	if !s.available {
		cred, ok := demoCredentials[username]
		if !ok || cred.password != password {
			return "", ErrInvalidCredentials
		}
		return s.issueToken(username, cred.role)
	}

	u, err := s.conn.FindUser(ctx, username)
	if err != nil {
		return "", eris.Wrap(err, "auth: lookup user")
	}
	if u == nil || !u.Active || bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)) != nil {
		s.log.Record(ctx, username, audit.ActionLoginFailed, "failed login attempt")
		return "", ErrInvalidCredentials
	}

	token, err := s.issueToken(username, u.Role)
	if err != nil {
		return "", err
	}
	s.log.Record(ctx, username, audit.ActionLoginSuccess, "user logged in successfully")
	return token, nil
}

func (s *Service) issueToken(username string, role model.Role) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		Username: username,
		Role:     string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	return token, eris.Wrap(err, "auth: sign token")
}

// VerifyToken validates a session token. Against a live store the user must
// still exist and be active.
func (s *Service) VerifyToken(ctx context.Context, tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, eris.Errorf("auth: unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, eris.Wrap(err, "auth: parse token")
	}

	if s.available {
		u, err := s.conn.FindUser(ctx, claims.Username)
		if err != nil {
			return nil, eris.Wrap(err, "auth: verify user")
		}
		if u == nil || !u.Active {
			return nil, eris.New("auth: user no longer active")
		}
	}
	return claims, nil
}

// requireAdmin checks that actor exists, is active, and holds the admin role.
func (s *Service) requireAdmin(ctx context.Context, actor string) error {
	u, err := s.conn.FindUser(ctx, actor)
	if err != nil {
		return eris.Wrap(err, "auth: lookup actor")
	}
	if u == nil || !u.Active || u.Role != model.RoleAdmin {
		return ErrNotAuthorized
	}
	return nil
}

// CreateUser adds a new account. Admin only.
func (s *Service) CreateUser(ctx context.Context, actor, username, password string, role model.Role, email string) error {
	if !s.available {
		return ErrStoreUnavailable
	}
	if err := s.requireAdmin(ctx, actor); err != nil {
		return err
	}
	if !model.ValidRole(role) {
		return ErrInvalidRole
	}
	existing, err := s.conn.FindUser(ctx, username)
	if err != nil {
		return eris.Wrap(err, "auth: lookup user")
	}
	if existing != nil {
		return ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return eris.Wrap(err, "auth: hash password")
	}
	if err := s.conn.InsertUser(ctx, model.User{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		Email:        email,
		Active:       true,
		CreatedAt:    time.Now().UTC(),
		CreatedBy:    actor,
	}); err != nil {
		return eris.Wrap(err, "auth: insert user")
	}
	s.log.Record(ctx, actor, audit.ActionUserCreated, "created user "+username+" with role "+string(role))
	return nil
}

// ListUsers returns all accounts with password hashes redacted. Admin only.
func (s *Service) ListUsers(ctx context.Context, actor string) ([]model.User, error) {
	if !s.available {
		return nil, ErrStoreUnavailable
	}
	if err := s.requireAdmin(ctx, actor); err != nil {
		return nil, err
	}
	users, err := s.conn.ListUsers(ctx)
	return users, eris.Wrap(err, "auth: list users")
}

// DeactivateUser disables an account. Admin only; self-deactivation refused.
func (s *Service) DeactivateUser(ctx context.Context, actor, username string) error {
	if !s.available {
		return ErrStoreUnavailable
	}
	if err := s.requireAdmin(ctx, actor); err != nil {
		return err
	}
	if actor == username {
		return ErrSelfDeactivation
	}
	ok, err := s.conn.DeactivateUser(ctx, username, actor)
	if err != nil {
		return eris.Wrap(err, "auth: deactivate user")
	}
	if !ok {
		return ErrUserNotFound
	}
	s.log.Record(ctx, actor, audit.ActionUserDeactivated, "deactivated user "+username)
	return nil
}
