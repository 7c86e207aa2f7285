// Package auth verifies admin credentials and the bearer tokens issued for them.
package auth

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/daniilsolovey/newsfeed/internal/domain"
	"github.com/daniilsolovey/newsfeed/internal/errors"
)

const (
	DefaultTokenTTL = 24 * time.Hour
	issuer          = "newsfeed"
	minPasswordLen  = 8
)

// User is a configured account. PasswordHash is a bcrypt hash.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	Role         domain.Role
}

type claims struct {
	Username string      `json:"username"`
	Role     domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// Session is the result of a successful login.
type Session struct {
	Token     string
	Principal domain.Principal
	ExpiresAt time.Time
}

// Gate issues and verifies HS256 tokens for a fixed set of users.
type Gate struct {
	secret []byte
	ttl    time.Duration
	users  map[string]User
	now    func() time.Time
	// dummy is compared against for unknown users so both paths cost one bcrypt check.
	dummy []byte
}

func NewGate(secret string, ttl time.Duration, users []User) (*Gate, error) {
	if secret == "" {
		return nil, fmt.Errorf("auth secret is empty")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	byName := make(map[string]User, len(users))
	for _, u := range users {
		if u.Username == "" || u.PasswordHash == "" {
			return nil, fmt.Errorf("user %q: username and password hash are required", u.ID)
		}
		if u.Role == "" {
			u.Role = domain.RoleAdmin
		}
		if u.ID == "" {
			u.ID = u.Username
		}
		byName[strings.ToLower(u.Username)] = u
	}

	dummy, err := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.MinCost)
	if err != nil {
		return nil, fmt.Errorf("generate dummy hash: %w", err)
	}

	return &Gate{
		secret: []byte(secret),
		ttl:    ttl,
		users:  byName,
		now:    time.Now,
		dummy:  dummy,
	}, nil
}

// Login checks the password and issues a token.
func (g *Gate) Login(username, password string) (*Session, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return nil, errors.Validation("username and password are required")
	}

	u, ok := g.users[strings.ToLower(strings.TrimSpace(username))]
	hash := g.dummy
	if ok {
		hash = []byte(u.PasswordHash)
	}

	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil || !ok {
		return nil, errors.InvalidCredentials("invalid credentials")
	}

	p := domain.Principal{ID: u.ID, Username: u.Username, Role: u.Role}
	token, exp, err := g.Issue(p)
	if err != nil {
		return nil, err
	}

	return &Session{Token: token, Principal: p, ExpiresAt: exp}, nil
}

// Issue signs a token for p.
func (g *Gate) Issue(p domain.Principal) (string, time.Time, error) {
	now := g.now()
	exp := now.Add(g.ttl)

	c := claims{
		Username: p.Username,
		Role:     p.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   p.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(g.secret)
	if err != nil {
		return "", time.Time{}, errors.Wrap(err, errors.CodeInternal, "failed to sign token")
	}

	return token, exp, nil
}

// Verify parses a bearer token and returns its principal.
func (g *Gate) Verify(token string) (domain.Principal, error) {
	if token == "" {
		return domain.Principal{}, errors.Unauthorized("access token required")
	}

	var c claims
	parsed, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return g.secret, nil
	},
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(g.now),
		jwt.WithExpirationRequired(),
	)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return domain.Principal{}, errors.TokenExpired("token expired")
	case err != nil || !parsed.Valid:
		return domain.Principal{}, errors.Unauthorized("invalid token").WithCause(err)
	case c.Subject == "" || c.Username == "":
		return domain.Principal{}, errors.Unauthorized("invalid token claims")
	}

	return domain.Principal{ID: c.Subject, Username: c.Username, Role: c.Role}, nil
}

// HashPassword returns the bcrypt hash stored in the configuration.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPasswordPolicy requires at least 8 characters with an upper-case letter, a
// lower-case letter, a digit and a special character.
func CheckPasswordPolicy(password string) error {
	if len([]rune(password)) < minPasswordLen {
		return errors.Validationf("password must be at least %d characters long", minPasswordLen)
	}

	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			special = true
		}
	}

	var missing []string
	if !upper {
		missing = append(missing, "an uppercase letter")
	}
	if !lower {
		missing = append(missing, "a lowercase letter")
	}
	if !digit {
		missing = append(missing, "a number")
	}
	if !special {
		missing = append(missing, "a special character")
	}
	if len(missing) > 0 {
		return errors.Validationf("password must contain %s", strings.Join(missing, ", "))
	}

	return nil
}
