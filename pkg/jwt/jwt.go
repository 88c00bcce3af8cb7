package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrMissingToken = errors.New("missing authorization token")
)

const issuer = "go-retail-pos"

// SubjectKind tells admin-portal users apart from terminal employees.
type SubjectKind string

const (
	SubjectUser     SubjectKind = "user"
	SubjectEmployee SubjectKind = "employee"
)

// Claims represents the JWT claims structure
type Claims struct {
	SubjectID    uuid.UUID   `json:"sub_id"`
	Kind         SubjectKind `json:"kind"`
	CompanyID    *uuid.UUID  `json:"company_id,omitempty"`
	Name         string      `json:"name"`
	Email        string      `json:"email,omitempty"`
	RoleCode     string      `json:"role_code,omitempty"`
	IsManager    bool        `json:"is_manager,omitempty"`
	Privileges   []string    `json:"privileges"`
	TokenVersion string      `json:"token_version,omitempty"`
	jwt.RegisteredClaims
}

func (c *Claims) HasPrivilege(code string) bool {
	for _, p := range c.Privileges {
		if p == code {
			return true
		}
	}
	return false
}

// Manager signs and verifies HS256 tokens with one secret.
type Manager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewManager(secret string, ttl time.Duration) *Manager {
	return &Manager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// GenerateToken signs claims, stamping issuer and validity window.
func (m *Manager) GenerateToken(claims Claims) (string, error) {
	now := m.now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   claims.SubjectID.String(),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		Issuer:    issuer,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims)
	return token.SignedString(m.secret)
}

// ValidateToken parses and validates a JWT token
func (m *Manager) ValidateToken(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrMissingToken
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(m.now))

	if err != nil {
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}
