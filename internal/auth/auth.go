package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"golang.org/x/crypto/bcrypt"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleStandard Role = "standard"
)

// User is the credential-store record. PasswordDigest never leaves the
// process: it is excluded from JSON and cleared from projections handed to
// callers.
type User struct {
	ID               int64      `json:"id" gorm:"primaryKey"`
	Name             string     `json:"name"`
	Email            string     `json:"email"`
	PasswordDigest   string     `json:"-" gorm:"column:password_digest"`
	Role             Role       `json:"role"`
	IsActive         bool       `json:"is_active"`
	CanCreateTravel  bool       `json:"can_create_travel"`
	CanApproveTravel bool       `json:"can_approve_travel"`
	CanDeleteTravel  bool       `json:"can_delete_travel"`
	CreatedAt        time.Time  `json:"created_at"`
	LastAccessAt     *time.Time `json:"last_access_at,omitempty"`
	Permissions      []string   `json:"permissions" gorm:"-"`
}

func (User) TableName() string { return "users" }

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// Sanitized returns a copy safe to hand outside the auth package.
func (u *User) Sanitized() *User {
	clone := *u
	clone.PasswordDigest = ""
	if clone.Permissions == nil {
		clone.Permissions = []string{}
	}
	return &clone
}

// Session holds a login token. Expiry is checked lazily on each
// authentication query; there is no background sweep.
type Session struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	UserID    int64     `json:"user_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

func (Session) TableName() string { return "sessions" }

func (s *Session) IsExpired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// Capability is one entry of the closed permission catalog.
type Capability struct {
	ID          int64  `json:"id" gorm:"primaryKey"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (Capability) TableName() string { return "permissions" }

// LoginResult is what a successful login hands back to the transport layer.
type LoginResult struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

func VerifyPassword(digest, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password))
}

func HashPassword(password string, cost int) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// GenerateSessionToken returns a 256-bit random token, hex encoded.
func GenerateSessionToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

type ctxKey string

const ContextUserKey ctxKey = "auth.user"

func UserFromContext(ctx context.Context) (*User, bool) {
	u, ok := ctx.Value(ContextUserKey).(*User)
	return u, ok && u != nil
}

func ContextWithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, ContextUserKey, u)
}
