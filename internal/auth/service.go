package auth

import (
	"errors"
	"log/slog"
	"time"

	"github.com/centrushr/hr-management/internal"
	"golang.org/x/crypto/bcrypt"
)

// Repository is the data access surface the credential store needs.
type Repository interface {
	GetUserByEmail(email string) (*User, error)
	GetUserByID(id int64) (*User, error)
	ListUsers() ([]*User, error)
	CreateUser(u *User, capabilityIDs []string) error
	UpdateUser(u *User, capabilityIDs []string) error
	UpdateUserStatus(id int64, active bool) error
	TouchLastAccess(id int64, at time.Time) error
	DeleteUser(id int64) error

	CreateSession(s *Session) error
	GetSessionByToken(token string) (*Session, error)
	DeleteSession(id int64) error
	DeleteSessionByToken(token string) error

	ListCapabilities() ([]Capability, error)
}

// Service implements the credential store: login/logout, lazy session
// expiry, and the admin-gated user management operations.
type Service struct {
	repo       Repository
	logger     *slog.Logger
	bcryptCost int
	sessionTTL time.Duration
}

func NewService(repo Repository, logger *slog.Logger, bcryptCost int, sessionTTL time.Duration) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	if sessionTTL <= 0 {
		sessionTTL = internal.DefaultSessionTTL
	}
	return &Service{
		repo:       repo,
		logger:     logger,
		bcryptCost: bcryptCost,
		sessionTTL: sessionTTL,
	}
}

// Login validates credentials and opens a session. On success the user's
// last access timestamp is updated and a fresh token with the configured
// TTL is persisted.
func (s *Service) Login(dto LoginDTO) (*LoginResult, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	user, err := s.repo.GetUserByEmail(NormalizeEmail(dto.Email))
	if err != nil {
		if errors.Is(err, internal.ErrUserNotFound) {
			return nil, internal.ErrUserNotFound
		}
		s.logger.Error("login: user lookup failed", "error", err)
		return nil, internal.NewInternalError("login failed", err)
	}

	if !user.IsActive {
		s.logger.Warn("login rejected: inactive user", "user_id", user.ID)
		return nil, internal.ErrUserInactive
	}

	if err := VerifyPassword(user.PasswordDigest, dto.Password); err != nil {
		s.logger.Warn("login rejected: digest mismatch", "user_id", user.ID)
		return nil, internal.ErrInvalidCredentials
	}

	now := time.Now()
	if err := s.repo.TouchLastAccess(user.ID, now); err != nil {
		s.logger.Error("login: failed to update last access", "error", err, "user_id", user.ID)
	}

	token, err := GenerateSessionToken()
	if err != nil {
		return nil, internal.NewInternalError("failed to generate session token", err)
	}

	session := &Session{
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: now.Add(s.sessionTTL),
		CreatedAt: now,
	}
	if err := s.repo.CreateSession(session); err != nil {
		s.logger.Error("login: failed to persist session", "error", err, "user_id", user.ID)
		return nil, internal.NewInternalError("failed to create session", err)
	}

	user.LastAccessAt = &now
	s.logger.Info("user logged in", "user_id", user.ID)

	return &LoginResult{User: user.Sanitized(), Token: token}, nil
}

// Logout deletes the session behind the token. A missing or already
// removed session is a no-op.
func (s *Service) Logout(token string) error {
	if token == "" {
		return nil
	}
	if err := s.repo.DeleteSessionByToken(token); err != nil {
		s.logger.Error("logout: failed to delete session", "error", err)
		return internal.NewInternalError("logout failed", err)
	}
	return nil
}

// IsAuthenticated reports whether the token maps to a live session. An
// expired session is deleted as a side effect (lazy expiry), so repeated
// calls stay idempotent.
func (s *Service) IsAuthenticated(token string) (bool, error) {
	session, err := s.lookupSession(token)
	if err != nil {
		if appErr, ok := internal.IsAppError(err); ok && appErr.Type != internal.ErrorTypeInternal {
			return false, nil
		}
		return false, err
	}
	return session != nil, nil
}

// CurrentUser resolves the token to a user projection with the password
// digest stripped and the capability set loaded. Returns nil when the
// token does not map to a live session.
func (s *Service) CurrentUser(token string) (*User, error) {
	session, err := s.lookupSession(token)
	if err != nil || session == nil {
		return nil, err
	}

	user, err := s.repo.GetUserByID(session.UserID)
	if err != nil {
		if errors.Is(err, internal.ErrUserNotFound) {
			return nil, nil
		}
		return nil, internal.NewInternalError("failed to resolve current user", err)
	}
	return user.Sanitized(), nil
}

// lookupSession returns the live session for the token, deleting it when
// expired.
func (s *Service) lookupSession(token string) (*Session, error) {
	if token == "" {
		return nil, nil
	}

	session, err := s.repo.GetSessionByToken(token)
	if err != nil {
		if errors.Is(err, internal.ErrSessionExpired) || errors.Is(err, internal.ErrUserNotFound) {
			return nil, nil
		}
		return nil, internal.NewInternalError("session lookup failed", err)
	}
	if session == nil {
		return nil, nil
	}

	if session.IsExpired(time.Now()) {
		if err := s.repo.DeleteSession(session.ID); err != nil {
			s.logger.Error("failed to delete expired session", "error", err, "session_id", session.ID)
		}
		return nil, nil
	}
	return session, nil
}

// CreateUser registers a new account. Admin only; duplicate emails are
// rejected after lowercase normalization.
func (s *Service) CreateUser(caller *User, dto CreateUserDTO) (*User, error) {
	if err := Authorize(caller, Requirement{AdminOnly: true}); err != nil {
		s.logger.Warn("create user denied", "caller_id", callerID(caller))
		return nil, err
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	email := NormalizeEmail(dto.Email)
	if existing, err := s.repo.GetUserByEmail(email); err == nil && existing != nil {
		return nil, internal.ErrDuplicateEmail
	} else if err != nil && !errors.Is(err, internal.ErrUserNotFound) {
		return nil, internal.NewInternalError("failed to check email uniqueness", err)
	}

	digest, err := HashPassword(dto.Password, s.bcryptCost)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	role := dto.Role
	if role == "" {
		role = RoleStandard
	}

	user := &User{
		Name:             dto.Name,
		Email:            email,
		PasswordDigest:   digest,
		Role:             role,
		IsActive:         true,
		CanCreateTravel:  dto.CanCreateTravel,
		CanApproveTravel: dto.CanApproveTravel,
		CanDeleteTravel:  dto.CanDeleteTravel,
		CreatedAt:        time.Now(),
		Permissions:      dto.Permissions,
	}
	if err := s.repo.CreateUser(user, dto.Permissions); err != nil {
		s.logger.Error("failed to create user", "error", err)
		return nil, internal.NewInternalError("failed to create user", err)
	}

	s.logger.Info("user created", "user_id", user.ID, "role", user.Role, "by", callerID(caller))
	return user.Sanitized(), nil
}

func (s *Service) ListUsers(caller *User) ([]*User, error) {
	if err := Authorize(caller, Requirement{AdminOnly: true}); err != nil {
		return nil, err
	}

	users, err := s.repo.ListUsers()
	if err != nil {
		return nil, internal.NewInternalError("failed to list users", err)
	}

	sanitized := make([]*User, len(users))
	for i, u := range users {
		sanitized[i] = u.Sanitized()
	}
	return sanitized, nil
}

// UpdateUser applies an admin edit. The password digest is replaced only
// when a new password is supplied.
func (s *Service) UpdateUser(caller *User, targetID int64, dto UpdateUserDTO) (*User, error) {
	if err := Authorize(caller, Requirement{AdminOnly: true}); err != nil {
		s.logger.Warn("update user denied", "caller_id", callerID(caller), "target_id", targetID)
		return nil, err
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	user, err := s.repo.GetUserByID(targetID)
	if err != nil {
		if errors.Is(err, internal.ErrUserNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, internal.NewInternalError("failed to load user", err)
	}

	email := NormalizeEmail(dto.Email)
	if email != user.Email {
		if existing, err := s.repo.GetUserByEmail(email); err == nil && existing != nil && existing.ID != targetID {
			return nil, internal.ErrDuplicateEmail
		} else if err != nil && !errors.Is(err, internal.ErrUserNotFound) {
			return nil, internal.NewInternalError("failed to check email uniqueness", err)
		}
	}

	user.Name = dto.Name
	user.Email = email
	user.Role = dto.Role
	user.CanCreateTravel = dto.CanCreateTravel
	user.CanApproveTravel = dto.CanApproveTravel
	user.CanDeleteTravel = dto.CanDeleteTravel
	user.Permissions = dto.Permissions

	if dto.Password != "" {
		digest, err := HashPassword(dto.Password, s.bcryptCost)
		if err != nil {
			return nil, internal.NewInternalError("failed to hash password", err)
		}
		user.PasswordDigest = digest
	}

	if err := s.repo.UpdateUser(user, dto.Permissions); err != nil {
		s.logger.Error("failed to update user", "error", err, "user_id", targetID)
		return nil, internal.NewInternalError("failed to update user", err)
	}

	s.logger.Info("user updated", "user_id", targetID, "by", callerID(caller))
	return user.Sanitized(), nil
}

func (s *Service) SetUserStatus(caller *User, targetID int64, active bool) error {
	if err := Authorize(caller, Requirement{AdminOnly: true}); err != nil {
		return err
	}

	if err := s.repo.UpdateUserStatus(targetID, active); err != nil {
		if errors.Is(err, internal.ErrUserNotFound) {
			return internal.ErrUserNotFound
		}
		return internal.NewInternalError("failed to update user status", err)
	}

	s.logger.Info("user status changed", "user_id", targetID, "active", active, "by", callerID(caller))
	return nil
}

// DeleteUser removes an account. The acting admin can never delete
// themselves.
func (s *Service) DeleteUser(caller *User, targetID int64) error {
	if err := Authorize(caller, Requirement{AdminOnly: true}); err != nil {
		s.logger.Warn("delete user denied", "caller_id", callerID(caller), "target_id", targetID)
		return err
	}
	if caller.ID == targetID {
		return internal.ErrSelfDeletion
	}

	if err := s.repo.DeleteUser(targetID); err != nil {
		if errors.Is(err, internal.ErrUserNotFound) {
			return internal.ErrUserNotFound
		}
		return internal.NewInternalError("failed to delete user", err)
	}

	s.logger.Info("user deleted", "user_id", targetID, "by", callerID(caller))
	return nil
}

// Capabilities exposes the persisted catalog for the user-management UI.
func (s *Service) Capabilities() ([]Capability, error) {
	caps, err := s.repo.ListCapabilities()
	if err != nil {
		return nil, internal.NewInternalError("failed to list capabilities", err)
	}
	return caps, nil
}

func callerID(u *User) int64 {
	if u == nil {
		return 0
	}
	return u.ID
}
