package auth_test

import (
	"errors"
	"log/slog"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/centrushr/hr-management/internal"
	"github.com/centrushr/hr-management/internal/auth"
)

type mockAuthRepository struct {
	users    map[int64]*auth.User
	sessions map[int64]*auth.Session
	nextID   int64

	getUserError       error
	createUserError    error
	updateUserError    error
	deleteUserError    error
	createSessionError error
	getSessionError    error
	deleteSessionError error
}

func newMockAuthRepository() *mockAuthRepository {
	return &mockAuthRepository{
		users:    make(map[int64]*auth.User),
		sessions: make(map[int64]*auth.Session),
		nextID:   1,
	}
}

func (m *mockAuthRepository) addUser(u *auth.User) *auth.User {
	u.ID = m.nextID
	m.nextID++
	m.users[u.ID] = u
	return u
}

func (m *mockAuthRepository) GetUserByEmail(email string) (*auth.User, error) {
	if m.getUserError != nil {
		return nil, m.getUserError
	}
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, internal.ErrUserNotFound
}

func (m *mockAuthRepository) GetUserByID(id int64) (*auth.User, error) {
	if m.getUserError != nil {
		return nil, m.getUserError
	}
	u, ok := m.users[id]
	if !ok {
		return nil, internal.ErrUserNotFound
	}
	return u, nil
}

func (m *mockAuthRepository) ListUsers() ([]*auth.User, error) {
	users := make([]*auth.User, 0, len(m.users))
	for _, u := range m.users {
		users = append(users, u)
	}
	return users, nil
}

func (m *mockAuthRepository) CreateUser(u *auth.User, capabilityIDs []string) error {
	if m.createUserError != nil {
		return m.createUserError
	}
	m.addUser(u)
	return nil
}

func (m *mockAuthRepository) UpdateUser(u *auth.User, capabilityIDs []string) error {
	if m.updateUserError != nil {
		return m.updateUserError
	}
	m.users[u.ID] = u
	return nil
}

func (m *mockAuthRepository) UpdateUserStatus(id int64, active bool) error {
	u, ok := m.users[id]
	if !ok {
		return internal.ErrUserNotFound
	}
	u.IsActive = active
	return nil
}

func (m *mockAuthRepository) TouchLastAccess(id int64, at time.Time) error {
	if u, ok := m.users[id]; ok {
		u.LastAccessAt = &at
	}
	return nil
}

func (m *mockAuthRepository) DeleteUser(id int64) error {
	if m.deleteUserError != nil {
		return m.deleteUserError
	}
	if _, ok := m.users[id]; !ok {
		return internal.ErrUserNotFound
	}
	delete(m.users, id)
	return nil
}

func (m *mockAuthRepository) CreateSession(s *auth.Session) error {
	if m.createSessionError != nil {
		return m.createSessionError
	}
	s.ID = m.nextID
	m.nextID++
	m.sessions[s.ID] = s
	return nil
}

func (m *mockAuthRepository) GetSessionByToken(token string) (*auth.Session, error) {
	if m.getSessionError != nil {
		return nil, m.getSessionError
	}
	for _, s := range m.sessions {
		if s.Token == token {
			return s, nil
		}
	}
	return nil, nil
}

func (m *mockAuthRepository) DeleteSession(id int64) error {
	if m.deleteSessionError != nil {
		return m.deleteSessionError
	}
	delete(m.sessions, id)
	return nil
}

func (m *mockAuthRepository) DeleteSessionByToken(token string) error {
	if m.deleteSessionError != nil {
		return m.deleteSessionError
	}
	for id, s := range m.sessions {
		if s.Token == token {
			delete(m.sessions, id)
		}
	}
	return nil
}

func (m *mockAuthRepository) ListCapabilities() ([]auth.Capability, error) {
	return []auth.Capability{{ID: 1, Name: auth.CapEmployeeList}}, nil
}

var _ = Describe("AuthService", func() {
	var (
		mockRepo *mockAuthRepository
		service  *auth.Service
		logger   *slog.Logger
		admin    *auth.User
	)

	const password = "secret123"

	BeforeEach(func() {
		mockRepo = newMockAuthRepository()
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = auth.NewService(mockRepo, logger, 10, time.Hour)

		digest, err := auth.HashPassword(password, 10)
		Expect(err).NotTo(HaveOccurred())
		admin = mockRepo.addUser(&auth.User{
			Name:           "Admin",
			Email:          "admin@centrus.com",
			PasswordDigest: digest,
			Role:           auth.RoleAdmin,
			IsActive:       true,
			CreatedAt:      time.Now(),
		})
	})

	Describe("Login", func() {
		Context("with valid credentials", func() {
			It("should open a session and strip the digest", func() {
				// When: logging in with the seeded credentials
				result, err := service.Login(auth.LoginDTO{Email: "admin@centrus.com", Password: password})

				// Then: a token is issued and the projection is sanitized
				Expect(err).NotTo(HaveOccurred())
				Expect(result.Token).NotTo(BeEmpty())
				Expect(result.User.PasswordDigest).To(BeEmpty())
				Expect(mockRepo.sessions).To(HaveLen(1))
			})

			It("should normalize the email before lookup", func() {
				// When: the email arrives with stray case and whitespace
				result, err := service.Login(auth.LoginDTO{Email: "  Admin@Centrus.COM ", Password: password})

				// Then: the lookup still resolves the account
				Expect(err).NotTo(HaveOccurred())
				Expect(result.User.ID).To(Equal(admin.ID))
			})

			It("should update the last access timestamp", func() {
				_, err := service.Login(auth.LoginDTO{Email: "admin@centrus.com", Password: password})

				Expect(err).NotTo(HaveOccurred())
				Expect(admin.LastAccessAt).NotTo(BeNil())
			})
		})

		Context("with a wrong password", func() {
			It("should return invalid credentials", func() {
				_, err := service.Login(auth.LoginDTO{Email: "admin@centrus.com", Password: "wrong"})

				Expect(err).To(MatchError(internal.ErrInvalidCredentials))
				Expect(mockRepo.sessions).To(BeEmpty())
			})
		})

		Context("with an unknown email", func() {
			It("should return user not found", func() {
				_, err := service.Login(auth.LoginDTO{Email: "ghost@centrus.com", Password: password})

				Expect(err).To(MatchError(internal.ErrUserNotFound))
			})
		})

		Context("with an inactive account", func() {
			It("should reject before checking the password", func() {
				// Given: the account was deactivated by an admin
				admin.IsActive = false

				_, err := service.Login(auth.LoginDTO{Email: "admin@centrus.com", Password: password})

				Expect(err).To(MatchError(internal.ErrUserInactive))
			})
		})

		Context("with a blank email", func() {
			It("should fail validation", func() {
				_, err := service.Login(auth.LoginDTO{Email: "", Password: password})

				appErr, ok := internal.IsAppError(err)
				Expect(ok).To(BeTrue())
				Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
			})
		})
	})

	Describe("Logout", func() {
		It("should delete the session behind the token", func() {
			result, err := service.Login(auth.LoginDTO{Email: "admin@centrus.com", Password: password})
			Expect(err).NotTo(HaveOccurred())

			Expect(service.Logout(result.Token)).To(Succeed())
			Expect(mockRepo.sessions).To(BeEmpty())
		})

		It("should treat a blank token as a no-op", func() {
			Expect(service.Logout("")).To(Succeed())
		})
	})

	Describe("CurrentUser", func() {
		It("should resolve a live token to a sanitized user", func() {
			result, err := service.Login(auth.LoginDTO{Email: "admin@centrus.com", Password: password})
			Expect(err).NotTo(HaveOccurred())

			user, err := service.CurrentUser(result.Token)

			Expect(err).NotTo(HaveOccurred())
			Expect(user.ID).To(Equal(admin.ID))
			Expect(user.PasswordDigest).To(BeEmpty())
		})

		It("should return nil for an unknown token", func() {
			user, err := service.CurrentUser("no-such-token")

			Expect(err).NotTo(HaveOccurred())
			Expect(user).To(BeNil())
		})

		Context("when the session has expired", func() {
			It("should delete the session lazily and return nil", func() {
				// Given: a session whose expiry is in the past
				session := &auth.Session{
					UserID:    admin.ID,
					Token:     "stale-token",
					ExpiresAt: time.Now().Add(-time.Minute),
					CreatedAt: time.Now().Add(-2 * time.Hour),
				}
				Expect(mockRepo.CreateSession(session)).To(Succeed())

				user, err := service.CurrentUser("stale-token")

				// Then: the caller sees no session and the row is gone
				Expect(err).NotTo(HaveOccurred())
				Expect(user).To(BeNil())
				Expect(mockRepo.sessions).To(BeEmpty())
			})
		})
	})

	Describe("IsAuthenticated", func() {
		It("should report true for a live session", func() {
			result, err := service.Login(auth.LoginDTO{Email: "admin@centrus.com", Password: password})
			Expect(err).NotTo(HaveOccurred())

			ok, err := service.IsAuthenticated(result.Token)
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeTrue())
		})

		It("should report false for a blank token", func() {
			ok, err := service.IsAuthenticated("")
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeFalse())
		})

		Context("after the session's expiry instant", func() {
			BeforeEach(func() {
				session := &auth.Session{
					UserID:    admin.ID,
					Token:     "stale-token",
					ExpiresAt: time.Now().Add(-time.Minute),
					CreatedAt: time.Now().Add(-2 * time.Hour),
				}
				Expect(mockRepo.CreateSession(session)).To(Succeed())
			})

			It("should report false and remove the session", func() {
				ok, err := service.IsAuthenticated("stale-token")

				Expect(err).NotTo(HaveOccurred())
				Expect(ok).To(BeFalse())
				Expect(mockRepo.sessions).To(BeEmpty())
			})

			It("should stay false on repeated calls", func() {
				ok, err := service.IsAuthenticated("stale-token")
				Expect(err).NotTo(HaveOccurred())
				Expect(ok).To(BeFalse())

				// When: asking again after the lazy cleanup
				ok, err = service.IsAuthenticated("stale-token")

				Expect(err).NotTo(HaveOccurred())
				Expect(ok).To(BeFalse())
				Expect(mockRepo.sessions).To(BeEmpty())
			})
		})
	})

	Describe("CreateUser", func() {
		var dto auth.CreateUserDTO

		BeforeEach(func() {
			dto = auth.CreateUserDTO{
				Name:        "Maria Souza",
				Email:       "maria@centrus.com",
				Password:    "changeme",
				Role:        auth.RoleStandard,
				Permissions: []string{auth.CapEmployeeList},
			}
		})

		Context("when the caller is an admin", func() {
			It("should persist the user with a hashed digest", func() {
				user, err := service.CreateUser(admin, dto)

				Expect(err).NotTo(HaveOccurred())
				Expect(user.ID).NotTo(BeZero())
				Expect(user.PasswordDigest).To(BeEmpty())

				stored := mockRepo.users[user.ID]
				Expect(stored.PasswordDigest).NotTo(Equal("changeme"))
				Expect(auth.VerifyPassword(stored.PasswordDigest, "changeme")).To(Succeed())
			})

			It("should reject a duplicate email regardless of case", func() {
				dto.Email = "ADMIN@centrus.com"

				_, err := service.CreateUser(admin, dto)

				Expect(err).To(MatchError(internal.ErrDuplicateEmail))
			})

			It("should default a blank role to standard", func() {
				dto.Role = ""

				user, err := service.CreateUser(admin, dto)

				Expect(err).NotTo(HaveOccurred())
				Expect(user.Role).To(Equal(auth.RoleStandard))
			})
		})

		Context("when the caller is not an admin", func() {
			It("should be forbidden", func() {
				standard := &auth.User{ID: 99, Role: auth.RoleStandard, IsActive: true}

				_, err := service.CreateUser(standard, dto)

				Expect(err).To(MatchError(internal.ErrForbidden))
			})
		})
	})

	Describe("UpdateUser", func() {
		var target *auth.User

		BeforeEach(func() {
			digest, err := auth.HashPassword("original", 10)
			Expect(err).NotTo(HaveOccurred())
			target = mockRepo.addUser(&auth.User{
				Name:           "Carlos Lima",
				Email:          "carlos@centrus.com",
				PasswordDigest: digest,
				Role:           auth.RoleStandard,
				IsActive:       true,
			})
		})

		It("should keep the digest when password is blank", func() {
			before := target.PasswordDigest

			_, err := service.UpdateUser(admin, target.ID, auth.UpdateUserDTO{
				Name:  "Carlos Lima",
				Email: "carlos@centrus.com",
				Role:  auth.RoleStandard,
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(mockRepo.users[target.ID].PasswordDigest).To(Equal(before))
		})

		It("should replace the digest when a password is supplied", func() {
			_, err := service.UpdateUser(admin, target.ID, auth.UpdateUserDTO{
				Name:     "Carlos Lima",
				Email:    "carlos@centrus.com",
				Password: "rotated1",
				Role:     auth.RoleStandard,
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(auth.VerifyPassword(mockRepo.users[target.ID].PasswordDigest, "rotated1")).To(Succeed())
		})

		It("should reject moving onto another user's email", func() {
			_, err := service.UpdateUser(admin, target.ID, auth.UpdateUserDTO{
				Name:  "Carlos Lima",
				Email: "admin@centrus.com",
				Role:  auth.RoleStandard,
			})

			Expect(err).To(MatchError(internal.ErrDuplicateEmail))
		})
	})

	Describe("SetUserStatus", func() {
		It("should deactivate the target", func() {
			target := mockRepo.addUser(&auth.User{Name: "Ana", Email: "ana@centrus.com", IsActive: true, Role: auth.RoleStandard})

			Expect(service.SetUserStatus(admin, target.ID, false)).To(Succeed())
			Expect(mockRepo.users[target.ID].IsActive).To(BeFalse())
		})

		It("should surface user not found", func() {
			err := service.SetUserStatus(admin, 404, false)
			Expect(err).To(MatchError(internal.ErrUserNotFound))
		})
	})

	Describe("DeleteUser", func() {
		It("should refuse self deletion", func() {
			err := service.DeleteUser(admin, admin.ID)

			Expect(err).To(MatchError(internal.ErrSelfDeletion))
			Expect(mockRepo.users).To(HaveKey(admin.ID))
		})

		It("should delete another account", func() {
			target := mockRepo.addUser(&auth.User{Name: "Ana", Email: "ana@centrus.com", Role: auth.RoleStandard})

			Expect(service.DeleteUser(admin, target.ID)).To(Succeed())
			Expect(mockRepo.users).NotTo(HaveKey(target.ID))
		})

		It("should wrap repository failures", func() {
			target := mockRepo.addUser(&auth.User{Name: "Ana", Email: "ana@centrus.com", Role: auth.RoleStandard})
			mockRepo.deleteUserError = errors.New("disk on fire")

			err := service.DeleteUser(admin, target.ID)

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeInternal))
		})
	})

	Describe("ListUsers", func() {
		It("should sanitize every entry", func() {
			users, err := service.ListUsers(admin)

			Expect(err).NotTo(HaveOccurred())
			Expect(users).To(HaveLen(1))
			Expect(users[0].PasswordDigest).To(BeEmpty())
		})

		It("should be admin only", func() {
			standard := &auth.User{ID: 7, Role: auth.RoleStandard, IsActive: true}

			_, err := service.ListUsers(standard)
			Expect(err).To(MatchError(internal.ErrForbidden))
		})
	})
})
