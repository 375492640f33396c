// Package sqlite implements the auth repository on the embedded store.
package sqlite

import (
	"errors"
	"time"

	"github.com/centrushr/hr-management/internal"
	"github.com/centrushr/hr-management/internal/auth"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// userPermission is the join row between users and the capability catalog.
type userPermission struct {
	ID           int64 `gorm:"primaryKey"`
	UserID       int64
	PermissionID int64
}

func (userPermission) TableName() string { return "user_permissions" }

func (r *Repository) GetUserByEmail(email string) (*auth.User, error) {
	var user auth.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	if err := r.loadPermissions(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *Repository) GetUserByID(id int64) (*auth.User, error) {
	var user auth.User
	if err := r.db.Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	if err := r.loadPermissions(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *Repository) ListUsers() ([]*auth.User, error) {
	var users []*auth.User
	if err := r.db.Order("created_at ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	for _, u := range users {
		if err := r.loadPermissions(u); err != nil {
			return nil, err
		}
	}
	return users, nil
}

func (r *Repository) CreateUser(u *auth.User, capabilityIDs []string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(u).Error; err != nil {
			return err
		}
		return r.replacePermissions(tx, u.ID, capabilityIDs)
	})
}

func (r *Repository) UpdateUser(u *auth.User, capabilityIDs []string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(u).Error; err != nil {
			return err
		}
		return r.replacePermissions(tx, u.ID, capabilityIDs)
	})
}

func (r *Repository) UpdateUserStatus(id int64, active bool) error {
	res := r.db.Model(&auth.User{}).Where("id = ?", id).Update("is_active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return internal.ErrUserNotFound
	}
	return nil
}

func (r *Repository) TouchLastAccess(id int64, at time.Time) error {
	return r.db.Model(&auth.User{}).Where("id = ?", id).Update("last_access_at", at).Error
}

func (r *Repository) DeleteUser(id int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&userPermission{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&auth.Session{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&auth.User{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return internal.ErrUserNotFound
		}
		return nil
	})
}

func (r *Repository) CreateSession(s *auth.Session) error {
	return r.db.Create(s).Error
}

func (r *Repository) GetSessionByToken(token string) (*auth.Session, error) {
	var session auth.Session
	if err := r.db.Where("token = ?", token).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

func (r *Repository) DeleteSession(id int64) error {
	return r.db.Where("id = ?", id).Delete(&auth.Session{}).Error
}

func (r *Repository) DeleteSessionByToken(token string) error {
	return r.db.Where("token = ?", token).Delete(&auth.Session{}).Error
}

func (r *Repository) ListCapabilities() ([]auth.Capability, error) {
	var caps []auth.Capability
	if err := r.db.Order("id ASC").Find(&caps).Error; err != nil {
		return nil, err
	}
	return caps, nil
}

func (r *Repository) loadPermissions(u *auth.User) error {
	rows, err := r.db.Raw(`SELECT p.name
		FROM permissions p
		JOIN user_permissions up ON p.id = up.permission_id
		WHERE up.user_id = ?`, u.ID).Rows()
	if err != nil {
		return err
	}
	defer rows.Close()

	permissions := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return err
		}
		permissions = append(permissions, name)
	}
	u.Permissions = permissions
	return rows.Err()
}

// replacePermissions rewrites the join rows for the user. Unknown
// capability ids are skipped: the catalog is closed and ids outside it
// never match anyway.
func (r *Repository) replacePermissions(tx *gorm.DB, userID int64, capabilityIDs []string) error {
	if err := tx.Where("user_id = ?", userID).Delete(&userPermission{}).Error; err != nil {
		return err
	}
	for _, name := range capabilityIDs {
		var capability auth.Capability
		if err := tx.Where("name = ?", name).First(&capability).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return err
		}
		if err := tx.Create(&userPermission{UserID: userID, PermissionID: capability.ID}).Error; err != nil {
			return err
		}
	}
	return nil
}
