package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"climbing-gym/belay/internal/constants"
	gormModels "climbing-gym/belay/internal/models/gorm"

	"gorm.io/gorm"
)

type UserRepositoryGORM struct {
	db *gorm.DB
}

// NewUserRepositoryGORM creates a new GORM-based user repository
func NewUserRepositoryGORM(db *gorm.DB) *UserRepositoryGORM {
	return &UserRepositoryGORM{db: db}
}

// GetByID retrieves a user with details, biometric, preference and roles preloaded
func (r *UserRepositoryGORM) GetByID(ctx context.Context, userID uint, includeDeleted bool) (*gormModels.User, error) {
	var user gormModels.User

	err := r.db.WithContext(ctx).
		Scopes(Scoped("users", includeDeleted)).
		Preload("Roles").
		Preload("Details").
		Preload("Biometric").
		Preload("Preference").
		Where("users.id = ?", userID).
		First(&user).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user %d: %w", userID, mapNotFound(err))
	}

	return &user, nil
}

// GetByEmail looks up an active, non-deleted account by email (case-insensitive)
func (r *UserRepositoryGORM) GetByEmail(ctx context.Context, email string) (*gormModels.User, error) {
	var user gormModels.User

	err := r.db.WithContext(ctx).
		Scopes(Scoped("users", false)).
		Preload("Roles", "role_status = ?", true).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&user).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user by email: %w", mapNotFound(err))
	}

	return &user, nil
}

func (r *UserRepositoryGORM) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&gormModels.User{}).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return count > 0, nil
}

// AuthState returns what the auth middleware needs to accept a token
type AuthState struct {
	TokenVersion int
	IsActive     bool
	Roles        []constants.Role
}

func (r *UserRepositoryGORM) GetAuthState(ctx context.Context, userID uint) (*AuthState, error) {
	user, err := r.GetByID(ctx, userID, false)
	if err != nil {
		return nil, err
	}

	state := &AuthState{TokenVersion: user.TokenVersion, IsActive: user.IsActive}
	for _, role := range user.Roles {
		if role.RoleStatus && !role.IsDeleted {
			state.Roles = append(state.Roles, role.Name)
		}
	}
	return state, nil
}

// UpdatePassword stores a new hash and bumps token_version so every issued token is rejected
func (r *UserRepositoryGORM) UpdatePassword(ctx context.Context, userID uint, hash string) error {
	res := r.db.WithContext(ctx).
		Model(&gormModels.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"password":      hash,
			"token_version": gorm.Expr("token_version + 1"),
		})
	if res.Error != nil {
		return fmt.Errorf("failed to update password: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserRepositoryGORM) IncrementLoginCount(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).
		Model(&gormModels.UserDetails{}).
		Where("user_id = ?", userID).
		UpdateColumn("login_count", gorm.Expr("login_count + 1")).Error
}

func (r *UserRepositoryGORM) UpdateDeviceToken(ctx context.Context, userID uint, token string) error {
	return r.db.WithContext(ctx).
		Model(&gormModels.UserDetails{}).
		Where("user_id = ?", userID).
		Update("device_token", token).Error
}

// ClearDeviceTokens forgets tokens that the push provider reported as dead
func (r *UserRepositoryGORM) ClearDeviceTokens(ctx context.Context, tokens []string) error {
	if len(tokens) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&gormModels.UserDetails{}).
		Where("device_token IN ?", tokens).
		Update("device_token", "").Error
}

// ConsumeVerification marks an unused, unexpired token as used and the owner as verified.
func (r *UserRepositoryGORM) ConsumeVerification(ctx context.Context, token string, verificationType int, now time.Time) (*gormModels.AccountVerification, error) {
	var v gormModels.AccountVerification

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("token = ? AND verification_type = ? AND is_used = ?", token, verificationType, false).
			First(&v).Error; err != nil {
			return mapNotFound(err)
		}
		if now.After(v.ExpiredAt) {
			return ErrTokenExpired
		}
		if err := tx.Model(&v).Update("is_used", true).Error; err != nil {
			return err
		}
		return tx.Model(&gormModels.User{}).
			Where("id = ?", v.UserID).
			Update("is_email_verified", true).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to consume verification token: %w", err)
	}
	return &v, nil
}

// UpdateUser applies column updates to the users row
func (r *UserRepositoryGORM) UpdateUser(ctx context.Context, userID uint, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&gormModels.User{}).Where("id = ?", userID).Updates(fields).Error
}

// SaveDetails, SaveBiometric and SavePreference persist the full row including zero values
func (r *UserRepositoryGORM) SaveDetails(ctx context.Context, d *gormModels.UserDetails) error {
	return r.db.WithContext(ctx).Save(d).Error
}

func (r *UserRepositoryGORM) SaveBiometric(ctx context.Context, b *gormModels.UserBiometric) error {
	return r.db.WithContext(ctx).Save(b).Error
}

func (r *UserRepositoryGORM) SavePreference(ctx context.Context, p *gormModels.UserPreference) error {
	return r.db.WithContext(ctx).Save(p).Error
}
