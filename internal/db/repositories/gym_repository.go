package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"climbing-gym/belay/internal/constants"
	gormModels "climbing-gym/belay/internal/models/gorm"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrLayoutNotInGym is returned when a wall is attached to a layout of another gym
var ErrLayoutNotInGym = errors.New("layout does not belong to gym")

type GymRepository struct {
	db *gorm.DB
}

func NewGymRepository(db *gorm.DB) *GymRepository {
	return &GymRepository{db: db}
}

// GetByOwner returns the gym owned by ownerID with the owner account preloaded
func (r *GymRepository) GetByOwner(ctx context.Context, ownerID uint) (*gormModels.Gym, error) {
	var gym gormModels.Gym
	err := r.db.WithContext(ctx).
		Scopes(Scoped("gym_details", false)).
		Preload("User").
		Where("user_id = ?", ownerID).
		First(&gym).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch gym for owner %d: %w", ownerID, mapNotFound(err))
	}
	return &gym, nil
}

func (r *GymRepository) GetByID(ctx context.Context, gymID uint) (*gormModels.Gym, error) {
	var gym gormModels.Gym
	err := r.db.WithContext(ctx).
		Scopes(Scoped("gym_details", false)).
		Preload("User").
		Where("id = ?", gymID).
		First(&gym).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch gym %d: %w", gymID, mapNotFound(err))
	}
	return &gym, nil
}

// HomeGymID returns the user's home gym, or nil when none is set
func (r *GymRepository) HomeGymID(ctx context.Context, userID uint) (*uint, error) {
	var details gormModels.UserDetails
	err := r.db.WithContext(ctx).
		Select("home_gym_id").
		Where("user_id = ?", userID).
		First(&details).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch home gym: %w", err)
	}
	return details.HomeGymID, nil
}

// RouteTypes lists the gym's route types in id order
func (r *GymRepository) RouteTypes(ctx context.Context, gymID uint) ([]gormModels.RouteType, error) {
	var types []gormModels.RouteType
	err := r.db.WithContext(ctx).
		Scopes(Scoped("route_types", false)).
		Where("gym_id = ?", gymID).
		Order("id").
		Find(&types).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch route types: %w", err)
	}
	return types, nil
}

// BlockMember adds the user to the gym's blocked list, clears their home gym
// and deactivates any staff role they hold.
func (r *GymRepository) BlockMember(ctx context.Context, gymID, userID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		blocked := gormModels.GymBlockedUser{GymID: gymID, UserID: userID}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&blocked).Error; err != nil {
			return fmt.Errorf("failed to block user: %w", err)
		}

		res := tx.Model(&gormModels.UserDetails{}).
			Where("user_id = ? AND home_gym_id = ?", userID, gymID).
			Updates(map[string]interface{}{"home_gym_id": nil, "home_gym_added_on": nil})
		if res.Error != nil {
			return fmt.Errorf("failed to clear home gym: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}

		return tx.Model(&gormModels.Role{}).
			Where("user_id = ? AND name = ? AND role_status = ?", userID, constants.RoleGymStaff, true).
			Update("role_status", false).Error
	})
}

// CountActiveStaff counts active GYM_STAFF roles whose holder calls this gym home
func (r *GymRepository) CountActiveStaff(ctx context.Context, gymID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("roles").
		Joins("JOIN user_details ud ON ud.user_id = roles.user_id").
		Joins("JOIN users u ON u.id = roles.user_id AND u.is_deleted = ?", false).
		Where("roles.name = ? AND roles.role_status = ? AND roles.is_deleted = ?", constants.RoleGymStaff, true, false).
		Where("ud.home_gym_id = ?", gymID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count staff: %w", err)
	}
	return count, nil
}

// CountWallsSince counts walls of the gym, soft-deleted ones included, created
// at or after since. A nil since counts every wall.
func (r *GymRepository) CountWallsSince(ctx context.Context, gymID uint, since *time.Time) (int64, error) {
	q := r.db.WithContext(ctx).
		Table("section_walls sw").
		Joins("JOIN gym_layouts gl ON gl.id = sw.gym_layout_id").
		Where("gl.gym_id = ?", gymID)
	if since != nil {
		q = q.Where("sw.created_at >= ?", *since)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count walls: %w", err)
	}
	return count, nil
}

// AddStaff grants (or re-activates) the GYM_STAFF role and moves the user's home gym here
func (r *GymRepository) AddStaff(ctx context.Context, gymID, userID uint, now time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var role gormModels.Role
		err := tx.Where("user_id = ? AND name = ?", userID, constants.RoleGymStaff).First(&role).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			role = gormModels.Role{UserID: userID, Name: constants.RoleGymStaff, RoleStatus: true}
			if err := tx.Create(&role).Error; err != nil {
				return fmt.Errorf("failed to create staff role: %w", err)
			}
		case err != nil:
			return fmt.Errorf("failed to fetch staff role: %w", err)
		default:
			if err := tx.Model(&role).Updates(map[string]interface{}{"role_status": true, "is_deleted": false}).Error; err != nil {
				return fmt.Errorf("failed to activate staff role: %w", err)
			}
		}

		return tx.Model(&gormModels.UserDetails{}).
			Where("user_id = ?", userID).
			Updates(map[string]interface{}{"home_gym_id": gymID, "home_gym_added_on": now}).Error
	})
}

// CreateWall stores a wall after checking its layout belongs to the gym
func (r *GymRepository) CreateWall(ctx context.Context, gymID uint, wall *gormModels.SectionWall) error {
	var layout gormModels.GymLayout
	err := r.db.WithContext(ctx).
		Scopes(Scoped("gym_layouts", false)).
		Where("id = ? AND gym_id = ?", wall.GymLayoutID, gymID).
		First(&layout).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLayoutNotInGym
		}
		return fmt.Errorf("failed to fetch layout: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(wall).Error; err != nil {
		return fmt.Errorf("failed to create wall: %w", err)
	}
	return nil
}

func (r *GymRepository) CreateAnnouncement(ctx context.Context, a *gormModels.Announcement) error {
	if err := r.db.WithContext(ctx).Create(a).Error; err != nil {
		return fmt.Errorf("failed to create announcement: %w", err)
	}
	return nil
}

// MemberContact is the delivery info for one gym member
type MemberContact struct {
	UserID      uint   `gorm:"column:user_id"`
	Email       string `gorm:"column:email"`
	FullName    string `gorm:"column:full_name"`
	DeviceToken string `gorm:"column:device_token"`
}

// MemberContacts lists delivery info for every active member of the gym
func (r *GymRepository) MemberContacts(ctx context.Context, gymID uint) ([]MemberContact, error) {
	var contacts []MemberContact
	err := r.db.WithContext(ctx).
		Table("users").
		Select("users.id AS user_id, users.email, users.full_name, ud.device_token").
		Joins("JOIN user_details ud ON ud.user_id = users.id").
		Where("ud.home_gym_id = ? AND users.is_deleted = ? AND users.is_active = ?", gymID, false, true).
		Order("users.id").
		Scan(&contacts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch member contacts: %w", err)
	}
	return contacts, nil
}
