package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"climbing-gym/belay/internal/auth"
	"climbing-gym/belay/internal/constants"
	"climbing-gym/belay/internal/db/repositories"
	"climbing-gym/belay/internal/logging"
	"climbing-gym/belay/internal/models/dtos/requests"
	"climbing-gym/belay/internal/models/dtos/responses"
	gormModels "climbing-gym/belay/internal/models/gorm"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type accountStore interface {
	GetByID(ctx context.Context, userID uint, includeDeleted bool) (*gormModels.User, error)
	GetByEmail(ctx context.Context, email string) (*gormModels.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	IncrementLoginCount(ctx context.Context, userID uint) error
	UpdateDeviceToken(ctx context.Context, userID uint, token string) error
	UpdatePassword(ctx context.Context, userID uint, hash string) error
	ConsumeVerification(ctx context.Context, token string, verificationType int, now time.Time) (*gormModels.AccountVerification, error)
}

type tokenIssuer interface {
	Issue(userID uint, roles []constants.Role, version int) (string, time.Time, error)
}

type emailNotifier interface {
	EmailHTML(ctx context.Context, recipients []string, subject, template string, data map[string]string) error
}

// RegistrationService owns account creation, login and credential changes
type RegistrationService struct {
	db         *gorm.DB
	users      accountStore
	tokens     tokenIssuer
	notifier   emailNotifier
	bcryptCost int
	publicURL  string
	now        func() time.Time
}

func NewRegistrationService(db *gorm.DB, users accountStore, tokens tokenIssuer, notifier emailNotifier, bcryptCost int, publicURL string) *RegistrationService {
	return &RegistrationService{
		db:         db,
		users:      users,
		tokens:     tokens,
		notifier:   notifier,
		bcryptCost: bcryptCost,
		publicURL:  strings.TrimRight(publicURL, "/"),
		now:        time.Now,
	}
}

// SignUp creates a climber account
func (s *RegistrationService) SignUp(ctx context.Context, req requests.SignUpRequest) (*responses.SignUpResponse, error) {
	return s.signUp(ctx, req.Email, req.Password, req.FullName, req.PreferClimbing, constants.RoleClimber, nil)
}

// SignUpGym creates a gym owner account together with the gym, its default
// lookup tables and an inactive subscription.
func (s *RegistrationService) SignUpGym(ctx context.Context, req requests.GymSignUpRequest) (*responses.SignUpResponse, error) {
	gym := &gormModels.Gym{
		GymName:      req.GymName,
		Phone:        req.Phone,
		Address:      req.Address,
		Zipcode:      req.Zipcode,
		RopeClimbing: req.RopeClimbing,
		Bouldering:   req.Bouldering,
		IsActive:     true,
	}
	return s.signUp(ctx, req.Email, req.Password, req.FullName, nil, constants.RoleGymOwner, gym)
}

func (s *RegistrationService) signUp(
	ctx context.Context,
	email, password, fullName string,
	preferClimbing *int,
	role constants.Role,
	gym *gormModels.Gym,
) (*responses.SignUpResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	exists, err := s.users.EmailExists(ctx, email)
	if err != nil {
		return nil, wrapRepoError(err)
	}
	if exists {
		return nil, &ServiceError{
			Code:     constants.ErrCodeConflict,
			Message:  "An account with this email already exists",
			Location: "email",
		}
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, newServiceError(constants.ErrCodeInternal, err)
	}

	now := s.now()
	user := gormModels.User{
		Email:    email,
		Password: hash,
		FullName: strings.TrimSpace(fullName),
		IsActive: true,
	}
	verification := gormModels.AccountVerification{
		Token:            uuid.NewString(),
		ExpiredAt:        now.Add(constants.VerificationTokenTTL * time.Hour),
		VerificationType: constants.VerificationEmail,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&user).Error; err != nil {
			return err
		}

		details := gormModels.UserDetails{UserID: user.ID}
		preference := gormModels.UserPreference{UserID: user.ID, PreferClimbing: preferClimbing}
		biometric := gormModels.UserBiometric{UserID: user.ID}
		rows := []interface{}{
			&gormModels.Role{UserID: user.ID, Name: role, RoleStatus: true},
			&details,
			&preference,
			&biometric,
		}
		for _, row := range rows {
			if err := tx.Create(row).Error; err != nil {
				return err
			}
		}

		basic := BasicPercentage(BasicInput{FullName: user.FullName, Email: user.Email, PreferClimbing: preferClimbing})
		climbing := ClimbingPercentage(ClimbingInput{})
		bio := BiometricPercentage(BiometricInput{})
		snapshot := gormModels.UserDetailPercentage{
			UserID:          user.ID,
			BasicDetail:     round2(basic),
			ClimbingDetail:  round2(climbing),
			BiometricDetail: round2(bio),
			OverallDetail:   round2(OverallPercentage(basic, climbing, bio)),
		}
		if err := tx.Create(&snapshot).Error; err != nil {
			return err
		}

		verification.UserID = user.ID
		if err := tx.Create(&verification).Error; err != nil {
			return err
		}

		if gym != nil {
			return createGymDefaults(tx, gym, user.ID)
		}
		return nil
	})
	if err != nil {
		return nil, newServiceError(constants.ErrCodeInternal, err)
	}

	s.sendVerification(ctx, user.Email, user.FullName, verification.Token)

	out := &responses.SignUpResponse{UserID: user.ID, Message: constants.MsgSignupSuccess}
	if gym != nil {
		out.GymID = &gym.ID
	}
	logging.Info("Account created", "user_id", user.ID, "role", role.String())
	return out, nil
}

// createGymDefaults stores the gym and seeds wall types, colors, route types
// and an inactive subscription inside the signup transaction.
func createGymDefaults(tx *gorm.DB, gym *gormModels.Gym, ownerID uint) error {
	gym.UserID = ownerID
	if err := tx.Omit(clause.Associations).Create(gym).Error; err != nil {
		return err
	}

	wallTypes := make([]gormModels.WallType, 0, len(constants.DefaultWallTypes))
	for _, name := range constants.DefaultWallTypes {
		wallTypes = append(wallTypes, gormModels.WallType{GymID: gym.ID, Name: name})
	}
	colors := make([]gormModels.ColorType, 0, len(constants.DefaultColors))
	for _, c := range constants.DefaultColors {
		colors = append(colors, gormModels.ColorType{GymID: gym.ID, Name: c.Name, HexValue: c.Hex})
	}
	routeTypes := make([]gormModels.RouteType, 0, len(constants.DefaultRouteTypes))
	for _, name := range constants.DefaultRouteTypes {
		routeTypes = append(routeTypes, gormModels.RouteType{GymID: gym.ID, Name: name})
	}

	if err := tx.Create(&wallTypes).Error; err != nil {
		return err
	}
	if err := tx.Create(&colors).Error; err != nil {
		return err
	}
	if err := tx.Create(&routeTypes).Error; err != nil {
		return err
	}

	sub := gormModels.UserSubscription{
		UserID:             ownerID,
		SubscriptionStatus: constants.SubscriptionInactive,
	}
	return tx.Omit(clause.Associations).Create(&sub).Error
}

func (s *RegistrationService) sendVerification(ctx context.Context, email, fullName, token string) {
	if s.notifier == nil {
		return
	}
	data := map[string]string{
		"full_name":  fullName,
		"verify_url": s.publicURL + "/api/v1/auth/verify-email?token=" + token,
	}
	if err := s.notifier.EmailHTML(ctx, []string{email}, "Verify your email", "verify_email", data); err != nil {
		logging.Warn("Failed to enqueue verification email", "email", email, "error", err)
	}
}

// Login checks credentials and issues an access token carrying the user's active roles
func (s *RegistrationService) Login(ctx context.Context, req requests.LoginRequest) (*responses.TokenResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, newServiceError(constants.ErrCodeBadCredentials, nil)
	}
	if err != nil {
		return nil, wrapRepoError(err)
	}
	if !auth.CheckPassword(user.Password, req.Password) || !user.IsActive {
		return nil, newServiceError(constants.ErrCodeBadCredentials, nil)
	}
	if !user.IsEmailVerified {
		return nil, newServiceError(constants.ErrCodeEmailUnverified, nil)
	}

	roles := make([]constants.Role, 0, len(user.Roles))
	names := make([]string, 0, len(user.Roles))
	for _, r := range user.Roles {
		roles = append(roles, r.Name)
		names = append(names, r.Name.String())
	}

	token, expiresAt, err := s.tokens.Issue(user.ID, roles, user.TokenVersion)
	if err != nil {
		return nil, newServiceError(constants.ErrCodeInternal, err)
	}

	if err := s.users.IncrementLoginCount(ctx, user.ID); err != nil {
		logging.Warn("Failed to bump login count", "user_id", user.ID, "error", err)
	}
	if req.DeviceToken != "" {
		if err := s.users.UpdateDeviceToken(ctx, user.ID, req.DeviceToken); err != nil {
			logging.Warn("Failed to store device token", "user_id", user.ID, "error", err)
		}
	}

	return &responses.TokenResponse{
		AccessToken: token,
		ExpiresAt:   responses.Timestamp{Time: expiresAt},
		UserID:      user.ID,
		Roles:       names,
	}, nil
}

// ChangePassword replaces the password and invalidates every token issued so far
func (s *RegistrationService) ChangePassword(ctx context.Context, userID uint, req requests.ChangePasswordRequest) error {
	user, err := s.users.GetByID(ctx, userID, false)
	if err != nil {
		return wrapRepoError(err)
	}
	if !auth.CheckPassword(user.Password, req.OldPassword) {
		return validationError("old_password", "Old password is incorrect")
	}

	hash, err := auth.HashPassword(req.NewPassword, s.bcryptCost)
	if err != nil {
		return newServiceError(constants.ErrCodeInternal, err)
	}
	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		return wrapRepoError(err)
	}
	logging.Info("Password changed", "user_id", userID)
	return nil
}

// VerifyEmail consumes an email verification token
func (s *RegistrationService) VerifyEmail(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return validationError("token", "token is required")
	}
	_, err := s.users.ConsumeVerification(ctx, token, constants.VerificationEmail, s.now())
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return newServiceError(constants.ErrCodeInvalidToken, err)
	case errors.Is(err, repositories.ErrTokenExpired):
		return newServiceError(constants.ErrCodeTokenExpired, err)
	case err != nil:
		return wrapRepoError(err)
	}
	return nil
}
