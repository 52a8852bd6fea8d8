package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/rakshop/internal/config"
	"github.com/example/rakshop/internal/models"
	"github.com/example/rakshop/internal/utils"
)

// Auth failure variants, translated to HTTP statuses at the handler
// boundary. ErrInvalidCredentials is deliberately shared between the
// unknown-email and wrong-password cases so login responses cannot be
// used to enumerate accounts.
var (
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
)

// AuthService registers users, authenticates logins and validates tokens.
type AuthService struct {
	db  *gorm.DB
	cfg *config.Config
}

// NewAuthService constructs an AuthService.
func NewAuthService(db *gorm.DB, cfg *config.Config) *AuthService {
	return &AuthService{db: db, cfg: cfg}
}

// AuthResult pairs a user record with a freshly issued session token.
type AuthResult struct {
	User  models.User
	Token string
}

// Register creates a new account and issues its first session token.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	var existing models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil, ErrDuplicateEmail
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	passwordHash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		ProfileImage: models.DefaultProfileImage,
	}
	user.ID = uuid.New()

	token, err := utils.GenerateToken(s.cfg.JWTSecret, user.ID, s.cfg.TokenExpires)
	if err != nil {
		return nil, err
	}
	user.Token = token

	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}

	return &AuthResult{User: user, Token: token}, nil
}

// Login authenticates by email and password and issues a fresh token,
// overwriting the stored advisory token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !utils.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(s.cfg.JWTSecret, user.ID, s.cfg.TokenExpires)
	if err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", user.ID).
		Update("token", token).Error; err != nil {
		return nil, err
	}
	user.Token = token

	return &AuthResult{User: user, Token: token}, nil
}

// ProfileUpdate carries the mutable profile fields. NewImage is the stored
// filename of an already-saved upload; empty fields are left unchanged.
type ProfileUpdate struct {
	Name        string
	OldPassword string
	NewPassword string
	NewImage    string
}

// UpdateProfile changes name, password and/or profile image. A password
// change requires the current password; a mismatch leaves the record
// untouched. Replacing the image deletes the previous file unless it is
// the default sentinel.
func (s *AuthService) UpdateProfile(ctx context.Context, userID uuid.UUID, upd ProfileUpdate) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	updates := map[string]interface{}{"name": upd.Name}

	if upd.NewPassword != "" {
		if upd.OldPassword == "" || !utils.CheckPassword(user.PasswordHash, upd.OldPassword) {
			return nil, ErrInvalidCredentials
		}
		passwordHash, err := utils.HashPassword(upd.NewPassword)
		if err != nil {
			return nil, err
		}
		updates["password_hash"] = passwordHash
	}

	if upd.NewImage != "" {
		if user.ProfileImage != "" && user.ProfileImage != models.DefaultProfileImage {
			utils.DeleteUpload(s.cfg.UploadDir, user.ProfileImage)
		}
		updates["profile_image"] = upd.NewImage
	}

	if err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Updates(updates).Error; err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

// ValidateToken verifies a session token and returns a fresh snapshot of
// its owner. The token payload is trusted only for the user id; everything
// else is re-read from the store.
func (s *AuthService) ValidateToken(ctx context.Context, token string) (*models.User, error) {
	userID, err := utils.ParseToken(s.cfg.JWTSecret, token)
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return &user, nil
}
