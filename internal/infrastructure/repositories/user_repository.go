package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/abdullharslan/ProductManager/domain"
)

// UserRepositoryImpl implements domain.UserRepository using GORM
type UserRepositoryImpl struct {
	db *gorm.DB
}

// DBUser represents the database model for User (with GORM tags)
type DBUser struct {
	ID                    string         `gorm:"primaryKey;size:36"`
	Email                 string         `gorm:"size:256;not null"`
	NormalizedEmail       string         `gorm:"uniqueIndex;size:256;not null"`
	PasswordHash          string         `gorm:"column:password;not null"`
	FirstName             string         `gorm:"size:50;not null"`
	LastName              string         `gorm:"size:50;not null"`
	Role                  string         `gorm:"index;size:64"`
	IsActive              bool           `gorm:"index"`
	EmailConfirmed        bool
	TwoFactorEnabled      bool
	TwoFactorSecret       string         `gorm:"size:64"`
	RefreshToken          string         `gorm:"size:128"`
	RefreshTokenExpiresAt *time.Time
	LastLoginAt           *time.Time
	CreatedAt             time.Time
	UpdatedAt             time.Time
	DeletedAt             gorm.DeletedAt `gorm:"index"`
}

// TableName returns the table name for GORM
func (DBUser) TableName() string {
	return "users"
}

// NormalizeEmail returns the case-insensitive lookup key for an email
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) domain.UserRepository {
	return &UserRepositoryImpl{db: db}
}

// Create implements domain.UserRepository
func (r *UserRepositoryImpl) Create(ctx context.Context, user *domain.User) error {
	dbUser := domainToDBUser(user)
	if err := r.db.WithContext(ctx).Create(dbUser).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrUserAlreadyExists
		}
		return err
	}
	user.CreatedAt = dbUser.CreatedAt
	user.UpdatedAt = dbUser.UpdatedAt
	return nil
}

// FindByEmail implements domain.UserRepository
func (r *UserRepositoryImpl) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, "normalized_email = ?", NormalizeEmail(email))
}

// FindByID implements domain.UserRepository
func (r *UserRepositoryImpl) FindByID(ctx context.Context, id string) (*domain.User, error) {
	if id == "" {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, "id = ?", id)
}

func (r *UserRepositoryImpl) findOne(ctx context.Context, query string, arg interface{}) (*domain.User, error) {
	var dbUser DBUser
	err := r.db.WithContext(ctx).Where(query, arg).First(&dbUser).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return dbToDomainUser(&dbUser), nil
}

// Update implements domain.UserRepository. Every column except the password hash
// and the confirmation flag is written, so a cleared refresh token is persisted
// as NULL together with its expiry. Those two have their own writers.
func (r *UserRepositoryImpl) Update(ctx context.Context, user *domain.User) error {
	dbUser := domainToDBUser(user)
	res := r.db.WithContext(ctx).Model(&DBUser{}).Where("id = ?", user.ID).
		Select("*").Omit("id", "created_at", "deleted_at", "password", "email_confirmed").Updates(dbUser)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return domain.ErrUserAlreadyExists
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	user.UpdatedAt = dbUser.UpdatedAt
	return nil
}

// ConfirmEmail implements domain.UserRepository
func (r *UserRepositoryImpl) ConfirmEmail(ctx context.Context, userID string) error {
	return r.updateColumn(ctx, userID, "email_confirmed", true)
}

// UpdatePasswordHash implements domain.UserRepository
func (r *UserRepositoryImpl) UpdatePasswordHash(ctx context.Context, userID, passwordHash string) error {
	return r.updateColumn(ctx, userID, "password", passwordHash)
}

func (r *UserRepositoryImpl) updateColumn(ctx context.Context, userID, column string, value interface{}) error {
	res := r.db.WithContext(ctx).Model(&DBUser{}).Where("id = ?", userID).Update(column, value)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func domainToDBUser(user *domain.User) *DBUser {
	return &DBUser{
		ID:                    user.ID,
		Email:                 user.Email,
		NormalizedEmail:       NormalizeEmail(user.Email),
		PasswordHash:          user.PasswordHash,
		FirstName:             user.FirstName,
		LastName:              user.LastName,
		Role:                  user.Role,
		IsActive:              user.IsActive,
		EmailConfirmed:        user.EmailConfirmed,
		TwoFactorEnabled:      user.TwoFactorEnabled,
		TwoFactorSecret:       user.TwoFactorSecret,
		RefreshToken:          user.RefreshToken,
		RefreshTokenExpiresAt: user.RefreshTokenExpiresAt,
		LastLoginAt:           user.LastLoginAt,
		CreatedAt:             user.CreatedAt,
		UpdatedAt:             user.UpdatedAt,
	}
}

func dbToDomainUser(dbUser *DBUser) *domain.User {
	return &domain.User{
		ID:                    dbUser.ID,
		Email:                 dbUser.Email,
		PasswordHash:          dbUser.PasswordHash,
		FirstName:             dbUser.FirstName,
		LastName:              dbUser.LastName,
		Role:                  dbUser.Role,
		IsActive:              dbUser.IsActive,
		EmailConfirmed:        dbUser.EmailConfirmed,
		TwoFactorEnabled:      dbUser.TwoFactorEnabled,
		TwoFactorSecret:       dbUser.TwoFactorSecret,
		RefreshToken:          dbUser.RefreshToken,
		RefreshTokenExpiresAt: dbUser.RefreshTokenExpiresAt,
		LastLoginAt:           dbUser.LastLoginAt,
		CreatedAt:             dbUser.CreatedAt,
		UpdatedAt:             dbUser.UpdatedAt,
	}
}
