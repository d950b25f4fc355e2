package repositories

import (
	"context"
	"errors"
	"fmt"

	"ajopay/internal/models"
	"ajopay/internal/repositories/cache"

	"gorm.io/gorm"
)

// UserRepository defines user persistence operations.
type UserRepository interface {
	Create(user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByPhone(phone string) (*models.User, error)
	Update(user *models.User) error
	GetTokenVersion(userID uint) (int, error)
	IncrementTokenVersion(userID uint) error
}

type userRepository struct {
	db    *gorm.DB
	cache *cache.CacheService
}

func NewUserRepository(db *gorm.DB, cacheSvc *cache.CacheService) UserRepository {
	return &userRepository{db: db, cache: cacheSvc}
}

func (r *userRepository) Create(user *models.User) error {
	if err := r.db.Create(user).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateUser
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	if r.cache != nil {
		if user, err := r.cache.GetUser(ctx, id); err == nil {
			return user, nil
		}
	}

	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if r.cache != nil {
		r.cache.CacheUser(ctx, &user)
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (r *userRepository) GetByPhone(phone string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("phone = ?", phone).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (r *userRepository) Update(user *models.User) error {
	if err := r.db.Save(user).Error; err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if r.cache != nil {
		r.cache.InvalidateUser(context.Background(), user.ID)
	}
	return nil
}

func (r *userRepository) GetTokenVersion(userID uint) (int, error) {
	var version int
	err := r.db.Model(&models.User{}).
		Where("id = ?", userID).
		Select("token_version").
		Scan(&version).Error
	if err != nil {
		return 0, fmt.Errorf("failed to get token version: %w", err)
	}
	return version, nil
}

func (r *userRepository) IncrementTokenVersion(userID uint) error {
	err := r.db.Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn("token_version", gorm.Expr("token_version + 1")).Error
	if err != nil {
		return fmt.Errorf("failed to increment token version: %w", err)
	}
	if r.cache != nil {
		r.cache.InvalidateUser(context.Background(), userID)
	}
	return nil
}
