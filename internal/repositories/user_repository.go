package repositories

import (
	"errors"
	"fmt"

	"github.com/nahid-dev/studyhive/backend/internal/apperrors"
	"github.com/nahid-dev/studyhive/backend/internal/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations. The stat
// increment methods are atomic SQL updates (x = x + n) so concurrent
// side-effect sequences never lose counts.
type UserRepository interface {
	CreateUser(user *models.User) error
	GetUserByID(id uint) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUsersByIDs(ids []uint) (map[uint]models.User, error)
	UpdateUser(user *models.User) error
	SearchUsers(query string) ([]models.User, error)

	IncrementPostsCount(userID uint) error
	IncrementCommentsCount(userID uint) error
	AddLikesReceived(userID uint, delta int64) error
	AddSavesReceived(userID uint, delta int64) error
}

// PostgresUserRepository implements UserRepository for PostgreSQL
type PostgresUserRepository struct {
	db *gorm.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository
func NewPostgresUserRepository(db *gorm.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

// CreateUser creates a new user in PostgreSQL
func (r *PostgresUserRepository) CreateUser(user *models.User) error {
	return r.db.Create(user).Error
}

// GetUserByID retrieves a user by ID from PostgreSQL
func (r *PostgresUserRepository) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %d: %w", id, apperrors.ErrNotFound)
		}
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by email from PostgreSQL
func (r *PostgresUserRepository) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %s: %w", email, apperrors.ErrNotFound)
		}
		return nil, err
	}
	return &user, nil
}

// GetUsersByIDs retrieves users in bulk, keyed by ID. Used by the trending
// feed to join author display fields in one query.
func (r *PostgresUserRepository) GetUsersByIDs(ids []uint) (map[uint]models.User, error) {
	byID := make(map[uint]models.User, len(ids))
	if len(ids) == 0 {
		return byID, nil
	}
	var users []models.User
	if err := r.db.Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	for _, u := range users {
		byID[u.ID] = u
	}
	return byID, nil
}

// UpdateUser updates an existing user in PostgreSQL
func (r *PostgresUserRepository) UpdateUser(user *models.User) error {
	return r.db.Save(user).Error
}

// SearchUsers searches for users by name or email (case-insensitive)
func (r *PostgresUserRepository) SearchUsers(query string) ([]models.User, error) {
	var users []models.User
	if err := r.db.Where("LOWER(name) LIKE LOWER(?) OR LOWER(email) LIKE LOWER(?)", "%"+query+"%", "%"+query+"%").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// IncrementPostsCount bumps a user's posts_count stat
func (r *PostgresUserRepository) IncrementPostsCount(userID uint) error {
	return r.addToColumn(userID, "posts_count", 1)
}

// IncrementCommentsCount bumps a user's comments_count stat
func (r *PostgresUserRepository) IncrementCommentsCount(userID uint) error {
	return r.addToColumn(userID, "comments_count", 1)
}

// AddLikesReceived adjusts a user's likes_received stat by delta (negative
// on unlike)
func (r *PostgresUserRepository) AddLikesReceived(userID uint, delta int64) error {
	return r.addToColumn(userID, "likes_received", delta)
}

// AddSavesReceived adjusts a user's saves_received stat by delta
func (r *PostgresUserRepository) AddSavesReceived(userID uint, delta int64) error {
	return r.addToColumn(userID, "saves_received", delta)
}

func (r *PostgresUserRepository) addToColumn(userID uint, column string, delta int64) error {
	return r.db.Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn(column, gorm.Expr(column+" + ?", delta)).Error
}
