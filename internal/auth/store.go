package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// UserStore is the persistence collaborator. Implementations must enforce
// username and email uniqueness themselves and report a violation as
// ErrDuplicateUser.
type UserStore interface {
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	// FindByEmailOrUsername returns any record holding either value.
	FindByEmailOrUsername(ctx context.Context, email, username string) (*User, error)
	Create(ctx context.Context, user *User) error
	Save(ctx context.Context, user *User) error
}

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) FindByID(ctx context.Context, id string) (*User, error) {
	return s.first(ctx, "id = ?", id)
}

func (s *GormStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	return s.first(ctx, "email = ?", email)
}

func (s *GormStore) FindByUsername(ctx context.Context, username string) (*User, error) {
	return s.first(ctx, "username = ?", username)
}

func (s *GormStore) FindByEmailOrUsername(ctx context.Context, email, username string) (*User, error) {
	return s.first(ctx, "email = ? OR username = ?", email, username)
}

func (s *GormStore) Create(ctx context.Context, user *User) error {
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateUser
		}
		return err
	}
	return nil
}

// Save writes every column of an existing record.
func (s *GormStore) Save(ctx context.Context, user *User) error {
	res := s.db.WithContext(ctx).Model(user).Select("*").Omit("id", "created_at").Updates(user)
	if res.Error != nil {
		if isUniqueViolation(res.Error) {
			return ErrDuplicateUser
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *GormStore) first(ctx context.Context, query string, args ...any) (*User, error) {
	var user User
	err := s.db.WithContext(ctx).Where(query, args...).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
