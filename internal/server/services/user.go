// Package services contains server-side business logic. This file implements
// UserService, which handles registration and login and issues JWTs.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/avolkau/taskkeeper/internal/common"
	"github.com/avolkau/taskkeeper/internal/dbx"
	"github.com/avolkau/taskkeeper/internal/server/auth"
	"github.com/avolkau/taskkeeper/internal/server/config"
	"github.com/avolkau/taskkeeper/internal/server/models"
	"github.com/avolkau/taskkeeper/internal/server/repositories/repomanager"
)

// UserService provides authentication-related operations:
// - Register: create users with hashed passwords
// - Login: verify credentials and mint an access token
type UserService struct {
	db                          *sql.DB
	repomanager                 repomanager.RepositoryManager
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
	bcryptCost                  int
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                          db,
		repomanager:                 m,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
		bcryptCost:                  cfg.BcryptCost,
	}
}

// NormalizeEmail is the canonical form used on every read and write path:
// uniqueness and lookups only hold if both sides normalize identically.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new user with the given email and password. The email is
// normalized before use; a duplicate yields common.ErrorAlreadyExists. The
// existence check and insert run in one transaction, and the unique
// constraint on email backstops any concurrent insert that slips between
// them.
func (s *UserService) Register(ctx context.Context, email, password string) (*models.User, error) {
	email = NormalizeEmail(email)

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	var created *models.User
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		_, err := repo.FindByEmail(ctx, email)
		if err == nil {
			return common.ErrorAlreadyExists
		}
		if !errors.Is(err, common.ErrorNotFound) {
			return fmt.Errorf("error searching user: %w", err)
		}

		created, err = repo.Create(ctx, &models.User{Email: email, PasswordHash: hash})
		return err
	}); err != nil {
		return nil, err
	}

	return created, nil
}

// Login verifies the credentials and, on success, returns a signed access
// token bound to the user's id and email. An unknown email and a wrong
// password both yield common.ErrorInvalidCredentials so that login reveals
// nothing about which emails are registered.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	email = NormalizeEmail(email)

	repo := s.repomanager.Users(s.db)
	user, err := repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorInvalidCredentials
		}
		return "", common.ErrorInternal
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return "", common.ErrorInvalidCredentials
	}

	token, err := auth.GenerateToken(user.ID, user.Email, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return "", common.ErrorInternal
	}

	return token, nil
}
