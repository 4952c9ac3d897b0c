package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/revendehq/revende_api/internal/models"
	"github.com/revendehq/revende_api/internal/utils"
)

// UserRepository is the data access surface the auth and profile services need.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByHandle(ctx context.Context, handle string) (*models.User, error)
	GetByID(ctx context.Context, id int) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByHandle(ctx context.Context, handle string) (bool, error)
	ExistsByCedula(ctx context.Context, cedula string) (bool, error)
	UpdatePerfil(ctx context.Context, user *models.User) error
	UpdateFotoURL(ctx context.Context, id int, fotoURL string) error
}

// AuthService handles registration and login.
type AuthService struct {
	users UserRepository
}

// NewAuthService constructs a new AuthService.
func NewAuthService(users UserRepository) *AuthService {
	return &AuthService{users: users}
}

// RegistroInput carries the fields required to create a reseller account.
type RegistroInput struct {
	Email    string
	Password string
	Nombre   string
	Handle   string
	Cedula   string
	Telefono string
	Margen   int
}

// Registro creates a new user after uniqueness checks on email, handle and
// cedula, in that priority order. The unique constraints back the checks up,
// so two concurrent registrations cannot both commit.
func (s *AuthService) Registro(ctx context.Context, in RegistroInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	handle := strings.ToLower(strings.TrimSpace(in.Handle))

	if taken, err := s.users.ExistsByEmail(ctx, email); err != nil {
		return nil, err
	} else if taken {
		return nil, utils.ErrEmailTaken
	}
	if taken, err := s.users.ExistsByHandle(ctx, handle); err != nil {
		return nil, err
	} else if taken {
		return nil, utils.ErrHandleTaken
	}
	if taken, err := s.users.ExistsByCedula(ctx, in.Cedula); err != nil {
		return nil, err
	} else if taken {
		return nil, utils.ErrCedulaTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	margen := in.Margen
	if margen <= 0 {
		margen = 30
	}

	user := &models.User{
		Email:        email,
		PasswordHash: string(hash),
		Nombre:       in.Nombre,
		Handle:       handle,
		Cedula:       in.Cedula,
		Telefono:     in.Telefono,
		Margen:       margen,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	log.Info().Int("user_id", user.ID).Str("handle", user.Handle).Msg("User registered")
	return user, nil
}

// Login verifies credentials and issues a session token. A missing user and
// a wrong password both come back as the same error so the response does not
// reveal which one failed.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", utils.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", utils.ErrInvalidCredentials
	}

	token, err := utils.GenerateJWT(user.ID, user.Email)
	if err != nil {
		return nil, "", err
	}

	log.Info().Int("user_id", user.ID).Msg("Login successful")
	return user, token, nil
}
