package service

import (
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/revendehq/revende_api/internal/models"
	"github.com/revendehq/revende_api/internal/utils"
)

// PhotoStore is the object storage surface for profile photos.
type PhotoStore interface {
	UploadProfilePhoto(ctx context.Context, userID int, data []byte, contentType string) (string, error)
}

// ProfileService handles public profiles, margin/payout updates and photo
// uploads.
type ProfileService struct {
	users  UserRepository
	photos PhotoStore // nil when object storage is not configured
}

// NewProfileService constructs a ProfileService.
func NewProfileService(users UserRepository, photos PhotoStore) *ProfileService {
	return &ProfileService{users: users, photos: photos}
}

// Public returns the public profile for a handle.
func (s *ProfileService) Public(ctx context.Context, handle string) (*models.PublicProfile, error) {
	user, err := s.users.GetByHandle(ctx, strings.ToLower(handle))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrUserNotFound
		}
		return nil, err
	}
	profile := user.PublicProfile()
	return &profile, nil
}

// UpdateInput carries the mutable margin/payout and social fields. Nil
// pointers leave the current value untouched.
type UpdateInput struct {
	Nombre       *string `json:"nombre"`
	Telefono     *string `json:"telefono"`
	Margen       *int    `json:"margen"`
	Banco        *string `json:"banco"`
	NumeroCuenta *string `json:"numeroCuenta"`
	TipoCuenta   *string `json:"tipoCuenta"`
	Bio          *string `json:"bio"`
	Instagram    *string `json:"instagram"`
	Whatsapp     *string `json:"whatsapp"`
}

// Update applies the provided fields to the user's profile.
func (s *ProfileService) Update(ctx context.Context, userID int, in UpdateInput) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrUserNotFound
		}
		return nil, err
	}

	if in.Nombre != nil {
		user.Nombre = *in.Nombre
	}
	if in.Telefono != nil {
		user.Telefono = *in.Telefono
	}
	if in.Margen != nil && *in.Margen >= 0 {
		user.Margen = *in.Margen
	}
	if in.Banco != nil {
		user.Banco = *in.Banco
	}
	if in.NumeroCuenta != nil {
		user.NumeroCuenta = *in.NumeroCuenta
	}
	if in.TipoCuenta != nil {
		user.TipoCuenta = *in.TipoCuenta
	}
	if in.Bio != nil {
		user.Bio = *in.Bio
	}
	if in.Instagram != nil {
		user.Instagram = *in.Instagram
	}
	if in.Whatsapp != nil {
		user.Whatsapp = *in.Whatsapp
	}

	if err := s.users.UpdatePerfil(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UploadFoto decodes a base64 image (bare or data-URL form), stores it and
// records the resulting URL on the user. When object storage is not
// configured the decoded image is accepted but only echoed back.
func (s *ProfileService) UploadFoto(ctx context.Context, userID int, encoded string) (string, error) {
	contentType := "image/jpeg"
	payload := encoded

	// data:image/png;base64,AAAA... form
	if strings.HasPrefix(encoded, "data:") {
		header, rest, ok := strings.Cut(encoded, ",")
		if !ok {
			return "", utils.ErrInvalidImagen
		}
		payload = rest
		if ct, _, ok := strings.Cut(strings.TrimPrefix(header, "data:"), ";"); ok && ct != "" {
			contentType = ct
		}
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", err
	}

	if s.photos == nil {
		log.Warn().Int("user_id", userID).Msg("Object storage not configured, echoing photo back")
		return encoded, nil
	}

	url, err := s.photos.UploadProfilePhoto(ctx, userID, data, contentType)
	if err != nil {
		return "", err
	}
	if err := s.users.UpdateFotoURL(ctx, userID, url); err != nil {
		return "", err
	}
	return url, nil
}
