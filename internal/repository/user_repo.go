package repository

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/revendehq/revende_api/internal/models"
	"github.com/revendehq/revende_api/internal/utils"
)

// UserRepository handles data access for users.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user. Unique violations are mapped to the
// corresponding sentinel error so concurrent registrations racing past the
// existence checks still fail cleanly.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	const q = `
        INSERT INTO users (email, password_hash, nombre, handle, cedula, telefono, margen)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, q,
		user.Email,
		user.PasswordHash,
		user.Nombre,
		user.Handle,
		user.Cedula,
		user.Telefono,
		user.Margen,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	return mapUniqueViolation(err)
}

// mapUniqueViolation translates pq unique-violation errors (23505) into the
// per-field sentinel errors, by constraint name.
func mapUniqueViolation(err error) error {
	if err == nil {
		return nil
	}
	pqErr, ok := err.(*pq.Error)
	if !ok || pqErr.Code != "23505" {
		return err
	}
	switch pqErr.Constraint {
	case "users_email_key":
		return utils.ErrEmailTaken
	case "users_handle_key":
		return utils.ErrHandleTaken
	case "users_cedula_key":
		return utils.ErrCedulaTaken
	}
	return err
}

// GetByEmail returns a user by email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `SELECT * FROM users WHERE email = $1`, email)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByHandle returns a user by public handle.
func (r *UserRepository) GetByHandle(ctx context.Context, handle string) (*models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `SELECT * FROM users WHERE handle = $1`, handle)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByID returns a user by id.
func (r *UserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `SELECT * FROM users WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ExistsByEmail reports whether a user with the given email exists.
func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, `SELECT 1 FROM users WHERE email = $1`, email)
}

// ExistsByHandle reports whether a user with the given handle exists.
func (r *UserRepository) ExistsByHandle(ctx context.Context, handle string) (bool, error) {
	return r.exists(ctx, `SELECT 1 FROM users WHERE handle = $1`, handle)
}

// ExistsByCedula reports whether a user with the given national id exists.
func (r *UserRepository) ExistsByCedula(ctx context.Context, cedula string) (bool, error) {
	return r.exists(ctx, `SELECT 1 FROM users WHERE cedula = $1`, cedula)
}

func (r *UserRepository) exists(ctx context.Context, q string, arg string) (bool, error) {
	var one int
	err := r.db.GetContext(ctx, &one, q, arg)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// UpdatePerfil updates the mutable margin/payout and social fields.
func (r *UserRepository) UpdatePerfil(ctx context.Context, user *models.User) error {
	const q = `
        UPDATE users
        SET nombre = $2, telefono = $3, margen = $4, banco = $5,
            numero_cuenta = $6, tipo_cuenta = $7, bio = $8,
            instagram = $9, whatsapp = $10, updated_at = NOW()
        WHERE id = $1
        RETURNING updated_at`

	return r.db.QueryRowxContext(ctx, q,
		user.ID,
		user.Nombre,
		user.Telefono,
		user.Margen,
		user.Banco,
		user.NumeroCuenta,
		user.TipoCuenta,
		user.Bio,
		user.Instagram,
		user.Whatsapp,
	).Scan(&user.UpdatedAt)
}

// UpdateFotoURL sets the profile photo URL.
func (r *UserRepository) UpdateFotoURL(ctx context.Context, id int, fotoURL string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET foto_url = $2, updated_at = NOW() WHERE id = $1`, id, fotoURL)
	return err
}
