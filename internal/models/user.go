package models

import "time"

// User represents a registered reseller.
// Sensitive fields are omitted from JSON responses.
type User struct {
	ID           int       `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Nombre       string    `db:"nombre" json:"nombre"`
	Handle       string    `db:"handle" json:"handle"`
	Cedula       string    `db:"cedula" json:"-"`
	Telefono     string    `db:"telefono" json:"telefono"`
	Margen       int       `db:"margen" json:"margen"`
	Banco        string    `db:"banco" json:"banco,omitempty"`
	NumeroCuenta string    `db:"numero_cuenta" json:"-"`
	TipoCuenta   string    `db:"tipo_cuenta" json:"-"`
	FotoURL      string    `db:"foto_url" json:"fotoUrl,omitempty"`
	Bio          string    `db:"bio" json:"bio,omitempty"`
	Instagram    string    `db:"instagram" json:"instagram,omitempty"`
	Whatsapp     string    `db:"whatsapp" json:"whatsapp,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// PublicProfile is the subset of user fields exposed on public profile pages.
type PublicProfile struct {
	Nombre    string `json:"nombre"`
	Handle    string `json:"handle"`
	FotoURL   string `json:"fotoUrl,omitempty"`
	Bio       string `json:"bio,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	Whatsapp  string `json:"whatsapp,omitempty"`
}

// PublicProfile projects the user into its public view.
func (u *User) PublicProfile() PublicProfile {
	return PublicProfile{
		Nombre:    u.Nombre,
		Handle:    u.Handle,
		FotoURL:   u.FotoURL,
		Bio:       u.Bio,
		Instagram: u.Instagram,
		Whatsapp:  u.Whatsapp,
	}
}
