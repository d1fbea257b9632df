package domain

import "time"

// Gender es el enum opcional de genero declarado por el usuario.
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

// Genders lista los valores aceptados, en el orden mostrado al usuario.
var Genders = []Gender{GenderMale, GenderFemale, GenderOther}

// User es el registro de identidad. Email es unico y se compara tal cual fue guardado.
// PasswordHash queda vacio para cuentas creadas solo via OAuth.
type User struct {
	ID           string     `json:"id" bson:"_id"`
	Email        string     `json:"email" bson:"email"`
	Username     string     `json:"username,omitempty" bson:"username,omitempty"`
	FirstName    string     `json:"firstName" bson:"first_name"`
	LastName     string     `json:"lastName" bson:"last_name"`
	PhoneNumber  string     `json:"phoneNumber,omitempty" bson:"phone_number,omitempty"`
	Gender       Gender     `json:"gender,omitempty" bson:"gender,omitempty"`
	PasswordHash string     `json:"-" bson:"password_hash,omitempty"`
	GoogleID     string     `json:"-" bson:"google_id,omitempty"`
	GithubID     string     `json:"-" bson:"github_id,omitempty"`
	LastLoginAt  *time.Time `json:"lastLoginAt,omitempty" bson:"last_login_at,omitempty"`
	CreatedAt    time.Time  `json:"createdAt" bson:"created_at"`
	UpdatedAt    time.Time  `json:"updatedAt" bson:"updated_at"`
}

// HasPassword indica si la cuenta tiene credenciales locales.
func (u User) HasPassword() bool {
	return u.PasswordHash != ""
}

// PublicUser es la vista del usuario que se envia al cliente, sin secretos.
type PublicUser struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	Username    string     `json:"username,omitempty"`
	FirstName   string     `json:"firstName"`
	LastName    string     `json:"lastName"`
	PhoneNumber string     `json:"phoneNumber,omitempty"`
	Gender      Gender     `json:"gender,omitempty"`
	Providers   []string   `json:"providers,omitempty"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// Public construye la vista publica del usuario.
func (u User) Public() PublicUser {
	var providers []string
	if u.GoogleID != "" {
		providers = append(providers, ProviderGoogle)
	}
	if u.GithubID != "" {
		providers = append(providers, ProviderGitHub)
	}
	return PublicUser{
		ID:          u.ID,
		Email:       u.Email,
		Username:    u.Username,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		PhoneNumber: u.PhoneNumber,
		Gender:      u.Gender,
		Providers:   providers,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

// ProfileUpdate contiene los campos editables; nil significa "no tocar".
type ProfileUpdate struct {
	FirstName   *string
	LastName    *string
	Email       *string
	PhoneNumber *string
	Gender      *Gender
}

// Empty indica si la actualizacion no trae ningun campo.
func (p ProfileUpdate) Empty() bool {
	return p.FirstName == nil && p.LastName == nil && p.Email == nil && p.PhoneNumber == nil && p.Gender == nil
}
