package service

import (
	"errors"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/nyaruka/phonenumbers"

	"hackathon-portal/internal/domain"
)

var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

const (
	minPasswordLen = 6
	// minimo en caracteres; bcrypt ignora todo lo que pase de 72 bytes.
	maxPasswordLen = 72
)

var (
	emailRule    = validation.Match(emailPattern).Error("Please enter a valid email address")
	passwordRule = validation.RuneLength(minPasswordLen, 0).Error("Password must be at least 6 characters long")
	passwordMax  = validation.Length(0, maxPasswordLen).Error("Password must be at most 72 characters long")
	genderRule   = validation.In(genderValues()...).Error("Gender must be one of Male, Female, Other")
)

// SignupInput es el esquema de entrada de POST /auth/signup.
type SignupInput struct {
	FirstName   string
	LastName    string
	Email       string
	Password    string
	Username    string
	PhoneNumber string
	Gender      string
}

// SigninInput es el esquema de entrada de POST /auth/signin.
type SigninInput struct {
	Email    string
	Password string
}

// ProfileUpdateInput es el esquema de PUT /profile/me; string vacio equivale a omitido.
type ProfileUpdateInput struct {
	FirstName   string
	LastName    string
	Email       string
	PhoneNumber string
	Gender      string
}

func (in SignupInput) normalize() SignupInput {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.TrimSpace(in.Email)
	in.Username = strings.TrimSpace(in.Username)
	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)
	in.Gender = strings.TrimSpace(in.Gender)
	return in
}

// validate devuelve el input normalizado o el primer ValidationError encontrado.
func (in SignupInput) validate(phoneRegion string) (SignupInput, error) {
	in = in.normalize()

	required := []struct {
		field, label, value string
	}{
		{"firstName", "first name", in.FirstName},
		{"lastName", "last name", in.LastName},
		{"email", "email", in.Email},
		{"password", "password", in.Password},
	}
	var missing []string
	field := ""
	for _, r := range required {
		if err := validation.Validate(r.value, validation.Required); err != nil {
			missing = append(missing, r.label)
			if field == "" {
				field = r.field
			}
		}
	}
	if len(missing) > 0 {
		return in, invalid(field, "Missing required fields: "+strings.Join(missing, ", "))
	}

	if err := validation.Validate(in.Email, emailRule); err != nil {
		return in, invalid("email", err.Error())
	}
	if err := validation.Validate(in.Password, passwordRule, passwordMax); err != nil {
		return in, invalid("password", err.Error())
	}
	if in.PhoneNumber != "" {
		phone, err := normalizePhone(in.PhoneNumber, phoneRegion)
		if err != nil {
			return in, err
		}
		in.PhoneNumber = phone
	}
	if err := validation.Validate(domain.Gender(in.Gender), genderRule); err != nil {
		return in, invalid("gender", err.Error())
	}
	return in, nil
}

func (in SigninInput) validate() (SigninInput, error) {
	in.Email = strings.TrimSpace(in.Email)
	if err := validation.Validate(in.Email, validation.Required); err != nil {
		return in, invalid("email", "Email and password are required")
	}
	if err := validation.Validate(in.Password, validation.Required); err != nil {
		return in, invalid("password", "Email and password are required")
	}
	return in, nil
}

// toUpdate valida los campos presentes y construye el ProfileUpdate parcial.
func (in ProfileUpdateInput) toUpdate(phoneRegion string) (domain.ProfileUpdate, error) {
	var update domain.ProfileUpdate

	if v := strings.TrimSpace(in.FirstName); v != "" {
		update.FirstName = &v
	}
	if v := strings.TrimSpace(in.LastName); v != "" {
		update.LastName = &v
	}
	if v := strings.TrimSpace(in.Email); v != "" {
		if err := validation.Validate(v, emailRule); err != nil {
			return update, invalid("email", err.Error())
		}
		update.Email = &v
	}
	if v := strings.TrimSpace(in.PhoneNumber); v != "" {
		phone, err := normalizePhone(v, phoneRegion)
		if err != nil {
			return update, err
		}
		update.PhoneNumber = &phone
	}
	if v := strings.TrimSpace(in.Gender); v != "" {
		g := domain.Gender(v)
		if err := validation.Validate(g, genderRule); err != nil {
			return update, invalid("gender", err.Error())
		}
		update.Gender = &g
	}
	return update, nil
}

// normalizePhone valida el numero con libphonenumber y lo devuelve en E.164.
func normalizePhone(raw, region string) (string, error) {
	if region == "" {
		region = "US"
	}
	num, err := phonenumbers.Parse(raw, strings.ToUpper(region))
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return "", invalid("phoneNumber", "Please enter a valid phone number")
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}

func genderValues() []interface{} {
	values := make([]interface{}, 0, len(domain.Genders))
	for _, g := range domain.Genders {
		values = append(values, g)
	}
	return values
}

// IsValidation reporta si err es un error de validacion de input.
func IsValidation(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}
