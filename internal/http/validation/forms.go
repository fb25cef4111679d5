package validation

import (
	"strings"

	ozzo "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	domainauth "github.com/eduevents/eduevents-hub/internal/domain/auth"
	"github.com/eduevents/eduevents-hub/internal/domain/model"
)

// LoginForm is the POST /login body.
type LoginForm struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Normalize trims the email.
func (f *LoginForm) Normalize() { f.Email = strings.TrimSpace(f.Email) }

// Validate will run validation rules.
func (f LoginForm) Validate() error {
	return ozzo.ValidateStruct(&f,
		ozzo.Field(&f.Email,
			ozzo.Required.Error("Email is required."),
			is.Email.Error("Enter a valid email address."),
		),
		ozzo.Field(&f.Password, ozzo.Required.Error("Password is required.")),
	)
}

// Credentials converts the form to the API payload.
func (f LoginForm) Credentials() domainauth.Credentials {
	return domainauth.Credentials{Email: f.Email, Password: f.Password}
}

// RegisterForm is the POST /register body.
type RegisterForm struct {
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	AcceptTerms     bool   `json:"acceptTerms"`
}

// Normalize trims names and email; passwords are kept verbatim.
func (f *RegisterForm) Normalize() {
	f.FirstName = strings.TrimSpace(f.FirstName)
	f.LastName = strings.TrimSpace(f.LastName)
	f.Email = strings.TrimSpace(f.Email)
}

// Validate will run validation rules.
func (f RegisterForm) Validate() error {
	return ozzo.ValidateStruct(&f,
		ozzo.Field(&f.FirstName,
			ozzo.Required.Error("First name is required."),
			ozzo.Length(1, 100).Error("First name cannot exceed 100 characters."),
		),
		ozzo.Field(&f.LastName,
			ozzo.Required.Error("Last name is required."),
			ozzo.Length(1, 100).Error("Last name cannot exceed 100 characters."),
		),
		ozzo.Field(&f.Email,
			ozzo.Required.Error("Email is required."),
			is.Email.Error("Enter a valid email address."),
		),
		ozzo.Field(&f.Password, passwordRules()...),
		ozzo.Field(&f.ConfirmPassword,
			ozzo.Required.Error("Please confirm your password."),
			ozzo.By(StringEquals(f.Password, "Passwords do not match.")),
		),
		ozzo.Field(&f.AcceptTerms, ozzo.Required.Error("You must accept the terms of service.")),
	)
}

// RegisterData converts the form to the API payload.
func (f RegisterForm) RegisterData() domainauth.RegisterData {
	return domainauth.RegisterData{
		Email:     f.Email,
		Password:  f.Password,
		FirstName: f.FirstName,
		LastName:  f.LastName,
	}
}

// ProfileForm is the POST /student/profile body.
type ProfileForm struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Normalize trims both names.
func (f *ProfileForm) Normalize() {
	f.FirstName = strings.TrimSpace(f.FirstName)
	f.LastName = strings.TrimSpace(f.LastName)
}

// Validate will run validation rules.
func (f ProfileForm) Validate() error {
	return ozzo.ValidateStruct(&f,
		ozzo.Field(&f.FirstName,
			ozzo.Required.Error("First name is required."),
			ozzo.Length(1, 100).Error("First name cannot exceed 100 characters."),
		),
		ozzo.Field(&f.LastName,
			ozzo.Required.Error("Last name is required."),
			ozzo.Length(1, 100).Error("Last name cannot exceed 100 characters."),
		),
	)
}

// Update converts the form to the API payload.
func (f ProfileForm) Update() model.ProfileUpdate {
	return model.ProfileUpdate{FirstName: f.FirstName, LastName: f.LastName}
}
