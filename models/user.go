package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin/binding"
	goval "github.com/go-passwd/validator"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/leebenson/conform"
	"golang.org/x/crypto/bcrypt"
)

const (
	RoleCitizen = "citizen"
	RoleAdmin   = "admin"
)

// User represents a registered citizen or administrative officer.
type User struct {
	Model
	Name       string `json:"name" binding:"required,min=2"`
	Surname    string `json:"surname"`
	Gender     string `json:"gender"`
	StateName  string `json:"state"`
	City       string `json:"city"`
	Address    string `json:"address,omitempty"`
	EmployeeID string `json:"employee_id,omitempty"`
	Mobile     string `json:"mobile"`
	Email      string `json:"email" gorm:"unique;not null" binding:"required,email"`
	Role       string `json:"role" gorm:"type:varchar(16);default:citizen"`

	// Password is compared as-is only when insecure demo mode is on;
	// otherwise it is hashed into HashedPassword and cleared.
	Password        string `json:"password,omitempty" validate:"omitempty,min=4"`
	HashedPassword  string `json:"-"`
	Points          int    `json:"points" gorm:"default:0"`
	ProfileImageURL string `json:"profile_image_url,omitempty"`
}

type SignupRequest struct {
	Name            string `json:"name" binding:"required,min=2"`
	Surname         string `json:"surname"`
	Gender          string `json:"gender"`
	State           string `json:"state" binding:"required"`
	City            string `json:"city" binding:"required"`
	Address         string `json:"address"`
	EmployeeID      string `json:"employee_id"`
	Mobile          string `json:"mobile" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
	Role            string `json:"role" binding:"required,oneof=citizen admin"`
}

type LoginRequest struct {
	Role     string `json:"role" binding:"required,oneof=citizen admin"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	UserResponse
	AccessToken string `json:"access_token"`
}

type UserResponse struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	Surname         string `json:"surname"`
	Email           string `json:"email"`
	Mobile          string `json:"mobile"`
	State           string `json:"state"`
	City            string `json:"city"`
	Role            string `json:"role"`
	Points          int    `json:"points"`
	ProfileImageURL string `json:"profile_image_url,omitempty"`
}

type EditProfileRequest struct {
	Name    string `json:"name"`
	Surname string `json:"surname"`
	Mobile  string `json:"mobile"`
	State   string `json:"state"`
	City    string `json:"city"`
	Address string `json:"address"`
}

// NewUserResponse trims a User down to its public shape.
func NewUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:              u.ID,
		Name:            u.Name,
		Surname:         u.Surname,
		Email:           u.Email,
		Mobile:          u.Mobile,
		State:           u.StateName,
		City:            u.City,
		Role:            u.Role,
		Points:          u.Points,
		ProfileImageURL: u.ProfileImageURL,
	}
}

func ValidatePassword(password string) error {
	passwordValidator := goval.New(goval.MinLength(6, errors.New("password cant be less than 6 characters")),
		goval.MaxLength(15, errors.New("password cant be more than 15 characters")))
	err := passwordValidator.Validate(password)
	return err
}

func ValidateWhiteSpaces(data interface{}) error {
	return conform.Strings(data)
}

var bindingTranslator ut.Translator

func init() {
	english := en.New()
	bindingTranslator, _ = ut.New(english, english).GetTranslator("en")
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = entranslations.RegisterDefaultTranslations(v, bindingTranslator)
	}
}

func TranslateError(err error, trans ut.Translator) (errs []error) {
	if err == nil {
		return nil
	}
	validatorErrs := err.(validator.ValidationErrors)
	for _, e := range validatorErrs {
		translatedErr := fmt.Errorf(e.Translate(trans) + "; ")
		errs = append(errs, translatedErr)
	}
	return errs
}

// BindingErrorMessage renders a request-binding failure as client-facing
// text, with field validation errors translated to plain English.
func BindingErrorMessage(err error) string {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err.Error()
	}
	var sb strings.Builder
	for _, e := range TranslateError(validationErrs, bindingTranslator) {
		sb.WriteString(e.Error())
	}
	return strings.TrimSpace(sb.String())
}

// VerifyPassword checks the supplied password against the stored hash.
func (u *User) VerifyPassword(password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(u.HashedPassword), []byte(password))
	if err != nil {
		return err
	}
	return nil
}
