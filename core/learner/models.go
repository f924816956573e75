package learner

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/onlineimmigrant/eduplan/core"
)

// Roles
const (
	RoleAdmin   = "admin:"
	RoleStudent = "student:"
)

var AllRoles = []string{RoleAdmin, RoleStudent}

type Learner struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	IsActive     bool      `json:"is_active"`
	Roles        []string  `json:"roles"`
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"created_at"` // UTC
	UpdatedAt    time.Time `json:"updated_at"` // UTC
	LastLogin    time.Time `json:"last_login"` // UTC
}

func (l *Learner) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	l.PasswordHash = hash
	return nil
}

func (l *Learner) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(l.PasswordHash, []byte(pwd))
}

func (l *Learner) roleStartsWith(prefix string) bool {
	for _, role := range l.Roles {
		if strings.HasPrefix(role, prefix) {
			return true
		}
	}
	return false
}

func (l *Learner) IsAdmin() bool {
	return l.roleStartsWith(RoleAdmin)
}

func (l *Learner) IsStudent() bool {
	return l.roleStartsWith(RoleStudent)
}

// NewLearner contains information needed to create a new Learner.
type NewLearner struct {
	Name            string   `json:"name" validate:"required"`
	Username        string   `json:"username" validate:"omitempty,min=6,alphanum_"`
	Email           string   `json:"email" validate:"required,email"`
	Password        string   `json:"password" validate:"required"`
	PasswordConfirm string   `json:"password_confirm" validate:"required,eqfield=Password"`
	Roles           []string `json:"roles"`
}

func (nl *NewLearner) Validate(validate *validator.Validate, svc *Service) error {
	nl.Name = core.CleanString(nl.Name)
	nl.Username = core.CleanString(nl.Username, true /* lower */)
	nl.Email = core.CleanString(nl.Email, true /* lower */)

	if err := validate.Struct(nl); err != nil {
		return err
	}
	return svc.checkUniqueness(nl.Username, nl.Email)
}

type ResetLearnerPassword struct {
	Token           string `json:"token,omitempty" validate:"required"`
	UID             string `json:"uid,omitempty" validate:"required"`
	Password        string `json:"password,omitempty" validate:"required"`
	PasswordConfirm string `json:"password_confirm,omitempty" validate:"required,eqfield=Password"`
}

func (rp ResetLearnerPassword) Validate(validate *validator.Validate) error {
	return validate.Struct(rp)
}
