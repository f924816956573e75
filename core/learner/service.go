package learner

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	pkgerrors "github.com/pkg/errors"

	"github.com/onlineimmigrant/eduplan/core"
)

var (
	// errors
	ErrNotFound       = errors.New("learner not found")
	ErrEmailExists    = errors.New("a learner with this email already exists")
	ErrUsernameExists = errors.New("a learner with this username already exists")
)

type (
	Repository interface {
		CheckUsernameUniqueness(ctx context.Context, username, email string, excluded ...Learner) error
		CreateLearner(ctx context.Context, l Learner) (Learner, error)
		GetLearnerByID(ctx context.Context, id string) (Learner, error)
		GetLearnerByUsernameOrEmail(ctx context.Context, username string) (Learner, error)
		UpdateLearner(ctx context.Context, l Learner) (Learner, error)
	}

	Service struct {
		repo    Repository
		mailSvc core.EmailService
	}
)

func NewService(repo Repository, mailSvc core.EmailService) *Service {
	secretKey = core.Conf.SecretKey
	passwordResetTimeoutDelta = core.Conf.Server.PasswordResetTimeoutDelta
	return &Service{repo: repo, mailSvc: mailSvc}
}

func (svc *Service) checkUniqueness(uname, email string, excl ...Learner) error {
	if err := svc.repo.CheckUsernameUniqueness(context.Background(), uname, email, excl...); err != nil {
		var field string
		switch err {
		case ErrUsernameExists:
			field = "username"
		case ErrEmailExists:
			field = "email"
		default:
			return err
		}
		return core.NewValidationError(err, core.FieldError{Field: field, Error: err.Error()})
	}
	return nil
}

func (svc *Service) Create(ctx context.Context, nl NewLearner) (Learner, error) {
	now := time.Now().UTC()
	l := Learner{
		Name:      nl.Name,
		Username:  nl.Username,
		Email:     nl.Email,
		IsActive:  true,
		Roles:     nl.Roles,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if len(l.Roles) == 0 {
		l.Roles = []string{RoleStudent}
	}
	if err := l.SetPassword(nl.Password); err != nil {
		return Learner{}, err
	}
	return svc.repo.CreateLearner(ctx, l)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Learner, error) {
	return svc.repo.GetLearnerByID(ctx, id)
}

func (svc *Service) GetByUsernameOrEmail(ctx context.Context, uname string) (Learner, error) {
	return svc.repo.GetLearnerByUsernameOrEmail(ctx, core.CleanString(uname, true /* lower */))
}

func (svc *Service) SetLastLogin(ctx context.Context, l Learner) (Learner, error) {
	l.LastLogin = time.Now().UTC()
	return svc.repo.UpdateLearner(ctx, l)
}

// RequestPasswordReset emails a signed reset link to the learner.
func (svc *Service) RequestPasswordReset(ctx context.Context, email string) error {
	l, err := svc.GetByUsernameOrEmail(ctx, email)
	if err != nil {
		return err
	}

	token := makeToken(l)
	url := fmt.Sprintf("%s/password-reset?uid=%s&token=%s", core.Conf.FrontendBaseURL, EncodeUID(l), token)
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: l.Name, Address: l.Email}},
		Subject: "Password Reset",
		BodyStr: fmt.Sprintf(
			"You're receiving this email because you requested a password reset "+
				"for your account.\n\nPlease go to the following page and choose a new password:\n\n%s", url),
	})
	return nil
}

// ResetPassword sets a new password after verifying the reset token.
func (svc *Service) ResetPassword(ctx context.Context, rp ResetLearnerPassword) error {
	id, err := decodeUID(rp.UID)
	if err != nil {
		return core.NewValidationError(errInvalidToken)
	}
	l, err := svc.GetByID(ctx, id)
	if err != nil {
		if pkgerrors.Cause(err) == ErrNotFound {
			return core.NewValidationError(errInvalidToken)
		}
		return pkgerrors.Wrap(err, "finding learner by ID")
	}
	if err := verifyToken(l, rp.Token); err != nil {
		return core.NewValidationError(err)
	}

	if err := l.SetPassword(rp.Password); err != nil {
		return pkgerrors.Wrap(err, "setting password")
	}
	l.UpdatedAt = time.Now().UTC()
	if _, err := svc.repo.UpdateLearner(ctx, l); err != nil {
		return pkgerrors.Wrap(err, "updating learner")
	}
	return nil
}
