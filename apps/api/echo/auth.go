package echoapi

import (
	"context"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/onlineimmigrant/eduplan/core"
	"github.com/onlineimmigrant/eduplan/core/learner"
)

var (
	// appJWTConfig is the default JWT auth middleware config.
	appJWTConfig = middleware.JWTConfig{
		SigningKey:    core.Conf.SecretKey,
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    "learnerToken",
		Claims:        new(Claims),
	}
	contextLearnerKey = "learner"
)

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.StandardClaims
	OrigIssuedAt int64    `json:"oriat,omitempty"`
	Username     string   `json:"username,omitempty"`
	Email        string   `json:"email,omitempty"`
	IsStudent    bool     `json:"is_student,omitempty"` // -> STUDENT PORTAL
	IsAdmin      bool     `json:"is_admin,omitempty"`   // -> ADMIN PORTAL
	Roles        []string `json:"roles,omitempty"`
}

func GetLearnerClaims(lrn learner.Learner, origIat ...int64) *Claims {
	now := time.Now()
	nownix := now.Unix()

	var oriat int64
	if len(origIat) > 0 {
		oriat = origIat[0]
	} else {
		oriat = nownix
	}

	claims := &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    core.Conf.AppName,
			Subject:   lrn.ID,
			Audience:  "EduPlan",
			ExpiresAt: now.Add(core.Conf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  nownix,
		},
		OrigIssuedAt: oriat,
		Username:     lrn.Username,
		Email:        lrn.Email,
		IsStudent:    lrn.IsStudent(),
		IsAdmin:      lrn.IsAdmin(),
		Roles:        lrn.Roles,
	}
	return claims
}

func authenticate(ctx context.Context, uname, pwd string, svc *learner.Service) (*Claims, error) {
	lrn, err := svc.GetByUsernameOrEmail(ctx, uname)
	if err != nil {
		if errors.Cause(err) == learner.ErrNotFound {
			return nil, errAuthenticationFailed
		}
		return nil, errors.Wrap(err, "finding learner by username or email")
	}
	if err = lrn.CheckPassword(pwd); err != nil {
		return nil, errAuthenticationFailed
	}
	if !lrn.IsActive {
		return nil, errAccountDeactivated
	}
	lrn, err = svc.SetLastLogin(ctx, lrn)
	if err != nil {
		return nil, errors.Wrap(err, "setting lastLogin")
	}
	return GetLearnerClaims(lrn), nil
}

// GenerateToken generates a signed JWT token string representing the learner Claims.
func GenerateToken(claims *Claims) (string, error) {
	method := jwt.GetSigningMethod(appJWTConfig.SigningMethod)
	token := jwt.NewWithClaims(method, claims)

	ss, err := token.SignedString(appJWTConfig.SigningKey)
	if err != nil {
		return "", errors.New("signing token")
	}
	return ss, nil
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(appJWTConfig.ContextKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

func getContextLearner(ctx echo.Context, svc *learner.Service, clms ...Claims) (learner.Learner, error) {
	if lrn, ok := ctx.Get(contextLearnerKey).(learner.Learner); ok {
		return lrn, nil
	}

	var claims Claims
	var err error
	if len(clms) > 0 {
		claims = clms[0]
	} else {
		claims, err = getContextClaims(ctx)
		if err != nil {
			return learner.Learner{}, errors.Wrap(err, "getting context claims")
		}
	}

	lrn, err := svc.GetByID(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return learner.Learner{}, errors.Wrap(err, "finding learner by ID")
	}
	ctx.Set(contextLearnerKey, lrn)
	return lrn, nil
}

func refreshToken(ctx echo.Context, svc *learner.Service) (string, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return "", errors.Wrap(err, "getting context claims")
	}

	lrn, err := getContextLearner(ctx, svc, claims)
	if err != nil {
		return "", errors.Wrap(err, "getting context learner")
	}

	// check if learner is still active
	if !lrn.IsActive {
		return "", errAccountDeactivated
	}

	// check if refresh has not expired
	expTime := time.Unix(claims.OrigIssuedAt, 0).Add(core.Conf.Server.JWTRefreshExpirationDelta)
	if time.Now().After(expTime) {
		return "", errRefreshExpired
	}

	newClaims := GetLearnerClaims(lrn, claims.OrigIssuedAt)
	token, err := GenerateToken(newClaims)
	return token, errors.Wrap(err, "generating token")
}
