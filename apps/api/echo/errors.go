package echoapi

import (
	"net/http"
	"reflect"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/onlineimmigrant/eduplan/core"
	"github.com/onlineimmigrant/eduplan/core/course"
	"github.com/onlineimmigrant/eduplan/core/enrollment"
	"github.com/onlineimmigrant/eduplan/core/learner"
	"github.com/onlineimmigrant/eduplan/core/quiz"
	"github.com/onlineimmigrant/eduplan/core/studyplan"
)

var (
	errUnauthorized         = echo.NewHTTPError(http.StatusUnauthorized, "learner not authenticated")
	errAuthenticationFailed = echo.NewHTTPError(http.StatusBadRequest, "authentication failed")
	errAccountDeactivated   = echo.NewHTTPError(http.StatusForbidden, "account deactivated")
	errRefreshExpired       = echo.NewHTTPError(http.StatusForbidden, "refresh has expired")
	errHttpForbidden        = echo.NewHTTPError(http.StatusForbidden, "permission denied")
	errHttpNotFound         = echo.NewHTTPError(http.StatusNotFound, "not found")
)

// domain sentinel errors -> HTTP status
var domainErrCodes = map[error]int{
	course.ErrNotFound:              http.StatusNotFound,
	course.ErrLessonNotFound:        http.StatusNotFound,
	quiz.ErrNotFound:                http.StatusNotFound,
	learner.ErrNotFound:             http.StatusNotFound,
	studyplan.ErrPreferenceNotFound: http.StatusNotFound,
	enrollment.ErrNoEntitlement:     http.StatusForbidden,
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message interface{}

		cause := errors.Cause(err)
		switch origErr := cause.(type) {
		case *echo.HTTPError:
			if origErr == middleware.ErrJWTMissing {
				code = http.StatusUnauthorized
				message = origErr.Message
				break
			}
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			message = origErr.Message
		case validator.ValidationErrors:
			fldErrs := make(map[string]string, len(origErr))
			for _, vErr := range origErr {
				fldErrs[vErr.Field()] = vErr.Translate(translator)
			}
			code = http.StatusBadRequest
			message = fldErrs
		case *core.ValidationError:
			if origErr.Fields != nil {
				fldErrs := make(map[string]string, len(origErr.Fields))
				for _, fErr := range origErr.Fields {
					fldErrs[fErr.Field] = fErr.Error
				}
				message = fldErrs
			} else {
				message = origErr.Error()
			}
			code = http.StatusBadRequest
		default:
			// the sentinel map must only ever see comparable error types;
			// hashing a slice-backed error (eg. validator.ValidationErrors) panics
			if reflect.TypeOf(cause).Comparable() {
				if domainCode, ok := domainErrCodes[cause]; ok {
					code = domainCode
					message = cause.Error()
					break
				}
			}

			// any other error is a server error
			code = http.StatusInternalServerError
			msg := http.StatusText(http.StatusInternalServerError)
			message = msg

			var lrn learner.Learner
			if claims, cErr := getContextClaims(ctx); cErr == nil {
				lrn.ID = claims.Subject
				lrn.Username = claims.Username
				lrn.Email = claims.Email
			}
			logger.Error(msg, errors.Wrap(err, msg), lrn)

			// shutting down...
			if core.IsShutdown(err) {
				signalShutdown()
			}
		}

		if ctx.Echo().Debug {
			message = err.Error()
		} else if m, ok := message.(string); ok {
			message = echo.Map{"error": m}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, message)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}
