package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/ccschool/schooladmin/core"
	"github.com/ccschool/schooladmin/core/ident"
	"github.com/ccschool/schooladmin/core/staff"
	"github.com/ccschool/schooladmin/core/student"
	"github.com/ccschool/schooladmin/services/scoresheet"
)

var (
	errHttpNotFound = echo.NewHTTPError(http.StatusNotFound, "not found")
	errMissingFile  = echo.NewHTTPError(http.StatusBadRequest, "a score sheet file is required")
)

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message interface{}

		cause := errors.Cause(err)
		var rowErr *scoresheet.RowError

		switch origErr := cause.(type) {
		case *echo.HTTPError:
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
		case *ident.InvalidDateError:
			code = http.StatusBadRequest
			message = origErr.Error()
		default:
			switch {
			case cause == student.ErrNotFound || cause == staff.ErrNotFound || cause == student.ErrTermNotFound:
				code = http.StatusNotFound
				message = cause.Error()
			case cause == student.ErrArchived:
				code = http.StatusConflict
				message = cause.Error()
			case cause == scoresheet.ErrInvalidFileFormat:
				code = http.StatusBadRequest
				message = err.Error()
			case errors.As(err, &rowErr):
				code = http.StatusBadRequest
				message = rowErr.Error()
			default: // any other error is a server error
				code = http.StatusInternalServerError
				msg := http.StatusText(http.StatusInternalServerError)
				message = msg

				logger.Error(msg, errors.Wrap(err, msg), map[string]interface{}{
					"request_id": ctx.Response().Header().Get(echo.HeaderXRequestID),
					"method":     ctx.Request().Method,
					"path":       ctx.Request().URL.Path,
				})
			}
		}

		if ctx.Echo().Debug && code == http.StatusInternalServerError {
			message = err.Error()
		}
		if m, ok := message.(string); ok {
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
