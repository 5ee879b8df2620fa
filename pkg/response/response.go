package response

import (
	"encoding/json"
	"errors"
	"io"

	"go.uber.org/multierr"

	appErrors "github.com/charlesng35/expkit/pkg/errors"
	"github.com/charlesng35/expkit/pkg/validator"
)

// Response defines the machine-readable CLI payload.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

// ErrorInfo holds error details to send to consumers.
type ErrorInfo struct {
	Code    string                     `json:"code"`
	Message string                     `json:"message"`
	Cause   string                     `json:"cause,omitempty"`
	Causes  []string                   `json:"causes,omitempty"`
	Fields  validator.ValidationErrors `json:"fields,omitempty"`
}

// Success writes an indented JSON success payload.
func Success(w io.Writer, data interface{}) error {
	return write(w, Response{
		Success: true,
		Data:    data,
	})
}

// Error writes a JSON error payload derived from an AppError. Rule failures found in
// the error chain are listed field by field. When err aggregates several failures,
// Code and Message come from the first and Causes lists every one of them.
func Error(w io.Writer, err error) error {
	if err == nil {
		err = appErrors.ErrInternal
	}

	appErr := appErrors.FromError(err)
	info := &ErrorInfo{
		Code:    appErr.Code,
		Message: appErr.Message,
	}
	if appErr.Internal != nil {
		info.Cause = appErr.Internal.Error()
	}
	if errs := multierr.Errors(err); len(errs) > 1 {
		info.Causes = make([]string, len(errs))
		for i, e := range errs {
			info.Causes[i] = e.Error()
		}
	}
	var fields validator.ValidationErrors
	if errors.As(err, &fields) {
		info.Fields = fields
	}

	return write(w, Response{
		Success: false,
		Error:   info,
	})
}

func write(w io.Writer, resp Response) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}
