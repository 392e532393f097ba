package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/ariefcatur/go-food-orders/internal/apperr"
	"github.com/ariefcatur/go-food-orders/internal/logger"
	"github.com/go-playground/validator/v10"
)

type errorEnvelope struct {
	Error apiError `json:"error"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" || tag == "-" {
			return f.Name
		}
		return tag
	})
	return v
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps typed errors to their status; anything untyped is a 500
// whose cause stays in the log only.
func writeError(ctx context.Context, log *logger.Logger, w http.ResponseWriter, err error) {
	typed := apperr.As(err)
	if typed == nil {
		typed = apperr.Wrap(apperr.CodeInternal, err, "unexpected error")
	}
	meta := apperr.MetadataFor(typed.Code())

	body := apiError{Code: string(typed.Code()), Message: meta.PublicMessage}
	switch typed.Code() {
	case apperr.CodeInternal, apperr.CodeDependency:
	default:
		if m := typed.Message(); m != "" {
			body.Message = m
		}
	}
	if meta.DetailsAllowed {
		body.Details = typed.Details()
	}

	if meta.HTTPStatus >= http.StatusInternalServerError {
		d := apperr.Dump(err)
		log.Error(log.WithFields(ctx, map[string]any{
			"error_code":    d.Code,
			"error_chain":   d.Chain,
			"pg_code":       d.PGCode,
			"pg_constraint": d.PGConstraint,
		}), "request.error", err)
	} else {
		log.Debug(log.WithField(ctx, "error_code", typed.Code()), "request.rejected")
	}
	writeJSON(w, meta.HTTPStatus, errorEnvelope{Error: body})
}

func decodeJSON(r *http.Request, dest any) error {
	defer func() { _, _ = io.Copy(io.Discard, r.Body) }()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		if errors.Is(err, io.EOF) {
			return apperr.New(apperr.CodeValidation, "request body is empty")
		}
		return apperr.Wrap(apperr.CodeValidation, err, "invalid request body").
			WithDetails(map[string]any{"error": err.Error()})
	}
	if err := validate.Struct(dest); err != nil {
		return validationError(err)
	}
	return nil
}

func validationError(err error) *apperr.Error {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return apperr.Wrap(apperr.CodeValidation, err, "validation failed")
	}
	details := map[string]string{}
	for _, fe := range errs {
		details[fe.Field()] = validationMessage(fe)
	}
	return apperr.New(apperr.CodeValidation, "validation failed").WithDetails(details)
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of %s", fe.Param())
	}
	return "is invalid"
}
