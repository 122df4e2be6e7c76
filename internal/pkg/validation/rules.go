package validation

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/techhub/server/internal/pkg/apperrors"
)

// Messages maps a JSON field path to the message reported for any rule
// failing on that field. Slice elements are addressed with ".*", so
// "skills.*" covers skills[0], skills[1] and so on.
type Messages map[string]string

// Normalizer is implemented by requests that trim, lower-case or default
// their fields before validation.
type Normalizer interface {
	Normalize()
}

// MessageProvider is implemented by requests carrying their own messages.
type MessageProvider interface {
	ValidationMessages() Messages
}

var (
	validate   *validator.Validate
	indexRegex = regexp.MustCompile(`\[\d+\]`)
)

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	_ = validate.RegisterValidation("weburl", validateWebURL)
}

// validateWebURL accepts http(s) URLs with or without an explicit scheme,
// e.g. "github.com/ada" and "https://ada.dev".
func validateWebURL(fl validator.FieldLevel) bool {
	return IsWebURL(fl.Field().String())
}

// IsWebURL reports whether raw looks like a public web address.
func IsWebURL(raw string) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.ContainsAny(raw, " \t\n") {
		return false
	}
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}

	host := u.Hostname()
	if host == "localhost" {
		return true
	}
	dot := strings.LastIndex(host, ".")
	return dot > 0 && dot < len(host)-2
}

// Request normalizes req when it implements Normalizer, then validates it.
func Request(req interface{}) error {
	if n, ok := req.(Normalizer); ok {
		n.Normalize()
	}

	var msgs Messages
	if p, ok := req.(MessageProvider); ok {
		msgs = p.ValidationMessages()
	}
	return Struct(req, msgs)
}

// Struct validates s and converts failures into a *apperrors.ValidationError.
// Only the first failure per field is reported.
func Struct(s interface{}, msgs Messages) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return apperrors.NewCustomError(apperrors.ErrValidationFailed, err.Error())
	}

	verr := apperrors.NewValidationError()
	for _, fe := range validationErrors {
		field := fieldPath(fe)
		if verr.Has(field) {
			continue
		}
		verr.Add(field, messageFor(fe, field, msgs))
	}
	return verr.OrNil()
}

// fieldPath strips the root struct name from the namespace,
// "SignupRequest.socialLinks.github" becomes "socialLinks.github".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func messageFor(fe validator.FieldError, field string, msgs Messages) string {
	if msgs != nil {
		if msg, ok := msgs[field]; ok {
			return msg
		}
		if msg, ok := msgs[indexRegex.ReplaceAllString(field, ".*")]; ok {
			return msg
		}
	}
	return formatFieldError(fe, field)
}

func formatFieldError(fe validator.FieldError, field string) string {
	isString := fe.Kind() == reflect.String

	switch fe.Tag() {
	case "required", "required_if":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		if isString {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if isString {
			return fmt.Sprintf("%s cannot be more than %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s cannot be more than %s", field, fe.Param())
	case "len":
		return fmt.Sprintf("%s must be exactly %s characters", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "weburl", "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "eqfield":
		return fmt.Sprintf("%s does not match", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
