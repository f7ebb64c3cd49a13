package form

import (
	"math"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"sync"

	v10 "github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// plain decimal: no sign, exponent, hex or Inf
var pricePattern = regexp.MustCompile(`^(\d+(\.\d*)?|\.\d+)$`)

const passwordCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789@$!%*?&"

var (
	validate     *v10.Validate
	validateOnce sync.Once
)

func validator() *v10.Validate {
	validateOnce.Do(func() {
		v := v10.New()
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return strings.ToLower(f.Name)
			}
			return name
		})
		_ = v.RegisterValidation("shopemail", func(fl v10.FieldLevel) bool {
			return emailPattern.MatchString(fl.Field().String())
		})
		_ = v.RegisterValidation("password", func(fl v10.FieldLevel) bool {
			return StrongPassword(fl.Field().String())
		})
		_ = v.RegisterValidation("price", func(fl v10.FieldLevel) bool {
			return validPrice(fl.Field().String())
		})
		validate = v
	})
	return validate
}

// validPrice reports whether s is a finite, non-negative plain decimal
func validPrice(s string) bool {
	s = strings.TrimSpace(s)
	if !pricePattern.MatchString(s) {
		return false
	}
	f, err := cast.ToFloat64E(s)
	return err == nil && !math.IsInf(f, 0) && f >= 0
}

// StrongPassword reports whether s has at least 6 characters from [A-Za-z0-9@$!%*?&],
// including one lower-case and one upper-case letter
func StrongPassword(s string) bool {
	if len(s) < 6 {
		return false
	}
	var lower, upper bool
	for _, r := range s {
		if !strings.ContainsRune(passwordCharset, r) {
			return false
		}
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		}
	}
	return lower && upper
}

// FieldErrors maps a field name to its message
type FieldErrors map[string]string

// Fields returns the failing field names in order
func (fe FieldErrors) Fields() []string {
	names := make([]string, 0, len(fe))
	for k := range fe {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// ValidationError is returned by Submit when the draft fails validation; nothing was sent
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields.Fields() {
		parts = append(parts, f+": "+e.Fields[f])
	}
	return "invalid form: " + strings.Join(parts, "; ")
}

// IsValidation reports whether err is a form validation failure
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

var messages = map[string]string{
	"required":  "is required",
	"shopemail": "must be a valid email address",
	"password":  "must be at least 6 characters with one lower-case and one upper-case letter",
	"price":     "must be a number greater than or equal to 0",
	"oneof":     "must be one of: admin, sales",
	"gt":        "is required",
}

// check validates s and converts failures into FieldErrors keyed by json name
func check(s interface{}) FieldErrors {
	err := validator().Struct(s)
	if err == nil {
		return nil
	}
	var ve v10.ValidationErrors
	if !errors.As(err, &ve) {
		return FieldErrors{"": err.Error()}
	}
	out := FieldErrors{}
	for _, f := range ve {
		name := f.Field()
		// dive errors are reported as roles[0]
		if i := strings.IndexByte(name, '['); i > 0 {
			name = name[:i]
		}
		if _, seen := out[name]; seen {
			continue
		}
		out[name] = message(f)
	}
	return out
}

func message(f v10.FieldError) string {
	switch f.Tag() {
	case "min", "max":
		if f.Kind() == reflect.Slice {
			return "select at least " + f.Param()
		}
		return "must be between " + bounds(f) + " characters"
	}
	if m, ok := messages[f.Tag()]; ok {
		return m
	}
	return "is invalid"
}

var lengthBounds = map[string]string{
	"username": "4 and 50",
	"fullName": "2 and 100",
}

func bounds(f v10.FieldError) string {
	if b, ok := lengthBounds[f.Field()]; ok {
		return b
	}
	return f.Param()
}
