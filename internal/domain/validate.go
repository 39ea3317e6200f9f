package domain

import (
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var mobilePattern = regexp.MustCompile(`^[0-9]{10}$`)

// FieldError is a single inline form error.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors is returned when a form fails client-side checks. It
// never reaches the network layer.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, fe := range v {
		msgs[i] = fe.Field + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Messages keyed by "field.tag" take precedence over the per-tag defaults.
var fieldMessages = map[string]string{
	"name.required":           "Name is required",
	"name.nonblank":           "Name is required",
	"mobileNumber.mobile":     "Please enter a valid 10-digit mobile number",
	"email.required":          "Please enter a valid email address",
	"email.email":             "Please enter a valid email address",
	"password.min":            "Password must be at least 6 characters",
	"password.required":       "Password is required",
	"newPassword.min":         "Password must be at least 6 characters",
	"confirmPassword.eqfield": "Passwords do not match",
	"cropName.required":       "Crop name is required",
	"cropName.nonblank":       "Crop name is required",
	"quantity.gt":             "Valid quantity is required",
	"pricePerUnit.gt":         "Valid price is required",
	"harvestDate.required":    "Harvest date is required",
	"harvestDate.datetime":    "Harvest date must be YYYY-MM-DD",
	"roles.required":          "User must have at least one role",
	"landSize.gt":             "Valid land size is required",
	"state.oneof_state":       "Please select a valid state",
	"soilType.oneof_soil":     "Please select a valid soil type",
	"cropId.gt":               "Valid crop is required",
	"token.required":          "Reset token is required",
	"token.nonblank":          "Reset token is required",
}

var tagMessages = map[string]string{
	"required": "is required",
	"nonblank": "is required",
	"gt":       "must be greater than zero",
	"min":      "is too short",
	"email":    "must be a valid email address",
	"mobile":   "must be a 10-digit mobile number",
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func formValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(jsonFieldName)
		_ = v.RegisterValidation("mobile", func(fl validator.FieldLevel) bool {
			return mobilePattern.MatchString(fl.Field().String())
		})
		_ = v.RegisterValidation("nonblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
		_ = v.RegisterValidation("oneof_state", func(fl validator.FieldLevel) bool {
			return isState(fl.Field().String())
		})
		_ = v.RegisterValidation("oneof_soil", func(fl validator.FieldLevel) bool {
			return isSoilType(fl.Field().String())
		})
		validate = v
	})
	return validate
}

func jsonFieldName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "" || name == "-" {
		return strings.ToLower(f.Name[:1]) + f.Name[1:]
	}
	return name
}

// Validate runs the form rules on v, which must be a struct or a pointer to
// one. It returns ValidationErrors with one entry per failing field, in
// field order.
func Validate(v any) error {
	err := formValidator().Struct(v)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	out := make(ValidationErrors, 0, len(verrs))
	seen := make(map[string]bool, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		if seen[field] {
			continue
		}
		seen[field] = true
		out = append(out, FieldError{Field: field, Message: messageFor(field, fe.Tag())})
	}
	return out
}

func messageFor(field, tag string) string {
	if msg, ok := fieldMessages[field+"."+tag]; ok {
		return msg
	}
	if msg, ok := tagMessages[tag]; ok {
		return field + " " + msg
	}
	return field + " is invalid"
}

// ValidateMobileNumber reports whether s is a 10-digit mobile number.
func ValidateMobileNumber(s string) bool {
	return mobilePattern.MatchString(s)
}
