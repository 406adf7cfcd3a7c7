package dtos

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var emailPattern = regexp.MustCompile(`(?i)^[A-Z0-9._%+-]+@[A-Z0-9.-]+\.[A-Z]{2,}$`)

var fieldLabels = map[string]string{
	"email":            "Email",
	"password":         "Password",
	"confirm_password": "Password confirmation",
	"role":             "Account type",
	"title":            "Title",
	"description":      "Description",
	"salary":           "Salary",
	"location":         "Location",
	"type":             "Type",
	"status":           "Status",
	"raw":              "Posting",
	"job_id":           "Job",
}

// RegisterValidators installs the portal rules on gin's validator. Call it
// once before binding any form.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("dtos: gin validator is not go-playground/validator")
	}
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v.RegisterValidation("portal_email", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
}

// ValidEmail reports whether s looks like an address the sign-in forms accept.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// FieldErrors turns a binding error into one message per form field. Errors
// that are not validation errors are reported under the "form" key.
func FieldErrors(err error) map[string]string {
	out := map[string]string{}
	if err == nil {
		return out
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out["form"] = "Invalid form submission"
		return out
	}
	for _, fe := range verrs {
		if _, seen := out[fe.Field()]; seen {
			continue
		}
		out[fe.Field()] = message(fe)
	}
	return out
}

func message(fe validator.FieldError) string {
	label, ok := fieldLabels[fe.Field()]
	if !ok {
		label = fe.Field()
	}
	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "portal_email":
		return "Invalid email"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", label, fe.Param())
	case "eqfield":
		return "Passwords do not match"
	case "numeric":
		return label + " must be a number"
	default:
		return "Invalid " + strings.ToLower(label)
	}
}
