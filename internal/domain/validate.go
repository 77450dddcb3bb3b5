package domain

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"kanban_api/internal/perrors"

	"github.com/go-playground/validator/v10"
)

// Input structs carry gin-style `binding` tags. The same rules run in the
// HTTP binder and again in the services, so non-HTTP callers get the same
// messages.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	UseJSONNames(v)
	return v
}

// UseJSONNames makes v report fields by their json names.
func UseJSONNames(v *validator.Validate) {
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		switch name {
		case "-":
			return ""
		case "":
			return f.Name
		}
		return name
	})
}

// Validate checks in against its binding tags.
func Validate(in any) error {
	return ValidationError(validate.Struct(in))
}

var fieldLabels = map[string]string{
	"password":    "Password",
	"newPassword": "New password",
}

// ValidationError turns validator failures into a single client message.
// Missing fields win over every other rule and are listed together, in
// declaration order. Other errors pass through untouched.
func ValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	var missing []string
	var first error
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			missing = append(missing, fe.Field())
			continue
		}
		if first == nil {
			first = ruleError(fe)
		}
	}
	if len(missing) > 0 {
		return perrors.Validation("Missing required fields: " + strings.Join(missing, ", "))
	}
	return first
}

func ruleError(fe validator.FieldError) error {
	label, ok := fieldLabels[fe.Field()]
	if !ok {
		label = fe.Field()
	}
	switch fe.Tag() {
	case "min":
		return perrors.Validationf("%s must be at least %s characters", label, fe.Param())
	case "oneof":
		if fe.Field() == "priority" {
			return errInvalidPriority
		}
		return perrors.Validationf("Invalid %s. Must be %s", label, listOr(strings.Fields(fe.Param())))
	}
	return perrors.Validationf("Invalid %s", label)
}

// listOr renders "a, b, or c".
func listOr(words []string) string {
	switch len(words) {
	case 0:
		return ""
	case 1:
		return words[0]
	case 2:
		return words[0] + " or " + words[1]
	}
	return fmt.Sprintf("%s, or %s", strings.Join(words[:len(words)-1], ", "), words[len(words)-1])
}
