package flatpak

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// fieldLabels renames fields in required-field messages
var fieldLabels = map[string]string{
	"app-id": "id (or app-id)",
}

// requiredFields runs the struct tags of v and reports every failing field
// as a *FieldError, joined in declaration order.
func requiredFields(entity string, v any) error {
	err := structValidator().Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	errs := make([]error, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		if label, ok := fieldLabels[field]; ok {
			field = label
		}
		errs = append(errs, &FieldError{Entity: entity, Field: field})
	}
	return errors.Join(errs...)
}
