package config

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

func optionsValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		// Use yaml names in messages so they match the config file keys.
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
			if name == "" || name == "-" {
				return fld.Name
			}
			return name
		})
		_ = validate.RegisterValidation("headerline", func(fl validator.FieldLevel) bool {
			_, err := ParseHeader(fl.Field().String())
			return err == nil
		})
	})
	return validate
}

// Validate checks Options against their struct tags. The first failing field
// is reported as an *Error.
func (o *Options) Validate() error {
	err := optionsValidator().Struct(o)
	if err == nil {
		return nil
	}
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return newError("options", nil, "", err)
	}
	e := errs[0]
	return newError(e.Field(), e.Value(), ruleMessage(e), nil)
}

func ruleMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "required_if":
		return "is required when " + strings.ReplaceAll(e.Param(), " ", " is ")
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(e.Param(), " ", ", ")
	case "gte":
		return "must be >= " + e.Param()
	case "headerline":
		return "expected 'Key: Value'"
	case "url":
		return "must be a valid URL"
	default:
		return "failed rule '" + e.Tag() + "'"
	}
}
