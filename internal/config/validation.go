package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrConfiguration marks every configuration failure. Startup must halt on it.
var ErrConfiguration = errors.New("configuration error")

// Validate checks the configuration and returns a descriptive error naming
// each offending key, e.g. "telegram.token is required".
func (c *Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	problems := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		problems = append(problems, describe(fe))
	}
	return fmt.Errorf("%w: %s", ErrConfiguration, strings.Join(problems, "; "))
}

func describe(fe validator.FieldError) string {
	key := fe.Namespace()
	if idx := strings.Index(key, "."); idx != -1 {
		key = key[idx+1:]
	}
	switch fe.Tag() {
	case "required":
		return key + " is required"
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", key, fe.Param())
	case "url":
		return key + " must be a valid URL"
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", key, fe.Param())
	default:
		return fmt.Sprintf("%s failed %q validation (param %q)", key, fe.Tag(), fe.Param())
	}
}
