package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

func validate(conf *Configuration) error {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := fld.Tag.Get("koanf")
		if len(name) == 0 {
			name = fld.Name
		}

		return strings.SplitN(name, ",", 2)[0] // nolint: mnd
	})

	if err := v.Struct(conf); err != nil {
		return fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	return nil
}
