package binder

import (
	"context"
	"reflect"
	"regexp"
	"time"

	"github.com/go-playground/mold/v4"
	"github.com/go-playground/validator/v10"
	"github.com/marqueehq/marquee/pkg/htmlutil"
	"github.com/marqueehq/marquee/pkg/models"
)

var (
	dateRE = regexp.MustCompile(`^\d{4}-(0[0-9]|1[0-2])-(0[0-9]|1[0-9]|2[0-9]|3[0-1])$`)
)

// dateValidator ensures the value is a real calendar date in the format
// YYYY-MM-DD, or the empty string. The empty string is allowed so that the
// validator can be used to clear out values; add `ne=` to the tag when the
// value is required.
func dateValidator(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	if !dateRE.MatchString(value) {
		return false
	}
	_, err := time.Parse(models.ReleaseDateLayout, value)
	return err == nil
}

func genreValidator(fl validator.FieldLevel) bool {
	switch fl.Field().Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return models.Genre(fl.Field().Int()).Valid()
	}
	return false
}

func roleValidator(fl validator.FieldLevel) bool {
	if fl.Field().Kind() != reflect.String {
		return false
	}
	return models.Role(fl.Field().String()).Valid()
}

// sanitizeModifier strips markup from free text, for both string and *string
// fields.
func sanitizeModifier(_ context.Context, fl mold.FieldLevel) error {
	field := fl.Field()
	if field.Kind() == reflect.Ptr {
		if field.IsNil() {
			return nil
		}
		field = field.Elem()
	}
	if field.Kind() != reflect.String || !field.CanSet() {
		return nil
	}
	field.SetString(htmlutil.Sanitize(field.String()))
	return nil
}
