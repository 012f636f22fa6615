package ingestion

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/mamadbah2/dairyflow/internal/domain/models"
)

// ValidationError carries one message per offending form field.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, exists := e.Fields[field]; exists {
		return
	}
	e.Fields[field] = message
}

func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// accepted input layouts, most specific first
var dateLayouts = []string{models.DateLayout, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02T15:04"}

// NormalizeDate parses a calendar date in any accepted layout and renders it as YYYY-MM-DD.
func NormalizeDate(value string) (string, error) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format(models.DateLayout), nil
		}
	}
	return "", fmt.Errorf("invalid calendar date %q", value)
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("calendardate", func(fl validator.FieldLevel) bool {
		_, err := NormalizeDate(fl.Field().String())
		return err == nil
	})
	return v
}

func (i *Ingestor) check(form any) (*ValidationError, error) {
	verr := &ValidationError{}
	err := i.validate.Struct(form)
	if err == nil {
		return verr, nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return nil, fmt.Errorf("validate form: %w", err)
	}
	for _, fe := range fieldErrs {
		verr.add(fe.Field(), fieldMessage(fe))
	}
	return verr, nil
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", "))
	case "calendardate":
		return fe.Field() + " must be a calendar date (YYYY-MM-DD)"
	case "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	default:
		return fe.Field() + " is invalid"
	}
}

// trimStrings trims every string field of the struct pointed to by form.
func trimStrings(form any) {
	rv := reflect.ValueOf(form).Elem()
	for idx := 0; idx < rv.NumField(); idx++ {
		f := rv.Field(idx)
		if f.Kind() == reflect.String && f.CanSet() {
			f.SetString(strings.TrimSpace(f.String()))
		}
	}
}
