package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate reports fields by their koanf key so messages name what the
// operator actually writes in YAML or APP_* variables.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("koanf"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// Validate validates the configuration and returns an error if invalid.
// The service refuses to start on any failure.
func (c *Config) Validate() error {
	var problems []string

	if err := validate.Struct(c); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return err
		}

		for _, e := range validationErrors {
			problems = append(problems, formatFieldError(e))
		}
	}

	problems = append(problems, c.relationProblems()...)

	if len(problems) == 0 {
		return nil
	}

	return fmt.Errorf("config validation failed:\n  %s", strings.Join(problems, "\n  "))
}

// relationProblems checks constraints that span more than one field.
func (c *Config) relationProblems() []string {
	var problems []string

	if c.Server.RequestTimeout > 0 && c.Server.WriteTimeout > 0 && c.Server.RequestTimeout >= c.Server.WriteTimeout {
		problems = append(problems, fmt.Sprintf(
			"server.request_timeout (%s) must be shorter than server.write_timeout (%s)",
			c.Server.RequestTimeout, c.Server.WriteTimeout))
	}

	// Serving the post sources as static files would publish drafts.
	if c.Web.Enabled && c.Web.Dir != "" && c.Content.Dir != "" &&
		filepath.Clean(c.Web.Dir) == filepath.Clean(c.Content.Dir) {
		problems = append(problems, "web.dir must differ from content.dir")
	}

	return problems
}

func formatFieldError(e validator.FieldError) string {
	field := formatFieldPath(e.Namespace())

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "required_if":
		return fmt.Sprintf("%s is required when %s", field, e.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "hostname_port":
		return fmt.Sprintf("%s must be host:port without a scheme", field)
	case "http_url":
		return fmt.Sprintf("%s must be an absolute http or https URL", field)
	default:
		return fmt.Sprintf("%s failed validation: %s", field, e.Tag())
	}
}

// formatFieldPath turns "Config.server.read_timeout" into "server.read_timeout".
func formatFieldPath(namespace string) string {
	_, rest, found := strings.Cut(namespace, ".")
	if !found {
		return namespace
	}

	return rest
}
