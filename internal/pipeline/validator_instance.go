package pipeline

import (
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	jobIDPattern   = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	toolNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)
)

// validatorInstance configures and returns the shared validator instance used
// across the pipeline package.
func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		_ = v.RegisterValidation("job_id", func(fl validator.FieldLevel) bool {
			return jobIDPattern.MatchString(fl.Field().String())
		})

		_ = v.RegisterValidation("tool_name", func(fl validator.FieldLevel) bool {
			return toolNamePattern.MatchString(fl.Field().String())
		})

		_ = v.RegisterValidation("path_ref", func(fl validator.FieldLevel) bool {
			return isValidPathRef(fl.Field().String())
		})

		validateInst = v
	})

	return validateInst
}

// GetValidator returns the configured validator instance for use outside the
// pipeline package.
func GetValidator() *validator.Validate {
	return validatorInstance()
}

// isValidPathRef performs syntactic validation of an output/input file path
// reference without touching the filesystem.
func isValidPathRef(path string) bool {
	if path == "" {
		return false
	}
	if strings.Contains(path, "\x00") {
		return false
	}
	if strings.HasPrefix(path, "/") {
		return !strings.Contains(path, "/../") && !strings.HasSuffix(path, "/..")
	}
	return true
}
