package config

import (
	"sync"

	"github.com/grovetools/ratedesk/errors"
	"github.com/grovetools/ratedesk/schema"
)

var (
	schemaOnce      sync.Once
	schemaValidator *schema.Validator
	schemaErr       error
)

// validateSchema checks a parsed document against the embedded ratedesk.yml
// schema. The schema is compiled on first use.
func validateSchema(cfg *Config) error {
	schemaOnce.Do(func() {
		schemaValidator, schemaErr = schema.NewValidator()
	})
	if schemaErr != nil {
		return errors.Wrap(schemaErr, errors.ErrCodeInternal, "embedded config schema does not compile")
	}
	if err := schemaValidator.Validate(cfg); err != nil {
		return errors.Wrap(err, errors.ErrCodeConfigInvalid, "schema validation failed")
	}
	return nil
}
