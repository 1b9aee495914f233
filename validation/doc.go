// Package validation validates configuration structs with
// go-playground/validator tags and reports failures as *errors.AppError
// values carrying per-field details.
//
// Field names in messages use the mapstructure tag (the configuration key),
// falling back to the json tag and then to the snake_cased Go field name.
//
// In addition to the built-in tags, "baseurl" accepts an absolute http or
// https URL with a host.
package validation
