package main

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/srg/cut/internal/luahost"
)

// Command-level errors
var (
	// ErrNoMatch indicates a positional filter that matches no registered test.
	ErrNoMatch = errors.New("no test names match")
)

// FormatUserError turns an error chain into a single line for the terminal.
// Validation errors list the offending fields; Lua script errors keep their
// own position information.
func FormatUserError(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, strings.ToLower(fe.Field())+" ("+fe.Tag()+")")
		}
		return "invalid configuration: " + strings.Join(fields, ", ")
	}

	var se *luahost.ScriptError
	if errors.As(err, &se) {
		return se.Error()
	}
	return err.Error()
}
