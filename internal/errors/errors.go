package errors

import (
	"errors"
	"fmt"
)

// Common error types for the consulta client
var (
	// Authentication errors
	ErrInvalidCredentials = errors.New("usuario o contraseña incorrectos")
	ErrNotAuthenticated   = errors.New("no authenticated session")

	// Session errors
	ErrSessionExpired = errors.New("session expired")

	// Pipeline errors
	ErrRateLimited = errors.New("demasiadas solicitudes, espere un momento e intente de nuevo")
	ErrUnreachable = errors.New("no se pudo conectar con el servidor")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
