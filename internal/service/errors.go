package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Error kinds. Every domain error wraps exactly one of these.
var (
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrForbidden       = errors.New("forbidden")
	ErrUnauthenticated = errors.New("authentication required")
)

var (
	ErrRecipeNotFound     = fmt.Errorf("recipe %w", ErrNotFound)
	ErrIngredientNotFound = fmt.Errorf("ingredient %w", ErrNotFound)
	ErrTagNotFound        = fmt.Errorf("tag %w", ErrNotFound)
	ErrUserNotFound       = fmt.Errorf("user %w", ErrNotFound)
	ErrNotMember          = fmt.Errorf("recipe is not in the list: %w", ErrNotFound)

	ErrAlreadyMember = fmt.Errorf("recipe is already in the list: %w", ErrConflict)
	ErrUserExists    = fmt.Errorf("user with this email or username already exists: %w", ErrConflict)

	ErrNotAuthor = fmt.Errorf("only the author can modify a recipe: %w", ErrForbidden)

	ErrInvalidCredentials = fmt.Errorf("invalid credentials: %w", ErrUnauthenticated)
	ErrInvalidToken       = fmt.Errorf("invalid token: %w", ErrUnauthenticated)
)

// ValidationError reports a rejected input field
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func newValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsValidation reports whether err is a field validation error
func IsValidation(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}

// fromValidator converts the first go-playground validation failure into a
// ValidationError keyed by its json path, e.g. "ingredients[1].amount".
func fromValidator(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}

	var msg string
	switch fe.Tag() {
	case "required":
		msg = "this field is required"
	case "min":
		msg = fmt.Sprintf("must contain at least %s item(s)", fe.Param())
	case "max":
		msg = fmt.Sprintf("must be at most %s characters", fe.Param())
	case "gte":
		msg = fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "hexcolor":
		msg = "must be a color in #RRGGBB format"
	default:
		msg = fmt.Sprintf("failed the %q rule", fe.Tag())
	}
	return newValidationError(field, msg)
}

// isUniqueViolation reports whether err was caused by a unique index
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
