package scene

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateObject checks a detector record for the fields the builder relies on.
// Failures are ErrInvalidInput.
func ValidateObject(obj SceneObject) error {
	const op = "validate object"
	if err := validate.Struct(obj); err != nil {
		return &Error{Kind: KindInvalidInput, Op: op, Message: formatValidationError(err)}
	}
	if obj.BBox.XMin() > obj.BBox.XMax() || obj.BBox.YMin() > obj.BBox.YMax() {
		return InvalidInput(op, "bbox %v is inverted", [4]int(obj.BBox))
	}
	return nil
}

// formatValidationError flattens validator output into one readable message.
func formatValidationError(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err.Error()
	}
	msgs := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		msgs = append(msgs, formatFieldError(e))
	}
	return strings.Join(msgs, "; ")
}

func formatFieldError(e validator.FieldError) string {
	field := strings.ToLower(e.Field())
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", field, e.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
