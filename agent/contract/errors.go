package contract

import "errors"

var (
	ErrModelInvoke     = errors.New("model invoke failed")
	ErrSchemaViolation = errors.New("model response violates schema")
	ErrValidation      = errors.New("validation failed")
	ErrNotFound        = errors.New("not found")
	ErrUnsupported     = errors.New("unsupported operation")
)

// ErrorKind maps an error onto the failure taxonomy used in FailureRecord.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		return "ValidationError"
	case errors.Is(err, ErrNotFound):
		return "NotFoundError"
	case errors.Is(err, ErrUnsupported):
		return "UnsupportedOperation"
	case errors.Is(err, ErrModelInvoke):
		return "ModelInvokeError"
	case errors.Is(err, ErrSchemaViolation):
		return "SchemaViolation"
	default:
		return "UnhandledException"
	}
}
