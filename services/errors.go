package services

import "errors"

var (
	ErrBuildingNotFound    = errors.New("building not found")
	ErrFloorNotFound       = errors.New("floor not found")
	ErrDuplicateBuildingID = errors.New("building id already exists")
	ErrAdminExists         = errors.New("admin already exists")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidToken        = errors.New("invalid token")
	ErrUploadFailed        = errors.New("upload failed")
	ErrAssetNotFound       = errors.New("asset not found")
)

// ValidationError marks malformed or missing caller input. Controllers map it
// to a 400 with the message as-is.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func NewValidationError(message string) error {
	return &ValidationError{Message: message}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
