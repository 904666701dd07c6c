package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrUnauthorized        = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrForbidden           = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrPlatformNotLinked   = NewDomainError("PLATFORM_NOT_CONNECTED", "Marketplace is not connected for this branch - connect it first")
	ErrSyncAlreadyRunning  = NewDomainError("SYNC_IN_PROGRESS", "A synchronization is already running for this branch")
	ErrVehicleUnassigned   = NewDomainError("VEHICLE_WITHOUT_BRANCH", "Vehicle is not assigned to any branch")
	ErrVehicleNotAvailable = NewDomainError("VEHICLE_NOT_AVAILABLE", "Vehicle is not available for listing")
)
