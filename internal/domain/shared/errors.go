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
	ErrNotFound         = NewDomainError("NOT_FOUND", "Resource not found")
	ErrInvalidInput     = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrUnauthorized     = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrForbidden        = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrInvalidState     = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrSessionExpired   = NewDomainError("SESSION_EXPIRED", "Session has expired, please sign in again")
	ErrNotSignedIn      = NewDomainError("NOT_SIGNED_IN", "No active session")
	ErrQuantityTooLow   = NewDomainError("QUANTITY_TOO_LOW", "Quantity cannot go below one")
	ErrTerminalStatus   = NewDomainError("TERMINAL_STATUS", "Order is in a terminal status and cannot change")
	ErrOutOfStock       = NewDomainError("OUT_OF_STOCK", "Product is out of stock")
	ErrPaymentDeclined  = NewDomainError("PAYMENT_DECLINED", "Payment was declined")
	ErrPostalCodeLookup = NewDomainError("POSTAL_CODE_LOOKUP", "Postal code could not be resolved")
)
