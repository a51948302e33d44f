package model

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlationId,omitempty"`
}

// ErrorKind classifies a domain error for the caller.
type ErrorKind string

const (
	// KindValidation is malformed input; nothing was mutated.
	KindValidation ErrorKind = "validation"
	// KindState means the governing entity does not allow the operation right now.
	KindState ErrorKind = "state"
	// KindConflict means the operation collides with an existing record.
	KindConflict ErrorKind = "conflict"
)

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON          = "INVALID_JSON"
	ErrCodeInvalidParameter     = "INVALID_PARAMETER"
	ErrCodeInvalidPhone         = "INVALID_PHONE"
	ErrCodeMissingFields        = "MISSING_FIELDS"
	ErrCodeMalformedCode        = "MALFORMED_CODE"
	ErrCodeNoActiveChallenge    = "NO_ACTIVE_CHALLENGE"
	ErrCodeChallengeExpired     = "CHALLENGE_EXPIRED"
	ErrCodeCodeMismatch         = "CODE_MISMATCH"
	ErrCodeAccountExists        = "ACCOUNT_ALREADY_EXISTS"
	ErrCodeAccountNotFound      = "ACCOUNT_NOT_FOUND"
	ErrCodeEmptyCart            = "EMPTY_CART"
	ErrCodeNotAuthenticated     = "NOT_AUTHENTICATED"
	ErrCodeProductNotFound      = "PRODUCT_NOT_FOUND"
	ErrCodeOutOfStock           = "OUT_OF_STOCK"
	ErrCodeInvalidQuantity      = "INVALID_QUANTITY"
	ErrCodeInvalidPaymentMethod = "INVALID_PAYMENT_METHOD"
	ErrCodeInvalidPurpose       = "INVALID_PURPOSE"
	ErrCodeOrderNotFound        = "ORDER_NOT_FOUND"
	ErrCodePaymentDeclined      = "PAYMENT_DECLINED"
	ErrCodeUnauthorised         = "UNAUTHORIZED"
	ErrCodeInternalError        = "INTERNAL_ERROR"
)

// DomainError is a business rule violation reported back to the caller.
type DomainError struct {
	Kind    ErrorKind
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(kind ErrorKind, code, message string) *DomainError {
	return &DomainError{
		Kind:    kind,
		Code:    code,
		Message: message,
	}
}

// Validation errors
var (
	ErrInvalidPhone         = NewDomainError(KindValidation, ErrCodeInvalidPhone, "Please enter a valid 10-digit mobile number")
	ErrMissingFields        = NewDomainError(KindValidation, ErrCodeMissingFields, "Please fill all required fields")
	ErrMalformedCode        = NewDomainError(KindValidation, ErrCodeMalformedCode, "Please enter 6-digit OTP")
	ErrInvalidQuantity      = NewDomainError(KindValidation, ErrCodeInvalidQuantity, "Quantity must be greater than zero")
	ErrInvalidPaymentMethod = NewDomainError(KindValidation, ErrCodeInvalidPaymentMethod, "Payment method must be whatsapp, online or cod")
	ErrInvalidPurpose       = NewDomainError(KindValidation, ErrCodeInvalidPurpose, "Purpose must be login or signup")
)

// State errors
var (
	ErrNoActiveChallenge = NewDomainError(KindState, ErrCodeNoActiveChallenge, "No OTP pending. Please request a new one.")
	ErrChallengeExpired  = NewDomainError(KindState, ErrCodeChallengeExpired, "OTP expired. Please request again.")
	ErrCodeMismatch      = NewDomainError(KindState, ErrCodeCodeMismatch, "Invalid OTP. Please try again.")
	ErrAccountNotFound   = NewDomainError(KindState, ErrCodeAccountNotFound, "No account for this mobile number. Please sign up.")
	ErrEmptyCart         = NewDomainError(KindState, ErrCodeEmptyCart, "Your cart is empty")
	ErrNotAuthenticated  = NewDomainError(KindState, ErrCodeNotAuthenticated, "Please login to proceed with checkout")
	ErrProductNotFound   = NewDomainError(KindState, ErrCodeProductNotFound, "Product not found")
	ErrOutOfStock        = NewDomainError(KindState, ErrCodeOutOfStock, "Not enough items available in stock")
	ErrOrderNotFound     = NewDomainError(KindState, ErrCodeOrderNotFound, "Order not found")
	ErrPaymentDeclined   = NewDomainError(KindState, ErrCodePaymentDeclined, "Payment could not be completed")
)

// Conflict errors
var (
	ErrAccountAlreadyExists = NewDomainError(KindConflict, ErrCodeAccountExists, "User already exists. Please login instead.")
)
