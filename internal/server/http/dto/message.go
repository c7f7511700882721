package dto

// MessageResponse carries a user-facing status message.
type MessageResponse struct {
	Message string `json:"message"`
}

// FieldError describes one rejected field.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// ValidationErrorResponse lists rejected fields.
type ValidationErrorResponse struct {
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors"`
}
