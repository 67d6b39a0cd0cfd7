package model

// RegisterRequest carries the form fields of POST /register. Documents arrive
// as multipart files and are handled outside this struct.
type RegisterRequest struct {
	Name         string `form:"name" validate:"required,max=100"`
	Email        string `form:"email" validate:"required,email,max=255"`
	Password     string `form:"password" validate:"required,max=72"`
	MobileNumber string `form:"mobile_number" validate:"omitempty,max=20"`
}

// LoginRequest accepts either JSON {email,password} or the OAuth2 password form
// where the email is sent as "username".
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// CreateAccountRequest keeps user_id as a string on the wire.
type CreateAccountRequest struct {
	UserID      string `json:"user_id" validate:"required,numeric"`
	AccountType string `json:"acc_type" validate:"required,max=50"`
}
