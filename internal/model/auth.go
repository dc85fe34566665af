package model

// Remote identity endpoints, relative to the API base URL.
const (
	EndpointLogin    = "/api/user/login"
	EndpointRegister = "/api/user/register"
)

// Credentials is the login or registration payload.
type Credentials struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is the reply of the login and register endpoints.
type AuthResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token,omitempty"`
	Message string `json:"message,omitempty"`
}
