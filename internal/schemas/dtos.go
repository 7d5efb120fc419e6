package schemas

// ErrorDTO is a struct that represents an error response
// Error is the custom error, see CustomError
type ErrorDTO struct {
	Error CustomError `json:"error"`
}

// UserDTO is a struct that represents a user response
// It carries the public fields of a user only, the password hash is
// deliberately excluded from every response body
type UserDTO struct {
	UserId string `json:"userId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Photo  string `json:"photo"`
	Bio    string `json:"bio"`
	Phone  string `json:"phone"`
}

// AuthDTO is a struct that represents a registration or login response
// User holds the public fields of the authenticated user
// Token is the session token, also set as the session cookie
type AuthDTO struct {
	User  UserDTO `json:"user"`
	Token string  `json:"token"`
}

// LoginStatusDTO is a struct that represents a session status response
// LoggedIn reports whether the request carried a currently valid session token
type LoginStatusDTO struct {
	LoggedIn bool `json:"loggedIn"`
}

// MessageDTO is a struct that represents a plain acknowledgement response
type MessageDTO struct {
	Message string `json:"message"`
}

// MetadataDTO is a struct that represents the service metadata response
type MetadataDTO struct {
	ApiVersion string `json:"apiVersion"`
	ApiName    string `json:"apiName"`
}
