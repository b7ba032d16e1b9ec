package types

// DataEnvelope is the `{ "data": ... }` wrapper used by resource endpoints.
type DataEnvelope[T any] struct {
	Data T `json:"data"`
}

// UserEnvelope is the `{ "user": ... }` wrapper used by the profile endpoints.
type UserEnvelope[T any] struct {
	User T `json:"user"`
}

// LoginEnvelope is returned by the login endpoint.
type LoginEnvelope[T any] struct {
	User  T      `json:"user"`
	Token string `json:"token"`
}

// APIError is the best-effort shape of an upstream error body.
type APIError struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// Text returns whichever message field the server populated.
func (e APIError) Text() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Error
}
