package api

import (
	"fmt"

	"github.com/iysravet/iyscli/internal/common"
)

// ServerError is a non-2xx response. Message holds the server's message
// field when the body carried one, otherwise the rendered error falls back
// to a status-coded generic.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("server error (%d)", e.StatusCode)
}

// Is lets errors.Is match any ServerError against common.ErrServerRejected.
func (e *ServerError) Is(target error) bool {
	return target == common.ErrServerRejected
}
