package apiclient

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cast"
)

// APIError is a non-2xx answer from the backend
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// TransportError wraps a failure to exchange a request with the backend at all
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsTransport reports whether err is, or wraps, a transport failure
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// AsAPIError returns the status error carried by err, if any
func AsAPIError(err error) (*APIError, bool) {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// statusError builds the APIError for a non-2xx response. The message comes from the
// body's "message" field (string or list of strings), else "Error: <status>".
func statusError(status int, body []byte) *APIError {
	msg := ""
	var envelope map[string]interface{}
	if len(body) > 0 && json.Unmarshal(body, &envelope) == nil {
		switch v := envelope["message"].(type) {
		case string:
			msg = v
		case []interface{}:
			msg = strings.Join(cast.ToStringSlice(v), "; ")
		}
	}
	if strings.TrimSpace(msg) == "" {
		msg = fmt.Sprintf("Error: %d", status)
	}
	return &APIError{Status: status, Message: msg}
}
