package client

import (
	"fmt"
	"net/http"
)

// ErrorClass represents a classification of Raydium request failures.
type ErrorClass string

const (
	// ErrorClassClient represents 4xx responses.
	ErrorClassClient ErrorClass = "client"

	// ErrorClassServer represents 5xx responses.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassNetwork represents transport errors and timeouts.
	ErrorClassNetwork ErrorClass = "network"

	// ErrorClassDecode represents a response body that is not a listing envelope.
	ErrorClassDecode ErrorClass = "decode"

	// ErrorClassAPI represents an envelope with success=false.
	ErrorClassAPI ErrorClass = "api"

	// ErrorClassUnexpected represents any other non-2xx status, such as an
	// unfollowed 3xx.
	ErrorClassUnexpected ErrorClass = "unexpected"
)

// APIError is a failed Raydium request with its classification.
type APIError struct {
	StatusCode int
	ErrorClass ErrorClass
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("raydium %s error (status %d): %s: %v",
			e.ErrorClass, e.StatusCode, e.Message, e.Err)
	}
	return fmt.Sprintf("raydium %s error (status %d): %s",
		e.ErrorClass, e.StatusCode, e.Message)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *APIError) Unwrap() error {
	return e.Err
}

// classifyError categorizes a transport error or an unsuccessful response.
func classifyError(resp *http.Response, err error) ErrorClass {
	if err != nil {
		return ErrorClassNetwork
	}
	if resp == nil {
		return ""
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return ""
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return ErrorClassClient
	case resp.StatusCode >= 500:
		return ErrorClassServer
	default:
		return ErrorClassUnexpected
	}
}
