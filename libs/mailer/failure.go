package mailer

import (
	"errors"
	"net/http"
)

// DeliveryFailure is returned when a provider could not deliver a message.
// StatusCode is the HTTP status reported by the provider, or 0 when the
// provider did not report one.
type DeliveryFailure struct {
	StatusCode int
	Message    string
	Err        error
}

func (f *DeliveryFailure) Error() string { return f.Message }

func (f *DeliveryFailure) Unwrap() error { return f.Err }

// Status returns the provider status code, defaulting to 500.
func (f *DeliveryFailure) Status() int {
	if f.StatusCode < 100 || f.StatusCode > 599 {
		return http.StatusInternalServerError
	}
	return f.StatusCode
}

func asDeliveryFailure(err error) *DeliveryFailure {
	var failure *DeliveryFailure
	if errors.As(err, &failure) {
		return failure
	}
	return &DeliveryFailure{Message: err.Error(), Err: err}
}
