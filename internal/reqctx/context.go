package reqctx

import (
	"context"
	"errors"
)

type contextKey string

const (
	requestIDKey contextKey = "requestID"
	phoneKey     contextKey = "phoneNumber"
)

// ErrNoRequestIDInContext is returned when no request ID is found in context
var ErrNoRequestIDInContext = errors.New("no request ID found in context")

// ErrNoPhoneInContext is returned when no phone number is found in context
var ErrNoPhoneInContext = errors.New("no phone number found in context")

// WithRequestID adds a request ID to the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestIDFromContext extracts the request ID from the context
func RequestIDFromContext(ctx context.Context) (string, error) {
	requestID, ok := ctx.Value(requestIDKey).(string)
	if !ok || requestID == "" {
		return "", ErrNoRequestIDInContext
	}
	return requestID, nil
}

// WithPhone adds the sender's WhatsApp phone number to the context
func WithPhone(ctx context.Context, phone string) context.Context {
	return context.WithValue(ctx, phoneKey, phone)
}

// PhoneFromContext extracts the sender's phone number from the context
func PhoneFromContext(ctx context.Context) (string, error) {
	phone, ok := ctx.Value(phoneKey).(string)
	if !ok || phone == "" {
		return "", ErrNoPhoneInContext
	}
	return phone, nil
}

// MustPhoneFromContext extracts the phone number from the context or panics
func MustPhoneFromContext(ctx context.Context) string {
	phone, err := PhoneFromContext(ctx)
	if err != nil {
		panic(err)
	}
	return phone
}
