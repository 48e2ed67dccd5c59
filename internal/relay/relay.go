// Package relay delivers contact submissions to the site owner through a
// third-party form relay or plain SMTP.
package relay

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"portfolio-contact/internal/config"
)

// Payload is what the visitor typed. Credentials are added by the relay.
type Payload struct {
	Name    string
	Email   string
	Message string
}

// Result is the application-level answer of the relay.
type Result struct {
	Success bool
	Message string
}

var (
	ErrNotConfigured      = errors.New("relay not configured")
	ErrMissingAccessKey   = fmt.Errorf("%w: missing access key", ErrNotConfigured)
	ErrMissingCredentials = fmt.Errorf("%w: missing smtp credentials", ErrNotConfigured)
)

// Deliverer is implemented by every relay driver.
type Deliverer interface {
	Deliver(ctx context.Context, p Payload) (Result, error)
}

// New picks the driver named by cfg.RelayDriver.
func New(cfg *config.Config) (Deliverer, error) {
	switch cfg.RelayDriver {
	case config.RelayWeb3Forms, "":
		return NewWeb3Forms(cfg, &http.Client{Timeout: cfg.RelayTimeout}), nil
	case config.RelaySMTP:
		return NewSMTP(cfg), nil
	}
	return nil, fmt.Errorf("unknown relay driver %q", cfg.RelayDriver)
}
