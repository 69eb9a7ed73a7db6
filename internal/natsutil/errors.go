// Package natsutil classifies errors returned by the NATS client libraries.
package natsutil

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/arloliu/chring/types"
)

// IsConnectivityError reports whether err was caused by a lost or unreachable
// NATS server (timeouts, refused connections, disconnects).
//
// Kept out of types/ so that package stays free of NATS imports.
func IsConnectivityError(err error) bool {
	if err == nil {
		return false
	}

	return errors.Is(err, types.ErrConnectivity) ||
		errors.Is(err, nats.ErrTimeout) ||
		errors.Is(err, nats.ErrNoServers) ||
		errors.Is(err, nats.ErrDisconnected) ||
		errors.Is(err, nats.ErrConnectionClosed) ||
		errors.Is(err, jetstream.ErrNoStreamResponse) ||
		strings.Contains(err.Error(), "connection refused") ||
		strings.Contains(err.Error(), "i/o timeout")
}

// WrapConnectivity tags connectivity failures with types.ErrConnectivity so
// callers can match them with errors.Is. Other errors are returned unchanged.
func WrapConnectivity(err error) error {
	if err == nil || errors.Is(err, types.ErrConnectivity) || !IsConnectivityError(err) {
		return err
	}

	return fmt.Errorf("%w: %w", types.ErrConnectivity, err)
}
