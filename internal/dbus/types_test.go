package dbus

import (
	"errors"
	"fmt"
	"testing"
)

func TestConnectionError(t *testing.T) {
	inner := fmt.Errorf("no owner for %s", BusName)
	err := &ConnectionError{Err: inner}

	if !errors.Is(err, inner) {
		t.Error("ConnectionError should unwrap to the inner error")
	}

	var connErr *ConnectionError
	if !errors.As(fmt.Errorf("fetch: %w", err), &connErr) {
		t.Error("errors.As should find ConnectionError through wrapping")
	}
}
