package domain

import (
	"errors"
	"testing"
)

func TestParseBookingStatus(t *testing.T) {
	for _, raw := range []string{"pending", "confirmed", "done", "canceled"} {
		if _, err := ParseBookingStatus(raw); err != nil {
			t.Fatalf("parse %q: %v", raw, err)
		}
	}

	_, err := ParseBookingStatus("archived")
	if !errors.Is(err, ErrUnknownStatus) {
		t.Fatalf("expected ErrUnknownStatus, got %v", err)
	}
	// An unknown value is not the same failure as an illegal edge.
	if errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("unknown status must not report as an invalid transition")
	}
}
