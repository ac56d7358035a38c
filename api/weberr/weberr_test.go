package weberr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/irsalhamdi/course-shop/api/weberr"
)

func TestStatusAndMessage(t *testing.T) {
	cause := errors.New("cause")

	tests := []struct {
		err    error
		status int
	}{
		{weberr.NotFound(cause), http.StatusNotFound},
		{weberr.Forbidden(cause), http.StatusForbidden},
		{weberr.BadRequest(cause), http.StatusBadRequest},
		{weberr.NotAuthorized(cause), http.StatusUnauthorized},
		{fmt.Errorf("wrapped: %w", weberr.NotFound(cause)), http.StatusNotFound},
		{cause, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := weberr.Status(tt.err); got != tt.status {
			t.Errorf("%v: got status %d, want %d", tt.err, got, tt.status)
		}
		if msg := weberr.Message(tt.err); msg == "" || msg == cause.Error() {
			t.Errorf("%v: unexpected message %q", tt.err, msg)
		}
		if !errors.Is(tt.err, cause) {
			t.Errorf("%v: cause lost", tt.err)
		}
	}
}

func TestFields(t *testing.T) {
	err := weberr.NotFound(errors.New("cause"), weberr.WithFields(map[string]interface{}{"course_id": "c1"}))

	f, ok := weberr.Fields(err)
	if !ok || f["course_id"] != "c1" {
		t.Fatalf("got %v %v", f, ok)
	}
}
