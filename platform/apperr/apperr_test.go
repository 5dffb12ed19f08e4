package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  *Error
		want int
	}{
		{NotFound("x"), http.StatusNotFound},
		{Validation("x"), http.StatusBadRequest},
		{BadRequest("x"), http.StatusBadRequest},
		{Conflict("x"), http.StatusConflict},
		{Unavailable("x"), http.StatusServiceUnavailable},
		{Internal("x"), http.StatusInternalServerError},
		{New(KindUnknown, "x"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		if got := tc.err.HTTPStatus(); got != tc.want {
			t.Errorf("kind %d: expected %d, got %d", tc.err.Kind, tc.want, got)
		}
	}
}

func TestGetKindFollowsWrappedChain(t *testing.T) {
	base := Conflict("cannot pause a draft campaign")
	wrapped := fmt.Errorf("pause: %w", base)

	if !Is(wrapped, KindConflict) {
		t.Fatalf("expected wrapped error to report KindConflict")
	}
	if GetKind(errors.New("plain")) != KindUnknown {
		t.Fatalf("expected plain error to be KindUnknown")
	}
}

func TestErrorMessageIncludesOp(t *testing.T) {
	err := NotFound("lead not found").WithOp("leads.Get")
	if err.Error() != "leads.Get: lead not found" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}
