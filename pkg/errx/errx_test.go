package errx

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestRegistryNewCarriesDefinition(t *testing.T) {
	reg := NewRegistry("TEST")
	code := reg.Register("MISSING", TypeValidation, http.StatusBadRequest, "Something is missing")

	err := reg.New(code).WithDetail("field", "job_id")

	if err.Code != "TEST.MISSING" {
		t.Fatalf("unexpected code: %s", err.Code)
	}
	if err.HTTPStatus != http.StatusBadRequest {
		t.Fatalf("unexpected status: %d", err.HTTPStatus)
	}
	if err.Details["field"] != "job_id" {
		t.Fatalf("detail not attached: %v", err.Details)
	}

	// each New call must be independent
	other := reg.New(code)
	if len(other.Details) != 0 {
		t.Fatalf("details leaked between instances: %v", other.Details)
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	reg := NewRegistry("DUP")
	reg.Register("A", TypeInternal, http.StatusInternalServerError, "a")

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on duplicate registration")
		}
	}()
	reg.Register("A", TypeInternal, http.StatusInternalServerError, "a")
}

func TestWrapKeepsExistingClassification(t *testing.T) {
	reg := NewRegistry("WRAP")
	code := reg.Register("CLOSED", TypeConflict, http.StatusConflict, "Closed")
	original := reg.New(code)

	wrapped := Wrap(fmt.Errorf("context: %w", original), "outer", TypeInternal)
	if wrapped.Code != code {
		t.Fatalf("expected %s, got %s", code, wrapped.Code)
	}

	plain := errors.New("boom")
	w := Wrap(plain, "failed", TypeUnavailable)
	if w.HTTPStatus != http.StatusServiceUnavailable {
		t.Fatalf("unexpected status: %d", w.HTTPStatus)
	}
	if !errors.Is(w, plain) {
		t.Fatal("cause not reachable through Unwrap")
	}
	if Wrap(nil, "x", TypeInternal) != nil {
		t.Fatal("wrapping nil must return nil")
	}
}

func TestIsCodeAndResponse(t *testing.T) {
	reg := NewRegistry("RESP")
	code := reg.Register("GONE", TypeNotFound, http.StatusNotFound, "It is gone")
	err := fmt.Errorf("layer: %w", reg.NewWithCause(code, errors.New("sql: no rows")))

	if !IsCode(err, code) {
		t.Fatal("IsCode should see through wrapping")
	}
	if !IsType(err, TypeNotFound) {
		t.Fatal("IsType should see through wrapping")
	}

	e, _ := As(err)
	body := e.ToHTTPResponse()
	if body["message"] != "It is gone" {
		t.Fatalf("unexpected message: %v", body["message"])
	}
	if _, leaked := body["cause"]; leaked {
		t.Fatal("cause must not be rendered")
	}
}

func TestRetryable(t *testing.T) {
	cases := map[Type]bool{
		TypeUnavailable: true,
		TypeExternal:    true,
		TypeValidation:  false,
		TypeNotFound:    false,
		TypeBusiness:    false,
	}
	for typ, want := range cases {
		if got := typ.Retryable(); got != want {
			t.Errorf("%s: expected %v, got %v", typ, want, got)
		}
	}
}
