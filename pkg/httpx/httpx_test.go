package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Abraxas-365/hirehub/pkg/errx"
	"github.com/gofiber/fiber/v2"
)

func TestErrorHandlerMapsErrx(t *testing.T) {
	registry := errx.NewRegistry("HTTPX_TEST")
	code := registry.Register("GONE", errx.TypeNotFound, http.StatusNotFound, "gone")

	app := NewApp("test")
	app.Get("/errx", func(c *fiber.Ctx) error {
		return registry.New(code).WithDetail("id", "42")
	})
	app.Get("/plain", func(c *fiber.Ctx) error {
		return errors.New("boom")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/errx", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	var body map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&body)
	if body["code"] != "HTTPX_TEST.GONE" {
		t.Fatalf("unexpected body %v", body)
	}

	resp, _ = app.Test(httptest.NewRequest(http.MethodGet, "/plain", nil))
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}
}
