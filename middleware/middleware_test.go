package middleware

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type requestObservation struct {
	method string
	route  string
	status int
}

type fakeObserver struct {
	mu    sync.Mutex
	calls []requestObservation
}

func (f *fakeObserver) ObserveHTTPRequest(method, route string, status int, _ time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, requestObservation{method: method, route: route, status: status})
}

func newTestApp(logger *slog.Logger, observer RequestObserver) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error(), "request_id": GetRequestID(c)})
		},
	})
	app.Use(StructuredLogger(logger), Metrics(observer), Security())

	app.Get("/api/notes/:id", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"id": c.Params("id"), "request_id": GetRequestID(c)})
	})
	app.Post("/api/notes", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusCreated)
	})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return errors.New("store unavailable")
	})
	return app
}

func TestStructuredLogger_RequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	app := newTestApp(logger, &fakeObserver{})

	t.Run("Generated when absent", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/notes/1", nil), -1)
		require.NoError(t, err)

		id := resp.Header.Get(fiber.HeaderXRequestID)
		_, err = uuid.Parse(id)
		assert.NoError(t, err)
		assert.Contains(t, buf.String(), id)
		assert.Contains(t, buf.String(), `"msg":"request completed"`)
	})

	t.Run("Valid incoming id is kept", func(t *testing.T) {
		incoming := uuid.New().String()
		req := httptest.NewRequest(http.MethodGet, "/api/notes/1", nil)
		req.Header.Set(fiber.HeaderXRequestID, incoming)

		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, incoming, resp.Header.Get(fiber.HeaderXRequestID))
	})

	t.Run("Garbage incoming id is replaced", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/notes/1", nil)
		req.Header.Set(fiber.HeaderXRequestID, "<script>")

		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.NotEqual(t, "<script>", resp.Header.Get(fiber.HeaderXRequestID))
	})

	t.Run("Errors are logged at error level", func(t *testing.T) {
		buf.Reset()
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.Contains(t, buf.String(), `"level":"ERROR"`)
		assert.Contains(t, buf.String(), "store unavailable")
	})
}

func TestMetrics_RouteLabels(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	observer := &fakeObserver{}
	app := newTestApp(logger, observer)

	for _, target := range []string{"/api/notes/1", "/api/notes/2", "/boom", "/nowhere"} {
		_, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil), -1)
		require.NoError(t, err)
	}

	assert.Equal(t, []requestObservation{
		{method: "GET", route: "/api/notes/:id", status: 200},
		{method: "GET", route: "/api/notes/:id", status: 200},
		{method: "GET", route: "/boom", status: 500},
		{method: "GET", route: "unmatched", status: 404},
	}, observer.calls)
}

func TestMetrics_MethodLabelIsNotReused(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	observer := &fakeObserver{}
	app := newTestApp(logger, observer)

	requests := []struct {
		method string
		target string
	}{
		{method: http.MethodPost, target: "/api/notes"},
		{method: http.MethodGet, target: "/api/notes/1"},
		{method: http.MethodDelete, target: "/nowhere"},
		{method: http.MethodGet, target: "/api/notes/2"},
	}
	for _, r := range requests {
		_, err := app.Test(httptest.NewRequest(r.method, r.target, nil), -1)
		require.NoError(t, err)
	}

	assert.Equal(t, []requestObservation{
		{method: "POST", route: "/api/notes", status: 201},
		{method: "GET", route: "/api/notes/:id", status: 200},
		{method: "DELETE", route: "unmatched", status: 404},
		{method: "GET", route: "/api/notes/:id", status: 200},
	}, observer.calls)
}

func TestSecurityHeaders(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	app := newTestApp(logger, &fakeObserver{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/notes/1", nil), -1)
	require.NoError(t, err)

	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", resp.Header.Get("X-Frame-Options"))
	assert.Equal(t, "no-store", resp.Header.Get("Cache-Control"))
}
