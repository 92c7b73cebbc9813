package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

// RequestObserver records one observation per HTTP request.
type RequestObserver interface {
	ObserveHTTPRequest(method, route string, status int, duration time.Duration)
}

// Metrics labels requests by route pattern (e.g. /api/notes/:id) rather than
// raw path to keep label cardinality bounded.
func Metrics(observer RequestObserver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if e, ok := err.(*fiber.Error); ok {
				status = e.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		// Only global middleware matched when the route is still the root prefix.
		route := c.Route().Path
		if route == "" || route == "/" {
			route = "unmatched"
		}

		// Labels outlive the request; fiber strings point into a reused buffer.
		observer.ObserveHTTPRequest(utils.CopyString(c.Method()), route, status, time.Since(start))
		return err
	}
}
