package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime"

	"github.com/labstack/echo/v4"

	"github.com/donaldgifford/automerch/internal/metrics"
)

// Recovery returns Echo middleware that recovers from panics, logs the stack
// trace with the request id, counts the panic and returns a 500 to the client.
func Recovery(log *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				if r == http.ErrAbortHandler {
					panic(r)
				}

				buf := make([]byte, 4096)
				n := runtime.Stack(buf, false)
				metrics.HTTPPanicsTotal.Inc()

				log.Error("panic recovered",
					"error", fmt.Sprint(r),
					"method", c.Request().Method,
					"path", c.Request().URL.Path,
					"request_id", RequestIDFromContext(c.Request().Context()),
					"stack", string(buf[:n]),
				)

				if c.Response().Committed {
					return
				}
				err = c.JSON(http.StatusInternalServerError, map[string]string{
					"error": "internal server error",
				})
			}()
			return next(c)
		}
	}
}
