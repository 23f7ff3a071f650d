// middleware.go holds request logging, log levels and request ids.

package web

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

// LogHandlerFunc logs each request and its response through the echo
// logger, tagged with the request id.
func LogHandlerFunc(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		meth := c.Request().Method
		path := c.Request().URL
		id := c.Response().Header().Get(echo.HeaderXRequestID)
		begin := time.Now()
		c.Logger().Infof("< request [%s] %s %s", id, meth, path)

		err := next(c)

		c.Logger().Infof(
			"> response [%s] status = %d (%s %s) in %v / error = %v",
			id, c.Response().Status, meth, path, time.Since(begin), err,
		)
		return err
	}
}

// SetLevel applies a configured level name to the echo logger. Unknown
// names fall back to warn.
func SetLevel(e *echo.Echo, level string) {
	switch strings.ToLower(level) {
	case "debug":
		e.Logger.SetLevel(log.DEBUG)
	case "info":
		e.Logger.SetLevel(log.INFO)
	case "warn", "":
		e.Logger.SetLevel(log.WARN)
	case "error":
		e.Logger.SetLevel(log.ERROR)
	case "off":
		e.Logger.SetLevel(log.OFF)
	default:
		e.Logger.SetLevel(log.WARN)
		e.Logger.Warnf("unknown log level %q, using warn", level)
	}
}

func newRequestID() string {
	return uuid.NewString()
}
