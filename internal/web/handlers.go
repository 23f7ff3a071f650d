// handlers.go holds the route handlers. Each constructor closes over the
// service so handlers can be tested against a fake.

package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/jpl-au/beamtime/internal/queue"
	"github.com/jpl-au/beamtime/internal/service"
	"github.com/jpl-au/beamtime/internal/store"
	"github.com/jpl-au/beamtime/internal/validate"
)

// MsgPathRequired is the 400 message for a missing or blank path.
const MsgPathRequired = "Path is required"

func redirectHandler(c echo.Context) error {
	target := APIRoot + "/"
	if q := c.QueryString(); q != "" {
		target += "?" + q
	}
	return c.Redirect(http.StatusFound, target)
}

func healthHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"message": "ok"})
}

// AcknowledgmentsHandler returns every acknowledgment record.
func AcknowledgmentsHandler(svc service.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		rows, err := svc.List(c.Request().Context(), store.KindAcknowledgment)
		if err != nil {
			return err
		}
		if rows == nil {
			rows = []store.Record{}
		}
		return c.JSON(http.StatusOK, rows)
	}
}

// DataPathHandler returns the raw path template for station_id and
// technique_id as text. Missing or invalid ids get an empty 400.
func DataPathHandler(svc service.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		station, err := validate.ID("station_id", c.QueryParam("station_id"))
		if err != nil {
			return c.NoContent(http.StatusBadRequest)
		}
		technique, err := validate.ID("technique_id", c.QueryParam("technique_id"))
		if err != nil {
			return c.NoContent(http.StatusBadRequest)
		}

		tmpl, err := svc.DataPath(c.Request().Context(), station, technique)
		if err != nil {
			return err
		}
		return c.String(http.StatusOK, tmpl)
	}
}

// QueueHandler filters, sanitises and stores the submitted rows.
func QueueHandler(svc service.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		rows, err := queue.Decode(c.Request().Body)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON body")
		}

		res, err := svc.Ingest(c.Request().Context(), rows, origin(c, "web:create_update_queue"))
		if errors.Is(err, validate.ErrBatchTooLarge) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, res)
	}
}

// pathRequest is the validate_data_path body. Path is left untyped so a
// null or non-string value is reported as missing rather than as a
// decode error.
type pathRequest struct {
	Path any `json:"path"`
}

// ValidatePathHandler runs the path checker. A missing, non-string or
// blank path is a 400; a panic inside the check becomes a 500.
func ValidatePathHandler(svc service.Service) echo.HandlerFunc {
	return func(c echo.Context) (err error) {
		var req pathRequest
		if derr := json.NewDecoder(c.Request().Body).Decode(&req); derr != nil {
			return echo.NewHTTPError(http.StatusBadRequest, MsgPathRequired)
		}
		p, ok := req.Path.(string)
		if !ok || strings.TrimSpace(p) == "" {
			return echo.NewHTTPError(http.StatusBadRequest, MsgPathRequired)
		}

		defer func() {
			if r := recover(); r != nil {
				err = c.JSON(http.StatusInternalServerError, errorBody{
					Error: fmt.Sprintf("Error validating path: %v", r),
				})
			}
		}()

		res, cerr := svc.CheckPath(c.Request().Context(), p, origin(c, "web:validate_data_path"))
		if errors.Is(cerr, validate.ErrPathTooLong) || errors.Is(cerr, validate.ErrInvalidPath) {
			return echo.NewHTTPError(http.StatusBadRequest, cerr.Error())
		}
		if cerr != nil {
			return c.JSON(http.StatusInternalServerError, errorBody{
				Error: "Error validating path: " + cerr.Error(),
			})
		}
		return c.JSON(http.StatusOK, res)
	}
}

// origin attributes a web request in the audit log by client address.
func origin(c echo.Context, source string) service.Origin {
	return service.Origin{Source: source, Author: c.RealIP()}
}
