// page.go renders the experiment page with html/template.

package web

import (
	"embed"
	"html/template"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jpl-au/beamtime/internal/service"
	"github.com/jpl-au/beamtime/internal/store"
	"github.com/jpl-au/beamtime/internal/validate"
	"github.com/jpl-au/beamtime/internal/version"
)

//go:embed templates/*.html
var templates embed.FS

// renderer adapts html/template to echo.Renderer.
type renderer struct {
	t *template.Template
}

func (r *renderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	return r.t.ExecuteTemplate(w, name, data)
}

func parsePage() (*renderer, error) {
	t, err := template.New("").Funcs(template.FuncMap{
		"selected": func(sel int64, id any) bool {
			n, ok := id.(int64)
			return ok && sel != 0 && n == sel
		},
	}).ParseFS(templates, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &renderer{t: t}, nil
}

// Page is the data behind index.html.
type Page struct {
	Beamline        string
	DefaultPath     string
	Beamlines       []store.Record
	Stations        []store.Record
	Techniques      []store.Record
	Runs            []store.Record
	Experiments     []service.Experiment
	Acknowledgments []store.Record
	LastModified    string
	Version         string

	SelectedRun       int64
	SelectedBeamline  int64
	SelectedStation   int64
	SelectedTechnique int64
}

// HomeHandler renders the page. Filters that are missing or not positive
// integers are ignored, like an unselected dropdown.
func HomeHandler(svc service.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		p := Page{
			Beamline:          svc.Beamline(),
			DefaultPath:       svc.DefaultPath(),
			Version:           version.Short(),
			SelectedRun:       queryID(c, "run"),
			SelectedBeamline:  queryID(c, "beamline"),
			SelectedStation:   queryID(c, "station"),
			SelectedTechnique: queryID(c, "technique"),
		}

		lists := []struct {
			kind store.Kind
			dst  *[]store.Record
		}{
			{store.KindBeamline, &p.Beamlines},
			{store.KindStation, &p.Stations},
			{store.KindTechnique, &p.Techniques},
			{store.KindRun, &p.Runs},
			{store.KindAcknowledgment, &p.Acknowledgments},
		}
		for _, l := range lists {
			rows, err := svc.List(ctx, l.kind)
			if err != nil {
				return err
			}
			*l.dst = rows
		}

		var err error
		p.Experiments, err = svc.Experiments(ctx, store.ExperimentFilter{
			Run:      p.SelectedRun,
			Beamline: p.SelectedBeamline,
		})
		if err != nil {
			return err
		}
		if p.LastModified, err = svc.LastModified(ctx); err != nil {
			return err
		}

		return c.Render(http.StatusOK, "index.html", p)
	}
}

func queryID(c echo.Context, name string) int64 {
	n, err := validate.OptionalID(name, c.QueryParam(name))
	if err != nil {
		return 0
	}
	return n
}
