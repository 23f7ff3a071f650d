package format

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpl-au/beamtime/internal/log"
	"github.com/jpl-au/beamtime/internal/path"
	"github.com/jpl-au/beamtime/internal/repo"
	"github.com/jpl-au/beamtime/internal/service"
	"github.com/jpl-au/beamtime/internal/store"
)

func TestHumanSize(t *testing.T) {
	assert.Equal(t, "512B", HumanSize(512))
	assert.Equal(t, "1.5K", HumanSize(1536))
	assert.Equal(t, "2.0M", HumanSize(2<<20))
	assert.Equal(t, "1.0G", HumanSize(1<<30))
}

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	Table(&buf, []string{"id", "name"}, [][]string{{"1", "2025-1"}, {"10", "2025-2"}})
	assert.Equal(t, "ID  NAME\n1   2025-1\n10  2025-2\n", buf.String())
}

func TestCell(t *testing.T) {
	ts := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	assert.Equal(t, Empty, Cell(nil))
	assert.Equal(t, Empty, Cell(""))
	assert.Equal(t, "42", Cell(int64(42)))
	assert.Equal(t, "true", Cell(true))
	assert.Equal(t, "2025-03-14 09:26:53", Cell(ts))
}

func TestRecords(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Records(&buf, store.KindRun, []store.Record{{"id": int64(1), "name": "2025-1"}}))
	assert.Equal(t, "ID  NAME\n1   2025-1\n", buf.String())

	assert.ErrorIs(t, Records(&buf, store.Kind("nope"), nil), store.ErrUnknownKind)
}

func TestExperiments(t *testing.T) {
	exps := []service.Experiment{{ID: 7, Title: "A|B", Proposal: "N/A", ProcessStatus: "Unknown", UserFolder: "N/A"}}

	var buf bytes.Buffer
	Experiments(&buf, exps)
	assert.Contains(t, buf.String(), "USER FOLDER")
	assert.Contains(t, buf.String(), "7   A|B")

	md := ExperimentsMarkdown(exps)
	assert.Contains(t, md, `| 7 | A\|B | N/A | Unknown | N/A |`)
}

func TestQueue(t *testing.T) {
	title := "Powder"
	doi := false
	var buf bytes.Buffer
	Queue(&buf, []store.Queue{{ID: 1, Title: &title, DOI: &doi}})
	assert.Contains(t, buf.String(), "Powder")
	assert.Contains(t, buf.String(), "false")
}

func TestPathResult(t *testing.T) {
	var buf bytes.Buffer
	PathResult(&buf, "a<b", path.Result{Message: path.MsgInvalidChars})
	assert.Contains(t, buf.String(), "valid:      false\n")
	assert.Contains(t, buf.String(), "normalized: -\n")
}

func TestDBs(t *testing.T) {
	var buf bytes.Buffer
	DBs(&buf, []repo.DBInfo{{File: "beamtime.db", Size: 2048}, {Name: "13bm", File: "beamtime-13bm.db"}})
	assert.Contains(t, buf.String(), "(default)")
	assert.Contains(t, buf.String(), "2.0K")
	assert.Contains(t, buf.String(), "beamtime-13bm.db")
}

func TestLogEntries(t *testing.T) {
	var buf bytes.Buffer
	LogEntries(&buf, []log.Entry{
		{Source: "queue:add", Count: 3, Success: true, Start: 1},
		{Source: "datapath:check", Path: "/x", Error: "boom"},
	})
	out := buf.String()
	assert.Contains(t, out, "3 rows")
	assert.Contains(t, out, "error: boom")
}
