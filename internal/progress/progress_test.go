package progress

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	p := NewWriter(&buf, "importing", 2)
	p.Step("a.json")
	p.Step("b.json")
	p.Done()
	assert.Equal(t, "importing 1/2 a.json\nimporting 2/2 b.json\n", buf.String())
}

func TestProgress_SingleItemSilent(t *testing.T) {
	var buf bytes.Buffer
	p := NewWriter(&buf, "importing", 1)
	p.Step("a.json")
	p.Done()
	assert.Empty(t, buf.String())
}
