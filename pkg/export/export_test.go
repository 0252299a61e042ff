package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVExporterRoundTrip(t *testing.T) {
	exp := NewCSVExporter(true)
	data := Dataset{
		Headers: []string{"id", "title", "marker"},
		Rows: []map[string]string{
			{"id": "A1", "title": "AP Calculus I", "marker": "⭕"},
			{"id": "A2", "title": "Chinese, first term", "marker": ""},
		},
	}

	raw, err := exp.Render(data)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, utf8BOM))

	parsed, err := exp.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, data.Headers, parsed.Headers)
	assert.Equal(t, data.Rows, parsed.Rows)
}

func TestCSVExporterRenderWithoutHeaders(t *testing.T) {
	_, err := NewCSVExporter(false).Render(Dataset{})
	assert.Error(t, err)
}

func TestCSVExporterParseBlank(t *testing.T) {
	parsed, err := NewCSVExporter(false).Parse([]byte("\xEF\xBB\xBF  \n"))
	require.NoError(t, err)
	assert.Empty(t, parsed.Headers)
	assert.Empty(t, parsed.Rows)
}

func TestCSVExporterParseShortRows(t *testing.T) {
	parsed, err := NewCSVExporter(false).Parse([]byte("a,b,c\n1,2\n"))
	require.NoError(t, err)
	require.Len(t, parsed.Rows, 1)
	_, present := parsed.Rows[0]["c"]
	assert.False(t, present)
	assert.Equal(t, "2", parsed.Rows[0]["b"])
}

func TestCSVExporterParseRejectsMalformed(t *testing.T) {
	_, err := NewCSVExporter(false).Parse([]byte("a,b\n\"unterminated,2\n"))
	assert.Error(t, err)

	_, err = NewCSVExporter(false).Parse([]byte("a,b\n1,2,3\n"))
	assert.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	data := Dataset{
		Headers: []string{"subject", "count"},
		Rows:    []map[string]string{{"subject": "Geometry", "count": "3"}},
	}
	out, err := NewPDFExporter(false).Render(data, "Enrollment summary", "generated 2025-03-01")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))

	_, err = NewPDFExporter(true).Render(Dataset{}, "", "")
	assert.Error(t, err)
}
