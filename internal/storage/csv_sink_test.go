package storage

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shanickcuello/linkedin-people-scrapper/internal/models"
)

func readRows(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestOpenCSVSink_WritesHeaderOnce(t *testing.T) {
	sink, err := OpenCSVSink(t.TempDir())
	require.NoError(t, err)
	defer sink.Close()

	rows := readRows(t, sink.Path())

	require.Len(t, rows, 1)
	assert.Equal(t, Header, rows[0])
}

func TestOpenCSVSink_FilenamePattern(t *testing.T) {
	sink, err := OpenCSVSink(t.TempDir())
	require.NoError(t, err)
	defer sink.Close()

	assert.Regexp(t, regexp.MustCompile(`^linkedin_profiles_\d{8}_\d{6}\.csv$`), filepath.Base(sink.Path()))
}

func TestWrite_AppendsRowsInOrder(t *testing.T) {
	sink, err := OpenCSVSink(t.TempDir())
	require.NoError(t, err)
	defer sink.Close()

	require.NoError(t, sink.Write(models.ProfileRecord{Name: "A", Title: "Engineer", ProfileURL: "https://x/in/a"}))
	require.NoError(t, sink.Write(models.ProfileRecord{Name: "B", Connections: "500+"}))

	rows := readRows(t, sink.Path())

	require.Len(t, rows, 3)
	assert.Equal(t, []string{"A", "Engineer", "", "", "https://x/in/a", "", ""}, rows[1])
	assert.Equal(t, []string{"B", "", "", "", "", "", "500+"}, rows[2])
}

func TestWrite_FlushedBeforeClose(t *testing.T) {
	sink, err := OpenCSVSink(t.TempDir())
	require.NoError(t, err)
	defer sink.Close()

	require.NoError(t, sink.Write(models.ProfileRecord{Name: "durable"}))

	// The row must be on disk before Close; a later crash must not lose it.
	rows := readRows(t, sink.Path())
	require.Len(t, rows, 2)
	assert.Equal(t, "durable", rows[1][0])
}

func TestClose_Idempotent(t *testing.T) {
	sink, err := OpenCSVSink(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, sink.Close())
	assert.NoError(t, sink.Close())
}

func TestWrite_EmbeddedDelimitersStayOneRow(t *testing.T) {
	sink, err := OpenCSVSink(t.TempDir())
	require.NoError(t, err)
	defer sink.Close()

	rec := models.ProfileRecord{Name: "Doe, Jane", About: "Line one\nline two"}
	require.NoError(t, sink.Write(rec))

	rows := readRows(t, sink.Path())
	require.Len(t, rows, 2)
	assert.Equal(t, "Doe, Jane", rows[1][0])
	assert.Equal(t, "Line one\nline two", rows[1][5])
}
