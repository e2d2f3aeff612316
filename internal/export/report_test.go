package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/ingredient-scanner/constants"
	"github.com/joseph-ayodele/ingredient-scanner/internal/ingredients"
)

func TestScanReportXLSX(t *testing.T) {
	good := ingredients.Evaluate("Water, salt")
	bad := ingredients.Evaluate("Sugar, palm oil,\nnatural flavor")

	rows := []Row{
		{Path: "a.png", Status: constants.ScanStatusOK, Result: &good, Text: "Water, salt", Duration: 120 * time.Millisecond},
		{Path: "b.jpg", Status: constants.ScanStatusOK, Result: &bad, Text: "Sugar, palm oil,\nnatural flavor"},
		{Path: "c.heic", Status: constants.ScanStatusRecognitionFailed, Err: "Error scanning image."},
	}

	data, err := NewReporter(nil).ScanReportXLSX(rows)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetName}, f.GetSheetList())

	got, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, got, 4)

	assert.Equal(t, headers, got[0])
	assert.Equal(t, []string{"a.png", "OK", "90", "Healthy", "", good.Note, "Water, salt", "", "120"}, got[1])
	assert.Equal(t, "35", got[2][2])
	assert.Equal(t, "Contains Additives", got[2][3])
	assert.Equal(t, "sugar, palm oil, flavor", got[2][4])
	assert.Equal(t, "Sugar, palm oil, natural flavor", got[2][6])
	assert.Equal(t, "RECOGNITION_FAILED", got[3][1])
	assert.Equal(t, "Error scanning image.", got[3][7])
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab…", truncate("abcdef", 3))
}
