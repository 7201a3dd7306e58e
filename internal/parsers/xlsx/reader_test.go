package xlsx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ridewell/import-service/internal/types"
)

func buildWorkbook(t *testing.T, sheet string, rows [][]any) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	if sheet != "Sheet1" {
		require.NoError(t, f.SetSheetName("Sheet1", sheet))
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

// TestRead tests batch construction from a workbook
func TestRead(t *testing.T) {
	content := buildWorkbook(t, "Sheet1", [][]any{
		{"Campaign", "Day", "Cost"},
		{"Airport Transfers", "2026-01-15", "321.09"},
		{"Brand Search", "2026-01-15", "80.00"},
	})

	batch, err := Read(content, types.KindAdSpend, Options{})
	require.NoError(t, err)

	assert.Equal(t, types.KindAdSpend, batch.Kind)
	assert.Equal(t, []string{"Campaign", "Day", "Cost"}, batch.Headers)
	require.Len(t, batch.Rows, 2)
	assert.Equal(t, 2, batch.Rows[0].LineNumber)
	assert.Equal(t, "Airport Transfers", batch.Rows[0].Get("Campaign"))
	assert.Equal(t, "80.00", batch.Rows[1].Get("Cost"))
}

// TestReadNamedSheet tests selecting a sheet by name
func TestReadNamedSheet(t *testing.T) {
	content := buildWorkbook(t, "Spend Report", [][]any{
		{"Campaign", "Cost"},
		{"Airport", "10.00"},
	})

	batch, err := Read(content, types.KindAdSpend, Options{SheetName: "Spend Report"})
	require.NoError(t, err)
	require.Len(t, batch.Rows, 1)

	_, err = Read(content, types.KindAdSpend, Options{SheetName: "No Such Sheet"})
	assert.Error(t, err)
}

// TestReadMaxRows tests the row bound
func TestReadMaxRows(t *testing.T) {
	content := buildWorkbook(t, "Sheet1", [][]any{
		{"Campaign"},
		{"a"}, {"b"}, {"c"},
	})

	batch, err := Read(content, types.KindAdSpend, Options{MaxRows: 2})
	require.NoError(t, err)
	assert.Len(t, batch.Rows, 2)
}

// TestReadNotAWorkbook tests the error path for non-XLSX bytes
func TestReadNotAWorkbook(t *testing.T) {
	_, err := Read([]byte("Campaign,Cost\na,1\n"), types.KindAdSpend, Options{})
	assert.Error(t, err)
}
