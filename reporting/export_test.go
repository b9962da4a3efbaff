package reporting

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleHistory() []HistoryRecord {
	at := time.Date(2026, 9, 1, 14, 30, 0, 0, jakarta)
	return []HistoryRecord{
		NewRecord("PS #1", "Budi", decimal.NewFromFloat(1.5), decimal.NewFromInt(9000), at, TypeHourly),
		NewRecord("Sewa PS Only 6 Jam", "Sari", decimal.NewFromInt(6), decimal.NewFromInt(25000), at.Add(time.Hour), TypeRental),
	}
}

func TestHistoryBackupRoundTrip(t *testing.T) {
	records := sampleHistory()

	data, err := MarshalHistory(records)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  ") // indented, human-readable

	restored, err := ParseHistory(data)
	require.NoError(t, err)
	require.Len(t, restored, 2)
	assert.Equal(t, records[0].ID, restored[0].ID)
	assert.True(t, restored[1].Cost.Equal(decimal.NewFromInt(25000)))
	assert.Equal(t, TypeRental, restored[1].Type)
}

func TestParseHistoryRejectsGarbage(t *testing.T) {
	_, err := ParseHistory([]byte("not json"))
	assert.Error(t, err)
}

func TestExportXLSX(t *testing.T) {
	data, err := ExportXLSX(sampleHistory(), jakarta)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows("Laporan")
	require.NoError(t, err)
	// header + 2 records + TOTAL
	require.Len(t, rows, 4)
	assert.Equal(t, "Tanggal", rows[0][0])
	assert.Equal(t, "Budi", rows[1][2])
	assert.Equal(t, "Main di Tempat", rows[1][4])
	assert.Equal(t, "Sewa / Rental", rows[2][4])
	assert.Equal(t, "TOTAL", rows[3][0])
	assert.Equal(t, "34000", rows[3][6])
}

func TestExportPDF(t *testing.T) {
	data, err := ExportPDF(sampleHistory(), "Laporan Keuangan", jakarta)
	require.NoError(t, err)
	require.NotEmpty(t, data)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestExportXLSXEmptyHistory(t *testing.T) {
	data, err := ExportXLSX(nil, jakarta)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows("Laporan")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "TOTAL", rows[1][0])
	assert.Equal(t, "0", rows[1][6])
}
