package csvdoc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatSize(t *testing.T) {
	tests := []struct {
		bytes int64
		want  string
	}{
		{0, "0 Bytes"},
		{-5, "0 Bytes"},
		{500, "500 Bytes"},
		{1024, "1 KB"},
		{1536, "1.5 KB"},
		{1535, "1.5 KB"},
		{2047, "2 KB"},
		{1048575, "1024 KB"},
		{1126, "1.1 KB"},
		{1048576, "1 MB"},
		{5 * 1024 * 1024 * 1024, "5 GB"},
		{3 * 1024 * 1024 * 1024 * 1024 * 1024, "3072 TB"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatSize(tt.bytes), "bytes=%d", tt.bytes)
	}
}

func TestFileExtension(t *testing.T) {
	assert.Equal(t, "csv", FileExtension("report.csv"))
	assert.Equal(t, "xlsx", FileExtension("Q1.Report.XLSX"))
	assert.Equal(t, "", FileExtension("README"))
	assert.Equal(t, "", FileExtension(".env"))
	assert.Equal(t, "", FileExtension("trailing."))
}

func TestValidateFileType(t *testing.T) {
	for _, name := range []string{"a.csv", "b.XLS", "c.xlsx"} {
		assert.NoError(t, ValidateFileType(name), name)
	}
	for _, name := range []string{"a.txt", "noext", "archive.csv.zip"} {
		assert.ErrorIs(t, ValidateFileType(name), ErrInvalidFileType, name)
	}
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "ventas_2024__final_.csv", SanitizeFilename("Ventas 2024 (final).csv"))
	assert.Equal(t, "a-b.c", SanitizeFilename("A-B.C"))
	assert.Equal(t, "a_o.csv", SanitizeFilename("año.csv"))
}

func TestFilenames(t *testing.T) {
	assert.Equal(t, "clientes_filtrado.csv", FilteredFilename("clientes.csv"))
	assert.Equal(t, "data.xlsx_filtrado.csv", FilteredFilename("data.xlsx"))

	assert.Equal(t, "filtrado_clientes.csv", UploadFilteredFilename("clientes.csv"))
	assert.Equal(t, "filtrado_Q1.report.csv", UploadFilteredFilename("Q1.report.xlsx"))
	assert.Equal(t, "filtrado_README.csv", UploadFilteredFilename("README"))
	assert.Equal(t, "filtrado_trailing..csv", UploadFilteredFilename("trailing."))

	ts := time.UnixMilli(1700000000123)
	assert.Equal(t, "archivos_unidos_1700000000123.csv", JoinedFilename(ts))
}
