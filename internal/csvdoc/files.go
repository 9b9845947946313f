package csvdoc

import (
	"fmt"
	"math"
	"path"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// AcceptedExtensions are the file extensions accepted for upload.
var AcceptedExtensions = []string{"csv", "xlsx", "xls"}

var sizeUnits = []string{"Bytes", "KB", "MB", "GB", "TB"}

// FormatSize renders a byte count using base-1024 units rounded to at most two
// decimals, e.g. 1536 -> "1.5 KB", 2047 -> "2 KB".
func FormatSize(bytes int64) string {
	if bytes <= 0 {
		return "0 Bytes"
	}
	v := float64(bytes)
	i := 0
	for v >= 1024 && i < len(sizeUnits)-1 {
		v /= 1024
		i++
	}
	return humanize.FtoaWithDigits(math.Round(v*100)/100, 2) + " " + sizeUnits[i]
}

// FileExtension returns the lower-cased extension of name without the dot,
// or "" when name has none.
func FileExtension(name string) string {
	idx := strings.LastIndex(name, ".")
	if idx <= 0 {
		return ""
	}
	return strings.ToLower(name[idx+1:])
}

// ValidateFileType rejects names whose extension is not in AcceptedExtensions.
func ValidateFileType(name string) error {
	ext := FileExtension(name)
	for _, a := range AcceptedExtensions {
		if ext == a {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrInvalidFileType, name)
}

// SanitizeFilename replaces every character outside [a-z0-9.-] with '_' and lower-cases the result.
func SanitizeFilename(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return strings.ToLower(b.String())
}

// FilteredFilename is the download name for a column-filtered copy of name.
func FilteredFilename(name string) string {
	return strings.Replace(name, ".csv", "", 1) + "_filtrado.csv"
}

// UploadFilteredFilename is the download name for a column-filtered copy of an
// uploaded file: "filtrado_" plus name without its last extension.
func UploadFilteredFilename(name string) string {
	if ext := path.Ext(name); len(ext) > 1 {
		name = strings.TrimSuffix(name, ext)
	}
	return "filtrado_" + name + ".csv"
}

// JoinedFilename is the download name for a join produced at t.
func JoinedFilename(t time.Time) string {
	return fmt.Sprintf("archivos_unidos_%d.csv", t.UnixMilli())
}
