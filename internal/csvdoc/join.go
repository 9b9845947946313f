package csvdoc

import (
	"strings"
)

// Method selects how Join combines file contents.
type Method string

const (
	// MethodConcatenate places whole files one after another, separated by a blank line.
	MethodConcatenate Method = "concatenate"
	// MethodMergeLines merges files side by side, line by line.
	MethodMergeLines Method = "merge-lines"
)

// ConcatSeparator separates files joined with MethodConcatenate.
const ConcatSeparator = "\n\n"

// ParseMethod maps a request value to a Method. Unknown values fall back to MethodConcatenate.
func ParseMethod(s string) Method {
	if Method(strings.ToLower(strings.TrimSpace(s))) == MethodMergeLines {
		return MethodMergeLines
	}
	return MethodConcatenate
}

// NamedContent is a file body together with its display name.
type NamedContent struct {
	Name    string
	Content string
}

// Join combines raw file contents into one text.
//
// With MethodConcatenate the contents are joined with ConcatSeparator in input
// order. With MethodMergeLines output line i is the comma-joined line i of every
// input, using "" for inputs that have run out of lines; the output has as many
// lines as the longest input.
func Join(contents []string, method Method) (string, error) {
	if len(contents) == 0 {
		return "", ErrNoFilesSelected
	}
	if method == MethodMergeLines {
		return mergeLines(contents), nil
	}
	return strings.Join(contents, ConcatSeparator), nil
}

// JoinNamed is Join with file names available. Concatenated files are each
// preceded by a "--- <name> ---" banner line.
func JoinNamed(files []NamedContent, method Method) (string, error) {
	if len(files) == 0 {
		return "", ErrNoFilesSelected
	}

	contents := make([]string, len(files))
	for i, f := range files {
		if method == MethodMergeLines {
			contents[i] = f.Content
			continue
		}
		contents[i] = Banner(f.Name) + "\n" + f.Content
	}
	return Join(contents, method)
}

// Banner returns the label line written above a file in a concatenated join.
func Banner(name string) string {
	return "--- " + name + " ---"
}

func mergeLines(contents []string) string {
	split := make([][]string, len(contents))
	maxLines := 0
	for i, c := range contents {
		lines := strings.Split(c, "\n")
		for j := range lines {
			lines[j] = strings.TrimSuffix(lines[j], "\r")
		}
		split[i] = lines
		if len(lines) > maxLines {
			maxLines = len(lines)
		}
	}

	out := make([]string, maxLines)
	cells := make([]string, len(split))
	for i := 0; i < maxLines; i++ {
		for j, lines := range split {
			if i < len(lines) {
				cells[j] = lines[i]
			} else {
				cells[j] = ""
			}
		}
		out[i] = strings.Join(cells, ",")
	}
	return strings.Join(out, "\n")
}
