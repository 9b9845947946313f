package csvdoc

// Projection is the result of Project.
type Projection struct {
	Document *Document
	// Unresolved lists the selected names that matched no header, in selection order.
	Unresolved []string
}

// Project derives a document holding only the selected columns, in selection order.
//
// Names resolve to the first matching header. Names with no match are skipped and
// reported in Unresolved; if nothing resolves, ErrNoColumnsSelected is returned.
// Rows shorter than a resolved index get an empty value, so every output row has
// exactly one field per output header and the row count is unchanged.
func Project(doc *Document, selected []string) (*Projection, error) {
	if doc == nil {
		return nil, ErrEmptyDocument
	}

	headers := make([]string, 0, len(selected))
	indices := make([]int, 0, len(selected))
	var unresolved []string
	for _, name := range selected {
		idx := doc.ColumnIndex(name)
		if idx < 0 {
			unresolved = append(unresolved, name)
			continue
		}
		headers = append(headers, name)
		indices = append(indices, idx)
	}
	if len(indices) == 0 {
		return nil, ErrNoColumnsSelected
	}

	rows := make([][]string, len(doc.Rows))
	for i, src := range doc.Rows {
		row := make([]string, len(indices))
		for j, idx := range indices {
			if idx < len(src) {
				row[j] = src[idx]
			}
		}
		rows[i] = row
	}

	return &Projection{
		Document:   &Document{Headers: headers, Rows: rows},
		Unresolved: unresolved,
	}, nil
}
