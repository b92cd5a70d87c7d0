package export

// Table defines tabular export content shared by all renderers.
type Table struct {
	Title   string
	Columns []string
	Rows    [][]string
}

// Format identifies a supported output encoding.
type Format string

const (
	FormatCSV Format = "csv"
	FormatPDF Format = "pdf"
)

// Valid reports whether the format is supported.
func (f Format) Valid() bool {
	return f == FormatCSV || f == FormatPDF
}

// Ext returns the file extension for the format.
func (f Format) Ext() string {
	return string(f)
}

// ContentType returns the MIME type for download responses.
func (f Format) ContentType() string {
	if f == FormatPDF {
		return "application/pdf"
	}
	return "text/csv"
}

// Renderer converts a table into encoded bytes.
type Renderer interface {
	Render(table Table) ([]byte, error)
}
