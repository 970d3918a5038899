package excel

// RawRowData represents a row of raw sheet data as header -> cell pairs
type RawRowData map[string]string

// SheetData represents a complete tabular file
type SheetData struct {
	Headers []string     // Column headers
	Rows    []RawRowData // Data rows
}

// Supported export formats.
const (
	FormatCSV  = "csv"
	FormatTXT  = "txt"
	FormatXLSX = "xlsx"
	FormatJSON = "json"
)

// Formats lists the export formats in documentation order.
var Formats = []string{FormatCSV, FormatTXT, FormatXLSX, FormatJSON}

// defaultSheet is the sheet read first and written by the exporter.
const defaultSheet = "Sheet1"
