package export

// Table is one titled block of tabular content.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// Document is a renderable report: a headline, key/value summary lines, and
// any number of tables. Renderers share this shape so CSV and PDF exports of
// the same report always agree on content.
type Document struct {
	Title   string
	Summary [][2]string
	Tables  []Table
}
