package dataprocessing

import "github.com/shopspring/decimal"

// CellKind discriminates report cell content.
type CellKind int

const (
	// CellEmpty is a null cell; exporters render it as a placeholder label.
	CellEmpty CellKind = iota
	// CellNumber holds a decimal value.
	CellNumber
	// CellText holds a literal string (identity values, dates, labels).
	CellText
)

// Cell is one value in a report table.
type Cell struct {
	Kind   CellKind
	Number decimal.Decimal
	Text   string
}

func NumberCell(d decimal.Decimal) Cell {
	return Cell{Kind: CellNumber, Number: d}
}

func TextCell(s string) Cell {
	return Cell{Kind: CellText, Text: s}
}

func EmptyCell() Cell {
	return Cell{Kind: CellEmpty}
}

// numberOrEmpty lifts a nullable decimal into a cell.
func numberOrEmpty(d decimal.NullDecimal) Cell {
	if !d.Valid {
		return EmptyCell()
	}
	return NumberCell(d.Decimal)
}

// Table is a rectangular report: column headers plus cell rows.
type Table struct {
	Columns []string
	Rows    [][]Cell
}

// Mask marks which cells of a companion table were synthesized by
// forward-fill rather than observed. It has the table's full shape; identity
// columns are always false.
type Mask struct {
	Columns []string
	Rows    [][]bool
}

// TableSet is an ordered collection of named report tables, some with
// fill masks. Order is the sheet order of the exported workbook.
type TableSet struct {
	Order  []string
	Tables map[string]*Table
	Masks  map[string]*Mask
}

func NewTableSet() *TableSet {
	return &TableSet{
		Tables: make(map[string]*Table),
		Masks:  make(map[string]*Mask),
	}
}

// Add appends a named table. Nil tables are ignored so callers can pass
// builder results straight through.
func (s *TableSet) Add(name string, t *Table) {
	if t == nil {
		return
	}
	s.Order = append(s.Order, name)
	s.Tables[name] = t
}

// AddWithMask appends a named table together with its fill mask.
func (s *TableSet) AddWithMask(name string, t *Table, m *Mask) {
	if t == nil {
		return
	}
	s.Add(name, t)
	if m != nil {
		s.Masks[name] = m
	}
}

// Get returns the named table, or nil.
func (s *TableSet) Get(name string) *Table {
	return s.Tables[name]
}
