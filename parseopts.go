package calc

// ParseOption is an option for parsing.
type ParseOption interface {
	parseOption(parsectx) parsectx
}

// parsectx holds general data for parsing.
type parsectx struct {
	// table resolves every identifier in the input.
	table *Table
}

type tableopt struct {
	t *Table
}

// WithTable sets the table that identifiers are resolved against. The default
// is DefaultTable. Passing nil restores the default.
func WithTable(t *Table) ParseOption {
	return tableopt{t}
}

func (o tableopt) parseOption(p parsectx) parsectx {
	p.table = o.t
	return p
}
