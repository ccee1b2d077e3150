package treeview

// Row is the surface a single item renders itself into during layout. The
// framework fills Item and Indent; the item's BuildRow fills the rest.
type Row struct {
	// Item is the tree item this row was emitted for.
	Item Item

	// Indent is the visual nesting depth, taken from CountParents.
	Indent int

	// Icon is the glyph drawn before the text.
	Icon string

	// Text is the row's label text.
	Text string

	// Active mirrors the item's active flag at layout time.
	Active bool

	// OnToggle flips the item's collapsed state. Nil for items without a
	// collapse affordance.
	OnToggle func()

	// OnActivate makes the item the active selection. Nil for rows that
	// cannot be activated.
	OnActivate func()
}

// RowSurface receives exactly one row per visible, non-collapsed item, in
// traversal order. Implementations stack rows vertically.
type RowSurface interface {
	AddRow(row Row)
}

// RowList is the simplest RowSurface: it collects rows into a slice.
type RowList struct {
	Rows []Row
}

func (l *RowList) AddRow(row Row) {
	l.Rows = append(l.Rows, row)
}

// Reset clears the collected rows, keeping capacity.
func (l *RowList) Reset() {
	l.Rows = l.Rows[:0]
}
