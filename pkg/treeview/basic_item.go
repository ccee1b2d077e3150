package treeview

// Glyphs for the collapse affordance and leaf marker.
const (
	IconCollapsed = "▸"
	IconExpanded  = "▾"
	IconLeaf      = "•"
)

// ActivateFunc is called when a BasicItem becomes the active selection.
type ActivateFunc func(item *BasicItem)

// BasicItem is the most basic item type: a label with an icon and an
// optional activation callback.
type BasicItem struct {
	ItemBase

	// Icon overrides the default chevron/leaf glyph when non-empty.
	Icon string

	activateFn ActivateFunc
}

// NewBasicItem returns a BasicItem with the given label and icon. An empty
// icon falls back to a chevron for collapsible items and a leaf marker
// otherwise.
func NewBasicItem(label, icon string) *BasicItem {
	return &BasicItem{ItemBase: NewItemBase(label), Icon: icon}
}

// NewBasicItemFunc is NewBasicItem with an activation callback attached.
func NewBasicItemFunc(label, icon string, fn ActivateFunc) *BasicItem {
	item := NewBasicItem(label, icon)
	item.activateFn = fn
	return item
}

// BuildRow renders label and icon and wires the collapse affordance, which
// is present only for collapsible items.
func (bi *BasicItem) BuildRow(row *Row) {
	row.Icon = bi.drawIcon()
	row.Text = bi.Label()
	if bi.IsCollapsible() {
		row.OnToggle = bi.ToggleCollapsed
	}
	row.OnActivate = func() {
		bi.SetActive(true)
		bi.OnActivate()
	}
}

// OnActivate invokes the stored callback, if any.
func (bi *BasicItem) OnActivate() {
	if bi.activateFn != nil {
		bi.activateFn(bi)
	}
}

func (bi *BasicItem) drawIcon() string {
	if bi.Icon != "" {
		return bi.Icon
	}
	if bi.IsCollapsible() {
		if bi.IsCollapsed() {
			return IconCollapsed
		}
		return IconExpanded
	}
	return IconLeaf
}
