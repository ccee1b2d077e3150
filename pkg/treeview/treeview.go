// Package treeview implements a retained hierarchical item framework for
// panel UIs. A view rebuilds its item tree from application data on every
// redraw; the framework reconciles the fresh tree against the previous
// redraw's tree by item label so that per-item state (the collapsed flag)
// survives rebuilds, then emits one row per visible item.
//
// The cycle per redraw is strictly: build -> reconcile -> layout. It runs
// synchronously on one goroutine; the tree is mutable only during build and
// is treated as frozen afterwards.
package treeview

import "strings"

// Item is implemented by every node in a tree view. Concrete item types
// embed ItemBase, which provides everything except BuildRow.
type Item interface {
	// Label identifies the item within its sibling set. Together with the
	// ancestor labels it forms the item's identity across rebuilds.
	Label() string

	// BuildRow renders the item's visual representation into the given row
	// and wires interactive affordances (collapse toggle, activation).
	BuildRow(row *Row)

	// OnActivate is invoked when the item becomes the active selection.
	OnActivate()

	// UpdateFromOld copies persistent state from the matching item of the
	// previous redraw. Implementations that add persisted fields must call
	// through to ItemBase.UpdateFromOld.
	UpdateFromOld(old Item)

	base() *ItemBase
}

// ItemContainer holds an ordered list of child items. Both views and items
// are containers; insertion order is the authoritative display order.
type ItemContainer struct {
	children []Item
	// root is set when the first item is added anywhere in the tree and is
	// then passed on to every descendant.
	root *ItemContainer
	// parent points back to the owning item. It stays nil when this
	// container is the view itself.
	parent Item
	// owner is the item this container belongs to; nil for the view root.
	owner Item
}

// AddItem appends item to the container and returns it. This is the only
// place items enter a tree; it maintains the root and parent invariants.
func (c *ItemContainer) AddItem(item Item) Item {
	c.children = append(c.children, item)

	// The first item added to the root sets this.
	if c.root == nil {
		c.root = c
	}

	b := item.base()
	b.owner = item
	b.root = c.root
	if c.root != c {
		// Any container that isn't the root belongs to an item.
		b.parent = c.owner
	}

	return item
}

// Children returns the child items in display order.
func (c *ItemContainer) Children() []Item {
	return c.children
}

// ForEachItemRecursive visits every item depth-first in pre-order. With
// skipCollapsed set, a collapsed item is still visited but its subtree is
// pruned. The tree must not be mutated during traversal.
func (c *ItemContainer) ForEachItemRecursive(visit func(Item), skipCollapsed bool) {
	for _, child := range c.children {
		visit(child)
		if skipCollapsed && child.base().IsCollapsed() {
			continue
		}
		child.base().ForEachItemRecursive(visit, skipCollapsed)
	}
}

// ItemBase carries the per-item state every tree item needs. Concrete item
// types embed it and implement BuildRow themselves.
type ItemBase struct {
	ItemContainer

	label  string
	open   bool
	active bool
}

// NewItemBase returns an ItemBase with the given identity label.
func NewItemBase(label string) ItemBase {
	return ItemBase{label: label}
}

func (b *ItemBase) base() *ItemBase { return b }

// Label returns the item's identity label.
func (b *ItemBase) Label() string { return b.label }

// OnActivate is a no-op by default.
func (b *ItemBase) OnActivate() {}

// UpdateFromOld copies the persisted collapsed state from a matching item
// of the previous redraw.
func (b *ItemBase) UpdateFromOld(old Item) {
	b.open = old.base().open
}

// ToggleCollapsed flips the open flag.
func (b *ItemBase) ToggleCollapsed() { b.open = !b.open }

// SetCollapsed sets the open flag from its inverse.
func (b *ItemBase) SetCollapsed(collapsed bool) { b.open = !collapsed }

// IsCollapsed reports whether the item is collapsible and not open.
func (b *ItemBase) IsCollapsed() bool { return b.IsCollapsible() && !b.open }

// IsCollapsible reports whether the item has children to hide.
func (b *ItemBase) IsCollapsible() bool { return len(b.children) > 0 }

// IsOpen returns the raw open flag, independent of collapsibility.
func (b *ItemBase) IsOpen() bool { return b.open }

// SetActive marks or unmarks the item as the active selection. Keeping a
// single active item per view is a convention of the caller, not enforced
// here.
func (b *ItemBase) SetActive(active bool) { b.active = active }

// IsActive reports whether the item is the active selection.
func (b *ItemBase) IsActive() bool { return b.active }

// Parent returns the owning item, or nil for top-level items.
func (b *ItemBase) Parent() Item { return b.parent }

// CountParents returns the number of ancestor items between this item and
// the view root. Used as the indentation depth.
func (b *ItemBase) CountParents() int {
	n := 0
	for p := b.parent; p != nil; p = p.base().parent {
		n++
	}
	return n
}

// Root returns the container of the view owning this item, or nil if the
// item was never added to a tree.
func (b *ItemBase) Root() *ItemContainer { return b.root }

// View is the root of one tree-view region. Concrete views embed ViewBase
// and implement BuildTree to populate the container from application data.
// A fresh view instance is built every redraw and reconciled against the
// previous redraw's instance, which is then discarded.
type View interface {
	BuildTree()
	rootContainer() *ItemContainer
}

// ViewBase is the embeddable root container for concrete views.
type ViewBase struct {
	ItemContainer
}

func (v *ViewBase) rootContainer() *ItemContainer { return &v.ItemContainer }

// ForEachItem visits every item of the view; see ForEachItemRecursive.
func (v *ViewBase) ForEachItem(visit func(Item), skipCollapsed bool) {
	v.ForEachItemRecursive(visit, skipCollapsed)
}

// Path returns the item's identity path: the labels from the outermost
// ancestor down to the item itself, joined by sep. Together with the
// region it addresses an item across redraws and process restarts.
func Path(item Item, sep string) string {
	var labels []string
	for b := item.base(); ; {
		labels = append(labels, b.label)
		if b.parent == nil {
			break
		}
		b = b.parent.base()
	}
	for i, j := 0, len(labels)-1; i < j; i, j = i+1, j-1 {
		labels[i], labels[j] = labels[j], labels[i]
	}
	return strings.Join(labels, sep)
}

// updateChildrenFromOldRecursive matches each new child against the
// corresponding old container's children and copies persisted state over.
// Matching is a linear scan by label, first match wins; duplicate sibling
// labels therefore resolve by position. Unmatched items keep default state.
func updateChildrenFromOldRecursive(newItems, oldItems *ItemContainer) {
	for _, newItem := range newItems.children {
		matchingOldItem := findMatchingChild(newItem, oldItems)
		if matchingOldItem == nil {
			continue
		}

		newItem.UpdateFromOld(matchingOldItem)

		// Recurse into children of the matched item.
		updateChildrenFromOldRecursive(
			&newItem.base().ItemContainer,
			&matchingOldItem.base().ItemContainer,
		)
	}
}

func findMatchingChild(lookup Item, items *ItemContainer) Item {
	for _, it := range items.children {
		if it.Label() == lookup.Label() {
			return it
		}
	}
	return nil
}
