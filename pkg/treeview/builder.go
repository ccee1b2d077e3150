package treeview

// ViewCache keeps the view instance built for each UI region on the
// immediately preceding redraw, so a fresh view can be reconciled against
// it. Two generations exist at most: BeginRedraw rotates the current
// generation into the old slot and drops anything older.
type ViewCache struct {
	prev map[string]View
	cur  map[string]View
}

// NewViewCache returns an empty cache.
func NewViewCache() *ViewCache {
	return &ViewCache{
		prev: make(map[string]View),
		cur:  make(map[string]View),
	}
}

// BeginRedraw marks the start of a redraw cycle. Views stored since the
// last call become the "old" generation; the generation before that is
// discarded.
func (c *ViewCache) BeginRedraw() {
	c.prev = c.cur
	c.cur = make(map[string]View, len(c.prev))
}

// previousView returns the view built for region on the preceding redraw,
// or nil on the first redraw of that region.
func (c *ViewCache) previousView(region string) View {
	return c.prev[region]
}

func (c *ViewCache) storeView(region string, view View) {
	c.cur[region] = view
}

// Builder runs the build -> reconcile -> layout cycle for one view on one
// redraw. It owns no state beyond the bindings passed at construction and
// is discarded afterwards.
type Builder struct {
	surface RowSurface
	cache   *ViewCache
	region  string
}

// NewBuilder binds a rendering surface and a region identity for one
// build call. cache may be nil, in which case no reconciliation happens.
func NewBuilder(surface RowSurface, cache *ViewCache, region string) *Builder {
	return &Builder{surface: surface, cache: cache, region: region}
}

// Build populates the view's tree, reconciles it against the previous
// redraw's view for the same region, and emits one row per visible item.
func (b *Builder) Build(view View) {
	view.BuildTree()

	if b.cache != nil {
		if old := b.cache.previousView(b.region); old != nil {
			updateChildrenFromOldRecursive(view.rootContainer(), old.rootContainer())
		}
		b.cache.storeView(b.region, view)
	}

	b.buildLayoutFromTree(view)
}

func (b *Builder) buildLayoutFromTree(view View) {
	if b.surface == nil {
		return
	}
	view.rootContainer().ForEachItemRecursive(func(item Item) {
		row := Row{
			Item:   item,
			Indent: item.base().CountParents(),
			Active: item.base().IsActive(),
		}
		item.BuildRow(&row)
		b.surface.AddRow(row)
	}, true)
}
