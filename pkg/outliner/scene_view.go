package outliner

import (
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/Dicklesworthstone/scene_viewer/pkg/scene"
	"github.com/Dicklesworthstone/scene_viewer/pkg/treeview"
)

// Glyphs for the scene hierarchy levels.
const (
	IconScene  = "◇"
	IconObject = "◆"
)

// ObjectItem is the tree item for one mesh object. It carries the
// geometry so detail leaves and exports can reach it, and it persists the
// active flag across rebuilds in addition to the collapse state.
type ObjectItem struct {
	treeview.BasicItem

	Geometry *scene.Geometry
}

// NewObjectItem returns an item labelled with the geometry's name.
func NewObjectItem(g *scene.Geometry) *ObjectItem {
	return &ObjectItem{
		BasicItem: *treeview.NewBasicItem(g.Name, IconObject),
		Geometry:  g,
	}
}

// UpdateFromOld carries the active selection over in addition to the
// collapse state.
func (o *ObjectItem) UpdateFromOld(old treeview.Item) {
	o.ItemBase.UpdateFromOld(old)
	if oldObj, ok := old.(*ObjectItem); ok {
		o.SetActive(oldObj.IsActive())
	}
}

// SceneView builds the outliner tree for the loaded scenes: one subtree
// per scene, one item per object, detail leaves below each object. A
// non-empty filter restricts objects to fuzzy matches on their names.
type SceneView struct {
	treeview.ViewBase

	scenes []*scene.Scene
	filter string
}

// NewSceneView returns a view over the given scenes.
func NewSceneView(scenes []*scene.Scene, filter string) *SceneView {
	return &SceneView{scenes: scenes, filter: filter}
}

// BuildTree populates the container. Every collapsible item starts open;
// reconciliation restores what the user collapsed on earlier redraws.
func (v *SceneView) BuildTree() {
	for _, sc := range v.scenes {
		refs := sc.Instances.References()
		matched := v.matchObjects(sc, refs)
		if len(matched) == 0 && v.filter != "" {
			continue
		}

		sceneItem := treeview.NewBasicItem(sc.Name, IconScene)
		v.AddItem(sceneItem)

		for _, i := range matched {
			obj := NewObjectItem(refs[i].Geometry)
			sceneItem.AddItem(obj)
			addDetailLeaves(obj)
			obj.SetCollapsed(false)
		}
		sceneItem.SetCollapsed(false)
	}
}

// matchObjects returns the reference indices to show, in display order.
func (v *SceneView) matchObjects(sc *scene.Scene, refs []scene.InstanceReference) []int {
	if v.filter == "" {
		indices := make([]int, len(refs))
		for i := range refs {
			indices[i] = i
		}
		return indices
	}

	names := make([]string, len(refs))
	for i, ref := range refs {
		names[i] = ref.Name
	}

	hit := make(map[int]bool)
	for _, m := range fuzzy.Find(v.filter, names) {
		hit[m.Index] = true
	}
	// A scene-name match shows the whole scene.
	if len(fuzzy.Find(v.filter, []string{sc.Name})) > 0 {
		for i := range refs {
			hit[i] = true
		}
	}

	var indices []int
	for i := range refs {
		if hit[i] {
			indices = append(indices, i)
		}
	}
	return indices
}

func addDetailLeaves(obj *ObjectItem) {
	g := obj.Geometry
	obj.AddItem(treeview.NewBasicItem(fmt.Sprintf("Vertices: %d", g.VertexCount()), ""))
	obj.AddItem(treeview.NewBasicItem(fmt.Sprintf("Faces: %d", g.FaceCount()), ""))
	obj.AddItem(treeview.NewBasicItem(fmt.Sprintf("Triangles: %d", g.TriangleCount()), ""))
	if len(g.Materials) > 0 {
		obj.AddItem(treeview.NewBasicItem("Materials: "+strings.Join(g.Materials, ", "), ""))
	}
}

// OutlineRows builds the fully expanded outline for the given scenes as a
// flat row list. Exports and the non-interactive output modes consume it.
func OutlineRows(scenes []*scene.Scene) []treeview.Row {
	var rows treeview.RowList
	treeview.NewBuilder(&rows, nil, "").Build(NewSceneView(scenes, ""))
	return rows.Rows
}
