package outliner

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/Dicklesworthstone/scene_viewer/pkg/scene"
	"github.com/Dicklesworthstone/scene_viewer/pkg/treeview"
)

func testScene(name string, objects ...string) *scene.Scene {
	instances := scene.NewInstances()
	for _, obj := range objects {
		g := &scene.Geometry{
			Name:      obj,
			Positions: []r3.Vec{{X: 0}, {X: 1}, {Y: 1}},
			Faces:     [][]int{{0, 1, 2}},
			Materials: []string{"default"},
		}
		handle := instances.AddReference(scene.InstanceReference{Name: obj, Geometry: g})
		instances.AddInstance(handle, scene.IdentityTransform())
	}
	return &scene.Scene{Name: name, Source: "/tmp/" + name, Instances: instances}
}

// TestSceneViewBuildTree verifies the scene/object/detail hierarchy.
func TestSceneViewBuildTree(t *testing.T) {
	view := NewSceneView([]*scene.Scene{testScene("room.obj", "Walls", "Floor")}, "")
	view.BuildTree()

	scenes := view.Children()
	if len(scenes) != 1 || scenes[0].Label() != "room.obj" {
		t.Fatalf("unexpected top level: %v", scenes)
	}

	objects := scenes[0].(*treeview.BasicItem).Children()
	if len(objects) != 2 || objects[0].Label() != "Walls" || objects[1].Label() != "Floor" {
		t.Fatalf("unexpected objects: %v", objects)
	}

	details := objects[0].(*ObjectItem).Children()
	if len(details) != 4 {
		t.Fatalf("expected 4 detail leaves, got %d", len(details))
	}
	if details[0].Label() != "Vertices: 3" {
		t.Errorf("unexpected first detail %q", details[0].Label())
	}
}

// TestSceneViewFilter verifies fuzzy filtering prunes non-matching
// objects and drops scenes with no matches.
func TestSceneViewFilter(t *testing.T) {
	scenes := []*scene.Scene{
		testScene("room.obj", "Walls", "Floor"),
		testScene("ship.obj", "Hull"),
	}

	view := NewSceneView(scenes, "wal")
	view.BuildTree()

	top := view.Children()
	if len(top) != 1 || top[0].Label() != "room.obj" {
		t.Fatalf("expected only room.obj, got %v", top)
	}
	objects := top[0].(*treeview.BasicItem).Children()
	if len(objects) != 1 || objects[0].Label() != "Walls" {
		t.Errorf("expected only Walls, got %v", objects)
	}
}

// TestSceneViewFilterBySceneName verifies a scene-name match keeps all
// of the scene's objects.
func TestSceneViewFilterBySceneName(t *testing.T) {
	view := NewSceneView([]*scene.Scene{testScene("ship.obj", "Hull", "Mast")}, "ship")
	view.BuildTree()

	top := view.Children()
	if len(top) != 1 {
		t.Fatalf("expected the scene to match, got %v", top)
	}
	if n := len(top[0].(*treeview.BasicItem).Children()); n != 2 {
		t.Errorf("expected both objects, got %d", n)
	}
}

// TestObjectItemCarriesActive verifies the active flag survives
// reconciliation alongside the collapse state.
func TestObjectItemCarriesActive(t *testing.T) {
	sc := []*scene.Scene{testScene("a.obj", "X")}

	cache := treeview.NewViewCache()

	cache.BeginRedraw()
	first := NewSceneView(sc, "")
	treeview.NewBuilder(nil, cache, "r").Build(first)
	obj := first.Children()[0].(*treeview.BasicItem).Children()[0].(*ObjectItem)
	obj.SetActive(true)
	obj.SetCollapsed(true)

	cache.BeginRedraw()
	second := NewSceneView(sc, "")
	treeview.NewBuilder(nil, cache, "r").Build(second)
	obj2 := second.Children()[0].(*treeview.BasicItem).Children()[0].(*ObjectItem)

	if !obj2.IsActive() {
		t.Error("active flag must survive the rebuild")
	}
	if !obj2.IsCollapsed() {
		t.Error("collapse state must survive the rebuild")
	}
}

// TestOutlineRows verifies the flat export view includes every level.
func TestOutlineRows(t *testing.T) {
	rows := OutlineRows([]*scene.Scene{testScene("room.obj", "Walls")})

	// scene + object + 4 detail leaves
	if len(rows) != 6 {
		t.Fatalf("expected 6 rows, got %d", len(rows))
	}
	if rows[0].Indent != 0 || rows[1].Indent != 1 || rows[2].Indent != 2 {
		t.Errorf("unexpected indents: %d %d %d", rows[0].Indent, rows[1].Indent, rows[2].Indent)
	}
	if rows[1].Text != "Walls" {
		t.Errorf("unexpected object row %q", rows[1].Text)
	}
}
