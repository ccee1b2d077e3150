package main

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/Dicklesworthstone/scene_viewer/pkg/importer"
	"github.com/Dicklesworthstone/scene_viewer/pkg/scene"
)

// TestOutlineDocument verifies the robot outline JSON shape.
func TestOutlineDocument(t *testing.T) {
	g := &scene.Geometry{
		Name:      "Hull",
		Positions: []r3.Vec{{}, {X: 1}, {Y: 1}, {X: 1, Y: 1}},
		Faces:     [][]int{{0, 1, 3, 2}},
		Materials: []string{"steel"},
	}
	instances := scene.NewInstances()
	handle := instances.AddReference(scene.InstanceReference{Name: "Hull", Geometry: g})
	instances.AddInstance(handle, scene.IdentityTransform())

	sc := &scene.Scene{Name: "ship.obj", Source: "/models/ship.obj", Instances: instances}
	warnings := []importer.Warning{{Type: importer.WarningInfo, Message: "mtllib not found"}}

	doc := outlineDocument([]*scene.Scene{sc}, warnings)

	if doc.GeneratedAt == "" {
		t.Error("generated_at must be set")
	}
	if len(doc.Scenes) != 1 || doc.Scenes[0].Name != "ship.obj" {
		t.Fatalf("unexpected scenes: %+v", doc.Scenes)
	}
	obj := doc.Scenes[0].Objects[0]
	if obj.Name != "Hull" || obj.Vertices != 4 || obj.Faces != 1 || obj.Triangles != 2 {
		t.Errorf("unexpected object counts: %+v", obj)
	}
	if len(obj.Materials) != 1 || obj.Materials[0] != "steel" {
		t.Errorf("unexpected materials: %v", obj.Materials)
	}
	if len(doc.Warnings) != 1 {
		t.Errorf("warnings must be carried through, got %v", doc.Warnings)
	}
}
