// Package importer wires the OBJ reader into the scene instancing
// container: validate the path, run the import, relay every diagnostic as
// a user-visible warning, and wrap each resulting geometry as one
// identity-transformed instance.
package importer

import (
	"path/filepath"
	"time"

	"github.com/Dicklesworthstone/scene_viewer/pkg/obj"
	"github.com/Dicklesworthstone/scene_viewer/pkg/scene"
)

// WarningType classifies a relayed diagnostic.
type WarningType int

const (
	WarningInfo WarningType = iota
	WarningError
)

func (t WarningType) String() string {
	if t == WarningError {
		return "error"
	}
	return "info"
}

// Warning is one user-visible message produced by an import.
type Warning struct {
	Type    WarningType `json:"type"`
	Message string      `json:"message"`
}

// Result is the outcome of one import. Instances is nil when the import
// produced no output; Warnings are surfaced either way.
type Result struct {
	Instances *scene.Instances
	Warnings  []Warning
}

// HasOutput reports whether the import produced instances.
func (r Result) HasOutput() bool {
	return r.Instances != nil
}

// EnsureAbsolutePath resolves path against baseDir when relative. It
// returns false for an empty path, which yields no output.
func EnsureAbsolutePath(path, baseDir string) (string, bool) {
	if path == "" {
		return "", false
	}
	if filepath.IsAbs(path) {
		return filepath.Clean(path), true
	}
	return filepath.Clean(filepath.Join(baseDir, path)), true
}

// ImportOBJ runs one import. Every collected report is relayed: errors as
// error warnings, everything else as info. Zero geometries means no output,
// with all messages still surfaced, not just the first.
func ImportOBJ(path, baseDir string) Result {
	abs, ok := EnsureAbsolutePath(path, baseDir)
	if !ok {
		return Result{}
	}

	var reports obj.ReportList
	geometries := obj.ImportGeometries(abs, &reports)

	var warnings []Warning
	for _, report := range reports.Reports() {
		wt := WarningInfo
		if report.Type == obj.ReportError {
			wt = WarningError
		}
		warnings = append(warnings, Warning{Type: wt, Message: report.Message})
	}

	if len(geometries) == 0 {
		return Result{Warnings: warnings}
	}

	instances := scene.NewInstances()
	for _, geometry := range geometries {
		handle := instances.AddReference(scene.InstanceReference{Name: geometry.Name, Geometry: geometry})
		instances.AddInstance(handle, scene.IdentityTransform())
	}

	return Result{Instances: instances, Warnings: warnings}
}

// LoadScene imports path and binds the result to a Scene. A nil scene with
// warnings means the import produced no usable output.
func LoadScene(path, baseDir string) (*scene.Scene, []Warning) {
	result := ImportOBJ(path, baseDir)
	if !result.HasOutput() {
		return nil, result.Warnings
	}

	abs, _ := EnsureAbsolutePath(path, baseDir)
	sc := &scene.Scene{
		Name:       filepath.Base(abs),
		Source:     abs,
		Instances:  result.Instances,
		ImportedAt: time.Now(),
	}
	return sc, result.Warnings
}
