package obj

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/Dicklesworthstone/scene_viewer/pkg/scene"
)

// ImportGeometries reads the OBJ file at path and returns zero or more
// independent geometries, one per object. Diagnostics go into reports; an
// unreadable file produces an error report and no geometries, malformed
// content degrades to info reports with the offending line skipped.
func ImportGeometries(path string, reports *ReportList) []*scene.Geometry {
	f, err := os.Open(path)
	if err != nil {
		reports.Add(ReportError, "cannot open OBJ file %q: %v", path, err)
		return nil
	}
	defer f.Close()

	fallback := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return ReadGeometries(f, fallback, reports)
}

// objectState accumulates one object's faces against the global vertex
// lists before remapping.
type objectState struct {
	name      string
	faces     [][]int // global position indices
	normalRef []int   // global normal indices referenced, first-use order
	normalSet map[int]bool
	materials []string
	matSet    map[string]bool
}

func newObjectState(name string) *objectState {
	return &objectState{
		name:      name,
		normalSet: make(map[int]bool),
		matSet:    make(map[string]bool),
	}
}

// ReadGeometries parses OBJ content from r. fallbackName names the implicit
// object used when the file has no o lines.
func ReadGeometries(r io.Reader, fallbackName string, reports *ReportList) []*scene.Geometry {
	var (
		positions []r3.Vec
		normals   []r3.Vec
		objects   []*objectState
		current   *objectState
	)

	ensureObject := func() *objectState {
		if current == nil {
			current = newObjectState(fallbackName)
			objects = append(objects, current)
		}
		return current
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		keyword, args := fields[0], fields[1:]

		switch keyword {
		case "v":
			vec, ok := parseVec(args)
			if !ok {
				reports.Add(ReportInfo, "line %d: malformed vertex, skipped", lineNo)
				continue
			}
			positions = append(positions, vec)

		case "vn":
			vec, ok := parseVec(args)
			if !ok {
				reports.Add(ReportInfo, "line %d: malformed normal, skipped", lineNo)
				continue
			}
			normals = append(normals, vec)

		case "vt", "s", "g":
			// Texture coordinates, smoothing and polygon groups carry no
			// information the outliner needs.

		case "o":
			name := strings.Join(args, " ")
			if name == "" {
				name = "unnamed"
			}
			current = newObjectState(name)
			objects = append(objects, current)

		case "f":
			obj := ensureObject()
			face, faceNormals, ok := parseFace(args, len(positions), len(normals))
			if !ok {
				reports.Add(ReportInfo, "line %d: malformed face, skipped", lineNo)
				continue
			}
			obj.faces = append(obj.faces, face)
			for _, ni := range faceNormals {
				if ni >= 0 && !obj.normalSet[ni] {
					obj.normalSet[ni] = true
					obj.normalRef = append(obj.normalRef, ni)
				}
			}

		case "usemtl":
			obj := ensureObject()
			name := strings.Join(args, " ")
			if name != "" && !obj.matSet[name] {
				obj.matSet[name] = true
				obj.materials = append(obj.materials, name)
			}

		case "mtllib":
			reports.Add(ReportInfo, "line %d: material library %q referenced but not loaded", lineNo, strings.Join(args, " "))

		default:
			reports.Add(ReportInfo, "line %d: unsupported keyword %q, skipped", lineNo, keyword)
		}
	}
	if err := scanner.Err(); err != nil {
		reports.Add(ReportError, "reading OBJ content: %v", err)
		return nil
	}

	geometries := finalize(objects, positions, normals)
	if len(geometries) == 0 {
		reports.Add(ReportInfo, "no geometry found")
	}
	return geometries
}

// finalize remaps each object's global indices into compact per-geometry
// vertex lists. Objects with no faces are dropped.
func finalize(objects []*objectState, positions, normals []r3.Vec) []*scene.Geometry {
	var out []*scene.Geometry
	for _, obj := range objects {
		if len(obj.faces) == 0 {
			continue
		}

		g := &scene.Geometry{Name: obj.name, Materials: obj.materials}

		remap := make(map[int]int)
		for _, face := range obj.faces {
			mapped := make([]int, len(face))
			for i, global := range face {
				local, ok := remap[global]
				if !ok {
					local = len(g.Positions)
					remap[global] = local
					g.Positions = append(g.Positions, positions[global])
				}
				mapped[i] = local
			}
			g.Faces = append(g.Faces, mapped)
		}

		for _, ni := range obj.normalRef {
			g.Normals = append(g.Normals, normals[ni])
		}

		out = append(out, g)
	}
	return out
}

func parseVec(args []string) (r3.Vec, bool) {
	if len(args) < 3 {
		return r3.Vec{}, false
	}
	var coords [3]float64
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseFloat(args[i], 64)
		if err != nil {
			return r3.Vec{}, false
		}
		coords[i] = v
	}
	return r3.Vec{X: coords[0], Y: coords[1], Z: coords[2]}, true
}

// parseFace resolves the position and normal index of every face corner.
// OBJ indices are 1-based; negative indices count back from the end of the
// respective list. Returned indices are 0-based; normal indices are -1 when
// absent.
func parseFace(args []string, positionCount, normalCount int) (face []int, faceNormals []int, ok bool) {
	if len(args) < 3 {
		return nil, nil, false
	}
	for _, spec := range args {
		parts := strings.Split(spec, "/")

		pi, ok := resolveIndex(parts[0], positionCount)
		if !ok {
			return nil, nil, false
		}
		face = append(face, pi)

		ni := -1
		if len(parts) >= 3 && parts[2] != "" {
			n, ok := resolveIndex(parts[2], normalCount)
			if !ok {
				return nil, nil, false
			}
			ni = n
		}
		faceNormals = append(faceNormals, ni)
	}
	return face, faceNormals, true
}

func resolveIndex(s string, count int) (int, bool) {
	raw, err := strconv.Atoi(s)
	if err != nil || raw == 0 {
		return 0, false
	}
	idx := raw
	if idx < 0 {
		idx = count + idx + 1
	}
	if idx < 1 || idx > count {
		return 0, false
	}
	return idx - 1, true
}
