// Package obj reads Wavefront OBJ files into scene geometries. It is a
// deliberately small reader: vertices, normals, faces, object grouping and
// material references. Anything it cannot parse degrades to a diagnostic
// report rather than a failed import.
package obj

import "fmt"

// ReportType classifies a diagnostic collected during an import.
type ReportType int

const (
	ReportInfo ReportType = iota
	ReportWarning
	ReportError
)

func (t ReportType) String() string {
	switch t {
	case ReportInfo:
		return "info"
	case ReportWarning:
		return "warning"
	case ReportError:
		return "error"
	default:
		return "unknown"
	}
}

// Report is one diagnostic message.
type Report struct {
	Type    ReportType
	Message string
}

// ReportList collects diagnostics across an import. The zero value is ready
// to use.
type ReportList struct {
	reports []Report
}

// Add appends a formatted report.
func (l *ReportList) Add(t ReportType, format string, args ...any) {
	l.reports = append(l.reports, Report{Type: t, Message: fmt.Sprintf(format, args...)})
}

// Reports returns all collected diagnostics in collection order.
func (l *ReportList) Reports() []Report {
	return l.reports
}

// HasError reports whether any diagnostic is classified as an error.
func (l *ReportList) HasError() bool {
	for _, r := range l.reports {
		if r.Type == ReportError {
			return true
		}
	}
	return false
}
