package grove

import (
	"strings"

	log "github.com/sirupsen/logrus"
)

// DiagnosticKind classifies a resolution diagnostic.
type DiagnosticKind uint8

const (
	DiagnosticNotFound    DiagnosticKind = iota // no candidate, dependency required
	DiagnosticAmbiguous                         // several candidates, no search order
	DiagnosticTimeout                           // WaitFor deadline elapsed
	DiagnosticInvalidSort                       // Sort called with an invalid pick order
)

func (k DiagnosticKind) String() string {
	switch k {
	case DiagnosticNotFound:
		return "not-found"
	case DiagnosticAmbiguous:
		return "ambiguous"
	case DiagnosticTimeout:
		return "timeout"
	case DiagnosticInvalidSort:
		return "invalid-sort"
	default:
		return "unknown"
	}
}

// Diagnostic describes a resolution failure in enough detail to find the
// offending call site: who searched, for what, with which filters, and which
// candidates were seen.
type Diagnostic struct {
	Kind       DiagnosticKind
	Searcher   string   // path of the origin node
	Type       string   // expected component type
	Filters    string   // applied relation, name and side filters
	Candidates []string // candidate node paths (ambiguous matches)
}

// DiagnosticSink receives resolution diagnostics. Set one on a Scene with
// SetDiagnosticSink to forward failures to a game's own systems.
type DiagnosticSink interface {
	EmitDiagnostic(d Diagnostic)
}

// report logs d and forwards it to the sink, if any.
func (s *Scene) report(d Diagnostic) {
	fields := log.Fields{
		"kind":     d.Kind.String(),
		"searcher": d.Searcher,
		"type":     d.Type,
	}
	if d.Filters != "" {
		fields["filters"] = d.Filters
	}
	if len(d.Candidates) > 0 {
		fields["candidates"] = strings.Join(d.Candidates, ", ")
	}
	entry := s.logger.WithFields(fields)
	switch d.Kind {
	case DiagnosticNotFound:
		entry.Error("grove: dependency not found")
	case DiagnosticAmbiguous:
		entry.Warn("grove: ambiguous dependency, using first candidate")
	case DiagnosticTimeout:
		entry.Error("grove: gave up waiting for dependency")
	default:
		entry.Warn("grove: invalid pick order, returning first argument")
	}
	if s.sink != nil {
		s.sink.EmitDiagnostic(d)
	}
}
