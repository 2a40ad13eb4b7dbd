// Package diag collects the diagnostics produced while generating shaders.
//
// Every diagnostic carries a stable ID. IDs are grouped by the kind of failure:
//
//	GXSL1xxx  structural errors, fatal to one shader class
//	GXSL2xxx  mapping errors, fatal to one backend of one shader class
//	GXSL3xxx  tooling errors, advisory
//	GXSL4xxx  configuration errors
package diag

import (
	"fmt"
	"go/token"
	"strings"
)

// Severity represents the severity level of a diagnostic.
type Severity int

const (
	Error Severity = iota
	Warning
	Info
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Info:
		return "info"
	default:
		return "unknown"
	}
}

// ID is a stable, namespaced diagnostic code.
type ID string

// Structural errors.
const (
	NoEntryMethod        ID = "GXSL1001"
	BadEntrySignature    ID = "GXSL1002"
	ConflictingStorage   ID = "GXSL1003"
	StageOnNonIO         ID = "GXSL1004"
	MissingBinding       ID = "GXSL1005"
	MissingUniqueBinding ID = "GXSL1006"
	DuplicateSetBinding  ID = "GXSL1007"
	DuplicateUnique      ID = "GXSL1008"
	DuplicateSemantic    ID = "GXSL1009"
	UnknownSemantic      ID = "GXSL1010"
	SemanticWrongStage   ID = "GXSL1011"
	SemanticTypeMismatch ID = "GXSL1012"
	UnknownHostType      ID = "GXSL1013"
	UnknownBackend       ID = "GXSL1014"
	UnsupportedStage     ID = "GXSL1015"
	BadMarker            ID = "GXSL1016"
	Unresolved           ID = "GXSL1099"
)

// Mapping errors.
const (
	UnmappedType         ID = "GXSL2001"
	UnmappedSemantic     ID = "GXSL2002"
	BackendTypeMismatch  ID = "GXSL2003"
	UnsupportedConstruct ID = "GXSL2004"
	LoweringFailed       ID = "GXSL2005"
)

// Tooling diagnostics.
const (
	ValidationFailed  ID = "GXSL3001"
	ValidationTimeout ID = "GXSL3002"
	ValidatorInternal ID = "GXSL3003"
)

// Configuration errors.
const (
	InconsistentTypeMap ID = "GXSL4001"
	BadConfig           ID = "GXSL4002"
)

// Diagnostic is a single error, warning or info message.
type Diagnostic struct {
	ID       ID
	Severity Severity
	Message  string
	Pos      token.Position // optional
	Shader   string         // optional, the shader class it is attributed to
	Backend  string         // optional, the backend it is attributed to
}

// Errorf returns an error diagnostic with a formatted message.
func Errorf(id ID, pos token.Position, format string, args ...interface{}) Diagnostic {
	return Diagnostic{ID: id, Severity: Error, Message: fmt.Sprintf(format, args...), Pos: pos}
}

// Warningf returns a warning diagnostic with a formatted message.
func Warningf(id ID, pos token.Position, format string, args ...interface{}) Diagnostic {
	return Diagnostic{ID: id, Severity: Warning, Message: fmt.Sprintf(format, args...), Pos: pos}
}

// Infof returns an info diagnostic with a formatted message.
func Infof(id ID, pos token.Position, format string, args ...interface{}) Diagnostic {
	return Diagnostic{ID: id, Severity: Info, Message: fmt.Sprintf(format, args...), Pos: pos}
}

// In attributes d to a shader class and backend. Empty arguments keep the
// current attribution.
func (d Diagnostic) In(shader, backend string) Diagnostic {
	if shader != "" {
		d.Shader = shader
	}
	if backend != "" {
		d.Backend = backend
	}
	return d
}

// String formats d as `file:line:col: severity[ID]: (shader/backend) message`.
func (d Diagnostic) String() string {
	builder := &strings.Builder{}
	if d.Pos.IsValid() {
		builder.WriteString(d.Pos.String())
		builder.WriteString(": ")
	}
	builder.WriteString(d.Severity.String())
	builder.WriteByte('[')
	builder.WriteString(string(d.ID))
	builder.WriteString("]: ")
	if d.Shader != "" {
		builder.WriteByte('(')
		builder.WriteString(d.Shader)
		if d.Backend != "" {
			builder.WriteByte('/')
			builder.WriteString(d.Backend)
		}
		builder.WriteString(") ")
	}
	builder.WriteString(d.Message)
	return builder.String()
}

// List is an ordered slice of diagnostics.
type List []Diagnostic

// HasErrors reports whether any diagnostic in l is an error.
func (l List) HasErrors() bool {
	for _, d := range l {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

// Has reports whether l contains a diagnostic with the given ID.
func (l List) Has(id ID) bool {
	for _, d := range l {
		if d.ID == id {
			return true
		}
	}
	return false
}

// In attributes every diagnostic in l, see Diagnostic.In.
func (l List) In(shader, backend string) List {
	result := make(List, len(l))
	for i, d := range l {
		result[i] = d.In(shader, backend)
	}
	return result
}

func (l List) String() string {
	builder := &strings.Builder{}
	for _, d := range l {
		builder.WriteString(d.String())
		builder.WriteByte('\n')
	}
	return builder.String()
}
