package diag

import (
	"io"
	"sync"
)

// Reporter is the run-wide diagnostic sink. Report may be called from any
// goroutine; it only appends under the lock. Output happens in Flush.
type Reporter struct {
	mu      sync.Mutex
	items   []Diagnostic
	seen    map[Diagnostic]struct{}
	dedupe  bool
	flushed int
}

// Option configures a Reporter.
type Option func(*Reporter)

// KeepDuplicates disables de-duplication of identical diagnostics.
func KeepDuplicates() Option {
	return func(r *Reporter) { r.dedupe = false }
}

func NewReporter(opts ...Option) *Reporter {
	r := &Reporter{
		seen:   make(map[Diagnostic]struct{}),
		dedupe: true,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Report appends ds. Identical diagnostics are recorded once unless the
// reporter was created with KeepDuplicates.
func (r *Reporter) Report(ds ...Diagnostic) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range ds {
		if r.dedupe {
			if _, ok := r.seen[d]; ok {
				continue
			}
			r.seen[d] = struct{}{}
		}
		r.items = append(r.items, d)
	}
}

// All returns a copy of every diagnostic reported so far, in report order.
func (r *Reporter) All() List {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make(List, len(r.items))
	copy(result, r.items)
	return result
}

// For returns the diagnostics attributed to the given shader class.
func (r *Reporter) For(shader string) List {
	var result List
	for _, d := range r.All() {
		if d.Shader == shader {
			result = append(result, d)
		}
	}
	return result
}

func (r *Reporter) HasErrors() bool {
	return r.All().HasErrors()
}

// Count returns the number of diagnostics with the given severity.
func (r *Reporter) Count(severity Severity) int {
	count := 0
	for _, d := range r.All() {
		if d.Severity == severity {
			count++
		}
	}
	return count
}

// Flush writes every diagnostic not yet flushed to w, one per line.
func (r *Reporter) Flush(w io.Writer) error {
	r.mu.Lock()
	pending := make(List, len(r.items)-r.flushed)
	copy(pending, r.items[r.flushed:])
	r.flushed = len(r.items)
	r.mu.Unlock()

	_, err := io.WriteString(w, pending.String())
	return err
}
