package diag

import (
	"errors"

	"ridl/internal/source"
)

// ErrReported signals that the failure details already live in the
// diagnostics context; callers should render the context instead of the
// error text.
var ErrReported = errors.New("diagnostics reported")

// DefaultMaxDiagnostics bounds how many diagnostics a context retains for
// display. Error counting is not affected by the bound.
const DefaultMaxDiagnostics = 200

// Context accumulates diagnostics and symbols for one compiler session.
// It is single-threaded by contract: phases run sequentially and share the
// same context. Mutating the context while Each iterates is a programmer
// error and panics.
type Context struct {
	bag     *Bag
	symbols []Symbol
	errors  int
	total   int
	busy    bool
}

// NewContext creates a context retaining up to max diagnostics. A
// non-positive max selects DefaultMaxDiagnostics.
func NewContext(max int) *Context {
	if max <= 0 {
		max = DefaultMaxDiagnostics
	}
	return &Context{bag: NewBag(max)}
}

// Reporter opens a scoped batch bound to this context. The caller must
// arrange delivery, usually with defer rep.Close().
func (c *Context) Reporter() *Reporter {
	return &Reporter{ctx: c}
}

func (c *Context) add(d Diagnostic) {
	if c.busy {
		panic("diag: context mutated during iteration")
	}
	c.total++
	if d.Severity >= SevError {
		c.errors++
	}
	c.bag.Add(d)
}

func (c *Context) addSymbol(s Symbol) {
	if c.busy {
		panic("diag: context mutated during iteration")
	}
	c.symbols = append(c.symbols, s)
}

// HasErrors reports whether any error-severity diagnostic was ever
// delivered, including ones dropped by the retention bound.
func (c *Context) HasErrors() bool {
	return c.errors > 0
}

// ErrorCount returns how many error-severity diagnostics were delivered.
func (c *Context) ErrorCount() int {
	return c.errors
}

// Len returns the number of retained diagnostics.
func (c *Context) Len() int {
	return c.bag.Len()
}

// Total returns the number of delivered diagnostics, dropped ones included.
func (c *Context) Total() int {
	return c.total
}

// Items returns a read-only view of the retained diagnostics in delivery
// order. Do not modify the returned slice.
func (c *Context) Items() []Diagnostic {
	return c.bag.Items()
}

// Symbols returns the recorded symbol entries in delivery order.
func (c *Context) Symbols() []Symbol {
	return c.symbols
}

// Each iterates retained diagnostics. Reporting into the context from the
// callback panics.
func (c *Context) Each(fn func(Diagnostic)) {
	c.busy = true
	defer func() { c.busy = false }()
	for _, d := range c.bag.Items() {
		fn(d)
	}
}

// Sort orders the retained diagnostics for rendering.
func (c *Context) Sort() {
	c.bag.Sort()
}

// Err returns ErrReported when the context holds errors, nil otherwise.
func (c *Context) Err() error {
	if c.HasErrors() {
		return ErrReported
	}
	return nil
}

// Reporter is a scoped diagnostic batch. Entries buffer until Flush or
// Close delivers them to the context; delivery is exactly-once.
type Reporter struct {
	ctx     *Context
	pending []*Diagnostic
	symbols []Symbol
	errors  int
	gen     uint32
}

// Entry allows attaching notes to a just-reported diagnostic. Notes must be
// attached before the reporter flushes.
type Entry struct {
	d   *Diagnostic
	r   *Reporter
	gen uint32
}

// Note attaches a secondary span to the entry's diagnostic.
func (e *Entry) Note(span source.Span, msg string) *Entry {
	if e.r.gen != e.gen {
		panic("diag: note attached after flush")
	}
	e.d.Notes = append(e.d.Notes, Note{Span: span, Msg: msg})
	return e
}

func (r *Reporter) report(sev Severity, code Code, primary source.Span, msg string) *Entry {
	d := &Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  msg,
		Primary:  primary,
	}
	r.pending = append(r.pending, d)
	if sev >= SevError {
		r.errors++
	}
	return &Entry{d: d, r: r, gen: r.gen}
}

// Error reports an error-severity diagnostic.
func (r *Reporter) Error(code Code, primary source.Span, msg string) *Entry {
	return r.report(SevError, code, primary, msg)
}

// Warning reports a warning-severity diagnostic.
func (r *Reporter) Warning(code Code, primary source.Span, msg string) *Entry {
	return r.report(SevWarning, code, primary, msg)
}

// Info reports an info-severity diagnostic.
func (r *Reporter) Info(code Code, primary source.Span, msg string) *Entry {
	return r.report(SevInfo, code, primary, msg)
}

// Symbol records a declaration position for tooling.
func (r *Reporter) Symbol(kind string, span source.Span, name string) {
	r.symbols = append(r.symbols, Symbol{Kind: kind, Span: span, Name: name})
}

// HasErrors reports whether this reporter carried any error-severity
// diagnostic, flushed or not. Warnings and infos do not count.
func (r *Reporter) HasErrors() bool {
	return r.errors > 0
}

// Flush delivers all buffered entries to the context and invalidates
// outstanding Entry handles. Flushing an empty reporter is a no-op.
func (r *Reporter) Flush() {
	if len(r.pending) == 0 && len(r.symbols) == 0 {
		return
	}
	r.gen++
	for _, d := range r.pending {
		r.ctx.add(*d)
	}
	r.pending = r.pending[:0]
	for _, s := range r.symbols {
		r.ctx.addSymbol(s)
	}
	r.symbols = r.symbols[:0]
}

// Close flushes the reporter and converts its outcome into an error:
// ErrReported when errors were reported, nil otherwise. Close is idempotent
// and safe to defer.
func (r *Reporter) Close() error {
	r.Flush()
	if r.errors > 0 {
		return ErrReported
	}
	return nil
}
