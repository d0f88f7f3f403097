package importer

import (
	"errors"
	"io"
	"sort"
	"strings"

	"github.com/extracto-dev/extracto/internal/model"
)

var (
	// ErrCurrencyUnrecognized means a row's currency token could not be mapped
	// to a known currency code. The whole batch is discarded.
	ErrCurrencyUnrecognized = errors.New("unrecognized currency")
	// ErrCurrencyInconsistent means two rows of one batch carry different
	// currencies. The whole batch is discarded.
	ErrCurrencyInconsistent = errors.New("multiple currencies detected in same batch")
)

// Batch is the result of one parse: candidates in order of appearance plus
// the currency every row agreed on.
type Batch struct {
	Candidates  []model.Transaction
	Currency    string // canonical code, "" when no row matched
	RawCurrency string // token of the first matched row
}

// Parser converts pasted statement text into transaction candidates.
type Parser interface {
	Parse(r io.Reader) (Batch, error)
	Format() string
}

// Registry holds named parsers.
type Registry struct {
	parsers map[string]Parser
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// Formats returns the registered format names, sorted.
func (r *Registry) Formats() []string {
	names := make([]string, 0, len(r.parsers))
	for name := range r.parsers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry returns a registry with all built-in parsers, dating rows
// in the given reference year (0 = current year).
func DefaultRegistry(year int) *Registry {
	r := NewRegistry()
	r.Register(&LinePairParser{Year: year})
	return r
}
