package flux

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/scynet/scynet/pkg/errors"
)

// Mode is the shape of a flux table.
type Mode int

const (
	// ModeNone marks an empty table or one with an unrecognized header.
	ModeNone Mode = iota
	// ModeFBA tables carry one flux value per reaction.
	ModeFBA
	// ModeFVA tables carry a min/max flux range per reaction.
	ModeFVA
)

// String returns "none", "fba" or "fva".
func (m Mode) String() string {
	switch m {
	case ModeFBA:
		return "fba"
	case ModeFVA:
		return "fva"
	default:
		return "none"
	}
}

// MarshalText encodes m by name.
func (m Mode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// UnmarshalText accepts the names produced by String; anything else is ModeNone.
func (m *Mode) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "fba":
		*m = ModeFBA
	case "fva":
		*m = ModeFVA
	default:
		*m = ModeNone
	}
	return nil
}

// Header column names.
const (
	ColumnReactionID = "reaction_id"
	ColumnFlux       = "flux"
	ColumnMinFlux    = "min_flux"
	ColumnMaxFlux    = "max_flux"
)

// Key suffixes of FVA entries.
const (
	SuffixMin = "_min"
	SuffixMax = "_max"
)

// Table maps reaction keys to flux values. FVA tables store two entries per
// reaction, "<key>_min" and "<key>_max".
type Table struct {
	Mode   Mode
	values map[string]float64
	keys   []string
}

// NewTable returns an empty table of the given mode.
func NewTable(mode Mode) *Table {
	return &Table{Mode: mode, values: make(map[string]float64)}
}

// Set stores a raw entry. Keys keep their first insertion position.
func (t *Table) Set(key string, v float64) {
	if _, ok := t.values[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.values[key] = v
}

// SetRange stores the min and max entries of an FVA reaction.
func (t *Table) SetRange(key string, lo, hi float64) {
	t.Set(key+SuffixMin, lo)
	t.Set(key+SuffixMax, hi)
}

// Get returns a raw entry.
func (t *Table) Get(key string) (float64, bool) {
	v, ok := t.values[key]
	return v, ok
}

// Len returns the number of raw entries.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.values)
}

// Empty reports whether the table carries no usable data.
func (t *Table) Empty() bool {
	return t == nil || t.Mode == ModeNone || len(t.values) == 0
}

// Keys returns the raw entry keys in insertion order.
func (t *Table) Keys() []string {
	if t == nil {
		return nil
	}
	return append([]string(nil), t.keys...)
}

// Lookup resolves the FBA flux of a reaction key. An empty key or an empty
// table yields nil ("no data"); a key missing from a non-empty table yields
// an explicit zero.
func (t *Table) Lookup(key string) *float64 {
	if key == "" || t.Empty() {
		return nil
	}
	v := t.values[key]
	return &v
}

// Range resolves the FVA bounds of a reaction key. Missing bounds are zero.
// ok is false when the key is empty or the table has no data.
func (t *Table) Range(key string) (lo, hi float64, ok bool) {
	if key == "" || t.Empty() {
		return 0, 0, false
	}
	return t.values[key+SuffixMin], t.values[key+SuffixMax], true
}

// Parse reads a tab-separated flux table. The header row is the first row
// whose first column is "reaction_id"; rows before it are skipped. A header
// other than "flux" or "min_flux, max_flux" yields an empty ModeNone table
// and no error. A malformed number fails the whole load with
// MALFORMED_FLUX_FILE and an empty table.
func Parse(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	var t *Table
	for {
		cols, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return NewTable(ModeNone), errors.Wrap(errors.ErrCodeMalformedFluxFile, err, "read flux table")
		}
		line, _ := cr.FieldPos(0)
		if blank(cols) {
			continue
		}

		if t == nil {
			if strings.TrimSpace(cols[0]) != ColumnReactionID {
				continue
			}
			t = NewTable(headerMode(cols))
			if t.Mode == ModeNone {
				return t, nil
			}
			continue
		}

		if err := t.parseRow(cols, line); err != nil {
			return NewTable(ModeNone), err
		}
	}
	if t == nil {
		return NewTable(ModeNone), nil
	}
	return t, nil
}

func blank(cols []string) bool {
	for _, c := range cols {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func headerMode(cols []string) Mode {
	for i := range cols {
		cols[i] = strings.TrimSpace(cols[i])
	}
	switch {
	case len(cols) >= 2 && cols[1] == ColumnFlux:
		return ModeFBA
	case len(cols) >= 3 && cols[1] == ColumnMinFlux && cols[2] == ColumnMaxFlux:
		return ModeFVA
	default:
		return ModeNone
	}
}

func (t *Table) parseRow(cols []string, line int) error {
	key := strings.TrimSpace(cols[0])
	switch t.Mode {
	case ModeFBA:
		if len(cols) < 2 {
			return malformed(line, "expected 2 columns, got %d", len(cols))
		}
		v, err := parseFloat(cols[1], line)
		if err != nil {
			return err
		}
		t.Set(key, v)
	case ModeFVA:
		if len(cols) < 3 {
			return malformed(line, "expected 3 columns, got %d", len(cols))
		}
		lo, err := parseFloat(cols[1], line)
		if err != nil {
			return err
		}
		hi, err := parseFloat(cols[2], line)
		if err != nil {
			return err
		}
		t.SetRange(key, lo, hi)
	}
	return nil
}

func parseFloat(s string, line int) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeMalformedFluxFile, err, "line %d: invalid flux value %q", line, s)
	}
	return v, nil
}

func malformed(line int, format string, args ...any) error {
	return errors.New(errors.ErrCodeMalformedFluxFile, "line %d: "+format, append([]any{line}, args...)...)
}
