package sjis

import "fmt"

// Mode controls which permitted signs bypass byte-range checking entirely.
type Mode int

const (
	// AllowNone grants no bypass: every character goes through the byte checks.
	AllowNone Mode = iota
	// AllowBarsDots lets the permitted dash and middle-dot signs through.
	AllowBarsDots
	// AllowAll lets the dash and dot signs and the fullwidth tilde through.
	AllowAll
)

func (m Mode) String() string {
	switch m {
	case AllowNone:
		return "none"
	case AllowBarsDots:
		return "bars_dots"
	case AllowAll:
		return "all"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode resolves a mode name. Accepts "none", "bars_dots" and "all";
// the empty string means AllowNone.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "none":
		return AllowNone, nil
	case "bars_dots":
		return AllowBarsDots, nil
	case "all":
		return AllowAll, nil
	}
	return 0, fmt.Errorf("unknown mode %q", s)
}

func (m Mode) validate() {
	if m < AllowNone || m > AllowAll {
		panic(fmt.Sprintf("sjis: invalid mode %d", int(m)))
	}
}

// EncodingError reports a byte oracle answer that violates the oracle
// contract: an error instead of a sequence, or a sequence that is not one or
// two bytes long. The scan aborts at the offending character.
type EncodingError struct {
	Rune rune
	Seq  []byte
	Err  error
}

func (e *EncodingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("encode %q: %v", e.Rune, e.Err)
	}
	return fmt.Sprintf("encode %q: sequence of %d bytes", e.Rune, len(e.Seq))
}

func (e *EncodingError) Unwrap() error { return e.Err }

// Validator classifies strings against the Shift_JIS permission tables.
// It holds no mutable state and is safe for concurrent use.
type Validator struct {
	oracle Encoder
	tracer Tracer
}

// NewValidator builds a Validator. A nil oracle selects the default
// Shift_JIS oracle, a nil tracer disables tracing.
func NewValidator(oracle Encoder, tracer Tracer) *Validator {
	if oracle == nil {
		oracle = ShiftJISOracle()
	}
	if tracer == nil {
		tracer = nopTracer{}
	}
	return &Validator{oracle: oracle, tracer: tracer}
}

// SymbolsForbidden reports whether s contains a character rejected under the
// narrow (symbols) tables.
func (v *Validator) SymbolsForbidden(s string, mode Mode) (bool, error) {
	return v.Classify(s, mode, SymbolTables)
}

// KanjiForbidden reports whether s contains a character rejected under the
// broad (kanji) tables, which additionally accept the fullwidth punctuation,
// Greek, Cyrillic and box drawing blocks.
func (v *Validator) KanjiForbidden(s string, mode Mode) (bool, error) {
	return v.Classify(s, mode, KanjiTables)
}

// Classify walks s once and reports whether any character must be rejected
// under the given tables.
//
// An unencodable character marks the verdict and the scan continues; a
// double-byte character outside both tables marks the verdict and the scan
// stops. The difference is deliberate legacy behavior: later unencodable
// characters still produce trace events, characters after a table miss do
// not.
func (v *Validator) Classify(s string, mode Mode, tables Tables) (bool, error) {
	mode.validate()

	forbidden := false
	for _, r := range s {
		seq, err := v.oracle.EncodeRune(r)
		if err != nil {
			return true, &EncodingError{Rune: r, Err: err}
		}
		if len(seq) == 0 || len(seq) > 2 {
			return true, &EncodingError{Rune: r, Seq: seq}
		}

		switch {
		case mode == AllowBarsDots && isPermittedBarsDots(r):
			v.tracer.Trace(r, ReasonAllowedSign)

		case mode == AllowAll && isPermittedAll(r):
			v.tracer.Trace(r, ReasonAllowedSign)

		case seq[0] == FallbackMarker && r != '?':
			v.tracer.Trace(r, ReasonUnencodable)
			forbidden = true

		case seq[0] <= 0x7E || (seq[0] >= 0xA1 && seq[0] <= 0xDE):
			v.tracer.Trace(r, ReasonHalfWidth)

		case len(seq) == 1:
			v.tracer.Trace(r, ReasonSingleByte)

		default:
			pair := uint16(seq[0])<<8 | uint16(seq[1])
			switch {
			case tables.Safe.Contains(pair):
				v.tracer.Trace(r, ReasonSafeRange)
			case tables.Kanji.Contains(pair):
				v.tracer.Trace(r, ReasonKanjiRange)
			default:
				v.tracer.Trace(r, ReasonOutOfTable)
				return true, nil
			}
		}
	}
	return forbidden, nil
}

// Report is the combined verdict for one input string.
type Report struct {
	Text              string `json:"text"`
	Normalized        string `json:"normalized"`
	SymbolHit         bool   `json:"symbol_hit"`
	EncodingForbidden bool   `json:"encoding_forbidden"`
	Forbidden         bool   `json:"forbidden"`
}

// Check normalizes s, then runs the symbol denylist and the encoding
// classification on the normalized form. Normalization must come first so
// the rejected dash and tilde variants cannot shadow the permitted signs.
func (v *Validator) Check(s string, mode Mode, tables Tables) (*Report, error) {
	normalized := Normalize(s)
	encForbidden, err := v.Classify(normalized, mode, tables)
	if err != nil {
		return nil, err
	}
	symbolHit := ContainsForbiddenSymbol(normalized)
	return &Report{
		Text:              s,
		Normalized:        normalized,
		SymbolHit:         symbolHit,
		EncodingForbidden: encForbidden,
		Forbidden:         symbolHit || encForbidden,
	}, nil
}
