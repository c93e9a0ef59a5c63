package sjis

import "log/slog"

// Reason identifies which branch of the classification tree accepted or
// rejected a character.
type Reason string

const (
	ReasonAllowedSign Reason = "allowed_sign" // permitted sign under the active mode
	ReasonUnencodable Reason = "unencodable"  // fallback marker, source rune is not '?'
	ReasonHalfWidth   Reason = "half_width"   // single-byte digits, letters, katakana, punctuation
	ReasonSingleByte  Reason = "single_byte"  // any other single-byte value
	ReasonSafeRange   Reason = "safe_range"   // double byte, in the safe table
	ReasonKanjiRange  Reason = "kanji_range"  // double byte, in the kanji table
	ReasonOutOfTable  Reason = "out_of_table" // double byte, in neither table
)

// Tracer observes per-character classification decisions. Implementations
// must not influence the verdict; the classifier never reads anything back.
type Tracer interface {
	Trace(r rune, reason Reason)
}

type slogTracer struct {
	logger *slog.Logger
}

// NewSlogTracer returns a Tracer that emits one debug record per character.
func NewSlogTracer(logger *slog.Logger) Tracer {
	if logger == nil {
		logger = slog.Default()
	}
	return slogTracer{logger: logger}
}

func (t slogTracer) Trace(r rune, reason Reason) {
	t.logger.Debug("classify", "char", string(r), "reason", string(reason))
}

type nopTracer struct{}

func (nopTracer) Trace(rune, Reason) {}
