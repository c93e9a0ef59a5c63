package sjis

import (
	"golang.org/x/text/encoding/japanese"
)

// FallbackMarker is the single byte the oracle produces for runes that have
// no Shift_JIS representation. It is the byte value of '?', so callers must
// check the source rune before treating it as "unencodable".
const FallbackMarker = 0x3F

// Encoder converts one rune to its Shift_JIS byte sequence. Sequences are one
// or two bytes long; unencodable runes yield {FallbackMarker} rather than an
// error. An error is reserved for oracles that cannot answer at all.
type Encoder interface {
	EncodeRune(r rune) ([]byte, error)
}

// jisCompat pre-maps runes from the JIS X 0208 reading of the double-byte
// rows to the WHATWG reading used by x/text, so that the canonical characters
// the range tables were written for land on their table byte pairs.
// (0x815C decodes as U+2014 under JIS but U+2015 under WHATWG, and so on.)
var jisCompat = map[rune]rune{
	'—': '―', // em dash -> horizontal bar (0x815C)
	'〜': '～', // wave dash -> fullwidth tilde (0x8160)
	'‖': '∥', // double vertical line -> parallel to (0x8161)
	'−': '－', // minus sign -> fullwidth hyphen-minus (0x817C)
	'¢': '￠', // cent sign (0x8191)
	'£': '￡', // pound sign (0x8192)
	'¬': '￢', // not sign (0x81CA)
}

// shiftJISOracle is the default Encoder, backed by x/text. It is stateless:
// a fresh transformer is built per call, so concurrent use needs no locking.
type shiftJISOracle struct{}

// ShiftJISOracle returns the default byte oracle for the target encoding.
func ShiftJISOracle() Encoder {
	return shiftJISOracle{}
}

func (shiftJISOracle) EncodeRune(r rune) ([]byte, error) {
	if m, ok := jisCompat[r]; ok {
		r = m
	}
	b, err := japanese.ShiftJIS.NewEncoder().Bytes([]byte(string(r)))
	if err != nil || len(b) == 0 {
		// No repertoire entry for this rune: the legacy substitution byte.
		return []byte{FallbackMarker}, nil
	}
	return b, nil
}
