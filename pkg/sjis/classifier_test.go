package sjis

import (
	"errors"
	"testing"
)

// stubOracle answers from a fixed map and falls back to the marker byte,
// which lets tests reach byte pairs no real rune encodes to.
type stubOracle map[rune][]byte

func (o stubOracle) EncodeRune(r rune) ([]byte, error) {
	if seq, ok := o[r]; ok {
		return seq, nil
	}
	return []byte{FallbackMarker}, nil
}

// recordTracer captures the classified runes in order.
type recordTracer struct {
	runes   []rune
	reasons []Reason
}

func (t *recordTracer) Trace(r rune, reason Reason) {
	t.runes = append(t.runes, r)
	t.reasons = append(t.reasons, reason)
}

func TestClassifyVerdicts(t *testing.T) {
	v := NewValidator(nil, nil)

	tests := []struct {
		name   string
		input  string
		mode   Mode
		tables Tables
		want   bool
	}{
		{"empty", "", AllowNone, SymbolTables, false},
		{"ascii", "hello 123", AllowNone, SymbolTables, false},
		{"halfwidth katakana", "ｱｲｳｴｵ", AllowNone, SymbolTables, false},
		{"hiragana", "あいうえお", AllowNone, SymbolTables, false},
		{"katakana", "アイウエオ", AllowNone, SymbolTables, false},
		{"fullwidth alnum", "ＡＢＣ０１２ａｂｃ", AllowNone, SymbolTables, false},
		{"level1 kanji", "亜一日本語", AllowNone, SymbolTables, false},
		{"question mark is exempt", "?", AllowNone, SymbolTables, false},
		{"question mark is exempt kanji variant", "???", AllowNone, KanjiTables, false},
		{"unencodable", "€", AllowNone, KanjiTables, true},
		{"unencodable mixed", "ab한cd", AllowNone, KanjiTables, true},
		{"em dash strict narrow", "—", AllowNone, SymbolTables, false},
		{"em dash strict broad", "—", AllowNone, KanjiTables, false},
		{"prolonged sound mark strict", "ー", AllowNone, SymbolTables, false},
		{"iteration mark strict", "々", AllowNone, SymbolTables, false},
		{"ideographic space narrow", "　", AllowNone, SymbolTables, true},
		{"ideographic space broad", "　", AllowNone, KanjiTables, false},
		{"middle dot strict narrow", "・", AllowNone, SymbolTables, true},
		{"middle dot strict broad", "・", AllowNone, KanjiTables, false},
		{"middle dot bars_dots narrow", "・", AllowBarsDots, SymbolTables, false},
		{"halfwidth middle dot strict", "･", AllowNone, SymbolTables, false},
		{"box drawing strict narrow", "─", AllowNone, SymbolTables, true},
		{"box drawing bars_dots narrow", "─", AllowBarsDots, SymbolTables, false},
		{"minus sign strict narrow", "−", AllowNone, SymbolTables, true},
		{"minus sign bars_dots narrow", "−", AllowBarsDots, SymbolTables, false},
		{"fullwidth tilde strict narrow", "～", AllowNone, SymbolTables, true},
		{"fullwidth tilde bars_dots narrow", "～", AllowBarsDots, SymbolTables, true},
		{"fullwidth tilde all narrow", "～", AllowAll, SymbolTables, false},
		{"fullwidth tilde strict broad", "～", AllowNone, KanjiTables, false},
		{"fullwidth punctuation broad", "、。「」", AllowNone, KanjiTables, false},
		{"fullwidth punctuation narrow", "、", AllowNone, SymbolTables, true},
		{"greek broad", "ΑΒΓαβγ", AllowNone, KanjiTables, false},
		{"cyrillic broad", "АБВ", AllowNone, KanjiTables, false},
		{"greek narrow", "Α", AllowNone, SymbolTables, true},
		{"supplementary kanji", "\U00020BB7", AllowNone, KanjiTables, true}, // 𠮷 has no Shift_JIS form
	}
	for _, tt := range tests {
		got, err := v.Classify(tt.input, tt.mode, tt.tables)
		if err != nil {
			t.Errorf("%s: Classify(%q): %v", tt.name, tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%s: Classify(%q, %v, %s) = %v, want %v",
				tt.name, tt.input, tt.mode, tt.tables.Name, got, tt.want)
		}
	}
}

func TestSymbolsAndKanjiForbiddenWrappers(t *testing.T) {
	v := NewValidator(nil, nil)

	// The ideographic space separates the two variants.
	if got, err := v.SymbolsForbidden("　", AllowNone); err != nil || !got {
		t.Errorf("SymbolsForbidden(ideographic space) = %v, %v; want true, nil", got, err)
	}
	if got, err := v.KanjiForbidden("　", AllowNone); err != nil || got {
		t.Errorf("KanjiForbidden(ideographic space) = %v, %v; want false, nil", got, err)
	}
}

func TestClassifyContinuesAfterUnencodable(t *testing.T) {
	tracer := &recordTracer{}
	v := NewValidator(nil, tracer)

	got, err := v.Classify("€aあ", AllowNone, KanjiTables)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if !got {
		t.Fatal("expected forbidden verdict")
	}
	// All three characters are examined: the unencodable branch records the
	// verdict but does not stop the scan.
	if len(tracer.runes) != 3 {
		t.Fatalf("expected 3 trace events, got %d (%q)", len(tracer.runes), string(tracer.runes))
	}
	if tracer.reasons[0] != ReasonUnencodable {
		t.Errorf("first reason = %s, want %s", tracer.reasons[0], ReasonUnencodable)
	}
	if tracer.reasons[1] != ReasonHalfWidth || tracer.reasons[2] != ReasonSafeRange {
		t.Errorf("unexpected reasons after unencodable: %v", tracer.reasons[1:])
	}
}

func TestClassifyStopsAtOutOfTablePair(t *testing.T) {
	// 0x81C0 sits between two table intervals and no real rune encodes
	// there, so the pair comes from a stub oracle.
	oracle := stubOracle{
		'x': {0x81, 0xC0},
		'y': {0x81, 0x40},
	}
	tracer := &recordTracer{}
	v := NewValidator(oracle, tracer)

	got, err := v.Classify("xy", AllowNone, KanjiTables)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if !got {
		t.Fatal("expected forbidden verdict")
	}
	// The scan stops at the table miss: 'y' is never examined.
	if len(tracer.runes) != 1 || tracer.runes[0] != 'x' {
		t.Fatalf("expected a single trace event for 'x', got %q", string(tracer.runes))
	}
	if tracer.reasons[0] != ReasonOutOfTable {
		t.Errorf("reason = %s, want %s", tracer.reasons[0], ReasonOutOfTable)
	}
}

func TestClassifyOracleContractViolation(t *testing.T) {
	oracle := stubOracle{'z': {1, 2, 3}}
	v := NewValidator(oracle, nil)

	got, err := v.Classify("z", AllowNone, SymbolTables)
	if !got {
		t.Error("verdict should be forbidden on oracle failure")
	}
	var encErr *EncodingError
	if !errors.As(err, &encErr) {
		t.Fatalf("expected *EncodingError, got %v", err)
	}
	if encErr.Rune != 'z' || len(encErr.Seq) != 3 {
		t.Errorf("unexpected error detail: %v", encErr)
	}
}

func TestClassifyPanicsOnInvalidMode(t *testing.T) {
	v := NewValidator(nil, nil)
	defer func() {
		if recover() == nil {
			t.Error("expected panic for invalid mode")
		}
	}()
	v.Classify("a", Mode(7), SymbolTables)
}

func TestSafeRoundTrip(t *testing.T) {
	// Strings drawn entirely from the safe and kanji tables are accepted by
	// both entry points under every mode.
	v := NewValidator(nil, nil)
	inputs := []string{
		"あいうえおかきくけこ",
		"アイウエオー",
		"ＡＢＣ０１２ａｂｃ",
		"亜一日本語検証",
		"ｱｲｳｴｵ123abc",
	}
	for _, s := range inputs {
		for _, mode := range []Mode{AllowNone, AllowBarsDots, AllowAll} {
			for _, tables := range []Tables{SymbolTables, KanjiTables} {
				got, err := v.Classify(s, mode, tables)
				if err != nil {
					t.Fatalf("Classify(%q, %v, %s): %v", s, mode, tables.Name, err)
				}
				if got {
					t.Errorf("Classify(%q, %v, %s) = true, want false", s, mode, tables.Name)
				}
			}
		}
	}
}

func TestPermittedSignsUnderAllowAll(t *testing.T) {
	// Every sign in the permitted sets passes under AllowAll, both variants.
	v := NewValidator(nil, nil)
	signs := append(append([]rune{}, permitBars...), permitDots...)
	signs = append(signs, FullwidthTilde)
	for _, c := range signs {
		for _, tables := range []Tables{SymbolTables, KanjiTables} {
			got, err := v.Classify(string(c), AllowAll, tables)
			if err != nil {
				t.Fatalf("Classify(%q): %v", c, err)
			}
			if got {
				t.Errorf("Classify(%q, AllowAll, %s) = true, want false", c, tables.Name)
			}
		}
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		input   string
		want    Mode
		wantErr bool
	}{
		{"", AllowNone, false},
		{"none", AllowNone, false},
		{"bars_dots", AllowBarsDots, false},
		{"all", AllowAll, false},
		{"strict", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMode(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("ParseMode(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestCheck(t *testing.T) {
	v := NewValidator(nil, nil)

	tests := []struct {
		name       string
		input      string
		mode       Mode
		tables     Tables
		normalized string
		symbolHit  bool
		encoding   bool
	}{
		{"clean", "こんにちは", AllowAll, KanjiTables, "こんにちは", false, false},
		{"wave dash folds before checks", "a〜b", AllowAll, KanjiTables, "a～b", false, false},
		{"tilde rejected when mode forbids it", "a~b", AllowNone, SymbolTables, "a～b", false, true},
		{"deny symbol", "a<b", AllowAll, KanjiTables, "a<b", true, false},
		{"unencodable", "€", AllowAll, KanjiTables, "€", true, true},
	}
	for _, tt := range tests {
		rep, err := v.Check(tt.input, tt.mode, tt.tables)
		if err != nil {
			t.Errorf("%s: Check(%q): %v", tt.name, tt.input, err)
			continue
		}
		if rep.Normalized != tt.normalized {
			t.Errorf("%s: Normalized = %q, want %q", tt.name, rep.Normalized, tt.normalized)
		}
		if rep.SymbolHit != tt.symbolHit {
			t.Errorf("%s: SymbolHit = %v, want %v", tt.name, rep.SymbolHit, tt.symbolHit)
		}
		if rep.EncodingForbidden != tt.encoding {
			t.Errorf("%s: EncodingForbidden = %v, want %v", tt.name, rep.EncodingForbidden, tt.encoding)
		}
		if rep.Forbidden != (tt.symbolHit || tt.encoding) {
			t.Errorf("%s: Forbidden = %v", tt.name, rep.Forbidden)
		}
	}
}
