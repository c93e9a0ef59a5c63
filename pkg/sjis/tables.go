package sjis

import (
	"fmt"
	"regexp"
)

// Characters permitted by policy regardless of byte-range membership.
//
// EmDash is also the canonical replacement for the rejected dash variants,
// FullwidthTilde for the rejected tilde variants.
const (
	EmDash         = '—' // —
	FullwidthTilde = '～' // ～
)

// permitBars are the hyphen/dash signs accepted under AllowBarsDots and AllowAll:
// hyphen-minus, hyphen, em dash, box drawings light horizontal,
// fullwidth hyphen-minus, minus sign.
var permitBars = []rune{'-', '‐', EmDash, '─', '－', '−'}

// permitDots are the middle-dot signs accepted under AllowBarsDots and AllowAll:
// katakana middle dot and its halfwidth form.
var permitDots = []rune{'・', '･'}

func isPermittedBarsDots(c rune) bool {
	for _, sign := range permitBars {
		if sign == c {
			return true
		}
	}
	for _, sign := range permitDots {
		if sign == c {
			return true
		}
	}
	return false
}

func isPermittedAll(c rune) bool {
	return c == FullwidthTilde || isPermittedBarsDots(c)
}

// denyPattern rejects individual symbol characters forbidden by policy even
// when they are encodable. U+301C (wave dash) is listed explicitly: some
// storage dialects fold it into U+FF5E, others do not, so it is never trusted.
var denyPattern = regexp.MustCompile("^[^<>\"&,*$%|∥£€=`#~^\\[\\]();:{}〜＾―]*$")

// ContainsForbiddenSymbol reports whether s contains at least one character
// from the symbol denylist. The empty string is not forbidden.
func ContainsForbiddenSymbol(s string) bool {
	return !denyPattern.MatchString(s)
}

// ByteRange is a closed interval over two-byte Shift_JIS values.
// The pair 0x8140 means first byte 0x81, second byte 0x40.
type ByteRange struct {
	Lo, Hi uint16
}

// RangeTable is an ordered list of permitted byte-pair intervals.
type RangeTable []ByteRange

// Contains reports whether pair falls inside any interval of the table.
func (t RangeTable) Contains(pair uint16) bool {
	for _, r := range t {
		if pair >= r.Lo && pair <= r.Hi {
			return true
		}
	}
	return false
}

// Tables is one classification variant: a safe table for kana, fullwidth
// alphanumerics and (in the kanji variant) additional symbol blocks, plus the
// shared table of encodable ideograph blocks. A double-byte character passes
// when its pair is in either table.
type Tables struct {
	Name  string
	Safe  RangeTable
	Kanji RangeTable
}

// kanjiBlocks are the Shift_JIS level 1 + level 2 kanji regions and the IBM
// extension block, shared by both variants.
var kanjiBlocks = RangeTable{
	{0x889F, 0x9872},
	{0x989F, 0x9FFC},
	{0xE040, 0xEAA4},
}

// SymbolTables is the narrow variant: beyond kana and fullwidth
// alphanumerics, only the iteration mark and the dash block of the fullwidth
// punctuation row are safe.
var SymbolTables = Tables{
	Name: "symbols",
	Safe: RangeTable{
		{0x8158, 0x8158}, // 々
		{0x815B, 0x815D}, // ー ― ‐
		{0x824F, 0x8258}, // ０-９
		{0x8260, 0x8279}, // Ａ-Ｚ
		{0x8281, 0x829A}, // ａ-ｚ
		{0x829F, 0x82F1}, // ぁ-ん
		{0x8340, 0x8396}, // ァ-ヶ
	},
	Kanji: kanjiBlocks,
}

// KanjiTables is the broad variant: it additionally accepts the fullwidth
// punctuation row (minus its vendor-dependent gaps), Greek, Cyrillic and the
// box drawing block.
var KanjiTables = Tables{
	Name: "kanji",
	Safe: RangeTable{
		{0x8140, 0x81AC},
		{0x81B8, 0x81BF},
		{0x81C8, 0x81CE},
		{0x81DA, 0x81E8},
		{0x81F0, 0x81F7},
		{0x81FC, 0x81FC},
		{0x824F, 0x8258},
		{0x8260, 0x8279},
		{0x8281, 0x829A},
		{0x829F, 0x82F1},
		{0x8340, 0x8396},
		{0x839F, 0x83B6},
		{0x83BF, 0x83D6},
		{0x8440, 0x8460},
		{0x8470, 0x8491},
		{0x849F, 0x84BE},
	},
	Kanji: kanjiBlocks,
}

// TablesByName resolves a variant name ("symbols" or "kanji").
func TablesByName(name string) (Tables, bool) {
	switch name {
	case SymbolTables.Name:
		return SymbolTables, true
	case KanjiTables.Name:
		return KanjiTables, true
	}
	return Tables{}, false
}

// TableInfo is the public metadata for one classification variant.
type TableInfo struct {
	Name        string   `json:"name"`
	SafeRanges  []string `json:"safe_ranges"`
	KanjiRanges []string `json:"kanji_ranges"`
}

// ListTables returns metadata for both variants, narrow first.
func ListTables() []TableInfo {
	return []TableInfo{tableInfo(SymbolTables), tableInfo(KanjiTables)}
}

func tableInfo(t Tables) TableInfo {
	return TableInfo{
		Name:        t.Name,
		SafeRanges:  t.Safe.strings(),
		KanjiRanges: t.Kanji.strings(),
	}
}

func hexPair(p uint16) string {
	return fmt.Sprintf("%04x", p)
}

func (t RangeTable) strings() []string {
	out := make([]string, 0, len(t))
	for _, r := range t {
		out = append(out, hexPair(r.Lo)+"-"+hexPair(r.Hi))
	}
	return out
}
