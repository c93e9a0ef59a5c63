package sjis

import "testing"

func TestContainsForbiddenSymbol(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"", false},
		{"abc", false},
		{"日本語テキスト", false},
		{"<", true},
		{"a<b", true},
		{">", true},
		{`"`, true},
		{"&", true},
		{",", true},
		{"*", true},
		{"$", true},
		{"%", true},
		{"|", true},
		{"∥", true},
		{"£", true},
		{"€", true},
		{"=", true},
		{"`", true},
		{"#", true},
		{"~", true},
		{"^", true},
		{"[", true},
		{"]", true},
		{"(", true},
		{")", true},
		{";", true},
		{":", true},
		{"{", true},
		{"}", true},
		{"〜", true}, // wave dash
		{"＾", true}, // fullwidth caret
		{"―", true}, // horizontal bar
		{"～", false}, // fullwidth tilde is not in the denylist
		{"—", false}, // em dash is not in the denylist
		{"ok text without symbols", false},
		{"trailing ;", true},
	}
	for _, tt := range tests {
		got := ContainsForbiddenSymbol(tt.input)
		if got != tt.want {
			t.Errorf("ContainsForbiddenSymbol(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
