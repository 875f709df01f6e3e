package token

import "testing"

func TestLookup(t *testing.T) {
	tests := []struct {
		literal string
		want    Kind
	}{
		{"class", Class},
		{"return", Return},
		{"true", True},
		{"null", Null},
		{"myVariable", Ident},
		{"record", Ident},
		{"sealed", Ident},
	}
	for _, tt := range tests {
		if got := Lookup(tt.literal); got != tt.want {
			t.Errorf("Lookup(%q) = %v, want %v", tt.literal, got, tt.want)
		}
	}
}

func TestIsContextualKeyword(t *testing.T) {
	for _, word := range []string{"record", "sealed", "permits", "yield", "var"} {
		if !IsContextualKeyword(word) {
			t.Errorf("IsContextualKeyword(%q) = false, want true", word)
		}
	}
	if IsContextualKeyword("class") {
		t.Errorf("IsContextualKeyword(\"class\") = true, want false")
	}
}

func TestIsTrivia(t *testing.T) {
	for _, k := range []Kind{Whitespace, LineComment, BlockComment, Javadoc} {
		if !k.IsTrivia() {
			t.Errorf("%v.IsTrivia() = false, want true", k)
		}
	}
	if Ident.IsTrivia() {
		t.Errorf("Ident.IsTrivia() = true, want false")
	}
}

func TestTokenEnd(t *testing.T) {
	tok := Token{Kind: Ident, Start: 10, Length: 4, Text: []byte("name")}
	if got := tok.End(); got != 14 {
		t.Errorf("End() = %d, want 14", got)
	}
	if got := tok.Literal(); got != "name" {
		t.Errorf("Literal() = %q, want %q", got, "name")
	}
}

func TestKindString(t *testing.T) {
	if got := Class.String(); got != "class" {
		t.Errorf("Class.String() = %q, want %q", got, "class")
	}
	if got := Kind(-1).String(); got != "Unknown" {
		t.Errorf("Kind(-1).String() = %q, want %q", got, "Unknown")
	}
}
