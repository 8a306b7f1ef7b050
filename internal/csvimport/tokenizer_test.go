package csvimport

import (
	"reflect"
	"testing"
)

func TestDetectDelimiter(t *testing.T) {
	tests := []struct {
		name string
		text string
		want rune
	}{
		{"comma", "a,b,c\n1;2;3", ','},
		{"semicolon", "a;b;c\n1,2,3", ';'},
		{"tie_prefers_comma", "a;b,c", ','},
		{"empty", "", ','},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectDelimiter(tt.text); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestTokenize(t *testing.T) {
	t.Run("simple_rows", func(t *testing.T) {
		got := Tokenize("a,b\n1,2")
		want := [][]string{{"a", "b"}, {"1", "2"}}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("semicolon_keeps_decimal_commas", func(t *testing.T) {
		got := Tokenize("a;b;c\n1,5;2;3")
		want := [][]string{{"a", "b", "c"}, {"1,5", "2", "3"}}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("quoted_fields", func(t *testing.T) {
		got := Tokenize("name,note\n\"Smith, J\",\"said \"\"hi\"\"\nthere\"")
		want := [][]string{{"name", "note"}, {"Smith, J", "said \"hi\"\nthere"}}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("crlf_and_blank_rows", func(t *testing.T) {
		got := Tokenize("a,b\r\n\r\n , \r\n1,2\r\n")
		want := [][]string{{"a", "b"}, {"1", "2"}}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("lone_carriage_return", func(t *testing.T) {
		got := Tokenize("a\rb")
		want := [][]string{{"a"}, {"b"}}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("strips_bom", func(t *testing.T) {
		got := Tokenize("\uFEFFdate,kind\n2024-01-01,BUY")
		if got[0][0] != "date" {
			t.Errorf("expected first header date, got %q", got[0][0])
		}
	})

	t.Run("empty_input", func(t *testing.T) {
		if got := Tokenize(""); len(got) != 0 {
			t.Errorf("expected no rows, got %v", got)
		}
	})
}
