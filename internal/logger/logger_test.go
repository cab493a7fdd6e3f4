package logger

import "testing"

func TestNew(t *testing.T) {
	for _, tt := range []struct {
		name  string
		json  bool
		debug bool
	}{
		{"console info", false, false},
		{"json debug", true, true},
	} {
		t.Run(tt.name, func(t *testing.T) {
			log, err := New(tt.json, tt.debug)
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			if log == nil {
				t.Fatal("expected logger")
			}
		})
	}
}

func TestTruncateForLog(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		limit int
		want  string
	}{
		{"short passes through", "hello", 10, "hello"},
		{"trimmed", "  hello  ", 10, "hello"},
		{"truncated", "hello world", 5, "hello..."},
		{"zero limit", "hello", 0, ""},
		{"multibyte", "héllo wörld", 6, "héllo ..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TruncateForLog(tt.in, tt.limit); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
