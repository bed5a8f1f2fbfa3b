package match_test

import (
	"testing"

	"github.com/Nao-Mk2/aws-log-lister/internal/match"
)

func TestMatch(t *testing.T) {
	tests := []struct {
		name    string
		expr    string
		message string
		want    bool
	}{
		{"JSON field present", "user.id", `{"user":{"id":"123"}}`, true},
		{"JSON field missing", "user.id", `{"user":{}}`, false},
		{"comparison true", "level == 'ERROR'", `{"level":"ERROR","msg":"x"}`, true},
		{"comparison false", "level == 'ERROR'", `{"level":"INFO"}`, false},
		{"plain text wrapped as message", "message", "WARN: disk low", true},
		{"plain text contains", "contains(message, 'disk')", "WARN: disk low", true},
		{"plain text does not contain", "contains(message, 'cpu')", "WARN: disk low", false},
		{"empty array is no match", "ids", `{"ids":[]}`, false},
		{"number matches", "n", `{"n":0}`, true},
		{"type error is no match", "contains(n, 'x')", `{"n":42}`, false},
		{"empty message", "message", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := match.Compile(tt.expr)
			if err != nil {
				t.Fatalf("Compile(%q) unexpected error: %v", tt.expr, err)
			}
			if got := m.Match(tt.message); got != tt.want {
				t.Fatalf("Match(%q) with %q = %v, want %v", tt.message, tt.expr, got, tt.want)
			}
		})
	}
}

func TestCompileInvalid(t *testing.T) {
	if _, err := match.Compile("user.["); err == nil {
		t.Fatalf("expected error for invalid expression")
	}
}
