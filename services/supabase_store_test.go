package services

import "testing"

func TestEscapeLikePattern(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"laura@example.com", "laura@example.com"},
		{"first_last@x.com", `first\_last@x.com`},
		{"100%@x.com", `100\%@x.com`},
		{`raro\correo@x.com`, `raro\\correo@x.com`},
		{"_%_", `\_\%\_`},
	}

	for _, tt := range tests {
		if got := escapeLikePattern(tt.in); got != tt.want {
			t.Errorf("escapeLikePattern(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
