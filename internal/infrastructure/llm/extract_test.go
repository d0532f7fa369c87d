package llm

import (
	"strings"
	"testing"
)

func TestExtractObject(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{
			name:  "bare object",
			input: `{"tema": "ninguno"}`,
			want:  `{"tema": "ninguno"}`,
		},
		{
			name:  "object inside prose",
			input: `Claro, aquí tienes: {"tema": "ninguno"} espero que sirva.`,
			want:  `{"tema": "ninguno"}`,
		},
		{
			name:  "nested braces",
			input: `{"a": {"b": 1}, "c": 2} trailing`,
			want:  `{"a": {"b": 1}, "c": 2}`,
		},
		{
			name:  "braces inside strings",
			input: `{"detalles": "llaves { y } en texto"}`,
			want:  `{"detalles": "llaves { y } en texto"}`,
		},
		{
			name:  "json code fence",
			input: "```json\n{\"tema\": \"ninguno\"}\n```",
			want:  `{"tema": "ninguno"}`,
		},
		{
			name:  "plain code fence",
			input: "```\n{\"tema\": \"ninguno\"}\n```",
			want:  `{"tema": "ninguno"}`,
		},
		{
			name:    "no object",
			input:   "lo siento, no puedo ayudarte",
			wantErr: true,
		},
		{
			name:    "unbalanced",
			input:   `{"tema": "ninguno"`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractObject(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("extractObject returned error: %v", err)
			}
			if strings.TrimSpace(got) != tt.want {
				t.Fatalf("extractObject = %q, want %q", got, tt.want)
			}
		})
	}
}
