package llm

import "testing"

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "json fence", in: "```json\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "bare fence", in: "```\n{\"a\":1}```", want: `{"a":1}`},
		{name: "no fence", in: "  {\"a\":1} ", want: `{"a":1}`},
		{name: "plain text", in: "hello", want: "hello"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripCodeFence(tt.in); got != tt.want {
				t.Fatalf("StripCodeFence(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	var out struct {
		A int `json:"a"`
	}
	if err := DecodeJSON("```json\n{\"a\": 2}\n```", &out); err != nil {
		t.Fatalf("DecodeJSON fenced: %v", err)
	}
	if out.A != 2 {
		t.Fatalf("expected a=2, got %d", out.A)
	}

	out.A = 0
	if err := DecodeJSON("Sure! Here it is: {\"a\": 3} hope that helps", &out); err != nil {
		t.Fatalf("DecodeJSON embedded: %v", err)
	}
	if out.A != 3 {
		t.Fatalf("expected a=3, got %d", out.A)
	}

	if err := DecodeJSON("I cannot help with that", &out); err == nil {
		t.Fatalf("expected error for non-json text")
	}
	if err := DecodeJSON("", &out); err == nil {
		t.Fatalf("expected error for empty text")
	}
}
