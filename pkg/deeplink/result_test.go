package deeplink

import (
	"errors"
	"testing"
)

func TestResult_String(t *testing.T) {
	tests := []struct {
		result Result
		want   string
	}{
		{NotHandled, "NotHandled"},
		{PartiallyHandled, "PartiallyHandled"},
		{FullyHandled, "FullyHandled"},
		{Result(42), "Unknown"},
	}

	for _, tt := range tests {
		if got := tt.result.String(); got != tt.want {
			t.Errorf("Result(%d).String() = %s, want %s", tt.result, got, tt.want)
		}
	}
}

func TestParseResult(t *testing.T) {
	tests := []struct {
		in      string
		want    Result
		wantErr bool
	}{
		{"fully", FullyHandled, false},
		{"FullyHandled", FullyHandled, false},
		{"fully_handled", FullyHandled, false},
		{"partially", PartiallyHandled, false},
		{"Partially-Handled", PartiallyHandled, false},
		{"not", NotHandled, false},
		{"not handled", NotHandled, false},
		{"", NotHandled, true},
		{"maybe", NotHandled, true},
	}

	for _, tt := range tests {
		got, err := ParseResult(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseResult(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err != nil && !errors.Is(err, ErrInvalidResult) {
			t.Errorf("ParseResult(%q) error = %v, want ErrInvalidResult", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseResult(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
