package core

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestReadText(t *testing.T) {
	tests := []struct {
		name      string
		input     []byte
		want      string
		wantBytes int64
	}{
		{
			name:      "file with BOM",
			input:     append([]byte{0xEF, 0xBB, 0xBF}, "Date,Time"...),
			want:      "Date,Time",
			wantBytes: 12,
		},
		{
			name:      "file without BOM",
			input:     []byte("Date,Time"),
			want:      "Date,Time",
			wantBytes: 9,
		},
		{
			name:      "empty file",
			input:     []byte{},
			want:      "",
			wantBytes: 0,
		},
		{
			name:      "only BOM",
			input:     []byte{0xEF, 0xBB, 0xBF},
			want:      "",
			wantBytes: 3,
		},
		{
			name:      "invalid byte replaced",
			input:     []byte{'a', 0xFF, 'b'},
			want:      "a\uFFFDb",
			wantBytes: 3,
		},
		{
			name:      "valid multibyte kept",
			input:     []byte("µg/m³"),
			want:      "µg/m³",
			wantBytes: int64(len("µg/m³")),
		},
		{
			name:      "BOM only stripped at start",
			input:     []byte("a\uFEFFb"),
			want:      "a\uFEFFb",
			wantBytes: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, n, err := ReadText(bytes.NewReader(tt.input), 1024)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("text = %q, want %q", got, tt.want)
			}
			if n != tt.wantBytes {
				t.Errorf("bytes = %d, want %d", n, tt.wantBytes)
			}
		})
	}
}

func TestReadText_Limit(t *testing.T) {
	body := strings.Repeat("x", 100)

	if _, _, err := ReadText(strings.NewReader(body), 100); err != nil {
		t.Errorf("body at the limit: unexpected error %v", err)
	}

	_, _, err := ReadText(strings.NewReader(body), 99)
	if !errors.Is(err, ErrFileTooLarge) {
		t.Errorf("body over the limit: error = %v, want ErrFileTooLarge", err)
	}

	if _, _, err := ReadText(strings.NewReader(body), 0); err != nil {
		t.Errorf("zero limit: unexpected error %v", err)
	}
}
