package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{
			name: "simple fields",
			line: "a,b,c",
			want: []string{"a", "b", "c"},
		},
		{
			name: "quoted delimiter kept in one field",
			line: `a,"b,c",d`,
			want: []string{"a", "b,c", "d"},
		},
		{
			name: "fields trimmed",
			line: "  a , b\t,c  ",
			want: []string{"a", "b", "c"},
		},
		{
			name: "empty line yields one empty field",
			line: "",
			want: []string{""},
		},
		{
			name: "trailing delimiter yields trailing empty field",
			line: "a,b,",
			want: []string{"a", "b", ""},
		},
		{
			name: "consecutive delimiters",
			line: "a,,b",
			want: []string{"a", "", "b"},
		},
		{
			name: "quotes are dropped",
			line: `"2004-03-10","18:00:00"`,
			want: []string{"2004-03-10", "18:00:00"},
		},
		{
			name: "doubled quote toggles twice",
			line: `a""b,c`,
			want: []string{"ab", "c"},
		},
		{
			name: "unbalanced quote swallows the rest",
			line: `a,"b,c,d`,
			want: []string{"a", "b,c,d"},
		},
		{
			name: "quoted whitespace is trimmed after closing",
			line: `" a ",b`,
			want: []string{"a", "b"},
		},
		{
			name: "carriage return trimmed from last field",
			line: "a,b\r",
			want: []string{"a", "b"},
		},
		{
			name: "semicolons are not delimiters",
			line: "10/03/2004;18.00.00;2,6",
			want: []string{"10/03/2004;18.00.00;2", "6"},
		},
		{
			name: "unicode preserved",
			line: "µg/m³,°C",
			want: []string{"µg/m³", "°C"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitLine(tt.line))
		})
	}
}

func TestSplitLine_AlwaysAtLeastOneField(t *testing.T) {
	for _, line := range []string{"", " ", `"`, `""`, ",", "\r"} {
		assert.NotEmpty(t, SplitLine(line), "line %q", line)
	}
}
