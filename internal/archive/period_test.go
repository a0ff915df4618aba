package archive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMonth(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "single digit is padded", input: "1", want: "01"},
		{name: "already padded", input: "09", want: "09"},
		{name: "december", input: "12", want: "12"},
		{name: "surrounding whitespace", input: " 7 ", want: "07"},
		{name: "zero", input: "0", wantErr: true},
		{name: "thirteen", input: "13", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "letters", input: "jan", wantErr: true},
		{name: "signed", input: "+1", wantErr: true},
		{name: "negative", input: "-1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMonth(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidMonth)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseYear(t *testing.T) {
	for _, valid := range []string{"2026", "1999", " 2024\n"} {
		_, err := ParseYear(valid)
		assert.NoError(t, err, valid)
	}
	for _, invalid := range []string{"26", "20260", "20a6", "", "２０２６"} {
		_, err := ParseYear(invalid)
		assert.ErrorIs(t, err, ErrInvalidYear, invalid)
	}
}

func TestParsePeriod(t *testing.T) {
	p, err := ParsePeriod("2026", "1")
	require.NoError(t, err)
	assert.Equal(t, Period{Year: "2026", Month: "01"}, p)
	assert.Equal(t, "2026/01", p.String())

	_, err = ParsePeriod("202", "1")
	assert.ErrorIs(t, err, ErrInvalidYear)

	_, err = ParsePeriod("2026", "13")
	assert.ErrorIs(t, err, ErrInvalidMonth)
}

func TestURLs(t *testing.T) {
	p := Period{Year: "2026", Month: "03"}
	month := MonthURL("https://links.example.blog/", p)
	assert.Equal(t, "https://links.example.blog/archives/date/2026/03", month)
	assert.Equal(t, month, PageURL(month, 1))
	assert.Equal(t, "https://links.example.blog/archives/date/2026/03/page/4", PageURL(month, 4))
}
