package prompt

import (
	"bytes"
	"strings"
	"testing"

	"archive-scraper/internal/archive"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeriod(t *testing.T) {
	var out bytes.Buffer
	p := New(strings.NewReader("2026\n1\n"), &out)

	period, err := p.Period("", "")
	require.NoError(t, err)
	assert.Equal(t, archive.Period{Year: "2026", Month: "01"}, period)
	assert.Contains(t, out.String(), "Enter the year (e.g., 2026): ")
	assert.Contains(t, out.String(), "Enter the month (01-12): ")
}

func TestPeriodWithoutTrailingNewline(t *testing.T) {
	p := New(strings.NewReader(" 2025 \n 12"), &bytes.Buffer{})

	period, err := p.Period("", "")
	require.NoError(t, err)
	assert.Equal(t, archive.Period{Year: "2025", Month: "12"}, period)
}

func TestPeriodRejectsInvalidInput(t *testing.T) {
	_, err := New(strings.NewReader("26\n1\n"), &bytes.Buffer{}).Period("", "")
	assert.ErrorIs(t, err, archive.ErrInvalidYear)

	_, err = New(strings.NewReader("2026\n13\n"), &bytes.Buffer{}).Period("", "")
	assert.ErrorIs(t, err, archive.ErrInvalidMonth)
}

func TestPeriodClosedInput(t *testing.T) {
	_, err := New(strings.NewReader(""), &bytes.Buffer{}).Period("", "")
	assert.Error(t, err)
}

func TestPeriodAsksOnlyForMissingValue(t *testing.T) {
	var out bytes.Buffer
	period, err := New(strings.NewReader("3\n"), &out).Period("2026", "")
	require.NoError(t, err)
	assert.Equal(t, archive.Period{Year: "2026", Month: "03"}, period)
	assert.NotContains(t, out.String(), "Enter the year")
	assert.Contains(t, out.String(), "Enter the month (01-12): ")

	out.Reset()
	period, err = New(strings.NewReader("2024\n"), &out).Period("", "11")
	require.NoError(t, err)
	assert.Equal(t, archive.Period{Year: "2024", Month: "11"}, period)
	assert.NotContains(t, out.String(), "Enter the month")
}

func TestPeriodGivenValuesAreValidated(t *testing.T) {
	_, err := New(strings.NewReader(""), &bytes.Buffer{}).Period("2026", "13")
	assert.ErrorIs(t, err, archive.ErrInvalidMonth)
}

func TestWaitForEnter(t *testing.T) {
	var out bytes.Buffer
	p := New(strings.NewReader("\n"), &out)
	p.WaitForEnter("Press Enter to close the browser.")
	assert.Equal(t, "Press Enter to close the browser.\n", out.String())
}
