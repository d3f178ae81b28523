package source

import (
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRows(t *testing.T) {
	data := "recipient,postcode,deadline,notes\n" +
		"Alice,AB1 2CD,2026-09-01,leave at door\n" +
		"Bob,EF3 4GH,2026-09-03,\n"

	reqs, err := parseRows(csv.NewReader(strings.NewReader(data)))
	require.NoError(t, err)
	require.Len(t, reqs, 2)

	assert.Equal(t, "Alice", reqs[0].Recipient)
	assert.Equal(t, "AB1 2CD", reqs[0].Postcode)
	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), reqs[0].Deadline)
	assert.Equal(t, "leave at door", reqs[0].Notes)
	assert.Equal(t, 2, reqs[0].Row)
	assert.False(t, reqs[0].Geocoded())

	assert.Equal(t, 3, reqs[1].Row)
	assert.Empty(t, reqs[1].Notes)
}

func TestParseRowsWithCoordinates(t *testing.T) {
	data := "recipient,postcode,deadline,lat,lon\n" +
		"Alice,AB1 2CD,2026-09-01,51.5074,-0.1278\n"

	reqs, err := parseRows(csv.NewReader(strings.NewReader(data)))
	require.NoError(t, err)
	require.Len(t, reqs, 1)

	require.True(t, reqs[0].Geocoded())
	assert.InDelta(t, 51.5074, reqs[0].Coordinate.Lat, 1e-9)
	assert.InDelta(t, -0.1278, reqs[0].Coordinate.Lon, 1e-9)
}

func TestParseRowsHeaderCaseInsensitive(t *testing.T) {
	data := "Recipient,POSTCODE, Deadline \n" +
		"Alice,AB1 2CD,2026-09-01\n"

	reqs, err := parseRows(csv.NewReader(strings.NewReader(data)))
	require.NoError(t, err)
	require.Len(t, reqs, 1)
	assert.Equal(t, "AB1 2CD", reqs[0].Postcode)
}

func TestParseRowsMissingColumns(t *testing.T) {
	data := "recipient,notes\nAlice,hi\n"

	_, err := parseRows(csv.NewReader(strings.NewReader(data)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing columns")
	assert.Contains(t, err.Error(), "postcode")
	assert.Contains(t, err.Error(), "deadline")
}

func TestParseRowsErrorCarriesRowNumber(t *testing.T) {
	data := "recipient,postcode,deadline\n" +
		"Alice,AB1 2CD,2026-09-01\n" +
		"Bob,EF3 4GH,not-a-date\n"

	_, err := parseRows(csv.NewReader(strings.NewReader(data)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 3")

	var dpe *DateParseError
	require.ErrorAs(t, err, &dpe)
	assert.Equal(t, "not-a-date", dpe.Value)
}

func TestParseRowsEmptyPostcode(t *testing.T) {
	data := "recipient,postcode,deadline\nAlice,,2026-09-01\n"

	_, err := parseRows(csv.NewReader(strings.NewReader(data)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
	assert.Contains(t, err.Error(), "postcode is empty")
}

func TestParseRowsInvalidCoordinateRejected(t *testing.T) {
	data := "recipient,postcode,deadline,lat,lon\n" +
		"Alice,AB1 2CD,2026-09-01,91.0,0.0\n"

	_, err := parseRows(csv.NewReader(strings.NewReader(data)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
}

func TestParseRowsHeaderOnly(t *testing.T) {
	reqs, err := parseRows(csv.NewReader(strings.NewReader("recipient,postcode,deadline\n")))
	require.NoError(t, err)
	assert.Empty(t, reqs)
}

func TestParseRowsEmptyInput(t *testing.T) {
	reqs, err := parseRows(csv.NewReader(strings.NewReader("")))
	require.NoError(t, err)
	assert.Empty(t, reqs)
}

func TestParseDeadlineFormats(t *testing.T) {
	want := time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC)

	for _, value := range []string{
		"2026-09-03",
		"03/09/2026",
		"Thursday, September 3, 2026",
		"  2026-09-03  ",
	} {
		got, err := ParseDeadline(value)
		require.NoErrorf(t, err, "value %q", value)
		assert.Equalf(t, want, got, "value %q", value)
	}
}

func TestParseDeadlineDayFirstWins(t *testing.T) {
	// 03/04 is ambiguous; day-first is tried before month-first.
	got, err := ParseDeadline("03/04/2026")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 4, 3, 0, 0, 0, 0, time.UTC), got)
}

func TestParseDeadlineMonthFirstFallback(t *testing.T) {
	// 09/23 only parses month-first.
	got, err := ParseDeadline("09/23/2026")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 9, 23, 0, 0, 0, 0, time.UTC), got)
}

func TestParseDeadlineRejectsGarbage(t *testing.T) {
	for _, value := range []string{"", "soon", "2026/09/03", "32/01/2026"} {
		_, err := ParseDeadline(value)
		var dpe *DateParseError
		require.ErrorAsf(t, err, &dpe, "value %q", value)
	}
}
