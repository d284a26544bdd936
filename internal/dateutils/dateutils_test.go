package dateutils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name        string
		dateStr     string
		expectedOk  bool
		expectedY   int
		expectedM   time.Month
		expectedD   int
		expectedFmt string
	}{
		{"Spanish format", "15/01/2023", true, 2023, time.January, 15, DateLayoutSpanish},
		{"Day first wins", "02/03/2023", true, 2023, time.March, 2, DateLayoutSpanish},
		{"ISO format", "2023-01-15", true, 2023, time.January, 15, DateLayoutISO},
		{"European format", "15.01.2023", true, 2023, time.January, 15, DateLayoutEuropean},
		{"Dash-separated", "15-01-2023", true, 2023, time.January, 15, "02-01-2006"},
		{"Full timestamp", "2023-01-15 10:30:45", true, 2023, time.January, 15, DateLayoutFull},
		{"With month name", "15-Jan-2023", true, 2023, time.January, 15, DateLayoutWithMonth},
		{"Extra spaces", "  15/01/2023 ", true, 2023, time.January, 15, DateLayoutSpanish},
		{"Empty string", "", false, 0, 0, 0, ""},
		{"Invalid format", "not a date", false, 0, 0, 0, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			date, format, err := ParseDate(tc.dateStr)

			if !tc.expectedOk {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expectedY, date.Year())
			assert.Equal(t, tc.expectedM, date.Month())
			assert.Equal(t, tc.expectedD, date.Day())
			assert.Equal(t, tc.expectedFmt, format)
		})
	}
}

func TestFromExcelSerial(t *testing.T) {
	d, err := FromExcelSerial("45323")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC), d)

	d, err = FromExcelSerial("45323.75")
	require.NoError(t, err)
	assert.Equal(t, 1, d.Day())

	_, err = FromExcelSerial("abc")
	assert.Error(t, err)
	_, err = FromExcelSerial("0")
	assert.Error(t, err)
}

func TestFormatDate(t *testing.T) {
	date := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "05/03/2024", FormatDate(date, ""))
	assert.Equal(t, "2024-03-05", FormatDate(date, DateLayoutISO))
	assert.Equal(t, "", FormatDate(time.Time{}, ""))
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"2024-02-01", "01/02/2024"},
		{"01.02.2024", "01/02/2024"},
		{"45323", "01/02/2024"},
		{"ENERO 2024", "ENERO 2024"},
		{"  ", ""},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.expected, Normalize(tc.in))
		})
	}
}
