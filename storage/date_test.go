package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDueDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string // ISO date, "" for nil
		wantErr bool
	}{
		{name: "empty means no deadline", input: "", want: ""},
		{name: "whitespace means no deadline", input: "   ", want: ""},
		{name: "valid date", input: "31/12/2026", want: "2026-12-31"},
		{name: "surrounding spaces", input: " 05/01/2027 ", want: "2027-01-05"},
		{name: "leap day", input: "29/02/2028", want: "2028-02-29"},
		{name: "not a leap year", input: "29/02/2027", wantErr: true},
		{name: "month out of range", input: "01/13/2026", wantErr: true},
		{name: "iso format rejected", input: "2026-12-31", wantErr: true},
		{name: "garbage", input: "tomorrow", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDueDate(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidDate)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			if tt.want == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Format(ISODateLayout))
			assert.Equal(t, time.UTC, got.Location())
			assert.Zero(t, got.Hour())
		})
	}
}

func TestFormatDueDate(t *testing.T) {
	assert.Equal(t, "", FormatDueDate(nil))

	d := time.Date(2026, time.July, 4, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "04/07/2026", FormatDueDate(&d))
}

func TestDateOf(t *testing.T) {
	local := time.Date(2026, time.October, 18, 23, 59, 0, 0, time.FixedZone("X", -5*3600))
	d := DateOf(local)

	assert.Equal(t, "2026-10-18", d.Format(ISODateLayout))
	assert.Equal(t, time.UTC, d.Location())
}
