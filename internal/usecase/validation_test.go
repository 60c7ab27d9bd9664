package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

func TestValidateCaptureLeadInput(t *testing.T) {
	assert.Empty(t, ValidateCaptureLeadInput(CaptureLeadInput{Name: "Ana", Phone: "11988887777", UserSlug: "dra"}))

	errs := ValidateCaptureLeadInput(CaptureLeadInput{Name: "Ana", Phone: "11988887777", UserSlug: "dra", Email: "x@"})
	require.Len(t, errs, 1)
	assert.Equal(t, "email", errs[0].Field)

	long := make([]byte, 201)
	for i := range long {
		long[i] = 'a'
	}
	errs = ValidateCaptureLeadInput(CaptureLeadInput{Name: string(long), Phone: "11988887777", UserSlug: "dra"})
	require.Len(t, errs, 1)
	assert.Equal(t, "name", errs[0].Field)
}

func TestParseAmount(t *testing.T) {
	for in, want := range map[string]string{
		"1500,50":      "1500.5",
		"1500.50":      "1500.5",
		"1.500,50":     "1500.5",
		"1,500.50":     "1500.5",
		"1.234.567,89": "1234567.89",
		"1,234,567.89": "1234567.89",
		" 300 ":        "300",
	} {
		d, err := parseAmount(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, d.String(), in)
	}

	_, err := parseAmount("-1")
	assert.ErrorIs(t, err, entity.ErrNegativeAmount)

	_, err = parseAmount("-1.500,00")
	assert.ErrorIs(t, err, entity.ErrNegativeAmount)

	for _, in := range []string{"mil", "1,500,000", "1,50.00", "1.5,00", "1.500,00.5", "1.500.000", ".,"} {
		_, err := parseAmount(in)
		assert.Error(t, err, in)
	}
}

func TestParseAppointment(t *testing.T) {
	loc := time.FixedZone("BRT", -3*3600)

	got, err := parseAppointment("2026-05-02", "09:15", loc)
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2026, 5, 2, 12, 15, 0, 0, time.UTC)))

	_, err = parseAppointment("02/05/2026", "", loc)
	assert.Error(t, err)

	_, err = parseAppointment("2026-05-02", "9h", loc)
	assert.Error(t, err)
}
