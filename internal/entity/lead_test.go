package entity

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLead(t *testing.T) {
	l, err := NewLead("user-1", " Maria ", "(11) 98888-7777")
	require.NoError(t, err)
	assert.Equal(t, "Maria", l.Name)
	assert.Equal(t, StatusNew, l.Status)
	assert.False(t, l.Removed())

	_, err = NewLead("user-1", "", "11988887777")
	assert.Error(t, err)

	_, err = NewLead("user-1", "Maria", "1234")
	assert.Error(t, err)
}

func TestLeadValidate(t *testing.T) {
	l, err := NewLead("user-1", "Maria", "11988887777")
	require.NoError(t, err)

	neg := decimal.NewFromInt(-10)
	l.PotentialValue = &neg
	assert.ErrorIs(t, l.Validate(), ErrNegativeAmount)

	l.PotentialValue = nil
	l.Status = "Perdido"
	assert.ErrorIs(t, l.Validate(), ErrInvalidStatus)
}

func TestPhoneHelpers(t *testing.T) {
	assert.Equal(t, "5511988887777", NormalizePhone("+55 (11) 98888-7777"))
	assert.True(t, IsValidPhone("1133334444"))
	assert.True(t, IsValidPhone("+55 11 98888-7777"))
	assert.False(t, IsValidPhone("98888-7777"))
	assert.False(t, IsValidPhone("55119888877771"))
}
