package steamid

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToAccountID(t *testing.T) {
	tests := []struct {
		name       string
		identifier string
		want       int64
	}{
		{"first default id", "76561198355928347", 395662619},
		{"second default id", "76561198220727716", 260461988},
		{"epoch itself", "76561197960265728", 0},
		{"below epoch passes through negative", "123", 123 - 76561197960265728},
		{"zero", "0", -76561197960265728},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToAccountID(tt.identifier)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToAccountID_Invalid(t *testing.T) {
	for _, input := range []string{"", "bad_id", "12a4", "1.5", "99999999999999999999999"} {
		t.Run(input, func(t *testing.T) {
			_, err := ToAccountID(input)
			require.Error(t, err)

			var convErr *ConversionError
			require.True(t, errors.As(err, &convErr))
			assert.Equal(t, input, convErr.Identifier)
			assert.ErrorIs(t, err, ErrInvalidIdentifier)
		})
	}
}

func TestFromAccountID_RoundTrip(t *testing.T) {
	for _, id := range []string{"76561198355928347", "76561198220727716", "76561197960265728"} {
		accountID, err := ToAccountID(id)
		require.NoError(t, err)
		assert.Equal(t, id, FromAccountID(accountID))
	}
}

func TestNormalizeIdentifierList(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"mixed separators", "123, abc\n456", []string{"123", "456"}},
		{"keeps duplicates and order", "9,1\n9", []string{"9", "1", "9"}},
		{"trims whitespace", "  76561198355928347 \n\t76561198220727716\t", []string{"76561198355928347", "76561198220727716"}},
		{"drops empty and signed tokens", ",,-5,+7, ,", []string{}},
		{"empty input", "", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeIdentifierList(tt.raw))
		})
	}
}

func TestIsValid(t *testing.T) {
	assert.True(t, IsValid("0123"))
	assert.False(t, IsValid(""))
	assert.False(t, IsValid("12 3"))
	assert.False(t, IsValid("١٢٣"))
}
