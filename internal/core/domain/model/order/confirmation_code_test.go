package order_test

import (
	"regexp"
	"testing"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfirmationCode(t *testing.T) {
	sixDigits := regexp.MustCompile(`^\d{6}$`)

	seen := make(map[order.ConfirmationCode]struct{})
	for range 200 {
		code, err := order.NewConfirmationCode()
		require.NoError(t, err)
		require.Regexp(t, sixDigits, code.String())
		seen[code] = struct{}{}
	}

	assert.Greater(t, len(seen), 150, "codes should not repeat systematically")
}

func TestParseConfirmationCode(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{input: "000123"},
		{input: "999999"},
		{input: "12345", wantErr: true},
		{input: "1234567", wantErr: true},
		{input: "12a456", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			code, err := order.ParseConfirmationCode(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, errs.ErrValueIsInvalid)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.input, code.String())
		})
	}
}

func TestConfirmationCode_Matches(t *testing.T) {
	code := order.ConfirmationCode("042042")

	assert.True(t, code.Matches("042042"))
	assert.False(t, code.Matches("42042"))
	assert.False(t, code.Matches("042043"))
	assert.False(t, order.ConfirmationCode("").Matches(""))
}
