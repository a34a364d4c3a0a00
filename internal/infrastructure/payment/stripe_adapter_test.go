package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripeConfig_Validate(t *testing.T) {
	t.Run("missing API key", func(t *testing.T) {
		cfg := &StripeConfig{}
		assert.ErrorIs(t, cfg.Validate(), ErrConfigMissingAPIKey)
	})

	t.Run("default currency applied", func(t *testing.T) {
		cfg := &StripeConfig{APIKey: "sk_test_x"}
		require.NoError(t, cfg.Validate())
		assert.Equal(t, "inr", cfg.Currency)
	})

	t.Run("explicit currency kept", func(t *testing.T) {
		cfg := &StripeConfig{APIKey: "sk_test_x", Currency: "usd"}
		require.NoError(t, cfg.Validate())
		assert.Equal(t, "usd", cfg.Currency)
	})
}

func TestIntentIDFromClientSecret(t *testing.T) {
	tests := []struct {
		name    string
		secret  string
		want    string
		wantErr bool
	}{
		{"well formed", "pi_3ABC_secret_xyz", "pi_3ABC", false},
		{"missing marker", "pi_3ABC", "", true},
		{"marker at start", "_secret_xyz", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := intentIDFromClientSecret(tt.secret)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
