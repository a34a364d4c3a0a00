package postal

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maison/storefront/internal/domain/shared"
)

func newTestAdapter(t *testing.T, handler http.HandlerFunc) *Adapter {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	adapter, err := NewAdapter(&Config{BaseURL: server.URL})
	require.NoError(t, err)
	return adapter
}

func TestConfig_Validate(t *testing.T) {
	t.Run("missing base URL", func(t *testing.T) {
		cfg := &Config{}
		assert.ErrorIs(t, cfg.Validate(), ErrConfigMissingBaseURL)
	})

	t.Run("default timeout applied", func(t *testing.T) {
		cfg := &Config{BaseURL: "http://localhost"}
		require.NoError(t, cfg.Validate())
		assert.NotZero(t, cfg.Timeout)
	})
}

func TestAdapter_Lookup(t *testing.T) {
	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/pincode/560001", r.URL.Path)
		w.Write([]byte(`[{"Status":"Success","PostOffice":[{"Name":"Bangalore GPO","District":"Bangalore","State":"Karnataka"}]}]`))
	})

	region, err := adapter.Lookup(context.Background(), "560001")
	require.NoError(t, err)
	assert.Equal(t, "Karnataka", region.State)
	assert.Equal(t, "Bangalore", region.District)
}

func TestAdapter_LookupNotFound(t *testing.T) {
	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"Status":"Error","Message":"No records found","PostOffice":null}]`))
	})

	_, err := adapter.Lookup(context.Background(), "999999")
	assert.ErrorIs(t, err, shared.ErrPostalCodeLookup)
}

func TestAdapter_LookupHTTPError(t *testing.T) {
	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := adapter.Lookup(context.Background(), "560001")
	assert.ErrorIs(t, err, shared.ErrPostalCodeLookup)
}

func TestAdapter_LookupRejectsMalformedPin(t *testing.T) {
	// No server call should happen for a locally invalid code
	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("unexpected request for invalid pin")
	})

	for _, pin := range []string{"", "12345", "1234567", "12a456"} {
		_, err := adapter.Lookup(context.Background(), pin)
		assert.ErrorIs(t, err, shared.ErrPostalCodeLookup, "pin %q", pin)
	}
}

func TestValidPinCode(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"560001", true},
		{"000000", true},
		{"56000", false},
		{"5600011", false},
		{"56000a", false},
		{"", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ValidPinCode(tt.code), "code %q", tt.code)
	}
}
