package payment

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ykrishnateja01/job-portal/internal/chain"
)

func validSpec() TariffSpec {
	return TariffSpec{
		Chain:     "ethereum",
		Purpose:   "job_posting",
		Recipient: "0x1111111111111111111111111111111111111111",
		Amount:    "10000000000000000",
		Currency:  "ETH",
	}
}

func TestNewTariffTable(t *testing.T) {
	tests := []struct {
		name      string
		specs     []TariffSpec
		wantErr   bool
		errString string
	}{
		{
			name:  "single valid entry",
			specs: []TariffSpec{validSpec()},
		},
		{
			name: "multiple chains and purposes",
			specs: []TariffSpec{
				validSpec(),
				{Chain: "ethereum", Purpose: "featured_listing", Recipient: "0x11", Amount: "5", Currency: "ETH"},
				{Chain: "solana", Purpose: "job_posting", Recipient: "sol1", Amount: "100000000", Currency: "SOL"},
			},
		},
		{
			name:    "empty table is allowed",
			specs:   nil,
			wantErr: false,
		},
		{
			name: "unknown chain",
			specs: []TariffSpec{
				{Chain: "dogecoin", Purpose: "job_posting", Recipient: "x", Amount: "1", Currency: "DOGE"},
			},
			wantErr:   true,
			errString: "invalid tariff entry 0",
		},
		{
			name: "unknown purpose",
			specs: []TariffSpec{
				{Chain: "ethereum", Purpose: "bribe", Recipient: "x", Amount: "1", Currency: "ETH"},
			},
			wantErr:   true,
			errString: "invalid tariff entry 0",
		},
		{
			name: "missing recipient",
			specs: []TariffSpec{
				{Chain: "ethereum", Purpose: "job_posting", Amount: "1", Currency: "ETH"},
			},
			wantErr:   true,
			errString: "invalid tariff entry 0",
		},
		{
			name: "non-numeric amount",
			specs: []TariffSpec{
				{Chain: "ethereum", Purpose: "job_posting", Recipient: "x", Amount: "a lot", Currency: "ETH"},
			},
			wantErr:   true,
			errString: "invalid tariff entry 0",
		},
		{
			name: "fractional amount",
			specs: []TariffSpec{
				{Chain: "ethereum", Purpose: "job_posting", Recipient: "x", Amount: "1.5", Currency: "ETH"},
			},
			wantErr:   true,
			errString: "amount must be a positive integer",
		},
		{
			name: "zero amount",
			specs: []TariffSpec{
				{Chain: "ethereum", Purpose: "job_posting", Recipient: "x", Amount: "0", Currency: "ETH"},
			},
			wantErr:   true,
			errString: "amount must be a positive integer",
		},
		{
			name: "duplicate chain and purpose",
			specs: []TariffSpec{
				validSpec(),
				validSpec(),
			},
			wantErr:   true,
			errString: "duplicate tariff",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := NewTariffTable(tt.specs)

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errString)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, table)
		})
	}
}

func TestTariffTable_Lookup(t *testing.T) {
	table, err := NewTariffTable([]TariffSpec{validSpec()})
	require.NoError(t, err)

	tariff, ok := table.Lookup(chain.ChainEthereum, PurposeJobPosting)
	require.True(t, ok)
	assert.Equal(t, "0x1111111111111111111111111111111111111111", tariff.Recipient)
	assert.True(t, tariff.Amount.Equal(decimal.RequireFromString("10000000000000000")))
	assert.Equal(t, "ETH", tariff.Currency)

	_, ok = table.Lookup(chain.ChainSolana, PurposeJobPosting)
	assert.False(t, ok)

	_, ok = table.Lookup(chain.ChainEthereum, PurposeBoost)
	assert.False(t, ok)
}

func TestParsePurpose(t *testing.T) {
	p, err := ParsePurpose("")
	require.NoError(t, err)
	assert.Equal(t, PurposeJobPosting, p)

	p, err = ParsePurpose("featured_listing")
	require.NoError(t, err)
	assert.Equal(t, PurposeFeaturedListing, p)

	_, err = ParsePurpose("bribe")
	assert.Error(t, err)
}
