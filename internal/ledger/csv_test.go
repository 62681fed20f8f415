package ledger

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loanbook-dev/loanbook/internal/model"
)

func TestReadAccounts(t *testing.T) {
	input := Header + "\n" +
		"alice,hash1,alice@example.com,2500.00,client,0.00\n" +
		"root,hash2,root@example.com,0.00,admin,150.50\n"

	accounts, err := ReadAccounts(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, accounts, 2)

	assert.Equal(t, "alice", accounts[0].Username)
	assert.Equal(t, model.RoleClient, accounts[0].Role)
	assert.Equal(t, model.RoleAdmin, accounts[1].Role)
	assert.True(t, accounts[1].Balance.Equal(dec("150.5")))
}

func TestReadAccounts_Empty(t *testing.T) {
	accounts, err := ReadAccounts(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, accounts)
}

func TestUnmarshalAccount_Errors(t *testing.T) {
	tests := []struct {
		name   string
		record []string
	}{
		{"wrong field count", []string{"alice", "hash"}},
		{"bad income", []string{"alice", "hash", "a@b.com", "lots", "client", "0"}},
		{"bad balance", []string{"alice", "hash", "a@b.com", "100", "client", "x"}},
		{"unknown role", []string{"alice", "hash", "a@b.com", "100", "root", "0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalAccount(tt.record)
			assert.Error(t, err)
		})
	}
}

func TestMarshalAccount_FixedDecimals(t *testing.T) {
	row := MarshalAccount(model.Account{
		Username:      "alice",
		PasswordHash:  "hash",
		Email:         "alice@example.com",
		MonthlyIncome: dec("2500"),
		Role:          model.RoleClient,
		Balance:       dec("7.5"),
	})
	assert.Equal(t, "2500.00", row[colIncome])
	assert.Equal(t, "7.50", row[colBalance])
}
