package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTerminal(t *testing.T) {
	tests := []struct {
		status LoanStatus
		want   bool
	}{
		{StatusPending, false},
		{StatusApproved, true},
		{StatusRejected, true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.status.Terminal(), "Terminal(%q)", tt.status)
	}
}

func TestValidLoanStatus(t *testing.T) {
	assert.True(t, ValidLoanStatus(StatusPending))
	assert.True(t, ValidLoanStatus(StatusApproved))
	assert.True(t, ValidLoanStatus(StatusRejected))
	assert.False(t, ValidLoanStatus("cancelled"))
	assert.False(t, ValidLoanStatus(""))
}

func TestValidRole(t *testing.T) {
	assert.True(t, ValidRole(RoleAdmin))
	assert.True(t, ValidRole(RoleClient))
	assert.False(t, ValidRole("superuser"))
}
