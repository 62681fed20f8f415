package id

import (
	"fmt"
	"strconv"
	"strings"
)

// prefix distinguishes loan ids from bare row numbers in older exports.
const prefix = "LN-"

// FormatLoanID returns a loan ID like "LN-000042".
func FormatLoanID(seq uint64) string {
	return fmt.Sprintf("%s%06d", prefix, seq)
}

// ParseLoanID parses "LN-000042" into its sequence number.
func ParseLoanID(loanID string) (uint64, error) {
	rest, ok := strings.CutPrefix(loanID, prefix)
	if !ok {
		return 0, fmt.Errorf("invalid loan ID format: %q", loanID)
	}

	seq, err := strconv.ParseUint(rest, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid sequence in loan ID %q: %w", loanID, err)
	}
	if seq == 0 {
		return 0, fmt.Errorf("invalid sequence 0 in loan ID %q", loanID)
	}
	return seq, nil
}
