package transaction

import (
	"strings"

	"github.com/pkg/errors"
)

var friendlyMessages = []struct {
	phrase  string
	message string
}{
	{"insufficient", "Insufficient balance to cover the amount and gas."},
	{"rejected", "The request was rejected in the wallet."},
	{"denied", "The request was rejected in the wallet."},
	{"sequence_number", "Another transaction from this account is pending, try again shortly."},
	{"expired", "The transaction expired before it was executed."},
	{"network", "Network error, check the connection and try again."},
	{"timeout", "The request timed out."},
	{"paused", "The raffle contract is paused."},
}

// FriendlyMessage maps a submission error to a short message for people. Phrase
// matching is best effort; unknown errors fall back to a per-stage message.
func FriendlyMessage(err error) string {
	if err == nil {
		return ""
	}

	if errors.Is(err, ErrFinalityUnknown) {
		return "The transaction was sent but its outcome is not known yet. Check it before trying again."
	}

	text := strings.ToLower(err.Error())
	for _, entry := range friendlyMessages {
		if strings.Contains(text, entry.phrase) {
			return entry.message
		}
	}

	switch {
	case errors.Is(err, ErrConstruction):
		return "The transaction could not be built."
	case errors.Is(err, ErrSigning):
		return "The transaction was not signed."
	case errors.Is(err, ErrSubmission):
		return "The network refused the transaction."
	case errors.Is(err, ErrExecution):
		return "The transaction failed on chain."
	}
	return "Something went wrong."
}
