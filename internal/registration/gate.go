// Package registration implements the gated registration/payment flow: a
// pure decision function that says whether a submission may proceed, and a
// workflow state machine that carries one draft through submission.
package registration

import (
	"math"
	"strings"

	"github.com/iysravet/iyscli/internal/client/models"
	"github.com/iysravet/iyscli/internal/common"
)

// Draft is the user-entered, not-yet-submitted registration input.
type Draft struct {
	Amount         float64
	TransactionRef string
	ScreenshotName string
	Screenshot     []byte
}

// Verdict is the outcome of a gate evaluation. Reason is nil when Allowed
// is true, otherwise one of the common sentinel errors.
type Verdict struct {
	Allowed bool
	Reason  error
}

// Evaluate decides whether a submission is permitted. It is pure and has no
// side effects; callers re-run it on every relevant input change.
//
// Checks run in a fixed order and the first failure wins, so the user
// always sees a deterministic message:
//
//  1. absent or unusable fee schedule
//  2. amount not a finite number greater than zero
//  3. transaction reference trims to empty
//  4. no UPI id configured
//  5. a prior submission already succeeded
func Evaluate(fees *models.FeeSchedule, upiID string, d Draft, priorSuccess bool) Verdict {
	switch {
	case !fees.Usable():
		return Verdict{Reason: common.ErrPaymentsNotConfigured}
	case math.IsNaN(d.Amount) || math.IsInf(d.Amount, 0) || d.Amount <= 0:
		return Verdict{Reason: common.ErrInvalidAmount}
	case strings.TrimSpace(d.TransactionRef) == "":
		return Verdict{Reason: common.ErrMissingTransactionRef}
	case upiID == "":
		return Verdict{Reason: common.ErrPaymentChannelUnavailable}
	case priorSuccess:
		return Verdict{Reason: common.ErrAlreadySubmitted}
	default:
		return Verdict{Allowed: true}
	}
}

// SelectableAmounts returns the amounts the user may pick from: the
// installment list when present (a configured full amount is ignored then),
// else the full amount alone, else nothing. An empty result is not an error
// until a submission is actually attempted.
func SelectableAmounts(fees *models.FeeSchedule) []float64 {
	if fees == nil {
		return nil
	}
	if len(fees.Installments) > 0 {
		out := make([]float64, len(fees.Installments))
		copy(out, fees.Installments)
		return out
	}
	if fees.FullAmount != nil {
		return []float64{*fees.FullAmount}
	}
	return nil
}
