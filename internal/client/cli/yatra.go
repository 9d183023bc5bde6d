package cli

import (
	"context"
	"fmt"
)

// Yatra fetches the registration details for the upcoming yatra, binds the
// payment workflow to it, and prints the offer: description, fee options,
// and the payment channel.
func (a *App) Yatra(ctx context.Context) error {
	details, err := a.apiClient.EventRegDetails(ctx)
	if err != nil {
		printlnFn("Could not load registration details:", err)
		return err
	}

	if details.Empty() {
		printlnFn("Registration details are not available yet.")
		a.details = nil
		return nil
	}

	if err := a.workflow.Begin(details); err != nil {
		printlnFn("Cannot switch yatra:", err)
		return err
	}
	a.details = details

	printlnFn(details.Title)
	if details.Description != "" {
		printlnFn(details.Description)
	}
	if details.Departure != "" {
		printlnFn("Departure:", details.Departure)
	}
	if details.Duration != "" {
		printlnFn("Duration:", details.Duration)
	}

	amounts := a.workflow.SelectableAmounts()
	if len(amounts) == 0 {
		printlnFn("Payment options are not configured yet.")
	} else {
		symbol := details.Fees.CurrencySymbol
		for i, amt := range amounts {
			printlnFn(fmt.Sprintf("  [%d] %s%v", i+1, symbol, amt))
		}
	}

	if details.UPIID != "" {
		printlnFn("UPI:", details.UPIID)
	}
	if details.QRURL != "" {
		printlnFn("QR:", details.QRURL)
	}

	printlnFn("Use 'pay' to register.")
	return nil
}
