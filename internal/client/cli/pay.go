package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/iysravet/iyscli/internal/common"
	"github.com/iysravet/iyscli/internal/registration"
)

// readFile is a test seam for loading the screenshot from disk.
var readFile = os.ReadFile

// Pay walks the user through the registration payment: pick an amount, enter
// the transaction reference, optionally attach a payment screenshot, then
// submit. A refused draft keeps its values so the user can fix and retry.
func (a *App) Pay(ctx context.Context) error {
	if a.details == nil {
		printlnFn("Run 'yatra' first to load registration details.")
		return nil
	}

	if a.workflow.State() == registration.StateSucceeded {
		printlnFn(common.ErrAlreadySubmitted.Error())
		return common.ErrAlreadySubmitted
	}

	amounts := a.workflow.SelectableAmounts()
	if len(amounts) == 0 {
		printlnFn(common.ErrPaymentsNotConfigured.Error())
		return common.ErrPaymentsNotConfigured
	}

	symbol := ""
	if a.details.Fees != nil {
		symbol = a.details.Fees.CurrencySymbol
	}
	for i, amt := range amounts {
		printlnFn(fmt.Sprintf("  [%d] %s%v", i+1, symbol, amt))
	}

	choice, err := getSimpleText(a.reader, "Choose an amount option", os.Stdout)
	if err != nil {
		return err
	}
	idx, err := strconv.Atoi(choice)
	if err != nil || idx < 1 || idx > len(amounts) {
		printlnFn(common.ErrInvalidAmount.Error())
		return common.ErrInvalidAmount
	}
	a.workflow.SetAmount(amounts[idx-1])

	ref, err := getSimpleText(a.reader, "Enter the payment transaction ID / UPI reference", os.Stdout)
	if err != nil {
		return err
	}
	a.workflow.SetTransactionRef(ref)

	path, err := getSimpleText(a.reader, "Path to payment screenshot (Enter to skip)", os.Stdout)
	if err != nil {
		return err
	}
	if path != "" {
		data, err := readFile(path)
		if err != nil {
			printlnFn("Could not read screenshot:", err)
			return err
		}
		a.workflow.AttachScreenshot(filepath.Base(path), data)
	}

	ack, err := a.workflow.Submit(ctx)
	if err != nil {
		printlnFn("Registration not submitted:", err)
		return err
	}

	if ack.Message != "" {
		printlnFn(ack.Message)
	}
	if c := ack.Data; c != nil {
		printlnFn(fmt.Sprintf("Paid %s%v, transaction %s", symbol, c.Amount, c.PaymentID))
		if c.ScreenshotUploaded {
			printlnFn("Screenshot uploaded.")
		}
		if c.RegistrationID != "" {
			printlnFn("Registration ID:", c.RegistrationID)
		}
	}
	return nil
}
