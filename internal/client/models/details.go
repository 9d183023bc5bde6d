package models

// FeeSchedule is the server-configured payment schedule for an event.
// FullAmount is a pointer so an explicit zero can be told apart from an
// absent value.
type FeeSchedule struct {
	FullAmount     *float64  `json:"fullAmount"`
	Installments   []float64 `json:"installments"`
	CurrencySymbol string    `json:"currencySymbol"`
}

// Usable reports whether the schedule offers at least one payable amount:
// a non-null full amount or a non-empty installment list.
func (f *FeeSchedule) Usable() bool {
	return f != nil && (f.FullAmount != nil || len(f.Installments) > 0)
}

// EventDetails is the registration detail object for one event. The server
// may return an empty object when nothing is configured yet.
type EventDetails struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Departure   string       `json:"departure"`
	Duration    string       `json:"duration"`
	Fees        *FeeSchedule `json:"fees"`
	UPIID       string       `json:"upiId"`
	QRURL       string       `json:"qrUrl"`
}

// Empty reports whether the server returned no usable details at all.
func (d *EventDetails) Empty() bool {
	return d == nil || *d == (EventDetails{})
}
