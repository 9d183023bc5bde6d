// Package models defines the client-side data types exchanged with the IYS
// backend. All of them are read-only to the client except the registration
// submission, which the user builds up before submitting.
package models

// RegistrationWindow tells whether an event currently accepts
// registrations. Label is the server's display text for the window.
type RegistrationWindow struct {
	Open  bool   `json:"open"`
	Label string `json:"label"`
}

// EventRecord is one published event. Dates are kept as the server sends
// them; the client formats them only for display.
type EventRecord struct {
	ID           string             `json:"id"`
	Title        string             `json:"title"`
	StartDate    string             `json:"startDate"`
	EndDate      string             `json:"endDate"`
	Registration RegistrationWindow `json:"registration"`
}
