package models

// RegistrationSubmission is the payload of one multipart registration
// request. Screenshot is optional; when present it is sent as a file part.
type RegistrationSubmission struct {
	EventID        string
	Amount         float64
	PaymentID      string
	ScreenshotName string
	Screenshot     []byte
}

// Confirmation is the server's acknowledgement of an accepted
// registration. It is retained for display and never mutated once set.
type Confirmation struct {
	Amount             float64 `json:"amount"`
	PaymentID          string  `json:"paymentId"`
	ScreenshotUploaded bool    `json:"screenshotUploaded"`
	RegistrationID     string  `json:"registrationId,omitempty"`
}

// RegistrationAck is the decoded body of a successful submission response.
type RegistrationAck struct {
	Message string        `json:"message"`
	Data    *Confirmation `json:"data"`
}
