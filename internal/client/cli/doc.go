// Package cli implements the interactive IYS client: a REPL that signs the
// user in and out, lists published events, shows registration details for the
// upcoming yatra, and walks the user through submitting a payment.
//
// The REPL dispatches on the first token of each input line. Command handlers
// live on App; the loop itself only parses and routes, so it can be tested
// against a lightweight stub.
package cli
