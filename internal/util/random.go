// Package util provides small internal helpers shared across packages.
package util

import (
	"fmt"
	"math/rand/v2"
)

const confirmationAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// RandomAccountNumber returns an 8-digit account number assigned at
// conversation creation.
func RandomAccountNumber() string {
	return fmt.Sprintf("%d", rand.IntN(90000000)+10000000)
}

// RandomConfirmationNumber returns a 6-character uppercase alphanumeric
// booking confirmation.
func RandomConfirmationNumber() string {
	b := make([]byte, 6)
	for i := range b {
		b[i] = confirmationAlphabet[rand.IntN(len(confirmationAlphabet))]
	}
	return string(b)
}

// RandomFlightNumber returns a flight number of the form FLT-###.
func RandomFlightNumber() string {
	return fmt.Sprintf("FLT-%d", rand.IntN(900)+100)
}
