package tool

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/flightdeskhq/flightdesk/core"
)

// SeatMapSentinel is the fixed tool result signaling the boundary layer to
// render an interactive seat map widget instead of plain text.
const SeatMapSentinel = "DISPLAY_SEAT_MAP"

// Fallback values used when the conversation context has not established the
// real identifiers yet.
const (
	fallbackConfirmation = "ABC123"
	fallbackFlight       = "FLT-123"
)

// NewFAQLookupTool answers canned airline policy questions by keyword match
// on the customer's message.
func NewFAQLookupTool() *FunctionTool {
	return NewFunctionTool(
		"faq_lookup_tool",
		"Lookup frequently asked questions.",
		func(message string, _ *core.FlightContext) (map[string]string, error) {
			return map[string]string{"question": message}, nil
		},
		func(_ *core.FlightContext, args map[string]string) (string, error) {
			q := strings.ToLower(args["question"])
			switch {
			case strings.Contains(q, "bag") || strings.Contains(q, "baggage"):
				return "You are allowed to bring one bag on the plane. " +
					"It must be under 50 pounds and 22 inches x 14 inches x 9 inches.", nil
			case strings.Contains(q, "seats") || strings.Contains(q, "plane"):
				return "There are 120 seats on the plane. " +
					"There are 22 business class seats and 98 economy seats. " +
					"Exit rows are rows 4 and 16. " +
					"Rows 5-8 are Economy Plus, with extra legroom.", nil
			case strings.Contains(q, "wifi"):
				return "We have free wifi on the plane, join Airline-Wifi", nil
			}
			return "I'm sorry, I don't know the answer to that question.", nil
		},
	)
}

// NewUpdateSeatTool changes the customer's seat. The new seat is scraped from
// the message (a short token mixing letters and digits, e.g. "12A"); the
// confirmation number comes from context when present.
func NewUpdateSeatTool() *FunctionTool {
	return NewFunctionTool(
		"update_seat",
		"Update the seat for a given confirmation number.",
		func(message string, fctx *core.FlightContext) (map[string]string, error) {
			confirmation := fctx.ConfirmationNumber
			if confirmation == "" {
				confirmation = fallbackConfirmation
			}
			return map[string]string{
				"confirmation_number": confirmation,
				"new_seat":            extractSeatToken(message),
			}, nil
		},
		func(fctx *core.FlightContext, args map[string]string) (string, error) {
			fctx.ConfirmationNumber = args["confirmation_number"]
			fctx.SeatNumber = args["new_seat"]
			return fmt.Sprintf("Updated seat to %s for confirmation number %s",
				args["new_seat"], args["confirmation_number"]), nil
		},
	)
}

// NewFlightStatusTool reports the status of the flight in context.
func NewFlightStatusTool() *FunctionTool {
	return NewFunctionTool(
		"flight_status_tool",
		"Lookup the status for a flight.",
		func(_ string, fctx *core.FlightContext) (map[string]string, error) {
			flight := fctx.FlightNumber
			if flight == "" {
				flight = fallbackFlight
			}
			return map[string]string{"flight_number": flight}, nil
		},
		func(_ *core.FlightContext, args map[string]string) (string, error) {
			return fmt.Sprintf("Flight %s is on time and scheduled to depart at gate A10.",
				args["flight_number"]), nil
		},
	)
}

// NewDisplaySeatMapTool triggers the UI to show an interactive seat map.
func NewDisplaySeatMapTool() *FunctionTool {
	return NewFunctionTool(
		"display_seat_map",
		"Trigger the UI to show an interactive seat map to the customer.",
		nil,
		func(_ *core.FlightContext, _ map[string]string) (string, error) {
			return SeatMapSentinel, nil
		},
	)
}

// NewCancelFlightTool cancels the flight in context.
func NewCancelFlightTool() *FunctionTool {
	return NewFunctionTool(
		"cancel_flight",
		"Cancel the flight in the context.",
		func(_ string, fctx *core.FlightContext) (map[string]string, error) {
			flight := fctx.FlightNumber
			if flight == "" {
				flight = fallbackFlight
			}
			return map[string]string{"flight_number": flight}, nil
		},
		func(_ *core.FlightContext, args map[string]string) (string, error) {
			return fmt.Sprintf("Flight %s successfully cancelled", args["flight_number"]), nil
		},
	)
}

// extractSeatToken scans the message for the first short token containing
// both a digit and a letter ("12A", "3f"). Falls back to "1A" when nothing
// seat-looking is present.
func extractSeatToken(message string) string {
	for _, word := range strings.Fields(message) {
		if len(word) <= 3 && hasDigit(word) && hasLetter(word) {
			return word
		}
	}
	return "1A"
}

func hasDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
