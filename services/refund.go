package services

import "time"

// Refund reasons, also recorded on the booking when no explicit cancellation
// reason is supplied.
const (
	RefundReasonAfterCheckIn  = "Cancellation after check-in"
	RefundReasonWithin24Hours = "Cancellation within 24 hours before check-in"
	RefundReasonBefore2Days   = "Cancellation before 2 days to check-in"
	RefundReasonBetween       = "Cancellation between 24 hours and 2 days before check-in"
)

// ComputeRefund applies the tiered refund policy. It is a pure function of
// (now, checkIn, totalAmount):
//
//	after check-in                      -> 0
//	within 24 hours of check-in         -> 0
//	2 or more days before check-in      -> full amount
//	between 24 hours and 2 days         -> 0
func ComputeRefund(now, checkIn time.Time, totalAmount float64) (float64, string) {
	if now.After(checkIn) {
		return 0, RefundReasonAfterCheckIn
	}

	until := checkIn.Sub(now)
	hoursUntil := int(until.Hours())
	daysUntil := int(until.Hours() / 24)

	if hoursUntil >= 0 && hoursUntil <= 24 {
		return 0, RefundReasonWithin24Hours
	}
	if daysUntil >= 2 {
		return totalAmount, RefundReasonBefore2Days
	}
	return 0, RefundReasonBetween
}
