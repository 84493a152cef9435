package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestComputeRefundAfterCheckIn(t *testing.T) {
	checkIn := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	now := checkIn.Add(6 * time.Hour)

	amount, reason := ComputeRefund(now, checkIn, 500)
	require.Zero(t, amount)
	require.Equal(t, RefundReasonAfterCheckIn, reason)
}

func TestComputeRefundWithin24Hours(t *testing.T) {
	checkIn := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	for _, hoursBefore := range []int{1, 12, 24} {
		now := checkIn.Add(-time.Duration(hoursBefore) * time.Hour)
		amount, reason := ComputeRefund(now, checkIn, 500)
		require.Zero(t, amount, "t-%dh should not refund", hoursBefore)
		require.Equal(t, RefundReasonWithin24Hours, reason)
	}
}

func TestComputeRefundTwoOrMoreDaysOut(t *testing.T) {
	checkIn := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)

	amount, reason := ComputeRefund(checkIn.AddDate(0, 0, -5), checkIn, 750)
	require.Equal(t, 750.0, amount)
	require.Equal(t, RefundReasonBefore2Days, reason)

	// exactly 48 hours out still qualifies for the full refund
	amount, reason = ComputeRefund(checkIn.Add(-48*time.Hour), checkIn, 750)
	require.Equal(t, 750.0, amount)
	require.Equal(t, RefundReasonBefore2Days, reason)
}

func TestComputeRefundBetween24HoursAnd2Days(t *testing.T) {
	checkIn := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)

	amount, reason := ComputeRefund(checkIn.Add(-36*time.Hour), checkIn, 500)
	require.Zero(t, amount)
	require.Equal(t, RefundReasonBetween, reason)
}

func TestComputeRefundExactCheckInInstant(t *testing.T) {
	checkIn := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)

	// now == checkIn is not "after check-in"; zero hours remaining lands in
	// the within-24-hours tier
	amount, reason := ComputeRefund(checkIn, checkIn, 500)
	require.Zero(t, amount)
	require.Equal(t, RefundReasonWithin24Hours, reason)
}
