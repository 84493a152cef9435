package services

import (
	"context"
	"log"
	"time"

	"github.com/Hood-Codivo/restar-africa/models"
	"github.com/Hood-Codivo/restar-africa/storage"
	"github.com/Hood-Codivo/restar-africa/utils"

	"gorm.io/gorm"
)

// sweepHourUTC is when the daily auto-completion sweep runs.
const sweepHourUTC = 3

// AutoCompleteBookings completes every non-terminal booking whose check-out
// day is strictly before today. Each booking is processed in its own
// transaction so one bad row never blocks the rest of the sweep. It returns
// how many bookings were completed.
func (s *BookingService) AutoCompleteBookings(now time.Time) (int, error) {
	cutoff := utils.StartOfDayUTC(now)

	var due []models.Booking
	if err := s.db.
		Where("booking_status IN ? AND check_out < ?",
			[]string{models.BookingStatusPending, models.BookingStatusConfirmed}, cutoff).
		Find(&due).Error; err != nil {
		return 0, err
	}

	completed := 0
	for i := range due {
		fx := &sideEffects{}
		err := s.db.Transaction(func(tx *gorm.DB) error {
			var booking models.Booking
			if err := s.lockForUpdate(tx).First(&booking, due[i].ID).Error; err != nil {
				return err
			}
			if booking.Terminal() {
				return nil // raced with an explicit transition, nothing to do
			}

			var property models.Property
			if err := s.lockForUpdate(tx).Preload("RoomTypes").
				First(&property, booking.PropertyID).Error; err != nil {
				return err
			}
			if target, err := ResolveBookingTarget(&property, booking.RoomTypeID); err == nil {
				days := utils.DaysInRange(booking.CheckIn, booking.CheckOut)
				releasable := removeDays(days, s.daysHeldByOthers(tx, &booking))
				if err := target.Release(tx, releasable); err != nil {
					return err
				}
			}

			// Swept completions accrue property revenue only; host payouts for
			// these are settled by the payouts job, not here.
			return s.completeBooking(tx, &booking, fx, false)
		})
		if err != nil {
			log.Printf("sweep: booking %d not completed: %v", due[i].ID, err)
			continue
		}
		fx.run()
		completed++
	}

	if completed > 0 || len(due) > 0 {
		log.Printf("sweep: %d of %d past-checkout bookings completed", completed, len(due))
	}
	return completed, nil
}

// StartAutoCompleteScheduler runs the sweep daily at sweepHourUTC. A Redis
// lock keyed by day keeps multiple instances from double-sweeping.
func (s *BookingService) StartAutoCompleteScheduler() {
	go func() {
		for {
			time.Sleep(time.Until(nextSweepAt(time.Now().UTC())))
			s.RunScheduledSweep()
		}
	}()
}

// RunScheduledSweep acquires the daily lock and runs the sweep. It is also
// called directly by the admin trigger endpoint (which skips the lock by
// calling AutoCompleteBookings itself).
func (s *BookingService) RunScheduledSweep() {
	now := time.Now().UTC()
	if storage.Redis != nil {
		ctx := context.Background()
		key := "sweep:auto-complete:" + utils.DayString(now)
		ok, err := storage.Redis.SetNX(ctx, key, "1", 23*time.Hour).Result()
		if err != nil {
			log.Println("sweep: redis lock unavailable, running anyway:", err)
		} else if !ok {
			log.Println("sweep: another instance already swept today, skipping")
			return
		}
	}
	if _, err := s.AutoCompleteBookings(now); err != nil {
		log.Println("sweep: failed:", err)
	}
}

func nextSweepAt(now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), sweepHourUTC, 0, 0, 0, time.UTC)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
