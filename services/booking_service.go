package services

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/Hood-Codivo/restar-africa/models"
	"github.com/Hood-Codivo/restar-africa/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// HostShareRate is the host's cut of a completed booking's gross amount.
// The remainder stays with the platform.
const HostShareRate = 0.85

// BookingService owns the booking lifecycle: creation, status transitions,
// cancellation with refunds, and the auto-completion sweep.
type BookingService struct {
	db *gorm.DB
}

func NewBookingService(db *gorm.DB) *BookingService {
	return &BookingService{db: db}
}

// CreateBookingInput is the request payload for both online and offline
// bookings. Routes bind it with ReadJSON and run the validator over it.
type CreateBookingInput struct {
	PropertyID  uint      `json:"propertyID" validate:"required"`
	RoomTypeID  *uint     `json:"roomTypeID"`
	CheckIn     time.Time `json:"checkIn" validate:"required"`
	CheckOut    time.Time `json:"checkOut" validate:"required"`
	Guests      int       `json:"guests" validate:"required,gte=1,lte=16"`
	TotalAmount float64   `json:"totalAmount" validate:"required,gt=0"`

	GuestName   string `json:"guestName"`
	Email       string `json:"email" validate:"omitempty,email"`
	PhoneNumber string `json:"phoneNumber"`

	PaymentMethod string `json:"paymentMethod"`
	PaymentRef    string `json:"paymentRef"`
}

// UpdateBookingStatusInput carries a status transition request. The
// cancellation fields are only meaningful when the target is cancelled.
type UpdateBookingStatusInput struct {
	BookingStatus      string `json:"bookingStatus" validate:"required,oneof=pending confirmed cancelled completed"`
	CancellationReason string `json:"cancellationReason"`
	WhoCancelled       string `json:"whoCancelled"`
	WhoCancelledRole   string `json:"whoCancelledRole"`
}

// sideEffects collects the non-transactional work (push, email) that runs
// only after the surrounding transaction commits.
type sideEffects struct {
	pushes []func() error
	emails []func() error
}

// run executes the collected side effects and returns a warning per failure.
// The booking is already durable at this point, so nothing here is fatal.
func (fx *sideEffects) run() []string {
	var warnings []string
	for _, send := range fx.pushes {
		if err := send(); err != nil {
			log.Println("booking side effect: push notification failed:", err)
			warnings = append(warnings, "push notification could not be delivered")
		}
	}
	for _, send := range fx.emails {
		if err := send(); err != nil {
			log.Println("booking side effect: email failed:", err)
			warnings = append(warnings, "confirmation email could not be delivered")
		}
	}
	return warnings
}

// CreateBooking creates an online booking for a registered user. The date
// validation, conflict check, reservation and in-app notifications all run
// inside one transaction; push and email go out only after commit and their
// failures come back as warnings.
func (s *BookingService) CreateBooking(userID uint, in CreateBookingInput) (*models.Booking, []string, error) {
	return s.createBooking(&userID, models.BookingMeansOnline, in)
}

// CreateOfflineBooking records a walk-in or phone booking taken by the host.
// There is no registered guest, so only the host gets an in-app notification
// and the guest is reached by email if one was captured.
func (s *BookingService) CreateOfflineBooking(in CreateBookingInput) (*models.Booking, []string, error) {
	return s.createBooking(nil, models.BookingMeansOffline, in)
}

func (s *BookingService) createBooking(userID *uint, means string, in CreateBookingInput) (*models.Booking, []string, error) {
	now := time.Now().UTC()
	checkIn := utils.StartOfDayUTC(in.CheckIn)
	checkOut := utils.StartOfDayUTC(in.CheckOut)

	if checkIn.Before(utils.StartOfDayUTC(now)) {
		return nil, nil, ErrCheckInPast
	}
	if !checkOut.After(checkIn) {
		return nil, nil, ErrInvalidDateRange
	}
	days := utils.DaysInRange(checkIn, checkOut)

	var booking *models.Booking
	fx := &sideEffects{}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if userID != nil {
			if err := tx.First(&user, *userID).Error; err != nil {
				return ErrUserNotFound
			}
		}

		var property models.Property
		if err := s.lockForUpdate(tx).Preload("RoomTypes").
			First(&property, in.PropertyID).Error; err != nil {
			return ErrPropertyNotFound
		}

		target, err := ResolveBookingTarget(&property, in.RoomTypeID)
		if err != nil {
			return err
		}
		if conflicts := FindConflicts(days, target.ReservedDays()); len(conflicts) > 0 {
			return &ConflictError{Kind: target.Kind(), Dates: conflicts}
		}

		booking = &models.Booking{
			UserID:        userID,
			HostID:        property.HostID,
			PropertyID:    property.ID,
			RoomTypeID:    in.RoomTypeID,
			GuestName:     in.GuestName,
			Email:         in.Email,
			PhoneNumber:   in.PhoneNumber,
			CheckIn:       checkIn,
			CheckOut:      checkOut,
			Guests:        in.Guests,
			TotalNights:   len(days) - 1,
			TotalAmount:   in.TotalAmount,
			Type:          property.PropertyType,
			BookingMeans:  means,
			PaymentMethod: in.PaymentMethod,
			PaymentRef:    in.PaymentRef,
			BookingStatus: models.BookingStatusPending,
		}
		if property.PropertyType == models.PropertyTypeHotel {
			booking.RoomName = roomName(&property, in.RoomTypeID)
		}
		if means == models.BookingMeansOnline {
			booking.PaymentStatus = models.PaymentStatusCompleted
			booking.RewardPointsEarned = 1
			if booking.PaymentRef == "" {
				booking.PaymentRef = generatePaymentRef("ONLINE")
			}
			if userID != nil {
				if booking.GuestName == "" {
					booking.GuestName = user.FirstName + " " + user.LastName
				}
				if booking.Email == "" {
					booking.Email = user.Email
				}
			}
		} else {
			booking.PaymentStatus = models.PaymentStatusPending
			if booking.PaymentRef == "" {
				booking.PaymentRef = generatePaymentRef("OFFLINE")
			}
		}

		if err := tx.Create(booking).Error; err != nil {
			return err
		}
		if err := target.Reserve(tx, days); err != nil {
			return err
		}

		// In-app notifications ride the transaction: a booking without its
		// notifications is worse than no booking at all.
		if userID != nil {
			guestNote := models.Notification{
				UserID:  *userID,
				Type:    "booking_created",
				Title:   "Booking received",
				Message: fmt.Sprintf("Your booking at %s from %s to %s is pending confirmation.", property.Title, utils.DayString(checkIn), utils.DayString(checkOut)),
				RefType: "booking",
				RefID:   booking.ID,
			}
			if err := tx.Create(&guestNote).Error; err != nil {
				return err
			}
		}
		hostNote := models.Notification{
			UserID:  property.HostID,
			Type:    "booking_created",
			Title:   "New booking",
			Message: fmt.Sprintf("%s booked %s from %s to %s.", displayGuestName(booking), property.Title, utils.DayString(checkIn), utils.DayString(checkOut)),
			RefType: "booking",
			RefID:   booking.ID,
		}
		if err := tx.Create(&hostNote).Error; err != nil {
			return err
		}

		s.queueBookingCreatedEffects(fx, booking, &property, userID)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return booking, fx.run(), nil
}

func (s *BookingService) queueBookingCreatedEffects(fx *sideEffects, booking *models.Booking, property *models.Property, userID *uint) {
	title := "Booking received"
	body := fmt.Sprintf("Your booking at %s is pending confirmation.", property.Title)
	if userID != nil {
		id := *userID
		fx.pushes = append(fx.pushes, func() error {
			return SendPushToUser(s.db, id, title, body, map[string]string{"bookingID": fmt.Sprint(booking.ID)})
		})
	}
	hostID := property.HostID
	fx.pushes = append(fx.pushes, func() error {
		return SendPushToUser(s.db, hostID, "New booking", fmt.Sprintf("%s booked %s.", displayGuestName(booking), property.Title), map[string]string{"bookingID": fmt.Sprint(booking.ID)})
	})
	if booking.Email != "" {
		b, p := *booking, *property
		fx.emails = append(fx.emails, func() error {
			return SendBookingCreatedEmail(&b, &p)
		})
	}
}

// UpdateBookingStatus applies a status transition. Cancellations release the
// reserved days, compute the refund and record it; completions accrue the
// property's revenue and the host's payout share.
func (s *BookingService) UpdateBookingStatus(bookingID uint, in UpdateBookingStatusInput) (*models.Booking, []string, error) {
	now := time.Now().UTC()
	var booking models.Booking
	fx := &sideEffects{}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.lockForUpdate(tx).First(&booking, bookingID).Error; err != nil {
			return ErrBookingNotFound
		}
		if booking.BookingStatus == in.BookingStatus {
			return nil // no-op, keep it idempotent for retried clients
		}
		if err := CanTransition(booking.BookingStatus, in.BookingStatus, now, booking.CheckOut); err != nil {
			return err
		}

		switch in.BookingStatus {
		case models.BookingStatusCancelled:
			return s.cancelBooking(tx, &booking, in, now, fx)
		case models.BookingStatusCompleted:
			return s.completeBooking(tx, &booking, fx, true)
		default:
			booking.BookingStatus = in.BookingStatus
			// stale cancellation metadata must not survive a fresh transition
			booking.CancellationReason = ""
			booking.WhoCancelled = ""
			booking.WhoCancelledRole = ""
			booking.CancelledAt = nil
			if err := tx.Save(&booking).Error; err != nil {
				return err
			}
			s.queueStatusChangeEffects(tx, fx, &booking)
			return nil
		}
	})
	if err != nil {
		return nil, nil, err
	}

	return &booking, fx.run(), nil
}

// CanTransition is the pure status-machine guard. Allowed moves are
// pending->confirmed, pending->cancelled, confirmed->cancelled (while the
// stay has not ended) and confirmed->completed. Same-state requests are
// handled by the caller as no-ops.
func CanTransition(current, target string, now, checkOut time.Time) error {
	switch target {
	case models.BookingStatusCancelled:
		if checkOut.Before(now) {
			return ErrCheckOutPassed
		}
		if current == models.BookingStatusCancelled || current == models.BookingStatusCompleted {
			return &TransitionError{Current: current, Target: target}
		}
	case models.BookingStatusCompleted:
		if current != models.BookingStatusConfirmed {
			return &TransitionError{Current: current, Target: target}
		}
	case models.BookingStatusConfirmed:
		if current != models.BookingStatusPending {
			return &TransitionError{Current: current, Target: target}
		}
	case models.BookingStatusPending:
		return &TransitionError{Current: current, Target: target}
	}
	return nil
}

func (s *BookingService) cancelBooking(tx *gorm.DB, booking *models.Booking, in UpdateBookingStatusInput, now time.Time, fx *sideEffects) error {
	var property models.Property
	if err := s.lockForUpdate(tx).Preload("RoomTypes").
		First(&property, booking.PropertyID).Error; err != nil {
		return ErrPropertyNotFound
	}
	target, err := ResolveBookingTarget(&property, booking.RoomTypeID)
	if err != nil {
		return err
	}

	days := utils.DaysInRange(booking.CheckIn, booking.CheckOut)
	releasable := removeDays(days, s.daysHeldByOthers(tx, booking))
	if err := target.Release(tx, releasable); err != nil {
		return err
	}

	amount, policyReason := ComputeRefund(now, booking.CheckIn, booking.TotalAmount)

	booking.BookingStatus = models.BookingStatusCancelled
	booking.RefundableAmount = amount
	booking.RewardPointsEarned = 0
	booking.CancellationReason = in.CancellationReason
	if booking.CancellationReason == "" {
		booking.CancellationReason = policyReason
	}
	booking.WhoCancelled = in.WhoCancelled
	booking.WhoCancelledRole = in.WhoCancelledRole
	booking.CancelledAt = &now
	if err := tx.Save(booking).Error; err != nil {
		return err
	}

	if amount > 0 {
		if booking.BookingMeans == models.BookingMeansOnline && booking.UserID != nil {
			refund := models.Refund{
				UserID:    *booking.UserID,
				BookingID: booking.ID,
				Amount:    amount,
				Method:    booking.PaymentMethod,
				Reason:    policyReason,
				Status:    "completed",
			}
			if err := tx.Create(&refund).Error; err != nil {
				return err
			}
		} else {
			refund := models.OfflineRefund{
				Email:     booking.Email,
				BookingID: booking.ID,
				Amount:    amount,
				Reason:    policyReason,
				Status:    "pending",
			}
			if err := tx.Create(&refund).Error; err != nil {
				return err
			}
		}
	}

	hostNote := models.Notification{
		UserID:  booking.HostID,
		Type:    "booking_cancelled",
		Title:   "Booking cancelled",
		Message: fmt.Sprintf("The booking by %s at %s was cancelled.", displayGuestName(booking), property.Title),
		RefType: "booking",
		RefID:   booking.ID,
	}
	if err := tx.Create(&hostNote).Error; err != nil {
		return err
	}

	s.queueCancellationEffects(fx, booking, &property, amount)
	return nil
}

// completeBooking accrues the property's gross revenue and, for explicit
// completions, the host's payout share. The scheduled sweep accrues revenue
// only; host payouts for swept bookings are settled by the payouts job.
func (s *BookingService) completeBooking(tx *gorm.DB, booking *models.Booking, fx *sideEffects, withPayout bool) error {
	if err := tx.Model(&models.Property{}).Where("id = ?", booking.PropertyID).
		Update("revenue", gorm.Expr("revenue + ?", booking.TotalAmount)).Error; err != nil {
		return err
	}
	if withPayout && booking.HostID != 0 {
		hostShare := booking.TotalAmount * HostShareRate
		if err := tx.Model(&models.User{}).Where("id = ?", booking.HostID).
			Update("payouts_revenue", gorm.Expr("payouts_revenue + ?", hostShare)).Error; err != nil {
			return err
		}
	}

	booking.BookingStatus = models.BookingStatusCompleted
	if err := tx.Save(booking).Error; err != nil {
		return err
	}

	if booking.UserID != nil {
		note := models.Notification{
			UserID:  *booking.UserID,
			Type:    "booking_completed",
			Title:   "Stay completed",
			Message: "We hope you enjoyed your stay. Leave a review to help other guests.",
			RefType: "booking",
			RefID:   booking.ID,
		}
		if err := tx.Create(&note).Error; err != nil {
			return err
		}
	}

	s.queueCompletionEffects(fx, booking)
	return nil
}

func (s *BookingService) queueStatusChangeEffects(tx *gorm.DB, fx *sideEffects, booking *models.Booking) {
	if booking.UserID != nil {
		note := models.Notification{
			UserID:  *booking.UserID,
			Type:    "booking_" + booking.BookingStatus,
			Title:   "Booking " + booking.BookingStatus,
			Message: fmt.Sprintf("Your booking is now %s.", booking.BookingStatus),
			RefType: "booking",
			RefID:   booking.ID,
		}
		// still inside the transaction, rides the commit
		if err := tx.Create(&note).Error; err != nil {
			log.Println("booking: could not create status notification:", err)
		}

		id, status := *booking.UserID, booking.BookingStatus
		bookingID := booking.ID
		fx.pushes = append(fx.pushes, func() error {
			return SendPushToUser(s.db, id, "Booking "+status, fmt.Sprintf("Your booking is now %s.", status), map[string]string{"bookingID": fmt.Sprint(bookingID)})
		})
	}
	if booking.Email != "" {
		b := *booking
		fx.emails = append(fx.emails, func() error {
			return SendBookingStatusEmail(&b)
		})
	}
}

func (s *BookingService) queueCancellationEffects(fx *sideEffects, booking *models.Booking, property *models.Property, refundAmount float64) {
	if booking.UserID != nil {
		id := *booking.UserID
		bookingID := booking.ID
		body := "Your booking was cancelled."
		if refundAmount > 0 {
			body = fmt.Sprintf("Your booking was cancelled. A refund of %.2f is on its way.", refundAmount)
		}
		fx.pushes = append(fx.pushes, func() error {
			return SendPushToUser(s.db, id, "Booking cancelled", body, map[string]string{"bookingID": fmt.Sprint(bookingID)})
		})
	}
	hostID := booking.HostID
	fx.pushes = append(fx.pushes, func() error {
		return SendPushToUser(s.db, hostID, "Booking cancelled", fmt.Sprintf("A booking at %s was cancelled.", property.Title), nil)
	})
	if booking.Email != "" {
		b := *booking
		fx.emails = append(fx.emails, func() error {
			return SendBookingCancelledEmail(&b, refundAmount)
		})
	}
}

func (s *BookingService) queueCompletionEffects(fx *sideEffects, booking *models.Booking) {
	if booking.UserID != nil {
		id := *booking.UserID
		bookingID := booking.ID
		fx.pushes = append(fx.pushes, func() error {
			return SendPushToUser(s.db, id, "Stay completed", "We hope you enjoyed your stay. Leave a review!", map[string]string{"bookingID": fmt.Sprint(bookingID)})
		})
	}
	if booking.Email != "" {
		b := *booking
		fx.emails = append(fx.emails, func() error {
			return SendBookingCompletedEmail(&b)
		})
	}
}

// daysHeldByOthers returns the day strings covered by other non-cancelled
// bookings on the same availability target. Releasing a booking must not
// free days those bookings still occupy.
func (s *BookingService) daysHeldByOthers(tx *gorm.DB, booking *models.Booking) []string {
	q := tx.Where("property_id = ? AND id <> ? AND booking_status <> ?",
		booking.PropertyID, booking.ID, models.BookingStatusCancelled).
		Where("check_in <= ? AND check_out >= ?", booking.CheckOut, booking.CheckIn)
	if booking.RoomTypeID != nil {
		q = q.Where("room_type_id = ?", *booking.RoomTypeID)
	} else {
		q = q.Where("room_type_id IS NULL")
	}

	var others []models.Booking
	if err := q.Find(&others).Error; err != nil {
		log.Println("booking: overlap lookup failed, keeping all days reserved:", err)
		return utils.DaysInRange(booking.CheckIn, booking.CheckOut)
	}

	var held []string
	for i := range others {
		held = unionDays(held, utils.DaysInRange(others[i].CheckIn, others[i].CheckOut))
	}
	return held
}

// lockForUpdate takes a row lock on postgres so concurrent bookings of the
// same property serialize. Other dialects (sqlite in tests) rely on their
// own write serialization.
func (s *BookingService) lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

func roomName(property *models.Property, roomTypeID *uint) string {
	if roomTypeID == nil {
		return ""
	}
	for i := range property.RoomTypes {
		if property.RoomTypes[i].ID == *roomTypeID {
			return property.RoomTypes[i].Name
		}
	}
	return ""
}

func displayGuestName(b *models.Booking) string {
	if b.GuestName != "" {
		return b.GuestName
	}
	return "A guest"
}

func generatePaymentRef(prefix string) string {
	return fmt.Sprintf("%s-BOOK-%d-%04d", prefix, time.Now().UnixMilli(), rand.Intn(10000))
}
