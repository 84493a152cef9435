package routes

import (
	"errors"

	"github.com/Hood-Codivo/restar-africa/models"
	"github.com/Hood-Codivo/restar-africa/services"
	"github.com/Hood-Codivo/restar-africa/storage"
	"github.com/Hood-Codivo/restar-africa/utils"

	"github.com/kataras/iris/v12"
)

// CreateBooking books a property (or a hotel room) for the logged-in user.
// Payment is assumed captured upstream; the booking is created pending.
func CreateBooking(ctx iris.Context) {
	userID, ok := ctx.Values().Get("userID").(uint)
	if !ok {
		ctx.StatusCode(iris.StatusUnauthorized)
		ctx.JSON(iris.Map{"message": "Unauthorized"})
		return
	}

	var input services.CreateBookingInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	svc := services.NewBookingService(storage.DB)
	booking, warnings, err := svc.CreateBooking(userID, input)
	if err != nil {
		writeBookingError(ctx, err)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{
		"message":  "Booking created successfully",
		"booking":  booking,
		"warnings": warnings,
	})
}

// CreateOfflineBooking records a walk-in or phone booking. Hosts and admins
// only; the guest has no account so contact details come from the payload.
func CreateOfflineBooking(ctx iris.Context) {
	var input services.CreateBookingInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	svc := services.NewBookingService(storage.DB)
	booking, warnings, err := svc.CreateOfflineBooking(input)
	if err != nil {
		writeBookingError(ctx, err)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{
		"message":  "Offline booking created successfully",
		"booking":  booking,
		"warnings": warnings,
	})
}

// UpdateBookingStatus moves a booking through its lifecycle. Guests may only
// cancel their own bookings; hosts and admins may confirm, cancel or complete
// bookings on their properties.
func UpdateBookingStatus(ctx iris.Context) {
	bookingID := ctx.Params().GetUintDefault("id", 0)
	if bookingID == 0 {
		ctx.StatusCode(iris.StatusBadRequest)
		ctx.JSON(iris.Map{"message": "Invalid booking ID"})
		return
	}

	var input services.UpdateBookingStatusInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	userID, _ := ctx.Values().Get("userID").(uint)
	role, _ := ctx.Values().Get("userRole").(string)

	var booking models.Booking
	if err := storage.DB.First(&booking, bookingID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}
	if !canActOnBooking(&booking, userID, role, input.BookingStatus) {
		ctx.StatusCode(iris.StatusForbidden)
		ctx.JSON(iris.Map{"message": "You are not allowed to modify this booking"})
		return
	}

	if input.BookingStatus == models.BookingStatusCancelled && input.WhoCancelled == "" {
		input.WhoCancelled = cancellerName(userID)
		input.WhoCancelledRole = role
	}

	svc := services.NewBookingService(storage.DB)
	updated, warnings, err := svc.UpdateBookingStatus(bookingID, input)
	if err != nil {
		writeBookingError(ctx, err)
		return
	}

	ctx.JSON(iris.Map{
		"message":  "Booking status updated",
		"booking":  updated,
		"warnings": warnings,
	})
}

// GetBooking returns one booking, visible to its guest, its host and admins.
func GetBooking(ctx iris.Context) {
	bookingID := ctx.Params().GetUintDefault("id", 0)

	var booking models.Booking
	if err := storage.DB.Preload("Property").First(&booking, bookingID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	userID, _ := ctx.Values().Get("userID").(uint)
	role, _ := ctx.Values().Get("userRole").(string)
	if !isAdminRole(role) && booking.HostID != userID &&
		(booking.UserID == nil || *booking.UserID != userID) {
		ctx.StatusCode(iris.StatusForbidden)
		ctx.JSON(iris.Map{"message": "You are not allowed to view this booking"})
		return
	}

	ctx.JSON(booking)
}

// GetUserBookings lists the logged-in user's bookings, newest first.
func GetUserBookings(ctx iris.Context) {
	userID, _ := ctx.Values().Get("userID").(uint)

	var bookings []models.Booking
	if err := storage.DB.Preload("Property").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&bookings).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(bookings)
}

// GetHostBookings lists bookings across all of the host's properties,
// including offline ones taken at the desk.
func GetHostBookings(ctx iris.Context) {
	userID, _ := ctx.Values().Get("userID").(uint)

	var bookings []models.Booking
	if err := storage.DB.Preload("Property").
		Where("host_id = ?", userID).
		Order("created_at DESC").
		Find(&bookings).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(bookings)
}

func canActOnBooking(b *models.Booking, userID uint, role, targetStatus string) bool {
	if isAdminRole(role) {
		return true
	}
	if b.HostID == userID {
		return true
	}
	// guests may only cancel their own bookings
	if b.UserID != nil && *b.UserID == userID {
		return targetStatus == models.BookingStatusCancelled
	}
	return false
}

func isAdminRole(role string) bool {
	return role == "admin" || role == "super_admin"
}

func cancellerName(userID uint) string {
	var user models.User
	if err := storage.DB.First(&user, userID).Error; err != nil {
		return ""
	}
	return user.FirstName + " " + user.LastName
}

// writeBookingError maps service errors onto HTTP problems: validation
// failures become 400, missing rows 404, date conflicts and illegal
// transitions 409.
func writeBookingError(ctx iris.Context, err error) {
	var conflict *services.ConflictError
	var transition *services.TransitionError
	var unsupported *services.UnsupportedPropertyTypeError

	switch {
	case errors.As(err, &conflict):
		ctx.StatusCode(iris.StatusConflict)
		ctx.JSON(iris.Map{
			"message":         conflict.Error(),
			"conflictingDays": conflict.Dates,
		})
	case errors.As(err, &transition):
		ctx.StatusCode(iris.StatusConflict)
		ctx.JSON(iris.Map{"message": transition.Error()})
	case errors.As(err, &unsupported):
		utils.CreateError(iris.StatusBadRequest, "Unsupported property type", unsupported.Error(), ctx)
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrPropertyNotFound),
		errors.Is(err, services.ErrBookingNotFound):
		utils.CreateError(iris.StatusNotFound, "Not Found", err.Error(), ctx)
	case errors.Is(err, services.ErrCheckInPast),
		errors.Is(err, services.ErrInvalidDateRange),
		errors.Is(err, services.ErrRoomRequired),
		errors.Is(err, services.ErrInvalidRoom),
		errors.Is(err, services.ErrCheckOutPassed):
		utils.CreateError(iris.StatusBadRequest, "Invalid booking request", err.Error(), ctx)
	default:
		utils.CreateInternalServerError(ctx)
	}
}
