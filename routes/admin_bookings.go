package routes

import (
	"net/http"
	"time"

	"github.com/Hood-Codivo/restar-africa/models"
	"github.com/Hood-Codivo/restar-africa/services"
	"github.com/Hood-Codivo/restar-africa/storage"
	"github.com/Hood-Codivo/restar-africa/utils"

	"github.com/kataras/iris/v12"
)

// GET /admin/bookings
func AdminListBookings(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	perPage := ctx.URLParamIntDefault("per_page", 25)
	if perPage <= 0 || perPage > 100 {
		perPage = 25
	}

	status := ctx.URLParamDefault("status", "")
	means := ctx.URLParamDefault("booking_means", "")
	hostID := ctx.URLParamDefault("host_id", "")
	propertyID := ctx.URLParamDefault("property_id", "")
	dateFrom := ctx.URLParamDefault("date_from", "")
	dateTo := ctx.URLParamDefault("date_to", "")

	q := storage.DB.Model(&models.Booking{})
	if status != "" {
		q = q.Where("booking_status = ?", status)
	}
	if means != "" {
		q = q.Where("booking_means = ?", means)
	}
	if hostID != "" {
		q = q.Where("host_id = ?", hostID)
	}
	if propertyID != "" {
		q = q.Where("property_id = ?", propertyID)
	}
	if dateFrom != "" {
		if t, err := utils.ParseDayString(dateFrom); err == nil {
			q = q.Where("check_in >= ?", t)
		}
	}
	if dateTo != "" {
		if t, err := utils.ParseDayString(dateTo); err == nil {
			q = q.Where("check_out <= ?", t)
		}
	}

	var total int64
	q.Count(&total)

	var items []models.Booking
	if err := q.Preload("Property").Preload("User").
		Offset((page - 1) * perPage).Limit(perPage).
		Order("created_at DESC").Find(&items).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	utils.JSONPage(ctx, items, page, perPage, total)
}

// GET /admin/bookings/:id
func AdminGetBooking(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}
	var booking models.Booking
	if err := storage.DB.Preload("Property").Preload("User").Preload("Host").
		First(&booking, id).Error; err != nil {
		utils.JSONError(ctx, http.StatusNotFound, "not_found", "booking not found")
		return
	}
	ctx.JSON(iris.Map{"data": booking, "meta": iris.Map{}, "links": iris.Map{}})
}

// PATCH /admin/bookings/:id/status { bookingStatus, cancellationReason }
func AdminUpdateBookingStatus(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}
	var input services.UpdateBookingStatusInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}
	if input.BookingStatus == models.BookingStatusCancelled && input.WhoCancelledRole == "" {
		input.WhoCancelledRole = "admin"
	}

	var before models.Booking
	if err := storage.DB.First(&before, id).Error; err != nil {
		utils.JSONError(ctx, http.StatusNotFound, "not_found", "booking not found")
		return
	}

	svc := services.NewBookingService(storage.DB)
	updated, warnings, err := svc.UpdateBookingStatus(id, input)
	if err != nil {
		writeBookingError(ctx, err)
		return
	}

	utils.Audit(ctx, "booking.status", "booking", updated.ID, before, updated)
	ctx.JSON(iris.Map{"data": updated, "warnings": warnings})
}

// POST /admin/bookings/sweep runs the auto-completion pass on demand instead
// of waiting for the nightly schedule.
func AdminTriggerSweep(ctx iris.Context) {
	svc := services.NewBookingService(storage.DB)
	completed, err := svc.AutoCompleteBookings(time.Now().UTC())
	if err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	utils.Audit(ctx, "booking.sweep", "booking", 0, nil, iris.Map{"completed": completed})
	ctx.JSON(iris.Map{"data": iris.Map{"completed": completed}})
}

// GET /admin/stats/revenue aggregates gross revenue, host payout shares and
// booking counts per status.
func AdminRevenueStats(ctx iris.Context) {
	var grossRevenue float64
	storage.DB.Model(&models.Property{}).
		Select("COALESCE(SUM(revenue), 0)").Scan(&grossRevenue)

	var hostPayouts float64
	storage.DB.Model(&models.User{}).
		Select("COALESCE(SUM(payouts_revenue), 0)").Scan(&hostPayouts)

	var refunded float64
	storage.DB.Model(&models.Refund{}).
		Select("COALESCE(SUM(amount), 0)").Scan(&refunded)

	type statusCount struct {
		BookingStatus string `json:"bookingStatus"`
		Count         int64  `json:"count"`
	}
	var byStatus []statusCount
	storage.DB.Model(&models.Booking{}).
		Select("booking_status, COUNT(*) as count").
		Group("booking_status").Scan(&byStatus)

	ctx.JSON(iris.Map{
		"data": iris.Map{
			"grossRevenue":     grossRevenue,
			"hostPayouts":      hostPayouts,
			"platformRevenue":  grossRevenue - hostPayouts,
			"refunded":         refunded,
			"bookingsByStatus": byStatus,
		},
		"meta":  iris.Map{},
		"links": iris.Map{},
	})
}
