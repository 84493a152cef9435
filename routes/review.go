package routes

import (
	"errors"

	"github.com/Hood-Codivo/restar-africa/models"
	"github.com/Hood-Codivo/restar-africa/storage"
	"github.com/Hood-Codivo/restar-africa/utils"

	"github.com/kataras/iris/v12"
	"gorm.io/gorm"
)

type CreateReviewInput struct {
	Stars     int    `json:"stars" validate:"required,min=1,max=5"`
	Title     string `json:"title" validate:"max=100"`
	Body      string `json:"body" validate:"max=1000"`
	BookingID uint   `json:"bookingID" validate:"required"`
}

// CreateReview lets a guest review a property after a completed stay. One
// review per booking.
func CreateReview(ctx iris.Context) {
	userID, _ := ctx.Values().Get("userID").(uint)
	propertyID := ctx.Params().GetUintDefault("id", 0)

	var input CreateReviewInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var booking models.Booking
	if err := storage.DB.First(&booking, input.BookingID).Error; err != nil {
		utils.CreateError(iris.StatusNotFound, "Not Found", "booking not found", ctx)
		return
	}
	if booking.UserID == nil || *booking.UserID != userID || booking.PropertyID != propertyID {
		ctx.StatusCode(iris.StatusForbidden)
		ctx.JSON(iris.Map{"message": "You can only review your own stays"})
		return
	}
	if booking.BookingStatus != models.BookingStatusCompleted {
		ctx.StatusCode(iris.StatusBadRequest)
		ctx.JSON(iris.Map{"message": "You can only review completed stays"})
		return
	}

	var existing models.Review
	err := storage.DB.Where("booking_id = ?", booking.ID).First(&existing).Error
	if err == nil {
		ctx.StatusCode(iris.StatusConflict)
		ctx.JSON(iris.Map{"message": "This stay has already been reviewed"})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.CreateInternalServerError(ctx)
		return
	}

	bookingID := booking.ID
	review := models.Review{
		UserID:     userID,
		PropertyID: propertyID,
		BookingID:  &bookingID,
		Stars:      input.Stars,
		Title:      input.Title,
		Body:       input.Body,
		IsVerified: true,
	}
	if err := storage.DB.Create(&review).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(review)
}

// ListPropertyReviews returns a property's reviews with the average rating.
func ListPropertyReviews(ctx iris.Context) {
	propertyID := ctx.Params().GetUintDefault("id", 0)

	var reviews []models.Review
	if err := storage.DB.Preload("User").
		Where("property_id = ?", propertyID).
		Order("created_at DESC").
		Find(&reviews).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	var total float64
	for _, r := range reviews {
		total += float64(r.Stars)
	}
	avg := 0.0
	if len(reviews) > 0 {
		avg = total / float64(len(reviews))
	}

	ctx.JSON(iris.Map{
		"reviews":       reviews,
		"averageRating": avg,
		"reviewCount":   len(reviews),
	})
}
