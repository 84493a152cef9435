package routes

import (
	"github.com/Hood-Codivo/restar-africa/models"
	"github.com/Hood-Codivo/restar-africa/storage"
	"github.com/Hood-Codivo/restar-africa/utils"

	"github.com/kataras/iris/v12"
)

type CreatePropertyInput struct {
	Title        string  `json:"title" validate:"required,max=256"`
	Description  string  `json:"description" validate:"max=2000"`
	PropertyType string  `json:"propertyType" validate:"required,oneof=apartment hotel"`
	AddressLine1 string  `json:"addressLine1"`
	City         string  `json:"city"`
	State        string  `json:"state"`
	Country      string  `json:"country"`
	Lat          float32 `json:"lat"`
	Lng          float32 `json:"lng"`
	NightlyPrice float64 `json:"nightlyPrice" validate:"min=0"`
	Currency     string  `json:"currency"`

	RoomTypes []CreateRoomTypeInput `json:"roomTypes" validate:"dive"`
}

type CreateRoomTypeInput struct {
	Name          string  `json:"name" validate:"required,max=100"`
	PricePerNight float64 `json:"pricePerNight" validate:"required,min=0"`
	Capacity      int     `json:"capacity" validate:"min=1"`
	TotalRooms    int     `json:"totalRooms" validate:"min=1"`
}

// CreateProperty registers a new listing owned by the logged-in host. Hotel
// listings carry their room types; apartments reserve at the property level.
func CreateProperty(ctx iris.Context) {
	userID, _ := ctx.Values().Get("userID").(uint)

	var input CreatePropertyInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}
	if input.PropertyType == models.PropertyTypeHotel && len(input.RoomTypes) == 0 {
		ctx.StatusCode(iris.StatusBadRequest)
		ctx.JSON(iris.Map{"message": "Hotel properties need at least one room type"})
		return
	}

	active := true
	property := models.Property{
		HostID:       userID,
		Title:        input.Title,
		Description:  input.Description,
		PropertyType: input.PropertyType,
		AddressLine1: input.AddressLine1,
		City:         input.City,
		State:        input.State,
		Country:      input.Country,
		Lat:          input.Lat,
		Lng:          input.Lng,
		NightlyPrice: input.NightlyPrice,
		Currency:     input.Currency,
		IsActive:     &active,
		Status:       "pending",
	}
	for _, rt := range input.RoomTypes {
		property.RoomTypes = append(property.RoomTypes, models.RoomType{
			Name:          rt.Name,
			PricePerNight: rt.PricePerNight,
			Capacity:      rt.Capacity,
			TotalRooms:    rt.TotalRooms,
		})
	}

	if err := storage.DB.Create(&property).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(property)
}

// GetProperty returns one listing with rooms and reviews.
func GetProperty(ctx iris.Context) {
	propertyID := ctx.Params().GetUintDefault("id", 0)

	var property models.Property
	if err := storage.DB.Preload("RoomTypes").Preload("Reviews").
		First(&property, propertyID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	ctx.JSON(property)
}

// ListProperties returns approved active listings, optionally filtered by
// city and property type.
func ListProperties(ctx iris.Context) {
	q := storage.DB.Preload("RoomTypes").
		Where("status = ? AND (is_active IS NULL OR is_active = ?)", "approved", true)

	if city := ctx.URLParam("city"); city != "" {
		q = q.Where("LOWER(city) = LOWER(?)", city)
	}
	if propertyType := ctx.URLParam("propertyType"); propertyType != "" {
		q = q.Where("property_type = ?", propertyType)
	}

	var properties []models.Property
	if err := q.Order("created_at DESC").Find(&properties).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(properties)
}

// GetHostProperties lists the logged-in host's own listings regardless of
// moderation status.
func GetHostProperties(ctx iris.Context) {
	userID, _ := ctx.Values().Get("userID").(uint)

	var properties []models.Property
	if err := storage.DB.Preload("RoomTypes").
		Where("host_id = ?", userID).
		Order("created_at DESC").
		Find(&properties).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(properties)
}
