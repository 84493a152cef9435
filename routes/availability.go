package routes

import (
	"time"

	"github.com/Hood-Codivo/restar-africa/models"
	"github.com/Hood-Codivo/restar-africa/services"
	"github.com/Hood-Codivo/restar-africa/storage"
	"github.com/Hood-Codivo/restar-africa/utils"

	"github.com/kataras/iris/v12"
)

// GetReservedDates returns the occupied day list for a property. Hotel
// properties take an optional roomTypeID query param; without it the
// per-room lists are returned keyed by room type.
func GetReservedDates(ctx iris.Context) {
	propertyID := ctx.Params().GetUintDefault("id", 0)

	var property models.Property
	if err := storage.DB.Preload("RoomTypes").First(&property, propertyID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	if property.PropertyType == models.PropertyTypeHotel {
		if roomTypeID := ctx.URLParamIntDefault("roomTypeID", 0); roomTypeID > 0 {
			id := uint(roomTypeID)
			target, err := services.ResolveBookingTarget(&property, &id)
			if err != nil {
				writeBookingError(ctx, err)
				return
			}
			ctx.JSON(iris.Map{"reservedDates": target.ReservedDays()})
			return
		}

		rooms := make([]iris.Map, 0, len(property.RoomTypes))
		for i := range property.RoomTypes {
			id := property.RoomTypes[i].ID
			target, err := services.ResolveBookingTarget(&property, &id)
			if err != nil {
				continue
			}
			rooms = append(rooms, iris.Map{
				"roomTypeID":    id,
				"name":          property.RoomTypes[i].Name,
				"reservedDates": target.ReservedDays(),
			})
		}
		ctx.JSON(iris.Map{"rooms": rooms})
		return
	}

	target, err := services.ResolveBookingTarget(&property, nil)
	if err != nil {
		writeBookingError(ctx, err)
		return
	}
	ctx.JSON(iris.Map{"reservedDates": target.ReservedDays()})
}

// CheckAvailability answers whether a date range is free, and if not, which
// requested days clash. Query params: checkIn, checkOut (YYYY-MM-DD) and
// roomTypeID for hotels.
func CheckAvailability(ctx iris.Context) {
	propertyID := ctx.Params().GetUintDefault("id", 0)

	checkIn, errIn := utils.ParseDayString(ctx.URLParam("checkIn"))
	checkOut, errOut := utils.ParseDayString(ctx.URLParam("checkOut"))
	if errIn != nil || errOut != nil {
		ctx.StatusCode(iris.StatusBadRequest)
		ctx.JSON(iris.Map{"message": "checkIn and checkOut must be YYYY-MM-DD dates"})
		return
	}
	if !checkOut.After(checkIn) {
		utils.CreateError(iris.StatusBadRequest, "Invalid booking request", services.ErrInvalidDateRange.Error(), ctx)
		return
	}
	if checkIn.Before(utils.StartOfDayUTC(time.Now())) {
		utils.CreateError(iris.StatusBadRequest, "Invalid booking request", services.ErrCheckInPast.Error(), ctx)
		return
	}

	var property models.Property
	if err := storage.DB.Preload("RoomTypes").First(&property, propertyID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	var roomTypeID *uint
	if raw := ctx.URLParamIntDefault("roomTypeID", 0); raw > 0 {
		id := uint(raw)
		roomTypeID = &id
	}
	target, err := services.ResolveBookingTarget(&property, roomTypeID)
	if err != nil {
		writeBookingError(ctx, err)
		return
	}

	days := utils.DaysInRange(checkIn, checkOut)
	conflicts := services.FindConflicts(days, target.ReservedDays())

	resp := iris.Map{
		"available":       len(conflicts) == 0,
		"requestedDays":   days,
		"conflictingDays": conflicts,
	}
	if len(conflicts) > 0 {
		resp["message"] = (&services.ConflictError{Kind: target.Kind(), Dates: conflicts}).Error()
	}
	ctx.JSON(resp)
}
