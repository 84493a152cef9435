package main

import (
	"fmt"
	"log"
	"os"

	"github.com/Hood-Codivo/restar-africa/routes"
	"github.com/Hood-Codivo/restar-africa/services"
	"github.com/Hood-Codivo/restar-africa/storage"
	"github.com/Hood-Codivo/restar-africa/utils"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

func main() {
	godotenv.Load()

	// Initialize services
	storage.InitializeDB()
	storage.InitializeRedis()

	app := iris.New()
	app.Validator = validator.New()

	// CORS configuration
	app.AllowMethods(iris.MethodOptions)
	app.UseRouter(func(ctx iris.Context) {
		ctx.Header("Access-Control-Allow-Origin", ctx.GetHeader("Origin"))
		ctx.Header("Vary", "Origin")
		ctx.Header("Access-Control-Allow-Credentials", "true")
		ctx.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Requested-With")
		ctx.Header("Access-Control-Allow-Methods", "GET,POST,PATCH,PUT,DELETE,OPTIONS")
		if ctx.Method() == iris.MethodOptions {
			ctx.StatusCode(iris.StatusNoContent)
			return
		}
		ctx.Next()
	})

	app.Use(iris.Compression)

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifier.WithDefaultBlocklist()
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})

	// Health check endpoint
	app.Get("/health", func(ctx iris.Context) {
		ctx.JSON(iris.Map{"status": "ok"})
	})

	property := app.Party("/api/property")
	{
		property.Get("/", routes.ListProperties)
		property.Get("/{id:uint}", routes.GetProperty)
		property.Get("/{id:uint}/reserved-dates", routes.GetReservedDates)
		property.Get("/{id:uint}/availability", routes.CheckAvailability)
		property.Post("/", accessTokenVerifierMiddleware, utils.HostOrAdminMiddleware, routes.CreateProperty)
		property.Get("/mine/list", accessTokenVerifierMiddleware, utils.HostOrAdminMiddleware, routes.GetHostProperties)
	}

	booking := app.Party("/api/booking")
	{
		booking.Post("/", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.CreateBooking)
		booking.Post("/offline", accessTokenVerifierMiddleware, utils.HostOrAdminMiddleware, routes.CreateOfflineBooking)
		booking.Get("/mine", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.GetUserBookings)
		booking.Get("/host", accessTokenVerifierMiddleware, utils.HostOrAdminMiddleware, routes.GetHostBookings)
		booking.Get("/{id:uint}", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.GetBooking)
		booking.Patch("/{id:uint}/status", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.UpdateBookingStatus)
	}

	review := app.Party("/api/review")
	{
		review.Get("/property/{id:uint}", routes.ListPropertyReviews)
		review.Post("/property/{id:uint}", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.CreateReview)
	}

	notifications := app.Party("/api/notifications")
	{
		notifications.Get("/", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.GetUserNotifications)
		notifications.Patch("/{id:uint}/read", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.MarkNotificationRead)
		notifications.Patch("/read-all", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.MarkAllNotificationsRead)
	}

	admin := app.Party("/api/admin", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware)
	{
		admin.Get("/bookings", routes.AdminListBookings)
		admin.Get("/bookings/{id:uint}", routes.AdminGetBooking)
		admin.Patch("/bookings/{id:uint}/status", routes.AdminUpdateBookingStatus)
		admin.Post("/bookings/sweep", routes.AdminTriggerSweep)
		admin.Get("/stats/revenue", routes.AdminRevenueStats)
	}

	// Nightly auto-completion of past-checkout bookings
	bookingService := services.NewBookingService(storage.DB)
	bookingService.StartAutoCompleteScheduler()

	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}
	addr := "0.0.0.0:" + port

	fmt.Printf("Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
