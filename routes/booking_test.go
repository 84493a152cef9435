package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Hood-Codivo/restar-africa/models"
	"github.com/Hood-Codivo/restar-africa/storage"
	"github.com/Hood-Codivo/restar-africa/utils"

	"github.com/go-playground/validator/v10"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// buildBookingTestApp wires the booking party against a throwaway sqlite DB
// with the real JWT verifier and role middleware.
func buildBookingTestApp(t *testing.T) *iris.Application {
	t.Helper()
	os.Setenv("ACCESS_TOKEN_SECRET", "testsecret")

	dsn := fmt.Sprintf("file:%s?_txlock=immediate&_busy_timeout=5000",
		filepath.Join(t.TempDir(), "routes.db"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := db.AutoMigrate(
		&models.User{}, &models.Property{}, &models.RoomType{},
		&models.Booking{}, &models.Refund{}, &models.OfflineRefund{},
		&models.Review{}, &models.Notification{},
	); err != nil {
		t.Fatal(err)
	}
	storage.DB = db

	app := iris.New()
	app.Validator = validator.New()

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})

	booking := app.Party("/api/booking")
	{
		booking.Post("/", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, CreateBooking)
		booking.Post("/offline", accessTokenVerifierMiddleware, utils.HostOrAdminMiddleware, CreateOfflineBooking)
		booking.Patch("/{id:uint}/status", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, UpdateBookingStatus)
	}

	if err := app.Build(); err != nil {
		t.Fatal(err)
	}
	return app
}

func signBookingTestToken(t *testing.T, id uint, role string) string {
	t.Helper()
	signer := jwt.NewSigner(jwt.HS256, os.Getenv("ACCESS_TOKEN_SECRET"), time.Hour)
	token, err := signer.Sign(utils.AccessToken{ID: id, Role: role})
	if err != nil {
		t.Fatal(err)
	}
	return string(token)
}

func postJSON(app *iris.Application, method, path, token string, payload interface{}) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	return resp
}

func TestBookingEndpoints(t *testing.T) {
	app := buildBookingTestApp(t)

	host := models.User{FirstName: "Hope", LastName: "Host", Email: "host@test.io", Role: "host"}
	guest := models.User{FirstName: "Gina", LastName: "Guest", Email: "guest@test.io", Role: "user"}
	storage.DB.Create(&host)
	storage.DB.Create(&guest)

	property := models.Property{
		HostID: host.ID, Title: "Test Flat",
		PropertyType: models.PropertyTypeApartment, Status: "approved",
	}
	storage.DB.Create(&property)

	checkIn := time.Now().UTC().AddDate(0, 0, 10)
	checkOut := time.Now().UTC().AddDate(0, 0, 12)
	payload := iris.Map{
		"propertyID":  property.ID,
		"checkIn":     checkIn.Format(time.RFC3339),
		"checkOut":    checkOut.Format(time.RFC3339),
		"guests":      2,
		"totalAmount": 200,
	}

	// unauthenticated -> rejected by the verifier
	resp := postJSON(app, http.MethodPost, "/api/booking", "", payload)
	if resp.Code == http.StatusCreated {
		t.Fatalf("expected auth failure without token, got %d", resp.Code)
	}

	// guest books -> 201
	guestToken := signBookingTestToken(t, guest.ID, "user")
	resp = postJSON(app, http.MethodPost, "/api/booking", guestToken, payload)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var created struct {
		Booking models.Booking `json:"booking"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}

	// same dates again -> 409 with the conflicting days listed
	resp = postJSON(app, http.MethodPost, "/api/booking", guestToken, payload)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 for overlapping dates, got %d: %s", resp.Code, resp.Body.String())
	}

	// offline booking needs host or admin role
	offlinePayload := iris.Map{
		"propertyID":  property.ID,
		"checkIn":     checkIn.AddDate(0, 0, 10).Format(time.RFC3339),
		"checkOut":    checkOut.AddDate(0, 0, 10).Format(time.RFC3339),
		"guests":      1,
		"totalAmount": 100,
		"guestName":   "Walk In",
	}
	resp = postJSON(app, http.MethodPost, "/api/booking/offline", guestToken, offlinePayload)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for user role on offline booking, got %d", resp.Code)
	}
	hostToken := signBookingTestToken(t, host.ID, "host")
	resp = postJSON(app, http.MethodPost, "/api/booking/offline", hostToken, offlinePayload)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 for host offline booking, got %d: %s", resp.Code, resp.Body.String())
	}

	// guest cancels their own booking -> 200
	resp = postJSON(app, http.MethodPatch,
		fmt.Sprintf("/api/booking/%d/status", created.Booking.ID), guestToken,
		iris.Map{"bookingStatus": "cancelled", "cancellationReason": "trip cancelled"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for guest cancellation, got %d: %s", resp.Code, resp.Body.String())
	}

	// cancelling again is terminal -> 409
	resp = postJSON(app, http.MethodPatch,
		fmt.Sprintf("/api/booking/%d/status", created.Booking.ID), guestToken,
		iris.Map{"bookingStatus": "confirmed"})
	if resp.Code != http.StatusConflict && resp.Code != http.StatusForbidden {
		t.Fatalf("expected rejection for transition out of cancelled, got %d", resp.Code)
	}
}
