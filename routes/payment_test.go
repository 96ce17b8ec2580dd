package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"property-management-server/models"

	"github.com/kataras/iris/v12"
)

func paymentApp(t *testing.T) *iris.Application {
	return buildApp(t, func(app *iris.Application) {
		payments := app.Party("/api/payments")
		payments.Get("/", GetPayments)
		payments.Post("/", CreatePayment)
		payments.Post("/intent", ProcessCardPayment)
	})
}

// fakeStripe stands in for the payment intents API. Create returns the
// configured status; confirm always succeeds.
func fakeStripe(t *testing.T, createStatus string, confirmFails bool) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/payment_intents", func(w http.ResponseWriter, r *http.Request) {
		if auth := r.Header.Get("Authorization"); !strings.HasPrefix(auth, "Bearer ") {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":            "pi_test_1",
			"status":        createStatus,
			"client_secret": "pi_test_1_secret",
		})
	})
	mux.HandleFunc("/v1/payment_intents/pi_test_1/confirm", func(w http.ResponseWriter, r *http.Request) {
		if confirmFails {
			w.WriteHeader(http.StatusPaymentRequired)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"error": map[string]string{"type": "card_error", "message": "Your card was declined."},
			})
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":            "pi_test_1",
			"status":        "succeeded",
			"client_secret": "pi_test_1_secret",
		})
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	os.Setenv("STRIPE_SECRET_KEY", "sk_test_dummy")
	os.Setenv("STRIPE_API_URL", server.URL)
	t.Cleanup(func() { os.Unsetenv("STRIPE_API_URL") })

	return server
}

func TestProcessCardPaymentSucceeds(t *testing.T) {
	db := setupTestDB(t)
	fakeStripe(t, "requires_confirmation", false)
	app := paymentApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/payments/intent", map[string]interface{}{
		"tenantID":        1,
		"amount":          1200.50,
		"paymentMethodID": "pm_card_visa",
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var out struct {
		Payment      models.Payment `json:"payment"`
		IntentStatus string         `json:"intentStatus"`
	}
	decodeBody(t, resp, &out)
	if out.IntentStatus != "succeeded" {
		t.Errorf("expected succeeded intent, got %q", out.IntentStatus)
	}

	var stored models.Payment
	db.First(&stored, out.Payment.ID)
	if stored.Status != "completed" {
		t.Errorf("expected completed payment, got %q", stored.Status)
	}
	if stored.StripePaymentIntentID != "pi_test_1" {
		t.Errorf("expected intent id recorded, got %q", stored.StripePaymentIntentID)
	}
	if stored.PaidDate == nil {
		t.Error("expected paid date set")
	}
}

func TestProcessCardPaymentDeclineLeavesPendingRow(t *testing.T) {
	db := setupTestDB(t)
	fakeStripe(t, "requires_confirmation", true)
	app := paymentApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/payments/intent", map[string]interface{}{
		"tenantID":        1,
		"amount":          800,
		"paymentMethodID": "pm_card_declined",
	})
	if resp.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d: %s", resp.Code, resp.Body.String())
	}

	// The pending row keeps the intent id so the reconciliation sweep can
	// settle it either way later.
	var stored models.Payment
	db.Order("id DESC").First(&stored)
	if stored.Status != "pending" {
		t.Errorf("expected row left pending, got %q", stored.Status)
	}
	if stored.StripePaymentIntentID != "pi_test_1" {
		t.Errorf("expected intent id recorded, got %q", stored.StripePaymentIntentID)
	}
}

func TestCreateManualPaymentAndList(t *testing.T) {
	setupTestDB(t)
	app := paymentApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/payments", map[string]interface{}{
		"tenantID":      7,
		"amount":        950,
		"status":        "completed",
		"paymentMethod": "check",
		"dueDate":       "2026-09-01T00:00:00Z",
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}

	resp = doJSON(t, app, http.MethodGet, "/api/payments?tenantID=7&status=completed", nil)
	var listing struct {
		Data []models.Payment `json:"data"`
	}
	decodeBody(t, resp, &listing)
	if len(listing.Data) != 1 {
		t.Fatalf("expected 1 payment, got %d", len(listing.Data))
	}
	if listing.Data[0].Amount != 950 {
		t.Errorf("expected amount 950, got %v", listing.Data[0].Amount)
	}
}
