package services

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Stripe configuration via environment variables
// STRIPE_SECRET_KEY (required), STRIPE_API_URL (test override)

var stripeClient = &http.Client{Timeout: 15 * time.Second}

// PaymentIntent is the subset of Stripe's payment intent object the server
// cares about.
type PaymentIntent struct {
	ID           string `json:"id"`
	Status       string `json:"status"` // requires_confirmation, succeeded, canceled, ...
	ClientSecret string `json:"client_secret"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
}

type stripeError struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func stripeAPIURL() string {
	if u := os.Getenv("STRIPE_API_URL"); u != "" {
		return u
	}
	return "https://api.stripe.com"
}

func stripeRequest(method, path string, form url.Values) (*PaymentIntent, error) {
	secretKey := os.Getenv("STRIPE_SECRET_KEY")
	if secretKey == "" {
		return nil, fmt.Errorf("STRIPE_SECRET_KEY is not configured")
	}

	var reqBody io.Reader
	if form != nil {
		reqBody = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequest(method, stripeAPIURL()+path, reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+secretKey)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	res, err := stripeClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	if res.StatusCode != http.StatusOK {
		var sErr stripeError
		if err := json.Unmarshal(body, &sErr); err == nil && sErr.Error.Message != "" {
			return nil, fmt.Errorf("stripe: %s", sErr.Error.Message)
		}
		return nil, fmt.Errorf("stripe: request failed with status %d", res.StatusCode)
	}

	var intent PaymentIntent
	if err := json.Unmarshal(body, &intent); err != nil {
		return nil, err
	}
	return &intent, nil
}

// CreatePaymentIntent creates a payment intent for the given amount (in the
// smallest currency unit) against a tokenized payment method.
func CreatePaymentIntent(amount int64, currency, paymentMethodID string, metadata map[string]string) (*PaymentIntent, error) {
	form := url.Values{}
	form.Add("amount", strconv.FormatInt(amount, 10))
	form.Add("currency", currency)
	form.Add("payment_method", paymentMethodID)
	for k, v := range metadata {
		form.Add("metadata["+k+"]", v)
	}

	return stripeRequest("POST", "/v1/payment_intents", form)
}

// ConfirmPaymentIntent confirms a previously created intent.
func ConfirmPaymentIntent(intentID string) (*PaymentIntent, error) {
	return stripeRequest("POST", "/v1/payment_intents/"+intentID+"/confirm", url.Values{})
}

// GetPaymentIntent fetches the current state of an intent. Used by the
// reconciliation sweep to settle rows whose confirmation response was lost.
func GetPaymentIntent(intentID string) (*PaymentIntent, error) {
	return stripeRequest("GET", "/v1/payment_intents/"+intentID, nil)
}
