package main

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/lachabroderie/shop-api/internal/app/handlers"
	"github.com/lachabroderie/shop-api/internal/cart"
	"github.com/lachabroderie/shop-api/internal/checkout"
	"github.com/lachabroderie/shop-api/internal/clients/mondialrelay"
	"github.com/lachabroderie/shop-api/internal/clients/payplug"
	"github.com/lachabroderie/shop-api/internal/clients/resend"
	"github.com/lachabroderie/shop-api/internal/service"
)

const siteURL = "http://localhost:3000"

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

// payplugStub plays the provider: it records the created payment and serves
// it back as paid on the read side.
type payplugStub struct {
	mu      sync.Mutex
	created map[string]any
}

func (s *payplugStub) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /payments", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, `{"message": "bad payload"}`, http.StatusBadRequest)
			return
		}
		s.mu.Lock()
		s.created = body
		s.mu.Unlock()

		resp := map[string]any{
			"id":      "pay_e2e",
			"is_paid": false,
			"amount":  body["amount"],
			"currency": body["currency"],
			"hosted_payment": map[string]any{
				"payment_url": "https://secure.payplug.com/pay/e2e",
			},
			"billing":  body["billing"],
			"shipping": body["shipping"],
			"metadata": body["metadata"],
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	})
	mux.HandleFunc("GET /payments/{id}", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		created := s.created
		s.mu.Unlock()

		if r.PathValue("id") != "pay_e2e" || created == nil {
			http.Error(w, `{"message": "Unknown payment"}`, http.StatusNotFound)
			return
		}

		resp := map[string]any{
			"id":       "pay_e2e",
			"is_paid":  true,
			"amount":   created["amount"],
			"currency": created["currency"],
			"billing":  created["billing"],
			"shipping": created["shipping"],
			"metadata": created["metadata"],
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	})
	return mux
}

func (s *payplugStub) confirmationToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.created == nil {
		return ""
	}
	metadata, _ := s.created["metadata"].(map[string]any)
	token, _ := metadata["confirmation_token"].(string)
	return token
}

const relaySoapResponse = `<?xml version="1.0" encoding="utf-8"?>
<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/">
  <soap:Body>
    <WSI4_PointRelais_RechercheResponse xmlns="http://www.mondialrelay.fr/webservice/">
      <WSI4_PointRelais_RechercheResult>
        <STAT>0</STAT>
        <PointsRelais>
          <PointRelais_Details>
            <Num>012345</Num>
            <LgAdr1>TABAC DE LA GARE</LgAdr1>
            <LgAdr3>12 RUE DE LA GARE</LgAdr3>
            <CP>75001</CP>
            <Ville>PARIS</Ville>
            <Latitude>48,8600000</Latitude>
            <Longitude>2,3400000</Longitude>
          </PointRelais_Details>
        </PointsRelais>
      </WSI4_PointRelais_RechercheResult>
    </WSI4_PointRelais_RechercheResponse>
  </soap:Body>
</soap:Envelope>`

// newTestAPI wires the real router against stub providers.
func newTestAPI(t *testing.T) (*httptest.Server, *payplugStub) {
	t.Helper()
	log := testLogger()

	stub := &payplugStub{}
	providerSrv := httptest.NewServer(stub.handler())
	t.Cleanup(providerSrv.Close)

	relaySrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/xml;charset=UTF-8")
		_, _ = w.Write([]byte(relaySoapResponse))
	}))
	t.Cleanup(relaySrv.Close)

	payplugClient := payplug.New(log, providerSrv.URL, "sk_test_e2e")
	relayClient := mondialrelay.New(log, relaySrv.URL, "BDTEST13", "PrivateK")
	mailClient := resend.New(log, "https://api.resend.com", "", "La Chabroderie <commandes@lachabroderie.fr>")

	paymentService := service.NewPaymentService(log, payplugClient, siteURL)
	relayService := service.NewRelayService(log, relayClient)
	emailService := service.NewEmailService(log, mailClient)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Post("/api/payment", handlers.CreatePaymentHandler(log, paymentService))
	router.Get("/api/payment", handlers.GetPaymentHandler(log, paymentService))
	router.Get("/api/payment/verify", handlers.VerifyPaymentHandler(log, paymentService))
	router.Post("/api/webhooks/payplug", handlers.PayplugWebhookHandler(log))
	router.Post("/api/mondialrelay", handlers.RelaySearchHandler(log, relayService))
	router.Post("/api/email/order-confirmation", handlers.OrderEmailHandler(log, emailService))

	apiSrv := httptest.NewServer(router)
	t.Cleanup(apiSrv.Close)

	return apiSrv, stub
}

// full happy path: cart, order submission, provider redirect, confirmation.
func TestCheckoutFlow(t *testing.T) {
	apiSrv, stub := newTestAPI(t)

	store := cart.NewStore(testLogger(), cart.NewMemoryStorage())
	store.AddToCart(cart.Item{ID: 1, Name: "Serviette brodée", Price: decimal.RequireFromString("22.50"), Quantity: 2})

	kv := checkout.NewMemoryKV()
	client := checkout.NewClient(testLogger(), apiSrv.URL, store, kv)

	redirect, err := client.SubmitOrder(context.Background(), &checkout.Form{
		FirstName:      "Jean",
		LastName:       "Dupont",
		Email:          "jean.dupont@example.com",
		Address:        "123 rue de la Paix",
		Postcode:       "75001",
		City:           "Paris",
		ShippingMethod: service.ShippingColissimo,
	})
	assert.NoError(t, err)
	assert.Equal(t, "https://secure.payplug.com/pay/e2e", redirect)

	// 45.00 + 4.99 shipping, charged in cents
	assert.Equal(t, float64(4999), stub.created["amount"])

	token := stub.confirmationToken()
	assert.NotEmpty(t, token, "the created payment carries the confirmation token in its metadata")

	confirmation := checkout.NewConfirmation(testLogger(), store, kv, client)
	result := confirmation.Run(context.Background(), url.Values{"success": {"true"}, "token": {token}})

	assert.Equal(t, checkout.StatePaid, result.State)
	assert.Equal(t, "pay_e2e", result.PaymentID)
	assert.Equal(t, "Jean", result.Verification.Customer.FirstName)
	assert.Equal(t, "75001", result.Verification.ShippingAddress.Postcode)
	assert.Empty(t, store.Items(), "the cart is gone after the confirmation page")
}

func TestCheckoutFlow_TamperedToken(t *testing.T) {
	apiSrv, _ := newTestAPI(t)

	store := cart.NewStore(testLogger(), cart.NewMemoryStorage())
	store.AddToCart(cart.Item{ID: 1, Name: "Bavoir personnalisé", Price: decimal.RequireFromString("14.90"), Quantity: 1})

	kv := checkout.NewMemoryKV()
	client := checkout.NewClient(testLogger(), apiSrv.URL, store, kv)

	_, err := client.SubmitOrder(context.Background(), &checkout.Form{
		FirstName:      "Jean",
		LastName:       "Dupont",
		Email:          "jean.dupont@example.com",
		Address:        "123 rue de la Paix",
		Postcode:       "75001",
		City:           "Paris",
		ShippingMethod: service.ShippingRetrait,
	})
	assert.NoError(t, err)

	confirmation := checkout.NewConfirmation(testLogger(), store, kv, client)
	result := confirmation.Run(context.Background(), url.Values{"success": {"true"}, "token": {"forged"}})

	assert.Equal(t, checkout.StateError, result.State)
	assert.Empty(t, store.Items(), "even a failed confirmation consumes the cart")
}

func TestCreatePaymentValidation(t *testing.T) {
	apiSrv, _ := newTestAPI(t)

	resp, err := http.Post(apiSrv.URL+"/api/payment", "application/json",
		bytes.NewBufferString(`{"amount": 49.99}`))
	assert.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestVerifyUnknownPayment(t *testing.T) {
	apiSrv, _ := newTestAPI(t)

	resp, err := http.Get(apiSrv.URL + "/api/payment/verify?payment_id=pay_missing")
	assert.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode, "the provider's 404 passes through")
}

func TestWebhookAcknowledgement(t *testing.T) {
	apiSrv, _ := newTestAPI(t)

	resp, err := http.Post(apiSrv.URL+"/api/webhooks/payplug", "application/json",
		bytes.NewBufferString(`{"id": "pay_e2e", "is_paid": true}`))
	assert.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var ack struct {
		Received bool `json:"received"`
	}
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&ack))
	assert.True(t, ack.Received)
}

func TestRelaySearch(t *testing.T) {
	apiSrv, _ := newTestAPI(t)

	resp, err := http.Post(apiSrv.URL+"/api/mondialrelay", "application/json",
		bytes.NewBufferString(`{"codePostal": "75001"}`))
	assert.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body handlers.RelaySearchResponse
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Len(t, body.Points, 1)
	assert.Equal(t, "TABAC DE LA GARE", body.Points[0].Nom)
	assert.Equal(t, "0", body.Debug.Statut)
}

func TestOrderConfirmationEmail(t *testing.T) {
	apiSrv, _ := newTestAPI(t)

	reqBody := `{
		"orderNumber": "pay_e2e",
		"customerName": "Jean Dupont",
		"customerEmail": "jean.dupont@example.com",
		"items": [{"name": "Serviette brodée", "quantity": 2, "price": 22.50}],
		"total": 49.99,
		"shippingAddress": {"street": "123 rue de la Paix", "city": "Paris", "postcode": "75001"}
	}`
	resp, err := http.Post(apiSrv.URL+"/api/email/order-confirmation", "application/json",
		bytes.NewBufferString(reqBody))
	assert.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Success bool `json:"success"`
	}
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Success)
}
