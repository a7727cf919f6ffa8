package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/lachabroderie/shop-api/internal/cart"
	"github.com/lachabroderie/shop-api/internal/service"
	"github.com/shopspring/decimal"
)

// paymentIDKey is the single well-known local-storage key holding the
// provider payment id between checkout and the confirmation page.
const paymentIDKey = "current_payment_id"

var (
	ErrEmptyCart = errors.New("cart is empty")
	// ErrInvalidPaymentResponse mirrors the gateway rule on the client side:
	// a reply without both payment_url and payment_id is never acted on.
	ErrInvalidPaymentResponse = errors.New("invalid payment response")
)

// Form is the checkout shipping form.
type Form struct {
	FirstName      string
	LastName       string
	Email          string
	Address        string
	Postcode       string
	City           string
	ShippingMethod string
}

// Client drives the storefront's own payment API the way the checkout page
// does: cart totals plus form data in, a hosted-payment redirect URL out.
type Client struct {
	log        *slog.Logger
	apiURL     string
	cart       *cart.Store
	kv         KV
	httpClient *http.Client
}

func NewClient(log *slog.Logger, apiURL string, cartStore *cart.Store, kv KV) *Client {
	return &Client{
		log:        log,
		apiURL:     apiURL,
		cart:       cartStore,
		kv:         kv,
		httpClient: &http.Client{},
	}
}

// Totals returns subtotal, shipping cost and grand total for the current
// cart and shipping method.
func (c *Client) Totals(method string) (subtotal, shipping, total decimal.Decimal, err error) {
	subtotal = c.cart.Subtotal()
	shipping, err = service.ShippingQuote(method, subtotal)
	if err != nil {
		return decimal.Zero, decimal.Zero, decimal.Zero, err
	}
	return subtotal, shipping, subtotal.Add(shipping), nil
}

type createPaymentRequest struct {
	Amount   decimal.Decimal `json:"amount"`
	Customer struct {
		Email     string `json:"email"`
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
	} `json:"customer"`
	ShippingAddress struct {
		StreetAddress string `json:"street_address"`
		Postcode      string `json:"postcode"`
		City          string `json:"city"`
		Country       string `json:"country"`
	} `json:"shipping_address"`
}

type createPaymentResponse struct {
	Data  *service.PaymentCreated `json:"data"`
	Error string                  `json:"error"`
}

// SubmitOrder creates the payment for the cart total plus shipping, stashes
// the provider payment id under the well-known key and returns the hosted
// payment URL the browser should navigate to.
func (c *Client) SubmitOrder(ctx context.Context, form *Form) (string, error) {
	const op = "checkout.Client.SubmitOrder"
	logger := c.log.With(slog.String("op", op))

	if len(c.cart.Items()) == 0 {
		return "", ErrEmptyCart
	}

	_, _, total, err := c.Totals(form.ShippingMethod)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	var req createPaymentRequest
	req.Amount = total
	req.Customer.Email = form.Email
	req.Customer.FirstName = form.FirstName
	req.Customer.LastName = form.LastName
	req.ShippingAddress.StreetAddress = form.Address
	req.ShippingAddress.Postcode = form.Postcode
	req.ShippingAddress.City = form.City
	req.ShippingAddress.Country = "FR"

	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("%s: failed to encode request: %w", op, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"/api/payment", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%s: failed to build request: %w", op, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%s: request failed: %w", op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%s: failed to read response: %w", op, err)
	}

	var payload createPaymentResponse
	if err := json.Unmarshal(raw, &payload); err != nil {
		return "", fmt.Errorf("%s: failed to decode response: %w", op, err)
	}

	if resp.StatusCode != http.StatusOK {
		logger.Error("payment creation refused", slog.Int("status", resp.StatusCode), slog.String("error", payload.Error))
		return "", fmt.Errorf("%s: payment creation failed: %s", op, payload.Error)
	}

	if payload.Data == nil || payload.Data.PaymentURL == "" || payload.Data.PaymentID == "" {
		return "", ErrInvalidPaymentResponse
	}

	c.kv.Set(paymentIDKey, payload.Data.PaymentID)
	logger.Info("payment created, redirecting", slog.String("paymentID", payload.Data.PaymentID))

	return payload.Data.PaymentURL, nil
}

// VerifyPayment calls the storefront's own verification endpoint, the way
// the confirmation page does.
func (c *Client) VerifyPayment(ctx context.Context, paymentID string) (*service.VerifyResult, error) {
	const op = "checkout.Client.VerifyPayment"

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.apiURL+"/api/payment/verify?payment_id="+url.QueryEscape(paymentID), nil)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build request: %w", op, err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%s: request failed: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: verification failed with status %d", op, resp.StatusCode)
	}

	var result service.VerifyResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%s: failed to decode response: %w", op, err)
	}
	return &result, nil
}
