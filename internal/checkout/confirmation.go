package checkout

import (
	"context"
	"log/slog"
	"net/url"

	"github.com/lachabroderie/shop-api/internal/cart"
	"github.com/lachabroderie/shop-api/internal/service"
)

// State of the confirmation page after one pass of the controller.
type State string

const (
	// StatePaid - the payment is settled and the token matched; the payment
	// id doubles as the user-visible order reference.
	StatePaid State = "paid"
	// StateError - verification failed, the payment is still pending, or the
	// confirmation token did not match.
	StateError State = "error"
	// StateRedirectedAway - the entry guard failed; the visitor never went
	// through checkout and is sent back to the home page.
	StateRedirectedAway State = "redirected-away"
)

// Result is the terminal outcome of a confirmation page load.
type Result struct {
	State        State
	PaymentID    string
	Verification *service.VerifyResult
}

// Verifier is the slice of the checkout client the controller needs.
type Verifier interface {
	VerifyPayment(ctx context.Context, paymentID string) (*service.VerifyResult, error)
}

// Confirmation drives the post-redirect confirmation flow. Reaching this
// page means "checkout attempted": the cart and the stashed payment id are
// cleared before verification, so a verification failure still leaves the
// shopper with an empty cart.
type Confirmation struct {
	log      *slog.Logger
	cart     *cart.Store
	kv       KV
	verifier Verifier
}

func NewConfirmation(log *slog.Logger, cartStore *cart.Store, kv KV, verifier Verifier) *Confirmation {
	return &Confirmation{
		log:      log,
		cart:     cartStore,
		kv:       kv,
		verifier: verifier,
	}
}

// Run processes one confirmation page load. Verification is attempted
// exactly once; there is no retry or polling.
func (c *Confirmation) Run(ctx context.Context, query url.Values) Result {
	const op = "checkout.Confirmation.Run"
	logger := c.log.With(slog.String("op", op))

	if query.Get("success") == "" {
		logger.Info("missing success parameter, redirecting away")
		return Result{State: StateRedirectedAway}
	}

	paymentID, ok := c.kv.Get(paymentIDKey)
	if !ok || paymentID == "" {
		logger.Info("no stashed payment id, redirecting away")
		return Result{State: StateRedirectedAway}
	}

	// consume the handles before verification; this ordering is deliberate
	c.cart.ClearCart()
	c.kv.Delete(paymentIDKey)

	verification, err := c.verifier.VerifyPayment(ctx, paymentID)
	if err != nil {
		logger.Error("verification failed", slog.Any("error", err))
		return Result{State: StateError, PaymentID: paymentID}
	}

	if verification.Status != "paid" {
		logger.Warn("payment not settled", slog.String("status", verification.Status))
		return Result{State: StateError, PaymentID: paymentID, Verification: verification}
	}

	// the token that rode the redirect URL must match the one stored in the
	// payment's metadata, otherwise the confirmation can be replayed
	token := query.Get("token")
	if token == "" || token != verification.ConfirmationToken {
		logger.Warn("confirmation token mismatch")
		return Result{State: StateError, PaymentID: paymentID, Verification: verification}
	}

	logger.Info("order confirmed", slog.String("paymentID", paymentID))
	return Result{State: StatePaid, PaymentID: paymentID, Verification: verification}
}
