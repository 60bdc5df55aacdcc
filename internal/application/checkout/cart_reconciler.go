package checkout

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/checkout"
	"github.com/storefront/backend/internal/domain/shared"
)

// mergeKeyTTL bounds how long a replayed cart line is remembered for
// merge-retry deduplication
const mergeKeyTTL = 24 * time.Hour

// CartReconciler decides what happens to a guest cart when its owner
// authenticates mid-checkout, and carries out the chosen merge or discard
// against the user's server-side cart.
type CartReconciler struct {
	carts       checkout.CartGateway
	addressBook checkout.AddressBookGateway
	idempotency shared.IdempotencyStore
	logger      *zap.Logger
	tracer      trace.Tracer
}

// NewCartReconciler creates a reconciler
func NewCartReconciler(carts checkout.CartGateway, addressBook checkout.AddressBookGateway, idempotency shared.IdempotencyStore, logger *zap.Logger) *CartReconciler {
	return &CartReconciler{
		carts:       carts,
		addressBook: addressBook,
		idempotency: idempotency,
		logger:      logger,
		tracer:      otel.Tracer("checkout"),
	}
}

// HandleLogin reacts to a successful mid-checkout login. An empty guest cart
// skips reconciliation entirely: the session adopts the profile and stays in
// the info step. A non-empty guest cart produces an explicit merge decision;
// no cart is mutated until the user chooses.
func (r *CartReconciler) HandleLogin(ctx context.Context, session *checkout.CheckoutSession, token string, profile checkout.UserProfile) error {
	if len(session.GuestLines) == 0 {
		session.AdoptProfile(profile, token)
		r.prefillFromAddressBook(ctx, session, token, profile)
		return nil
	}

	ctx, span := r.tracer.Start(ctx, "cart.fetch")
	defer span.End()

	userLines, err := r.carts.GetCart(ctx, token)
	if err != nil {
		r.logger.Warn("User cart fetch failed on login",
			zap.String("session_id", session.ID.String()),
			zap.Error(err))
		return shared.NewDomainError("CART_FETCH_FAILED", "Could not load your saved cart")
	}

	return session.BeginCartMerge(checkout.CartMergeDecision{
		UserCartCount:  len(userLines),
		GuestCartCount: len(session.GuestLines),
		AuthToken:      token,
		Profile:        profile,
	})
}

// Merge replays every guest cart line into the user's server-side cart and
// clears the guest cart once all replays succeeded. Replay is strictly
// sequential: concurrent adds risk backend quantity races when the same
// variant exists in both carts. A failed replay aborts the remainder and
// preserves the unreplayed guest lines; retrying skips lines already
// replayed via the idempotency store.
func (r *CartReconciler) Merge(ctx context.Context, session *checkout.CheckoutSession) error {
	if session.MergeDecision == nil {
		return checkout.ErrMergeNotPending
	}

	ctx, span := r.tracer.Start(ctx, "cart.merge")
	defer span.End()

	token := session.AuthToken
	for _, line := range session.GuestLines {
		key := mergeKey(session, line)

		replayed, err := r.idempotency.IsProcessed(ctx, key)
		if err != nil {
			r.logger.Warn("Idempotency check failed, replaying anyway",
				zap.String("key", key), zap.Error(err))
		}
		if replayed {
			continue
		}

		if err := r.carts.AddToCart(ctx, token, line.EffectiveVariantID(), line.Quantity); err != nil {
			r.logger.Error("Cart merge replay failed",
				zap.String("session_id", session.ID.String()),
				zap.String("line_id", line.ID),
				zap.Error(err))
			return shared.NewDomainError("MERGE_FAILED",
				fmt.Sprintf("Could not move %q into your cart, no items were lost", line.ProductName))
		}

		if _, err := r.idempotency.MarkProcessed(ctx, key, mergeKeyTTL); err != nil {
			r.logger.Warn("Failed to record replayed cart line",
				zap.String("key", key), zap.Error(err))
		}
	}

	r.logger.Info("Guest cart merged",
		zap.String("session_id", session.ID.String()),
		zap.Int("lines", len(session.GuestLines)))

	return session.CompleteCartMerge(checkout.StepInfo)
}

// Discard clears the guest cart without replay and keeps the user's server
// cart as-is
func (r *CartReconciler) Discard(ctx context.Context, session *checkout.CheckoutSession) error {
	if session.MergeDecision == nil {
		return checkout.ErrMergeNotPending
	}

	r.logger.Info("Guest cart discarded",
		zap.String("session_id", session.ID.String()),
		zap.Int("lines", len(session.GuestLines)))

	return session.CompleteCartMerge(checkout.StepInfo)
}

// prefillFromAddressBook fills still-empty checkout fields from the user's
// default saved address. Best effort: a failing address book never blocks
// login.
func (r *CartReconciler) prefillFromAddressBook(ctx context.Context, session *checkout.CheckoutSession, token string, profile checkout.UserProfile) {
	if r.addressBook == nil || profile.HasAddress() || session.Customer.Address1 != "" {
		return
	}

	saved, err := r.addressBook.ListAddresses(ctx, token)
	if err != nil {
		r.logger.Warn("Address book lookup failed", zap.Error(err))
		return
	}
	if len(saved) == 0 {
		return
	}

	pick := saved[0]
	for _, addr := range saved {
		if addr.Default {
			pick = addr
			break
		}
	}

	addr := pick.Address.Normalized()
	addr.Name = session.Customer.Name
	addr.Email = session.Customer.Email
	addr.Phone = session.Customer.Phone
	if pick.Address.Phone != "" {
		addr.Phone = pick.Address.Phone
	}
	session.SetCustomer(addr)
}

func mergeKey(session *checkout.CheckoutSession, line checkout.CartLine) string {
	return "checkout:merge:" + session.ID.String() + ":" + line.ID
}
