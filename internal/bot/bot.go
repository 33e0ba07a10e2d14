// Package bot runs the fulfillment loop: it polls the marketplace for paid
// orders, delivers points through the provider, refunds what cannot be
// delivered and keeps listings in sync with the provider balance.
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mkorchagin/funpay-steampoints/internal/bsp"
	"github.com/mkorchagin/funpay-steampoints/internal/config"
	"github.com/mkorchagin/funpay-steampoints/internal/funpay"
	"github.com/mkorchagin/funpay-steampoints/internal/money"
	"github.com/mkorchagin/funpay-steampoints/internal/store"
	"github.com/mkorchagin/funpay-steampoints/pkg/hashset"
)

// Marketplace is the slice of the FunPay API the bot consumes.
type Marketplace interface {
	NewOrders(ctx context.Context, subcategoryID int) ([]*funpay.Order, error)
	Refund(ctx context.Context, orderID string) error
	SendMessage(ctx context.Context, chatID int64, text string) error
	Lots(ctx context.Context, subcategoryID int) ([]*funpay.Lot, error)
	SetLotActive(ctx context.Context, lotID int64, active bool) error
}

// Delivery is the slice of the points provider the bot consumes.
type Delivery interface {
	CreateOrder(ctx context.Context, points int, steamLink string) (string, error)
	Balance(ctx context.Context) (money.Amount, error)
}

// Journal records order outcomes. Optional; nil disables journaling.
type Journal interface {
	RecordOutcome(ctx context.Context, e store.Entry) error
	SeenOrderIDs(ctx context.Context) ([]string, error)
}

// Bot owns the whole loop state: processed-order set and guard latch included,
// so no state lives at package level.
type Bot struct {
	settings *config.Settings
	market   Marketplace
	delivery Delivery
	journal  Journal
	log      *slog.Logger

	processed hashset.Set[string]
	guard     guardState
}

func New(settings *config.Settings, market Marketplace, delivery Delivery, journal Journal, log *slog.Logger) *Bot {
	return &Bot{
		settings:  settings,
		market:    market,
		delivery:  delivery,
		journal:   journal,
		log:       log.With("component", "bot"),
		processed: hashset.NewSet[string](),
	}
}

// Run executes poll cycles on the configured interval until ctx is cancelled.
// The first cycle runs immediately.
func (b *Bot) Run(ctx context.Context) error {
	if b.journal != nil {
		ids, err := b.journal.SeenOrderIDs(ctx)
		if err != nil {
			return fmt.Errorf("couldn't load journaled orders: %w", err)
		}
		b.processed = hashset.SetFromSlice(ids)
		b.log.Info("seeded processed orders from journal", "count", b.processed.Len())
	}

	ticker := time.NewTicker(b.settings.RequestTimeout)
	defer ticker.Stop()

	b.log.Info("started", "interval", b.settings.RequestTimeout, "category", b.settings.CategoryID)
	b.cycle(ctx)

	for {
		select {
		case <-ctx.Done():
			b.log.Info("stopped", "reason", ctx.Err())
			return ctx.Err()
		case <-ticker.C:
			b.cycle(ctx)
		}
	}
}

// cycle performs one poll: guard first, then order processing. Errors are
// logged and left for the next tick.
func (b *Bot) cycle(ctx context.Context) {
	fulfillAllowed := b.runGuard(ctx)

	orders, err := b.market.NewOrders(ctx, b.settings.CategoryID)
	if err != nil {
		b.log.Error("couldn't fetch orders", "error", err)
		return
	}

	for _, order := range orders {
		if b.processed.Has(order.ID) {
			continue
		}
		if order.SubcategoryID != 0 && order.SubcategoryID != b.settings.CategoryID {
			b.log.Debug("skipping order outside category", "order", order.ID, "subcategory", order.SubcategoryID)
			continue
		}
		b.processOrder(ctx, order, fulfillAllowed)
	}
}

func (b *Bot) processOrder(ctx context.Context, order *funpay.Order, fulfillAllowed bool) {
	log := b.log.With("order", order.ID, "buyer", order.BuyerID)

	points, ok := order.Points()
	if !ok {
		log.Warn("order carries no quantity")
		b.rejectOrder(ctx, order, 0, msgNoQuantity())
		return
	}

	if points < b.settings.MinPoints || points%100 != 0 {
		log.Warn("invalid quantity", "points", points, "min", b.settings.MinPoints)
		b.rejectOrder(ctx, order, points, msgInvalidQuantity(points, b.settings.MinPoints))
		return
	}

	link, ok := order.Param(bsp.ValidProfileLink)
	if !ok {
		log.Warn("order carries no valid steam profile link")
		b.rejectOrder(ctx, order, points, msgNoProfileLink())
		return
	}

	if !fulfillAllowed {
		log.Warn("balance below threshold, leaving order pending", "points", points)
		return
	}

	log.Info("delivering", "points", points, "profile", link)
	providerOrderID, err := b.delivery.CreateOrder(ctx, points, link)
	if err != nil {
		log.Error("delivery failed", "error", err)
		b.deliveryFailed(ctx, order, points, err)
		return
	}

	b.processed.Set(order.ID)
	b.record(ctx, order, points, store.OutcomeDelivered, providerOrderID)
	b.message(ctx, order, msgDelivered(points, link))
	log.Info("delivered", "points", points, "provider_order", providerOrderID)
}

// rejectOrder handles orders that can never be fulfilled as placed. Terminal
// either way: refunded when allowed, handed to the seller otherwise.
func (b *Bot) rejectOrder(ctx context.Context, order *funpay.Order, points int, reason string) {
	b.processed.Set(order.ID)

	if !b.settings.AutoRefund {
		b.record(ctx, order, points, store.OutcomeManual, reason)
		b.message(ctx, order, reason+msgManualRefundSuffix())
		return
	}

	b.message(ctx, order, reason+msgAutoRefundSuffix())
	b.refund(ctx, order, points)
}

// deliveryFailed handles provider errors. With auto-refund the order is
// refunded and closed; without it the order stays pending so the next cycle
// retries delivery.
func (b *Bot) deliveryFailed(ctx context.Context, order *funpay.Order, points int, deliveryErr error) {
	if !b.settings.AutoRefund {
		b.log.Warn("auto refund disabled, order left pending", "order", order.ID)
		return
	}

	b.processed.Set(order.ID)
	b.message(ctx, order, msgDeliveryFailed(deliveryErr)+msgAutoRefundSuffix())
	b.refund(ctx, order, points)
}

func (b *Bot) refund(ctx context.Context, order *funpay.Order, points int) {
	if err := b.market.Refund(ctx, order.ID); err != nil {
		b.log.Error("refund failed", "order", order.ID, "error", err)
		b.record(ctx, order, points, store.OutcomeRefundFailed, err.Error())
		b.message(ctx, order, msgRefundFailed())
		return
	}

	b.log.Warn("order refunded", "order", order.ID)
	b.record(ctx, order, points, store.OutcomeRefunded, "")
	b.message(ctx, order, msgRefunded())
}

func (b *Bot) record(ctx context.Context, order *funpay.Order, points int, outcome, detail string) {
	if b.journal == nil {
		return
	}
	err := b.journal.RecordOutcome(ctx, store.Entry{
		OrderID: order.ID,
		BuyerID: order.BuyerID,
		Points:  points,
		Outcome: outcome,
		Detail:  detail,
	})
	if err != nil {
		b.log.Error("couldn't journal outcome", "order", order.ID, "outcome", outcome, "error", err)
	}
}

func (b *Bot) message(ctx context.Context, order *funpay.Order, text string) {
	if order.ChatID == 0 {
		return
	}
	if err := b.market.SendMessage(ctx, order.ChatID, text); err != nil {
		b.log.Error("couldn't message buyer", "order", order.ID, "chat", order.ChatID, "error", err)
	}
}
