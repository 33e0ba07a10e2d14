package bot

import "context"

// guardState is the active/deactivated latch. deactivated holds exactly the
// lot ids this process turned off, so reactivation never touches lots the
// seller disabled by hand. latched means the last deactivation pass brought
// every lot down; until then low-balance cycles keep retrying.
type guardState struct {
	latched     bool
	deactivated []int64
}

// runGuard checks the provider balance against the configured floor and
// drives the lot latch. It reports whether fulfillment may proceed this cycle.
func (b *Bot) runGuard(ctx context.Context) bool {
	balance, err := b.delivery.Balance(ctx)
	if err != nil {
		// Unknown balance keeps the latch as-is and does not gate delivery.
		b.log.Warn("couldn't determine provider balance", "error", err)
		return true
	}

	low := balance < b.settings.BSPMinBalance
	b.log.Info("provider balance", "balance", balance.String(), "threshold", b.settings.BSPMinBalance.String(), "low", low)

	switch {
	case low:
		if !b.settings.AutoDeactivate {
			b.log.Warn("balance below threshold, auto deactivate disabled")
			break
		}
		if !b.guard.latched {
			b.deactivateLots(ctx)
		}
	case b.guard.latched || len(b.guard.deactivated) > 0:
		b.reactivateLots(ctx)
	}

	return !low
}

func (b *Bot) deactivateLots(ctx context.Context) {
	lots, err := b.market.Lots(ctx, b.settings.DeactivateCategoryID)
	if err != nil {
		// Latch stays open so the next cycle tries again.
		b.log.Error("couldn't list lots for deactivation", "subcategory", b.settings.DeactivateCategoryID, "error", err)
		return
	}

	failed := 0
	for _, lot := range lots {
		if !lot.Active {
			continue
		}
		if err := b.market.SetLotActive(ctx, lot.ID, false); err != nil {
			b.log.Error("couldn't deactivate lot", "lot", lot.ID, "error", err)
			failed++
			continue
		}
		b.guard.deactivated = append(b.guard.deactivated, lot.ID)
	}

	// Latch only once every lot went down; a failed lot is retried next cycle.
	b.guard.latched = failed == 0
	b.log.Warn("deactivated lots on low balance", "subcategory", b.settings.DeactivateCategoryID, "count", len(b.guard.deactivated), "failed", failed)
}

func (b *Bot) reactivateLots(ctx context.Context) {
	remaining := b.guard.deactivated[:0]
	reactivated := 0
	for _, lotID := range b.guard.deactivated {
		if err := b.market.SetLotActive(ctx, lotID, true); err != nil {
			b.log.Error("couldn't reactivate lot", "lot", lotID, "error", err)
			remaining = append(remaining, lotID)
			continue
		}
		reactivated++
	}

	// Lots still in remaining are retried on following cycles; the latch is
	// cleared so a fresh balance drop re-runs a full deactivation pass.
	b.guard.deactivated = remaining
	b.guard.latched = false
	b.log.Info("reactivated lots on recovered balance", "count", reactivated, "pending", len(remaining))
}
