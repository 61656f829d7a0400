package jobs

import (
	"context"
	"fmt"

	"kabadi-client/internal/domain"
	"kabadi-client/internal/logger"
	"kabadi-client/internal/service"
)

// RefreshKCoins reloads the collector's loyalty status and reports coins
// earned, a newly reached redemption threshold and an expired priority boost
func (jr *JobRunner) RefreshKCoins() {
	jr.runWithRecovery("RefreshKCoins", func(ctx context.Context) {
		if _, err := jr.refreshKCoins(ctx); err != nil {
			logger.Error("Failed to refresh K-Coins", "error", err)
		}
	})
}

func (jr *JobRunner) refreshKCoins(ctx context.Context) (*domain.KCoinsStatus, error) {
	u, ok := jr.session.Current()
	if !ok || u.UserType != domain.UserTypeKabadi {
		logger.Debug("Skipping K-Coins refresh, no collector session")
		return nil, nil
	}

	status, err := jr.services.KCoins.GetStatus(ctx)
	if err != nil {
		return nil, err
	}

	jr.mu.Lock()
	prev := jr.kcoins
	if jr.kcoinsOwner != u.UserID {
		prev = nil
	}
	jr.kcoins = status
	jr.kcoinsOwner = u.UserID
	jr.mu.Unlock()

	logger.Info("K-Coins refreshed", "balance", status.Balance, "priorityActive", status.PriorityActive)
	if prev == nil {
		return status, nil
	}
	if earned := status.Balance - prev.Balance; earned > 0 {
		jr.notifier.Notify(service.NotifyInfo, fmt.Sprintf("You earned %d K-Coins. Balance: %d", earned, status.Balance))
	}
	if status.RedemptionEligible && !prev.RedemptionEligible {
		jr.notifier.Notify(service.NotifySuccess, fmt.Sprintf("You can now redeem %d K-Coins for priority visibility", service.KCoinsRedeemCost))
	}
	if prev.PriorityActive && !status.PriorityActive {
		jr.notifier.Notify(service.NotifyWarning, "Your priority visibility has ended")
	}
	return status, nil
}
