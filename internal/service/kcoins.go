package service

import (
	"context"
	"strings"

	"kabadi-client/internal/domain"
	"kabadi-client/internal/logger"
	"kabadi-client/internal/repository"
)

// KCoinsRedeemCost is the balance needed for one redemption
const KCoinsRedeemCost = 30

type kcoinsService struct {
	kabadiRepo repository.KabadiRepository
	session    *Session
}

func NewKCoinsService(kabadiRepo repository.KabadiRepository, session *Session) KCoinsService {
	return &kcoinsService{kabadiRepo: kabadiRepo, session: session}
}

func (s *kcoinsService) GetStatus(ctx context.Context) (*domain.KCoinsStatus, error) {
	if _, err := s.session.Require(domain.UserTypeKabadi); err != nil {
		return nil, err
	}
	return s.kabadiRepo.GetKCoins(ctx)
}

// Redeem exchanges coins for priority visibility. It is refused before the
// call when the balance is short or a redemption is still active.
func (s *kcoinsService) Redeem(ctx context.Context, commodity string) (*domain.RedeemResult, error) {
	logger.EnterMethod("kcoinsService.Redeem", "commodity", commodity)

	if _, err := s.session.Require(domain.UserTypeKabadi); err != nil {
		return nil, err
	}
	if strings.TrimSpace(commodity) == "" {
		return nil, ErrCommodityRequired
	}

	status, err := s.kabadiRepo.GetKCoins(ctx)
	if err != nil {
		logger.ExitMethodWithError("kcoinsService.Redeem", err)
		return nil, err
	}
	if status.ActiveRedemption != nil {
		logger.ExitMethodWithError("kcoinsService.Redeem", ErrActiveRedemption)
		return nil, ErrActiveRedemption
	}
	if !status.RedemptionEligible || status.Balance < KCoinsRedeemCost {
		logger.ExitMethodWithError("kcoinsService.Redeem", ErrRedemptionNotEligible, "balance", status.Balance)
		return nil, ErrRedemptionNotEligible
	}

	res, err := s.kabadiRepo.RedeemKCoins(ctx, commodity)
	if err != nil {
		logger.ExitMethodWithError("kcoinsService.Redeem", err)
		return nil, err
	}
	logger.ExitMethod("kcoinsService.Redeem", "priorityActive", res.PriorityActive)
	return res, nil
}
