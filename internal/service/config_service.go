package service

import (
	"context"
	"fmt"

	"github.com/fsdevblog/groph-invest/internal/domain"
	"github.com/fsdevblog/groph-invest/internal/repository/repoargs"
	"github.com/fsdevblog/groph-invest/pkg/uow"
	"github.com/shopspring/decimal"
)

type SystemConfigService struct {
	configRepo SystemConfigRepository
}

func NewSystemConfigService(u uow.UOW) (*SystemConfigService, error) {
	configRepo, configRepoErr :=
		uow.GetRepositoryAs[SystemConfigRepository](u, uow.RepositoryName(repoargs.SystemConfigRepoName))
	if configRepoErr != nil {
		return nil, configRepoErr
	}
	return &SystemConfigService{configRepo: configRepo}, nil
}

func (s *SystemConfigService) Get(ctx context.Context) (*domain.SystemConfig, error) {
	conf, err := s.configRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching system config: %w", err)
	}
	return conf, nil
}

// Ensure создает singleton-строку настроек с дефолтами, если ее еще нет.
// Вызывается один раз на старте приложения.
func (s *SystemConfigService) Ensure(ctx context.Context) (*domain.SystemConfig, error) {
	conf, err := s.configRepo.Ensure(ctx)
	if err != nil {
		return nil, fmt.Errorf("ensuring system config: %w", err)
	}
	return conf, nil
}

type UpdateConfigArgs struct {
	WelcomeBonus           *decimal.Decimal
	FirstInvestmentPercent *decimal.Decimal
	DailyIncomePercent     *decimal.Decimal
	DepositAccounts        []domain.DepositAccount
}

// Update правка настроек админом, nil-поля не трогаются. Бонус и проценты
// не могут быть отрицательными.
func (s *SystemConfigService) Update(ctx context.Context, args UpdateConfigArgs) (*domain.SystemConfig, error) {
	for _, v := range []*decimal.Decimal{args.WelcomeBonus, args.FirstInvestmentPercent, args.DailyIncomePercent} {
		if v != nil && v.IsNegative() {
			return nil, domain.ErrInvalidAmount
		}
	}

	conf, err := s.configRepo.Update(ctx, repoargs.UpdateSystemConfig{
		WelcomeBonus:           args.WelcomeBonus,
		FirstInvestmentPercent: args.FirstInvestmentPercent,
		DailyIncomePercent:     args.DailyIncomePercent,
		DepositAccounts:        args.DepositAccounts,
	})
	if err != nil {
		return nil, fmt.Errorf("updating system config: %w", err)
	}
	return conf, nil
}
