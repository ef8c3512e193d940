package service

import (
	"context"
	"fmt"
	"time"

	"github.com/fsdevblog/groph-invest/internal/domain"
	"github.com/fsdevblog/groph-invest/internal/metrics"
	"github.com/fsdevblog/groph-invest/internal/repository/repoargs"
	"github.com/fsdevblog/groph-invest/pkg/uow"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type PlanService struct {
	uow        uow.UOW
	planRepo   PlanRepository
	configRepo SystemConfigRepository
	affiliate  *AffiliateService
	l          *logrus.Entry
}

func NewPlanService(u uow.UOW, affiliate *AffiliateService, l *logrus.Logger) (*PlanService, error) {
	planRepo, planRepoErr := uow.GetRepositoryAs[PlanRepository](u, uow.RepositoryName(repoargs.PlanRepoName))
	if planRepoErr != nil {
		return nil, planRepoErr
	}
	configRepo, configRepoErr :=
		uow.GetRepositoryAs[SystemConfigRepository](u, uow.RepositoryName(repoargs.SystemConfigRepoName))
	if configRepoErr != nil {
		return nil, configRepoErr
	}
	return &PlanService{
		uow:        u,
		planRepo:   planRepo,
		configRepo: configRepo,
		affiliate:  affiliate,
		l:          l.WithField("component", "plan_service"),
	}, nil
}

// List возвращает каталог планов по возрастанию цены. onlyActive - витрина для юзера.
func (p *PlanService) List(ctx context.Context, onlyActive bool) ([]domain.Plan, error) {
	plans, err := p.planRepo.GetAll(ctx, onlyActive)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return plans, nil
}

// Acquire покупка либо апгрейд плана. Алгоритм работы:
//  1. Читает юзера с блокировкой строки: конкурентные покупки одного счета сериализуются.
//     Деактивированный план купить нельзя - domain.ErrRecordNotFound.
//  2. Без текущего плана платится полная цена. С текущим планом: тот же план -
//     domain.ErrAlreadyOwned, более дешевый - domain.ErrDowngradeDenied, более дорогой -
//     платится разница цен.
//  3. Атомарно списывает amountToPay (domain.ErrNotEnoughBalance при нехватке),
//     назначает план и выставляет has_invested.
//  4. После коммита, если это была первая инвестиция юзера, best-effort начисляет
//     комиссию пригласившему от amountToPay по first_investment_percent.
//
// Возвращает юзера с обновленным балансом и планом.
func (p *PlanService) Acquire(ctx context.Context, userID, planID int64) (*domain.User, error) {
	var updated *domain.User
	var source *domain.User
	var amountToPay decimal.Decimal
	var isFirstTime bool

	txErr := p.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		userRepo, userRepoErr := uow.GetAs[UserRepository](tx, uow.RepositoryName(repoargs.UserRepoName))
		if userRepoErr != nil {
			return userRepoErr //nolint:wrapcheck
		}
		planRepo, planRepoErr := uow.GetAs[PlanRepository](tx, uow.RepositoryName(repoargs.PlanRepoName))
		if planRepoErr != nil {
			return planRepoErr //nolint:wrapcheck
		}

		user, userErr := userRepo.FindByIDForUpdate(c, userID)
		if userErr != nil {
			return userErr //nolint:wrapcheck
		}
		if !user.IsActive {
			return domain.ErrAccountInactive
		}

		plan, planErr := planRepo.FindByID(c, planID)
		if planErr != nil {
			return planErr //nolint:wrapcheck
		}
		// деактивированный план снят с витрины, но его id мог остаться у клиента.
		if !plan.IsActive {
			return domain.ErrRecordNotFound
		}

		amountToPay = plan.Price
		if user.PlanID != nil {
			if *user.PlanID == plan.ID {
				return domain.ErrAlreadyOwned
			}
			current, currentErr := planRepo.FindByID(c, *user.PlanID)
			if currentErr != nil {
				return currentErr //nolint:wrapcheck
			}
			if plan.Price.LessThanOrEqual(current.Price) {
				return domain.ErrDowngradeDenied
			}
			amountToPay = plan.Price.Sub(current.Price)
		}

		// фиксируем флаг ДО мутации: комиссия платится только за первую инвестицию.
		isFirstTime = !user.HasInvested
		source = user

		if _, debitErr := userRepo.Debit(c, user.ID, amountToPay); debitErr != nil {
			return debitErr //nolint:wrapcheck
		}

		var setErr error
		updated, setErr = userRepo.SetPlan(c, repoargs.SetUserPlan{
			UserID:    user.ID,
			PlanID:    plan.ID,
			StartDate: time.Now().UTC(),
		})
		return setErr //nolint:wrapcheck
	})

	if txErr != nil {
		return nil, fmt.Errorf("acquiring plan %d: %w", planID, txErr)
	}

	if isFirstTime {
		p.settleFirstInvestment(ctx, source, amountToPay)
	}

	metrics.IncPlanAcquisition()
	return updated, nil
}

// settleFirstInvestment best-effort: покупка уже закоммичена, сбой начисления комиссии
// только логируется (см. запись в журнале транзакций для сверки).
func (p *PlanService) settleFirstInvestment(ctx context.Context, source *domain.User, amount decimal.Decimal) {
	conf, confErr := p.configRepo.Get(ctx)
	if confErr != nil {
		p.l.WithError(confErr).Warn("first investment commission skipped: config unavailable")
		return
	}

	_, settleErr := p.affiliate.Settle(ctx, SettleArgs{
		Source:  source,
		Amount:  amount,
		Percent: conf.FirstInvestmentPercent,
	})
	if settleErr != nil {
		p.l.WithError(settleErr).WithField("userID", source.ID).
			Warn("first investment commission failed")
	}
}

func (p *PlanService) FindByID(ctx context.Context, id int64) (*domain.Plan, error) {
	plan, err := p.planRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return plan, nil
}

func (p *PlanService) Create(ctx context.Context, args repoargs.CreatePlan) (*domain.Plan, error) {
	plan, err := p.planRepo.Create(ctx, args)
	if err != nil {
		return nil, fmt.Errorf("creating plan: %w", err)
	}
	return plan, nil
}

func (p *PlanService) Update(ctx context.Context, id int64, args repoargs.UpdatePlan) (*domain.Plan, error) {
	plan, err := p.planRepo.Update(ctx, id, args)
	if err != nil {
		return nil, fmt.Errorf("updating plan: %w", err)
	}
	return plan, nil
}

func (p *PlanService) Delete(ctx context.Context, id int64) error {
	if err := p.planRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting plan: %w", err)
	}
	return nil
}
