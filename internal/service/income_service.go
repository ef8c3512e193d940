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

type IncomeService struct {
	uow        uow.UOW
	configRepo SystemConfigRepository
	affiliate  *AffiliateService
	l          *logrus.Entry
}

func NewIncomeService(u uow.UOW, affiliate *AffiliateService, l *logrus.Logger) (*IncomeService, error) {
	configRepo, configRepoErr :=
		uow.GetRepositoryAs[SystemConfigRepository](u, uow.RepositoryName(repoargs.SystemConfigRepoName))
	if configRepoErr != nil {
		return nil, configRepoErr
	}
	return &IncomeService{
		uow:        u,
		configRepo: configRepo,
		affiliate:  affiliate,
		l:          l.WithField("component", "income_service"),
	}, nil
}

// Collect сбор дневного дохода по плану, не чаще раза в календарные сутки. Гейт считается
// по календарному дню UTC, не по прошедшим 24 часам: сборы в 23:30 и 00:30 по UTC
// оба пройдут, два сбора в одни UTC-сутки - нет. Алгоритм работы:
//  1. Читает юзера с блокировкой строки. Без назначенного плана - domain.ErrNoActivePlan,
//     повторный сбор в те же UTC-сутки - domain.ErrAlreadyCollected.
//  2. Атомарно кредитует plan.daily_income, двигает last_daily_collection и пишет
//     approved-запись типа daily в журнал.
//  3. После коммита best-effort начисляет комиссию пригласившему от суммы дохода
//     по daily_income_percent.
//
// Возвращает новый баланс.
func (i *IncomeService) Collect(ctx context.Context, userID int64) (decimal.Decimal, error) {
	now := time.Now().UTC()

	var newBalance decimal.Decimal
	var source *domain.User
	var income decimal.Decimal

	txErr := i.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		userRepo, userRepoErr := uow.GetAs[UserRepository](tx, uow.RepositoryName(repoargs.UserRepoName))
		if userRepoErr != nil {
			return userRepoErr //nolint:wrapcheck
		}
		planRepo, planRepoErr := uow.GetAs[PlanRepository](tx, uow.RepositoryName(repoargs.PlanRepoName))
		if planRepoErr != nil {
			return planRepoErr //nolint:wrapcheck
		}
		transactionRepo, transactionRepoErr :=
			uow.GetAs[TransactionRepository](tx, uow.RepositoryName(repoargs.TransactionRepoName))
		if transactionRepoErr != nil {
			return transactionRepoErr //nolint:wrapcheck
		}

		user, userErr := userRepo.FindByIDForUpdate(c, userID)
		if userErr != nil {
			return userErr //nolint:wrapcheck
		}
		if !user.IsActive {
			return domain.ErrAccountInactive
		}
		if user.PlanID == nil {
			return domain.ErrNoActivePlan
		}
		if user.LastDailyCollection != nil && sameUTCDay(*user.LastDailyCollection, now) {
			return domain.ErrAlreadyCollected
		}

		plan, planErr := planRepo.FindByID(c, *user.PlanID)
		if planErr != nil {
			return planErr //nolint:wrapcheck
		}

		updated, creditErr := userRepo.Credit(c, user.ID, plan.DailyIncome)
		if creditErr != nil {
			return creditErr //nolint:wrapcheck
		}
		if setErr := userRepo.SetLastDailyCollection(c, user.ID, now); setErr != nil {
			return setErr //nolint:wrapcheck
		}
		if _, logErr := transactionRepo.Create(c, repoargs.NewDaily(user.ID, plan.DailyIncome)); logErr != nil {
			return logErr //nolint:wrapcheck
		}

		newBalance = updated.Balance
		source = user
		income = plan.DailyIncome
		return nil
	})

	if txErr != nil {
		return decimal.Zero, fmt.Errorf("collecting daily income: %w", txErr)
	}

	i.settleDailyCommission(ctx, source, income)

	metrics.IncDailyCollection()
	return newBalance, nil
}

// settleDailyCommission best-effort: сбор дохода уже закоммичен, сбой начисления
// комиссии только логируется.
func (i *IncomeService) settleDailyCommission(ctx context.Context, source *domain.User, amount decimal.Decimal) {
	conf, confErr := i.configRepo.Get(ctx)
	if confErr != nil {
		i.l.WithError(confErr).Warn("daily income commission skipped: config unavailable")
		return
	}

	_, settleErr := i.affiliate.Settle(ctx, SettleArgs{
		Source:  source,
		Amount:  amount,
		Percent: conf.DailyIncomePercent,
	})
	if settleErr != nil {
		i.l.WithError(settleErr).WithField("userID", source.ID).
			Warn("daily income commission failed")
	}
}

// sameUTCDay сравнивает календарные сутки в UTC (год, месяц, день).
func sameUTCDay(a, b time.Time) bool {
	aYear, aMonth, aDay := a.UTC().Date()
	bYear, bMonth, bDay := b.UTC().Date()
	return aYear == bYear && aMonth == bMonth && aDay == bDay
}
