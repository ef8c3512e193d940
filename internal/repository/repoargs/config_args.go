package repoargs

import (
	"github.com/fsdevblog/groph-invest/internal/domain"
	"github.com/shopspring/decimal"
)

// UpdateSystemConfig nil-поля не трогаются.
type UpdateSystemConfig struct {
	WelcomeBonus           *decimal.Decimal
	FirstInvestmentPercent *decimal.Decimal
	DailyIncomePercent     *decimal.Decimal
	DepositAccounts        []domain.DepositAccount
}
