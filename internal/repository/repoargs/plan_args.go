package repoargs

import "github.com/shopspring/decimal"

type CreatePlan struct {
	Name         string
	Price        decimal.Decimal
	DailyIncome  decimal.Decimal
	ValidityDays int32
	ImageURL     string
	MinWithdraw  decimal.Decimal
	MaxWithdraw  decimal.Decimal
}

type UpdatePlan struct {
	Name         *string
	Price        *decimal.Decimal
	DailyIncome  *decimal.Decimal
	ValidityDays *int32
	ImageURL     *string
	MinWithdraw  *decimal.Decimal
	MaxWithdraw  *decimal.Decimal
	IsActive     *bool
}
