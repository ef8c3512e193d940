package repoargs

import (
	"time"

	"github.com/fsdevblog/groph-invest/internal/domain"
	"github.com/shopspring/decimal"
)

type CreateUser struct {
	Name       string
	Phone      string
	Password   string
	Role       domain.RoleType
	Balance    decimal.Decimal
	ReferrerID *int64
	InviteCode string
}

type SetUserPlan struct {
	UserID    int64
	PlanID    int64
	StartDate time.Time
}

// AdminUpdateUser nil-поля не трогаются. Password ожидается уже захешированным.
type AdminUpdateUser struct {
	Balance  *decimal.Decimal
	IsActive *bool
	PlanID   *int64
	Password *string
}
