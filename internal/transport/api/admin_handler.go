package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/fsdevblog/groph-invest/internal/domain"
	"github.com/fsdevblog/groph-invest/internal/repository/repoargs"
	"github.com/fsdevblog/groph-invest/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type AdminHandler struct {
	adminSvs  AdminServicer
	planSvs   PlanServicer
	configSvs ConfigServicer
}

func NewAdminHandler(adminSvs AdminServicer, planSvs PlanServicer, configSvs ConfigServicer) *AdminHandler {
	return &AdminHandler{
		adminSvs:  adminSvs,
		planSvs:   planSvs,
		configSvs: configSvs,
	}
}

// idParam парсит path-параметр :id. При невалидном значении пишет 400 в контекст
// и возвращает ok = false.
func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		_ = c.AbortWithError(http.StatusBadRequest, errors.New("invalid id")).SetType(gin.ErrorTypePublic)
		return 0, false
	}
	return id, true
}

// Users GET RouteGroup + AdminUsersRoute.
func (a *AdminHandler) Users(c *gin.Context) {
	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	users, err := a.adminSvs.ListUsers(reqCtx)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}

	response := make([]UserResponse, len(users))
	for i := range users {
		response[i] = newUserResponse(&users[i])
	}
	c.JSON(http.StatusOK, response)
}

// UserDetails GET RouteGroup + AdminUserRoute. Карточка юзера: счет, журнал, приглашенные.
func (a *AdminHandler) UserDetails(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	details, err := a.adminSvs.UserDetails(reqCtx, id)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			_ = c.AbortWithError(http.StatusNotFound, errors.New("user not found")).
				SetType(gin.ErrorTypePublic)
			return
		}
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}

	referrals := make([]UserResponse, len(details.Referrals))
	for i := range details.Referrals {
		referrals[i] = newUserResponse(&details.Referrals[i])
	}
	c.JSON(http.StatusOK, gin.H{
		"user":         newUserResponse(details.User),
		"transactions": newTransactionResponses(details.Transactions),
		"referrals":    referrals,
	})
}

type AdminUpdateUserParams struct {
	Balance  *decimal.Decimal `json:"balance"`
	IsActive *bool            `json:"isActive"`
	PlanID   *int64           `json:"planId"`
	Password *string          `binding:"omitempty,min=6,max=255" json:"password"`
}

// UpdateUser PATCH RouteGroup + AdminUserRoute. Точечная правка юзера, отсутствующие
// в теле поля не трогаются.
func (a *AdminHandler) UpdateUser(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var params AdminUpdateUserParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	user, err := a.adminSvs.UpdateUser(reqCtx, id, service.AdminUpdateUserArgs{
		Balance:  params.Balance,
		IsActive: params.IsActive,
		PlanID:   params.PlanID,
		Password: params.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			_ = c.AbortWithError(http.StatusNotFound, errors.New("user not found")).
				SetType(gin.ErrorTypePublic)
		case errors.Is(err, domain.ErrNegativeBalance):
			_ = c.AbortWithError(http.StatusUnprocessableEntity, err).SetType(gin.ErrorTypePublic)
		default:
			_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": newUserResponse(user)})
}

type CreatePlanParams struct {
	Name         string          `binding:"required,min=1,max=100" json:"name"`
	Price        decimal.Decimal `binding:"required"               json:"price"`
	DailyIncome  decimal.Decimal `binding:"required"               json:"dailyIncome"`
	ValidityDays int32           `binding:"required,min=1"         json:"validityDays"`
	ImageURL     string          `binding:"omitempty,url"          json:"imageUrl"`
	MinWithdraw  decimal.Decimal `json:"minWithdraw"`
	MaxWithdraw  decimal.Decimal `json:"maxWithdraw"`
}

// CreatePlan POST RouteGroup + AdminPlansRoute.
func (a *AdminHandler) CreatePlan(c *gin.Context) {
	var params CreatePlanParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	plan, err := a.planSvs.Create(reqCtx, repoargs.CreatePlan{
		Name:         params.Name,
		Price:        params.Price,
		DailyIncome:  params.DailyIncome,
		ValidityDays: params.ValidityDays,
		ImageURL:     params.ImageURL,
		MinWithdraw:  params.MinWithdraw,
		MaxWithdraw:  params.MaxWithdraw,
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateKey) {
			_ = c.AbortWithError(http.StatusConflict, errors.New("plan with this name already exists")).
				SetType(gin.ErrorTypePublic)
			return
		}
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"plan": newPlanResponse(plan)})
}

type UpdatePlanParams struct {
	Name         *string          `binding:"omitempty,min=1,max=100" json:"name"`
	Price        *decimal.Decimal `json:"price"`
	DailyIncome  *decimal.Decimal `json:"dailyIncome"`
	ValidityDays *int32           `binding:"omitempty,min=1" json:"validityDays"`
	ImageURL     *string          `binding:"omitempty,url"   json:"imageUrl"`
	MinWithdraw  *decimal.Decimal `json:"minWithdraw"`
	MaxWithdraw  *decimal.Decimal `json:"maxWithdraw"`
	IsActive     *bool            `json:"isActive"`
}

// UpdatePlan PATCH RouteGroup + AdminPlanRoute.
func (a *AdminHandler) UpdatePlan(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var params UpdatePlanParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	plan, err := a.planSvs.Update(reqCtx, id, repoargs.UpdatePlan{
		Name:         params.Name,
		Price:        params.Price,
		DailyIncome:  params.DailyIncome,
		ValidityDays: params.ValidityDays,
		ImageURL:     params.ImageURL,
		MinWithdraw:  params.MinWithdraw,
		MaxWithdraw:  params.MaxWithdraw,
		IsActive:     params.IsActive,
	})
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			_ = c.AbortWithError(http.StatusNotFound, errors.New("plan not found")).
				SetType(gin.ErrorTypePublic)
			return
		}
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}

	c.JSON(http.StatusOK, gin.H{"plan": newPlanResponse(plan)})
}

// DeletePlan DELETE RouteGroup + AdminPlanRoute. План деактивируется, а не удаляется:
// записи юзеров продолжают ссылаться на него.
func (a *AdminHandler) DeletePlan(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	if err := a.planSvs.Delete(reqCtx, id); err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			_ = c.AbortWithError(http.StatusNotFound, errors.New("plan not found")).
				SetType(gin.ErrorTypePublic)
			return
		}
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}

	c.AbortWithStatus(http.StatusNoContent)
}

// PendingTransactions GET RouteGroup + AdminTransactionsRoute. Заявки в статусе pending,
// старые первыми. Query-параметр type фильтрует по типу записи.
func (a *AdminHandler) PendingTransactions(c *gin.Context) {
	var typeFilter *domain.TransactionType
	if raw, exist := c.GetQuery("type"); exist {
		t := domain.TransactionType(raw)
		switch t {
		case domain.TransactionDeposit, domain.TransactionWithdrawal,
			domain.TransactionBonus, domain.TransactionDaily, domain.TransactionCommission:
			typeFilter = &t
		default:
			_ = c.AbortWithError(http.StatusBadRequest, errors.New("invalid transaction type")).
				SetType(gin.ErrorTypePublic)
			return
		}
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	transactions, err := a.adminSvs.ListPendingTransactions(reqCtx, typeFilter)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}

	c.JSON(http.StatusOK, newTransactionResponses(transactions))
}

type ReviewTransactionParams struct {
	Approve      *bool  `binding:"required"          json:"approve"`
	AdminComment string `binding:"omitempty,max=500" json:"adminComment"`
}

// ReviewTransaction PATCH RouteGroup + AdminTransactionRoute. Решение по pending-заявке,
// статусы approved/rejected терминальные.
func (a *AdminHandler) ReviewTransaction(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var params ReviewTransactionParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	transaction, err := a.adminSvs.ReviewTransaction(reqCtx, service.ReviewArgs{
		TransactionID: id,
		Approve:       *params.Approve,
		AdminComment:  params.AdminComment,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			_ = c.AbortWithError(http.StatusNotFound, errors.New("transaction not found")).
				SetType(gin.ErrorTypePublic)
		case errors.Is(err, domain.ErrAlreadyProcessed):
			_ = c.AbortWithError(http.StatusConflict, err).SetType(gin.ErrorTypePublic)
		default:
			_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": newTransactionResponse(transaction)})
}

// Config GET RouteGroup + AdminConfigRoute. Полные настройки, включая проценты комиссий.
func (a *AdminHandler) Config(c *gin.Context) {
	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	conf, err := a.configSvs.Get(reqCtx)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"welcomeBonus":           conf.WelcomeBonus.InexactFloat64(),
		"firstInvestmentPercent": conf.FirstInvestmentPercent.InexactFloat64(),
		"dailyIncomePercent":     conf.DailyIncomePercent.InexactFloat64(),
		"depositAccounts":        conf.DepositAccounts,
	})
}

type UpdateConfigParams struct {
	WelcomeBonus           *decimal.Decimal        `json:"welcomeBonus"`
	FirstInvestmentPercent *decimal.Decimal        `json:"firstInvestmentPercent"`
	DailyIncomePercent     *decimal.Decimal        `json:"dailyIncomePercent"`
	DepositAccounts        []domain.DepositAccount `json:"depositAccounts"`
}

// UpdateConfig PATCH RouteGroup + AdminConfigRoute.
func (a *AdminHandler) UpdateConfig(c *gin.Context) {
	var params UpdateConfigParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	conf, err := a.configSvs.Update(reqCtx, service.UpdateConfigArgs{
		WelcomeBonus:           params.WelcomeBonus,
		FirstInvestmentPercent: params.FirstInvestmentPercent,
		DailyIncomePercent:     params.DailyIncomePercent,
		DepositAccounts:        params.DepositAccounts,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidAmount) {
			_ = c.AbortWithError(http.StatusUnprocessableEntity, err).SetType(gin.ErrorTypePublic)
			return
		}
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"welcomeBonus":           conf.WelcomeBonus.InexactFloat64(),
		"firstInvestmentPercent": conf.FirstInvestmentPercent.InexactFloat64(),
		"dailyIncomePercent":     conf.DailyIncomePercent.InexactFloat64(),
		"depositAccounts":        conf.DepositAccounts,
	})
}
