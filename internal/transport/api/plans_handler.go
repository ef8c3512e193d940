package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/fsdevblog/groph-invest/internal/domain"
	"github.com/gin-gonic/gin"
)

type PlansHandler struct {
	planSvs   PlanServicer
	configSvs ConfigServicer
}

func NewPlansHandler(planSvs PlanServicer, configSvs ConfigServicer) *PlansHandler {
	return &PlansHandler{
		planSvs:   planSvs,
		configSvs: configSvs,
	}
}

// Index GET RouteGroup + PlansRoute. Публичный список активных планов, от дешевых к дорогим.
func (p *PlansHandler) Index(c *gin.Context) {
	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	plans, err := p.planSvs.List(reqCtx, true)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}

	response := make([]PlanResponse, len(plans))
	for i := range plans {
		response[i] = newPlanResponse(&plans[i])
	}
	c.JSON(http.StatusOK, response)
}

// Config GET RouteGroup + ConfigRoute. Публичная часть настроек: реквизиты для
// пополнения и приветственный бонус. Проценты комиссий наружу не отдаем.
func (p *PlansHandler) Config(c *gin.Context) {
	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	conf, err := p.configSvs.Get(reqCtx)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"welcomeBonus":    conf.WelcomeBonus.InexactFloat64(),
		"depositAccounts": conf.DepositAccounts,
	})
}

type BuyPlanParams struct {
	PlanID int64 `binding:"required" json:"planId"`
}

// Buy POST RouteGroup + BuyPlanRoute. Покупка либо апгрейд плана: при апгрейде
// списывается разница в цене.
func (p *PlansHandler) Buy(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	var params BuyPlanParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	user, err := p.planSvs.Acquire(reqCtx, currentUserID, params.PlanID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			_ = c.AbortWithError(http.StatusNotFound, errors.New("plan not found")).
				SetType(gin.ErrorTypePublic)
		case errors.Is(err, domain.ErrNotEnoughBalance):
			c.AbortWithStatus(http.StatusPaymentRequired)
		case errors.Is(err, domain.ErrAlreadyOwned):
			_ = c.AbortWithError(http.StatusConflict, err).SetType(gin.ErrorTypePublic)
		case errors.Is(err, domain.ErrDowngradeDenied):
			_ = c.AbortWithError(http.StatusUnprocessableEntity, err).SetType(gin.ErrorTypePublic)
		case errors.Is(err, domain.ErrAccountInactive):
			_ = c.AbortWithError(http.StatusForbidden, errors.New("account is blocked")).
				SetType(gin.ErrorTypePublic)
		default:
			_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": newUserResponse(user)})
}
