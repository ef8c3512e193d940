package api

import (
	"time"

	"github.com/fsdevblog/groph-invest/internal/metrics"
	"github.com/fsdevblog/groph-invest/internal/transport/api/middlewares"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	DefaultServiceTimeout = 3 * time.Second
)

const (
	RouteGroup    = "/api"
	RegisterRoute = "/register"
	LoginRoute    = "/login"
	PlansRoute    = "/plans"
	ConfigRoute   = "/config"

	ProfileRoute  = "/user/profile"
	DepositRoute  = "/user/deposit"
	WithdrawRoute = "/user/withdraw"
	DailyRoute    = "/user/daily"
	BuyPlanRoute  = "/user/buy-plan"
	HistoryRoute  = "/user/history"

	AdminUsersRoute        = "/admin/users"
	AdminUserRoute         = "/admin/users/:id"
	AdminPlansRoute        = "/admin/plans"
	AdminPlanRoute         = "/admin/plans/:id"
	AdminTransactionsRoute = "/admin/transactions"
	AdminTransactionRoute  = "/admin/transactions/:id"
	AdminConfigRoute       = "/admin/config"

	MetricsRoute = "/metrics"
)

type RouterArgs struct {
	Logger        *logrus.Logger
	UserService   UserServicer
	PlanService   PlanServicer
	IncomeService IncomeServicer
	WalletService WalletServicer
	AdminService  AdminServicer
	ConfigService ConfigServicer
	JWTSecretKey  []byte
}

func New(args RouterArgs) (*gin.Engine, error) {
	if err := registerValidators(); err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(gin.Recovery())
	if args.Logger != nil {
		r.Use(middlewares.Logger(args.Logger))
	}
	r.Use(middlewares.Errors())

	r.GET(MetricsRoute, gin.WrapH(metrics.Handler()))

	authHandler := NewAuthHandler(args.UserService)
	plansHandler := NewPlansHandler(args.PlanService, args.ConfigService)
	walletHandler := NewWalletHandler(args.WalletService, args.IncomeService)
	adminHandler := NewAdminHandler(args.AdminService, args.PlanService, args.ConfigService)

	api := r.Group(RouteGroup)

	api.POST(RegisterRoute, middlewares.NonAuthRequired(args.JWTSecretKey), authHandler.Register)
	api.POST(LoginRoute, middlewares.NonAuthRequired(args.JWTSecretKey), authHandler.Login)
	api.GET(PlansRoute, plansHandler.Index)
	api.GET(ConfigRoute, plansHandler.Config)

	api.Use(middlewares.AuthRequired(args.JWTSecretKey))
	// ниже все роуты группы требуют авторизованного пользователя.
	api.GET(ProfileRoute, authHandler.Profile)
	api.POST(DepositRoute, walletHandler.Deposit)
	api.POST(WithdrawRoute, walletHandler.Withdraw)
	api.POST(DailyRoute, walletHandler.Daily)
	api.POST(BuyPlanRoute, plansHandler.Buy)
	api.GET(HistoryRoute, walletHandler.History)

	admin := api.Group("", middlewares.AdminRequired())
	admin.GET(AdminUsersRoute, adminHandler.Users)
	admin.GET(AdminUserRoute, adminHandler.UserDetails)
	admin.PATCH(AdminUserRoute, adminHandler.UpdateUser)
	admin.POST(AdminPlansRoute, adminHandler.CreatePlan)
	admin.PATCH(AdminPlanRoute, adminHandler.UpdatePlan)
	admin.DELETE(AdminPlanRoute, adminHandler.DeletePlan)
	admin.GET(AdminTransactionsRoute, adminHandler.PendingTransactions)
	admin.PATCH(AdminTransactionRoute, adminHandler.ReviewTransaction)
	admin.GET(AdminConfigRoute, adminHandler.Config)
	admin.PATCH(AdminConfigRoute, adminHandler.UpdateConfig)

	return r, nil
}
