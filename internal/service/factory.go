package service

import (
	"fmt"

	"github.com/fsdevblog/groph-invest/internal/service/psswd"
	"github.com/fsdevblog/groph-invest/pkg/uow"
	"github.com/sirupsen/logrus"
)

type AppServices struct {
	UserService   *UserService
	PlanService   *PlanService
	IncomeService *IncomeService
	WalletService *WalletService
	AdminService  *AdminService
	ConfigService *SystemConfigService
}

func Factory(unitOfWork uow.UOW, jwtSecret []byte, l *logrus.Logger) (*AppServices, error) {
	hasher := psswd.PasswordHash("")

	userService, userServiceErr := NewUserService(unitOfWork, jwtSecret, hasher)
	if userServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", userServiceErr.Error())
	}

	affiliate := NewAffiliateService(unitOfWork)

	planService, planServiceErr := NewPlanService(unitOfWork, affiliate, l)
	if planServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", planServiceErr.Error())
	}

	incomeService, incomeServiceErr := NewIncomeService(unitOfWork, affiliate, l)
	if incomeServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", incomeServiceErr.Error())
	}

	walletService, walletServiceErr := NewWalletService(unitOfWork)
	if walletServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", walletServiceErr.Error())
	}

	adminService, adminServiceErr := NewAdminService(unitOfWork, hasher)
	if adminServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", adminServiceErr.Error())
	}

	configService, configServiceErr := NewSystemConfigService(unitOfWork)
	if configServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", configServiceErr.Error())
	}

	return &AppServices{
		UserService:   userService,
		PlanService:   planService,
		IncomeService: incomeService,
		WalletService: walletService,
		AdminService:  adminService,
		ConfigService: configService,
	}, nil
}
