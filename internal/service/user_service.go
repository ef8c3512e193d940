package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/fsdevblog/groph-invest/internal/domain"
	"github.com/fsdevblog/groph-invest/internal/metrics"
	"github.com/fsdevblog/groph-invest/internal/repository/repoargs"
	"github.com/fsdevblog/groph-invest/internal/service/tokens"
	"github.com/fsdevblog/groph-invest/pkg/uow"
	"github.com/shopspring/decimal"
)

const JWTTokenExpire = 24 * time.Hour

// inviteCodeAttempts кол-во повторов генерации инвайт-кода при коллизии.
const inviteCodeAttempts = 3

var phoneRegexp = regexp.MustCompile(`^\d{9}$`)

type UserService struct {
	uow            uow.UOW
	userRepo       UserRepository
	planRepo       PlanRepository
	configRepo     SystemConfigRepository
	psswd          PasswordHasher
	jwtTokenSecret []byte
}

func NewUserService(u uow.UOW, jwtTokenSecret []byte, hasher PasswordHasher) (*UserService, error) {
	userRepo, userRepoErr := uow.GetRepositoryAs[UserRepository](u, uow.RepositoryName(repoargs.UserRepoName))
	if userRepoErr != nil {
		return nil, userRepoErr
	}
	planRepo, planRepoErr := uow.GetRepositoryAs[PlanRepository](u, uow.RepositoryName(repoargs.PlanRepoName))
	if planRepoErr != nil {
		return nil, planRepoErr
	}
	configRepo, configRepoErr :=
		uow.GetRepositoryAs[SystemConfigRepository](u, uow.RepositoryName(repoargs.SystemConfigRepoName))
	if configRepoErr != nil {
		return nil, configRepoErr
	}
	return &UserService{
		uow:            u,
		userRepo:       userRepo,
		planRepo:       planRepo,
		configRepo:     configRepo,
		psswd:          hasher,
		jwtTokenSecret: jwtTokenSecret,
	}, nil
}

type RegisterUserArgs struct {
	Name         string
	Phone        string
	Password     string
	ReferralCode string
}

// Register создает юзера с приветственным бонусом на балансе. Алгоритм работы:
//  1. Валидирует формат телефона (domain.ErrInvalidPhone) и занятость номера (domain.ErrDuplicateKey).
//  2. Читает размер приветственного бонуса из конфигурации.
//  3. Резолвит реферальный код в referrer_id. Неизвестный код молча игнорируется,
//     регистрацию он не валит.
//  4. В одной транзакции создает юзера с балансом равным бонусу и, если бонус > 0,
//     approved-запись типа bonus в журнале.
//
// После успешного создания генерирует jwt token. Возвращает 3 значения: созданный юзер, токен и ошибка.
func (s *UserService) Register(ctx context.Context, args RegisterUserArgs) (*domain.User, string, error) {
	if !phoneRegexp.MatchString(args.Phone) {
		return nil, "", fmt.Errorf("registering user: %w", domain.ErrInvalidPhone)
	}

	if _, err := s.userRepo.FindByPhone(ctx, args.Phone); err == nil {
		return nil, "", fmt.Errorf("registering user: %w", domain.ErrDuplicateKey)
	} else if !errors.Is(err, domain.ErrRecordNotFound) {
		return nil, "", fmt.Errorf("registering user: %w", err)
	}

	password, hashErr := s.psswd.HashPassword(args.Password)
	if hashErr != nil {
		return nil, "", fmt.Errorf("registering user: %s", hashErr.Error())
	}

	bonus, bonusErr := s.welcomeBonus(ctx)
	if bonusErr != nil {
		return nil, "", fmt.Errorf("registering user: %w", bonusErr)
	}

	referrerID, refErr := s.resolveReferrer(ctx, args.ReferralCode)
	if refErr != nil {
		return nil, "", fmt.Errorf("registering user: %w", refErr)
	}

	var user *domain.User
	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		userRepo, userRepoErr := uow.GetAs[UserRepository](tx, uow.RepositoryName(repoargs.UserRepoName))
		if userRepoErr != nil {
			return userRepoErr //nolint:wrapcheck
		}
		transactionRepo, transactionRepoErr :=
			uow.GetAs[TransactionRepository](tx, uow.RepositoryName(repoargs.TransactionRepoName))
		if transactionRepoErr != nil {
			return transactionRepoErr //nolint:wrapcheck
		}

		var createErr error
		user, createErr = s.createWithInviteCode(c, userRepo, repoargs.CreateUser{
			Name:       args.Name,
			Phone:      args.Phone,
			Password:   password,
			Role:       domain.RoleUser,
			Balance:    bonus,
			ReferrerID: referrerID,
		})
		if createErr != nil {
			return createErr //nolint:wrapcheck
		}

		if bonus.IsPositive() {
			if _, bErr := transactionRepo.Create(c, repoargs.NewBonus(user.ID, bonus, "welcome bonus")); bErr != nil {
				return bErr //nolint:wrapcheck
			}
		}
		return nil
	})

	if txErr != nil {
		return nil, "", fmt.Errorf("registering user: %w", txErr)
	}

	token, tokenErr := tokens.GenerateUserJWT(user.ID, user.Role, JWTTokenExpire, s.jwtTokenSecret)
	if tokenErr != nil {
		return nil, "", fmt.Errorf("registering user: %w", tokenErr)
	}

	metrics.IncRegistration()
	return user, token, nil
}

type LoginUserArgs struct {
	Phone    string
	Password string
}

// Login аутентификация по паре телефон/пароль. Заблокированный счет (is_active = false)
// не пускаем с ошибкой domain.ErrAccountInactive.
func (s *UserService) Login(ctx context.Context, args LoginUserArgs) (*domain.User, string, error) {
	user, findErr := s.userRepo.FindByPhone(ctx, args.Phone)
	if findErr != nil {
		return nil, "", fmt.Errorf("login user: %w", findErr)
	}
	if !user.IsActive {
		return nil, "", fmt.Errorf("login user: %w", domain.ErrAccountInactive)
	}
	if !s.psswd.ComparePassword(args.Password, user.Password) {
		return nil, "", fmt.Errorf("login user: %w", domain.ErrPasswordMissMatch)
	}

	token, tokenErr := tokens.GenerateUserJWT(user.ID, user.Role, JWTTokenExpire, s.jwtTokenSecret)
	if tokenErr != nil {
		return nil, "", fmt.Errorf("login user: %s", tokenErr.Error())
	}
	return user, token, nil
}

// UserProfile проекция дашборда юзера: счет, текущий план и данные пригласившего.
type UserProfile struct {
	User     *domain.User
	Plan     *domain.Plan
	Referrer *domain.User
}

func (s *UserService) Profile(ctx context.Context, userID int64) (*UserProfile, error) {
	user, userErr := s.userRepo.FindByID(ctx, userID)
	if userErr != nil {
		return nil, fmt.Errorf("getting profile: %w", userErr)
	}

	profile := UserProfile{User: user}

	if user.PlanID != nil {
		plan, planErr := s.planRepo.FindByID(ctx, *user.PlanID)
		if planErr != nil {
			return nil, fmt.Errorf("getting profile: %w", planErr)
		}
		profile.Plan = plan
	}

	if user.ReferrerID != nil {
		referrer, refErr := s.userRepo.FindByID(ctx, *user.ReferrerID)
		if refErr != nil {
			return nil, fmt.Errorf("getting profile: %w", refErr)
		}
		profile.Referrer = referrer
	}
	return &profile, nil
}

// EnsureAdmin бутстрап админ-аккаунта на старте приложения: создает его при отсутствии
// либо повышает роль существующего юзера с указанным телефоном.
func (s *UserService) EnsureAdmin(ctx context.Context, phone, password string) error {
	if phone == "" {
		return nil
	}
	if !phoneRegexp.MatchString(phone) {
		return fmt.Errorf("ensuring admin: %w", domain.ErrInvalidPhone)
	}

	existing, findErr := s.userRepo.FindByPhone(ctx, phone)
	if findErr == nil {
		if existing.Role == domain.RoleAdmin {
			return nil
		}
		if promoteErr := s.userRepo.PromoteToAdmin(ctx, existing.ID); promoteErr != nil {
			return fmt.Errorf("ensuring admin: %w", promoteErr)
		}
		return nil
	}
	if !errors.Is(findErr, domain.ErrRecordNotFound) {
		return fmt.Errorf("ensuring admin: %w", findErr)
	}

	hashed, hashErr := s.psswd.HashPassword(password)
	if hashErr != nil {
		return fmt.Errorf("ensuring admin: %s", hashErr.Error())
	}

	_, createErr := s.createWithInviteCode(ctx, s.userRepo, repoargs.CreateUser{
		Name:     "admin",
		Phone:    phone,
		Password: hashed,
		Role:     domain.RoleAdmin,
	})
	if createErr != nil {
		return fmt.Errorf("ensuring admin: %w", createErr)
	}
	return nil
}

// createWithInviteCode создает юзера, повторяя попытку с новым инвайт-кодом при коллизии.
// Дубликат телефона отличить от дубликата кода нельзя, поэтому после inviteCodeAttempts
// неудач возвращается последняя ошибка как есть.
func (s *UserService) createWithInviteCode(
	ctx context.Context,
	repo UserRepository,
	args repoargs.CreateUser,
) (*domain.User, error) {
	var lastErr error
	for range inviteCodeAttempts {
		args.InviteCode = newInviteCode()
		user, err := repo.Create(ctx, args)
		if err == nil {
			return user, nil
		}
		lastErr = err
		if !errors.Is(err, domain.ErrDuplicateKey) {
			break
		}
	}
	return nil, lastErr
}

func (s *UserService) welcomeBonus(ctx context.Context) (decimal.Decimal, error) {
	conf, err := s.configRepo.Get(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return decimal.Zero, nil
		}
		return decimal.Zero, err
	}
	return conf.WelcomeBonus, nil
}

func (s *UserService) resolveReferrer(ctx context.Context, code string) (*int64, error) {
	if code == "" {
		return nil, nil
	}
	referrer, err := s.userRepo.FindByInviteCode(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			// неизвестный код молча игнорируем.
			return nil, nil
		}
		return nil, err
	}
	return &referrer.ID, nil
}
