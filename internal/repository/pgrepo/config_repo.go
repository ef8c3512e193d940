package pgrepo

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/fsdevblog/groph-invest/internal/domain"
	"github.com/fsdevblog/groph-invest/internal/repository/repoargs"
	"github.com/fsdevblog/groph-invest/pkg/uow"
	"github.com/jackc/pgx/v5"
)

const configColumns = `id, updated_at, welcome_bonus, first_investment_percent, daily_income_percent,
	deposit_accounts`

type SystemConfigRepository struct {
	conn uow.DBTX
}

func NewSystemConfigRepository(conn uow.DBTX) *SystemConfigRepository {
	return &SystemConfigRepository{conn: conn}
}

func (c *SystemConfigRepository) Get(ctx context.Context) (*domain.SystemConfig, error) {
	row := c.conn.QueryRow(ctx, `SELECT `+configColumns+` FROM system_configs ORDER BY id ASC LIMIT 1`)
	conf, err := scanConfig(row)
	if err != nil {
		return nil, convertErr(err, "getting system config")
	}
	return conf, nil
}

// Ensure возвращает singleton-конфиг, создавая его с дефолтами при отсутствии.
// Вызывается один раз на старте приложения, не на каждый запрос.
func (c *SystemConfigRepository) Ensure(ctx context.Context) (*domain.SystemConfig, error) {
	conf, err := c.Get(ctx)
	if err == nil {
		return conf, nil
	}
	if !errors.Is(err, domain.ErrRecordNotFound) {
		return nil, err
	}

	row := c.conn.QueryRow(ctx, `INSERT INTO system_configs DEFAULT VALUES RETURNING ` + configColumns)
	conf, insertErr := scanConfig(row)
	if insertErr != nil {
		return nil, convertErr(insertErr, "initializing system config")
	}
	return conf, nil
}

// Update nil-поля не трогаются. DepositAccounts заменяется целиком, если передан.
func (c *SystemConfigRepository) Update(
	ctx context.Context,
	args repoargs.UpdateSystemConfig,
) (*domain.SystemConfig, error) {
	var accountsJSON []byte
	if args.DepositAccounts != nil {
		var marshalErr error
		accountsJSON, marshalErr = json.Marshal(args.DepositAccounts)
		if marshalErr != nil {
			return nil, convertErr(marshalErr, "marshaling deposit accounts")
		}
	}

	row := c.conn.QueryRow(ctx, `
		UPDATE system_configs SET
			welcome_bonus = COALESCE($1::numeric, welcome_bonus),
			first_investment_percent = COALESCE($2::numeric, first_investment_percent),
			daily_income_percent = COALESCE($3::numeric, daily_income_percent),
			deposit_accounts = COALESCE($4::jsonb, deposit_accounts),
			updated_at = now()
		WHERE id = (SELECT id FROM system_configs ORDER BY id ASC LIMIT 1)
		RETURNING `+configColumns,
		args.WelcomeBonus, args.FirstInvestmentPercent, args.DailyIncomePercent, accountsJSON,
	)
	conf, err := scanConfig(row)
	if err != nil {
		return nil, convertErr(err, "updating system config")
	}
	return conf, nil
}

func scanConfig(row pgx.Row) (*domain.SystemConfig, error) {
	var conf domain.SystemConfig
	var accountsJSON []byte

	err := row.Scan(
		&conf.ID, &conf.UpdatedAt, &conf.WelcomeBonus, &conf.FirstInvestmentPercent,
		&conf.DailyIncomePercent, &accountsJSON,
	)
	if err != nil {
		return nil, err
	}
	if len(accountsJSON) > 0 {
		if unmarshalErr := json.Unmarshal(accountsJSON, &conf.DepositAccounts); unmarshalErr != nil {
			return nil, unmarshalErr
		}
	}
	return &conf, nil
}
