package pgrepo

import (
	"context"

	"github.com/fsdevblog/groph-invest/internal/domain"
	"github.com/fsdevblog/groph-invest/internal/repository/repoargs"
	"github.com/fsdevblog/groph-invest/pkg/uow"
	"github.com/jackc/pgx/v5"
)

const planColumns = `id, created_at, updated_at, name, price, daily_income, validity_days,
	image_url, min_withdraw, max_withdraw, is_active`

type PlanRepository struct {
	conn uow.DBTX
}

func NewPlanRepository(conn uow.DBTX) *PlanRepository {
	return &PlanRepository{conn: conn}
}

func (p *PlanRepository) Create(ctx context.Context, args repoargs.CreatePlan) (*domain.Plan, error) {
	row := p.conn.QueryRow(ctx, `
		INSERT INTO plans (name, price, daily_income, validity_days, image_url, min_withdraw, max_withdraw)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+planColumns,
		args.Name, args.Price, args.DailyIncome, args.ValidityDays, args.ImageURL,
		args.MinWithdraw, args.MaxWithdraw,
	)
	plan, err := scanPlan(row)
	if err != nil {
		return nil, convertErr(err, "creating plan %s", args.Name)
	}
	return plan, nil
}

// Update nil-поля не трогаются.
func (p *PlanRepository) Update(ctx context.Context, id int64, args repoargs.UpdatePlan) (*domain.Plan, error) {
	row := p.conn.QueryRow(ctx, `
		UPDATE plans SET
			name = COALESCE($2::varchar, name),
			price = COALESCE($3::numeric, price),
			daily_income = COALESCE($4::numeric, daily_income),
			validity_days = COALESCE($5::int, validity_days),
			image_url = COALESCE($6::text, image_url),
			min_withdraw = COALESCE($7::numeric, min_withdraw),
			max_withdraw = COALESCE($8::numeric, max_withdraw),
			is_active = COALESCE($9::boolean, is_active),
			updated_at = now()
		WHERE id = $1
		RETURNING `+planColumns,
		id, args.Name, args.Price, args.DailyIncome, args.ValidityDays, args.ImageURL,
		args.MinWithdraw, args.MaxWithdraw, args.IsActive,
	)
	plan, err := scanPlan(row)
	if err != nil {
		return nil, convertErr(err, "updating plan %d", id)
	}
	return plan, nil
}

// Delete деактивирует план вместо физического удаления: юзеры продолжают ссылаться
// на него через plan_id.
func (p *PlanRepository) Delete(ctx context.Context, id int64) error {
	tag, err := p.conn.Exec(ctx, `UPDATE plans SET is_active = FALSE, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return convertErr(err, "deleting plan %d", id)
	}
	if tag.RowsAffected() == 0 {
		return convertErr(pgx.ErrNoRows, "deleting plan %d", id)
	}
	return nil
}

func (p *PlanRepository) FindByID(ctx context.Context, id int64) (*domain.Plan, error) {
	row := p.conn.QueryRow(ctx, `SELECT `+planColumns+` FROM plans WHERE id = $1`, id)
	plan, err := scanPlan(row)
	if err != nil {
		return nil, convertErr(err, "finding plan by id %d", id)
	}
	return plan, nil
}

// GetAll возвращает планы по возрастанию цены. onlyActive отсекает выключенные планы
// (каталог для юзера); админ видит все.
func (p *PlanRepository) GetAll(ctx context.Context, onlyActive bool) ([]domain.Plan, error) {
	rows, err := p.conn.Query(ctx,
		`SELECT `+planColumns+` FROM plans WHERE NOT $1::boolean OR is_active ORDER BY price ASC`, onlyActive)
	if err != nil {
		return nil, convertErr(err, "getting plans")
	}
	defer rows.Close()

	var plans []domain.Plan
	for rows.Next() {
		plan, scanErr := scanPlan(rows)
		if scanErr != nil {
			return nil, convertErr(scanErr, "getting plans")
		}
		plans = append(plans, *plan)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, convertErr(rowsErr, "getting plans")
	}
	return plans, nil
}

func scanPlan(row pgx.Row) (*domain.Plan, error) {
	var p domain.Plan
	err := row.Scan(
		&p.ID, &p.CreatedAt, &p.UpdatedAt, &p.Name, &p.Price, &p.DailyIncome, &p.ValidityDays,
		&p.ImageURL, &p.MinWithdraw, &p.MaxWithdraw, &p.IsActive,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
