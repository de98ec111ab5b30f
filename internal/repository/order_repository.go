package repository

import (
	"database/sql"

	"go.uber.org/zap"

	"github.com/FaustoLovera/Trabajo-Simulador-Exchange-sub000/internal/models"
	"github.com/FaustoLovera/Trabajo-Simulador-Exchange-sub000/internal/money"
)

// OrderRepository - работа с таблицей orders.
// Реализует storage.OrderStore поверх Postgres.
// Decimal-поля хранятся текстом, чтобы save/load цикл не терял точность.
type OrderRepository struct {
	db  *sql.DB
	log *zap.Logger
}

// NewOrderRepository создает новый экземпляр репозитория
func NewOrderRepository(db *sql.DB, log *zap.Logger) *OrderRepository {
	return &OrderRepository{db: db, log: log}
}

const orderColumns = `id, created_at, pair, type, action, quantity, limit_price, trigger_price,
		reserved_asset, reserved_amount, status, executed_at, cancelled_at, result_amount, error_message`

// scanOrder читает одну строку ордера
func scanOrder(rows *sql.Rows) (*models.Order, error) {
	var (
		o                                       models.Order
		quantity, limitPrice, triggerPrice      string
		reservedAmount, resultAmount            string
		executedAt, cancelledAt                 sql.NullTime
		orderType, action, status, errorMessage string
	)

	err := rows.Scan(
		&o.ID,
		&o.CreatedAt,
		&o.Pair,
		&orderType,
		&action,
		&quantity,
		&limitPrice,
		&triggerPrice,
		&o.ReservedAsset,
		&reservedAmount,
		&status,
		&executedAt,
		&cancelledAt,
		&resultAmount,
		&errorMessage,
	)
	if err != nil {
		return nil, err
	}

	o.Type = models.OrderType(orderType)
	o.Action = models.OrderAction(action)
	o.Status = models.OrderStatus(status)
	o.Quantity = money.Parse(quantity)
	o.LimitPrice = money.Parse(limitPrice)
	o.TriggerPrice = money.Parse(triggerPrice)
	o.ReservedAmount = money.Parse(reservedAmount)
	o.ResultAmount = money.Parse(resultAmount)
	o.ErrorMessage = errorMessage
	if executedAt.Valid {
		t := executedAt.Time
		o.ExecutedAt = &t
	}
	if cancelledAt.Valid {
		t := cancelledAt.Time
		o.CancelledAt = &t
	}
	return &o, nil
}

// loadWhere выполняет SELECT с опциональным фильтром по статусу
func (r *OrderRepository) loadWhere(query string, args ...interface{}) []*models.Order {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		r.log.Warn("orders load failed, using empty list", zap.Error(err))
		return []*models.Order{}
	}
	defer rows.Close()

	orders := make([]*models.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			r.log.Warn("order row unreadable, using empty list", zap.Error(err))
			return []*models.Order{}
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		r.log.Warn("orders load interrupted, using empty list", zap.Error(err))
		return []*models.Order{}
	}
	return orders
}

// LoadAll возвращает все ордера в порядке создания
func (r *OrderRepository) LoadAll() []*models.Order {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		ORDER BY created_at ASC`
	return r.loadWhere(query)
}

// LoadPending возвращает pending ордера в порядке создания
func (r *OrderRepository) LoadPending() []*models.Order {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE status = $1
		ORDER BY created_at ASC`
	return r.loadWhere(query, string(models.OrderStatusPending))
}

// insertArgs разворачивает ордер в аргументы INSERT
func insertArgs(o *models.Order) []interface{} {
	var executedAt, cancelledAt interface{}
	if o.ExecutedAt != nil {
		executedAt = *o.ExecutedAt
	}
	if o.CancelledAt != nil {
		cancelledAt = *o.CancelledAt
	}
	return []interface{}{
		o.ID,
		o.CreatedAt,
		o.Pair,
		string(o.Type),
		string(o.Action),
		o.Quantity.String(),
		o.LimitPrice.String(),
		o.TriggerPrice.String(),
		o.ReservedAsset,
		o.ReservedAmount.String(),
		string(o.Status),
		executedAt,
		cancelledAt,
		o.ResultAmount.String(),
		o.ErrorMessage,
	}
}

const orderInsertQuery = `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			executed_at = EXCLUDED.executed_at,
			cancelled_at = EXCLUDED.cancelled_at,
			result_amount = EXCLUDED.result_amount,
			error_message = EXCLUDED.error_message`

// Append добавляет ордер либо обновляет поля жизненного цикла существующего.
// Поля условий и резервирования после создания не переписываются.
func (r *OrderRepository) Append(order *models.Order) error {
	_, err := r.db.Exec(orderInsertQuery, insertArgs(order)...)
	return err
}

// SaveAll перезаписывает весь список ордеров в одной транзакции
func (r *OrderRepository) SaveAll(orders []*models.Order) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM orders`); err != nil {
		return err
	}

	for _, o := range orders {
		if _, err := tx.Exec(orderInsertQuery, insertArgs(o)...); err != nil {
			return err
		}
	}

	return tx.Commit()
}
