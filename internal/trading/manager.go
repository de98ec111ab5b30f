package trading

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/FaustoLovera/Trabajo-Simulador-Exchange-sub000/internal/models"
)

// Manager управляет жизненным циклом ордеров: создание с резервированием
// средств и отмена с возвратом резерва. Все операции проходят под
// мьютексом Desk, поэтому create, cancel и свип матчера не пересекаются.
type Manager struct {
	desk *Desk
}

// NewManager создает менеджер ордеров поверх общего стола.
func NewManager(desk *Desk) *Manager {
	return &Manager{desk: desk}
}

// CancelResult - итог успешной отмены.
type CancelResult struct {
	Message string         `json:"message"`
	Asset   string         `json:"asset"`
	Balance models.Balance `json:"balance"`
}

// CreateOrder собирает, резервирует и при необходимости сразу исполняет
// новый ордер. Последовательность:
//
//  1. Валидация и сборка через buildOrder - ошибки возвращаются как есть.
//  2. Проверка available >= резерв, иначе ErrInsufficientFunds.
//  3. Перенос резерва из available в reserved.
//  4. Рыночный ордер исполняется немедленно из reserved.
//  5. Ордер и кошелек сохраняются одним заходом в конце.
//
// При любой ошибке после шага 1 состояние на диске не меняется: кошелек
// правится в памяти и сохраняется только на успешном пути.
func (m *Manager) CreateOrder(ctx context.Context, req OrderRequest) (*models.Order, error) {
	order, err := buildOrder(req)
	if err != nil {
		return nil, err
	}

	d := m.desk
	d.mu.Lock()
	defer d.mu.Unlock()

	wallet := d.stores.Wallet.Load()
	available := wallet.Balance(order.ReservedAsset).Available
	if available.LessThan(order.ReservedAmount) {
		return nil, fmt.Errorf("%w: need %s %s, have %s",
			ErrInsufficientFunds, order.ReservedAmount, order.ReservedAsset, available)
	}
	if err := wallet.Reserve(order.ReservedAsset, order.ReservedAmount); err != nil {
		return nil, fmt.Errorf("reserve %s %s: %w", order.ReservedAmount, order.ReservedAsset, err)
	}

	if order.Type == models.OrderTypeMarket {
		res, err := d.execute(ctx, wallet, executeParams{
			SourceAsset:  order.ReservedAsset,
			GrossAmount:  order.ReservedAmount,
			DestAsset:    order.DestAsset(),
			Operation:    order.HistoryLabel(),
			FromReserved: true,
		})
		if err != nil {
			d.log.Warn("рыночный ордер не исполнен",
				zap.String("pair", order.Pair),
				zap.String("action", string(order.Action)),
				zap.Error(err))
			return nil, err
		}
		now := time.Now().UTC()
		order.ExecutedAt = &now
		order.ResultAmount = res.DestAmount
		d.broadcastTrade(res.History)
		OrdersExecuted.WithLabelValues(order.HistoryLabel()).Inc()
	}

	if err := d.stores.Orders.Append(order); err != nil {
		return nil, fmt.Errorf("persist order: %w", err)
	}
	if err := d.stores.Wallet.Save(wallet); err != nil {
		return nil, fmt.Errorf("persist wallet: %w", err)
	}

	d.log.Info("ордер создан",
		zap.String("id", order.ID),
		zap.String("pair", order.Pair),
		zap.String("type", string(order.Type)),
		zap.String("action", string(order.Action)),
		zap.String("status", string(order.Status)),
		zap.String("reserved", order.ReservedAmount.String()+" "+order.ReservedAsset))

	OrdersCreated.WithLabelValues(string(order.Type), string(order.Action)).Inc()
	d.broadcastOrder(order)
	d.broadcastWallet(wallet)
	return order, nil
}

// CancelOrder отменяет pending ордер и возвращает резерв в available.
// Если в reserved меньше, чем числится за ордером, это порча данных:
// ордер помечается error и сохраняется, кошелек не трогается,
// возвращается ErrLedgerInconsistent.
func (m *Manager) CancelOrder(ctx context.Context, orderID string) (*CancelResult, error) {
	d := m.desk
	d.mu.Lock()
	defer d.mu.Unlock()

	orders := d.stores.Orders.LoadAll()
	var order *models.Order
	for _, o := range orders {
		if o.ID == orderID {
			order = o
			break
		}
	}
	if order == nil {
		return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, orderID)
	}
	if order.Status != models.OrderStatusPending {
		return nil, fmt.Errorf("%w: %s has status %s", ErrOrderNotPending, orderID, order.Status)
	}

	wallet := d.stores.Wallet.Load()
	reserved := wallet.Balance(order.ReservedAsset).Reserved
	if reserved.LessThan(order.ReservedAmount) {
		order.Status = models.OrderStatusError
		order.ErrorMessage = fmt.Sprintf("reserved balance %s %s is below the order reservation %s",
			reserved, order.ReservedAsset, order.ReservedAmount)
		if err := d.stores.Orders.SaveAll(orders); err != nil {
			d.log.Error("не удалось сохранить ордер с ошибкой консистентности", zap.Error(err))
		}
		d.log.Error("резерв кошелька не сходится с ордером",
			zap.String("id", order.ID),
			zap.String("asset", order.ReservedAsset),
			zap.String("reserved", reserved.String()),
			zap.String("expected", order.ReservedAmount.String()))
		OrdersErrored.Inc()
		d.broadcastOrder(order)
		return nil, fmt.Errorf("%w: %s", ErrLedgerInconsistent, order.ErrorMessage)
	}

	if err := wallet.ReleaseReserved(order.ReservedAsset, order.ReservedAmount); err != nil {
		return nil, fmt.Errorf("release reservation: %w", err)
	}
	now := time.Now().UTC()
	order.Status = models.OrderStatusCancelled
	order.CancelledAt = &now

	if err := d.stores.Orders.SaveAll(orders); err != nil {
		return nil, fmt.Errorf("persist orders: %w", err)
	}
	if err := d.stores.Wallet.Save(wallet); err != nil {
		return nil, fmt.Errorf("persist wallet: %w", err)
	}

	d.log.Info("ордер отменен",
		zap.String("id", order.ID),
		zap.String("pair", order.Pair),
		zap.String("released", order.ReservedAmount.String()+" "+order.ReservedAsset))

	OrdersCancelled.Inc()
	d.broadcastOrder(order)
	d.broadcastWallet(wallet)
	return &CancelResult{
		Message: fmt.Sprintf("order %s cancelled, %s %s returned to the available balance",
			order.ID, order.ReservedAmount, order.ReservedAsset),
		Asset:   order.ReservedAsset,
		Balance: wallet.Balance(order.ReservedAsset),
	}, nil
}

// Orders возвращает все ордера, от старых к новым.
func (m *Manager) Orders() []*models.Order {
	m.desk.mu.Lock()
	defer m.desk.mu.Unlock()
	return m.desk.stores.Orders.LoadAll()
}

// Wallet возвращает копию текущего кошелька.
func (m *Manager) Wallet() models.Wallet {
	m.desk.mu.Lock()
	defer m.desk.mu.Unlock()
	return m.desk.stores.Wallet.Load().Clone()
}

// History возвращает журнал сделок.
func (m *Manager) History() []models.HistoryEntry {
	m.desk.mu.Lock()
	defer m.desk.mu.Unlock()
	return m.desk.stores.History.LoadAll()
}

// Fees возвращает журнал комиссий.
func (m *Manager) Fees() []models.FeeRecord {
	m.desk.mu.Lock()
	defer m.desk.mu.Unlock()
	return m.desk.stores.Fees.LoadAll()
}
