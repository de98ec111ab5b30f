package trading

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/FaustoLovera/Trabajo-Simulador-Exchange-sub000/internal/models"
	"github.com/FaustoLovera/Trabajo-Simulador-Exchange-sub000/internal/money"
)

// OrderRequest - входные параметры нового ордера.
// Числовые поля уже распарсены вызывающим (невалидные строки дают ноль
// и отсекаются валидацией здесь).
type OrderRequest struct {
	Pair         string
	Type         models.OrderType
	Action       models.OrderAction
	Quantity     decimal.Decimal
	LimitPrice   decimal.Decimal
	TriggerPrice decimal.Decimal
}

// buildOrder валидирует запрос и собирает ордер с посчитанным резервом.
// Проверки идут в фиксированном порядке, возвращается первая ошибка:
// тип, действие, лимитная цена, триггерная цена, затем пара и количество.
// Состояние кошелька здесь не трогается - резерв только вычисляется.
func buildOrder(req OrderRequest) (*models.Order, error) {
	switch req.Type {
	case models.OrderTypeMarket, models.OrderTypeLimit, models.OrderTypeStopLimit:
	default:
		return nil, ErrInvalidOrderType
	}
	switch req.Action {
	case models.OrderActionBuy, models.OrderActionSell:
	default:
		return nil, ErrInvalidAction
	}
	if req.Type != models.OrderTypeMarket && !req.LimitPrice.IsPositive() {
		return nil, ErrMissingLimitPrice
	}
	if req.Type == models.OrderTypeStopLimit && !req.TriggerPrice.IsPositive() {
		return nil, ErrMissingTriggerPrice
	}

	base, quote := models.SplitPair(req.Pair)
	if base == "" || quote == "" {
		return nil, ErrInvalidPair
	}
	if !req.Quantity.IsPositive() {
		return nil, ErrInvalidQuantity
	}

	order := &models.Order{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Pair:      base + "/" + quote,
		Type:      req.Type,
		Action:    req.Action,
		Quantity:  money.Crypto(req.Quantity),
		Status:    models.OrderStatusPending,
	}
	if req.Type == models.OrderTypeMarket {
		// Рыночный ордер исполняется менеджером сразу после сборки,
		// промежуточного pending-состояния у него нет.
		order.Status = models.OrderStatusExecuted
	} else {
		order.LimitPrice = money.USD(req.LimitPrice)
		// У лимитного ордера триггером служит сама лимитная цена.
		order.TriggerPrice = order.LimitPrice
		if req.Type == models.OrderTypeStopLimit {
			order.TriggerPrice = money.USD(req.TriggerPrice)
		}
	}

	// Резерв: у покупки блокируется котируемая монета, у продажи - базовая.
	// Рыночная покупка трактует quantity как сумму котируемой монеты,
	// лимитная - как количество базовой по лимитной цене.
	switch req.Action {
	case models.OrderActionBuy:
		order.ReservedAsset = quote
		if req.Type == models.OrderTypeMarket {
			order.ReservedAmount = order.Quantity
		} else {
			order.ReservedAmount = money.Crypto(order.Quantity.Mul(order.LimitPrice))
		}
	case models.OrderActionSell:
		order.ReservedAsset = base
		order.ReservedAmount = order.Quantity
	}

	return order, nil
}
