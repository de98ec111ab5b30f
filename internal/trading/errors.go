package trading

import "errors"

// Ошибки валидации запроса на ордер.
// Возвращаются фабрикой до любых изменений состояния.
var (
	ErrInvalidOrderType    = errors.New("invalid order type")
	ErrInvalidAction       = errors.New("invalid order action")
	ErrMissingLimitPrice   = errors.New("limit price is required and must be positive")
	ErrMissingTriggerPrice = errors.New("trigger price is required and must be positive")
	ErrInvalidPair         = errors.New("invalid trading pair")
	ErrInvalidQuantity     = errors.New("quantity must be positive")
)

// Ошибки жизненного цикла
var (
	// ErrInsufficientFunds - на available не хватает средств под резерв
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrOrderNotFound - ордер с таким ID не существует
	ErrOrderNotFound = errors.New("order not found")

	// ErrOrderNotPending - операция допустима только для pending ордера.
	// Защищает от двойного возврата резерва при повторной отмене.
	ErrOrderNotPending = errors.New("order is not pending")

	// ErrQuotationUnavailable - исполнитель не смог получить котировку
	// одной из монет сделки
	ErrQuotationUnavailable = errors.New("quotation unavailable")

	// ErrLedgerInconsistent - reserved меньше, чем ордер считает
	// зарезервированным. Признак порчи данных, не лечится автоматически.
	ErrLedgerInconsistent = errors.New("ledger inconsistent")
)
