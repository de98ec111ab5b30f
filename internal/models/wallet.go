package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Ошибки кошелька
var (
	ErrInsufficientAvailable = errors.New("insufficient available balance")
	ErrInsufficientReserved  = errors.New("insufficient reserved balance")
)

// Balance - балансовая пара одной монеты.
// Available можно тратить немедленно, Reserved заблокировано под
// конкретный pending ордер. Инвариант: оба поля всегда >= 0.
type Balance struct {
	Available decimal.Decimal `json:"available"`
	Reserved  decimal.Decimal `json:"reserved"`
}

// Total возвращает суммарный баланс монеты
func (b Balance) Total() decimal.Decimal {
	return b.Available.Add(b.Reserved)
}

// IsZero возвращает true если оба баланса нулевые
func (b Balance) IsZero() bool {
	return b.Available.IsZero() && b.Reserved.IsZero()
}

// Wallet - портфель: тикер (верхний регистр) -> балансовая пара.
//
// Кошелёк мутируют только TransactionExecutor (списание/зачисление при
// исполнении) и OrderManager (резервирование при создании, возврат при
// отмене). Последовательность load -> mutate -> save сериализуется
// вызывающей стороной (см. trading.Desk).
type Wallet map[string]Balance

// NewWallet создаёт кошелёк с начальным балансом в указанной монете
func NewWallet(asset string, amount decimal.Decimal) Wallet {
	w := make(Wallet)
	if amount.Sign() > 0 {
		w[strings.ToUpper(asset)] = Balance{Available: amount, Reserved: decimal.Zero}
	}
	return w
}

// Balance возвращает балансовую пару монеты (нулевую, если монеты нет)
func (w Wallet) Balance(asset string) Balance {
	return w[strings.ToUpper(asset)]
}

// Credit зачисляет amount на available, создавая запись при отсутствии
func (w Wallet) Credit(asset string, amount decimal.Decimal) {
	asset = strings.ToUpper(asset)
	b := w[asset]
	b.Available = b.Available.Add(amount)
	w[asset] = b
}

// DebitAvailable списывает amount с available.
// Возвращает ошибку если средств недостаточно - баланс не может уйти в минус.
func (w Wallet) DebitAvailable(asset string, amount decimal.Decimal) error {
	asset = strings.ToUpper(asset)
	b := w[asset]
	if b.Available.LessThan(amount) {
		return fmt.Errorf("%w: %s available=%s, need=%s",
			ErrInsufficientAvailable, asset, b.Available, amount)
	}
	b.Available = b.Available.Sub(amount)
	w[asset] = b
	return nil
}

// DebitReserved списывает amount с reserved
func (w Wallet) DebitReserved(asset string, amount decimal.Decimal) error {
	asset = strings.ToUpper(asset)
	b := w[asset]
	if b.Reserved.LessThan(amount) {
		return fmt.Errorf("%w: %s reserved=%s, need=%s",
			ErrInsufficientReserved, asset, b.Reserved, amount)
	}
	b.Reserved = b.Reserved.Sub(amount)
	w[asset] = b
	return nil
}

// Reserve перемещает amount из available в reserved под pending ордер
func (w Wallet) Reserve(asset string, amount decimal.Decimal) error {
	asset = strings.ToUpper(asset)
	b := w[asset]
	if b.Available.LessThan(amount) {
		return fmt.Errorf("%w: %s available=%s, need=%s",
			ErrInsufficientAvailable, asset, b.Available, amount)
	}
	b.Available = b.Available.Sub(amount)
	b.Reserved = b.Reserved.Add(amount)
	w[asset] = b
	return nil
}

// ReleaseReserved возвращает amount из reserved в available (отмена ордера)
func (w Wallet) ReleaseReserved(asset string, amount decimal.Decimal) error {
	asset = strings.ToUpper(asset)
	b := w[asset]
	if b.Reserved.LessThan(amount) {
		return fmt.Errorf("%w: %s reserved=%s, need=%s",
			ErrInsufficientReserved, asset, b.Reserved, amount)
	}
	b.Reserved = b.Reserved.Sub(amount)
	b.Available = b.Available.Add(amount)
	w[asset] = b
	return nil
}

// Prune удаляет монеты с полностью нулевыми балансами.
// Вызывается перед сохранением, чтобы не копить пустые записи.
func (w Wallet) Prune() {
	for asset, b := range w {
		if b.IsZero() {
			delete(w, asset)
		}
	}
}

// Clone возвращает глубокую копию кошелька.
// Используется для снапшотов, отдаваемых наружу (API, WebSocket).
func (w Wallet) Clone() Wallet {
	out := make(Wallet, len(w))
	for asset, b := range w {
		out[asset] = b
	}
	return out
}
