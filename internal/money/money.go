package money

import (
	"github.com/shopspring/decimal"
)

// money.go - канонические decimal-величины для ядра симулятора
//
// Назначение:
// Все денежные значения (количества монет и суммы в USD) проходят через
// этот пакет. Внутренняя математика ведётся в decimal с фиксированными
// точностями, float64 в ядре не используется.
//
// Точности:
// - Количества криптовалют: 8 знаков после запятой
// - Суммы в USD:            4 знака после запятой
// - Отображение в UI:       2 знака (отдельная функция, в расчётах не участвует)

const (
	// CryptoPlaces - точность количеств монет (8 знаков)
	CryptoPlaces int32 = 8

	// USDPlaces - точность внутренних USD-сумм (4 знака)
	USDPlaces int32 = 4

	// DisplayPlaces - точность отображения (2 знака, только презентация)
	DisplayPlaces int32 = 2
)

// Zero - нулевое значение для инициализации балансов
var Zero = decimal.Zero

// Parse конвертирует произвольный ввод в decimal.
// Невалидная или пустая строка даёт ноль - функция никогда не возвращает ошибку.
// Это осознанный контракт: ядро не должно падать из-за мусора в хранилище.
func Parse(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// FromFloat конвертирует float64 (например, из запроса API) в decimal
func FromFloat(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

// Crypto квантует значение до точности количества монет (8 знаков)
// Округление half-even не используется: Round в shopspring/decimal
// работает как half away from zero, что соответствует поведению хранилища.
func Crypto(d decimal.Decimal) decimal.Decimal {
	return d.Round(CryptoPlaces)
}

// USD квантует значение до внутренней USD-точности (4 знака)
func USD(d decimal.Decimal) decimal.Decimal {
	return d.Round(USDPlaces)
}

// Display квантует значение до 2 знаков для отображения.
// Используется только на границе презентации, никогда в балансовой математике.
func Display(d decimal.Decimal) decimal.Decimal {
	return d.Round(DisplayPlaces)
}

// IsPositive возвращает true если значение строго больше нуля
func IsPositive(d decimal.Decimal) bool {
	return d.Sign() > 0
}
