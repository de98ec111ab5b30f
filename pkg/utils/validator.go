package utils

import (
	"fmt"
	"regexp"
	"strings"
)

// validator.go - валидация входных данных на границе API
//
// Торговое ядро делает собственные проверки; эти функции отсекают
// откровенный мусор (пустые строки, спецсимволы) до обращения к ядру
// или к внешнему API котировок.

// tickerPattern - тикер: 2-10 символов, латиница и цифры
var tickerPattern = regexp.MustCompile(`^[A-Z0-9]{2,10}$`)

// ValidateTicker проверяет формат тикера (BTC, USDT, SOL).
// Регистр не важен - тикер приводится к верхнему перед проверкой.
func ValidateTicker(ticker string) error {
	normalized := strings.ToUpper(strings.TrimSpace(ticker))
	if normalized == "" {
		return fmt.Errorf("ticker is empty")
	}
	if !tickerPattern.MatchString(normalized) {
		return fmt.Errorf("invalid ticker %q", ticker)
	}
	return nil
}

// ValidatePair проверяет формат торговой пары BASE/QUOTE.
// Обе стороны должны быть валидными тикерами и различаться.
func ValidatePair(pair string) error {
	parts := strings.Split(strings.TrimSpace(pair), "/")
	if len(parts) != 2 {
		return fmt.Errorf("pair %q must have the form BASE/QUOTE", pair)
	}
	if err := ValidateTicker(parts[0]); err != nil {
		return fmt.Errorf("pair %q: base: %w", pair, err)
	}
	if err := ValidateTicker(parts[1]); err != nil {
		return fmt.Errorf("pair %q: quote: %w", pair, err)
	}
	if strings.EqualFold(parts[0], parts[1]) {
		return fmt.Errorf("pair %q: base and quote must differ", pair)
	}
	return nil
}

// NormalizeTicker приводит тикер к каноническому виду (верхний регистр,
// без пробелов). Валидацию не делает.
func NormalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

// NormalizePair приводит пару к каноническому виду BASE/QUOTE
func NormalizePair(pair string) string {
	parts := strings.Split(strings.TrimSpace(pair), "/")
	for i, part := range parts {
		parts[i] = NormalizeTicker(part)
	}
	return strings.Join(parts, "/")
}
