package storage

import (
	"github.com/FaustoLovera/Trabajo-Simulador-Exchange-sub000/internal/models"
)

// storage.go - контракты хранилищ кошелька, ордеров и журналов
//
// Политика отказоустойчивости (общая для всех реализаций):
// отсутствующий или повреждённый носитель НЕ является ошибкой для
// вызывающего. Load-методы в этом случае логируют проблему и возвращают
// пустое/засеянное значение по умолчанию. Ядро (manager, matcher)
// всегда получает полноценную структуру.

// WalletStore - персистентность кошелька.
// При отсутствии носителя Load возвращает кошелёк, засеянный начальным
// балансом из конфигурации.
type WalletStore interface {
	Load() models.Wallet
	Save(w models.Wallet) error
}

// OrderStore - персистентность списка ордеров
type OrderStore interface {
	// LoadAll возвращает все ордера в порядке создания
	LoadAll() []*models.Order

	// LoadPending возвращает только ордера в статусе pending,
	// сохраняя исходный порядок списка
	LoadPending() []*models.Order

	// SaveAll перезаписывает весь список ордеров
	SaveAll(orders []*models.Order) error

	// Append добавляет ордер или замещает существующий с тем же ID
	Append(order *models.Order) error
}

// HistoryStore - append-only журнал операций
type HistoryStore interface {
	LoadAll() []models.HistoryEntry
	Append(entry models.HistoryEntry) error
}

// FeeStore - append-only журнал комиссий
type FeeStore interface {
	LoadAll() []models.FeeRecord
	Append(rec models.FeeRecord) error
}

// Stores - набор всех хранилищ, собираемый в main по драйверу из конфига
type Stores struct {
	Wallet  WalletStore
	Orders  OrderStore
	History HistoryStore
	Fees    FeeStore
}
