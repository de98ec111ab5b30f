package trading

import (
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/FaustoLovera/Trabajo-Simulador-Exchange-sub000/internal/market"
	"github.com/FaustoLovera/Trabajo-Simulador-Exchange-sub000/internal/models"
	"github.com/FaustoLovera/Trabajo-Simulador-Exchange-sub000/internal/storage"
)

// Broadcaster рассылает события торговли подписчикам в реальном времени.
// Реализуется websocket-хабом; nil отключает рассылку.
type Broadcaster interface {
	BroadcastOrderUpdate(order *models.Order)
	BroadcastWalletUpdate(wallet models.Wallet)
	BroadcastTrade(entry *models.HistoryEntry)
}

// Desk - общее торговое состояние: хранилища, источник котировок,
// комиссия и мьютекс, сериализующий все циклы load-mutate-persist.
// Менеджер ордеров и матчер работают через один Desk, поэтому
// создание, отмена и свип никогда не пересекаются.
type Desk struct {
	mu      sync.Mutex
	stores  *storage.Stores
	prices  market.PriceSource
	feeRate decimal.Decimal
	hub     Broadcaster
	log     *zap.Logger
}

// NewDesk создает торговый стол.
// hub может быть nil, если рассылка событий не нужна.
func NewDesk(stores *storage.Stores, prices market.PriceSource, feeRate decimal.Decimal, hub Broadcaster, log *zap.Logger) *Desk {
	if log == nil {
		log = zap.NewNop()
	}
	return &Desk{
		stores:  stores,
		prices:  prices,
		feeRate: feeRate,
		hub:     hub,
		log:     log,
	}
}

// FeeRate возвращает действующую ставку комиссии.
func (d *Desk) FeeRate() decimal.Decimal {
	return d.feeRate
}

func (d *Desk) broadcastOrder(order *models.Order) {
	if d.hub != nil {
		d.hub.BroadcastOrderUpdate(order)
	}
}

func (d *Desk) broadcastWallet(wallet models.Wallet) {
	if d.hub != nil {
		d.hub.BroadcastWalletUpdate(wallet.Clone())
	}
}

func (d *Desk) broadcastTrade(entry *models.HistoryEntry) {
	if d.hub != nil {
		d.hub.BroadcastTrade(entry)
	}
}
