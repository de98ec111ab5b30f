package websocket

import (
	"time"

	"github.com/FaustoLovera/Trabajo-Simulador-Exchange-sub000/internal/models"
)

// MessageType определяет тип WebSocket сообщения
type MessageType string

// Типы WebSocket сообщений
const (
	// MessageTypeOrderUpdate - изменение статуса ордера.
	// Отправляется при создании, отмене, исполнении и ошибке ордера.
	MessageTypeOrderUpdate MessageType = "orderUpdate"

	// MessageTypeWalletUpdate - изменение балансов кошелька.
	// Отправляется после каждой операции, меняющей available/reserved.
	MessageTypeWalletUpdate MessageType = "walletUpdate"

	// MessageTypeTradeExecuted - проведенная сделка.
	// Отправляется при каждой записи в историю торговли.
	MessageTypeTradeExecuted MessageType = "tradeExecuted"
)

// BaseMessage - общая часть всех WebSocket сообщений
type BaseMessage struct {
	Type      MessageType `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
}

// OrderUpdateMessage - сообщение об изменении ордера
type OrderUpdateMessage struct {
	BaseMessage
	Data *models.Order `json:"data"`
}

// WalletUpdateMessage - сообщение с актуальным состоянием кошелька.
// Кошелек отправляется целиком: клиенту не нужно накапливать дельты.
type WalletUpdateMessage struct {
	BaseMessage
	Data models.Wallet `json:"data"`
}

// TradeExecutedMessage - сообщение о проведенной сделке
type TradeExecutedMessage struct {
	BaseMessage
	Data *models.HistoryEntry `json:"data"`
}

// NewOrderUpdateMessage создает сообщение об изменении ордера
func NewOrderUpdateMessage(order *models.Order) *OrderUpdateMessage {
	return &OrderUpdateMessage{
		BaseMessage: BaseMessage{
			Type:      MessageTypeOrderUpdate,
			Timestamp: time.Now().UTC(),
		},
		Data: order,
	}
}

// NewWalletUpdateMessage создает сообщение с состоянием кошелька
func NewWalletUpdateMessage(wallet models.Wallet) *WalletUpdateMessage {
	return &WalletUpdateMessage{
		BaseMessage: BaseMessage{
			Type:      MessageTypeWalletUpdate,
			Timestamp: time.Now().UTC(),
		},
		Data: wallet,
	}
}

// NewTradeExecutedMessage создает сообщение о сделке
func NewTradeExecutedMessage(entry *models.HistoryEntry) *TradeExecutedMessage {
	return &TradeExecutedMessage{
		BaseMessage: BaseMessage{
			Type:      MessageTypeTradeExecuted,
			Timestamp: time.Now().UTC(),
		},
		Data: entry,
	}
}
