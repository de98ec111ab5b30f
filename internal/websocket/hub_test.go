package websocket

import (
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/FaustoLovera/Trabajo-Simulador-Exchange-sub000/internal/models"
	"github.com/FaustoLovera/Trabajo-Simulador-Exchange-sub000/internal/money"
)

func TestNewHub(t *testing.T) {
	hub := NewHub(zap.NewNop())

	if hub == nil {
		t.Fatal("NewHub returned nil")
	}
	if hub.ClientCount() != 0 {
		t.Errorf("expected 0 clients, got %d", hub.ClientCount())
	}
}

func TestOriginChecker_Check(t *testing.T) {
	checker := NewOriginChecker("http://localhost:3000, https://example.com")

	tests := []struct {
		origin string
		want   bool
	}{
		{"", true},                       // non-browser клиенты проходят
		{"http://localhost:3000", true},  // в списке
		{"https://example.com", true},    // в списке
		{"http://evil.com", false},       // не в списке
		{"http://localhost:8080", false}, // не в списке
	}

	for _, tt := range tests {
		if got := checker.Check(tt.origin); got != tt.want {
			t.Errorf("Check(%q) = %v, want %v", tt.origin, got, tt.want)
		}
	}
}

func TestOriginChecker_AllowAll(t *testing.T) {
	for _, origins := range []string{"", "*"} {
		checker := NewOriginChecker(origins)
		if !checker.Check("http://anything.example") {
			t.Errorf("NewOriginChecker(%q) must allow all origins", origins)
		}
	}
}

func TestHubBroadcastDeliversToRegisteredClient(t *testing.T) {
	hub := NewHub(zap.NewNop())
	go hub.Run()

	client := &Client{hub: hub, send: make(chan []byte, clientSendBufferSize)}
	hub.register <- client

	order := &models.Order{
		ID:     "test-order",
		Pair:   "BTC/USDT",
		Type:   models.OrderTypeLimit,
		Action: models.OrderActionBuy,
		Status: models.OrderStatusPending,
	}
	hub.BroadcastOrderUpdate(order)

	select {
	case raw := <-client.send:
		var msg OrderUpdateMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			t.Fatalf("unmarshal broadcast: %v", err)
		}
		if msg.Type != MessageTypeOrderUpdate {
			t.Errorf("Type = %s, want %s", msg.Type, MessageTypeOrderUpdate)
		}
		if msg.Data == nil || msg.Data.ID != "test-order" {
			t.Errorf("unexpected payload: %+v", msg.Data)
		}
	case <-time.After(time.Second):
		t.Fatal("broadcast not delivered within 1s")
	}
}

func TestHubBroadcastWalletUpdate(t *testing.T) {
	hub := NewHub(zap.NewNop())
	go hub.Run()

	client := &Client{hub: hub, send: make(chan []byte, clientSendBufferSize)}
	hub.register <- client

	wallet := models.NewWallet("USDT", money.Parse("10000"))
	hub.BroadcastWalletUpdate(wallet)

	select {
	case raw := <-client.send:
		var msg WalletUpdateMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			t.Fatalf("unmarshal broadcast: %v", err)
		}
		if msg.Type != MessageTypeWalletUpdate {
			t.Errorf("Type = %s, want %s", msg.Type, MessageTypeWalletUpdate)
		}
		if !msg.Data.Balance("USDT").Available.Equal(money.Parse("10000")) {
			t.Errorf("unexpected wallet payload: %+v", msg.Data)
		}
	case <-time.After(time.Second):
		t.Fatal("broadcast not delivered within 1s")
	}
}

// Клиент с забитым буфером не блокирует рассылку и отключается хабом.
func TestHubRemovesSlowClient(t *testing.T) {
	hub := NewHub(zap.NewNop())
	go hub.Run()

	slow := &Client{hub: hub, send: make(chan []byte)} // небуферизованный, никто не читает
	hub.register <- slow

	deadline := time.Now().Add(time.Second)
	for hub.ClientCount() != 1 {
		if time.Now().After(deadline) {
			t.Fatal("client registration timed out")
		}
		time.Sleep(time.Millisecond)
	}

	entry := &models.HistoryEntry{Operation: "market-buy"}
	hub.BroadcastTrade(entry)

	deadline = time.Now().Add(time.Second)
	for hub.ClientCount() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("slow client was not removed")
		}
		time.Sleep(time.Millisecond)
	}
}
