package websocket

import (
	"testing"
)

func TestBroadcastBalanceDeliversTypedEnvelope(t *testing.T) {
	hub := NewHub()
	client := &Client{send: make(chan envelope, 1)}
	hub.Register("user-1", client)

	hub.BroadcastBalance("user-1", BalanceUpdate{WalletID: "wallet-1", Balance: "250.50", Currency: "HTG"})

	select {
	case got := <-client.send:
		if got.Event != "balance" {
			t.Fatalf("event = %q, want balance", got.Event)
		}
		update, ok := got.Data.(BalanceUpdate)
		if !ok {
			t.Fatalf("data is %T, want BalanceUpdate", got.Data)
		}
		if update.WalletID != "wallet-1" || update.Balance != "250.50" {
			t.Fatalf("unexpected update: %+v", update)
		}
	default:
		t.Fatal("expected an envelope on the client channel")
	}
}

func TestBroadcastOnlyReachesTargetUser(t *testing.T) {
	hub := NewHub()
	mine := &Client{send: make(chan envelope, 1)}
	theirs := &Client{send: make(chan envelope, 1)}
	hub.Register("user-1", mine)
	hub.Register("user-2", theirs)

	hub.BroadcastNotification("user-1", NotificationEvent{ID: "n-1", Type: "deposit", Message: "ok"})

	if len(mine.send) != 1 {
		t.Fatal("target user should receive the event")
	}
	if len(theirs.send) != 0 {
		t.Fatal("other users must not receive the event")
	}
}

func TestBroadcastDropsWhenClientIsSlow(t *testing.T) {
	hub := NewHub()
	client := &Client{send: make(chan envelope, 1)}
	hub.Register("user-1", client)

	// Second send finds the buffer full and must not block.
	hub.BroadcastBalance("user-1", BalanceUpdate{WalletID: "wallet-1", Balance: "1.00", Currency: "HTG"})
	hub.BroadcastBalance("user-1", BalanceUpdate{WalletID: "wallet-1", Balance: "2.00", Currency: "HTG"})

	got := <-client.send
	if got.Data.(BalanceUpdate).Balance != "1.00" {
		t.Fatalf("oldest buffered event should survive, got %+v", got.Data)
	}
	if len(client.send) != 0 {
		t.Fatal("overflow event should have been dropped")
	}
}

func TestUnregisterStopsDelivery(t *testing.T) {
	hub := NewHub()
	client := &Client{send: make(chan envelope, 1)}
	hub.Register("user-1", client)
	hub.Unregister("user-1", client)

	hub.BroadcastBalance("user-1", BalanceUpdate{WalletID: "wallet-1", Balance: "1.00", Currency: "HTG"})

	if len(client.send) != 0 {
		t.Fatal("unregistered client must not receive events")
	}
}
