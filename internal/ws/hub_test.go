package ws

import (
	"encoding/json"
	"testing"
)

func testClient(id int64, hub *Hub) *Client {
	return &Client{AccountID: id, Send: make(chan []byte, 4), hub: hub}
}

func TestNotifyBalance_RoutesToAccount(t *testing.T) {
	hub := NewHub()

	c1 := testClient(1, hub)
	c2 := testClient(2, hub)
	hub.Register(c1)
	hub.Register(c2)

	hub.NotifyBalance(1, 150, "task_reward")

	select {
	case msg := <-c1.Send:
		var ev BalanceEvent
		if err := json.Unmarshal(msg, &ev); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if ev.Type != "balance" || ev.Balance != 150 || ev.Reason != "task_reward" {
			t.Fatalf("unexpected event %+v", ev)
		}
	default:
		t.Fatalf("expected event on account 1's channel")
	}

	select {
	case msg := <-c2.Send:
		t.Fatalf("account 2 must not receive account 1's update: %s", msg)
	default:
	}
}

func TestNotifyBalance_AllClientsOfAccount(t *testing.T) {
	hub := NewHub()

	c1 := testClient(1, hub)
	c2 := testClient(1, hub)
	hub.Register(c1)
	hub.Register(c2)

	hub.NotifyBalance(1, 50, "referral_bonus")

	for i, c := range []*Client{c1, c2} {
		select {
		case <-c.Send:
		default:
			t.Fatalf("client %d did not receive the update", i+1)
		}
	}
}

func TestNotifyBalance_SlowClientDoesNotBlock(t *testing.T) {
	hub := NewHub()

	c := &Client{AccountID: 1, Send: make(chan []byte), hub: hub} // unbuffered, no reader
	hub.Register(c)

	// would deadlock the test if the send were blocking
	hub.NotifyBalance(1, 10, "streak_bonus")
}

func TestUnregister_RemovesClient(t *testing.T) {
	hub := NewHub()

	c := testClient(1, hub)
	hub.Register(c)
	hub.Unregister(c)

	hub.NotifyBalance(1, 10, "task_reward")

	select {
	case msg := <-c.Send:
		t.Fatalf("unregistered client received update: %s", msg)
	default:
	}
}
