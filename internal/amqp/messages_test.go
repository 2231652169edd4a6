package amqp

import (
	"testing"
	"time"
)

func TestTransactionEventMessageJSON(t *testing.T) {
	msg := NewTransactionEventMessage("42", ActionUpdated)
	if msg.Timestamp.IsZero() {
		t.Fatalf("timestamp not set")
	}

	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got, err := TransactionEventMessageFromJSON(body)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.ID != "42" || got.Action != ActionUpdated {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if got.Timestamp.Sub(msg.Timestamp) > time.Second {
		t.Fatalf("timestamp drifted: %v vs %v", got.Timestamp, msg.Timestamp)
	}
}

func TestTransactionEventMessageFromJSONInvalid(t *testing.T) {
	if _, err := TransactionEventMessageFromJSON([]byte("{not json")); err == nil {
		t.Fatalf("expected error")
	}
}
