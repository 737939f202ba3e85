package orders

import "testing"

func TestCanTransition(t *testing.T) {
	allowed := [][2]Status{
		{StatusPending, StatusPaid},
		{StatusPending, StatusFailed},
		{StatusPaid, StatusShipped},
		{StatusPaid, StatusFailed},
		{StatusShipped, StatusDelivered},
	}
	for _, tc := range allowed {
		if !CanTransition(tc[0], tc[1]) {
			t.Errorf("expected %s -> %s to be allowed", tc[0], tc[1])
		}
	}

	denied := [][2]Status{
		{StatusPending, StatusShipped},
		{StatusPending, StatusDelivered},
		{StatusPaid, StatusPending},
		{StatusDelivered, StatusShipped},
		{StatusFailed, StatusPaid},
		{StatusFailed, StatusPending},
	}
	for _, tc := range denied {
		if CanTransition(tc[0], tc[1]) {
			t.Errorf("expected %s -> %s to be denied", tc[0], tc[1])
		}
	}
}
