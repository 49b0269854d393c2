// Package events publishes order and contract status changes to a message
// broker for downstream consumers (analytics, audit, integrations). When no
// broker is configured the no-op publisher stands in, so services never
// branch on whether eventing is enabled.
package events

import "time"

const (
	TypeOrderStatusChanged    = "order.status_changed"
	TypeContractStatusChanged = "contract.status_changed"
	TypePaymentRecorded       = "payment.recorded"
	TypeDepositReleased       = "deposit.released"
)

// Event is the envelope for every published message.
type Event struct {
	Type       string            `json:"type"`
	OccurredAt time.Time         `json:"occurred_at"`
	OrderID    int32             `json:"order_id,omitempty"`
	ContractID int32             `json:"contract_id,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// Publisher delivers events best-effort; delivery failures are logged, not
// surfaced to the request path.
type Publisher interface {
	Publish(event Event)
	Close() error
}

type noop struct{}

// NewNoopPublisher returns a publisher that discards everything.
func NewNoopPublisher() Publisher { return noop{} }

func (noop) Publish(Event) {}
func (noop) Close() error  { return nil }
