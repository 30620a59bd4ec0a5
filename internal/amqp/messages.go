package amqp

import (
	"encoding/json"
	"time"

	"spendwise/internal/core"
)

// BudgetAlertMessage notifies the worker that an account crossed a budget
// threshold. It carries everything needed to render the notification so the
// worker never has to read the store.
type BudgetAlertMessage struct {
	Username        string         `json:"username"`
	Tier            core.AlertTier `json:"tier"`
	TotalSpentCents int64          `json:"total_spent_cents"`
	LimitCents      int64          `json:"limit_cents"`
	OverageCents    int64          `json:"overage_cents,omitempty"`
	PercentUsed     int64          `json:"percent_used,omitempty"`
	Timestamp       time.Time      `json:"timestamp"`
}

// NewBudgetAlertMessage builds a message from a classified alert.
func NewBudgetAlertMessage(username string, totalSpent, limit core.Money, alert core.Alert) *BudgetAlertMessage {
	return &BudgetAlertMessage{
		Username:        username,
		Tier:            alert.Tier,
		TotalSpentCents: totalSpent.Cents,
		LimitCents:      limit.Cents,
		OverageCents:    alert.Overage.Cents,
		PercentUsed:     alert.PercentUsed,
		Timestamp:       time.Now(),
	}
}

func (m *BudgetAlertMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func BudgetAlertMessageFromJSON(data []byte) (*BudgetAlertMessage, error) {
	var msg BudgetAlertMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
