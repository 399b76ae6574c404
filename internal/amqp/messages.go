package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// BenefitReleasedMessage announces that an application's benefit has been
// disbursed. The amount travels as a decimal string.
type BenefitReleasedMessage struct {
	ApplicationID int64     `json:"application_id"`
	SeniorID      int64     `json:"senior_id"`
	SeniorName    string    `json:"senior_name"`
	Category      string    `json:"category"`
	Amount        string    `json:"amount"`
	Timestamp     time.Time `json:"timestamp"`
}

func (m *BenefitReleasedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func BenefitReleasedFromJSON(data []byte) (*BenefitReleasedMessage, error) {
	var msg BenefitReleasedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("unmarshal benefit released message: %w", err)
	}
	if msg.ApplicationID == 0 {
		return nil, fmt.Errorf("benefit released message missing application id")
	}
	return &msg, nil
}

// CategoryChangedMessage announces a reconciler-driven category
// reassignment for a senior.
type CategoryChangedMessage struct {
	SeniorID    int64     `json:"senior_id"`
	SeniorName  string    `json:"senior_name"`
	OldCategory string    `json:"old_category"`
	NewCategory string    `json:"new_category"`
	Rule        string    `json:"rule"`
	Timestamp   time.Time `json:"timestamp"`
}

func (m *CategoryChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func CategoryChangedFromJSON(data []byte) (*CategoryChangedMessage, error) {
	var msg CategoryChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("unmarshal category changed message: %w", err)
	}
	if msg.SeniorID == 0 {
		return nil, fmt.Errorf("category changed message missing senior id")
	}
	return &msg, nil
}
