// Package events implements ports.EventPublisher for the supported brokers.
package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/target/jobportal/internal/domain/model"
)

// ContentType is the MIME type of every encoded event.
const ContentType = "application/json"

// envelope is the wire form shared by all publishers.
type envelope struct {
	ID            string                     `json:"id"`
	Type          model.ApplicationEventType `json:"type"`
	ApplicationID string                     `json:"application_id"`
	CreatedAt     time.Time                  `json:"created_at"`
	Payload       json.RawMessage            `json:"payload"`
}

func encode(evt *model.ApplicationEvent) ([]byte, error) {
	payload := evt.Payload
	if len(payload) == 0 {
		payload = json.RawMessage(`{}`)
	}
	body, err := json.Marshal(envelope{
		ID:            evt.ID,
		Type:          evt.Type,
		ApplicationID: evt.ApplicationID,
		CreatedAt:     evt.CreatedAt.UTC(),
		Payload:       payload,
	})
	if err != nil {
		return nil, fmt.Errorf("encode event %s: %w", evt.ID, err)
	}
	return body, nil
}
