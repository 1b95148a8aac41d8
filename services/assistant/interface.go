// File: services/assistant/interface.go
package assistant

import (
	"context"

	"concierge/models"
)

// Service turns a raw user utterance into an executed assistant response.
type Service interface {
	// ProcessUtterance runs one full dialogue turn for the request's
	// session: entity extraction, intent recognition, planning, and
	// action execution, updating the session's dialogue context.
	ProcessUtterance(ctx context.Context, req models.AssistantRequest) (*models.AssistantResponse, error)
}
