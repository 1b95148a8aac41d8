// File: services/assistant/assistant.go
package assistant

import (
	"context"
	"fmt"
	"time"

	"concierge/models"
	"concierge/services/executor"
	"concierge/services/nlu"
	"concierge/services/planner"
	"concierge/services/session"
	"concierge/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultService wires the pipeline stages together. Turns for the same
// session run one at a time because the whole turn executes inside the
// session store's update closure.
type DefaultService struct {
	Parser     nlu.Parser
	Recognizer nlu.Recognizer
	Planner    planner.Planner
	Executor   executor.Executor
	Sessions   session.Store
	Logger     *zap.Logger
}

func NewDefaultService(parser nlu.Parser, rec nlu.Recognizer, pl planner.Planner, ex executor.Executor, store session.Store) *DefaultService {
	return &DefaultService{
		Parser:     parser,
		Recognizer: rec,
		Planner:    pl,
		Executor:   ex,
		Sessions:   store,
		Logger:     utils.GetLogger().Named("assistant"),
	}
}

func (s *DefaultService) ProcessUtterance(ctx context.Context, req models.AssistantRequest) (*models.AssistantResponse, error) {
	ts := time.Now()
	if req.Timestamp != "" {
		parsed, err := time.Parse(time.RFC3339, req.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("invalid timestamp %q: %w", req.Timestamp, err)
		}
		ts = parsed
	}

	utt := models.Utterance{
		ID:        uuid.NewString(),
		SessionID: req.SessionID,
		Text:      req.Text,
		Timestamp: ts,
	}

	var resp *models.AssistantResponse
	_, err := s.Sessions.Update(ctx, req.SessionID, func(dlg *models.DialogContext) error {
		entities := nlu.ExtractAll(s.Parser, utt.Text, utt.Timestamp)
		candidates, err := s.Recognizer.Recognize(ctx, utt)
		if err != nil {
			return fmt.Errorf("intent recognition: %w", err)
		}

		action := s.Planner.Plan(dlg, utt, entities, candidates)
		result := s.Executor.Execute(ctx, req.SessionID, action)
		dlg.Record(utt.Text, action.Type, ts)

		s.Logger.Debug("turn complete",
			zap.String("sessionID", req.SessionID),
			zap.String("action", string(action.Type)),
			zap.Bool("success", result.Success))

		resp = &models.AssistantResponse{
			SessionID: req.SessionID,
			Response:  result.Message,
			Action:    action.Type,
			Success:   result.Success,
			BookingID: result.BookingID,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}
