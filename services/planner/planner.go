package planner

import (
	"fmt"
	"strconv"
	"strings"

	"concierge/models"
	"concierge/services/scheduler"
)

// DefaultPlanner is the production Planner. It consults the scheduler for
// availability and booking disambiguation but never mutates the ledger
// itself; that is the executor's job.
type DefaultPlanner struct {
	Scheduler scheduler.Engine
	Cfg       Config
}

func NewDefaultPlanner(engine scheduler.Engine, cfg Config) *DefaultPlanner {
	if cfg.NearTieMargin == 0 {
		cfg.NearTieMargin = 0.1
	}
	return &DefaultPlanner{Scheduler: engine, Cfg: cfg}
}

func (p *DefaultPlanner) Plan(dlg *models.DialogContext, utt models.Utterance, entities []models.Entity, candidates []models.Intent) models.Action {
	switch dlg.State {
	case models.StateAwaitingConfirmation:
		return p.planConfirmation(dlg, utt)
	case models.StateCollecting:
		return p.planCollecting(dlg, entities)
	default:
		return p.planIdle(dlg, utt, entities, candidates)
	}
}

// planConfirmation only leaves AwaitingConfirmation on an explicit yes or
// no; anything else re-prompts until the confirmation retry cap.
func (p *DefaultPlanner) planConfirmation(dlg *models.DialogContext, utt models.Utterance) models.Action {
	pending := dlg.AwaitingConfirm
	if pending == nil {
		dlg.Reset()
		return fallbackAction()
	}

	switch parseYesNo(utt.Text) {
	case verdictYes:
		action := *pending
		dlg.Reset()
		return action
	case verdictNo:
		dlg.Reset()
		return models.Action{
			Type:    models.ActionSay,
			Message: "Okay, I won't go ahead with that. Anything else I can do?",
		}
	default:
		dlg.ConfirmAttempts++
		if dlg.ConfirmAttempts > p.Cfg.ConfirmRetryCap {
			dlg.Reset()
			return models.Action{Type: models.ActionReject, Reason: "confirmation timed out"}
		}
		reprompt := *pending
		reprompt.Type = models.ActionRequestConfirm
		reprompt.Message = "Sorry, I need a yes or no. " + confirmPrompt(*pending)
		return reprompt
	}
}

// planCollecting merges newly supplied entities into the collected slots and
// re-runs the pending intent's slot-filling.
func (p *DefaultPlanner) planCollecting(dlg *models.DialogContext, entities []models.Entity) models.Action {
	if dlg.PendingIntent == nil {
		dlg.Reset()
		return fallbackAction()
	}
	mergeEntities(dlg.CollectedSlots, entities)

	if dlg.PendingIntent.Label == models.IntentCancel {
		return p.planCancel(dlg)
	}
	return p.planBooking(dlg)
}

func (p *DefaultPlanner) planIdle(dlg *models.DialogContext, utt models.Utterance, entities []models.Entity, candidates []models.Intent) models.Action {
	if len(candidates) == 0 {
		return fallbackAction()
	}
	top := candidates[0]

	if top.Label == models.IntentUnknown || top.Confidence < p.Cfg.ClarifyThreshold {
		return fallbackAction()
	}
	if top.Confidence < p.Cfg.AcceptThreshold {
		return models.Action{
			Type:        models.ActionAskClarify,
			MissingSlot: "intent",
			Message:     "I'm not sure I understood. Could you rephrase that?",
		}
	}
	if len(candidates) > 1 && candidates[1].Label != top.Label &&
		top.Confidence-candidates[1].Confidence < p.Cfg.NearTieMargin {
		return models.Action{
			Type:        models.ActionAskClarify,
			MissingSlot: "intent",
			Message: fmt.Sprintf("Did you want to %s or %s?",
				describeIntent(top.Label), describeIntent(candidates[1].Label)),
		}
	}

	switch top.Label {
	case models.IntentBook:
		intent := top
		dlg.PendingIntent = &intent
		dlg.CollectedSlots = make(map[string]string)
		mergeEntities(dlg.CollectedSlots, entities)
		return p.planBooking(dlg)

	case models.IntentCancel:
		intent := top
		dlg.PendingIntent = &intent
		dlg.CollectedSlots = make(map[string]string)
		mergeEntities(dlg.CollectedSlots, entities)
		return p.planCancel(dlg)

	case models.IntentShowAvailability:
		date := dateOrDefault(entities, utt)
		return models.Action{Type: models.ActionShowAvailability, Date: date}

	case models.IntentShowBookings:
		var date string
		if e, ok := findEntity(entities, models.EntityDate); ok {
			date = e.Value
		}
		return models.Action{Type: models.ActionShowBookings, Date: date}

	case models.IntentSystem:
		return systemTaskAction(utt)

	case models.IntentGreet:
		return greetAction(dlg)
	}

	return fallbackAction()
}

// planBooking fills the booking slots in precedence order (date, then time),
// asks for the first missing one, and once complete proposes the slot for
// confirmation.
func (p *DefaultPlanner) planBooking(dlg *models.DialogContext) models.Action {
	if missing, prompt := firstMissingSlot(dlg.CollectedSlots); missing != "" {
		return p.askClarify(dlg, missing, prompt)
	}

	date := dlg.CollectedSlots[models.SlotDate]
	var slot models.Slot
	if dlg.CollectedSlots[models.SlotTime] == "first_available" {
		available, err := p.Scheduler.QueryAvailable(date)
		if err != nil || len(available) == 0 {
			dlg.Reset()
			return models.Action{Type: models.ActionReject, Reason: fmt.Sprintf("no available slots on %s", date)}
		}
		slot = available[0]
	} else {
		start, err := clockToMinutes(dlg.CollectedSlots[models.SlotTime])
		if err != nil {
			return p.askClarify(dlg, models.SlotTime, "What time works for you?")
		}
		template, ok := p.Scheduler.FindSlot(date, start)
		if !ok {
			dlg.Reset()
			return models.Action{
				Type:   models.ActionReject,
				Reason: fmt.Sprintf("%s at %s is outside bookable hours", date, models.MinutesToClock(start)),
			}
		}
		if !p.slotIsFree(template) {
			dlg.Reset()
			return models.Action{
				Type:   models.ActionReject,
				Reason: fmt.Sprintf("%s at %s is already taken", date, models.MinutesToClock(start)),
			}
		}
		slot = template
	}

	book := models.Action{Type: models.ActionBook, Slot: &slot}
	dlg.AwaitingConfirm = &book
	dlg.State = models.StateAwaitingConfirmation
	dlg.ConfirmAttempts = 0

	confirm := book
	confirm.Type = models.ActionRequestConfirm
	confirm.Message = confirmPrompt(book)
	return confirm
}

// planCancel narrows confirmed bookings by the collected date/time. Several
// matches mean the reference is ambiguous and the planner asks for the day
// rather than picking one.
func (p *DefaultPlanner) planCancel(dlg *models.DialogContext) models.Action {
	bookings, err := p.Scheduler.ListBookings(models.BookingFilter{Status: models.BookingConfirmed})
	if err != nil {
		dlg.Reset()
		return models.Action{Type: models.ActionReject, Reason: "could not look up your bookings"}
	}

	var matches []models.Booking
	for _, b := range bookings {
		if d := dlg.CollectedSlots[models.SlotDate]; d != "" && b.Date != d {
			continue
		}
		if t := dlg.CollectedSlots[models.SlotTime]; t != "" && t != "first_available" {
			if start, err := clockToMinutes(t); err == nil && b.Start != start {
				continue
			}
		}
		matches = append(matches, b)
	}

	switch {
	case len(matches) == 0:
		dlg.Reset()
		return models.Action{Type: models.ActionReject, Reason: "no matching booking found"}
	case len(matches) > 1:
		return p.askClarify(dlg, models.SlotDate,
			fmt.Sprintf("You have %d bookings matching that. Which day is it on?", len(matches)))
	}

	target := matches[0]
	cancel := models.Action{Type: models.ActionCancel, BookingID: target.ID}
	dlg.AwaitingConfirm = &cancel
	dlg.State = models.StateAwaitingConfirmation
	dlg.ConfirmAttempts = 0

	return models.Action{
		Type:      models.ActionRequestConfirm,
		BookingID: target.ID,
		Message: fmt.Sprintf("Cancel your booking on %s at %s. Shall I go ahead?",
			target.Date, models.MinutesToClock(target.Start)),
	}
}

// askClarify emits AskClarify, moving to Collecting, until the retry cap.
func (p *DefaultPlanner) askClarify(dlg *models.DialogContext, missing, prompt string) models.Action {
	dlg.ClarifyAttempts++
	if dlg.ClarifyAttempts > p.Cfg.ClarifyRetryCap {
		dlg.Reset()
		return models.Action{Type: models.ActionReject, Reason: "unable to determine booking details"}
	}
	dlg.State = models.StateCollecting
	return models.Action{Type: models.ActionAskClarify, MissingSlot: missing, Message: prompt}
}

func (p *DefaultPlanner) slotIsFree(slot models.Slot) bool {
	available, err := p.Scheduler.QueryAvailable(slot.Date)
	if err != nil {
		return false
	}
	for _, s := range available {
		if s.Start == slot.Start {
			return true
		}
	}
	return false
}

// firstMissingSlot checks the required booking slots in precedence order.
// Duration is optional: the calendar template fixes slot length.
func firstMissingSlot(collected map[string]string) (string, string) {
	if collected[models.SlotDate] == "" {
		return models.SlotDate, "What day would you like to book?"
	}
	if collected[models.SlotTime] == "" {
		return models.SlotTime, "What time works for you?"
	}
	return "", ""
}

// mergeEntities folds newly extracted entities into the collected slots.
// An explicit time wins over a "first available" reference.
func mergeEntities(collected map[string]string, entities []models.Entity) {
	for _, e := range entities {
		switch e.Kind {
		case models.EntityDate:
			collected[models.SlotDate] = e.Value
		case models.EntityTime:
			collected[models.SlotTime] = e.Value
		case models.EntityDuration:
			collected[models.SlotDuration] = e.Value
		case models.EntityReference:
			if collected[models.SlotTime] == "" {
				collected[models.SlotTime] = "first_available"
			}
		}
	}
}

func findEntity(entities []models.Entity, kind models.EntityKind) (models.Entity, bool) {
	for _, e := range entities {
		if e.Kind == kind {
			return e, true
		}
	}
	return models.Entity{}, false
}

func dateOrDefault(entities []models.Entity, utt models.Utterance) string {
	if e, ok := findEntity(entities, models.EntityDate); ok {
		return e.Value
	}
	return utt.Timestamp.Format("2006-01-02")
}

func clockToMinutes(clock string) (int, error) {
	parts := strings.SplitN(clock, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("malformed clock value %q", clock)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, err
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, err
	}
	return hour*60 + minute, nil
}

func confirmPrompt(a models.Action) string {
	if a.Slot != nil {
		return fmt.Sprintf("I'll book %s at %s. Shall I go ahead?",
			a.Slot.Date, models.MinutesToClock(a.Slot.Start))
	}
	return "Shall I go ahead?"
}

func describeIntent(label models.IntentLabel) string {
	switch label {
	case models.IntentBook:
		return "book a slot"
	case models.IntentCancel:
		return "cancel a booking"
	case models.IntentShowAvailability:
		return "see availability"
	case models.IntentShowBookings:
		return "see your bookings"
	case models.IntentSystem:
		return "run a task"
	default:
		return string(label)
	}
}

func greetAction(dlg *models.DialogContext) models.Action {
	message := "Hello! I can book slots, check availability, and manage your bookings. What would you like to do?"
	if len(dlg.History) > 0 {
		message = "Hello again! How can I help you?"
	}
	return models.Action{Type: models.ActionSay, Message: message}
}

func systemTaskAction(utt models.Utterance) models.Action {
	lower := strings.ToLower(utt.Text)
	kind := "unknown"
	for _, k := range []string{"shutdown", "restart", "open", "launch", "run", "execute"} {
		if strings.Contains(lower, k) {
			kind = k
			break
		}
	}
	return models.Action{
		Type:     models.ActionSystemTask,
		TaskKind: kind,
		TaskArgs: map[string]string{"text": utt.Text},
	}
}

func fallbackAction() models.Action {
	return models.Action{
		Type:    models.ActionSay,
		Message: "I didn't quite catch that. You can ask me to book a slot, check availability, or cancel a booking.",
	}
}
