package websocket

import "github.com/stemsi/certify-backend/internal/model"

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionSelect  Action = "select"
	ActionCheck   Action = "check"
	ActionAdvance Action = "advance"
	ActionOutcome Action = "outcome"
	ActionReset   Action = "reset"
	ActionPing    Action = "ping"
)

// Request is a client message. AnswerID and Selected are only read by the
// select action.
type Request struct {
	Action   Action `json:"action"`
	AnswerID string `json:"answer_id,omitempty"`
	Selected bool   `json:"selected,omitempty"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventState   Event = "state"
	EventChecked Event = "checked"
	EventOutcome Event = "outcome"
	EventError   Event = "error"
	EventPong    Event = "pong"
)

// StateResponse carries the session state after any action that changes it.
type StateResponse struct {
	Event Event                 `json:"event"`
	State model.AssessmentState `json:"state"`
}

// CheckedResponse reports whether the checked question was answered correctly.
type CheckedResponse struct {
	Event   Event                 `json:"event"`
	Correct bool                  `json:"correct"`
	State   model.AssessmentState `json:"state"`
}

type OutcomeResponse struct {
	Event   Event         `json:"event"`
	Outcome model.Outcome `json:"outcome"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Code  string `json:"code,omitempty"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
