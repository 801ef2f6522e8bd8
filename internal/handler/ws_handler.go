package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stemsi/certify-backend/internal/assessment"
	"github.com/stemsi/certify-backend/internal/logger"
	"github.com/stemsi/certify-backend/internal/response"
	"github.com/stemsi/certify-backend/internal/service"
	ws "github.com/stemsi/certify-backend/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler runs a live assessment over a WebSocket. The connection owns its
// session; closing the socket ends the attempt.
type WSHandler struct {
	assessments *service.AssessmentService
	log         zerolog.Logger
	upgrader    websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(assessments *service.AssessmentService, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		assessments: assessments,
		log:         logger.Component(log, "ws_handler"),
		upgrader:    buildUpgrader(allowedOrigins),
	}
}

// AssessmentStream godoc
// WS /ws/v1/assessments/:courseName
func (h *WSHandler) AssessmentStream(c *gin.Context) {
	courseName := c.Param("courseName")

	// Load before upgrading so an unknown course is a plain 404.
	sess, err := h.assessments.NewSession(c.Request.Context(), courseName)
	if err != nil {
		failWith(c, h.log, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	wsLog := h.log.With().
		Str("certification_id", sess.Certification().ID).
		Str("request_id", response.RequestID(c)).
		Logger()
	wsLog.Info().Msg("Learner connected")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := ws.WriteTyped(conn, ws.StateResponse{Event: ws.EventState, State: sess.Snapshot()}); err != nil {
		return
	}

	for {
		var msg ws.Request
		if err := ws.ReadJSON(conn, &msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			} else {
				wsLog.Debug().Msg("Connection closed")
			}
			break
		}

		if err := h.dispatch(ctx, conn, sess, msg); err != nil {
			wsLog.Debug().Err(err).Msg("Write failed")
			break
		}
	}
}

// dispatch applies one client action and writes the reply. It returns an
// error only when the connection can no longer be written to.
func (h *WSHandler) dispatch(ctx context.Context, conn *websocket.Conn, sess *assessment.Session, msg ws.Request) error {
	switch msg.Action {
	case ws.ActionPing:
		return ws.WriteTyped(conn, ws.PongResponse{Event: ws.EventPong})

	case ws.ActionSelect:
		if err := sess.SelectAnswer(msg.AnswerID, msg.Selected); err != nil {
			return writeActionError(conn, err)
		}
		return ws.WriteTyped(conn, ws.StateResponse{Event: ws.EventState, State: sess.Snapshot()})

	case ws.ActionCheck:
		correct, err := sess.CheckAnswer()
		if err != nil {
			return writeActionError(conn, err)
		}
		return ws.WriteTyped(conn, ws.CheckedResponse{Event: ws.EventChecked, Correct: correct, State: sess.Snapshot()})

	case ws.ActionAdvance:
		if err := sess.Advance(); err != nil {
			return writeActionError(conn, err)
		}
		if sess.Completed() {
			h.assessments.RecordCompletion(ctx, sess)
		}
		return ws.WriteTyped(conn, ws.StateResponse{Event: ws.EventState, State: sess.Snapshot()})

	case ws.ActionOutcome:
		out, err := sess.Outcome()
		if err != nil {
			return writeActionError(conn, err)
		}
		return ws.WriteTyped(conn, ws.OutcomeResponse{Event: ws.EventOutcome, Outcome: out})

	case ws.ActionReset:
		sess.Reset()
		return ws.WriteTyped(conn, ws.StateResponse{Event: ws.EventState, State: sess.Snapshot()})

	default:
		h.log.Warn().Str("action", string(msg.Action)).Msg("Unknown action")
		return ws.WriteError(conn, string(response.ErrInvalidPayload), "unknown action: "+string(msg.Action))
	}
}

func writeActionError(conn *websocket.Conn, err error) error {
	_, code := classify(err)
	msg := response.GetMessage(code)
	if errors.Is(err, assessment.ErrUnknownAnswer) {
		msg = err.Error()
	}
	return ws.WriteError(conn, string(code), msg)
}
