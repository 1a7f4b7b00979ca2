package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"quiz-session-service/internal/app"
	"quiz-session-service/internal/domain"
)

// WSHandler serves the session engine over a WebSocket. Each inbound frame
// gets exactly one reply; the server never pushes, clients poll status.
type WSHandler struct {
	service  *app.SessionService
	logger   *slog.Logger
	upgrader websocket.Upgrader
	routes   map[string]route
}

type route func(ctx context.Context, payload json.RawMessage) (any, error)

func NewWSHandler(service *app.SessionService, logger *slog.Logger) *WSHandler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &WSHandler{
		service: service,
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
	h.routes = map[string]route{
		"startSession":    h.startSession,
		"listSessions":    h.listSessions,
		"updateSession":   h.updateSession,
		"sessionStatus":   h.sessionStatus,
		"sessionResults":  h.sessionResults,
		"join":            h.join,
		"playerStatus":    h.playerStatus,
		"questionInfo":    h.questionInfo,
		"answer":          h.answer,
		"questionResults": h.questionResults,
		"finalResults":    h.finalResults,
		"chat":            h.chat,
		"messages":        h.messages,
	}
	return h
}

type inboundMessage struct {
	Type      string          `json:"type"`
	RequestID string          `json:"requestId,omitempty"`
	Payload   json.RawMessage `json:"payload"`
}

type outboundMessage struct {
	Type      string `json:"type"`
	RequestID string `json:"requestId,omitempty"`
	Payload   any    `json:"payload"`
}

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ServeWS upgrades HTTP requests to websockets and answers requests until the client leaves.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("ws upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Debug("ws read error", "error", err)
			}
			return
		}
		reply := h.handle(r.Context(), inbound)
		if err := conn.WriteJSON(reply); err != nil {
			h.logger.Debug("ws write error", "error", err)
			return
		}
	}
}

func (h *WSHandler) handle(ctx context.Context, inbound inboundMessage) outboundMessage {
	handler, ok := h.routes[inbound.Type]
	if !ok {
		return errorReply(inbound, "invalid_input", "unsupported message type")
	}
	result, err := handler(ctx, inbound.Payload)
	if err != nil {
		code := errorCode(err)
		if code == "internal" {
			h.logger.Error("request failed", "type", inbound.Type, "error", err)
		}
		return errorReply(inbound, code, err.Error())
	}
	return outboundMessage{Type: inbound.Type + "Result", RequestID: inbound.RequestID, Payload: result}
}

func errorReply(inbound inboundMessage, code, message string) outboundMessage {
	return outboundMessage{
		Type:      "error",
		RequestID: inbound.RequestID,
		Payload:   errorPayload{Code: code, Message: message},
	}
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, errBadPayload), errors.Is(err, domain.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrInvalidState):
		return "invalid_state"
	}
	return "internal"
}

var errBadPayload = errors.New("malformed payload")

func decode[T any](payload json.RawMessage) (T, error) {
	var v T
	if len(payload) == 0 {
		return v, errBadPayload
	}
	if err := json.Unmarshal(payload, &v); err != nil {
		return v, errBadPayload
	}
	return v, nil
}

type sessionRef struct {
	SessionID string `json:"sessionId"`
}

type playerRef struct {
	PlayerID string `json:"playerId"`
}

type questionRef struct {
	PlayerID         string `json:"playerId"`
	QuestionPosition int    `json:"questionPosition"`
}

func (h *WSHandler) startSession(ctx context.Context, raw json.RawMessage) (any, error) {
	p, err := decode[struct {
		QuizID       string `json:"quizId"`
		AutoStartNum int    `json:"autoStartNum"`
	}](raw)
	if err != nil {
		return nil, err
	}
	id, err := h.service.StartSession(ctx, p.QuizID, p.AutoStartNum)
	if err != nil {
		return nil, err
	}
	return map[string]string{"sessionId": id}, nil
}

func (h *WSHandler) listSessions(ctx context.Context, raw json.RawMessage) (any, error) {
	p, err := decode[struct {
		QuizID string `json:"quizId"`
	}](raw)
	if err != nil {
		return nil, err
	}
	return h.service.ListSessions(ctx, p.QuizID)
}

func (h *WSHandler) updateSession(ctx context.Context, raw json.RawMessage) (any, error) {
	p, err := decode[struct {
		SessionID string `json:"sessionId"`
		Action    string `json:"action"`
	}](raw)
	if err != nil {
		return nil, err
	}
	action, err := domain.ParseAction(p.Action)
	if err != nil {
		return nil, err
	}
	if err := h.service.UpdateSession(ctx, p.SessionID, action); err != nil {
		return nil, err
	}
	return struct{}{}, nil
}

func (h *WSHandler) sessionStatus(ctx context.Context, raw json.RawMessage) (any, error) {
	p, err := decode[sessionRef](raw)
	if err != nil {
		return nil, err
	}
	return h.service.SessionStatus(ctx, p.SessionID)
}

func (h *WSHandler) sessionResults(ctx context.Context, raw json.RawMessage) (any, error) {
	p, err := decode[sessionRef](raw)
	if err != nil {
		return nil, err
	}
	return h.service.SessionResults(ctx, p.SessionID)
}

func (h *WSHandler) join(ctx context.Context, raw json.RawMessage) (any, error) {
	p, err := decode[struct {
		SessionID string `json:"sessionId"`
		Name      string `json:"name"`
	}](raw)
	if err != nil {
		return nil, err
	}
	id, err := h.service.JoinSession(ctx, p.SessionID, p.Name)
	if err != nil {
		return nil, err
	}
	return map[string]string{"playerId": id}, nil
}

func (h *WSHandler) playerStatus(ctx context.Context, raw json.RawMessage) (any, error) {
	p, err := decode[playerRef](raw)
	if err != nil {
		return nil, err
	}
	return h.service.PlayerStatus(ctx, p.PlayerID)
}

func (h *WSHandler) questionInfo(ctx context.Context, raw json.RawMessage) (any, error) {
	p, err := decode[questionRef](raw)
	if err != nil {
		return nil, err
	}
	return h.service.QuestionInfo(ctx, p.PlayerID, p.QuestionPosition)
}

func (h *WSHandler) answer(ctx context.Context, raw json.RawMessage) (any, error) {
	p, err := decode[struct {
		PlayerID         string   `json:"playerId"`
		QuestionPosition int      `json:"questionPosition"`
		AnswerIDs        []string `json:"answerIds"`
	}](raw)
	if err != nil {
		return nil, err
	}
	if err := h.service.SubmitAnswer(ctx, p.PlayerID, p.QuestionPosition, p.AnswerIDs); err != nil {
		return nil, err
	}
	return struct{}{}, nil
}

func (h *WSHandler) questionResults(ctx context.Context, raw json.RawMessage) (any, error) {
	p, err := decode[questionRef](raw)
	if err != nil {
		return nil, err
	}
	return h.service.QuestionResults(ctx, p.PlayerID, p.QuestionPosition)
}

func (h *WSHandler) finalResults(ctx context.Context, raw json.RawMessage) (any, error) {
	p, err := decode[playerRef](raw)
	if err != nil {
		return nil, err
	}
	return h.service.FinalResults(ctx, p.PlayerID)
}

func (h *WSHandler) chat(ctx context.Context, raw json.RawMessage) (any, error) {
	p, err := decode[struct {
		PlayerID string `json:"playerId"`
		Message  string `json:"messageBody"`
	}](raw)
	if err != nil {
		return nil, err
	}
	if err := h.service.SendMessage(ctx, p.PlayerID, p.Message); err != nil {
		return nil, err
	}
	return struct{}{}, nil
}

func (h *WSHandler) messages(ctx context.Context, raw json.RawMessage) (any, error) {
	p, err := decode[playerRef](raw)
	if err != nil {
		return nil, err
	}
	msgs, err := h.service.Messages(ctx, p.PlayerID)
	if err != nil {
		return nil, err
	}
	return map[string]any{"messages": msgs}, nil
}
