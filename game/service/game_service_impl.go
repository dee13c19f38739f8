package service

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/wricardo/tiletreasure/game/engine"
	"github.com/wricardo/tiletreasure/internal/telemetry"
)

// Pagination defaults for GetMoveHistory
const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = engine.MaxHistoryPage
)

var rejectionText = map[engine.MoveRejection]string{
	engine.RejectUnknown:      "no such player",
	engine.RejectGameOver:     "the game is over",
	engine.RejectInactive:     "that player is out of moves",
	engine.RejectNotCurrent:   "it is not that player's turn",
	engine.RejectOffBoard:     "that square is off the board",
	engine.RejectVisited:      "that tile is already taken",
	engine.RejectNotAdjacent:  "you can only move one square",
	engine.RejectOverCapacity: "that tile is too heavy",
}

// DescribeRejection returns a player-facing phrase for a rejection code
func DescribeRejection(reason engine.MoveRejection) string {
	if text, ok := rejectionText[reason]; ok {
		return text
	}
	return string(reason)
}

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	tracer   trace.Tracer
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
		tracer:   telemetry.Tracer("service"),
	}
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, opts CreateOptions) (*SessionInfo, error) {
	_, span := s.tracer.Start(ctx, "service.create_session",
		trace.WithAttributes(attribute.String("config", opts.ConfigName)))
	defer span.End()

	var config *engine.GameConfig
	if opts.ConfigName != "" {
		var err error
		config, err = s.configs.LoadConfig(opts.ConfigName)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			return nil, s.configNotFound(opts.ConfigName, err)
		}
	} else {
		config = s.configs.GetDefault()
	}

	sess, err := s.sessions.Create("", config, opts.Seed)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	span.SetAttributes(
		attribute.String("session", sess.ID),
		attribute.Int64("seed", sess.Seed),
	)

	log.WithFields(log.Fields{
		"session": sess.ID,
		"config":  config.Name,
		"seed":    sess.Seed,
	}).Info("session created")

	return sessionInfo(sess), nil
}

// configNotFound lists the available rule sets in the error when possible
func (s *gameServiceImpl) configNotFound(name string, err error) error {
	available, listErr := s.configs.ListConfigs()
	if listErr != nil || len(available) == 0 {
		return fmt.Errorf("failed to load config %s: %w", name, err)
	}
	ids := make([]string, 0, len(available))
	for _, cfg := range available {
		ids = append(ids, cfg.ConfigID)
	}
	return fmt.Errorf("config '%s' not found, available configs: %v: %w", name, ids, err)
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	return sessionInfo(sess), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, sessionInfo(sess))
	}
	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	if err := s.sessions.Delete(sessionID); err != nil {
		return err
	}
	log.WithField("session", sessionID).Info("session deleted")
	return nil
}

// Move applies a human move. Rejections come back as an unsuccessful result,
// not as an error, and leave the game untouched.
func (s *gameServiceImpl) Move(ctx context.Context, sessionID string, playerID, row, col int) (*MoveResult, error) {
	_, span := s.tracer.Start(ctx, "service.move", trace.WithAttributes(
		attribute.String("session", sessionID),
		attribute.Int("player", playerID),
		attribute.Int("row", row),
		attribute.Int("col", col),
	))
	defer span.End()

	sess, err := s.session(sessionID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	sess.Lock()
	defer sess.Unlock()

	eng := sess.Engine
	if p := eng.GetState().Player(playerID); p != nil && p.IsComputer {
		return nil, fmt.Errorf("player %d: %w", playerID, ErrComputerPlayer)
	}

	result := &MoveResult{
		PlayerID: playerID,
		To:       engine.Position{Row: row, Col: col},
	}

	if reason := eng.CheckMove(playerID, row, col); reason != engine.MoveOK {
		result.Reason = reason
		result.Message = fmt.Sprintf(sess.Config.Messages.Rejected, DescribeRejection(reason))
		result.GameState = eng.Snapshot()
		span.SetAttributes(attribute.String("rejection", string(reason)))
		log.WithFields(log.Fields{
			"session": sessionID,
			"player":  playerID,
			"row":     row,
			"col":     col,
			"reason":  reason,
		}).Debug("move rejected")
		return result, nil
	}

	before := activePlayers(eng.GetState())
	eng.Move(playerID, row, col)
	state := eng.GetState()

	result.Success = true
	result.Message = state.Message
	result.Events = append([]GameEvent{moveEvent(state, playerID)}, s.turnEvents(sess, before)...)
	result.GameState = eng.Snapshot()

	log.WithFields(log.Fields{
		"session": sessionID,
		"player":  playerID,
		"row":     row,
		"col":     col,
	}).Debug("move accepted")

	return result, nil
}

// PlayCPU plays consecutive computer turns until a human holds the turn, the
// game ends or maxTurns turns were played. maxTurns <= 0 means no limit. The
// configured think delay runs before each turn without holding the session
// lock.
func (s *gameServiceImpl) PlayCPU(ctx context.Context, sessionID string, maxTurns int) (*CPUTurnsResult, error) {
	ctx, span := s.tracer.Start(ctx, "service.play_cpu", trace.WithAttributes(
		attribute.String("session", sessionID),
		attribute.Int("max_turns", maxTurns),
	))
	defer span.End()

	sess, err := s.session(sessionID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	result := &CPUTurnsResult{Turns: []CPUTurn{}}
	delay := time.Duration(sess.Config.CPUThinkDelayMs) * time.Millisecond

	for {
		sess.Lock()
		current := sess.Engine.CurrentPlayer()
		stop := ""
		switch {
		case current == nil:
			stop = StopGameOver
		case !current.IsComputer:
			stop = StopHumanTurn
		case maxTurns > 0 && len(result.Turns) >= maxTurns:
			stop = StopMaxTurns
		}
		sess.Unlock()

		if stop != "" {
			result.StoppedReason = stop
			break
		}

		if err := ctx.Err(); err != nil {
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		if delay > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				span.SetStatus(codes.Error, ctx.Err().Error())
				return nil, ctx.Err()
			case <-timer.C:
			}
		}

		sess.Lock()
		turn, events, played := s.playCPUTurn(sess)
		sess.Unlock()

		if played {
			result.Turns = append(result.Turns, turn)
			result.Events = append(result.Events, events...)
		}
	}

	sess.Lock()
	state := sess.Engine.Snapshot()
	sess.Unlock()

	result.GameState = state
	if current := state.Current(); current != nil {
		result.NextPlayerID = current.ID
	}
	span.SetAttributes(
		attribute.Int("turns", len(result.Turns)),
		attribute.String("stopped_reason", result.StoppedReason),
	)

	return result, nil
}

// playCPUTurn runs one selector turn under the session lock. The current
// player is re-read because the game may have changed during the delay.
func (s *gameServiceImpl) playCPUTurn(sess *Session) (CPUTurn, []GameEvent, bool) {
	eng := sess.Engine
	current := eng.CurrentPlayer()
	if current == nil || !current.IsComputer {
		return CPUTurn{}, nil, false
	}

	turn := CPUTurn{PlayerID: current.ID, From: current.Position()}
	before := activePlayers(eng.GetState())

	dest, moved := eng.PlayCPUTurn()
	state := eng.GetState()

	var events []GameEvent
	if moved {
		turn.Moved = true
		turn.To = dest
		tile := state.Board.Tile(dest.Row, dest.Col)
		turn.Value = tile.Value
		turn.Weight = tile.Weight
		events = append(events, moveEvent(state, turn.PlayerID))
	} else {
		turn.To = turn.From
	}
	events = append(events, s.turnEvents(sess, before)...)

	log.WithFields(log.Fields{
		"session": sess.ID,
		"player":  turn.PlayerID,
		"row":     turn.To.Row,
		"col":     turn.To.Col,
		"moved":   moved,
	}).Debug("cpu turn")

	return turn, events, true
}

// NewGame starts a fresh board in an existing session
func (s *gameServiceImpl) NewGame(ctx context.Context, sessionID string) (*engine.GameState, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	sess.Lock()
	defer sess.Unlock()

	sess.Engine.Reset()
	log.WithField("session", sessionID).Info("new game")

	return sess.Engine.Snapshot(), nil
}

// GetGameState returns a snapshot of the session's game
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	sess.Lock()
	defer sess.Unlock()

	return sess.Engine.Snapshot(), nil
}

// GetLegalMoves returns the squares the player may move to right now. It is
// empty when the player does not hold the turn.
func (s *gameServiceImpl) GetLegalMoves(ctx context.Context, sessionID string, playerID int) ([]engine.Position, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	sess.Lock()
	defer sess.Unlock()

	if sess.Engine.GetState().Player(playerID) == nil {
		return nil, fmt.Errorf("player %d: %s", playerID, DescribeRejection(engine.RejectUnknown))
	}

	current := sess.Engine.CurrentPlayer()
	if current == nil || current.ID != playerID {
		return []engine.Position{}, nil
	}

	moves := sess.Engine.GetLegalMoves(playerID)
	if moves == nil {
		moves = []engine.Position{}
	}
	return moves, nil
}

// GetMoveHistory returns paginated move history
func (s *gameServiceImpl) GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	sess.Lock()
	history := append([]engine.MoveHistoryEntry(nil), sess.Engine.GetMoveHistory()...)
	sess.Unlock()

	return paginate(history, opts), nil
}

// paginate slices history into one page
func paginate(history []engine.MoveHistoryEntry, opts HistoryOptions) *HistoryResponse {
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = defaultHistoryLimit
	}
	if opts.Limit > maxHistoryLimit {
		opts.Limit = maxHistoryLimit
	}
	if opts.Order != "asc" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	moves := []engine.MoveHistoryEntry{}
	if start < total {
		if opts.Order == "desc" {
			// Most recent first
			for i := total - 1 - start; i >= total-end; i-- {
				moves = append(moves, history[i])
			}
		} else {
			moves = append(moves, history[start:end]...)
		}
	}

	return &HistoryResponse{
		Moves:       moves,
		TotalMoves:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}
}

// ListConfigs returns available rule sets
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific rule set
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	return s.configs.LoadConfig(configName)
}

// session looks up a session and marks it accessed
func (s *gameServiceImpl) session(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	if err := s.sessions.UpdateLastAccessed(sessionID); err != nil {
		log.WithError(err).WithField("session", sessionID).Warn("failed to update last access")
	}
	return sess, nil
}

// turnEvents reports players retired and the game ending since before was taken
func (s *gameServiceImpl) turnEvents(sess *Session, before map[int]bool) []GameEvent {
	state := sess.Engine.GetState()
	now := time.Now()

	var events []GameEvent
	for _, p := range state.Players {
		if before[p.ID] && !p.IsActive {
			events = append(events, GameEvent{
				Type:      "player_out",
				Message:   fmt.Sprintf(sess.Config.Messages.NoMoves, p.Name),
				Timestamp: now,
				PlayerID:  p.ID,
				Position:  p.Position(),
			})
		}
	}

	if state.GameOver {
		events = append(events, GameEvent{
			Type:      "game_over",
			Message:   state.Message,
			Timestamp: now,
		})
		log.WithFields(log.Fields{
			"session": sess.ID,
			"tie":     state.Tie,
		}).Info(state.Message)
	}

	return events
}

// activePlayers records which players could still move
func activePlayers(state *engine.GameState) map[int]bool {
	active := make(map[int]bool, len(state.Players))
	for _, p := range state.Players {
		active[p.ID] = p.IsActive
	}
	return active
}

// moveEvent describes the latest accepted move of playerID
func moveEvent(state *engine.GameState, playerID int) GameEvent {
	p := state.Player(playerID)
	tile := state.Board.Tile(p.Row, p.Col)
	return GameEvent{
		Type:      "move",
		Message:   fmt.Sprintf("%s claimed (%d,%d) for %+d", p.Name, p.Row, p.Col, tile.Value),
		Timestamp: time.Now(),
		PlayerID:  playerID,
		Position:  p.Position(),
	}
}

// sessionInfo builds the public view of a session
func sessionInfo(sess *Session) *SessionInfo {
	sess.Lock()
	defer sess.Unlock()

	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     sess.Config.Name,
		Seed:           sess.Seed,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		GameState:      sess.Engine.Snapshot(),
		GameConfig:     sess.Config,
	}
}
