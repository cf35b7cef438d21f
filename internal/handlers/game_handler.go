// internal/handlers/game_handler.go
package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"arcade_gate/internal/config"
	"arcade_gate/internal/middleware"
	"arcade_gate/internal/model"
	"arcade_gate/internal/service"
	"arcade_gate/internal/webutil"

	"github.com/google/uuid"
)

type GameHandler struct {
	service service.GameService
	cfg     *config.Config
	logger  *slog.Logger
}

func NewGameHandler(s service.GameService, cfg *config.Config, logger *slog.Logger) *GameHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &GameHandler{
		service: s,
		cfg:     cfg,
		logger:  logger,
	}
}

// PostGame は新しいゲームを開始するためのハンドラ。
// 復習義務が残っている場合は 409 で拒否されます。
func (h *GameHandler) PostGame(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PostGame"))

	playerID, err := middleware.GetPlayerIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		appErr := model.NewAppError("UNAUTHORIZED", "認証情報が見つかりません。", "", model.ErrForbidden)
		webutil.HandleError(w, logger, appErr)
		return
	}

	resp, err := h.service.StartGame(r.Context(), playerID)
	if err != nil {
		logger.Warn("Game start rejected or failed", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Game started", slog.String("game_id", resp.GameID.String()))
	webutil.RespondWithJSON(w, http.StatusCreated, resp)
}

// GetGameSnapshot は進行中ゲームの現在の状態を返すためのハンドラ
func (h *GameHandler) GetGameSnapshot(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetGameSnapshot"))

	playerID, err := middleware.GetPlayerIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		appErr := model.NewAppError("UNAUTHORIZED", "認証情報が見つかりません。", "", model.ErrForbidden)
		webutil.HandleError(w, logger, appErr)
		return
	}

	gameID, appErr := parseUUIDParam(r, "game_id")
	if appErr != nil {
		logger.Warn("Invalid game ID format in URL")
		webutil.HandleError(w, logger, appErr)
		return
	}

	snap, err := h.service.Snapshot(r.Context(), playerID, gameID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, snap)
}

// PutDirection はパックマンの進行方向を変更するためのハンドラ。
// WebSocketを使わないクライアント向けのフォールバックです。
func (h *GameHandler) PutDirection(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PutDirection"))

	playerID, err := middleware.GetPlayerIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		appErr := model.NewAppError("UNAUTHORIZED", "認証情報が見つかりません。", "", model.ErrForbidden)
		webutil.HandleError(w, logger, appErr)
		return
	}

	gameID, appErr := parseUUIDParam(r, "game_id")
	if appErr != nil {
		logger.Warn("Invalid game ID format in URL")
		webutil.HandleError(w, logger, appErr)
		return
	}

	var req model.SetDirectionRequest
	if err := webutil.DecodeAndValidate(r, &req); err != nil {
		logger.Warn("Invalid direction request", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}

	if err := h.service.SetDirection(r.Context(), playerID, gameID, req.Direction); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// PostStep はゲームを1フレーム進めるためのハンドラ。
// こちらも WebSocket を使わないクライアント向けです。
func (h *GameHandler) PostStep(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PostStep"))

	playerID, err := middleware.GetPlayerIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		appErr := model.NewAppError("UNAUTHORIZED", "認証情報が見つかりません。", "", model.ErrForbidden)
		webutil.HandleError(w, logger, appErr)
		return
	}

	gameID, appErr := parseUUIDParam(r, "game_id")
	if appErr != nil {
		logger.Warn("Invalid game ID format in URL")
		webutil.HandleError(w, logger, appErr)
		return
	}

	snap, err := h.service.Step(r.Context(), playerID, gameID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, snap)
}

// PostPause はゲームを一時停止するためのハンドラ
func (h *GameHandler) PostPause(w http.ResponseWriter, r *http.Request) {
	h.control(w, r, "PostPause", h.service.Pause)
}

// PostResume は一時停止中のゲームを再開するためのハンドラ
func (h *GameHandler) PostResume(w http.ResponseWriter, r *http.Request) {
	h.control(w, r, "PostResume", h.service.Resume)
}

func (h *GameHandler) control(w http.ResponseWriter, r *http.Request, name string, op func(ctx context.Context, playerID, gameID uuid.UUID) error) {
	logger := h.logger.With(slog.String("handler", name))

	playerID, err := middleware.GetPlayerIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		appErr := model.NewAppError("UNAUTHORIZED", "認証情報が見つかりません。", "", model.ErrForbidden)
		webutil.HandleError(w, logger, appErr)
		return
	}

	gameID, appErr := parseUUIDParam(r, "game_id")
	if appErr != nil {
		logger.Warn("Invalid game ID format in URL")
		webutil.HandleError(w, logger, appErr)
		return
	}

	if err := op(r.Context(), playerID, gameID); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PostFinish はゲームを終了し結果を確定するためのハンドラ。
// まだ終わっていないゲームはギブアップ扱いになります。
func (h *GameHandler) PostFinish(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PostFinish"))

	playerID, err := middleware.GetPlayerIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		appErr := model.NewAppError("UNAUTHORIZED", "認証情報が見つかりません。", "", model.ErrForbidden)
		webutil.HandleError(w, logger, appErr)
		return
	}

	gameID, appErr := parseUUIDParam(r, "game_id")
	if appErr != nil {
		logger.Warn("Invalid game ID format in URL")
		webutil.HandleError(w, logger, appErr)
		return
	}

	resp, err := h.service.Finish(r.Context(), playerID, gameID)
	if err != nil {
		logger.Error("Error finishing game in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Game finished",
		slog.String("game_id", gameID.String()),
		slog.Int("score", resp.Score),
		slog.Int("required_count", resp.RequiredCount))
	webutil.RespondWithJSON(w, http.StatusOK, resp)
}
