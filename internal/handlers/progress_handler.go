// internal/handlers/progress_handler.go
package handlers

import (
	"log/slog"
	"net/http"

	"arcade_gate/internal/middleware"
	"arcade_gate/internal/model"
	"arcade_gate/internal/service"
	"arcade_gate/internal/webutil"
)

type ProgressHandler struct {
	service service.GateService
	logger  *slog.Logger
}

func NewProgressHandler(s service.GateService, logger *slog.Logger) *ProgressHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProgressHandler{
		service: s,
		logger:  logger,
	}
}

func toProgressResponse(p *model.PlayerProgress) *model.ProgressResponse {
	return &model.ProgressResponse{
		HighScore:      p.HighScore,
		LastGameScore:  p.LastGameScore,
		RequiredCount:  p.RequiredCount,
		CompletedCount: p.CompletedCount,
		Remaining:      p.Remaining(),
		CanPlay:        p.CanPlay,
		SelectedDeckID: p.SelectedDeckID,
		CardFilter:     p.CardFilter,
	}
}

// GetProgress はハイスコアと復習義務の状態を返すためのハンドラ
func (h *ProgressHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetProgress"))

	playerID, err := middleware.GetPlayerIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		appErr := model.NewAppError("UNAUTHORIZED", "認証情報が見つかりません。", "", model.ErrForbidden)
		webutil.HandleError(w, logger, appErr)
		return
	}

	progress, err := h.service.GetProgress(r.Context(), playerID)
	if err != nil {
		logger.Error("Error getting progress from service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, toProgressResponse(progress))
}

// Waive は復習義務を免除するためのハンドラ。
// 復習対象のカードが1枚もない場合の救済措置です。
func (h *ProgressHandler) Waive(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "Waive"))

	playerID, err := middleware.GetPlayerIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		appErr := model.NewAppError("UNAUTHORIZED", "認証情報が見つかりません。", "", model.ErrForbidden)
		webutil.HandleError(w, logger, appErr)
		return
	}

	progress, err := h.service.Waive(r.Context(), playerID)
	if err != nil {
		logger.Error("Error waiving obligation in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Review obligation waived", slog.String("player_id", playerID.String()))
	webutil.RespondWithJSON(w, http.StatusOK, toProgressResponse(progress))
}

// PutReviewTarget は復習対象のデッキとカード種別を変更するためのハンドラ。
// 義務の途中で変更しても、課された枚数は変わりません。
func (h *ProgressHandler) PutReviewTarget(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PutReviewTarget"))

	playerID, err := middleware.GetPlayerIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		appErr := model.NewAppError("UNAUTHORIZED", "認証情報が見つかりません。", "", model.ErrForbidden)
		webutil.HandleError(w, logger, appErr)
		return
	}

	var req model.SelectReviewTargetRequest
	if err := webutil.DecodeAndValidate(r, &req); err != nil {
		logger.Warn("Invalid review target request", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}

	progress, err := h.service.SelectReviewTarget(r.Context(), playerID, req.DeckID, req.CardFilter)
	if err != nil {
		logger.Error("Error selecting review target in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, toProgressResponse(progress))
}
