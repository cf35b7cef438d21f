// internal/handlers/review_handler.go
package handlers

import (
	"log/slog"
	"net/http"

	"arcade_gate/internal/middleware"
	"arcade_gate/internal/model"
	"arcade_gate/internal/service"
	"arcade_gate/internal/webutil"

	"github.com/google/uuid"
)

type ReviewHandler struct {
	reviewService service.ReviewService
	gateService   service.GateService
	logger        *slog.Logger
}

func NewReviewHandler(reviewService service.ReviewService, gateService service.GateService, logger *slog.Logger) *ReviewHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReviewHandler{
		reviewService: reviewService,
		gateService:   gateService,
		logger:        logger,
	}
}

// GetReviewCards は復習対象のカードを取得するためのハンドラ。
// クエリパラメータを省略した場合は、保存済みの選択（デッキ・種別）を使います。
func (h *ReviewHandler) GetReviewCards(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetReviewCards"))

	playerID, err := middleware.GetPlayerIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		appErr := model.NewAppError("UNAUTHORIZED", "認証情報が見つかりません。", "", model.ErrForbidden)
		webutil.HandleError(w, logger, appErr)
		return
	}
	logger = logger.With(slog.String("player_id", playerID.String()))

	// 保存済みの選択をデフォルトとして使う
	progress, err := h.gateService.GetProgress(r.Context(), playerID)
	if err != nil {
		logger.Error("Error getting progress from service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}
	deckID := progress.SelectedDeckID
	filter := progress.CardFilter

	if v := r.URL.Query().Get("deck_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			appErr := model.NewAppError("INVALID_URL_PARAM", "deck_idの形式が正しくありません。", "deck_id", model.ErrInvalidInput)
			webutil.HandleError(w, logger, appErr)
			return
		}
		deckID = &id
	}
	if v := r.URL.Query().Get("filter"); v != "" {
		filter = model.CardFilter(v)
	}

	cards, err := h.reviewService.GetReviewCards(r.Context(), playerID, deckID, filter)
	if err != nil {
		logger.Error("Error getting review cards from service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	if cards == nil {
		cards = []*model.ReviewCardResponse{}
	}
	logger.Info("Review cards retrieved successfully", slog.Int("count", len(cards)))
	webutil.RespondWithJSON(w, http.StatusOK, cards)
}

// SubmitReview は1枚分の復習結果を記録するためのハンドラ。
// 正誤に関わらず、復習義務は1枚分消化されます。
func (h *ReviewHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "SubmitReview"))

	playerID, err := middleware.GetPlayerIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		appErr := model.NewAppError("UNAUTHORIZED", "認証情報が見つかりません。", "", model.ErrForbidden)
		webutil.HandleError(w, logger, appErr)
		return
	}

	cardID, appErr := parseUUIDParam(r, "card_id")
	if appErr != nil {
		logger.Warn("Invalid card ID format in URL")
		webutil.HandleError(w, logger, appErr)
		return
	}

	var req model.SubmitReviewRequest
	if err := webutil.DecodeAndValidate(r, &req); err != nil {
		logger.Warn("Invalid review request", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}

	progress, err := h.reviewService.SubmitReview(r.Context(), playerID, cardID, *req.IsCorrect)
	if err != nil {
		logger.Error("Error submitting review in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Review submitted successfully",
		slog.String("card_id", cardID.String()),
		slog.Int("remaining", progress.Remaining()))
	webutil.RespondWithJSON(w, http.StatusOK, &model.SubmitReviewResponse{
		Remaining: progress.Remaining(),
		CanPlay:   progress.CanPlay,
	})
}
