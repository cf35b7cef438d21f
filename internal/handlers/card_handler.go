// internal/handlers/card_handler.go
package handlers

import (
	"log/slog"
	"net/http"

	"arcade_gate/internal/middleware"
	"arcade_gate/internal/model"
	"arcade_gate/internal/service"
	"arcade_gate/internal/webutil"
)

type CardHandler struct {
	service service.CardService
	logger  *slog.Logger
}

func NewCardHandler(s service.CardService, logger *slog.Logger) *CardHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CardHandler{
		service: s,
		logger:  logger,
	}
}

// PostCard はデッキに新しいカードを追加するためのハンドラ
func (h *CardHandler) PostCard(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PostCard"))

	playerID, err := middleware.GetPlayerIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		appErr := model.NewAppError("UNAUTHORIZED", "認証情報が見つかりません。", "", model.ErrForbidden)
		webutil.HandleError(w, logger, appErr)
		return
	}

	deckID, appErr := parseUUIDParam(r, "deck_id")
	if appErr != nil {
		logger.Warn("Invalid deck ID format in URL")
		webutil.HandleError(w, logger, appErr)
		return
	}

	var req model.CreateCardRequest
	if err := webutil.DecodeAndValidate(r, &req); err != nil {
		logger.Warn("Invalid card request", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}

	card, err := h.service.CreateCard(r.Context(), playerID, deckID, &req)
	if err != nil {
		logger.Error("Error creating card in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Card created successfully", slog.String("card_id", card.CardID.String()))
	webutil.RespondWithJSON(w, http.StatusCreated, card)
}

// GetCards はデッキ内のカード一覧を取得するためのハンドラ
func (h *CardHandler) GetCards(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetCards"))

	playerID, err := middleware.GetPlayerIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		appErr := model.NewAppError("UNAUTHORIZED", "認証情報が見つかりません。", "", model.ErrForbidden)
		webutil.HandleError(w, logger, appErr)
		return
	}

	deckID, appErr := parseUUIDParam(r, "deck_id")
	if appErr != nil {
		logger.Warn("Invalid deck ID format in URL")
		webutil.HandleError(w, logger, appErr)
		return
	}

	cards, err := h.service.ListCards(r.Context(), playerID, deckID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	if cards == nil {
		cards = []*model.Card{}
	}
	webutil.RespondWithJSON(w, http.StatusOK, cards)
}

// GetCard は特定のカードを取得するためのハンドラ
func (h *CardHandler) GetCard(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetCard"))

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

	card, err := h.service.GetCard(r.Context(), playerID, cardID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, card)
}

// PatchCard はカードの表面・裏面を部分更新するためのハンドラ
func (h *CardHandler) PatchCard(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PatchCard"))

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

	var req model.UpdateCardRequest
	if err := webutil.DecodeAndValidate(r, &req); err != nil {
		logger.Warn("Invalid card request", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}

	if req.Front == nil && req.Back == nil {
		appErr := model.NewAppError("VALIDATION_ERROR", "更新するフィールドが指定されていません。", "", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return
	}

	card, err := h.service.UpdateCard(r.Context(), playerID, cardID, &req)
	if err != nil {
		logger.Error("Error updating card in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, card)
}

// DeleteCard はカードを論理削除するためのハンドラ
func (h *CardHandler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "DeleteCard"))

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

	if err := h.service.DeleteCard(r.Context(), playerID, cardID); err != nil {
		logger.Error("Error deleting card in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Card deleted successfully", slog.String("card_id", cardID.String()))
	w.WriteHeader(http.StatusNoContent)
}
