package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"arcade_gate/internal/config"
	"arcade_gate/internal/game"
	"arcade_gate/internal/handlers"
	"arcade_gate/internal/middleware"
	"arcade_gate/internal/model"
	svc_mocks "arcade_gate/internal/service/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newTestGameHandler(mockService *svc_mocks.GameService) *handlers.GameHandler {
	cfg := &config.Config{}
	cfg.App.GameTickMS = 150
	return handlers.NewGameHandler(mockService, cfg, discardLogger())
}

// --- Test PostGame ---
func TestGameHandler_PostGame(t *testing.T) {
	testPlayerID := uuid.New()
	ctxWithPlayer := middleware.WithPlayerID(context.Background(), testPlayerID)

	tests := []struct {
		name           string
		setupContext   func() context.Context
		setupMock      func(m *svc_mocks.GameService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:         "正常系: ゲーム開始",
			setupContext: func() context.Context { return ctxWithPlayer },
			setupMock: func(m *svc_mocks.GameService) {
				m.On("StartGame", mock.Anything, testPlayerID).Return(&model.GameStartResponse{
					GameID: uuid.New(), HighScore: 500, Lives: 3,
				}, nil).Once()
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `"lives":3`,
		},
		{
			name:         "異常系: 復習義務が残っていると409",
			setupContext: func() context.Context { return ctxWithPlayer },
			setupMock: func(m *svc_mocks.GameService) {
				m.On("StartGame", mock.Anything, testPlayerID).
					Return(nil, model.NewAppError("GAME_LOCKED", "復習があと15枚残っています。", "", model.ErrGameLocked)).Once()
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   "GAME_LOCKED",
		},
		{
			name:           "異常系: 認証情報なし",
			setupContext:   func() context.Context { return context.Background() },
			setupMock:      func(m *svc_mocks.GameService) {},
			expectedStatus: http.StatusForbidden,
			expectedBody:   "UNAUTHORIZED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(svc_mocks.GameService)
			handler := newTestGameHandler(mockService)
			tt.setupMock(mockService)

			req := newJSONRequest(t, http.MethodPost, "/games", nil)
			req = req.WithContext(tt.setupContext())

			rr := httptest.NewRecorder()
			handler.PostGame(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			if tt.expectedBody != "" {
				assert.Contains(t, rr.Body.String(), tt.expectedBody)
			}

			mockService.AssertExpectations(t)
		})
	}
}

// --- Test PutDirection ---
func TestGameHandler_PutDirection(t *testing.T) {
	testPlayerID := uuid.New()
	testGameID := uuid.New()
	ctxWithPlayer := middleware.WithPlayerID(context.Background(), testPlayerID)

	tests := []struct {
		name           string
		gameIDParam    string
		reqBody        interface{}
		setupMock      func(m *svc_mocks.GameService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:        "正常系: 方向変更",
			gameIDParam: testGameID.String(),
			reqBody:     &model.SetDirectionRequest{Direction: "up"},
			setupMock: func(m *svc_mocks.GameService) {
				m.On("SetDirection", mock.Anything, testPlayerID, testGameID, "up").Return(nil).Once()
			},
			expectedStatus: http.StatusNoContent,
		},
		{
			name:           "異常系: 不正な方向はバリデーションで弾かれる",
			gameIDParam:    testGameID.String(),
			reqBody:        `{"direction":"diagonal"}`,
			setupMock:      func(m *svc_mocks.GameService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "VALIDATION_ERROR",
		},
		{
			name:           "異常系: 不正なGameID形式",
			gameIDParam:    "not-a-uuid",
			reqBody:        &model.SetDirectionRequest{Direction: "up"},
			setupMock:      func(m *svc_mocks.GameService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "INVALID_URL_PARAM",
		},
		{
			name:        "異常系: 進行中のゲームが無い",
			gameIDParam: testGameID.String(),
			reqBody:     &model.SetDirectionRequest{Direction: "down"},
			setupMock: func(m *svc_mocks.GameService) {
				m.On("SetDirection", mock.Anything, testPlayerID, testGameID, "down").
					Return(model.NewAppError("NOT_FOUND", "進行中のゲームが見つかりませんでした。", "", model.ErrNotFound)).Once()
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   "NOT_FOUND",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(svc_mocks.GameService)
			handler := newTestGameHandler(mockService)
			tt.setupMock(mockService)

			chiCtx := contextWithChiURLParam(ctxWithPlayer, "game_id", tt.gameIDParam)
			req := newJSONRequest(t, http.MethodPut, "/games/"+tt.gameIDParam+"/direction", tt.reqBody)
			req = req.WithContext(chiCtx)

			rr := httptest.NewRecorder()
			handler.PutDirection(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			if tt.expectedBody != "" {
				assert.Contains(t, rr.Body.String(), tt.expectedBody)
			}

			mockService.AssertExpectations(t)
		})
	}
}

// --- Test PostStep ---
func TestGameHandler_PostStep(t *testing.T) {
	testPlayerID := uuid.New()
	testGameID := uuid.New()
	ctxWithPlayer := middleware.WithPlayerID(context.Background(), testPlayerID)

	t.Run("正常系: 1ステップ進めてスナップショットを返す", func(t *testing.T) {
		mockService := new(svc_mocks.GameService)
		handler := newTestGameHandler(mockService)
		mockService.On("Step", mock.Anything, testPlayerID, testGameID).Return(&game.Snapshot{
			State: "running", Score: 120, Lives: 3, DotsLeft: 145,
		}, nil).Once()

		chiCtx := contextWithChiURLParam(ctxWithPlayer, "game_id", testGameID.String())
		req := newJSONRequest(t, http.MethodPost, "/games/"+testGameID.String()+"/step", nil)
		req = req.WithContext(chiCtx)

		rr := httptest.NewRecorder()
		handler.PostStep(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"score":120`)
		mockService.AssertExpectations(t)
	})
}

// --- Test PostFinish ---
func TestGameHandler_PostFinish(t *testing.T) {
	testPlayerID := uuid.New()
	testGameID := uuid.New()
	ctxWithPlayer := middleware.WithPlayerID(context.Background(), testPlayerID)

	tests := []struct {
		name           string
		setupMock      func(m *svc_mocks.GameService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "正常系: 敗北でノルマが課される",
			setupMock: func(m *svc_mocks.GameService) {
				m.On("Finish", mock.Anything, testPlayerID, testGameID).Return(&model.GameEndResponse{
					Score: 340, HighScore: 870, Won: false,
					RequiredCount: 20, Remaining: 20, CanPlay: false,
				}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"required_count":20`,
		},
		{
			name: "正常系: 勝利でノルマなし",
			setupMock: func(m *svc_mocks.GameService) {
				m.On("Finish", mock.Anything, testPlayerID, testGameID).Return(&model.GameEndResponse{
					Score: 1570, HighScore: 1570, Won: true,
					RequiredCount: 0, Remaining: 0, CanPlay: true,
				}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"can_play":true`,
		},
		{
			name: "異常系: 存在しないゲーム",
			setupMock: func(m *svc_mocks.GameService) {
				m.On("Finish", mock.Anything, testPlayerID, testGameID).
					Return(nil, model.NewAppError("NOT_FOUND", "進行中のゲームが見つかりませんでした。", "", model.ErrNotFound)).Once()
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   "NOT_FOUND",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(svc_mocks.GameService)
			handler := newTestGameHandler(mockService)
			tt.setupMock(mockService)

			chiCtx := contextWithChiURLParam(ctxWithPlayer, "game_id", testGameID.String())
			req := newJSONRequest(t, http.MethodPost, "/games/"+testGameID.String()+"/finish", nil)
			req = req.WithContext(chiCtx)

			rr := httptest.NewRecorder()
			handler.PostFinish(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			if tt.expectedBody != "" {
				assert.Contains(t, rr.Body.String(), tt.expectedBody)
			}

			mockService.AssertExpectations(t)
		})
	}
}
