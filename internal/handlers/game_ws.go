// internal/handlers/game_ws.go
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"arcade_gate/internal/game"
	"arcade_gate/internal/middleware"
	"arcade_gate/internal/model"
	"arcade_gate/internal/webutil"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	wsWriteWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	wsPongWait = 60 * time.Second

	// Maximum message size allowed from peer.
	wsMaxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// オリジン検査はCORSミドルウェア側の設定に委ねる
	CheckOrigin: func(r *http.Request) bool { return true },
}

// インバウンドメッセージ。typeで分岐し、directionはtype=directionのときのみ使う。
type wsInboundMsg struct {
	Type      string `json:"type"` // direction | pause | resume | quit
	Direction string `json:"direction,omitempty"`
}

type wsSnapshotMsg struct {
	Type     string         `json:"type"` // snapshot
	Snapshot *game.Snapshot `json:"snapshot"`
}

type wsGameEndMsg struct {
	Type   string                 `json:"type"` // game_end
	Result *model.GameEndResponse `json:"result"`
}

type wsErrorMsg struct {
	Type    string `json:"type"` // error
	Message string `json:"message"`
}

// GameSocket は進行中ゲームとのWebSocket接続を確立するためのハンドラ。
// サーバー側のティッカーでゲームを進行させ、フレームごとにスナップショットを
// 送信します。終局後は結果を1度だけ送って接続を閉じます。
func (h *GameHandler) GameSocket(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GameSocket"))

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
	logger = logger.With(slog.String("game_id", gameID.String()))

	// アップグレード前に存在確認しておく
	if _, err := h.service.Snapshot(r.Context(), playerID, gameID); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("WebSocket upgrade failed", slog.Any("error", err))
		return
	}
	defer conn.Close()

	logger.Info("WebSocket connected")
	h.runGameLoop(r, conn, playerID, gameID, logger)
}

// runGameLoop は1接続分のゲームループです。読み取りは別ゴルーチンで行い、
// 書き込みはこのゴルーチンに集約します。
func (h *GameHandler) runGameLoop(r *http.Request, conn *websocket.Conn, playerID, gameID uuid.UUID, logger *slog.Logger) {
	ctx := r.Context()

	conn.SetReadLimit(wsMaxMessageSize)
	conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(wsPongWait))
		return nil
	})

	inbound := make(chan wsInboundMsg, 8)
	readDone := make(chan struct{})

	go func() {
		defer close(readDone)
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					logger.Warn("WebSocket read error", slog.Any("error", err))
				}
				return
			}
			var msg wsInboundMsg
			if err := json.Unmarshal(data, &msg); err != nil {
				logger.Warn("Invalid WebSocket message", slog.Any("error", err))
				continue
			}
			inbound <- msg
		}
	}()

	ticker := time.NewTicker(time.Duration(h.cfg.App.GameTickMS) * time.Millisecond)
	defer ticker.Stop()

	writeJSON := func(v interface{}) error {
		conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		return conn.WriteJSON(v)
	}

	finish := func() {
		result, err := h.service.Finish(ctx, playerID, gameID)
		if err != nil {
			logger.Error("Error finishing game after socket loop", slog.Any("error", err))
			writeJSON(&wsErrorMsg{Type: "error", Message: "ゲーム結果の確定に失敗しました。"})
			return
		}
		writeJSON(&wsGameEndMsg{Type: "game_end", Result: result})
	}

	for {
		select {
		case <-readDone:
			// クライアント切断。ゲームはそのまま残し、アイドル回収に任せる。
			logger.Info("WebSocket disconnected")
			return

		case msg := <-inbound:
			switch msg.Type {
			case "direction":
				if err := h.service.SetDirection(ctx, playerID, gameID, msg.Direction); err != nil {
					writeJSON(&wsErrorMsg{Type: "error", Message: "方向を変更できませんでした。"})
				}
			case "pause":
				if err := h.service.Pause(ctx, playerID, gameID); err != nil {
					writeJSON(&wsErrorMsg{Type: "error", Message: "一時停止できませんでした。"})
				}
			case "resume":
				if err := h.service.Resume(ctx, playerID, gameID); err != nil {
					writeJSON(&wsErrorMsg{Type: "error", Message: "再開できませんでした。"})
				}
			case "quit":
				finish()
				return
			default:
				writeJSON(&wsErrorMsg{Type: "error", Message: "不明なメッセージ種別です: " + msg.Type})
			}

		case <-ticker.C:
			snap, err := h.service.Step(ctx, playerID, gameID)
			if err != nil {
				// ゲームがアイドル回収などで消えた場合
				writeJSON(&wsErrorMsg{Type: "error", Message: "ゲームが見つかりませんでした。"})
				return
			}
			if err := writeJSON(&wsSnapshotMsg{Type: "snapshot", Snapshot: snap}); err != nil {
				logger.Warn("WebSocket write error", slog.Any("error", err))
				return
			}
			if snap.State == game.StateGameOver.String() || snap.State == game.StateWon.String() {
				finish()
				return
			}
		}
	}
}
