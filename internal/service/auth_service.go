// internal/service/auth_service.go
package service

import (
	"context"
	"errors"
	"time"

	"arcade_gate/internal/config"
	"arcade_gate/internal/middleware"
	"arcade_gate/internal/model"
	"arcade_gate/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService interface {
	Register(ctx context.Context, req *model.RegisterRequest) (*model.Player, error)
	Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error)
	GetPlayer(ctx context.Context, playerID uuid.UUID) (*model.Player, error)
}

type authService struct {
	db         *gorm.DB
	playerRepo repository.PlayerRepository
	progRepo   repository.ProgressRepository
	cfg        *config.Config
}

func NewAuthService(db *gorm.DB, playerRepo repository.PlayerRepository, progRepo repository.ProgressRepository, cfg *config.Config) AuthService {
	return &authService{
		db:         db,
		playerRepo: playerRepo,
		progRepo:   progRepo,
		cfg:        cfg,
	}
}

// Register は新しいプレイヤーを登録します。
// 初回は義務なしでプレイできるよう、進捗レコードも同時に作成します。
func (s *authService) Register(ctx context.Context, req *model.RegisterRequest) (*model.Player, error) {
	logger := middleware.GetLogger(ctx)
	var newPlayer *model.Player

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Emailでの重複チェック
		_, err := s.playerRepo.FindByEmail(ctx, tx, req.Email)
		if err == nil {
			logger.Warn("Email already exists", "email", req.Email)
			return model.NewAppError("DUPLICATE_EMAIL", "このメールアドレスは既に使用されています。", "email", model.ErrConflict)
		}
		if !errors.Is(err, model.ErrNotFound) {
			logger.Error("Failed to check email existence", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "サーバー内部でエラーが発生しました。", "", err)
		}

		// Nameでの重複チェック
		_, err = s.playerRepo.FindByName(ctx, tx, req.Name)
		if err == nil {
			logger.Warn("Player name already exists", "name", req.Name)
			return model.NewAppError("DUPLICATE_NAME", "そのプレイヤー名は既に使用されています。", "name", model.ErrConflict)
		}
		if !errors.Is(err, model.ErrNotFound) {
			logger.Error("Failed to check name existence", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "サーバー内部でエラーが発生しました。", "", err)
		}

		// パスワードのハッシュ化
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			logger.Error("Failed to hash password", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "サーバー内部でエラーが発生しました。", "", err)
		}

		player := &model.Player{
			PlayerID:     uuid.New(),
			Name:         req.Name,
			Email:        req.Email,
			PasswordHash: string(hash),
		}
		if err := s.playerRepo.Create(ctx, tx, player); err != nil {
			if errors.Is(err, model.ErrConflict) {
				return model.NewAppError("DUPLICATE_PLAYER", "プレイヤーの登録が重複しています。", "", model.ErrConflict)
			}
			logger.Error("Failed to create player", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "プレイヤーの登録に失敗しました。", "", err)
		}

		progress := &model.PlayerProgress{
			PlayerID:   player.PlayerID,
			CanPlay:    true,
			CardFilter: model.FilterDue,
		}
		if err := s.progRepo.Save(ctx, tx, progress); err != nil {
			logger.Error("Failed to create initial progress", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "進捗の初期化に失敗しました。", "", err)
		}

		newPlayer = player
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Player registered", "player_id", newPlayer.PlayerID, "name", newPlayer.Name)
	return newPlayer, nil
}

func (s *authService) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	logger := middleware.GetLogger(ctx)

	player, err := s.playerRepo.FindByEmail(ctx, s.db, req.Email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			// 存在の有無を漏らさないよう認証失敗に寄せる
			return nil, model.NewAppError("UNAUTHORIZED", "メールアドレスまたはパスワードが正しくありません。", "", model.ErrForbidden)
		}
		logger.Error("Failed to find player by email", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "サーバー内部でエラーが発生しました。", "", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(player.PasswordHash), []byte(req.Password)); err != nil {
		logger.Warn("Password mismatch", "player_id", player.PlayerID)
		return nil, model.NewAppError("UNAUTHORIZED", "メールアドレスまたはパスワードが正しくありません。", "", model.ErrForbidden)
	}

	token, err := s.issueToken(player.PlayerID)
	if err != nil {
		logger.Error("Failed to sign JWT", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "トークンの発行に失敗しました。", "", err)
	}

	logger.Info("Player logged in", "player_id", player.PlayerID)
	return &model.LoginResponse{AccessToken: token}, nil
}

func (s *authService) GetPlayer(ctx context.Context, playerID uuid.UUID) (*model.Player, error) {
	player, err := s.playerRepo.FindByID(ctx, s.db, playerID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("NOT_FOUND", "プレイヤーが見つかりませんでした。", "", model.ErrNotFound)
		}
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "サーバー内部でエラーが発生しました。", "", err)
	}
	return player, nil
}

func (s *authService) issueToken(playerID uuid.UUID) (string, error) {
	now := time.Now()
	claims := &model.JWTCustomClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   playerID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(s.cfg.Auth.TokenTTLMinutes) * time.Minute)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.Auth.JWTSecret))
}
