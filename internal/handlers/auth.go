package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/thereayou/agora/internal/database"
	"github.com/thereayou/agora/internal/handlers/dto"
	"github.com/thereayou/agora/internal/models"
	"github.com/thereayou/agora/internal/oauth"
	"github.com/thereayou/agora/internal/services"
	"github.com/thereayou/agora/pkg/auth"
)

// UserInfoFetcher — обмен access-токена провайдера на его профиль.
type UserInfoFetcher interface {
	FetchUserInfo(ctx context.Context, provider oauth.Provider, accessToken string) (*oauth.UserInfo, error)
}

type AuthHandler struct {
	db         *database.Database
	jwtManager *auth.JWTManager
	blacklist  *services.TokenBlacklist
	oauth      UserInfoFetcher
	log        zerolog.Logger
}

func NewAuthHandler(db *database.Database, jwtMgr *auth.JWTManager, blacklist *services.TokenBlacklist, oauthClient UserInfoFetcher, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		db:         db,
		jwtManager: jwtMgr,
		blacklist:  blacklist,
		oauth:      oauthClient,
		log:        log.With().Str("component", "auth").Logger(),
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot hash password"})
		return
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         models.RoleUser,
		Status:       models.StatusActive,
		CreatedAt:    time.Now(),
	}

	if err := h.db.SaveUser(user); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to create user"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "user registered"})
}

// Login выдаёт JWT и обновляет last_seen. Деактивированному аккаунту отказ.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.db.FindUserByEmail(req.Email)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	if !user.IsActive() {
		c.JSON(http.StatusForbidden, gin.H{"error": "account is deactivated"})
		return
	}

	h.issueToken(c, user)
}

// OAuthLogin обменивает access-токен провайдера на наш JWT.
// Пользователь создаётся при первом входе.
func (h *AuthHandler) OAuthLogin(c *gin.Context) {
	var req dto.OAuthLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	provider := oauth.Provider(req.Provider)
	info, err := h.oauth.FetchUserInfo(c.Request.Context(), provider, req.AccessToken)
	if err != nil {
		h.log.Info().Err(err).Str("provider", req.Provider).Msg("oauth userinfo failed")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "oauth authentication failed"})
		return
	}

	// Subject токена — email. Профиль без email (kakao без согласия)
	// не к чему привязать: email у нас not null и уникален.
	if info.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "oauth profile has no email, grant email permission"})
		return
	}

	user, err := h.findOrCreateOAuthUser(provider, info)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create user"})
		return
	}

	if !user.IsActive() {
		c.JSON(http.StatusForbidden, gin.H{"error": "account is deactivated"})
		return
	}

	h.issueToken(c, user)
}

func (h *AuthHandler) findOrCreateOAuthUser(provider oauth.Provider, info *oauth.UserInfo) (*models.User, error) {
	user, err := h.db.FindUserByProvider(string(provider), info.ProviderID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if user, err := h.db.FindUserByEmail(info.Email); err == nil {
		return user, nil
	}

	// Пароля у oauth-аккаунта нет, колонка not null — кладём случайный хеш
	hash, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	username := info.Name
	if username == "" {
		username = string(provider) + "_" + info.ProviderID
	}

	user = &models.User{
		Username:     username,
		Email:        info.Email,
		PasswordHash: string(hash),
		Role:         models.RoleUser,
		Status:       models.StatusActive,
		Provider:     string(provider),
		ProviderID:   info.ProviderID,
		CreatedAt:    time.Now(),
	}

	if err := h.db.SaveUser(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Logout ставит токен в черный список в Redis до истечения
func (h *AuthHandler) Logout(c *gin.Context) {
	rawToken, err := auth.ExtractTokenFromHeader(c.Request)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	exp, err := h.jwtManager.Expiry(rawToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	if err := h.blacklist.Add(c.Request.Context(), rawToken, time.Until(exp)); err != nil {
		h.log.Error().Err(err).Msg("blacklist token")
	}

	c.Status(http.StatusOK)
}

// Reactivate возвращает деактивированный аккаунт по паролю.
// Единственный разрешённый переход inactive → active.
func (h *AuthHandler) Reactivate(c *gin.Context) {
	var req dto.ReactivateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.db.FindUserByEmail(req.Email)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	if err := h.db.SetUserStatus(user.ID.String(), models.StatusActive); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to reactivate"})
		return
	}

	user.Status = models.StatusActive
	h.issueToken(c, user)
}

func (h *AuthHandler) issueToken(c *gin.Context, user *models.User) {
	if err := h.db.UpdateLastSeen(user.ID.String()); err != nil {
		h.log.Warn().Err(err).Str("user", user.ID.String()).Msg("update last seen")
	}

	token, err := h.jwtManager.Generate(user.Email, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}
