package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/ykrishnateja01/job-portal/internal/api/auth"
	"github.com/ykrishnateja01/job-portal/internal/api/domain"
	"github.com/ykrishnateja01/job-portal/internal/api/dto"
	"github.com/ykrishnateja01/job-portal/internal/api/model"
	"github.com/ykrishnateja01/job-portal/internal/api/storage"
	"github.com/ykrishnateja01/job-portal/internal/events"
	"github.com/ykrishnateja01/job-portal/shared/rabbitmq"
)

// AuthHandler handles registration, email verification and login
type AuthHandler struct {
	logger       *slog.Logger
	users        *storage.UserStorage
	tokens       *auth.TokenIssuer
	redis        *redis.Client
	rabbitClient *rabbitmq.Client
	codeTTL      time.Duration
}

func NewAuthHandler(deps *Dependencies) *AuthHandler {
	ttl := deps.VerificationCodeTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &AuthHandler{
		logger:       deps.Logger,
		users:        deps.Users,
		tokens:       deps.Tokens,
		redis:        deps.Redis,
		rabbitClient: deps.RabbitClient,
		codeTTL:      ttl,
	}
}

func verificationKey(email string) string {
	return fmt.Sprintf("verification:%s", strings.ToLower(email))
}

// Register handles POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if req.Role == "" {
		req.Role = domain.RoleUser
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.logger.Error("Failed to hash password", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register"})
		return
	}

	now := time.Now()
	user := model.User{
		UserID:        uuid.New().String(),
		Name:          req.Name,
		Email:         strings.ToLower(req.Email),
		PasswordHash:  string(hash),
		Role:          req.Role,
		WalletAddress: req.WalletAddress,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := h.users.CreateUser(c.Request.Context(), &user); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
			return
		}
		h.logger.Error("Failed to create user", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register"})
		return
	}

	code, err := auth.GenerateVerificationCode()
	if err != nil {
		h.logger.Error("Failed to generate verification code", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register"})
		return
	}

	if err := h.redis.Set(c.Request.Context(), verificationKey(user.Email), code, h.codeTTL).Err(); err != nil {
		h.logger.Error("Failed to store verification code", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register"})
		return
	}

	h.publishRegistered(c, &user, code)

	h.logger.Info("User registered",
		slog.String("user_id", user.UserID),
		slog.String("role", user.Role),
	)

	c.JSON(http.StatusCreated, gin.H{
		"user":    toUserDTO(&user),
		"message": "registered, check your email for the verification code",
	})
}

// publishRegistered hands the verification email off to the worker. Failure is
// logged only; the code stays valid in Redis and can be re-requested.
func (h *AuthHandler) publishRegistered(c *gin.Context, user *model.User, code string) {
	if h.rabbitClient == nil {
		return
	}

	body, err := events.Marshal(events.TypeUserRegistered, events.UserRegistered{
		UserID: user.UserID,
		Name:   user.Name,
		Email:  user.Email,
		Code:   code,
	})
	if err != nil {
		h.logger.Error("Failed to marshal registration event", slog.String("error", err.Error()))
		return
	}

	key := events.RoutingKey(events.TypeUserRegistered)
	if err := h.rabbitClient.PublishWithRetry(c.Request.Context(), key, body, "application/json"); err != nil {
		h.logger.Error("Failed to publish registration event",
			slog.String("user_id", user.UserID),
			slog.String("error", err.Error()),
		)
	}
}

// VerifyEmail handles POST /api/v1/auth/verify
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req dto.VerifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	email := strings.ToLower(req.Email)

	stored, err := h.redis.Get(c.Request.Context(), verificationKey(email)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid or expired verification code"})
			return
		}
		h.logger.Error("Failed to read verification code", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify email"})
		return
	}

	if stored != req.Code {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid or expired verification code"})
		return
	}

	user, err := h.users.GetUserByEmail(c.Request.Context(), email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		h.logger.Error("Failed to load user", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify email"})
		return
	}

	if err := h.users.MarkVerified(c.Request.Context(), user.UserID); err != nil {
		h.logger.Error("Failed to mark user verified", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify email"})
		return
	}

	// The code is single use.
	if err := h.redis.Del(c.Request.Context(), verificationKey(email)).Err(); err != nil {
		h.logger.Warn("Failed to delete verification code", slog.String("error", err.Error()))
	}

	c.JSON(http.StatusOK, gin.H{"message": "email verified"})
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	user, err := h.users.GetUserByEmail(c.Request.Context(), strings.ToLower(req.Email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		h.logger.Error("Failed to load user", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to login"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	if !user.IsVerified {
		c.JSON(http.StatusForbidden, gin.H{"error": "email not verified"})
		return
	}

	token, err := h.tokens.Generate(user.UserID, user.Email, user.Role)
	if err != nil {
		h.logger.Error("Failed to issue token", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to login"})
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{
		Token: token,
		User:  toUserDTO(user),
	})
}

// Me handles GET /api/v1/auth/me
// Returns the profile of the authenticated caller.
func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	c.JSON(http.StatusOK, toUserDTO(user))
}

func toUserDTO(user *model.User) dto.UserDTO {
	return dto.UserDTO{
		UserID:        user.UserID,
		Name:          user.Name,
		Email:         user.Email,
		Role:          user.Role,
		WalletAddress: user.WalletAddress,
		IsVerified:    user.IsVerified,
		CreatedAt:     user.CreatedAt.Format(time.RFC3339),
	}
}
