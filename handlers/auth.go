package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ColtenOuO/TurkeyPOS/config"
	"github.com/ColtenOuO/TurkeyPOS/models"
	"github.com/ColtenOuO/TurkeyPOS/utils"
)

var DB *gorm.DB

// LoginRequest is shared by the admin and store login endpoints
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// AuthHandler issues access tokens. Credentials and the signing key come from
// the injected config; nothing here reads the environment.
type AuthHandler struct {
	cfg    config.Config
	tokens *utils.TokenService
}

func NewAuthHandler(cfg config.Config, tokens *utils.TokenService) *AuthHandler {
	return &AuthHandler{cfg: cfg, tokens: tokens}
}

// AdminLogin checks the configured admin password and returns an admin token.
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Username != "admin" || req.Password != h.cfg.AdminPassword {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Incorrect username or password"})
		return
	}

	token, err := h.tokens.GenerateAdminToken()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, TokenResponse{AccessToken: token, TokenType: "bearer"})
}

// StoreLogin authenticates a store account by name and password. Inactive
// stores are rejected here, before they can reach any order operation.
func (h *AuthHandler) StoreLogin(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var store models.Store
	if err := DB.Where("name = ?", req.Username).First(&store).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Incorrect store name or password"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := store.CheckPassword(req.Password); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Incorrect store name or password"})
		return
	}

	if !store.IsActive {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Store is inactive"})
		return
	}

	token, err := h.tokens.GenerateStoreToken(store.ID, store.Name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, TokenResponse{AccessToken: token, TokenType: "bearer"})
}
