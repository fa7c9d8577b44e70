package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"building-backend/middleware"
	"building-backend/models"
	"building-backend/utils"
)

// CredentialStore manages admin identities and password verification.
type CredentialStore interface {
	Register(ctx context.Context, username, password string) (*models.Admin, error)
	Authenticate(ctx context.Context, username, password string) (*models.Admin, error)
	GetByID(ctx context.Context, id string) (*models.Admin, error)
}

// TokenIssuer issues and verifies the signed bearer tokens.
type TokenIssuer interface {
	Issue(adminID string) (string, error)
	Verify(token string) (string, error)
}

type AuthController struct {
	admins CredentialStore
	tokens TokenIssuer
}

func NewAuthController(admins CredentialStore, tokens TokenIssuer) *AuthController {
	return &AuthController{admins: admins, tokens: tokens}
}

type credentialsPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register handles POST /api/auth/register.
func (ac *AuthController) Register(c *gin.Context) {
	var payload credentialsPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	username := strings.TrimSpace(payload.Username)
	if username == "" || payload.Password == "" {
		utils.JSONError(c, http.StatusBadRequest, "username and password are required")
		return
	}

	if _, err := ac.admins.Register(c.Request.Context(), username, payload.Password); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONMessage(c, http.StatusCreated, "Admin created successfully")
}

// Login handles POST /api/auth/login.
func (ac *AuthController) Login(c *gin.Context) {
	var payload credentialsPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	admin, err := ac.admins.Authenticate(c.Request.Context(), strings.TrimSpace(payload.Username), payload.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	token, err := ac.tokens.Issue(admin.ID.Hex())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":       admin.ID.Hex(),
			"username": admin.Username,
		},
	})
}

// Verify handles GET /api/auth/verify. Any malformed, expired or tampered
// token resolves to {valid:false}, never to an error leaking past here.
func (ac *AuthController) Verify(c *gin.Context) {
	token := middleware.BearerToken(c.GetHeader("Authorization"))
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"valid": false})
		return
	}

	adminID, err := ac.tokens.Verify(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"valid": false})
		return
	}

	admin, err := ac.admins.GetByID(c.Request.Context(), adminID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"valid": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{"valid": true, "user": admin})
}
