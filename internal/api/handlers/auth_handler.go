package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"fleetdesk-api-server/config"
	"fleetdesk-api-server/internal/auth"
	"fleetdesk-api-server/internal/email"
	"fleetdesk-api-server/internal/logger"
	"fleetdesk-api-server/internal/models"
)

type AuthHandler struct {
	DB     *mongo.Database
	Cfg    config.Config
	Mailer *email.Sender
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type VerifyRequest struct {
	Token string `json:"token" binding:"required"`
}

type RequestResetRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}

// Register creates a dispatcher account and sends the verification link.
// The email send is best effort: registration succeeds even when the
// provider is down.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	emailAddr := strings.ToLower(req.Email)
	userCollection := h.DB.Collection("users")

	count, err := userCollection.CountDocuments(context.Background(), bson.M{"email": emailAddr})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error checking for user"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "User with this email already exists"})
		return
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	verification, err := auth.CreateToken(auth.EmailVerificationTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create verification token"})
		return
	}

	now := time.Now()
	newUser := models.User{
		Name:                     req.Name,
		Email:                    emailAddr,
		Password:                 hashedPassword,
		Role:                     models.RoleDispatcher, // default role
		EmailVerificationToken:   verification.TokenHash,
		EmailVerificationExpires: &verification.ExpiresAt,
		CreatedAt:                now,
		UpdatedAt:                now,
	}

	result, err := userCollection.InsertOne(context.Background(), newUser)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "User with this email already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	verifyURL := fmt.Sprintf("%s/auth/verify?token=%s", h.Cfg.Server.AppURL, verification.Token)
	if err := h.Mailer.Send(email.Payload{
		To:      emailAddr,
		Subject: "Verify your account",
		Text:    "Verify your account: " + verifyURL,
		HTML:    fmt.Sprintf(`<p>Verify your account:</p><p><a href="%s">%s</a></p>`, verifyURL, verifyURL),
	}); err != nil {
		logger.L.WithError(err).Warn("Verification email failed to send")
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User created successfully. Check your email to verify your account.",
		"user": gin.H{
			"id":    result.InsertedID,
			"name":  newUser.Name,
			"email": newUser.Email,
			"role":  newUser.Role,
		},
	})
}

// Login checks credentials and issues the session JWT. Unverified
// accounts cannot log in.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	err := h.DB.Collection("users").FindOne(context.Background(), bson.M{"email": strings.ToLower(req.Email)}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up user"})
		}
		return
	}

	if !auth.CheckPasswordHash(req.Password, user.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	if user.EmailVerifiedAt == nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "Email not verified"})
		return
	}

	expiration, err := time.ParseDuration(h.Cfg.JWT.Expiration)
	if err != nil {
		expiration = 24 * time.Hour
	}

	token, err := auth.GenerateJWT(user.ID.Hex(), user.Email, user.Name, user.Role, expiration)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"role":  user.Role,
		},
	})
}

// VerifyEmail consumes a verification token. The stored hash and expiry
// are cleared in the same update, so a token works exactly once.
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tokenHash := auth.HashToken(req.Token)
	result, err := h.DB.Collection("users").UpdateOne(
		context.Background(),
		bson.M{
			"emailVerificationToken":   tokenHash,
			"emailVerificationExpires": bson.M{"$gt": time.Now()},
		},
		bson.M{
			"$set":   bson.M{"emailVerifiedAt": time.Now(), "updatedAt": time.Now()},
			"$unset": bson.M{"emailVerificationToken": "", "emailVerificationExpires": ""},
		},
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify email"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Email verified successfully"})
}

// RequestPasswordReset issues a reset token. The response is identical
// whether or not the account exists.
func (h *AuthHandler) RequestPasswordReset(c *gin.Context) {
	var req RequestResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	emailAddr := strings.ToLower(req.Email)

	var user models.User
	err := h.DB.Collection("users").FindOne(context.Background(), bson.M{"email": emailAddr}).Decode(&user)
	if err == nil {
		reset, tokenErr := auth.CreateToken(auth.PasswordResetTTL)
		if tokenErr != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create reset token"})
			return
		}

		_, err = h.DB.Collection("users").UpdateOne(
			context.Background(),
			bson.M{"_id": user.ID},
			bson.M{"$set": bson.M{
				"passwordResetToken":   reset.TokenHash,
				"passwordResetExpires": reset.ExpiresAt,
				"updatedAt":            time.Now(),
			}},
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store reset token"})
			return
		}

		resetURL := fmt.Sprintf("%s/auth/reset?token=%s", h.Cfg.Server.AppURL, reset.Token)
		if err := h.Mailer.Send(email.Payload{
			To:      user.Email,
			Subject: "Reset your password",
			Text:    "Reset your password: " + resetURL,
			HTML:    fmt.Sprintf(`<p>Reset your password:</p><p><a href="%s">%s</a></p>`, resetURL, resetURL),
		}); err != nil {
			logger.L.WithError(err).Warn("Password reset email failed to send")
		}
	} else if err != mongo.ErrNoDocuments {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "If an account exists, a reset link has been sent."})
}

// ResetPassword consumes a reset token and replaces the password.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	tokenHash := auth.HashToken(req.Token)
	result, err := h.DB.Collection("users").UpdateOne(
		context.Background(),
		bson.M{
			"passwordResetToken":   tokenHash,
			"passwordResetExpires": bson.M{"$gt": time.Now()},
		},
		bson.M{
			"$set":   bson.M{"password": hashedPassword, "updatedAt": time.Now()},
			"$unset": bson.M{"passwordResetToken": "", "passwordResetExpires": ""},
		},
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset password"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password reset successfully"})
}
