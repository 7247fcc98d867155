package auth

import (
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BeastofOne/soggy-potatoes/mail"
	"github.com/BeastofOne/soggy-potatoes/models"
)

// Usernames containing any of these are rejected at registration so nobody
// can impersonate the shop or its staff.
var reservedUsernamePatterns = []string{
	"admin", "administrator", "owner", "staff", "moderator", "mod",
	"support", "help", "official", "soggy", "potatoes", "soggypotatoes",
	"system", "root", "superuser", "webmaster", "postmaster",
}

type Claims struct {
	UserID  uint `json:"user_id"`
	IsAdmin bool `json:"is_admin"`
	jwt.RegisteredClaims
}

func jwtSecret() []byte {
	return []byte(os.Getenv("JWT_SECRET"))
}

// GenerateToken issues a signed 24h JWT for the user.
func GenerateToken(user *models.User) (string, error) {
	claims := Claims{
		UserID:  user.ID,
		IsAdmin: user.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(jwtSecret())
}

// ParseToken validates a token string and returns its claims.
func ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid token signing method")
		}
		return jwtSecret(), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid or expired token")
	}
	return claims, nil
}

func validateUsername(username string) error {
	if len(username) < 3 || len(username) > 30 {
		return errors.New("username must be between 3 and 30 characters")
	}
	lower := strings.ToLower(username)
	for _, pattern := range reservedUsernamePatterns {
		if strings.Contains(lower, pattern) {
			return errors.New("this username is not available")
		}
	}
	return nil
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// POST /auth/register
func Register(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		if err := validateUsername(req.Username); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var count int64
		db.Model(&models.User{}).
			Where("lower(username) = ? OR lower(email) = ?", strings.ToLower(req.Username), strings.ToLower(req.Email)).
			Count(&count)
		if count > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "Username or email already taken"})
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}

		user := models.User{
			Username:     req.Username,
			Email:        req.Email,
			PasswordHash: string(hash),
		}
		if err := db.Create(&user).Error; err != nil {
			c.JSON(http.StatusConflict, gin.H{"error": "Failed to create account"})
			return
		}

		go mail.SendWelcome(user.Email, user.Username)

		c.JSON(http.StatusCreated, gin.H{
			"message": "Account created successfully",
			"user":    user,
		})
	}
}

type LoginRequest struct {
	Username   string `json:"username" binding:"required"`
	Password   string `json:"password" binding:"required"`
	SessionKey string `json:"session_key"`
}

// POST /auth/login
func Login(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		var user models.User
		err := db.Where("lower(username) = ?", strings.ToLower(req.Username)).First(&user).Error
		if err != nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
			return
		}

		mergeStatus := "no-guest-cart"
		if req.SessionKey != "" {
			merged, err := MergeGuestCart(db, req.SessionKey, user.ID)
			switch {
			case err != nil:
				mergeStatus = "merge-failed"
			case merged:
				mergeStatus = "merged"
			default:
				mergeStatus = "guest-cart-empty"
			}
		}

		token, err := GenerateToken(&user)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Token generation failed"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":      "Login successful",
			"merge_status": mergeStatus,
			"user":         user,
			"token":        token,
		})
	}
}

// MergeGuestCart folds a guest session's cart into the user's cart and
// deletes the guest cart. Returns false when there was nothing to merge.
func MergeGuestCart(db *gorm.DB, sessionKey string, userID uint) (bool, error) {
	merged := false
	err := db.Transaction(func(tx *gorm.DB) error {
		var guestCart models.Cart
		if err := tx.Preload("Items").
			Where("session_key = ?", sessionKey).
			First(&guestCart).Error; err != nil {
			return nil // nothing to merge
		}

		var userCart models.Cart
		err := tx.Where("user_id = ?", userID).First(&userCart).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			userCart = models.Cart{UserID: &userID}
			if err := tx.Create(&userCart).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		for _, guestItem := range guestCart.Items {
			var userItem models.CartItem
			lookupErr := tx.Where("cart_id = ? AND product_id = ?", userCart.ID, guestItem.ProductID).
				First(&userItem).Error

			switch {
			case lookupErr == nil:
				userItem.Quantity += guestItem.Quantity
				userItem.AddedAt = time.Now()
				if err := tx.Save(&userItem).Error; err != nil {
					return err
				}
			case errors.Is(lookupErr, gorm.ErrRecordNotFound):
				newItem := models.CartItem{
					CartID:    userCart.ID,
					ProductID: guestItem.ProductID,
					Quantity:  guestItem.Quantity,
					AddedAt:   time.Now(),
				}
				if err := tx.Create(&newItem).Error; err != nil {
					return err
				}
			default:
				return lookupErr
			}
			merged = true
		}

		if err := tx.Where("cart_id = ?", guestCart.ID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&guestCart).Error
	})
	return merged, err
}
