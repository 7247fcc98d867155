package auth

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/BeastofOne/soggy-potatoes/models"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.GuestSession{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
	))
	return db
}

func TestTokenRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	user := models.User{ID: 42, IsAdmin: true}
	token, err := GenerateToken(&user)
	require.NoError(t, err)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.True(t, claims.IsAdmin)
}

func TestParseTokenRejectsTampering(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := GenerateToken(&models.User{ID: 1})
	require.NoError(t, err)

	_, err = ParseToken(token + "x")
	assert.Error(t, err)

	t.Setenv("JWT_SECRET", "different-secret")
	_, err = ParseToken(token)
	assert.Error(t, err)
}

func TestValidateUsername(t *testing.T) {
	assert.NoError(t, validateUsername("spudfan99"))

	// Too short, too long.
	assert.Error(t, validateUsername("ab"))
	assert.Error(t, validateUsername("abcdefghijklmnopqrstuvwxyz01234"))

	// Reserved patterns are blocked anywhere in the name, case-insensitively.
	assert.Error(t, validateUsername("admin"))
	assert.Error(t, validateUsername("TheAdmin2"))
	assert.Error(t, validateUsername("soggy_sam"))
	assert.Error(t, validateUsername("PotatoesRUs"))
	assert.Error(t, validateUsername("site-moderator"))
}

func TestMergeGuestCart(t *testing.T) {
	db := setupDB(t)

	user := models.User{Username: "pat", Email: "pat@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(&user).Error)

	shared := models.Product{Name: "Russet Potato", Price: 4.00, IsActive: true}
	guestOnly := models.Product{Name: "Golden Potato", Price: 10.00, IsActive: true}
	require.NoError(t, db.Create(&shared).Error)
	require.NoError(t, db.Create(&guestOnly).Error)

	userID := user.ID
	userCart := models.Cart{UserID: &userID}
	require.NoError(t, db.Create(&userCart).Error)
	require.NoError(t, db.Create(&models.CartItem{
		CartID: userCart.ID, ProductID: shared.ID, Quantity: 1,
	}).Error)

	sessionKey := "guest-key"
	guestCart := models.Cart{SessionKey: &sessionKey}
	require.NoError(t, db.Create(&guestCart).Error)
	require.NoError(t, db.Create(&models.CartItem{
		CartID: guestCart.ID, ProductID: shared.ID, Quantity: 2,
	}).Error)
	require.NoError(t, db.Create(&models.CartItem{
		CartID: guestCart.ID, ProductID: guestOnly.ID, Quantity: 3,
	}).Error)

	merged, err := MergeGuestCart(db, sessionKey, user.ID)
	require.NoError(t, err)
	assert.True(t, merged)

	// Quantities for shared products add up; guest-only lines move over.
	var items []models.CartItem
	require.NoError(t, db.Where("cart_id = ?", userCart.ID).Order("product_id").Find(&items).Error)
	require.Len(t, items, 2)
	assert.Equal(t, 3, items[0].Quantity)
	assert.Equal(t, 3, items[1].Quantity)

	// The guest cart is gone.
	var guestCarts int64
	db.Model(&models.Cart{}).Where("session_key = ?", sessionKey).Count(&guestCarts)
	assert.Zero(t, guestCarts)
}

func TestMergeGuestCartNothingToMerge(t *testing.T) {
	db := setupDB(t)

	user := models.User{Username: "pat", Email: "pat@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(&user).Error)

	merged, err := MergeGuestCart(db, "no-such-key", user.ID)
	require.NoError(t, err)
	assert.False(t, merged)
}

func TestMergeGuestCartCreatesUserCart(t *testing.T) {
	db := setupDB(t)

	user := models.User{Username: "pat", Email: "pat@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(&user).Error)

	product := models.Product{Name: "Russet Potato", Price: 4.00, IsActive: true}
	require.NoError(t, db.Create(&product).Error)

	sessionKey := "guest-key"
	guestCart := models.Cart{SessionKey: &sessionKey}
	require.NoError(t, db.Create(&guestCart).Error)
	require.NoError(t, db.Create(&models.CartItem{
		CartID: guestCart.ID, ProductID: product.ID, Quantity: 2,
	}).Error)

	merged, err := MergeGuestCart(db, sessionKey, user.ID)
	require.NoError(t, err)
	assert.True(t, merged)

	var cart models.Cart
	require.NoError(t, db.Preload("Items").Where("user_id = ?", user.ID).First(&cart).Error)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
}
