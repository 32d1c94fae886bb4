package api

import (
	"errors"                      // Error inspection
	"net/http"                    // HTTP status codes
	"room_finder/internal/domain" // Importing domain models
	"room_finder/internal/utils"  // Utility functions
	"strings"                     // String manipulation
	"time"                        // Token lifetime math

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/google/uuid"       // Profile id generation
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"golang.org/x/crypto/bcrypt"   // Password hashing
	"gorm.io/gorm"                 // GORM ORM library
)

// Request struct for signup
type SignupRequest struct {
	FullName string `json:"full_name" binding:"required"`   // Display name must be provided
	Email    string `json:"email" binding:"required,email"` // Sign-in email must be provided
	Password string `json:"password" binding:"required"`    // Password must be provided
	Role     string `json:"role"`                           // finder (default) or owner
}

// Request struct for login
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`    // Email must be provided
	Password string `json:"password" binding:"required"` // Password must be provided
}

// Response struct for authentication
type AuthResponse struct {
	Token string `json:"token"` // JWT token
}

// SignupHandler creates an account with a role-tagged profile. The profile
// row is written as an explicit, transactional step of signup rather than
// a side effect the caller merely assumes happened.
func SignupHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SignupRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// Default the role selection to finder
		role := req.Role
		if role == "" {
			role = domain.RoleFinder
		}
		// Only the two known roles are accepted
		if role != domain.RoleFinder && role != domain.RoleOwner {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Role must be finder or owner"})
			return
		}
		email := strings.ToLower(req.Email) // Lowercase email to keep the uniqueness check honest
		// Best-effort duplicate pre-check; the unique index on email is the
		// authoritative rejection below
		var existing domain.Profile
		if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
			c.JSON(http.StatusConflict, gin.H{"error": domain.ErrDuplicateAccount.Error()})
			return
		}
		// Hash the password and create the profile
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			// If hashing fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": domain.ErrUnexpected.Error()})
			return
		}
		profile := domain.Profile{
			ID:           uuid.NewString(), // Identity id, assigned here
			FullName:     req.FullName,     // Display name
			Email:        email,            // Sign-in email
			Role:         role,             // Selected role
			PasswordHash: string(hash),     // Bcrypt hash
		}
		// One transactional write; a concurrent signup for the same email
		// loses to the unique index and surfaces as a duplicate
		err = db.Transaction(func(tx *gorm.DB) error {
			return tx.Create(&profile).Error
		})
		if err != nil {
			// Only a unique-index loss is a duplicate; anything else is an
			// ordinary database failure
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				c.JSON(http.StatusConflict, gin.H{"error": domain.ErrDuplicateAccount.Error()})
				return
			}
			logrus.WithError(err).Error("Failed to create profile") // Log the database failure
			c.JSON(http.StatusInternalServerError, gin.H{"error": domain.ErrUnexpected.Error()})
			return
		}
		// Log successful signup
		logrus.WithFields(logrus.Fields{
			"profile_id": profile.ID, // New profile id
			"role":       role,       // Selected role
		}).Info("Account created") // Log account creation
		// Verification-pending is reported unconditionally; no session is
		// established by signup, the user signs in afterwards
		c.JSON(http.StatusCreated, gin.H{"message": "Account created. Check your email to verify your account, then sign in."})
	}
}

// LoginHandler authenticates a profile and returns a JWT token
func LoginHandler(db *gorm.DB, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		var profile domain.Profile // Fetch profile from database
		if err := db.Where("email = ?", strings.ToLower(req.Email)).First(&profile).Error; err != nil {
			// If profile not found, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		// Compare provided password with stored hash
		if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(req.Password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		// Generate JWT token
		token, err := utils.GenerateJWT(profile.ID, jwtSecret)
		if err != nil {
			// If token generation fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start session"})
			return
		}
		// Return the token in the response
		c.JSON(http.StatusOK, AuthResponse{Token: token})
	}
}

// LogoutHandler revokes the calling session's token. The denylist entry
// lives exactly as long as the token would, so nothing of the session
// survives sign-out.
func LogoutHandler(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		claimsVal, exists := c.Get("claims") // Claims stored by the JWT middleware
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": domain.ErrAuthentication.Error()})
			return
		}
		claims := claimsVal.(*utils.Claims) // Parsed token claims
		// Revoke for the token's remaining lifetime
		if rdb != nil && claims.ExpiresAt != nil {
			ttl := time.Until(claims.ExpiresAt.Time) // Remaining token lifetime
			if err := utils.RevokeToken(c.Request.Context(), rdb, claims.TokenID, ttl); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sign out"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"message": "Signed out"}) // Session is gone
	}
}

// SessionHandler performs the live session check behind role-aware
// rendering. It never fails: an absent, invalid or revoked token simply
// reports the anonymous state.
func SessionHandler(db *gorm.DB, rdb *redis.Client, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		anonymous := gin.H{"authenticated": false} // Logged-out rendering state
		authHeader := c.GetHeader("Authorization") // Token snapshot, may be stale
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.JSON(http.StatusOK, anonymous) // No session at all
			return
		}
		claims, err := utils.ParseJWT(strings.TrimPrefix(authHeader, "Bearer "), jwtSecret)
		if err != nil {
			c.JSON(http.StatusOK, anonymous) // Invalid or expired snapshot
			return
		}
		// Live check against the sign-out denylist
		if rdb != nil {
			if revoked, err := utils.IsTokenRevoked(c.Request.Context(), rdb, claims.TokenID); err == nil && revoked {
				c.JSON(http.StatusOK, anonymous) // Signed out since the snapshot
				return
			}
		}
		var profile domain.Profile // Profile row behind the session
		if err := db.First(&profile, "id = ?", claims.UserID).Error; err != nil {
			c.JSON(http.StatusOK, anonymous) // Account no longer exists
			return
		}
		// Role-conditioned rendering state; the dashboard link is shown
		// only when is_owner is true
		c.JSON(http.StatusOK, gin.H{
			"authenticated": true,                             // A live session exists
			"profile":       profile,                          // Role-tagged profile
			"is_owner":      profile.Role == domain.RoleOwner, // Gates owner-only navigation
		})
	}
}
