package handler

import (
	"net/http"

	"devmatch/backend/internal/config"
	"devmatch/backend/internal/database"
	"devmatch/backend/internal/models"
	"devmatch/backend/pkg/jwt"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// region --- DTOs ---

// RegisterInput defines the structure for user registration.
type RegisterInput struct {
	FirstName string   `json:"firstname" binding:"required" example:"Ada"`
	LastName  string   `json:"lastname" binding:"required" example:"Lovelace"`
	Email     string   `json:"email" binding:"required,email" example:"ada@example.com"`
	Password  string   `json:"password" binding:"required,min=8" example:"password123"`
	PhotoURL  string   `json:"photoURL"`
	About     string   `json:"about"`
	Skills    []string `json:"skills"`
	Age       int      `json:"age"`
	Gender    string   `json:"gender"`
}

// LoginInput defines the structure for user login.
type LoginInput struct {
	Email    string `json:"email" binding:"required,email" example:"ada@example.com"`
	Password string `json:"password" binding:"required" example:"password123"`
}

// UpdateProfileInput defines the editable profile fields. Empty fields are
// left unchanged.
type UpdateProfileInput struct {
	FirstName string   `json:"firstname"`
	LastName  string   `json:"lastname"`
	PhotoURL  string   `json:"photoURL"`
	About     string   `json:"about"`
	Skills    []string `json:"skills"`
	Age       int      `json:"age"`
	Gender    string   `json:"gender"`
}

// UserSummaryResponse is the public projection of a user profile.
type UserSummaryResponse struct {
	ID        uint     `json:"id" example:"1"`
	FirstName string   `json:"firstname" example:"Ada"`
	LastName  string   `json:"lastname" example:"Lovelace"`
	PhotoURL  string   `json:"photoURL"`
	About     string   `json:"about"`
	Skills    []string `json:"skills"`
	Age       int      `json:"age"`
	Gender    string   `json:"gender"`
}

// PrivateProfileResponse is the authenticated user's own profile view.
type PrivateProfileResponse struct {
	UserSummaryResponse
	Email                string `json:"email" example:"ada@example.com"`
	IncomingRequestCount int    `json:"incoming_request_count"`
	ConnectionCount      int    `json:"connection_count"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Token string              `json:"token"`
	User  UserSummaryResponse `json:"user"`
}

// ErrorResponse represents a generic error response.
type ErrorResponse struct {
	Error string `json:"error" example:"An error message"`
}

// endregion

// region --- Auth Handlers ---

// RegisterUser godoc
// @Summary      Register a new user
// @Description  Creates a new developer profile and returns an authentication token, also set as an httpOnly cookie.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body RegisterInput true "Registration Info"
// @Success      201  {object}  AuthResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /users/register [post]
func RegisterUser(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var existingUser models.User
	if err := database.DB.Where("email = ?", input.Email).First(&existingUser).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "User already exists"})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), 12)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	user := models.User{
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
		PhotoURL:     input.PhotoURL,
		About:        input.About,
		Skills:       input.Skills,
		Age:          input.Age,
		Gender:       input.Gender,
	}
	if err := database.DB.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	token, err := issueSession(c, &user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusCreated, AuthResponse{Token: token, User: buildUserSummary(user)})
}

// LoginUser godoc
// @Summary      Log in a user
// @Description  Authenticates a user with email and password, returning a new token and session cookie.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body LoginInput true "Login Info"
// @Success      200  {object}  AuthResponse
// @Failure      400  {object}  ErrorResponse "Invalid input"
// @Failure      401  {object}  ErrorResponse "Invalid credentials"
// @Failure      404  {object}  ErrorResponse "User not found"
// @Failure      500  {object}  ErrorResponse "Internal server error"
// @Router       /users/login [post]
func LoginUser(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := database.DB.Where("email = ?", input.Email).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No account found with this email"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := issueSession(c, &user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, AuthResponse{Token: token, User: buildUserSummary(user)})
}

// LogoutUser godoc
// @Summary      Log out
// @Description  Clears the session cookie.
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]string "{"message": "Logged out successfully"}"
// @Router       /users/logout [post]
func LogoutUser(c *gin.Context) {
	c.SetCookie("token", "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// endregion

// region --- Profile Handlers ---

// GetProfile godoc
// @Summary      Get current user's profile
// @Description  Retrieves the private profile for the currently authenticated user.
// @Tags         profile
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  PrivateProfileResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/profile [get]
func GetProfile(c *gin.Context) {
	viewerID, _ := c.Get("userID")

	var user models.User
	if err := database.DB.First(&user, viewerID.(uint)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, PrivateProfileResponse{
		UserSummaryResponse:  buildUserSummary(user),
		Email:                user.Email,
		IncomingRequestCount: len(user.ConnectionRequests),
		ConnectionCount:      len(user.Connections),
	})
}

// UpdateProfile godoc
// @Summary      Update profile
// @Description  Partially updates the caller's profile fields. Relationship state is not editable here.
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body UpdateProfileInput true "Profile fields"
// @Success      200  {object}  UserSummaryResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/update-profile [patch]
func UpdateProfile(c *gin.Context) {
	viewerID, _ := c.Get("userID")

	var input UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := database.DB.First(&user, viewerID.(uint)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	// Only touch the fields that were provided, and only profile columns,
	// so edge operations running concurrently are never clobbered.
	var changed []string
	if input.FirstName != "" {
		user.FirstName = input.FirstName
		changed = append(changed, "first_name")
	}
	if input.LastName != "" {
		user.LastName = input.LastName
		changed = append(changed, "last_name")
	}
	if input.PhotoURL != "" {
		user.PhotoURL = input.PhotoURL
		changed = append(changed, "photo_url")
	}
	if input.About != "" {
		user.About = input.About
		changed = append(changed, "about")
	}
	if input.Skills != nil {
		user.Skills = input.Skills
		changed = append(changed, "skills")
	}
	if input.Age != 0 {
		user.Age = input.Age
		changed = append(changed, "age")
	}
	if input.Gender != "" {
		user.Gender = input.Gender
		changed = append(changed, "gender")
	}

	if len(changed) > 0 {
		if err := database.DB.Model(&user).Select(changed).Updates(&user).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
			return
		}
	}

	c.JSON(http.StatusOK, buildUserSummary(user))
}

// endregion

// region --- Helpers ---

func issueSession(c *gin.Context, user *models.User) (string, error) {
	cfg := config.AppConfig
	token, err := jwt.GenerateToken(user.ID, user.Email, cfg.JWTSecret, cfg.TokenLifetime())
	if err != nil {
		return "", err
	}
	c.SetCookie("token", token, int(cfg.TokenLifetime().Seconds()), "/", "", false, true)
	return token, nil
}

func buildUserSummary(user models.User) UserSummaryResponse {
	skills := user.Skills
	if skills == nil {
		skills = []string{}
	}
	return UserSummaryResponse{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		PhotoURL:  user.PhotoURL,
		About:     user.About,
		Skills:    skills,
		Age:       user.Age,
		Gender:    user.Gender,
	}
}

// endregion
