package handlers

import (
	"net/http"
	"time"

	intconfig "carbooking/internal/config"
	"carbooking/internal/domain"
	"carbooking/internal/domain/models"
	"carbooking/internal/http/middleware"
	"carbooking/internal/repositories"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// AuthUser is the user payload returned from auth endpoints.
type AuthUser struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
	Status   string `json:"status"`
}

func authUserFrom(u models.User) AuthUser {
	return AuthUser{
		ID:       u.ID,
		Name:     u.Name,
		Username: u.Username,
		Email:    u.Email,
		Phone:    u.Phone,
		Role:     u.Role,
		Status:   u.Status,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /api/auth/login
func Login(c *gin.Context) {
	var req loginRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	repo := repositories.UserRepository{DB: intconfig.DB}
	user, err := repo.GetByLogin(nil, req.Email)
	if domain.IsNotFound(err) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "wrong email/username or password"})
		return
	}
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "wrong email/username or password"})
		return
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"role":    user.Role,
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	})
	signed, err := token.SignedString(middleware.JWTSecret())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to sign token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": signed,
		"user":  authUserFrom(user),
	})
}

type registerRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// POST /api/auth/register
func Register(c *gin.Context) {
	var req registerRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if req.Email == "" || req.Username == "" || req.Password == "" {
		respondError(c, http.StatusBadRequest, "validation_error", "email, username and password are required", nil)
		return
	}

	repo := repositories.UserRepository{DB: intconfig.DB}
	exists, err := repo.ExistsByEmailOrUsername(nil, req.Email, req.Username)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if exists {
		respondError(c, http.StatusConflict, "conflict", "email or username already registered", nil)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to hash password"})
		return
	}

	user := models.User{
		Name:         req.Name,
		Username:     req.Username,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: string(hash),
		Role:         models.RoleUser,
		Status:       "active",
	}
	id, err := repo.Create(nil, user)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	user.ID = id

	c.JSON(http.StatusCreated, gin.H{
		"message": "registered",
		"user":    authUserFrom(user),
	})
}

// GET /api/auth/is-operations reports whether the caller belongs to the
// operations-approver group. Consumed by the frontend to gate approve actions.
func IsOperations(c *gin.Context) {
	role := middleware.UserRole(c)
	c.JSON(http.StatusOK, gin.H{
		"user_id":       middleware.UserID(c),
		"is_operations": role == models.RoleOperationsApprover || role == models.RoleAdmin,
	})
}
