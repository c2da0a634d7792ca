package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"usersbackend/internal/middleware"
	"usersbackend/internal/models"
	"usersbackend/internal/repository"
	"usersbackend/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type UsersHandler interface {
	Generate(c *gin.Context)
	BatchImport(c *gin.Context)
	MyProfile(c *gin.Context)
	ProfileByUsername(c *gin.Context)
}

type usersHandler struct {
	importService service.ImportService
	userRepo      repository.UserRepository
	logger        *zap.Logger
}

func NewUsersHandler(importService service.ImportService, userRepo repository.UserRepository, logger *zap.Logger) UsersHandler {
	return &usersHandler{importService: importService, userRepo: userRepo, logger: logger}
}

// Generate handles GET /api/users/generate?count=N and returns a
// downloadable users.json fixture file.
func (h *usersHandler) Generate(c *gin.Context) {
	count, err := strconv.Atoi(c.Query("count"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query parameter 'count' must be a number."})
		return
	}

	users, err := service.GenerateUsers(count)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	body, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		h.logger.Error("Failed to marshal generated users", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate users"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="users.json"`)
	c.Data(http.StatusOK, "application/json", body)
}

// BatchImport handles POST /api/users/batch with a multipart file field
// named "file" containing a JSON list of user records.
func (h *usersHandler) BatchImport(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil || fileHeader.Size == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File is empty or doesn't exist"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.logger.Error("Failed to open uploaded file", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "File is empty or doesn't exist"})
		return
	}
	defer file.Close()

	payload, err := io.ReadAll(file)
	if err != nil {
		h.logger.Error("Failed to read uploaded file", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded file"})
		return
	}

	outcome, err := h.importService.Import(payload)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidFormat):
			c.JSON(http.StatusBadRequest, gin.H{"error": "The uploaded file is not a valid JSON."})
		case errors.Is(err, service.ErrEmptyInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": "No valid user data found in the uploaded file."})
		default:
			h.logger.Error("Batch import failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to import users"})
		}
		return
	}

	c.JSON(http.StatusOK, outcome)
}

// MyProfile handles GET /api/users/me for the authenticated user.
func (h *usersHandler) MyProfile(c *gin.Context) {
	claims := c.MustGet(middleware.ClaimsKey).(*models.Claims)

	user, err := h.userRepo.GetByID(claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found."})
			return
		}
		h.logger.Error("Failed to load own profile", zap.Int64("user_id", claims.UserID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve user"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// ProfileByUsername handles GET /api/users/:username, admin only.
func (h *usersHandler) ProfileByUsername(c *gin.Context) {
	username := c.Param("username")

	user, err := h.userRepo.GetByUsername(username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found."})
			return
		}
		h.logger.Error("Failed to load profile by username", zap.String("username", username), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve user"})
		return
	}

	c.JSON(http.StatusOK, user)
}
