package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/contacts-api/internal/application"
	"github.com/oksasatya/contacts-api/internal/domain/entity"
	"github.com/oksasatya/contacts-api/internal/interface/middleware"
	"github.com/oksasatya/contacts-api/pkg/response"
)

const maxAvatarBytes = 5 << 20

type UserHandler struct {
	Svc    *application.UserService
	Logger *logrus.Logger
}

func NewUserHandler(svc *application.UserService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type userResponse struct {
	ID        string      `json:"id"`
	Username  string      `json:"username"`
	Email     string      `json:"email"`
	Avatar    *string     `json:"avatar"`
	Role      entity.Role `json:"role"`
	Confirmed bool        `json:"confirmed"`
	CreatedAt time.Time   `json:"created_at"`
}

func newUserResponse(u *entity.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Avatar:    u.AvatarURL,
		Role:      u.Role,
		Confirmed: u.Confirmed,
		CreatedAt: u.CreatedAt,
	}
}

// Me GET /api/users/me returns the resolved identity without touching the database.
func (h *UserHandler) Me(c *gin.Context) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		writeError(c, h.Logger, application.ErrCouldNotValidate)
		return
	}
	response.JSON(c, http.StatusOK, id)
}

// UpdateAvatar PATCH /api/users/avatar (multipart "file", admin only)
func (h *UserHandler) UpdateAvatar(c *gin.Context) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		writeError(c, h.Logger, application.ErrCouldNotValidate)
		return
	}
	if c.Request.ContentLength > maxAvatarBytes {
		avatarTooLarge(c)
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxAvatarBytes)
	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			avatarTooLarge(c)
			return
		}
		response.Error(c, http.StatusBadRequest, "invalid payload", map[string]string{"file": "is required"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	defer func() { _ = f.Close() }()

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	u, err := h.Svc.UploadAvatar(c.Request.Context(), id, f, contentType)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	if h.Logger != nil {
		h.Logger.WithFields(logrus.Fields{"user_id": id.ID, "filename": fh.Filename}).Info("avatar uploaded")
	}
	response.JSON(c, http.StatusOK, newUserResponse(u))
}

func avatarTooLarge(c *gin.Context) {
	response.Error(c, http.StatusRequestEntityTooLarge, "file too large", map[string]string{"file": "must be at most 5 MB"})
}
