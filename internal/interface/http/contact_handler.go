package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/contacts-api/internal/application"
	"github.com/oksasatya/contacts-api/internal/domain/entity"
	"github.com/oksasatya/contacts-api/pkg/response"
)

type ContactHandler struct {
	Svc    *application.ContactService
	Logger *logrus.Logger
}

func NewContactHandler(svc *application.ContactService, logger *logrus.Logger) *ContactHandler {
	return &ContactHandler{Svc: svc, Logger: logger}
}

type contactRequest struct {
	FirstName      string  `json:"first_name" binding:"required,min=1,max=50"`
	LastName       string  `json:"last_name" binding:"required,min=1,max=50"`
	Email          string  `json:"email" binding:"required,email"`
	PhoneNumber    string  `json:"phone_number" binding:"required,phone"`
	Birthday       string  `json:"birthday" binding:"required,datetime=2006-01-02"`
	AdditionalData *string `json:"additional_data" binding:"omitempty,max=255"`
}

type contactPatchRequest struct {
	FirstName      *string `json:"first_name" binding:"omitempty,min=1,max=50"`
	LastName       *string `json:"last_name" binding:"omitempty,min=1,max=50"`
	Email          *string `json:"email" binding:"omitempty,email"`
	PhoneNumber    *string `json:"phone_number" binding:"omitempty,phone"`
	Birthday       *string `json:"birthday" binding:"omitempty,datetime=2006-01-02"`
	AdditionalData *string `json:"additional_data" binding:"omitempty,max=255"`
}

type listQuery struct {
	Skip  int `form:"skip" binding:"gte=0"`
	Limit int `form:"limit" binding:"gte=0"`
}

type searchQuery struct {
	Q    string `form:"q" binding:"required"`
	Size int    `form:"size" binding:"gte=0"`
}

type contactResponse struct {
	ID             string    `json:"id"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Email          string    `json:"email"`
	PhoneNumber    string    `json:"phone_number"`
	Birthday       string    `json:"birthday"`
	AdditionalData *string   `json:"additional_data"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func newContactResponse(c *entity.Contact) contactResponse {
	return contactResponse{
		ID:             c.ID,
		FirstName:      c.FirstName,
		LastName:       c.LastName,
		Email:          c.Email,
		PhoneNumber:    c.PhoneNumber,
		Birthday:       c.Birthday.Format(time.DateOnly),
		AdditionalData: c.AdditionalData,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

func newContactList(cs []entity.Contact) []contactResponse {
	out := make([]contactResponse, 0, len(cs))
	for i := range cs {
		out = append(out, newContactResponse(&cs[i]))
	}
	return out
}

// contactID rejects malformed ids as not found so they never reach SQL.
func contactID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		response.Error(c, http.StatusNotFound, application.ErrContactNotFound.Error(), nil)
		return "", false
	}
	return id, true
}

// bodyHasField reports whether the body cached by ShouldBindBodyWith carries
// key, including an explicit null.
func bodyHasField(c *gin.Context, key string) bool {
	raw, ok := c.Get(gin.BodyBytesKey)
	if !ok {
		return false
	}
	b, _ := raw.([]byte)
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return false
	}
	_, ok = fields[key]
	return ok
}

// List GET /api/contacts?skip=&limit=
func (h *ContactHandler) List(c *gin.Context) {
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}
	cs, err := h.Svc.List(c.Request.Context(), c.GetString("userID"), q.Skip, q.Limit)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, newContactList(cs))
}

// Search GET /api/contacts/search?q=&size=
func (h *ContactHandler) Search(c *gin.Context) {
	var q searchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}
	cs, err := h.Svc.Search(c.Request.Context(), c.GetString("userID"), q.Q, q.Size)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, newContactList(cs))
}

// Get GET /api/contacts/:id
func (h *ContactHandler) Get(c *gin.Context) {
	id, ok := contactID(c)
	if !ok {
		return
	}
	contact, err := h.Svc.Get(c.Request.Context(), c.GetString("userID"), id)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, newContactResponse(contact))
}

// Create POST /api/contacts
func (h *ContactHandler) Create(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	birthday, err := time.Parse(time.DateOnly, req.Birthday)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", map[string]string{"birthday": "must match datetime format: 2006-01-02"})
		return
	}
	contact, err := h.Svc.Create(c.Request.Context(), c.GetString("userID"), application.ContactInput{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		PhoneNumber:    req.PhoneNumber,
		Birthday:       birthday,
		AdditionalData: req.AdditionalData,
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusCreated, newContactResponse(contact))
}

// Update PUT /api/contacts/:id applies only the fields present in the body.
func (h *ContactHandler) Update(c *gin.Context) {
	id, ok := contactID(c)
	if !ok {
		return
	}
	var req contactPatchRequest
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		bindError(c, err)
		return
	}
	patch := application.ContactPatch{
		FirstName:           req.FirstName,
		LastName:            req.LastName,
		Email:               req.Email,
		PhoneNumber:         req.PhoneNumber,
		AdditionalData:      req.AdditionalData,
		ClearAdditionalData: req.AdditionalData == nil && bodyHasField(c, "additional_data"),
	}
	if req.Birthday != nil {
		b, err := time.Parse(time.DateOnly, *req.Birthday)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "invalid payload", map[string]string{"birthday": "must match datetime format: 2006-01-02"})
			return
		}
		patch.Birthday = &b
	}
	contact, err := h.Svc.Update(c.Request.Context(), c.GetString("userID"), id, patch)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, newContactResponse(contact))
}

// Delete DELETE /api/contacts/:id
func (h *ContactHandler) Delete(c *gin.Context) {
	id, ok := contactID(c)
	if !ok {
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), c.GetString("userID"), id); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
