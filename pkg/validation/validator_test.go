package validation

import (
	"errors"
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
)

type signup struct {
	Username string `json:"username" binding:"required,username"`
	Password string `json:"password" binding:"required,pwd"`
	Role     string `json:"role" binding:"omitempty,oneof=user admin"`
	Limit    int    `form:"limit" binding:"gte=0"`
}

func TestToDetails(t *testing.T) {
	Init()

	err := binding.Validator.ValidateStruct(&signup{Username: "al", Password: "123", Role: "root", Limit: -1})
	assert.Equal(t, map[string]string{
		"username": "must be 3 to 50 characters long",
		"password": "must be 6 to 72 characters long",
		"role":     "must be one of: user, admin",
		"limit":    "must be greater than or equal to 0",
	}, ToDetails(err))

	err = binding.Validator.ValidateStruct(&signup{Password: "secret1"})
	assert.Equal(t, map[string]string{"username": "is required"}, ToDetails(err))

	assert.NoError(t, binding.Validator.ValidateStruct(&signup{Username: "alice", Password: "secret1"}))
	assert.Nil(t, ToDetails(nil))
	assert.Equal(t, map[string]string{"payload": "invalid payload"}, ToDetails(errors.New("EOF")))
}
