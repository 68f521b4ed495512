package utils

import (
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "srdashboard/internal/shared/errors"
)

type statusPayload struct {
	ServiceNumber string `json:"serviceNumber" binding:"required,max=5"`
	Status        string `json:"status" binding:"omitempty,srstatus"`
}

func TestBindingValidators(t *testing.T) {
	require.NoError(t, RegisterBindingValidators())

	assert.NoError(t, binding.Validator.ValidateStruct(&statusPayload{ServiceNumber: "SR-1", Status: "in-progress"}))
	assert.NoError(t, binding.Validator.ValidateStruct(&statusPayload{ServiceNumber: "SR-1"}))

	err := BindingError(binding.Validator.ValidateStruct(&statusPayload{ServiceNumber: "SR-1", Status: "pending"}))
	appErr := appErrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, appErrors.ErrorTypeValidation, appErr.Type)
	assert.Equal(t, "status must be one of [open in-progress closed]", appErr.Message)

	err = BindingError(binding.Validator.ValidateStruct(&statusPayload{ServiceNumber: "SR-123456"}))
	assert.Equal(t, "serviceNumber must be at most 5 characters long", appErrors.GetAppError(err).Message)

	err = BindingError(binding.Validator.ValidateStruct(&statusPayload{}))
	assert.Equal(t, "serviceNumber is required", appErrors.GetAppError(err).Message)
}

func TestBindingError_Malformed(t *testing.T) {
	err := BindingError(errors.New("unexpected EOF"))
	assert.True(t, appErrors.IsType(err, appErrors.ErrorTypeBadRequest))
	assert.Equal(t, http.StatusBadRequest, appErrors.GetAppError(err).Code)
	assert.Equal(t, "Invalid request body", appErrors.GetAppError(err).Message)
}
