package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sudoeste-fight/academy-api/internal/dto"
	appErrors "github.com/sudoeste-fight/academy-api/pkg/errors"
)

func TestValidatorCustomTags(t *testing.T) {
	v := NewValidator()

	require.NoError(t, v.Struct(dto.ClassRequest{DayOfWeek: "Seg", Time: "19:00", Activity: "Jiu-Jitsu"}))

	invalid := []dto.ClassRequest{
		{DayOfWeek: "Dom", Time: "19:00", Activity: "Jiu-Jitsu"},
		{DayOfWeek: "seg", Time: "19:00", Activity: "Jiu-Jitsu"},
		{DayOfWeek: "Seg", Time: "24:00", Activity: "Jiu-Jitsu"},
		{DayOfWeek: "Seg", Time: "9:00", Activity: "Jiu-Jitsu"},
		{DayOfWeek: "Seg", Time: "19:60", Activity: "Jiu-Jitsu"},
		{DayOfWeek: "Seg", Time: "19:00", Activity: "   "},
	}
	for _, req := range invalid {
		assert.Error(t, v.Struct(req), "%+v", req)
	}
}

func TestValidationErrorMessageUsesJSONNames(t *testing.T) {
	err := validationError(NewValidator().Struct(dto.ClassRequest{DayOfWeek: "Dom", Time: "25:00", Activity: "x"}), "invalid class")
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "dia_semana must be one of")
	assert.Contains(t, appErr.Message, "horario must be HH:MM")
}
