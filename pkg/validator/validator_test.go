package validator

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsHexColor(t *testing.T) {
	cases := []struct {
		color string
		want  bool
	}{
		{"#E26C2D", true},
		{"#00ff7f", true},
		{"#aBcDeF", true},
		{"E26C2D", false},
		{"#E26C2", false},
		{"#E26C2DD", false},
		{"#GGGGGG", false},
		{"", false},
		{"#-12345", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, IsHexColor(tc.color), tc.color)
	}
}

func TestValidateStructUsesJSONNames(t *testing.T) {
	type tag struct {
		Name  string `json:"name" validate:"required"`
		Color string `json:"color" validate:"hexcolor"`
	}

	require.NoError(t, ValidateStruct(tag{Name: "Breakfast", Color: "#E26C2D"}))

	err := ValidateStruct(tag{Name: "Breakfast", Color: "orange"})
	require.Error(t, err)

	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, "color", verrs[0].Field())
	assert.Equal(t, "hexcolor", verrs[0].Tag())
}
