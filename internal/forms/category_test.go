package forms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leap-app/leap/internal/api"
)

var cats = []api.MindContentCategory{
	{ID: 1, Name: "Stoicism"},
	{ID: 2, Name: "Mindfulness"},
	{ID: 3, Name: "Productivity"},
	{ID: 4, Name: "Mind Games"},
}

func TestResolveCategory(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"1", 1},
		{"stoicism", 1},
		{" Productivity ", 3},
		{"prod", 3},
		{"stoicsm", 1},
		{"mindfulnes", 2},
		{"Mind Games", 4},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ResolveCategory(tt.in, cats)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.ID)
		})
	}
}

func TestResolveCategory_Errors(t *testing.T) {
	_, err := ResolveCategory("", cats)
	assert.Error(t, err)

	_, err = ResolveCategory("99", cats)
	assert.EqualError(t, err, "no category with id 99")

	_, err = ResolveCategory("mind", cats)
	assert.ErrorContains(t, err, "ambiguous")

	_, err = ResolveCategory("cooking", cats)
	assert.ErrorContains(t, err, "unknown category")
}
