package components

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"github.com/emiliopalmerini/expconv/internal/pkg/tui/theme"
)

func plainStyles() *theme.Styles {
	return theme.New(lipgloss.NewRenderer(&bytes.Buffer{}))
}

func TestUsageBar(t *testing.T) {
	tests := []struct {
		name       string
		width      int
		used       int
		budget     int
		wantFilled int
		wantView   string
	}{
		{"empty", 4, 0, 100, 0, "[░░░░]"},
		{"half", 4, 50, 100, 2, "[██░░]"},
		{"rounds down", 4, 74, 100, 2, "[██░░]"},
		{"full", 4, 100, 100, 4, "[████]"},
		{"overflow capped", 4, 250, 100, 4, "[████]"},
		{"zero budget", 4, 10, 0, 0, "[░░░░]"},
		{"zero width", 0, 10, 100, 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := NewUsageBar(tt.width, tt.used, tt.budget, plainStyles())
			assert.Equal(t, tt.wantFilled, bar.Filled())
			assert.Equal(t, tt.wantView, bar.View())
		})
	}
}

func TestUsageBar_Overflow(t *testing.T) {
	assert.True(t, NewUsageBar(10, 11, 10, plainStyles()).Overflow())
	assert.False(t, NewUsageBar(10, 10, 10, plainStyles()).Overflow())
}
