package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/secandoalei/secando/internal/flow"
	"github.com/secandoalei/secando/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// Stateful screens report which view state they render. The router only
// moves between two stateful screens along a legal flow edge.
type Stateful interface {
	State() flow.State
}

// Resumer is implemented by screens that refresh their data when they
// become active again after the screen above them is popped.
type Resumer interface {
	Resume() tea.Cmd
}

// BackHandler is implemented by screens that handle Esc themselves instead
// of being popped.
type BackHandler interface {
	OnBack() tea.Cmd
}

// Factory builds a screen on demand, e.g. the landing screen a logout
// returns to.
type Factory func() Screen
