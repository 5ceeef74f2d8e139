package router

import (
	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/secandoalei/secando/internal/flow"
	"github.com/secandoalei/secando/internal/screen"
)

// PushScreenMsg requests the router to push a new screen onto the stack.
type PushScreenMsg struct {
	Screen screen.Screen
}

// PopScreenMsg requests the router to pop the current screen off the stack.
type PopScreenMsg struct{}

// ReplaceScreenMsg swaps the top screen for a new one.
type ReplaceScreenMsg struct {
	Screen screen.Screen
}

// PopToMsg unwinds the stack to the nearest screen in State.
type PopToMsg struct {
	State flow.State
}

// ResetMsg clears the stack and starts over with Screen.
type ResetMsg struct {
	Screen screen.Screen
}

// Router manages a stack of screens.
type Router struct {
	stack []screen.Screen
	log   *zap.Logger
}

// New creates a new Router with the given initial screen. A nil logger
// discards navigation warnings.
func New(initial screen.Screen, log *zap.Logger) *Router {
	if log == nil {
		log = zap.NewNop()
	}
	return &Router{
		stack: []screen.Screen{initial},
		log:   log,
	}
}

// allowed reports whether moving from the active screen to next follows a
// flow edge. Screens without a state are always allowed.
func (r *Router) allowed(next screen.Screen) bool {
	from, ok := r.Active().(screen.Stateful)
	if !ok {
		return true
	}
	to, ok := next.(screen.Stateful)
	if !ok {
		return true
	}
	if flow.CanTransition(from.State(), to.State()) {
		return true
	}
	r.log.Warn("navigation refused",
		zap.Stringer("from", from.State()),
		zap.Stringer("to", to.State()),
	)
	return false
}

// Push adds a screen on top of the stack and calls its Init().
func (r *Router) Push(s screen.Screen) tea.Cmd {
	if !r.allowed(s) {
		return nil
	}
	r.stack = append(r.stack, s)
	return s.Init()
}

// Pop removes the top screen. No-op if stack depth would become 0.
func (r *Router) Pop() tea.Cmd {
	if len(r.stack) <= 1 {
		return nil
	}
	if !r.allowed(r.stack[len(r.stack)-2]) {
		return nil
	}
	r.stack = r.stack[:len(r.stack)-1]
	return r.resume()
}

// Replace swaps the top screen and calls the new screen's Init().
func (r *Router) Replace(s screen.Screen) tea.Cmd {
	if !r.allowed(s) {
		return nil
	}
	r.stack[len(r.stack)-1] = s
	return s.Init()
}

// PopTo pops screens until the active one is in state. When no screen
// on the stack matches, the stack is left unchanged.
func (r *Router) PopTo(state flow.State) tea.Cmd {
	for i := len(r.stack) - 1; i >= 0; i-- {
		st, ok := r.stack[i].(screen.Stateful)
		if !ok || st.State() != state {
			continue
		}
		if i == len(r.stack)-1 {
			return nil
		}
		r.stack = r.stack[:i+1]
		return r.resume()
	}
	r.log.Warn("pop target not on stack", zap.Stringer("state", state))
	return nil
}

// Reset drops every screen and starts over with s.
func (r *Router) Reset(s screen.Screen) tea.Cmd {
	if !r.allowed(s) {
		return nil
	}
	r.stack = []screen.Screen{s}
	return s.Init()
}

func (r *Router) resume() tea.Cmd {
	if rs, ok := r.Active().(screen.Resumer); ok {
		return rs.Resume()
	}
	return nil
}

// Active returns the top screen on the stack.
func (r *Router) Active() screen.Screen {
	if len(r.stack) == 0 {
		return nil
	}
	return r.stack[len(r.stack)-1]
}

// Depth returns the number of screens on the stack.
func (r *Router) Depth() int {
	return len(r.stack)
}

// Update forwards a message to the active screen and handles navigation messages.
func (r *Router) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case PushScreenMsg:
		return r.Push(msg.Screen)
	case PopScreenMsg:
		return r.Pop()
	case ReplaceScreenMsg:
		return r.Replace(msg.Screen)
	case PopToMsg:
		return r.PopTo(msg.State)
	case ResetMsg:
		return r.Reset(msg.Screen)
	}

	active := r.Active()
	if active == nil {
		return nil
	}

	updated, cmd := active.Update(msg)
	r.stack[len(r.stack)-1] = updated
	return cmd
}

// View renders the active screen.
func (r *Router) View(width, height int) string {
	active := r.Active()
	if active == nil {
		return ""
	}
	return active.View(width, height)
}

// Navigation helpers for screens.

// Push returns a command that pushes s.
func Push(s screen.Screen) tea.Cmd {
	return func() tea.Msg { return PushScreenMsg{Screen: s} }
}

// Pop returns a command that pops the active screen.
func Pop() tea.Cmd {
	return func() tea.Msg { return PopScreenMsg{} }
}

// Replace returns a command that replaces the active screen with s.
func Replace(s screen.Screen) tea.Cmd {
	return func() tea.Msg { return ReplaceScreenMsg{Screen: s} }
}

// PopTo returns a command that unwinds to state.
func PopTo(state flow.State) tea.Cmd {
	return func() tea.Msg { return PopToMsg{State: state} }
}

// Reset returns a command that restarts the stack at s.
func Reset(s screen.Screen) tea.Cmd {
	return func() tea.Msg { return ResetMsg{Screen: s} }
}
