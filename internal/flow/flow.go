// Package flow defines the application's view states and the legal moves
// between them.
package flow

import (
	"errors"
	"fmt"
)

// State is one screen of the application.
type State int

const (
	Landing State = iota
	Login
	Methodology
	Dashboard
	Config
	PlanView
	StudySession
	Quiz
	MockSetup
	MockRunning
)

// States lists every state in declaration order.
var States = []State{
	Landing, Login, Methodology, Dashboard, Config,
	PlanView, StudySession, Quiz, MockSetup, MockRunning,
}

var stateNames = [...]string{
	Landing:      "LANDING",
	Login:        "LOGIN",
	Methodology:  "METHODOLOGY",
	Dashboard:    "DASHBOARD",
	Config:       "CONFIG",
	PlanView:     "PLAN_VIEW",
	StudySession: "STUDY_SESSION",
	Quiz:         "QUIZ",
	MockSetup:    "SIMULADO_SETUP",
	MockRunning:  "SIMULADO_RUNNING",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

// Event is a user action that moves between states.
type Event string

const (
	EventStart         Event = "start"
	EventMethodology   Event = "methodology"
	EventAuthenticated Event = "authenticated"
	EventBack          Event = "back"
	EventSelect        Event = "select"
	EventNew           Event = "new"
	EventDelete        Event = "delete"
	EventGenerated     Event = "generated"
	EventCancel        Event = "cancel"
	EventMock          Event = "mock"
	EventBlock         Event = "block"
	EventToggle        Event = "toggle"
	EventQuiz          Event = "quiz"
	EventFinish        Event = "finish"
	EventLogout        Event = "logout"
	EventHome          Event = "home"
)

var (
	// ErrInvalidTransition is returned for an event the state does not
	// handle.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrEmptySelection is returned when a mock exam is started with no
	// blocks selected.
	ErrEmptySelection = errors.New("selecione ao menos um bloco para o simulado")
)

type edge struct {
	from  State
	event Event
}

// edges maps (state, event) to the target.
var edges = map[edge]State{
	{Landing, EventMethodology}: Methodology,
	{Login, EventAuthenticated}: Dashboard,
	{Login, EventBack}:          Landing,
	{Methodology, EventBack}:    Landing,
	{Dashboard, EventSelect}:    PlanView,
	{Dashboard, EventNew}:       Config,
	{Dashboard, EventDelete}:    Dashboard,
	{Config, EventGenerated}:    PlanView,
	{Config, EventCancel}:       Dashboard,
	{PlanView, EventMock}:       MockSetup,
	{PlanView, EventBlock}:      StudySession,
	{PlanView, EventBack}:       Dashboard,
	{StudySession, EventToggle}: StudySession,
	{StudySession, EventQuiz}:   Quiz,
	{StudySession, EventBack}:   PlanView,
	{Quiz, EventFinish}:         PlanView,
	{MockSetup, EventStart}:     MockRunning,
	{MockSetup, EventCancel}:    PlanView,
	{MockRunning, EventFinish}:  PlanView,
}

// authGate holds the states whose start event depends on the session.
var authGate = map[State]bool{
	Landing:     true,
	Methodology: true,
}

// Next resolves event in state from. Start from Landing or Methodology
// goes to the Dashboard when loggedIn and to Login otherwise. Logout and
// home are accepted everywhere and lead to Landing.
func Next(from State, event Event, loggedIn bool) (State, error) {
	switch event {
	case EventLogout, EventHome:
		return Landing, nil
	case EventStart:
		if authGate[from] {
			if loggedIn {
				return Dashboard, nil
			}
			return Login, nil
		}
	}
	if to, ok := edges[edge{from, event}]; ok {
		return to, nil
	}
	return from, fmt.Errorf("%w: %s on %s", ErrInvalidTransition, event, from)
}

// StartMock is Next for MockSetup's start event with its selection check.
func StartMock(selected int) (State, error) {
	if selected < 1 {
		return MockSetup, ErrEmptySelection
	}
	return Next(MockSetup, EventStart, true)
}

// CanTransition reports whether some event moves from one state to the
// other.
func CanTransition(from, to State) bool {
	if to == Landing {
		return true
	}
	if authGate[from] && (to == Dashboard || to == Login) {
		return true
	}
	for e, target := range edges {
		if e.from == from && target == to {
			return true
		}
	}
	return false
}
