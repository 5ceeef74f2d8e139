package flow

import (
	"errors"
	"testing"
)

func TestStateNames(t *testing.T) {
	want := []string{
		"LANDING", "LOGIN", "METHODOLOGY", "DASHBOARD", "CONFIG",
		"PLAN_VIEW", "STUDY_SESSION", "QUIZ", "SIMULADO_SETUP", "SIMULADO_RUNNING",
	}
	if len(States) != 10 {
		t.Fatalf("expected 10 states, got %d", len(States))
	}
	for i, s := range States {
		if s.String() != want[i] {
			t.Errorf("State %d = %q, want %q", i, s, want[i])
		}
	}
}

func TestNext(t *testing.T) {
	tests := []struct {
		from     State
		event    Event
		loggedIn bool
		want     State
	}{
		{Landing, EventStart, false, Login},
		{Landing, EventStart, true, Dashboard},
		{Landing, EventMethodology, false, Methodology},
		{Methodology, EventStart, false, Login},
		{Methodology, EventStart, true, Dashboard},
		{Methodology, EventBack, false, Landing},
		{Login, EventAuthenticated, false, Dashboard},
		{Login, EventBack, false, Landing},
		{Dashboard, EventSelect, true, PlanView},
		{Dashboard, EventNew, true, Config},
		{Dashboard, EventDelete, true, Dashboard},
		{Config, EventGenerated, true, PlanView},
		{Config, EventCancel, true, Dashboard},
		{PlanView, EventMock, true, MockSetup},
		{PlanView, EventBlock, true, StudySession},
		{PlanView, EventBack, true, Dashboard},
		{StudySession, EventToggle, true, StudySession},
		{StudySession, EventQuiz, true, Quiz},
		{StudySession, EventBack, true, PlanView},
		{Quiz, EventFinish, true, PlanView},
		{MockSetup, EventStart, true, MockRunning},
		{MockSetup, EventCancel, true, PlanView},
		{MockRunning, EventFinish, true, PlanView},
		{MockRunning, EventLogout, true, Landing},
		{Quiz, EventHome, true, Landing},
	}
	for _, tt := range tests {
		got, err := Next(tt.from, tt.event, tt.loggedIn)
		if err != nil {
			t.Errorf("Next(%s, %s) error: %v", tt.from, tt.event, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Next(%s, %s, %v) = %s, want %s", tt.from, tt.event, tt.loggedIn, got, tt.want)
		}
	}
}

func TestNext_Invalid(t *testing.T) {
	invalid := []struct {
		from  State
		event Event
	}{
		{Landing, EventFinish},
		{Dashboard, EventQuiz},
		{Quiz, EventBack},
		{Config, EventStart},
	}
	for _, tt := range invalid {
		got, err := Next(tt.from, tt.event, true)
		if !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("Next(%s, %s) = %v, want ErrInvalidTransition", tt.from, tt.event, err)
		}
		if got != tt.from {
			t.Errorf("invalid transition should stay in %s, got %s", tt.from, got)
		}
	}
}

func TestStartMock(t *testing.T) {
	if _, err := StartMock(0); !errors.Is(err, ErrEmptySelection) {
		t.Errorf("expected ErrEmptySelection, got %v", err)
	}
	got, err := StartMock(2)
	if err != nil || got != MockRunning {
		t.Errorf("StartMock(2) = %s, %v", got, err)
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to State
		want     bool
	}{
		{Landing, Login, true},
		{Landing, Dashboard, true},
		{Methodology, Dashboard, true},
		{Dashboard, PlanView, true},
		{PlanView, MockSetup, true},
		{MockSetup, MockRunning, true},
		{Quiz, PlanView, true},
		{StudySession, Landing, true},
		{Dashboard, Quiz, false},
		{Landing, PlanView, false},
		{Login, Config, false},
		{Quiz, StudySession, false},
	}
	for _, tt := range tests {
		if got := CanTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}
