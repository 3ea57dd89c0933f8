// Package model provides state management and shared contracts for glucorisk models.
package model

import (
	"fmt"
	"sync"

	"github.com/YuminosukeSato/glucorisk/pkg/errors"
)

// TrainingState is the lifecycle position of a trainer or transformer.
type TrainingState int

const (
	// Uninitialized means Fit has not been called, or the last call failed.
	Uninitialized TrainingState = iota
	// Training means a Fit call is in progress.
	Training
	// Trained is terminal.
	Trained
)

// String returns the lowercase name of the state.
func (s TrainingState) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Training:
		return "training"
	case Trained:
		return "trained"
	default:
		return fmt.Sprintf("TrainingState(%d)", int(s))
	}
}

// StateManager tracks the Uninitialized → Training → Trained lifecycle in a
// thread-safe manner. Components hold it by composition.
type StateManager struct {
	mu    sync.RWMutex
	state TrainingState

	nFeatures int
	nSamples  int
}

// NewStateManager creates a new StateManager instance.
func NewStateManager() *StateManager {
	return &StateManager{state: Uninitialized}
}

// State returns the current lifecycle state.
func (s *StateManager) State() TrainingState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// IsFitted returns whether training completed.
func (s *StateManager) IsFitted() bool {
	return s.State() == Trained
}

// Begin moves Uninitialized to Training. Any other starting state is an error:
// a trainer is single-use once it reached Trained.
func (s *StateManager) Begin(op string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Uninitialized {
		return errors.NewModelError(op, "cannot start training in state "+s.state.String(), errors.ErrAlreadyTrained)
	}
	s.state = Training
	return nil
}

// Complete moves Training to Trained and records the fitted dimensions.
func (s *StateManager) Complete(nFeatures, nSamples int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Trained
	s.nFeatures = nFeatures
	s.nSamples = nSamples
}

// Abort returns a Training state to Uninitialized after a failed run.
func (s *StateManager) Abort() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == Training {
		s.state = Uninitialized
	}
}

// GetDimensions returns the number of features and samples seen during fitting.
func (s *StateManager) GetDimensions() (nFeatures, nSamples int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nFeatures, s.nSamples
}

// RequireFitted returns a NotFittedError naming modelName and method unless training completed.
func (s *StateManager) RequireFitted(modelName, method string) error {
	if !s.IsFitted() {
		return errors.NewNotFittedError(modelName, method)
	}
	return nil
}
