package prompt

import "sync"

// ConfirmAnswer is one scripted reply to Confirm.
type ConfirmAnswer struct {
	Value bool
	Err   error
}

// InputAnswer is one scripted reply to Input.
type InputAnswer struct {
	Value string
	Err   error
}

// SelectAnswer is one scripted reply to Select. An empty Value picks the
// default option.
type SelectAnswer struct {
	Value string
	Err   error
}

// Script replays queued answers, used to drive the workflow in tests.
// Exhausted queues fall back to the prompt's default, so tests only script
// the answers they care about. Labels are recorded in Asked for
// verification.
type Script struct {
	mu       sync.Mutex
	Confirms []ConfirmAnswer
	Inputs   []InputAnswer
	Selects  []SelectAnswer
	Asked    []string
}

func (s *Script) Confirm(label string, def bool) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Asked = append(s.Asked, label)
	if len(s.Confirms) == 0 {
		return def, nil
	}
	a := s.Confirms[0]
	s.Confirms = s.Confirms[1:]
	return a.Value, a.Err
}

func (s *Script) Input(label, def string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Asked = append(s.Asked, label)
	if len(s.Inputs) == 0 {
		return def, nil
	}
	a := s.Inputs[0]
	s.Inputs = s.Inputs[1:]
	if a.Err != nil {
		return "", a.Err
	}
	return a.Value, nil
}

func (s *Script) Select(label string, options []string, def int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Asked = append(s.Asked, label)
	if len(s.Selects) == 0 {
		if def < 0 || def >= len(options) {
			def = 0
		}
		return options[def], nil
	}
	a := s.Selects[0]
	s.Selects = s.Selects[1:]
	if a.Err != nil {
		return "", a.Err
	}
	if a.Value == "" {
		if def < 0 || def >= len(options) {
			def = 0
		}
		return options[def], nil
	}
	return a.Value, nil
}

func (s *Script) Pause(label string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Asked = append(s.Asked, label)
	return nil
}
