package planner

// SuggestionState is the interactive state of one assistant message.
type SuggestionState struct {
	Active   []string
	Rejected []string
}

// State maps assistant message ids to their suggestion state. Reduce never mutates
// its input state.
type State map[string]SuggestionState

// Event is an input to Reduce.
type Event interface{ isEvent() }

// Received registers the suggestions of a new assistant message.
type Received struct {
	MessageID   string
	Suggestions []string
}

// Accept turns one suggestion into a task and removes it from the message.
type Accept struct {
	MessageID string
	Task      string
}

// Reject removes a suggestion and remembers it so regeneration can exclude it.
type Reject struct {
	MessageID string
	Task      string
}

// AcceptAll turns every active suggestion of a message into a task.
type AcceptAll struct {
	MessageID string
}

// RegenerateCompleted replaces the active list with fresh suggestions.
type RegenerateCompleted struct {
	MessageID   string
	Suggestions []string
}

func (Received) isEvent()            {}
func (Accept) isEvent()              {}
func (Reject) isEvent()              {}
func (AcceptAll) isEvent()           {}
func (RegenerateCompleted) isEvent() {}

// Command is a side effect requested by Reduce, run after the new state is committed.
type Command interface{ isCommand() }

// CreateTask asks for a task with the given text.
type CreateTask struct {
	Text string
}

// Regenerate asks the assistant for replacements excluding Rejected.
type Regenerate struct {
	MessageID string
	Rejected  []string
}

func (CreateTask) isCommand() {}
func (Regenerate) isCommand() {}

func (s State) clone() State {
	next := make(State, len(s))
	for id, st := range s {
		next[id] = st
	}
	return next
}

func contains(list []string, item string) bool {
	for _, s := range list {
		if s == item {
			return true
		}
	}
	return false
}

func without(list []string, item string) []string {
	out := make([]string, 0, len(list))
	for _, s := range list {
		if s != item {
			out = append(out, s)
		}
	}
	return out
}

func appendCopy(list []string, items ...string) []string {
	out := make([]string, 0, len(list)+len(items))
	out = append(out, list...)
	return append(out, items...)
}

// Reduce applies e to s and returns the next state and the commands to run.
// Only a Reject that drains a message's active list asks for regeneration.
func Reduce(s State, e Event) (State, []Command) {
	switch e := e.(type) {
	case Received:
		if len(e.Suggestions) == 0 {
			return s, nil
		}
		next := s.clone()
		next[e.MessageID] = SuggestionState{Active: appendCopy(nil, e.Suggestions...)}
		return next, nil

	case Accept:
		st, ok := s[e.MessageID]
		if !ok || !contains(st.Active, e.Task) {
			return s, nil
		}
		next := s.clone()
		next[e.MessageID] = SuggestionState{Active: without(st.Active, e.Task), Rejected: st.Rejected}
		return next, []Command{CreateTask{Text: e.Task}}

	case Reject:
		st, ok := s[e.MessageID]
		if !ok || !contains(st.Active, e.Task) {
			return s, nil
		}
		updated := SuggestionState{
			Active:   without(st.Active, e.Task),
			Rejected: appendCopy(st.Rejected, e.Task),
		}
		next := s.clone()
		next[e.MessageID] = updated
		if len(updated.Active) == 0 {
			return next, []Command{Regenerate{MessageID: e.MessageID, Rejected: appendCopy(nil, updated.Rejected...)}}
		}
		return next, nil

	case AcceptAll:
		st, ok := s[e.MessageID]
		if !ok {
			return s, nil
		}
		cmds := make([]Command, 0, len(st.Active))
		for _, task := range st.Active {
			cmds = append(cmds, CreateTask{Text: task})
		}
		return s, cmds

	case RegenerateCompleted:
		st := s[e.MessageID]
		next := s.clone()
		next[e.MessageID] = SuggestionState{Active: appendCopy(nil, e.Suggestions...), Rejected: st.Rejected}
		return next, nil
	}
	return s, nil
}
