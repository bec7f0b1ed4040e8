package tracking

import (
	"errors"
	"sort"
	"sync"
)

// ErrUnknownAgent is returned when an operation names an agent the store does not track.
var ErrUnknownAgent = errors.New("tracking: unknown agent")

// Agent identifies a tracked field agent.
type Agent struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// AgentView is a read-only view of one agent and its log.
type AgentView struct {
	Agent
	Log *Log
}

// Current returns the agent's latest known position.
func (a AgentView) Current() (Sample, bool) {
	return a.Log.Last()
}

type subscriber struct {
	id       uint64
	onAppend func(Sample)
}

// Store holds every tracked agent and its position log.
type Store struct {
	mu     sync.RWMutex
	agents map[int]*AgentView
	subs   map[int][]subscriber
	nextID uint64
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		agents: map[int]*AgentView{},
		subs:   map[int][]subscriber{},
	}
}

// Add registers an agent with its initial history. Re-adding an id replaces it.
func (s *Store) Add(a Agent, history []Sample) AgentView {
	v := &AgentView{Agent: a, Log: NewLog(history)}
	s.mu.Lock()
	s.agents[a.ID] = v
	s.mu.Unlock()
	return *v
}

// Agent looks up an agent by id.
func (s *Store) Agent(id int) (AgentView, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.agents[id]
	if !ok {
		return AgentView{}, false
	}
	return *v, true
}

// Agents returns all agents ordered by id.
func (s *Store) Agents() []AgentView {
	s.mu.RLock()
	out := make([]AgentView, 0, len(s.agents))
	for _, v := range s.agents {
		out = append(out, *v)
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Append records a new position for an agent and notifies its subscribers.
// Subscribers run after the append is committed, outside the store lock.
func (s *Store) Append(id int, sample Sample) error {
	s.mu.RLock()
	v, ok := s.agents[id]
	subs := append([]subscriber(nil), s.subs[id]...)
	s.mu.RUnlock()
	if !ok {
		return ErrUnknownAgent
	}
	v.Log.Append(sample)
	for _, sub := range subs {
		sub.onAppend(sample)
	}
	return nil
}

// Subscribe registers onAppend for appends to one agent's log.
// The returned function removes the subscription; calling it twice is harmless.
func (s *Store) Subscribe(id int, onAppend func(Sample)) (unsubscribe func()) {
	s.mu.Lock()
	s.nextID++
	subID := s.nextID
	s.subs[id] = append(s.subs[id], subscriber{id: subID, onAppend: onAppend})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			list := s.subs[id]
			for i, sub := range list {
				if sub.id == subID {
					s.subs[id] = append(list[:i:i], list[i+1:]...)
					break
				}
			}
			if len(s.subs[id]) == 0 {
				delete(s.subs, id)
			}
		})
	}
}

// LatestEpoch returns the newest sample time across all agents as unix seconds,
// or 0 when nothing has been recorded.
func (s *Store) LatestEpoch() int64 {
	var latest int64
	for _, a := range s.Agents() {
		if last, ok := a.Current(); ok {
			if ts := last.Time.Unix(); ts > latest {
				latest = ts
			}
		}
	}
	return latest
}
