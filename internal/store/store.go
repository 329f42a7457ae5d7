package store

import (
	"io"
	"sync"

	"github.com/sirupsen/logrus"
)

// Persister mirrors selected state fields to durable storage.
type Persister interface {
	SaveDarkMode(on bool)
	SaveCartItems(items []LineItem)
	SavePaymentMethod(m PaymentMethod)
	SaveUser(u *UserSession)
	// Remove drops persisted fields by name (see the Cookie* constants).
	Remove(names ...string)
}

// Store is the single writer path for a session's State. Dispatch calls are
// serialised; readers get snapshots.
type Store struct {
	mu        sync.Mutex
	state     State
	policy    Policy
	persister Persister
	log       logrus.FieldLogger

	subMu   sync.Mutex
	subs    map[int]func(State)
	nextSub int
}

// Option configures a Store.
type Option func(*Store)

func WithPersister(p Persister) Option {
	return func(s *Store) { s.persister = p }
}

func WithLogoutClearsPaymentMethod(clear bool) Option {
	return func(s *Store) { s.policy.LogoutClearsPaymentMethod = clear }
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

// New builds a Store seeded with initial.
func New(initial State, opts ...Option) *Store {
	discard := logrus.New()
	discard.Out = io.Discard
	s := &Store{
		state:  initial.Clone(),
		policy: DefaultPolicy,
		log:    discard,
		subs:   make(map[int]func(State)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns a snapshot of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Dispatch replaces the state with the result of reducing a, writes the
// persisted fields, then notifies subscribers. It never fails.
func (s *Store) Dispatch(a Action) {
	s.mu.Lock()
	if !known(a.Type) {
		s.mu.Unlock()
		s.log.WithField("action", string(a.Type)).Debug("store: ignoring unknown action")
		return
	}
	next := s.policy.Reduce(s.state, a)
	s.state = next
	if s.persister != nil && persisted(a.Type) {
		s.persist(a.Type, next)
	}
	snapshot := next.Clone()
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{
		"action":     string(a.Type),
		"cart_items": len(snapshot.Cart.Items),
	}).Debug("store: dispatched")
	s.notify(snapshot)
}

func (s *Store) persist(t ActionType, st State) {
	switch t {
	case ActionThemeOn, ActionThemeOff:
		s.persister.SaveDarkMode(st.DarkMode)
	case ActionCartAddItem, ActionCartRemoveItem:
		s.persister.SaveCartItems(st.Cart.Items)
	case ActionSavePaymentMethod:
		s.persister.SavePaymentMethod(st.Cart.PaymentMethod)
	case ActionUserLogin:
		s.persister.SaveUser(st.User)
	}
}

// Forget removes persisted fields without touching in-memory state. Callers
// use it after CART_CLEAR and USER_LOGOUT, which persist nothing themselves.
func (s *Store) Forget(names ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.persister != nil {
		s.persister.Remove(names...)
	}
}

// Subscribe registers fn to receive every new state after a dispatch. The
// returned function removes the subscription.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
		})
	}
}

func (s *Store) notify(st State) {
	s.subMu.Lock()
	listeners := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		listeners = append(listeners, fn)
	}
	s.subMu.Unlock()
	for _, fn := range listeners {
		fn(st.Clone())
	}
}
