package sessions

import (
	"context"
	"sync"

	"github.com/jrsteele09/go-rental-portal/api"
	"github.com/jrsteele09/go-rental-portal/internal/errors"
)

// Manager hands out a Provider per browser context and owns the background
// work they start.
type Manager struct {
	store  Store
	client *api.Client
	opts   []ProviderOption

	locksMu sync.Mutex
	locks   map[string]*browserLock

	wg sync.WaitGroup
}

type browserLock struct {
	sync.Mutex
	refs int
}

func NewManager(store Store, client *api.Client, opts ...ProviderOption) *Manager {
	return &Manager{
		store:  store,
		client: client,
		opts:   opts,
		locks:  make(map[string]*browserLock),
	}
}

// Provider returns an initialised provider for browserID. Operations on
// providers that share a browserID are serialised.
func (m *Manager) Provider(ctx context.Context, browserID string) (*Provider, error) {
	opts := append([]ProviderOption{}, m.opts...)
	opts = append(opts,
		withLock(func() func() { return m.lock(browserID) }),
		withAsync(m.async),
	)

	p := NewProvider(browserID, m.store, m.client, opts...)
	if err := p.Init(ctx); err != nil {
		return nil, err
	}
	return p, nil
}

// Rotate moves the persisted keys of browserID to a fresh browser id and
// returns it. The old id is left empty.
func (m *Manager) Rotate(ctx context.Context, browserID string) (string, error) {
	unlock := m.lock(browserID)
	defer unlock()

	next := NewBrowserID()
	for _, key := range AllKeys {
		value, ok, err := m.store.Get(ctx, browserID, key)
		if err == nil && ok {
			err = m.store.Set(ctx, next, key, value)
		}
		if err != nil {
			_ = m.store.Remove(ctx, next, AllKeys...)
			return "", errors.Wrapf(err, "[Manager.Rotate] move %s", key)
		}
	}
	if err := m.store.Remove(ctx, browserID, AllKeys...); err != nil {
		return "", errors.Wrapf(err, "[Manager.Rotate] remove old keys")
	}
	return next, nil
}

// Wait blocks until background logout notifications have finished
func (m *Manager) Wait() {
	m.wg.Wait()
}

func (m *Manager) async(fn func()) {
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		fn()
	}()
}

func (m *Manager) lock(browserID string) func() {
	m.locksMu.Lock()
	l, ok := m.locks[browserID]
	if !ok {
		l = &browserLock{}
		m.locks[browserID] = l
	}
	l.refs++
	m.locksMu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()

		m.locksMu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(m.locks, browserID)
		}
		m.locksMu.Unlock()
	}
}
