package auth

import (
	"context"
	"log/slog"
	"sync"

	"github.com/blackwell-systems/readctl/internal/api"
)

// TierFetcher looks up the current subscription tier. *api.Client satisfies
// this; the store only needs the one call.
type TierFetcher interface {
	SubscriptionStatus(ctx context.Context) (api.Tier, error)
}

// Store is the single source of truth for "who is signed in and are they
// entitled to premium features". All session mutation happens through its
// methods; other components read via Session/Credentials/Email.
type Store struct {
	provider *Provider
	path     string // persisted session location
	tiers    TierFetcher
	log      *slog.Logger

	mu        sync.Mutex
	session   *Session
	tier      api.Tier
	loading   bool
	nextSub   int
	subs      map[int]func(*Session)
	refreshes sync.WaitGroup
}

// NewStore creates a Store backed by the given provider and persisted-session
// path. tiers may be nil; subscription state then stays empty.
func NewStore(provider *Provider, path string, tiers TierFetcher, log *slog.Logger) *Store {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Store{
		provider: provider,
		path:     path,
		tiers:    tiers,
		log:      log,
		loading:  true,
		subs:     make(map[int]func(*Session)),
	}
}

// Provider returns the identity provider the store authenticates against.
func (s *Store) Provider() *Provider {
	return s.provider
}

// SetTierFetcher wires the subscription lookup after construction. The store
// feeds credentials to the API client and the client feeds tier state back,
// so one side has to be attached late.
func (s *Store) SetTierFetcher(t TierFetcher) {
	s.mu.Lock()
	s.tiers = t
	s.mu.Unlock()
}

// Initialize loads the persisted session, transparently refreshing it when
// the access token has expired. Loading ends on completion or failure either
// way; an unusable session just leaves the store unauthenticated.
func (s *Store) Initialize(ctx context.Context) error {
	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}()

	sess, err := LoadSession(s.path)
	if err != nil {
		s.log.Warn("loading persisted session failed", "error", err)
		return err
	}
	if sess == nil {
		return nil
	}

	if sess.Expired() {
		fresh, err := s.provider.Refresh(ctx, sess.RefreshToken)
		if err != nil {
			s.log.Warn("session refresh failed, signing out locally", "error", err)
			_ = ClearSession(s.path)
			return nil
		}
		sess = fresh
		if err := SaveSession(s.path, sess); err != nil {
			s.log.Warn("persisting refreshed session failed", "error", err)
		}
	}

	s.setSession(sess)
	return nil
}

// SetSession installs a freshly verified session and persists it.
func (s *Store) SetSession(sess *Session) error {
	err := SaveSession(s.path, sess)
	s.setSession(sess)
	return err
}

// setSession swaps the session and notifies subscribers. Becoming
// authenticated kicks off an async tier refresh; becoming unauthenticated
// clears the tier immediately so no stale entitlement survives.
func (s *Store) setSession(sess *Session) {
	s.mu.Lock()
	s.session = sess
	if sess == nil {
		s.tier = ""
	}
	subs := make([]func(*Session), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(sess)
	}

	s.mu.Lock()
	tiers := s.tiers
	s.mu.Unlock()
	if sess != nil && tiers != nil {
		s.refreshes.Add(1)
		go func() {
			defer s.refreshes.Done()
			_ = s.RefreshSubscription(context.Background())
		}()
	}
}

// Session returns the current session, or nil when signed out.
func (s *Store) Session() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

// Loading reports whether Initialize has finished.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Email returns the signed-in user's email, or "".
func (s *Store) Email() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return ""
	}
	return s.session.User.Email
}

// Tier returns the last known subscription tier.
func (s *Store) Tier() api.Tier {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tier
}

// Credentials adapts the store to api.CredentialSource.
func (s *Store) Credentials() (*api.Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil, api.ErrNoSession
	}
	return &api.Credentials{
		AccessToken:  s.session.AccessToken,
		RefreshToken: s.session.RefreshToken,
	}, nil
}

// SignOut invalidates the session with the provider. The store converges to
// signed-out state and the persisted session is removed whether or not the
// provider call succeeds; a provider error is still returned so the caller
// can surface it.
func (s *Store) SignOut(ctx context.Context) error {
	s.mu.Lock()
	sess := s.session
	s.mu.Unlock()

	var provErr error
	if sess != nil {
		provErr = s.provider.SignOut(ctx, sess.AccessToken)
	}

	if err := ClearSession(s.path); err != nil {
		s.log.Warn("removing persisted session failed", "error", err)
	}
	s.setSession(nil)
	return provErr
}

// RefreshSubscription queries the current tier. Any failure resolves to
// inactive rather than leaving a stale active tier — premium features fail
// closed.
func (s *Store) RefreshSubscription(ctx context.Context) error {
	s.mu.Lock()
	tiers := s.tiers
	s.mu.Unlock()
	if tiers == nil {
		return nil
	}
	tier, err := tiers.SubscriptionStatus(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.tier = api.TierInactive
		s.log.Warn("subscription status fetch failed, treating as inactive", "error", err)
		return err
	}
	s.tier = tier
	return nil
}

// Subscribe registers fn for session-change notification. The returned
// function unsubscribes.
func (s *Store) Subscribe(fn func(*Session)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Close waits for in-flight tier refreshes and drops all subscribers.
func (s *Store) Close() {
	s.refreshes.Wait()
	s.mu.Lock()
	s.subs = make(map[int]func(*Session))
	s.mu.Unlock()
}
