// Package session is the client-side session state machine. A Controller
// reconciles the persisted client store and the token lifecycle manager into
// a live {identity, role profile} snapshot, and exposes the login, logout,
// register and profile operations the rest of the application calls.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/riarumoda/hjslamet-frontend/internal/clientstore"
	"github.com/riarumoda/hjslamet-frontend/internal/events"
	"github.com/riarumoda/hjslamet-frontend/internal/gateway"
	"github.com/riarumoda/hjslamet-frontend/internal/logging"
	"github.com/riarumoda/hjslamet-frontend/internal/models"
	"github.com/riarumoda/hjslamet-frontend/internal/token"
)

// Deps wires a Controller. Store, API and Tokens are required; the rest
// default to no-ops so tests can construct isolated controllers cheaply.
type Deps struct {
	Store  clientstore.Store
	API    *gateway.Client
	Tokens *token.Manager
	Events *events.Producer
	Log    *slog.Logger

	// Navigate is invoked for every controller-driven redirect (login
	// surfaces, banned page, return paths).
	Navigate func(path string)

	// Notify surfaces a user-facing message, e.g. the session-expired
	// notice.
	Notify func(message string)

	// Now overrides the clock in tests.
	Now func() time.Time
}

type Controller struct {
	id     string
	store  clientstore.Store
	api    *gateway.Client
	tokens *token.Manager
	events *events.Producer
	log    *slog.Logger

	navigate func(string)
	notify   func(string)
	now      func() time.Time

	mu        sync.Mutex
	snap      Snapshot
	tok       token.Token
	returnURL string
	subs      map[int]func(Snapshot)
	nextSub   int
	closed    bool
}

func New(d Deps) *Controller {
	c := &Controller{
		id:       uuid.NewString(),
		store:    d.Store,
		api:      d.API,
		tokens:   d.Tokens,
		events:   d.Events,
		log:      d.Log,
		navigate: d.Navigate,
		notify:   d.Notify,
		now:      d.Now,
		snap:     Snapshot{State: StateUninitialized},
		subs:     map[int]func(Snapshot){},
	}
	if c.log == nil {
		c.log = logging.Discard()
	}
	if c.navigate == nil {
		c.navigate = func(string) {}
	}
	if c.notify == nil {
		c.notify = func(string) {}
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snap
}

// Subscribe registers fn for every state transition and returns an
// unsubscribe func. fn is called synchronously, outside the controller lock.
func (c *Controller) Subscribe(fn func(Snapshot)) func() {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.mu.Unlock()
	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

// Close detaches all subscribers. A closed controller stops notifying but
// its last snapshot stays readable.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.subs = map[int]func(Snapshot){}
	c.mu.Unlock()
}

// SetReturnURL records the path to navigate to after the next successful
// login or reconciliation.
func (c *Controller) SetReturnURL(path string) {
	c.mu.Lock()
	c.returnURL = path
	c.mu.Unlock()
}

func (c *Controller) setState(s Snapshot) {
	c.mu.Lock()
	c.snap = s
	var fns []func(Snapshot)
	if !c.closed {
		for _, fn := range c.subs {
			fns = append(fns, fn)
		}
	}
	c.mu.Unlock()
	for _, fn := range fns {
		fn(s)
	}
}

func (c *Controller) currentToken() token.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tok
}

func (c *Controller) setToken(t token.Token) {
	c.mu.Lock()
	c.tok = t
	c.mu.Unlock()
}

// consumeReturnURL pops the pending return path, if any.
func (c *Controller) consumeReturnURL() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	p := c.returnURL
	c.returnURL = ""
	return p
}

// persistSession writes the full credential set in one sweep. Callers only
// invoke it once every piece is in hand, keeping login atomic: either all of
// token/user/profile land in the store or none do.
func (c *Controller) persistSession(tok token.Token, id models.Identity, profile models.Profile) error {
	if err := clientstore.PutJSON(c.store, clientstore.KeyToken, tok); err != nil {
		return err
	}
	if err := clientstore.PutJSON(c.store, clientstore.KeyUser, id); err != nil {
		return err
	}
	switch profile.Kind {
	case models.KindMember:
		if err := clientstore.PutJSON(c.store, clientstore.KeyMember, profile.Member); err != nil {
			return err
		}
	case models.KindAdmin:
		if err := clientstore.PutJSON(c.store, clientstore.KeyAdmin, profile.Admin); err != nil {
			return err
		}
	}
	c.setToken(tok)
	return nil
}

// clearSessionKeys removes the credential rows but leaves the cart alone.
func (c *Controller) clearSessionKeys() {
	if err := c.store.Delete(clientstore.KeyToken, clientstore.KeyUser, clientstore.KeyMember, clientstore.KeyAdmin); err != nil {
		c.log.Error("clear session keys failed", "error", err)
	}
	c.setToken(token.Token{})
}

// clearAll removes credentials and the cart. Logout, bans and account
// deletion all end here.
func (c *Controller) clearAll() {
	if err := c.store.Delete(clientstore.KeyToken, clientstore.KeyUser, clientstore.KeyMember, clientstore.KeyAdmin, clientstore.KeyCart); err != nil {
		c.log.Error("clear client store failed", "error", err)
	}
	c.setToken(token.Token{})
}

// expire handles a dead session: clear credentials, tell the user once and
// send them to the scope's login surface.
func (c *Controller) expire(scope models.ProfileKind) {
	c.clearSessionKeys()
	c.setState(Snapshot{State: StateUnauthenticated, Scope: scope})
	c.notify(msgSessionExpired)
	c.navigate(LoginPath(scope))
}

// ban force-clears everything and parks the session on the banned surface.
// This runs before the profile is ever exposed to a consumer.
func (c *Controller) ban(scope models.ProfileKind) {
	c.clearAll()
	c.setState(Snapshot{State: StateBanned, Scope: scope})
	c.navigate(PathBanned)
}

func (c *Controller) publishUserEvent(ctx context.Context, event map[string]any) {
	c.events.Publish(ctx, events.TopicUserEvents, c.id, event)
}

// withBearer runs an authenticated call, refreshing the token once when it
// is stale or the backend answers 401. No second retry.
func (c *Controller) withBearer(ctx context.Context, scope models.ProfileKind, call func(access string) error) error {
	tok := c.currentToken()
	if tok.AccessToken == "" {
		return ErrNotAuthenticated
	}

	if !tok.StaleAt(c.now()) {
		err := call(tok.AccessToken)
		if err == nil || !errors.Is(err, gateway.ErrUnauthorized) {
			return err
		}
	}

	fresh, err := c.tokens.Refresh(ctx, tok)
	if err != nil {
		c.log.Warn("token refresh failed", "error", err)
		c.expire(scope)
		return ErrSessionExpired
	}
	if err := clientstore.PutJSON(c.store, clientstore.KeyToken, fresh); err != nil {
		return err
	}
	c.setToken(fresh)
	return call(fresh.AccessToken)
}
