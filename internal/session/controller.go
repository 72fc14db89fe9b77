package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"taskclient/internal/service"
)

// SignupNotice is shown after a successful signup.
const SignupNotice = "Signup successful! Please log in."

// State is a snapshot of everything a renderer needs.
type State struct {
	View     View
	LoggedIn bool
	Subject  string
	Expiry   time.Time // zero when unknown
	Tasks    []service.Task
	Err      error  // current notification, if it is an error
	Notice   string // current notification, if it is informational
}

// Controller owns the Session and the active View. Its methods are the
// only way to change either.
//
// Overlapping calls are allowed. Login, Logout and RefreshTasks each
// start a new generation; a login or task list response that arrives
// after a newer generation started is dropped and its caller gets
// service.ErrStale.
type Controller struct {
	gw     service.Gateway
	render func(State)

	mu      sync.Mutex
	session Session
	view    View
	tasks   []service.Task
	err     error
	notice  string

	authGen uint64 // bumped by Login and Logout
	listGen uint64 // bumped by RefreshTasks and Logout
}

// Option configures a Controller.
type Option func(*Controller)

// WithRenderer registers a hook called with a fresh State after every
// transition.
func WithRenderer(fn func(State)) Option {
	return func(c *Controller) {
		c.render = fn
	}
}

// NewController creates a logged-out controller showing the Login view.
func NewController(gw service.Gateway, opts ...Option) *Controller {
	c := &Controller{
		gw:   gw,
		view: ViewLogin,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns a snapshot of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

// Session returns a copy of the current session.
func (c *Controller) Session() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// Navigate sets the active view unconditionally.
func (c *Controller) Navigate(v View) {
	c.mu.Lock()
	c.view = v
	c.mu.Unlock()
	c.emit()
}

// Dismiss clears the current notification.
func (c *Controller) Dismiss() {
	c.mu.Lock()
	c.err = nil
	c.notice = ""
	c.mu.Unlock()
	c.emit()
}

// Signup registers an account. On success the Login view is shown with a
// notice; the session is never touched.
func (c *Controller) Signup(ctx context.Context, username, password string) error {
	err := c.gw.Signup(ctx, username, password)

	c.mu.Lock()
	if err != nil {
		c.err, c.notice = err, ""
	} else {
		c.err, c.notice = nil, SignupNotice
		c.view = ViewLogin
	}
	c.mu.Unlock()
	c.emit()
	return err
}

// Login authenticates and, on success, stores the token, shows Home and
// refreshes the task list. A failed refresh is reported through State.Err
// and does not undo the login.
func (c *Controller) Login(ctx context.Context, username, password string) error {
	c.mu.Lock()
	c.authGen++
	gen := c.authGen
	c.mu.Unlock()

	token, err := c.gw.Login(ctx, username, password)

	c.mu.Lock()
	if gen != c.authGen {
		c.mu.Unlock()
		return service.ErrStale
	}
	if err != nil {
		c.err, c.notice = err, ""
		c.mu.Unlock()
		c.emit()
		return err
	}
	c.session.set(token, username)
	c.view = ViewHome
	c.err, c.notice = nil, ""
	c.mu.Unlock()
	c.emit()

	// A failed refresh is already the current notification. A logout or
	// newer login since the commit makes the refresh a no-op.
	_ = c.refresh(ctx, gen)
	return nil
}

// Logout clears the session and shows Login. It sends nothing and is
// idempotent. Any login or refresh still in flight is discarded.
func (c *Controller) Logout() {
	c.mu.Lock()
	c.authGen++
	c.listGen++
	c.session.clear()
	c.view = ViewLogin
	c.tasks = nil
	c.mu.Unlock()
	c.emit()
}

// RefreshTasks replaces the task list with the backend's. The list is
// cleared before fetching, so a failure leaves it empty.
func (c *Controller) RefreshTasks(ctx context.Context) error {
	c.mu.Lock()
	auth := c.authGen
	c.mu.Unlock()
	return c.refresh(ctx, auth)
}

// refresh fetches the list for the session of auth generation auth. It
// returns service.ErrStale without side effects once that session has
// been replaced or cleared, or once a newer refresh started.
func (c *Controller) refresh(ctx context.Context, auth uint64) error {
	c.mu.Lock()
	if auth != c.authGen {
		c.mu.Unlock()
		return service.ErrStale
	}
	c.listGen++
	gen := c.listGen
	token := c.session.Token()
	c.tasks = nil
	c.mu.Unlock()
	c.emit()

	tasks, err := c.gw.ListTasks(ctx, token)

	c.mu.Lock()
	if gen != c.listGen || auth != c.authGen {
		c.mu.Unlock()
		return service.ErrStale
	}
	if err != nil {
		c.err, c.notice = err, ""
	} else {
		c.tasks = tasks
		if errors.Is(c.err, service.ErrTaskFetchFailed) {
			c.err = nil
		}
	}
	c.mu.Unlock()
	c.emit()
	return err
}

// CreateTask creates a task and then refreshes the list to observe it.
// Nothing is inserted locally. The result reflects the create only: a
// failed refresh afterwards is reported through State.Err. If the session
// changed while the request was in flight, the outcome is dropped and
// service.ErrStale returned.
func (c *Controller) CreateTask(ctx context.Context, title, description string) error {
	c.mu.Lock()
	auth := c.authGen
	token := c.session.Token()
	c.mu.Unlock()

	err := c.gw.CreateTask(ctx, token, title, description)

	c.mu.Lock()
	if auth != c.authGen {
		c.mu.Unlock()
		return service.ErrStale
	}
	if err != nil {
		c.err, c.notice = err, ""
		c.mu.Unlock()
		c.emit()
		return err
	}
	c.mu.Unlock()

	_ = c.refresh(ctx, auth)
	return nil
}

func (c *Controller) stateLocked() State {
	st := State{
		View:     c.view,
		LoggedIn: c.session.LoggedIn(),
		Subject:  c.session.Subject(),
		Err:      c.err,
		Notice:   c.notice,
	}
	if exp, ok := c.session.Expiry(); ok {
		st.Expiry = exp
	}
	if c.tasks != nil {
		st.Tasks = make([]service.Task, len(c.tasks))
		copy(st.Tasks, c.tasks)
	}
	return st
}

func (c *Controller) emit() {
	if c.render == nil {
		return
	}
	c.render(c.State())
}
