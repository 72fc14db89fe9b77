package taskapi_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"google.golang.org/api/googleapi"

	"taskclient/internal/backend/taskapi"
	"taskclient/internal/config"
	"taskclient/internal/logger"
	"taskclient/internal/service"
	"taskclient/internal/testutil"
)

func newClient(t *testing.T, srv *testutil.TaskServer) *taskapi.Client {
	t.Helper()
	cfg := &config.Config{BaseURL: srv.URL, Timeout: config.DefaultTimeout}
	return taskapi.New(cfg, logger.Discard())
}

func signupAndLogin(t *testing.T, c *taskapi.Client, username, password string) string {
	t.Helper()
	ctx := context.Background()
	if err := c.Signup(ctx, username, password); err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	token, err := c.Login(ctx, username, password)
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	return token
}

func TestSignup_SendsJSON(t *testing.T) {
	srv := testutil.NewServer(t)
	c := newClient(t, srv)

	if err := c.Signup(context.Background(), "alice", "pw"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	reqs := srv.Requests()
	if len(reqs) != 1 {
		t.Fatalf("expected 1 request, got %d", len(reqs))
	}
	if reqs[0].Method != http.MethodPost || reqs[0].Path != "/signup" {
		t.Errorf("expected POST /signup, got %s %s", reqs[0].Method, reqs[0].Path)
	}
	if ct := reqs[0].Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected JSON content type, got %q", ct)
	}
	var body map[string]string
	if err := json.Unmarshal([]byte(reqs[0].Body), &body); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if body["username"] != "alice" || body["password"] != "pw" {
		t.Errorf("unexpected body %v", body)
	}
	if reqs[0].Header.Get(taskapi.RequestIDHeader) == "" {
		t.Error("expected a request id header")
	}
}

func TestSignup_Duplicate(t *testing.T) {
	srv := testutil.NewServer(t)
	c := newClient(t, srv)
	ctx := context.Background()

	if err := c.Signup(ctx, "alice", "pw"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := c.Signup(ctx, "alice", "pw")
	if !errors.Is(err, service.ErrSignupFailed) {
		t.Fatalf("expected ErrSignupFailed, got %v", err)
	}

	var statusErr *taskapi.StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError in chain, got %v", err)
	}
	if statusErr.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", statusErr.Code)
	}
	if statusErr.Detail != "Username already registered" {
		t.Errorf("unexpected detail %q", statusErr.Detail)
	}

	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		t.Error("expected googleapi.Error in chain")
	}
}

func TestSignup_Unreachable(t *testing.T) {
	srv := testutil.NewServer(t)
	c := newClient(t, srv)
	srv.Close()

	err := c.Signup(context.Background(), "alice", "pw")
	if !errors.Is(err, service.ErrSignupFailed) {
		t.Errorf("expected ErrSignupFailed, got %v", err)
	}
}

func TestLogin_FormEncoded(t *testing.T) {
	srv := testutil.NewServer(t)
	c := newClient(t, srv)

	token := signupAndLogin(t, c, "alice", "pw")
	if token == "" {
		t.Fatal("expected a token")
	}

	var login *testutil.RecordedRequest
	for _, r := range srv.Requests() {
		if r.Path == "/login" {
			login = &r
		}
	}
	if login == nil {
		t.Fatal("expected a /login request")
	}
	if ct := login.Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/x-www-form-urlencoded") {
		t.Errorf("expected form content type, got %q", ct)
	}
	form, err := url.ParseQuery(login.Body)
	if err != nil {
		t.Fatalf("body is not a form: %v", err)
	}
	if form.Get("username") != "alice" || form.Get("password") != "pw" {
		t.Errorf("unexpected form %v", form)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	srv := testutil.NewServer(t)
	c := newClient(t, srv)
	ctx := context.Background()

	if err := c.Signup(ctx, "alice", "pw"); err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	token, err := c.Login(ctx, "alice", "nope")
	if !errors.Is(err, service.ErrLoginFailed) {
		t.Fatalf("expected ErrLoginFailed, got %v", err)
	}
	if token != "" {
		t.Errorf("expected no token, got %q", token)
	}
	var statusErr *taskapi.StatusError
	if !errors.As(err, &statusErr) || statusErr.Detail != "Incorrect username or password" {
		t.Errorf("expected backend detail in error, got %v", err)
	}
}

func TestLogin_MissingToken(t *testing.T) {
	srv := testutil.NewServer(t)
	c := newClient(t, srv)
	ctx := context.Background()

	if err := c.Signup(ctx, "alice", "pw"); err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	srv.OmitToken = true

	if _, err := c.Login(ctx, "alice", "pw"); !errors.Is(err, service.ErrLoginFailed) {
		t.Errorf("expected ErrLoginFailed, got %v", err)
	}
}

func TestListTasks_NoTokenSendsNothing(t *testing.T) {
	srv := testutil.NewServer(t)
	c := newClient(t, srv)

	_, err := c.ListTasks(context.Background(), "")
	if !errors.Is(err, service.ErrTaskFetchFailed) {
		t.Errorf("expected ErrTaskFetchFailed, got %v", err)
	}
	if !errors.Is(err, service.ErrNotLoggedIn) {
		t.Errorf("expected ErrNotLoggedIn, got %v", err)
	}
	if n := len(srv.Requests()); n != 0 {
		t.Errorf("expected no requests, got %d", n)
	}
}

func TestListTasks_BearerAndOrder(t *testing.T) {
	srv := testutil.NewServer(t)
	c := newClient(t, srv)
	ctx := context.Background()
	token := signupAndLogin(t, c, "alice", "pw")

	for _, title := range []string{"Buy milk", "Call mom", "Alpha"} {
		if err := c.CreateTask(ctx, token, title, ""); err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}

	tasks, err := c.ListTasks(ctx, token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"Buy milk", "Call mom", "Alpha"}
	if len(tasks) != len(want) {
		t.Fatalf("expected %d tasks, got %d", len(want), len(tasks))
	}
	for i, task := range tasks {
		if task.Title != want[i] {
			t.Errorf("task %d: expected %q, got %q", i, want[i], task.Title)
		}
		if len(task.ID) == 0 {
			t.Errorf("task %d: expected an opaque id", i)
		}
	}

	reqs := srv.Requests()
	last := reqs[len(reqs)-1]
	if got := last.Header.Get("Authorization"); got != "Bearer "+token {
		t.Errorf("expected bearer header, got %q", got)
	}
}

func TestListTasks_Unauthorized(t *testing.T) {
	srv := testutil.NewServer(t)
	c := newClient(t, srv)

	_, err := c.ListTasks(context.Background(), "garbage")
	if !errors.Is(err, service.ErrTaskFetchFailed) {
		t.Fatalf("expected ErrTaskFetchFailed, got %v", err)
	}
	var statusErr *taskapi.StatusError
	if !errors.As(err, &statusErr) || statusErr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 status error, got %v", err)
	}
}

func TestCreateTask_EmptyTitleSendsNothing(t *testing.T) {
	srv := testutil.NewServer(t)
	c := newClient(t, srv)

	err := c.CreateTask(context.Background(), "token", "", "x")
	if !errors.Is(err, service.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
	if n := len(srv.Requests()); n != 0 {
		t.Errorf("expected no requests, got %d", n)
	}
}

func TestCreateTask_BlankTitleIsSent(t *testing.T) {
	srv := testutil.NewServer(t)
	c := newClient(t, srv)
	token := signupAndLogin(t, c, "alice", "pw")
	before := len(srv.Requests())

	// Only an empty title is rejected locally; anything else is the backend's call.
	if err := c.CreateTask(context.Background(), token, "   ", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := len(srv.Requests()) - before; n != 1 {
		t.Errorf("expected 1 request, got %d", n)
	}
}

func TestCreateTask_SendsExactlyOnePost(t *testing.T) {
	srv := testutil.NewServer(t)
	c := newClient(t, srv)
	ctx := context.Background()
	token := signupAndLogin(t, c, "alice", "pw")
	before := len(srv.Requests())

	if err := c.CreateTask(ctx, token, "Buy milk", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	reqs := srv.Requests()[before:]
	if len(reqs) != 1 {
		t.Fatalf("expected exactly 1 request, got %d", len(reqs))
	}
	if reqs[0].Method != http.MethodPost || reqs[0].Path != "/tasks" {
		t.Errorf("expected POST /tasks, got %s %s", reqs[0].Method, reqs[0].Path)
	}
	if reqs[0].Body == "" {
		t.Fatal("expected a body")
	}
	var body map[string]any
	if err := json.Unmarshal([]byte(reqs[0].Body), &body); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if len(body) != 2 || body["title"] != "Buy milk" || body["description"] != "" {
		t.Errorf("unexpected body %v", body)
	}
}

func TestCreateTask_ServerError(t *testing.T) {
	srv := testutil.NewServer(t)
	c := newClient(t, srv)
	token := signupAndLogin(t, c, "alice", "pw")
	srv.FailWith(http.MethodPost, "/tasks", http.StatusInternalServerError)

	err := c.CreateTask(context.Background(), token, "Buy milk", "")
	if !errors.Is(err, service.ErrTaskCreateFailed) {
		t.Errorf("expected ErrTaskCreateFailed, got %v", err)
	}
}

func TestTransport_DebugLogsRequestID(t *testing.T) {
	srv := testutil.NewServer(t)
	var buf strings.Builder
	cfg := &config.Config{BaseURL: srv.URL, Timeout: config.DefaultTimeout}
	c := taskapi.New(cfg, logger.New(&buf, true))

	if err := c.Signup(context.Background(), "alice", "pw"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	id := srv.Requests()[0].Header.Get(taskapi.RequestIDHeader)
	if !strings.Contains(buf.String(), "DEBUG: POST /signup -> ") {
		t.Errorf("expected request line, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), "id="+id) {
		t.Errorf("expected request id %s in log, got %q", id, buf.String())
	}
}
