package restapi_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"tasktrack/internal/backend/restapi"
	"tasktrack/internal/service"
	"tasktrack/internal/testutil"
)

func newClient(t *testing.T, url string, opts ...restapi.Option) *restapi.Client {
	t.Helper()
	c, err := restapi.New(url, opts...)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func remoteError(t *testing.T, err error) *service.RemoteError {
	t.Helper()
	var re *service.RemoteError
	if !errors.As(err, &re) {
		t.Fatalf("expected *service.RemoteError, got %T: %v", err, err)
	}
	return re
}

func TestNew_InvalidURL(t *testing.T) {
	for _, raw := range []string{"", "ftp://example.com", "://bad"} {
		if _, err := restapi.New(raw); err == nil {
			t.Errorf("expected error for %q", raw)
		}
	}
}

func TestSignupLoginFlow(t *testing.T) {
	srv := testutil.NewAuthorityServer(t)
	c := newClient(t, srv.URL+"/")
	ctx := context.Background()

	if err := c.Signup(ctx, "alice", "secret1"); err != nil {
		t.Fatalf("signup: %v", err)
	}

	token, err := c.Login(ctx, "alice", "secret1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token == "" {
		t.Fatal("expected token")
	}

	for _, r := range srv.Requests() {
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("%s %s: expected JSON content type, got %q", r.Method, r.URL.Path, r.Header.Get("Content-Type"))
		}
		if r.Header.Get("Authorization") != "" {
			t.Errorf("%s %s: auth routes must not carry a bearer token", r.Method, r.URL.Path)
		}
	}
}

func TestSignup_Duplicate(t *testing.T) {
	srv := testutil.NewAuthorityServer(t)
	srv.AddUser("alice", "secret1")
	c := newClient(t, srv.URL)

	err := c.Signup(context.Background(), "alice", "secret1")
	re := remoteError(t, err)
	if re.Status != http.StatusConflict || re.Message != "Username already exists" {
		t.Errorf("unexpected error: %+v", re)
	}
}

func TestSignup_MessageList(t *testing.T) {
	srv := testutil.NewAuthorityServer(t)
	c := newClient(t, srv.URL)

	err := c.Signup(context.Background(), "", "abc")
	want := "username should not be empty; password must be longer than or equal to 6 characters"
	if err == nil || err.Error() != want {
		t.Errorf("expected %q, got %v", want, err)
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	srv := testutil.NewAuthorityServer(t)
	srv.AddUser("alice", "secret1")
	c := newClient(t, srv.URL)

	_, err := c.Login(context.Background(), "alice", "wrong")
	re := remoteError(t, err)
	if re.Status != http.StatusUnauthorized || re.Error() != "Invalid credentials" {
		t.Errorf("unexpected error: %+v", re)
	}
}

func TestTasksFlow(t *testing.T) {
	srv := testutil.NewAuthorityServer(t)
	existing := srv.AddTask("alice", "Existing", true)
	srv.AddTask("bob", "Not mine", false)
	token := srv.IssueToken("alice", time.Now().Add(time.Hour))
	c := newClient(t, srv.URL)
	ctx := context.Background()

	tasks, err := c.ListTasks(ctx, token)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tasks) != 1 || tasks[0].ID != existing || !tasks[0].Completed {
		t.Fatalf("unexpected tasks: %+v", tasks)
	}

	created, err := c.CreateTask(ctx, token, "Buy milk")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" || created.Text != "Buy milk" || created.Completed {
		t.Errorf("unexpected created task: %+v", created)
	}

	completed, err := c.ToggleTask(ctx, token, created.ID)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !completed {
		t.Error("expected task to be completed after toggle")
	}

	for _, r := range srv.Requests() {
		if !strings.HasPrefix(r.URL.Path, "/tasks") {
			continue
		}
		if r.Header.Get("Authorization") != "Bearer "+token {
			t.Errorf("%s %s: expected bearer token, got %q", r.Method, r.URL.Path, r.Header.Get("Authorization"))
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("%s %s: expected JSON content type", r.Method, r.URL.Path)
		}
	}
}

func TestListTasks_EmptyIsNonNil(t *testing.T) {
	srv := testutil.NewAuthorityServer(t)
	c := newClient(t, srv.URL)

	tasks, err := c.ListTasks(context.Background(), srv.IssueToken("alice", time.Now().Add(time.Hour)))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if tasks == nil || len(tasks) != 0 {
		t.Errorf("expected empty list, got %#v", tasks)
	}
}

func TestTasks_Unauthorized(t *testing.T) {
	srv := testutil.NewAuthorityServer(t)
	c := newClient(t, srv.URL)

	expired := srv.IssueToken("alice", time.Now().Add(-time.Minute))
	_, err := c.ListTasks(context.Background(), expired)
	if re := remoteError(t, err); re.Status != http.StatusUnauthorized {
		t.Errorf("expected 401, got %+v", re)
	}
}

func TestTasks_ServiceDown(t *testing.T) {
	srv := testutil.NewAuthorityServer(t)
	token := srv.IssueToken("alice", time.Now().Add(time.Hour))
	srv.SetDown(true)
	c := newClient(t, srv.URL)

	_, err := c.CreateTask(context.Background(), token, "x")
	re := remoteError(t, err)
	if re.Status != http.StatusServiceUnavailable || re.Message != "Service Unavailable" {
		t.Errorf("unexpected error: %+v", re)
	}
}

func TestToggle_UnknownID(t *testing.T) {
	srv := testutil.NewAuthorityServer(t)
	c := newClient(t, srv.URL)

	_, err := c.ToggleTask(context.Background(), srv.IssueToken("alice", time.Now().Add(time.Hour)), "no/such id")
	if re := remoteError(t, err); re.Status != http.StatusNotFound {
		t.Errorf("expected 404, got %+v", re)
	}
}

func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := newClient(t, url)
	_, err := c.ListTasks(context.Background(), "tok")
	re := remoteError(t, err)
	if re.Status != 0 || re.Err == nil {
		t.Errorf("expected transport failure, got %+v", re)
	}
}

func TestTimeout(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(block)

	c := newClient(t, srv.URL, restapi.WithTimeout(50*time.Millisecond))
	_, err := c.ListTasks(context.Background(), "tok")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if !strings.Contains(err.Error(), "request timed out") {
		t.Errorf("expected readable timeout message, got %q", err.Error())
	}
}

func TestResponseShapes(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		call    func(c *restapi.Client) error
		wantMsg string
	}{
		{
			name: "error without message", status: http.StatusInternalServerError, body: `{"error":"boom"}`,
			call:    func(c *restapi.Client) error { return c.Signup(context.Background(), "a", "b") },
			wantMsg: service.DefaultErrorMessage,
		},
		{
			name: "error with non-json body", status: http.StatusBadGateway, body: `<html>bad gateway</html>`,
			call:    func(c *restapi.Client) error { _, err := c.Login(context.Background(), "a", "b"); return err },
			wantMsg: service.DefaultErrorMessage,
		},
		{
			name: "login without token", status: http.StatusOK, body: `{"user":"a"}`,
			call:    func(c *restapi.Client) error { _, err := c.Login(context.Background(), "a", "b"); return err },
			wantMsg: "login response missing token",
		},
		{
			name: "toggle without completed", status: http.StatusOK, body: `{"_id":"1"}`,
			call:    func(c *restapi.Client) error { _, err := c.ToggleTask(context.Background(), "t", "1"); return err },
			wantMsg: "toggle response missing completed",
		},
		{
			name: "create without id", status: http.StatusCreated, body: `{"text":"x"}`,
			call:    func(c *restapi.Client) error { _, err := c.CreateTask(context.Background(), "t", "x"); return err },
			wantMsg: "create response missing task id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			err := tt.call(newClient(t, srv.URL))
			if re := remoteError(t, err); re.Error() != tt.wantMsg {
				t.Errorf("expected %q, got %q", tt.wantMsg, re.Error())
			}
		})
	}
}

func TestSignup_IgnoresSuccessBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte("created"))
	}))
	defer srv.Close()

	if err := newClient(t, srv.URL).Signup(context.Background(), "a", "secret1"); err != nil {
		t.Errorf("expected success, got %v", err)
	}
}

func TestToggle_EscapesID(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		w.Write([]byte(`{"completed":false}`))
	}))
	defer srv.Close()

	completed, err := newClient(t, srv.URL).ToggleTask(context.Background(), "t", "a/b c")
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if completed {
		t.Error("expected authority value false")
	}
	if gotPath != "/tasks/a%2Fb%20c/toggle" {
		t.Errorf("unexpected path %q", gotPath)
	}
}
