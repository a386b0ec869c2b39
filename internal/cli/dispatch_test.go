package cli_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tasktrack/internal/cache"
	"tasktrack/internal/cli"
	"tasktrack/internal/commands"
	"tasktrack/internal/config"
	"tasktrack/internal/exitcode"
	"tasktrack/internal/service"
	"tasktrack/internal/testutil"
)

// testFactory creates a service factory that returns the given FakeAuthority.
func testFactory(svc *testutil.FakeAuthority) cli.ServiceFactory {
	return func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		return svc, nil
	}
}

// run dispatches args with --config pointing at dir.
func run(t *testing.T, d *cli.Dispatcher, dir string, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	if len(args) > 0 {
		args = append([]string{args[0], "--config", dir}, args[1:]...)
	}
	var outBuf, errBuf bytes.Buffer
	code = d.Run(context.Background(), args, &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

func TestDispatcher_UnknownCommand(t *testing.T) {
	svc := testutil.NewFakeAuthority()
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(svc))

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"unknowncmd"}, &stdout, &stderr)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: unknowncmd\n"
	if stderr.String() != expected {
		t.Errorf("expected %q, got %q", expected, stderr.String())
	}
}

func TestDispatcher_FlagBeforeCommand(t *testing.T) {
	svc := testutil.NewFakeAuthority()
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(svc))

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"--quiet"}, &stdout, &stderr)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: --quiet\n"
	if stderr.String() != expected {
		t.Errorf("expected %q, got %q", expected, stderr.String())
	}
}

func TestDispatcher_HelpCommand(t *testing.T) {
	dir := t.TempDir()
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeAuthority()))

	stdout, stderr, code := run(t, dispatcher, dir, "help")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if !strings.Contains(stdout, "Usage:") {
		t.Error("expected help output to contain 'Usage:'")
	}
	if _, err := os.Stat(filepath.Join(dir, config.LogFile)); !os.IsNotExist(err) {
		t.Error("help must not create a log file")
	}
}

func TestDispatcher_VersionCommand(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeAuthority()))

	stdout, stderr, code := run(t, dispatcher, t.TempDir(), "version")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "tasktrack 0.1.0\n" {
		t.Errorf("expected 'tasktrack 0.1.0\\n', got %q", stdout)
	}
}

func TestDispatcher_UnknownFlag(t *testing.T) {
	svc := testutil.NewFakeAuthority()
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(svc))

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"help", "--unknown"}, &stdout, &stderr)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown flag: -unknown\n"
	if stderr.String() != expected {
		t.Errorf("expected %q, got %q", expected, stderr.String())
	}
}

func TestDispatcher_MissingFlagValue(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeAuthority()))

	_, stderr, code := run(t, dispatcher, t.TempDir(), "login", "-u")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: flag needs an argument: -u\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestDispatcher_NotLoggedIn(t *testing.T) {
	svc := testutil.NewFakeAuthority()
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(svc))

	for _, name := range []string{"list", "add", "toggle"} {
		_, stderr, code := run(t, dispatcher, t.TempDir(), name, "1")

		if code != exitcode.AuthError {
			t.Errorf("%s: expected exit code %d, got %d", name, exitcode.AuthError, code)
		}
		if stderr != "error: not logged in (run: tasktrack login)\n" {
			t.Errorf("%s: unexpected stderr %q", name, stderr)
		}
	}
	if svc.TotalCalls() != 0 {
		t.Errorf("expected no network calls, got %d", svc.TotalCalls())
	}
}

func TestDispatcher_NoArgsListsTasks(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("TASKTRACK_USERNAME", "")
	t.Setenv("TASKTRACK_PASSWORD", "")

	svc := testutil.NewFakeAuthority()
	svc.AddUser("alice", "secret1")
	svc.AddTask("alice", service.Task{ID: "t1", Text: "Buy milk"})
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(svc))

	var outBuf, errBuf bytes.Buffer
	if code := dispatcher.Run(context.Background(), []string{"login", "-u", "alice", "-p", "secret1", "--quiet"}, &outBuf, &errBuf); code != exitcode.Success {
		t.Fatalf("login: expected exit code %d, got %d (%s)", exitcode.Success, code, errBuf.String())
	}

	outBuf.Reset()
	code := dispatcher.Run(context.Background(), nil, &outBuf, &errBuf)
	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (%s)", exitcode.Success, code, errBuf.String())
	}
	if outBuf.String() != "   1  [ ] Buy milk\n" {
		t.Errorf("unexpected stdout %q", outBuf.String())
	}
}

func TestDispatcher_SessionSurvivesRestart(t *testing.T) {
	for _, backend := range []string{config.CacheFile, config.CacheSQLite} {
		t.Run(backend, func(t *testing.T) {
			t.Setenv("TASKTRACK_CACHE", backend)
			dir := t.TempDir()

			svc := testutil.NewFakeAuthority()
			svc.AddUser("alice", "secret1")
			dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(svc))

			if _, stderr, code := run(t, dispatcher, dir, "login", "-u", "alice", "-p", "secret1"); code != exitcode.Success {
				t.Fatalf("login: expected exit code %d, got %d (%s)", exitcode.Success, code, stderr)
			}

			// The server goes away; the next run adds a task offline.
			svc.CreateErr = testutil.Unreachable("create task")
			svc.ListErr = testutil.Unreachable("list tasks")
			stdout, stderr, code := run(t, dispatcher, dir, "add", "Offline", "task")
			if code != exitcode.Success {
				t.Fatalf("add: expected exit code %d, got %d (%s)", exitcode.Success, code, stderr)
			}
			if !strings.Contains(stdout, "Offline task (local)") {
				t.Errorf("unexpected add output %q", stdout)
			}

			// A later run still sees it from the cache.
			stdout, _, code = run(t, dispatcher, dir, "list")
			if code != exitcode.Success {
				t.Fatalf("list: expected exit code %d, got %d", exitcode.Success, code)
			}
			if stdout != "   1  [ ] Offline task (local)\n" {
				t.Errorf("unexpected list output %q", stdout)
			}

			if stdout, _, _ := run(t, dispatcher, dir, "logout"); stdout != "ok\n" {
				t.Errorf("unexpected logout output %q", stdout)
			}
			if _, stderr, code := run(t, dispatcher, dir, "list"); code != exitcode.AuthError {
				t.Errorf("list after logout: expected exit code %d, got %d (%s)", exitcode.AuthError, code, stderr)
			}
		})
	}
}

func TestDispatcher_CorruptSessionIsCleared(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.New(dir)
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	if err := os.MkdirAll(cfg.CacheDir(), 0700); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(cfg.CacheDir(), cache.SessionKey+".json"), []byte("{not json"), 0600); err != nil {
		t.Fatalf("write: %v", err)
	}

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeAuthority()))
	stdout, stderr, code := run(t, dispatcher, dir, "status")

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (%s)", exitcode.Success, code, stderr)
	}
	if !strings.Contains(stdout, "user:   (none)") {
		t.Errorf("unexpected stdout %q", stdout)
	}
	if _, err := os.Stat(filepath.Join(cfg.CacheDir(), cache.SessionKey+".json")); !os.IsNotExist(err) {
		t.Error("expected corrupt session record to be removed")
	}
}

func TestDispatcher_InvalidConfig(t *testing.T) {
	t.Setenv("TASKTRACK_CACHE", "redis")
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeAuthority()))

	_, stderr, code := run(t, dispatcher, t.TempDir(), "status")

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if !strings.Contains(stderr, "unknown cache backend: redis") {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestDispatcher_WritesLogFile(t *testing.T) {
	dir := t.TempDir()
	svc := testutil.NewFakeAuthority()
	svc.AddUser("alice", "secret1")
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(svc))

	if _, stderr, code := run(t, dispatcher, dir, "login", "-u", "alice", "-p", "secret1"); code != exitcode.Success {
		t.Fatalf("login: expected exit code %d, got %d (%s)", exitcode.Success, code, stderr)
	}

	data, err := os.ReadFile(filepath.Join(dir, config.LogFile))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), `"message":"logged in"`) {
		t.Errorf("expected login entry in log, got %s", data)
	}
}

func TestDispatcher_LogLevelFiltersLogFile(t *testing.T) {
	t.Setenv("TASKTRACK_LOG_LEVEL", "error")
	dir := t.TempDir()
	svc := testutil.NewFakeAuthority()
	svc.AddUser("alice", "secret1")
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(svc))

	if _, stderr, code := run(t, dispatcher, dir, "login", "-u", "alice", "-p", "secret1"); code != exitcode.Success {
		t.Fatalf("login: expected exit code %d, got %d (%s)", exitcode.Success, code, stderr)
	}

	data, err := os.ReadFile(filepath.Join(dir, config.LogFile))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if strings.Contains(string(data), `"message":"logged in"`) {
		t.Errorf("info entry written at error level: %s", data)
	}
}
