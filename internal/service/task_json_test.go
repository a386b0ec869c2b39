package service_test

import (
	"encoding/json"
	"errors"
	"testing"

	"tasktrack/internal/service"
)

func TestTaskUnmarshal_IDVariants(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want service.Task
	}{
		{"string id", `{"id":"t1","text":"Buy milk","completed":true}`, service.Task{ID: "t1", Text: "Buy milk", Completed: true}},
		{"document id", `{"_id":"65f0a1","text":"Walk dog","completed":false}`, service.Task{ID: "65f0a1", Text: "Walk dog"}},
		{"numeric id", `{"id":42,"text":"Call mom"}`, service.Task{ID: "42", Text: "Call mom"}},
		{"id wins over _id", `{"id":"a","_id":"b","text":"x"}`, service.Task{ID: "a", Text: "x"}},
		{"null id falls back", `{"id":null,"_id":"b","text":"x"}`, service.Task{ID: "b", Text: "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got service.Task
			if err := json.Unmarshal([]byte(tt.in), &got); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestTaskUnmarshal_InvalidID(t *testing.T) {
	var got service.Task
	if err := json.Unmarshal([]byte(`{"id":{"nested":true},"text":"x"}`), &got); err == nil {
		t.Fatal("expected error for object id")
	}
}

func TestTaskMarshal_WritesID(t *testing.T) {
	data, err := json.Marshal(service.Task{ID: "t1", Text: "Buy milk", Completed: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `{"id":"t1","text":"Buy milk","completed":true}`
	if string(data) != want {
		t.Errorf("expected %s, got %s", want, data)
	}
}

func TestRemoteError_Message(t *testing.T) {
	cause := errors.New("connection refused")

	withMsg := &service.RemoteError{Op: "login", Status: 401, Message: "Invalid credentials"}
	if withMsg.Error() != "Invalid credentials" {
		t.Errorf("unexpected message: %q", withMsg.Error())
	}

	transport := &service.RemoteError{Op: "list tasks", Err: cause}
	if transport.Error() != "list tasks: connection refused" {
		t.Errorf("unexpected message: %q", transport.Error())
	}
	if !errors.Is(transport, cause) {
		t.Error("expected RemoteError to unwrap to its cause")
	}

	bare := &service.RemoteError{Op: "signup", Status: 500}
	if bare.Error() != service.DefaultErrorMessage {
		t.Errorf("unexpected message: %q", bare.Error())
	}
}

func TestErrorKinds(t *testing.T) {
	var err error = &service.ValidationError{Message: "Passwords do not match"}
	if !service.IsValidation(err) || service.IsRemote(err) {
		t.Error("expected validation error only")
	}

	err = &service.RemoteError{Op: "login", Message: "nope"}
	if service.IsValidation(err) || !service.IsRemote(err) {
		t.Error("expected remote error only")
	}
}
