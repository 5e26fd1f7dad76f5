package provider

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestTelnyxClient_Send_Accepted(t *testing.T) {
	t.Parallel()

	type gotReq struct {
		Method        string
		Authorization string
		ContentType   string
		Body          []byte
	}
	var captured gotReq

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.Method = r.Method
		captured.Authorization = r.Header.Get("Authorization")
		captured.ContentType = r.Header.Get("Content-Type")
		captured.Body, _ = io.ReadAll(r.Body)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(`{"data":{"id":"msg-uuid-1","cost":"0.0040"}}`))
	}))
	defer srv.Close()

	c := NewTelnyxClient("KEY123", "profile-1", srv.URL)

	res, err := c.Send(context.Background(), "+15550001111", "+15551234567", "hello")
	if err != nil {
		t.Fatalf("Send() error: %v", err)
	}

	if !res.Accepted {
		t.Fatalf("expected accepted result, got %+v", res)
	}
	if res.ProviderMessageID != "msg-uuid-1" {
		t.Errorf("expected provider message id msg-uuid-1, got %q", res.ProviderMessageID)
	}
	if res.Cost == nil || *res.Cost != "0.0040" {
		t.Errorf("expected cost 0.0040, got %v", res.Cost)
	}

	if captured.Method != http.MethodPost {
		t.Errorf("expected POST, got %q", captured.Method)
	}
	if captured.Authorization != "Bearer KEY123" {
		t.Errorf("expected bearer auth, got %q", captured.Authorization)
	}
	if captured.ContentType != "application/json" {
		t.Errorf("expected json content type, got %q", captured.ContentType)
	}

	var req sendRequest
	if err := json.Unmarshal(captured.Body, &req); err != nil {
		t.Fatalf("failed to decode request json: %v body=%q", err, string(captured.Body))
	}
	if req.From != "+15550001111" || req.To != "+15551234567" || req.Text != "hello" {
		t.Errorf("unexpected request payload: %+v", req)
	}
	if req.MessagingProfileID != "profile-1" {
		t.Errorf("expected messaging profile id, got %q", req.MessagingProfileID)
	}
}

func TestTelnyxClient_Send_Accepted_ObjectCostTreatedAsAbsent(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"data":{"id":"msg-uuid-2","cost":{"amount":"0.004","currency":"USD"}}}`))
	}))
	defer srv.Close()

	c := NewTelnyxClient("KEY123", "profile-1", srv.URL)

	res, err := c.Send(context.Background(), "+1", "+2", "hi")
	if err != nil {
		t.Fatalf("Send() error: %v", err)
	}
	if !res.Accepted {
		t.Fatalf("expected accepted result")
	}
	if res.Cost != nil {
		t.Errorf("expected structured cost to be treated as absent, got %q", *res.Cost)
	}
}

func TestTelnyxClient_Send_Rejected_UsesErrorDetail(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"errors":[{"detail":"Invalid destination number"}]}`))
	}))
	defer srv.Close()

	c := NewTelnyxClient("KEY123", "profile-1", srv.URL)

	res, err := c.Send(context.Background(), "+1", "bogus", "hi")
	if err != nil {
		t.Fatalf("Send() error: %v", err)
	}
	if res.Accepted {
		t.Fatalf("expected rejected result")
	}
	if res.ErrorDetail != "Invalid destination number" {
		t.Errorf("expected provider detail, got %q", res.ErrorDetail)
	}
	if res.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("expected status 422, got %d", res.StatusCode)
	}
}

func TestTelnyxClient_Send_Rejected_FallsBackToRawBody(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream exploded"))
	}))
	defer srv.Close()

	c := NewTelnyxClient("KEY123", "profile-1", srv.URL)

	res, err := c.Send(context.Background(), "+1", "+2", "hi")
	if err != nil {
		t.Fatalf("Send() error: %v", err)
	}
	if res.Accepted {
		t.Fatalf("expected rejected result")
	}
	if res.ErrorDetail != "upstream exploded" {
		t.Errorf("expected raw body detail, got %q", res.ErrorDetail)
	}
}

func TestTelnyxClient_Send_Rejected_EmptyBody(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewTelnyxClient("KEY123", "profile-1", srv.URL)

	res, err := c.Send(context.Background(), "+1", "+2", "hi")
	if err != nil {
		t.Fatalf("Send() error: %v", err)
	}
	if res.ErrorDetail != "unknown send error" {
		t.Errorf("expected generic detail, got %q", res.ErrorDetail)
	}
}

func TestTelnyxClient_Send_TransportError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c := NewTelnyxClient("KEY123", "profile-1", srv.URL)

	res, err := c.Send(context.Background(), "+1", "+2", "hi")
	if err == nil {
		t.Fatalf("expected transport error, got result %+v", res)
	}
}

func TestTelnyxClient_Send_ContextCanceled(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	c := NewTelnyxClient("KEY123", "profile-1", srv.URL)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.Send(ctx, "+1", "+2", "hi")
	if err == nil {
		t.Fatalf("expected error, got nil")
	}
	if !strings.Contains(strings.ToLower(err.Error()), "context") &&
		!strings.Contains(strings.ToLower(err.Error()), "deadline") {
		t.Fatalf("expected context/deadline error, got: %v", err)
	}
}

func TestScalarCost(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want *string
	}{
		{"string cost", `"0.0040"`, strPtr("0.0040")},
		{"numeric cost", `0.004`, strPtr("0.004")},
		{"object cost", `{"amount":"0.004"}`, nil},
		{"array cost", `["0.004"]`, nil},
		{"empty string", `""`, nil},
		{"absent", ``, nil},
		{"null", `null`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScalarCost([]byte(tt.raw))
			switch {
			case tt.want == nil && got != nil:
				t.Errorf("expected nil, got %q", *got)
			case tt.want != nil && got == nil:
				t.Errorf("expected %q, got nil", *tt.want)
			case tt.want != nil && got != nil && *tt.want != *got:
				t.Errorf("expected %q, got %q", *tt.want, *got)
			}
		})
	}
}

func strPtr(s string) *string { return &s }
