package whatsapp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/saltline/sendwave/internal/ports"
)

func TestClient_Send_Success(t *testing.T) {
	var gotPath string
	var gotBody templatePayload

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-token" {
			t.Errorf("Authorization = %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"messages": []map[string]string{{"id": "wamid.ABC"}},
		})
	}))
	defer srv.Close()

	c := NewWithBaseURL(srv.URL, "12345", "test-token", srv.Client())
	receipt, err := c.Send(context.Background(), ports.TemplateMessage{
		To:             "15551234567",
		Template:       "job_alert",
		Language:       "en",
		HeaderImageURL: "https://img.example.com/banner.png",
		BodyVariables:  []string{"Backend Engineer", "Acme"},
	})
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if receipt.MessageID != "wamid.ABC" {
		t.Errorf("MessageID = %q", receipt.MessageID)
	}
	if receipt.HTTPCode != http.StatusOK {
		t.Errorf("HTTPCode = %d", receipt.HTTPCode)
	}

	if gotPath != "/12345/messages" {
		t.Errorf("path = %q", gotPath)
	}
	if gotBody.MessagingProduct != "whatsapp" || gotBody.To != "15551234567" {
		t.Errorf("payload = %+v", gotBody)
	}
	// Header component first, then body variables in order.
	if len(gotBody.Template.Components) != 2 {
		t.Fatalf("components = %d, want 2", len(gotBody.Template.Components))
	}
	if gotBody.Template.Components[0].Type != "header" {
		t.Errorf("first component = %q", gotBody.Template.Components[0].Type)
	}
	body := gotBody.Template.Components[1]
	if body.Type != "body" || len(body.Parameters) != 2 || body.Parameters[0].Text != "Backend Engineer" {
		t.Errorf("body component = %+v", body)
	}
}

func TestClient_Send_APIErrorCarriesStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"template not found"}}`, http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewWithBaseURL(srv.URL, "12345", "t", srv.Client())
	receipt, err := c.Send(context.Background(), ports.TemplateMessage{
		To: "15551234567", Template: "missing", Language: "en",
	})
	if err == nil {
		t.Fatal("Send() error = nil, want APIError")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T", err)
	}
	if apiErr.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d", apiErr.StatusCode)
	}
	if receipt.HTTPCode != http.StatusNotFound {
		t.Errorf("receipt HTTPCode = %d", receipt.HTTPCode)
	}
}

func TestClient_Verify(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/12345" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewWithBaseURL(srv.URL, "12345", "t", srv.Client())
	if err := c.Verify(context.Background()); err != nil {
		t.Errorf("Verify() error = %v", err)
	}
}

func TestBuildPayload_NoMediaNoVars(t *testing.T) {
	b, err := BuildPayload(ports.TemplateMessage{To: "15551234567", Template: "plain", Language: "en"})
	if err != nil {
		t.Fatalf("BuildPayload() error = %v", err)
	}
	var p templatePayload
	if err := json.Unmarshal(b, &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(p.Template.Components) != 0 {
		t.Errorf("components = %+v, want none", p.Template.Components)
	}
}
