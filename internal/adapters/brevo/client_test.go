package brevo

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClient_FetchPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/contacts" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("api-key"); got != "xkeysib-test" {
			t.Errorf("api-key = %q", got)
		}
		q := r.URL.Query()
		if q.Get("limit") != "100" || q.Get("offset") != "200" {
			t.Errorf("query = %v", q)
		}
		if q.Get("listIds") != "7" {
			t.Errorf("listIds = %q", q.Get("listIds"))
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"count": 2,
			"contacts": []map[string]any{
				{
					"id":         1,
					"attributes": map[string]any{"SMS": "15551234567"},
					"listIds":    []int64{7},
				},
				{
					"id":             2,
					"attributes":     map[string]any{},
					"smsBlacklisted": true,
				},
			},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, "xkeysib-test", srv.Client())
	page, err := c.FetchPage(context.Background(), 200, 100, 7)
	if err != nil {
		t.Fatalf("FetchPage() error = %v", err)
	}
	if len(page.Contacts) != 2 {
		t.Fatalf("contacts = %d, want 2", len(page.Contacts))
	}
	if page.Contacts[0].ID != 1 || page.Contacts[0].Attributes["SMS"] != "15551234567" {
		t.Errorf("contact[0] = %+v", page.Contacts[0])
	}
	if !page.Contacts[1].SMSBlacklisted {
		t.Error("contact[1].SMSBlacklisted = false")
	}
}

func TestClient_FetchPage_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := New(srv.URL, "bad-key", srv.Client())
	if _, err := c.FetchPage(context.Background(), 0, 100, 0); err == nil {
		t.Error("FetchPage() error = nil, want failure")
	}
}

func TestClient_FoldersAndLists(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/contacts/folders":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"folders": []map[string]any{
					{"id": 3, "name": "Engineering", "totalLists": 4},
				},
			})
		case "/contacts/folders/3/lists":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"lists": []map[string]any{
					{"id": 31, "name": "junior"},
					{"id": 32, "name": "senior"},
				},
			})
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, "k", srv.Client())
	folders, err := c.Folders(context.Background())
	if err != nil {
		t.Fatalf("Folders() error = %v", err)
	}
	if len(folders) != 1 || folders[0].Name != "Engineering" {
		t.Errorf("folders = %+v", folders)
	}

	lists, err := c.ListsInFolder(context.Background(), 3)
	if err != nil {
		t.Fatalf("ListsInFolder() error = %v", err)
	}
	if lists["junior"] != 31 || lists["senior"] != 32 {
		t.Errorf("lists = %v", lists)
	}
}

func TestClient_Ping(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/account" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := New(srv.URL, "k", srv.Client())
	if err := c.Ping(context.Background()); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
}
