// Package brevo implements ports.ContactDirectory against the Brevo
// (Sendinblue) v3 REST API. Brevo is the source of truth for contacts,
// consent flags and list membership.
package brevo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/saltline/sendwave/internal/ports"
)

// DefaultBaseURL is the public Brevo API endpoint.
const DefaultBaseURL = "https://api.brevo.com/v3"

// Client implements ports.ContactDirectory over HTTP.
type Client struct {
	baseURL string
	apiKey  string
	http    ports.HTTPClient
}

// New creates a directory client. baseURL falls back to DefaultBaseURL when
// empty; client falls back to http.DefaultClient.
func New(baseURL, apiKey string, client ports.HTTPClient) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{baseURL: baseURL, apiKey: apiKey, http: client}
}

type contactsResponse struct {
	Contacts []contactJSON `json:"contacts"`
	Count    int64         `json:"count"`
}

type contactJSON struct {
	ID               int64          `json:"id"`
	Attributes       map[string]any `json:"attributes"`
	ListIDs          []int64        `json:"listIds"`
	EmailBlacklisted bool           `json:"emailBlacklisted"`
	SMSBlacklisted   bool           `json:"smsBlacklisted"`
}

type foldersResponse struct {
	Folders []struct {
		ID         int64  `json:"id"`
		Name       string `json:"name"`
		TotalLists int64  `json:"totalLists"`
	} `json:"folders"`
}

type listsResponse struct {
	Lists []struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"lists"`
}

// FetchPage returns one page of contacts starting at offset.
func (c *Client) FetchPage(ctx context.Context, offset, limit int, listID int64) (ports.ContactPage, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))
	q.Set("sort", "desc")
	if listID > 0 {
		q.Set("listIds", strconv.FormatInt(listID, 10))
	}

	var resp contactsResponse
	if err := c.get(ctx, "/contacts?"+q.Encode(), &resp); err != nil {
		return ports.ContactPage{}, err
	}

	page := ports.ContactPage{Total: resp.Count}
	for _, cj := range resp.Contacts {
		page.Contacts = append(page.Contacts, ports.Contact{
			ID:               cj.ID,
			Attributes:       cj.Attributes,
			ListIDs:          cj.ListIDs,
			EmailBlacklisted: cj.EmailBlacklisted,
			SMSBlacklisted:   cj.SMSBlacklisted,
		})
	}
	return page, nil
}

// Folders lists the directory's list folders.
func (c *Client) Folders(ctx context.Context) ([]ports.Folder, error) {
	var resp foldersResponse
	if err := c.get(ctx, "/contacts/folders?limit=50", &resp); err != nil {
		return nil, err
	}
	folders := make([]ports.Folder, 0, len(resp.Folders))
	for _, f := range resp.Folders {
		folders = append(folders, ports.Folder{ID: f.ID, Name: f.Name, ListCount: f.TotalLists})
	}
	return folders, nil
}

// ListsInFolder maps list names to list ids within a folder.
func (c *Client) ListsInFolder(ctx context.Context, folderID int64) (map[string]int64, error) {
	path := fmt.Sprintf("/contacts/folders/%d/lists?limit=50", folderID)
	var resp listsResponse
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	lists := make(map[string]int64, len(resp.Lists))
	for _, l := range resp.Lists {
		lists[l.Name] = l.ID
	}
	return lists, nil
}

// Ping verifies connectivity and credentials by fetching account info.
func (c *Client) Ping(ctx context.Context) error {
	return c.get(ctx, "/account", nil)
}

// get issues an authenticated GET and decodes the JSON body into out when
// out is non-nil.
func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("brevo: create request: %w", err)
	}
	req.Header.Set("api-key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("brevo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("brevo: server returned %d: %s", resp.StatusCode, string(body))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("brevo: decode response: %w", err)
	}
	return nil
}
