// Package whatsapp implements ports.TemplateSender against the WhatsApp
// Cloud API (graph.facebook.com).
//
// The client makes exactly one provider call per Send; retry and backoff
// decisions belong to the application layer, which classifies the returned
// [APIError] by HTTP status.
package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/saltline/sendwave/internal/ports"
)

// DefaultAPIVersion is the Cloud API version used when none is configured.
const DefaultAPIVersion = "v21.0"

// APIError is a provider response with a non-2xx status. The status code
// drives retry classification.
type APIError struct {
	StatusCode int
	Body       string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("whatsapp: server returned %d: %s", e.StatusCode, e.Body)
}

// HTTPStatus returns the response status code, for retry classification.
func (e *APIError) HTTPStatus() int {
	return e.StatusCode
}

// Client implements ports.TemplateSender over HTTP.
type Client struct {
	baseURL       string
	phoneNumberID string
	token         string
	http          ports.HTTPClient
}

// New creates a provider client for the given phone number id and access
// token. apiVersion falls back to DefaultAPIVersion; client falls back to
// http.DefaultClient.
func New(apiVersion, phoneNumberID, token string, client ports.HTTPClient) *Client {
	if apiVersion == "" {
		apiVersion = DefaultAPIVersion
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{
		baseURL:       "https://graph.facebook.com/" + apiVersion,
		phoneNumberID: phoneNumberID,
		token:         token,
		http:          client,
	}
}

// NewWithBaseURL is like New but overrides the API host. Used in tests.
func NewWithBaseURL(baseURL, phoneNumberID, token string, client ports.HTTPClient) *Client {
	c := New("", phoneNumberID, token, client)
	c.baseURL = baseURL
	return c
}

// templatePayload is the Cloud API request body for a template message.
type templatePayload struct {
	MessagingProduct string       `json:"messaging_product"`
	RecipientType    string       `json:"recipient_type"`
	To               string       `json:"to"`
	Type             string       `json:"type"`
	Template         templateSpec `json:"template"`
}

type templateSpec struct {
	Name       string          `json:"name"`
	Language   languageSpec    `json:"language"`
	Components []componentSpec `json:"components,omitempty"`
}

type languageSpec struct {
	Code string `json:"code"`
}

type componentSpec struct {
	Type       string          `json:"type"`
	Parameters []parameterSpec `json:"parameters"`
}

type parameterSpec struct {
	Type  string     `json:"type"`
	Text  string     `json:"text,omitempty"`
	Image *imageSpec `json:"image,omitempty"`
}

type imageSpec struct {
	Link string `json:"link"`
}

type sendResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

// BuildPayload constructs the Cloud API request body for msg. Exposed so
// simulate-send can print the exact payload without issuing a call.
func BuildPayload(msg ports.TemplateMessage) ([]byte, error) {
	p := templatePayload{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               msg.To,
		Type:             "template",
		Template: templateSpec{
			Name:     msg.Template,
			Language: languageSpec{Code: msg.Language},
		},
	}
	if msg.HeaderImageURL != "" {
		p.Template.Components = append(p.Template.Components, componentSpec{
			Type: "header",
			Parameters: []parameterSpec{
				{Type: "image", Image: &imageSpec{Link: msg.HeaderImageURL}},
			},
		})
	}
	if len(msg.BodyVariables) > 0 {
		body := componentSpec{Type: "body"}
		for _, v := range msg.BodyVariables {
			body.Parameters = append(body.Parameters, parameterSpec{Type: "text", Text: v})
		}
		p.Template.Components = append(p.Template.Components, body)
	}
	return json.MarshalIndent(p, "", "  ")
}

// Send issues one template send call.
func (c *Client) Send(ctx context.Context, msg ports.TemplateMessage) (ports.SendReceipt, error) {
	payload, err := BuildPayload(msg)
	if err != nil {
		return ports.SendReceipt{}, fmt.Errorf("whatsapp: marshal payload: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", c.baseURL, c.phoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return ports.SendReceipt{}, fmt.Errorf("whatsapp: create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return ports.SendReceipt{}, fmt.Errorf("whatsapp: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return ports.SendReceipt{HTTPCode: resp.StatusCode},
			&APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var sr sendResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return ports.SendReceipt{HTTPCode: resp.StatusCode},
			fmt.Errorf("whatsapp: decode response: %w", err)
	}

	receipt := ports.SendReceipt{HTTPCode: resp.StatusCode}
	if len(sr.Messages) > 0 {
		receipt.MessageID = sr.Messages[0].ID
	}
	return receipt, nil
}

// Verify checks the token and phone number id by fetching the sender's
// phone number info.
func (c *Client) Verify(ctx context.Context) error {
	url := fmt.Sprintf("%s/%s", c.baseURL, c.phoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("whatsapp: create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("whatsapp: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return nil
}
