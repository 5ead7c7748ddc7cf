package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// TavusClient talks to the Tavus conversational video API.
type TavusClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

func NewTavusClient(apiKey, baseURL string, httpClient *http.Client) *TavusClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &TavusClient{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// Conversation is a live video conversation with a replica.
type Conversation struct {
	ConversationID  string `json:"conversation_id"`
	ConversationURL string `json:"conversation_url"`
	Status          string `json:"status"`
}

type createConversationRequest struct {
	ReplicaID             string `json:"replica_id"`
	ConversationName      string `json:"conversation_name,omitempty"`
	ConversationalContext string `json:"conversational_context,omitempty"`
	CustomGreeting        string `json:"custom_greeting,omitempty"`
}

// CreateConversation starts a conversation with replicaID.
func (c *TavusClient) CreateConversation(ctx context.Context, replicaID, name, conversationalContext, greeting string) (Conversation, error) {
	body := createConversationRequest{
		ReplicaID:             replicaID,
		ConversationName:      name,
		ConversationalContext: conversationalContext,
		CustomGreeting:        greeting,
	}
	var conv Conversation
	if err := c.do(ctx, http.MethodPost, "/conversations", body, &conv); err != nil {
		return Conversation{}, fmt.Errorf("failed to create video conversation: %w", err)
	}
	if conv.ConversationID == "" {
		return Conversation{}, fmt.Errorf("video provider returned no conversation id")
	}
	return conv, nil
}

// EndConversation ends a running conversation.
func (c *TavusClient) EndConversation(ctx context.Context, conversationID string) error {
	if err := c.do(ctx, http.MethodPost, "/conversations/"+conversationID+"/end", nil, nil); err != nil {
		return fmt.Errorf("failed to end video conversation: %w", err)
	}
	return nil
}

func (c *TavusClient) do(ctx context.Context, method, path string, in, out any) error {
	var reader io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("x-api-key", c.apiKey)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("tavus %s %s: status %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
