package api

import (
	"context"
	"encoding/json"
	"fmt"

	http "github.com/bogdanfinn/fhttp"
	"github.com/samber/lo"
	"github.com/tidwall/gjson"

	apierrors "github.com/diogo/intellibrowse/internal/errors"
	"github.com/diogo/intellibrowse/internal/models"
)

// GetChats fetches the caller's chat history in server order
func (c *Client) GetChats(ctx context.Context) ([]models.ChatTurn, error) {
	body, err := c.do(ctx, request{
		method:    http.MethodGet,
		endpoint:  models.EndpointHistory,
		operation: "fetch chat history",
		auth:      true,
	})
	if err != nil {
		return nil, err
	}

	result := gjson.ParseBytes(body)
	if !gjson.ValidBytes(body) || !result.IsArray() {
		return nil, apierrors.NewParseError(models.EndpointHistory, "expected a list of chats")
	}

	return lo.Map(result.Array(), func(item gjson.Result, _ int) models.ChatTurn {
		return models.ChatTurn{
			Request:  item.Get(PathUserRequest).String(),
			Response: item.Get(PathCrewResponse).String(),
		}
	}), nil
}

// SendChat posts a message and returns the crew response markup
func (c *Client) SendChat(ctx context.Context, message string) (string, error) {
	payload, err := json.Marshal(map[string]string{PathUserRequest: message})
	if err != nil {
		return "", fmt.Errorf("failed to marshal chat request: %w", err)
	}

	body, err := c.do(ctx, request{
		method:      http.MethodPost,
		endpoint:    models.EndpointChat,
		operation:   "send chat",
		body:        string(payload),
		contentType: "application/json",
		auth:        true,
	})
	if err != nil {
		return "", err
	}

	if !gjson.ValidBytes(body) {
		return "", apierrors.NewParseError(models.EndpointChat, "response is not valid JSON")
	}

	result := gjson.ParseBytes(body)
	if resp := result.Get(PathCrewResponse); resp.Exists() {
		return resp.String(), nil
	}
	// Some crews return the rendered answer as a bare JSON string
	if result.Type == gjson.String {
		return result.String(), nil
	}
	return "", apierrors.NewParseError(models.EndpointChat, "missing crew_response")
}
