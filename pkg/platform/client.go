// Package platform is the HTTP adapter for the device-management REST API.
package platform

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"lampbot/pkg/config"
	"lampbot/pkg/logger"
)

const (
	AuthHeader = "header"
	AuthQuery  = "query"
)

// Client talks to the platform. It does not retry; every failure is
// returned to the caller as is.
type Client struct {
	log       *logger.Logger
	http      *resty.Client
	projectID string
	// projectParam is used for templates without a {project} placeholder.
	projectParam string
	// commandField carries the command id for templates without {command}.
	commandField string
	endpoints    config.EndpointsConfig
}

// NewClient creates a platform client from configuration.
func NewClient(log *logger.Logger, cfg config.PlatformConfig) *Client {
	timeout := 15 * time.Second
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}

	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(cfg.APIURL, "/")).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	switch strings.ToLower(strings.TrimSpace(cfg.AuthPlacement)) {
	case AuthQuery:
		httpClient.SetQueryParam(cfg.AuthQueryParam, cfg.Token)
	default:
		httpClient.SetAuthToken(cfg.Token)
	}

	return &Client{
		log:          log,
		http:         httpClient,
		projectID:    cfg.ProjectID,
		projectParam: cfg.ProjectParam,
		commandField: cfg.CommandField,
		endpoints:    cfg.Endpoints,
	}
}

// ListObjects returns all things visible in the project.
func (c *Client) ListObjects(ctx context.Context) ([]Object, error) {
	body, err := c.do(ctx, http.MethodGet, c.endpoints.ListObjects, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("listing objects: %w", err)
	}

	list, err := objectList(body)
	if err != nil {
		return nil, fmt.Errorf("listing objects: %w", err)
	}

	objects := make([]Object, 0, len(list))
	for _, item := range list {
		if !item.IsObject() {
			continue
		}
		objects = append(objects, toObject(item, ""))
	}

	return objects, nil
}

// GetObject fetches a single thing including its state.
func (c *Client) GetObject(ctx context.Context, id string) (*Object, error) {
	body, err := c.do(ctx, http.MethodGet, c.endpoints.GetObject, map[string]string{"object": id}, nil)
	if err != nil {
		return nil, fmt.Errorf("fetching object %s: %w", id, err)
	}

	raw := strings.TrimSpace(string(body))
	if !gjson.Valid(raw) {
		return nil, fmt.Errorf("fetching object %s: %w: body is not JSON", id, ErrDecode)
	}
	parsed := gjson.Parse(raw)
	if !parsed.IsObject() {
		return nil, fmt.Errorf("fetching object %s: %w: expected a JSON object", id, ErrDecode)
	}

	obj := toObject(parsed, id)
	return &obj, nil
}

// SendCommand submits a command to a thing. params is sent as the JSON body.
// When the endpoint template has no {command} placeholder the command id is
// added to the body under the configured command field.
func (c *Client) SendCommand(ctx context.Context, id, command string, params map[string]interface{}) error {
	payload := make(map[string]interface{}, len(params)+1)
	for k, v := range params {
		payload[k] = v
	}
	if !strings.Contains(c.endpoints.SendCommand, "{command}") {
		field := c.commandField
		if field == "" {
			field = "command"
		}
		payload[field] = command
	}

	body, err := c.do(ctx, http.MethodPost, c.endpoints.SendCommand,
		map[string]string{"object": id, "command": command}, payload)
	if err != nil {
		return fmt.Errorf("sending %s to %s: %w", command, id, err)
	}

	// Some deployments answer 200 with {"success": false, "message": ...}.
	raw := strings.TrimSpace(string(body))
	if raw != "" && gjson.Valid(raw) {
		if ok := gjson.Get(raw, "success"); ok.Exists() && ok.Type == gjson.False {
			return fmt.Errorf("sending %s to %s: %w", command, id, newAPIError(http.StatusOK, body))
		}
	}

	return nil
}

// do renders the endpoint template and executes the request.
func (c *Client) do(ctx context.Context, method, template string, params map[string]string, payload interface{}) ([]byte, error) {
	pathParams := map[string]string{"project": c.projectID}
	for k, v := range params {
		pathParams[k] = v
	}

	req := c.http.R().
		SetContext(ctx).
		SetPathParams(pathParams)
	if !strings.Contains(template, "{project}") && c.projectParam != "" && c.projectID != "" {
		req.SetQueryParam(c.projectParam, c.projectID)
	}
	if payload != nil {
		req.SetBody(payload)
	}

	start := time.Now()
	resp, err := req.Execute(method, template)
	if err != nil {
		c.log.Warn("Platform request failed",
			zap.String("method", method),
			zap.String("endpoint", template),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}

	c.log.Debug("Platform request",
		zap.String("method", method),
		zap.String("url", resp.Request.URL),
		zap.Int("status", resp.StatusCode()),
		zap.Duration("took", time.Since(start)))

	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return nil, newAPIError(resp.StatusCode(), resp.Body())
	}

	return resp.Body(), nil
}

// objectList accepts a bare array or an envelope holding one.
func objectList(body []byte) ([]gjson.Result, error) {
	raw := strings.TrimSpace(string(body))
	if !gjson.Valid(raw) {
		return nil, fmt.Errorf("%w: body is not JSON", ErrDecode)
	}

	parsed := gjson.Parse(raw)
	if parsed.IsArray() {
		return parsed.Array(), nil
	}
	if parsed.IsObject() {
		for _, key := range []string{"items", "objects", "data", "result"} {
			if v := parsed.Get(key); v.IsArray() {
				return v.Array(), nil
			}
		}
	}

	return nil, fmt.Errorf("%w: no object list in response", ErrDecode)
}

func toObject(v gjson.Result, fallbackID string) Object {
	id := firstString(v, "id", "_id")
	if id == "" {
		id = fallbackID
	}
	name := firstString(v, "name", "title")
	if name == "" {
		name = id
	}

	obj := Object{ID: id, Name: name}
	if state := v.Get("state"); state.Exists() {
		obj.State = []byte(state.Raw)
	}
	return obj
}

func firstString(v gjson.Result, keys ...string) string {
	for _, key := range keys {
		if s := strings.TrimSpace(v.Get(key).String()); s != "" {
			return s
		}
	}
	return ""
}
