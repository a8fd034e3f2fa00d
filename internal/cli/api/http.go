package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"ClipSync/internal/cli/repo"
)

// AuthCookie: имя cookie с токеном устройства.
const AuthCookie = "auth_token"

// DefaultTimeout ограничивает любой запрос к серверу, если у контекста нет своего дедлайна.
const DefaultTimeout = 10 * time.Second

// Do отправляет запрос с JSON-телом (payload может быть nil) и читает ответ целиком.
// Если token не пуст, он передаётся как auth cookie.
func Do(ctx context.Context, method, url string, payload any, token string) (*http.Response, []byte, error) {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, nil, err
		}
		body = bytes.NewReader(b)
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultTimeout)
		defer cancel()
	}
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.AddCookie(&http.Cookie{Name: AuthCookie, Value: token})
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp, nil, fmt.Errorf("read body: %w", err)
	}
	return resp, b, nil
}

// PostJSON sends a JSON POST request.
func PostJSON(ctx context.Context, url string, payload any, token string) (*http.Response, []byte, error) {
	return Do(ctx, http.MethodPost, url, payload, token)
}

// GetJSON sends a GET request.
func GetJSON(ctx context.Context, url, token string) (*http.Response, []byte, error) {
	return Do(ctx, http.MethodGet, url, nil, token)
}

// TokenFromResponse извлекает значение auth cookie из ответа.
func TokenFromResponse(resp *http.Response) (string, error) {
	for _, c := range resp.Cookies() {
		if c.Name == AuthCookie && c.Value != "" {
			return c.Value, nil
		}
	}
	return "", errors.New("no auth cookie in response")
}

// Client: клиент API синхронизации с подстановкой токена устройства.
type Client struct {
	BaseURL string
	Tokens  repo.TokenStore // может быть nil
}

func NewClient(baseURL string, tokens repo.TokenStore) *Client {
	return &Client{BaseURL: strings.TrimRight(baseURL, "/"), Tokens: tokens}
}

func (c *Client) url(path string) string {
	return c.BaseURL + path
}

func (c *Client) token(ctx context.Context) string {
	if c.Tokens == nil {
		return ""
	}
	t, err := c.Tokens.Load(ctx)
	if err != nil {
		return ""
	}
	return t
}

func (c *Client) Get(ctx context.Context, path string) (*http.Response, []byte, error) {
	return GetJSON(ctx, c.url(path), c.token(ctx))
}

func (c *Client) Post(ctx context.Context, path string, payload any) (*http.Response, []byte, error) {
	return PostJSON(ctx, c.url(path), payload, c.token(ctx))
}

func (c *Client) Delete(ctx context.Context, path string) (*http.Response, []byte, error) {
	return Do(ctx, http.MethodDelete, c.url(path), nil, c.token(ctx))
}

// PersistAuthFromResponse сохраняет токен из ответа в TokenStore клиента.
func (c *Client) PersistAuthFromResponse(ctx context.Context, resp *http.Response) error {
	if c.Tokens == nil {
		return errors.New("no token store configured")
	}
	tok, err := TokenFromResponse(resp)
	if err != nil {
		return err
	}
	return c.Tokens.Save(ctx, tok)
}

// StatusError описывает ответ сервера с неуспешным кодом.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("server status %d", e.Code)
	}
	return fmt.Sprintf("server status %d: %s", e.Code, e.Body)
}

// CheckStatus возвращает *StatusError для кодов вне 2xx.
func CheckStatus(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
}
