package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/exp/slog"

	"usersvc/internal/domain/user"
)

type httpClient struct {
	client    *http.Client
	log       *slog.Logger
	baseURL   string
	userAgent string
}

func newHTTPClient(baseURL string, timeout time.Duration, log *slog.Logger) *httpClient {
	return &httpClient{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				IdleConnTimeout:     90 * time.Second,
				MaxIdleConnsPerHost: 10,
			},
		},
		log:       log,
		baseURL:   baseURL,
		userAgent: "usersvc-client/1.0",
	}
}

// HealthCheck проверяет доступность сервера
func (h *httpClient) HealthCheck(ctx context.Context) (string, error) {
	var out struct {
		Status string `json:"status"`
	}
	err := h.call(ctx, http.MethodGet, "/health", nil, &out)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusServiceUnavailable && apiErr.Detail == "" {
		apiErr.Detail = "хранилище сервера недоступно"
	}
	if err != nil {
		return "", err
	}
	return out.Status, nil
}

func (h *httpClient) CreateUser(ctx context.Context, req CreateRequest) (user.Record, error) {
	var rec user.Record
	err := h.call(ctx, http.MethodPost, "/users/", req, &rec)
	return rec, err
}

func (h *httpClient) GetUser(ctx context.Context, userID int) (user.Record, error) {
	var rec user.Record
	err := h.call(ctx, http.MethodGet, userPath(userID), nil, &rec)
	return rec, err
}

func (h *httpClient) UpdateUser(ctx context.Context, userID int, req UpdateRequest) (user.Record, error) {
	var rec user.Record
	err := h.call(ctx, http.MethodPut, userPath(userID), req, &rec)
	return rec, err
}

func (h *httpClient) DeleteUser(ctx context.Context, userID int) (string, error) {
	var out struct {
		Message string `json:"message"`
	}
	err := h.call(ctx, http.MethodDelete, userPath(userID), nil, &out)
	return out.Message, err
}

func (h *httpClient) History(ctx context.Context, userID int) ([]user.Record, error) {
	var records []user.Record
	err := h.call(ctx, http.MethodGet, userPath(userID)+"/history", nil, &records)
	return records, err
}

func userPath(userID int) string {
	return "/users/" + strconv.Itoa(userID)
}

func (h *httpClient) call(ctx context.Context, method, path string, body, result any) error {
	resp, err := h.doRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	return h.parseResponse(resp, result)
}

func (h *httpClient) doRequest(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("ошибка маршалинга тела запроса: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, h.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса: %w", err)
	}

	// Добавляем заголовки
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", h.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	h.log.Debug("Отправка запроса",
		"method", method,
		"url", req.URL.String(),
	)

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("сервер недоступен: %w", err)
	}

	return resp, nil
}

func (h *httpClient) parseResponse(resp *http.Response, result any) error {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("ошибка чтения ответа: %w", err)
	}

	h.log.Debug("Получен ответ",
		"status", resp.StatusCode,
		"request_id", resp.Header.Get("X-Request-ID"),
		"body", string(body),
	)

	if resp.StatusCode >= 400 {
		apiErr := &APIError{Status: resp.StatusCode}
		var problem struct {
			Title  string `json:"title"`
			Detail string `json:"detail"`
		}
		if err := json.Unmarshal(body, &problem); err == nil {
			apiErr.Detail = problem.Detail
			if apiErr.Detail == "" {
				apiErr.Detail = problem.Title
			}
		}
		return apiErr
	}

	if result != nil {
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("ошибка парсинга ответа: %w", err)
		}
	}

	return nil
}
