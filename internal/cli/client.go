package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// --- Response types (дублируются из api/dto.go, CLI не импортирует internal/api) ---

// TaskValidationResponse — отчёт валидации из API.
// AppStatuses хранится как есть, чтобы не потерять порядок ключей.
type TaskValidationResponse struct {
	DefinitionName string          `json:"definition_name"`
	DefinitionDSL  string          `json:"definition_dsl"`
	AppStatuses    json.RawMessage `json:"app_statuses"`
	AppDetails     []AppDetail     `json:"app_details"`
}

// AppDetail — диагностика по одному шагу.
type AppDetail struct {
	Role      string `json:"role"`
	App       string `json:"app"`
	Type      string `json:"type"`
	Qualifier string `json:"qualifier,omitempty"`
	Status    string `json:"status"`
	State     string `json:"state"`
}

// IsValid возвращает true, если все приложения валидны.
func (v *TaskValidationResponse) IsValid() bool {
	for _, d := range v.AppDetails {
		if d.Status != "valid" {
			return false
		}
	}
	return true
}

// DefinitionResponse — определение задачи из API.
type DefinitionResponse struct {
	Name        string `json:"name"`
	DSL         string `json:"dsl"`
	Description string `json:"description,omitempty"`
	CreatedAt   string `json:"created_at"`
}

// AppResponse — регистрация приложения из API.
type AppResponse struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	Version   string `json:"version"`
	URI       string `json:"uri"`
	IsDefault bool   `json:"is_default"`
	CreatedAt string `json:"created_at"`
}

// --- Request types ---

// CreateDefinitionRequest — создание определения.
type CreateDefinitionRequest struct {
	Name        string `json:"name"`
	DSL         string `json:"dsl"`
	Description string `json:"description,omitempty"`
}

// RegisterAppRequest — регистрация приложения.
type RegisterAppRequest struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	Version   string `json:"version"`
	URI       string `json:"uri"`
	IsDefault bool   `json:"is_default,omitempty"`
}

// --- API response wrappers ---

type dataResponse struct {
	Data json.RawMessage `json:"data"`
}

type listResponse struct {
	Data  json.RawMessage `json:"data"`
	Total int             `json:"total"`
}

type errorResponse struct {
	Error struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		Retryable bool   `json:"retryable"`
	} `json:"error"`
}

// APIError — ошибка, возвращённая API.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Retryable  bool
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("API error: HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// --- Client ---

// Client — HTTP-клиент для Dataflow API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient создаёт клиент для API.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// --- Validation ---

// ValidateTask возвращает отчёт валидации определения.
func (c *Client) ValidateTask(name string) (*TaskValidationResponse, error) {
	var status TaskValidationResponse
	err := c.get("/api/v1/tasks/validation/"+url.PathEscape(name), &status)
	return &status, err
}

// --- Definitions ---

// ListDefinitions возвращает все определения задач.
func (c *Client) ListDefinitions() ([]DefinitionResponse, error) {
	var defs []DefinitionResponse
	err := c.list("/api/v1/tasks/definitions", nil, &defs)
	return defs, err
}

// CreateDefinition создаёт определение задачи.
func (c *Client) CreateDefinition(req CreateDefinitionRequest) (*DefinitionResponse, error) {
	var def DefinitionResponse
	err := c.post("/api/v1/tasks/definitions", req, &def)
	return &def, err
}

// GetDefinition возвращает определение по имени.
func (c *Client) GetDefinition(name string) (*DefinitionResponse, error) {
	var def DefinitionResponse
	err := c.get("/api/v1/tasks/definitions/"+url.PathEscape(name), &def)
	return &def, err
}

// --- Apps ---

// ListApps возвращает регистрации. Если appType не пустой — фильтрует.
func (c *Client) ListApps(appType string) ([]AppResponse, error) {
	params := url.Values{}
	if appType != "" {
		params.Set("type", appType)
	}

	var apps []AppResponse
	err := c.list("/api/v1/apps", params, &apps)
	return apps, err
}

// RegisterApp регистрирует версию приложения.
func (c *Client) RegisterApp(req RegisterAppRequest) (*AppResponse, error) {
	var app AppResponse
	err := c.post("/api/v1/apps", req, &app)
	return &app, err
}

// --- HTTP helpers ---

func (c *Client) get(path string, result any) error {
	return c.doData(http.MethodGet, path, nil, result)
}

func (c *Client) post(path string, body any, result any) error {
	return c.doData(http.MethodPost, path, body, result)
}

func (c *Client) list(path string, params url.Values, result any) error {
	if len(params) > 0 {
		path = path + "?" + params.Encode()
	}

	resp, err := c.do(http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkError(resp); err != nil {
		return err
	}

	var lr listResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return json.Unmarshal(lr.Data, result)
}

func (c *Client) doData(method, path string, body any, result any) error {
	resp, err := c.do(method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkError(resp); err != nil {
		return err
	}

	var dr dataResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if result != nil {
		return json.Unmarshal(dr.Data, result)
	}
	return nil
}

func (c *Client) do(method, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.httpClient.Do(req)
}

func (c *Client) checkError(resp *http.Response) error {
	if resp.StatusCode < 400 {
		return nil
	}

	apiErr := &APIError{StatusCode: resp.StatusCode}

	var er errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err == nil {
		apiErr.Code = er.Error.Code
		apiErr.Message = er.Error.Message
		apiErr.Retryable = er.Error.Retryable
	}
	return apiErr
}
