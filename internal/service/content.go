package service

import (
	"context"
	"net/http"
	"net/url"

	"github.com/set-night/calldesk/internal/domain"
)

func (c *BackendClient) ListFAQs(ctx context.Context) ([]domain.FAQ, error) {
	var resp struct {
		Items []domain.FAQ `json:"items"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/faqs", nil, nil, &resp, "Failed to load FAQs"); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

func (c *BackendClient) GetFAQ(ctx context.Context, question string) (*domain.FAQ, error) {
	var resp struct {
		Item domain.FAQ `json:"item"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/faq/"+url.PathEscape(question), nil, nil, &resp, "Failed to load FAQ"); err != nil {
		return nil, err
	}
	return &resp.Item, nil
}

func (c *BackendClient) CreateFAQ(ctx context.Context, question, answer string) error {
	body := map[string]string{"question": question, "answer": answer}
	return c.doJSON(ctx, http.MethodPost, "/faq", nil, body, nil, "Failed to create FAQ")
}

func (c *BackendClient) UpdateFAQ(ctx context.Context, question, answer string) error {
	body := map[string]string{"answer": answer}
	return c.doJSON(ctx, http.MethodPut, "/faq/"+url.PathEscape(question), nil, body, nil, "Failed to update FAQ")
}

func (c *BackendClient) DeleteFAQ(ctx context.Context, question string) error {
	return c.doJSON(ctx, http.MethodDelete, "/faq/"+url.PathEscape(question), nil, nil, nil, "Failed to delete FAQ")
}

func (c *BackendClient) ListTasks(ctx context.Context) ([]domain.Task, error) {
	var resp struct {
		Items []domain.Task `json:"items"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/tasks", nil, nil, &resp, "Failed to load tasks"); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

func (c *BackendClient) CreateTask(ctx context.Context, task domain.Task) (*domain.Task, error) {
	body := map[string]string{"name": task.Name}
	if task.PhoneNumber != "" {
		body["phone_number"] = task.PhoneNumber
	}
	if task.Address != "" {
		body["address"] = task.Address
	}
	if task.StartDatetime != "" {
		body["start_datetime"] = task.StartDatetime
	}
	if task.Request != "" {
		body["request"] = task.Request
	}
	var resp struct {
		Item domain.Task `json:"item"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/task", nil, body, &resp, "Failed to create task"); err != nil {
		return nil, err
	}
	return &resp.Item, nil
}

func (c *BackendClient) UpdateTask(ctx context.Context, name string, patch domain.TaskPatch) (*domain.Task, error) {
	var resp struct {
		Item domain.Task `json:"item"`
	}
	if err := c.doJSON(ctx, http.MethodPut, "/task/"+url.PathEscape(name), nil, patch, &resp, "Failed to update task"); err != nil {
		return nil, err
	}
	return &resp.Item, nil
}

func (c *BackendClient) DeleteTask(ctx context.Context, name string) error {
	return c.doJSON(ctx, http.MethodDelete, "/task/"+url.PathEscape(name), nil, nil, nil, "Failed to delete task")
}

func (c *BackendClient) GetPrompt(ctx context.Context) (*domain.Prompt, error) {
	var resp struct {
		ID      string `json:"id"`
		Content string `json:"content"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/prompt", nil, nil, &resp, "Failed to load prompt"); err != nil {
		return nil, err
	}
	return &domain.Prompt{ID: resp.ID, Content: resp.Content}, nil
}

func (c *BackendClient) PutPrompt(ctx context.Context, content string) error {
	body := map[string]string{"content": content}
	return c.doJSON(ctx, http.MethodPut, "/prompt", nil, body, nil, "Failed to save prompt")
}

func (c *BackendClient) GetExtTools(ctx context.Context) (*domain.ExtToolsConfig, error) {
	var resp struct {
		Config *domain.ExtToolsConfig `json:"config"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/ext-tools", nil, nil, &resp, "Failed to load ext tools"); err != nil {
		return nil, err
	}
	if resp.Config == nil {
		return &domain.ExtToolsConfig{ExtTools: []domain.ExtTool{}}, nil
	}
	return resp.Config, nil
}

func (c *BackendClient) PutExtTools(ctx context.Context, cfg domain.ExtToolsConfig) error {
	body := map[string]any{"config": cfg}
	return c.doJSON(ctx, http.MethodPut, "/ext-tools", nil, body, nil, "Failed to save ext tools")
}

func (c *BackendClient) GetFuncConfig(ctx context.Context) (*domain.FuncConfig, error) {
	var resp struct {
		Config domain.FuncConfig `json:"config"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/func-config", nil, nil, &resp, "Failed to load func config"); err != nil {
		return nil, err
	}
	return &resp.Config, nil
}

func (c *BackendClient) PutFuncConfig(ctx context.Context, cfg domain.FuncConfig) error {
	body := map[string]any{"config": cfg}
	return c.doJSON(ctx, http.MethodPut, "/func-config", nil, body, nil, "Failed to save func config")
}
