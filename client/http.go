package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"jwtpizza/apperror"
	"jwtpizza/model"
	"jwtpizza/repository"
)

type HTTP struct {
	baseURL    string
	httpClient *http.Client
}

func NewHTTP(baseURL string, timeout time.Duration) *HTTP {
	return &HTTP{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// WithHTTPClient replaces the underlying client, e.g. with an httptest server client.
func (h *HTTP) WithHTTPClient(c *http.Client) *HTTP {
	h.httpClient = c
	return h
}

func (h *HTTP) do(ctx context.Context, method, path, token string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return apperror.Wrap(apperror.Internal, "encode request", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, h.baseURL+path, reader)
	if err != nil {
		return apperror.Wrap(apperror.Internal, "build request", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return apperror.Wrap(apperror.Internal, fmt.Sprintf("%s %s", method, path), err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperror.Wrap(apperror.Internal, "read response", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var e struct {
			Message string `json:"message"`
			Code    string `json:"code"`
		}
		_ = json.Unmarshal(raw, &e)
		if e.Message == "" {
			e.Message = http.StatusText(resp.StatusCode)
		}
		return apperror.New(apperror.FromStatus(resp.StatusCode, e.Code), e.Message)
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return apperror.Wrap(apperror.Internal, "decode response", err)
	}
	return nil
}

func pageQuery(p repository.Page) string {
	q := url.Values{}
	q.Set("page", strconv.Itoa(p.Page))
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Name != "" {
		q.Set("name", p.Name)
	}
	return "?" + q.Encode()
}

func (h *HTTP) Login(ctx context.Context, email, password string) (*model.AuthResult, error) {
	var res model.AuthResult
	err := h.do(ctx, http.MethodPut, "/api/auth", "", model.LoginRequest{Email: email, Password: password}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (h *HTTP) Register(ctx context.Context, name, email, password string) (*model.AuthResult, error) {
	var res model.AuthResult
	err := h.do(ctx, http.MethodPost, "/api/auth", "", model.RegisterRequest{Name: name, Email: email, Password: password}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (h *HTTP) Logout(ctx context.Context, token string) error {
	return h.do(ctx, http.MethodDelete, "/api/auth", token, nil, nil)
}

func (h *HTTP) Me(ctx context.Context, token string) (*model.User, error) {
	var user *model.User
	if err := h.do(ctx, http.MethodGet, "/api/user/me", token, nil, &user); err != nil {
		return nil, err
	}
	return user, nil
}

func (h *HTTP) UpdateUser(ctx context.Context, token string, id model.UserID, req model.UpdateUserRequest) (*model.AuthResult, error) {
	var res model.AuthResult
	if err := h.do(ctx, http.MethodPut, "/api/user/"+id.String(), token, req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (h *HTTP) DeleteUser(ctx context.Context, token string, id model.UserID) error {
	return h.do(ctx, http.MethodDelete, "/api/user/"+id.String(), token, nil, nil)
}

func (h *HTTP) ListUsers(ctx context.Context, token string, page repository.Page) (*model.UserPage, error) {
	var res model.UserPage
	if err := h.do(ctx, http.MethodGet, "/api/user"+pageQuery(page), token, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (h *HTTP) Menu(ctx context.Context) ([]model.MenuItem, error) {
	var menu []model.MenuItem
	if err := h.do(ctx, http.MethodGet, "/api/order/menu", "", nil, &menu); err != nil {
		return nil, err
	}
	return menu, nil
}

func (h *HTTP) AddMenuItem(ctx context.Context, token string, item model.MenuItem) ([]model.MenuItem, error) {
	var menu []model.MenuItem
	if err := h.do(ctx, http.MethodPut, "/api/order/menu", token, item, &menu); err != nil {
		return nil, err
	}
	return menu, nil
}

func (h *HTTP) Franchises(ctx context.Context, token string, page repository.Page) (*model.FranchisePage, error) {
	var res model.FranchisePage
	if err := h.do(ctx, http.MethodGet, "/api/franchise"+pageQuery(page), token, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (h *HTTP) UserFranchises(ctx context.Context, token string, userID model.UserID) ([]model.Franchise, error) {
	franchises := []model.Franchise{}
	if err := h.do(ctx, http.MethodGet, "/api/franchise/"+userID.String(), token, nil, &franchises); err != nil {
		return nil, err
	}
	return franchises, nil
}

func (h *HTTP) CreateFranchise(ctx context.Context, token string, req model.CreateFranchiseRequest) (*model.Franchise, error) {
	var f model.Franchise
	if err := h.do(ctx, http.MethodPost, "/api/franchise", token, req, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

func (h *HTTP) DeleteFranchise(ctx context.Context, token string, id uint) error {
	return h.do(ctx, http.MethodDelete, fmt.Sprintf("/api/franchise/%d", id), token, nil, nil)
}

func (h *HTTP) CreateStore(ctx context.Context, token string, franchiseID uint, name string) (*model.Store, error) {
	var store model.Store
	path := fmt.Sprintf("/api/franchise/%d/store", franchiseID)
	if err := h.do(ctx, http.MethodPost, path, token, model.CreateStoreRequest{Name: name}, &store); err != nil {
		return nil, err
	}
	return &store, nil
}

func (h *HTTP) DeleteStore(ctx context.Context, token string, franchiseID, storeID uint) error {
	path := fmt.Sprintf("/api/franchise/%d/store/%d", franchiseID, storeID)
	return h.do(ctx, http.MethodDelete, path, token, nil, nil)
}

func (h *HTTP) PlaceOrder(ctx context.Context, token string, req model.OrderRequest) (*model.OrderResult, error) {
	var res model.OrderResult
	if err := h.do(ctx, http.MethodPost, "/api/order", token, req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (h *HTTP) Orders(ctx context.Context, token string, page int) (*model.OrderPage, error) {
	var res model.OrderPage
	path := "/api/order?page=" + strconv.Itoa(page)
	if err := h.do(ctx, http.MethodGet, path, token, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
