package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
	"github.com/znsio/specmatic-product-admin-go/internal/models"
)

// BackendService talks to the upstream product API on behalf of one session.
type BackendService struct {
	client  *resty.Client
	apiPath string
	token   string
}

// MutationResult is the upstream answer to a create or update.
type MutationResult struct {
	Message string
	Product *models.Product
}

func NewBackendService(baseURL string, apiPath string, timeout time.Duration) *BackendService {
	client := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json")
	if timeout > 0 {
		client.SetTimeout(timeout)
	}
	return &BackendService{client: client, apiPath: apiPath}
}

// WithToken returns a service that sends token as the raw Authorization header.
// The underlying HTTP client is shared.
func (s *BackendService) WithToken(token string) *BackendService {
	return &BackendService{client: s.client, apiPath: s.apiPath, token: token}
}

func (s *BackendService) request(ctx context.Context) *resty.Request {
	req := s.client.R().SetContext(ctx)
	if s.token != "" {
		req.SetHeader("Authorization", s.token)
	}
	return req
}

// CheckSession asks the upstream whether the current token is still valid.
func (s *BackendService) CheckSession(ctx context.Context) error {
	resp, err := s.request(ctx).Post("/api/user/check")
	if err != nil {
		return fmt.Errorf("error checking session: %w", err)
	}
	_, err = checkResponse(resp)
	return err
}

func (s *BackendService) GetAllProducts(ctx context.Context) ([]models.Product, error) {
	resp, err := s.request(ctx).
		SetPathParam("path", s.apiPath).
		Get("/api/{path}/admin/products/all")
	if err != nil {
		return nil, fmt.Errorf("error fetching products: %w", err)
	}

	body, err := checkResponse(resp)
	if err != nil {
		return nil, err
	}

	return decodeProductList(body)
}

func (s *BackendService) CreateProduct(ctx context.Context, product models.Product) (MutationResult, error) {
	resp, err := s.request(ctx).
		SetPathParam("path", s.apiPath).
		SetBody(map[string]any{"data": product}).
		Post("/api/{path}/admin/product")
	if err != nil {
		return MutationResult{}, fmt.Errorf("error creating product: %w", err)
	}
	return decodeMutation(resp)
}

func (s *BackendService) UpdateProduct(ctx context.Context, id string, product models.Product) (MutationResult, error) {
	resp, err := s.request(ctx).
		SetPathParams(map[string]string{"path": s.apiPath, "id": id}).
		SetBody(map[string]any{"data": product}).
		Put("/api/{path}/admin/product/{id}")
	if err != nil {
		return MutationResult{}, fmt.Errorf("error updating product %s: %w", id, err)
	}
	return decodeMutation(resp)
}

// DeleteProduct removes the product and returns the upstream message.
func (s *BackendService) DeleteProduct(ctx context.Context, id string) (string, error) {
	resp, err := s.request(ctx).
		SetPathParams(map[string]string{"path": s.apiPath, "id": id}).
		Delete("/api/{path}/admin/product/{id}")
	if err != nil {
		return "", fmt.Errorf("error deleting product %s: %w", id, err)
	}

	body, err := checkResponse(resp)
	if err != nil {
		return "", err
	}
	return gjson.GetBytes(body, "message").String(), nil
}

// checkResponse turns non-2xx statuses and success=false bodies into *APIError.
func checkResponse(resp *resty.Response) ([]byte, error) {
	body := resp.Body()
	message := gjson.GetBytes(body, "message").String()

	if !resp.IsSuccess() {
		return nil, &APIError{StatusCode: resp.StatusCode(), Message: message}
	}

	if success := gjson.GetBytes(body, "success"); success.Exists() && success.Type == gjson.False {
		return nil, &APIError{StatusCode: resp.StatusCode(), Message: message}
	}

	return body, nil
}

func decodeProductList(body []byte) ([]models.Product, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("invalid product list response")
	}

	list := gjson.GetBytes(body, "products")
	if !list.IsObject() {
		return nil, fmt.Errorf("product list response has no products object")
	}

	// ForEach walks keys in document order, which is the listing order.
	// Entries that are not objects are skipped so one bad record cannot hide
	// the rest of the list.
	products := []models.Product{}
	list.ForEach(func(key, value gjson.Result) bool {
		if !value.IsObject() {
			return true
		}
		var product models.Product
		if err := json.Unmarshal([]byte(value.Raw), &product); err != nil {
			return true
		}
		if product.ID == "" {
			product.ID = key.String()
		}
		products = append(products, product)
		return true
	})

	return products, nil
}

func decodeMutation(resp *resty.Response) (MutationResult, error) {
	body, err := checkResponse(resp)
	if err != nil {
		return MutationResult{}, err
	}

	result := MutationResult{Message: gjson.GetBytes(body, "message").String()}

	if raw := gjson.GetBytes(body, "product"); raw.IsObject() {
		var product models.Product
		if err := json.Unmarshal([]byte(raw.Raw), &product); err != nil {
			return MutationResult{}, fmt.Errorf("error decoding saved product: %w", err)
		}
		result.Product = &product
	}

	return result, nil
}
