package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/tidwall/gjson"

	"github.com/znsio/specmatic-product-admin-go/internal/models"
)

type recordedRequest struct {
	method string
	path   string
	auth   string
	body   []byte
}

type requestLog struct {
	mu       sync.Mutex
	requests []recordedRequest
}

func (l *requestLog) add(r recordedRequest) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.requests = append(l.requests, r)
}

func (l *requestLog) at(i int) recordedRequest {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.requests[i]
}

func newUpstream(t *testing.T, status int, response string) (*BackendService, *requestLog) {
	t.Helper()
	requests := &requestLog{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		requests.add(recordedRequest{
			method: r.Method,
			path:   r.URL.Path,
			auth:   r.Header.Get("Authorization"),
			body:   body,
		})
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, response)
	}))
	t.Cleanup(srv.Close)

	return NewBackendService(srv.URL, "shop", time.Second).WithToken("tok-123"), requests
}

func TestCheckSessionSendsRawToken(t *testing.T) {
	svc, requests := newUpstream(t, http.StatusOK, `{"success":true,"uid":"u1"}`)

	if err := svc.CheckSession(context.Background()); err != nil {
		t.Fatalf("check: %v", err)
	}

	got := requests.at(0)
	if got.method != http.MethodPost || got.path != "/api/user/check" {
		t.Fatalf("unexpected request: %s %s", got.method, got.path)
	}
	if got.auth != "tok-123" {
		t.Fatalf("Authorization = %q, want the bare token", got.auth)
	}
}

func TestCheckSessionRejected(t *testing.T) {
	svc, _ := newUpstream(t, http.StatusUnauthorized, `{"success":false,"message":"驗證錯誤, 請重新登入"}`)

	err := svc.CheckSession(context.Background())
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if msg := ServerMessage(err); msg != "驗證錯誤, 請重新登入" {
		t.Fatalf("message = %q", msg)
	}
}

func TestWithTokenLeavesBaseServiceAnonymous(t *testing.T) {
	svc, requests := newUpstream(t, http.StatusOK, `{"success":true}`)
	base := &BackendService{client: svc.client, apiPath: svc.apiPath}

	if err := base.CheckSession(context.Background()); err != nil {
		t.Fatalf("check: %v", err)
	}
	if auth := requests.at(0).auth; auth != "" {
		t.Fatalf("unexpected Authorization header %q", auth)
	}
}

func TestGetAllProductsKeepsDocumentOrder(t *testing.T) {
	svc, requests := newUpstream(t, http.StatusOK, `{
		"success": true,
		"products": {
			"zz": {"id": "zz", "title": "Last key first", "price": 10, "imagesUrl": ["a"]},
			"aa": {"id": "aa", "title": "Second", "price": 20, "is_enabled": 1}
		},
		"pagination": {}
	}`)

	products, err := svc.GetAllProducts(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	if got := requests.at(0).path; got != "/api/shop/admin/products/all" {
		t.Fatalf("path = %q", got)
	}
	if len(products) != 2 || products[0].ID != "zz" || products[1].ID != "aa" {
		t.Fatalf("unexpected products: %+v", products)
	}
	if products[1].IsEnabled != 1 || products[0].Price != 10 {
		t.Fatalf("fields not decoded: %+v", products)
	}
}

func TestGetAllProductsEmptyMap(t *testing.T) {
	svc, _ := newUpstream(t, http.StatusOK, `{"success":true,"products":{}}`)

	products, err := svc.GetAllProducts(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if products == nil || len(products) != 0 {
		t.Fatalf("expected an empty, non-nil list, got %#v", products)
	}
}

func TestGetAllProductsMalformed(t *testing.T) {
	for name, body := range map[string]string{
		"not json":    `<html>`,
		"no products": `{"success":true}`,
		"array":       `{"success":true,"products":[]}`,
	} {
		t.Run(name, func(t *testing.T) {
			svc, _ := newUpstream(t, http.StatusOK, body)
			if _, err := svc.GetAllProducts(context.Background()); err == nil {
				t.Fatalf("expected error for %s", body)
			}
		})
	}
}

func TestSuccessFalseIsAnError(t *testing.T) {
	svc, _ := newUpstream(t, http.StatusOK, `{"success":false,"message":"標題 欄位為必填"}`)

	_, err := svc.CreateProduct(context.Background(), models.Product{Title: "x"})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.Message != "標題 欄位為必填" || errors.Is(err, ErrUnauthorized) {
		t.Fatalf("unexpected error: %+v", apiErr)
	}
}

func TestCreateProductWrapsPayload(t *testing.T) {
	svc, requests := newUpstream(t, http.StatusOK, `{"success":true,"message":"已建立產品"}`)

	product := models.Product{Title: "Tea", Price: 100, ImagesURL: []string{"a", "b"}}
	result, err := svc.CreateProduct(context.Background(), product)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if result.Message != "已建立產品" || result.Product != nil {
		t.Fatalf("unexpected result: %+v", result)
	}

	got := requests.at(0)
	if got.method != http.MethodPost || got.path != "/api/shop/admin/product" {
		t.Fatalf("unexpected request: %s %s", got.method, got.path)
	}
	if gjson.GetBytes(got.body, "data.title").String() != "Tea" {
		t.Fatalf("payload not wrapped in data: %s", got.body)
	}
	if gjson.GetBytes(got.body, "data.id").Exists() {
		t.Fatalf("create payload must not carry an id: %s", got.body)
	}
	var images []string
	_ = json.Unmarshal([]byte(gjson.GetBytes(got.body, "data.imagesUrl").Raw), &images)
	if !reflect.DeepEqual(images, []string{"a", "b"}) {
		t.Fatalf("images = %v", images)
	}
}

func TestUpdateProductTargetsID(t *testing.T) {
	svc, requests := newUpstream(t, http.StatusOK, `{"success":true,"message":"已更新產品","product":{"id":"p1","title":"Echo"}}`)

	result, err := svc.UpdateProduct(context.Background(), "p1", models.Product{ID: "p1", Title: "Tea"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	got := requests.at(0)
	if got.method != http.MethodPut || got.path != "/api/shop/admin/product/p1" {
		t.Fatalf("unexpected request: %s %s", got.method, got.path)
	}
	if result.Product == nil || result.Product.Title != "Echo" {
		t.Fatalf("echoed product not decoded: %+v", result)
	}
}

func TestDeleteProductReturnsMessage(t *testing.T) {
	svc, requests := newUpstream(t, http.StatusOK, `{"success":true,"message":"已刪除"}`)

	msg, err := svc.DeleteProduct(context.Background(), "p1")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if msg != "已刪除" {
		t.Fatalf("message = %q", msg)
	}
	if got := requests.at(0); got.method != http.MethodDelete || got.path != "/api/shop/admin/product/p1" {
		t.Fatalf("unexpected request: %s %s", got.method, got.path)
	}
}

func TestServerErrorWithoutMessage(t *testing.T) {
	svc, _ := newUpstream(t, http.StatusInternalServerError, `oops`)

	_, err := svc.DeleteProduct(context.Background(), "p1")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500 APIError, got %v", err)
	}
	if ServerMessage(err) != "" {
		t.Fatalf("expected no server message")
	}
}

func TestTransportErrorHasNoServerMessage(t *testing.T) {
	svc := NewBackendService("http://127.0.0.1:1", "shop", 200*time.Millisecond).WithToken("t")

	err := svc.CheckSession(context.Background())
	if err == nil {
		t.Fatalf("expected error")
	}
	if ServerMessage(err) != "" || errors.Is(err, ErrUnauthorized) {
		t.Fatalf("unexpected classification: %v", err)
	}
}

func TestUpdateKeepsUnknownUpstreamFields(t *testing.T) {
	svc, requests := newUpstream(t, http.StatusOK, `{
		"success": true,
		"products": {"a": {"id": "a", "title": "T", "price": 10, "rating": 5, "tags": ["x"]}}
	}`)

	products, err := svc.GetAllProducts(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	edited := products[0].Clone()
	edited.Title = "T2"
	if _, err := svc.UpdateProduct(context.Background(), "a", edited); err != nil {
		t.Fatalf("update: %v", err)
	}

	body := requests.at(1).body
	if gjson.GetBytes(body, "data.title").String() != "T2" {
		t.Fatalf("edit lost: %s", body)
	}
	if gjson.GetBytes(body, "data.rating").Int() != 5 || gjson.GetBytes(body, "data.tags.0").String() != "x" {
		t.Fatalf("unknown fields dropped: %s", body)
	}
}

func TestGetAllProductsToleratesMistypedRecords(t *testing.T) {
	svc, _ := newUpstream(t, http.StatusOK, `{
		"success": true,
		"products": {
			"a": {"id": "a", "title": "Good", "price": 10, "is_enabled": 1},
			"b": {"id": "b", "title": "Odd", "price": "100", "origin_price": "120.5", "is_enabled": true},
			"c": null,
			"d": {"title": "No id"}
		}
	}`)

	products, err := svc.GetAllProducts(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(products) != 3 {
		t.Fatalf("expected 3 products, got %+v", products)
	}

	odd := products[1]
	if odd.ID != "b" || odd.Price != 100 || odd.OriginPrice != 120.5 || odd.IsEnabled != 1 {
		t.Fatalf("mistyped record not coerced: %+v", odd)
	}
	if products[2].ID != "d" {
		t.Fatalf("missing id should fall back to the key, got %q", products[2].ID)
	}
}
