package items

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fdg312/simplemeal/internal/storage/memory"
)

func newTestHandlers(t *testing.T) *Handlers {
	t.Helper()
	return NewHandlers(NewService(memory.New()))
}

func createItem(t *testing.T, h *Handlers, name, category string) ItemDTO {
	t.Helper()

	raw, _ := json.Marshal(UpsertItemRequest{Name: name, Category: category})
	req := httptest.NewRequest(http.MethodPost, "/v1/items", bytes.NewReader(raw))
	rec := httptest.NewRecorder()
	h.HandleCreate(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("create item: status %d, body %s", rec.Code, rec.Body.String())
	}
	var dto ItemDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &dto); err != nil {
		t.Fatalf("decode item: %v", err)
	}
	return dto
}

func TestListItemsFiltersByCategoryAndQuery(t *testing.T) {
	h := newTestHandlers(t)

	createItem(t, h, "Milk", "Dairy & Eggs")
	createItem(t, h, "Cheddar", "Dairy & Eggs")
	createItem(t, h, "Apples", "Produce")

	req := httptest.NewRequest(http.MethodGet, "/v1/items?category=Dairy+%26+Eggs&q=mil", nil)
	rec := httptest.NewRecorder()
	h.HandleList(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("list items: status %d", rec.Code)
	}
	var resp ListItemsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(resp.Items) != 1 || resp.Items[0].Name != "Milk" {
		t.Errorf("filtered items = %+v, want only Milk", resp.Items)
	}
}

func TestCreateItemRequiresNameAndCategory(t *testing.T) {
	h := newTestHandlers(t)

	raw, _ := json.Marshal(UpsertItemRequest{Name: "Milk"})
	req := httptest.NewRequest(http.MethodPost, "/v1/items", bytes.NewReader(raw))
	rec := httptest.NewRecorder()
	h.HandleCreate(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestUpdateAndDeleteItem(t *testing.T) {
	h := newTestHandlers(t)

	created := createItem(t, h, "Bread", "Bakery")

	raw, _ := json.Marshal(UpsertItemRequest{Name: "Sourdough", Category: "Bakery"})
	updReq := httptest.NewRequest(http.MethodPut, "/v1/items/"+created.ID.String(), bytes.NewReader(raw))
	updReq.SetPathValue("id", created.ID.String())
	updRec := httptest.NewRecorder()
	h.HandleUpdate(updRec, updReq)

	if updRec.Code != http.StatusOK {
		t.Fatalf("update item: status %d", updRec.Code)
	}
	var updated ItemDTO
	if err := json.Unmarshal(updRec.Body.Bytes(), &updated); err != nil {
		t.Fatalf("decode item: %v", err)
	}
	if updated.Name != "Sourdough" {
		t.Errorf("name = %q, want Sourdough", updated.Name)
	}

	delReq := httptest.NewRequest(http.MethodDelete, "/v1/items/"+created.ID.String(), nil)
	delReq.SetPathValue("id", created.ID.String())
	delRec := httptest.NewRecorder()
	h.HandleDelete(delRec, delReq)

	if delRec.Code != http.StatusNoContent {
		t.Fatalf("delete item: status %d", delRec.Code)
	}

	listReq := httptest.NewRequest(http.MethodGet, "/v1/items", nil)
	listRec := httptest.NewRecorder()
	h.HandleList(listRec, listReq)

	var resp ListItemsResponse
	if err := json.Unmarshal(listRec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(resp.Items) != 0 {
		t.Errorf("items after delete = %d, want 0", len(resp.Items))
	}
}
