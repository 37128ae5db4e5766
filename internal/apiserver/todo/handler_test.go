package todo

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"todo-admin/internal/apiserver/auth"
	"todo-admin/internal/shared/model"
)

func doRequest(t *testing.T, store Store, method, path, body string, caller *auth.AuthUser) *httptest.ResponseRecorder {
	t.Helper()
	mux := http.NewServeMux()
	NewHandler(NewUseCases(store)).RegisterRoutes(mux)

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if caller != nil {
		req = req.WithContext(auth.WithAuthUser(req.Context(), caller))
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func asUser(id string) *auth.AuthUser {
	return &auth.AuthUser{ID: id, Role: model.UserRoleUser}
}

func asAdmin(id string) *auth.AuthUser {
	return &auth.AuthUser{ID: id, Role: model.UserRoleAdmin}
}

func TestCreateHandler_Basic(t *testing.T) {
	store := newMockStore()

	rec := doRequest(t, store, "POST", "/api/v1/todos", `{"title":"Buy milk"}`, asUser("usr-001"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var td model.Todo
	if err := json.Unmarshal(rec.Body.Bytes(), &td); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if td.Status != model.TodoStatusPending {
		t.Errorf("status = %q, want pending", td.Status)
	}
	// 属主来自认证上下文
	if td.OwnerID != "usr-001" {
		t.Errorf("owner_id = %q, want usr-001", td.OwnerID)
	}
}

// TestCreateHandler_OwnerNotClientSupplied 请求体里的 owner 字段被忽略
func TestCreateHandler_OwnerNotClientSupplied(t *testing.T) {
	store := newMockStore()

	rec := doRequest(t, store, "POST", "/api/v1/todos",
		`{"title":"Buy milk","owner_id":"usr-victim"}`, asUser("usr-001"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d", rec.Code)
	}

	var td model.Todo
	json.Unmarshal(rec.Body.Bytes(), &td)
	if td.OwnerID != "usr-001" {
		t.Errorf("owner_id = %q, want usr-001 (from session)", td.OwnerID)
	}
}

func TestCreateHandler_Validation(t *testing.T) {
	store := newMockStore()

	rec := doRequest(t, store, "POST", "/api/v1/todos", `{"description":"no title"}`, asUser("usr-001"))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing title: status = %d, want 400", rec.Code)
	}

	rec = doRequest(t, store, "POST", "/api/v1/todos", `{`, asUser("usr-001"))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad json: status = %d, want 400", rec.Code)
	}
}

func TestHandlers_RequireAuthContext(t *testing.T) {
	store := newMockStore()

	for _, tc := range []struct{ method, path, body string }{
		{"POST", "/api/v1/todos", `{"title":"x"}`},
		{"GET", "/api/v1/todos", ""},
		{"PATCH", "/api/v1/todos/todo-001", `{}`},
		{"DELETE", "/api/v1/todos/todo-001", ""},
	} {
		rec := doRequest(t, store, tc.method, tc.path, tc.body, nil)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: status = %d, want 401", tc.method, tc.path, rec.Code)
		}
	}
}

func TestUpdateHandler_StatusMapping(t *testing.T) {
	store := newMockStore()
	seedTodo(t, store, "todo-001", "Buy milk", "", "usr-001")

	// 属主更新成功
	rec := doRequest(t, store, "PATCH", "/api/v1/todos/todo-001", `{"status":"done"}`, asUser("usr-001"))
	if rec.Code != http.StatusOK {
		t.Fatalf("owner update: status = %d, body = %s", rec.Code, rec.Body.String())
	}

	// 非法状态值 400
	rec = doRequest(t, store, "PATCH", "/api/v1/todos/todo-001", `{"status":"archived"}`, asUser("usr-001"))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad status: status = %d, want 400", rec.Code)
	}

	// 非属主 403，管理员也一样
	rec = doRequest(t, store, "PATCH", "/api/v1/todos/todo-001", `{"status":"done"}`, asUser("usr-002"))
	if rec.Code != http.StatusForbidden {
		t.Errorf("non-owner: status = %d, want 403", rec.Code)
	}
	rec = doRequest(t, store, "PATCH", "/api/v1/todos/todo-001", `{"status":"done"}`, asAdmin("usr-admin"))
	if rec.Code != http.StatusForbidden {
		t.Errorf("admin: status = %d, want 403", rec.Code)
	}

	// 不存在 404
	rec = doRequest(t, store, "PATCH", "/api/v1/todos/todo-missing", `{}`, asUser("usr-001"))
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing: status = %d, want 404", rec.Code)
	}
}

func TestDeleteHandler_Mapping(t *testing.T) {
	store := newMockStore()
	seedTodo(t, store, "todo-001", "Buy milk", "", "usr-001")
	seedTodo(t, store, "todo-002", "Walk dog", "", "usr-001")

	// 非属主非管理员 403
	rec := doRequest(t, store, "DELETE", "/api/v1/todos/todo-001", "", asUser("usr-002"))
	if rec.Code != http.StatusForbidden {
		t.Errorf("non-owner: status = %d, want 403", rec.Code)
	}

	// 管理员越权删除成功
	rec = doRequest(t, store, "DELETE", "/api/v1/todos/todo-001", "", asAdmin("usr-admin"))
	if rec.Code != http.StatusOK {
		t.Fatalf("admin delete: status = %d", rec.Code)
	}
	var resp deleteTodoResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if !resp.Success {
		t.Error("success = false, want true")
	}

	// 属主删除成功
	rec = doRequest(t, store, "DELETE", "/api/v1/todos/todo-002", "", asUser("usr-001"))
	if rec.Code != http.StatusOK {
		t.Errorf("owner delete: status = %d", rec.Code)
	}

	// 已删除 404
	rec = doRequest(t, store, "DELETE", "/api/v1/todos/todo-001", "", asAdmin("usr-admin"))
	if rec.Code != http.StatusNotFound {
		t.Errorf("deleted: status = %d, want 404", rec.Code)
	}
}

func TestListHandler_RoleFiltering(t *testing.T) {
	store := newMockStore()
	seedTodo(t, store, "todo-001", "mine", "", "usr-001")
	seedTodo(t, store, "todo-002", "theirs", "", "usr-002")

	rec := doRequest(t, store, "GET", "/api/v1/todos", "", asUser("usr-001"))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var mine []*model.Todo
	json.Unmarshal(rec.Body.Bytes(), &mine)
	if len(mine) != 1 || mine[0].ID != "todo-001" {
		t.Errorf("user list = %+v", mine)
	}

	rec = doRequest(t, store, "GET", "/api/v1/todos", "", asAdmin("usr-admin"))
	var all []*model.Todo
	json.Unmarshal(rec.Body.Bytes(), &all)
	if len(all) != 2 {
		t.Errorf("admin list has %d entries, want 2", len(all))
	}
}
