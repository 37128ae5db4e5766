package todo

import (
	"encoding/json"
	"net/http"

	"todo-admin/internal/apiserver/auth"
	"todo-admin/internal/shared/model"
)

// Handler 待办域 HTTP 处理器
//
// 标题非空等形状校验在这里完成；用例层按规范保持宽松。
// 属主身份一律取自认证上下文，请求体里的 owner 字段不存在。
type Handler struct {
	uc *UseCases
}

// NewHandler 创建待办处理器
func NewHandler(uc *UseCases) *Handler {
	return &Handler{uc: uc}
}

// RegisterRoutes 注册待办相关路由
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/todos", h.Create)
	mux.HandleFunc("GET /api/v1/todos", h.List)
	mux.HandleFunc("PATCH /api/v1/todos/{id}", h.Update)
	mux.HandleFunc("DELETE /api/v1/todos/{id}", h.Delete)
}

// ============================================================================
// 请求/响应类型
// ============================================================================

type createTodoRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

type updateTodoRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
}

type deleteTodoResponse struct {
	Success bool `json:"success"`
}

// ============================================================================
// Handlers
// ============================================================================

// Create 创建待办
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	caller := auth.GetAuthUser(r.Context())
	if caller == nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req createTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	td, err := h.uc.Create(r.Context(), CreateInput{
		Title:       req.Title,
		Description: req.Description,
		OwnerID:     caller.ID,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, td)
}

// List 列出待办（管理员全量，普通用户仅自己的）
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	caller := auth.GetAuthUser(r.Context())
	if caller == nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	todos, err := h.uc.List(r.Context(), caller.ID, caller.Role)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, todos)
}

// Update 更新待办（仅属主）
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	caller := auth.GetAuthUser(r.Context())
	if caller == nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req updateTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var status *model.TodoStatus
	if req.Status != nil {
		s := model.TodoStatus(*req.Status)
		if !s.Valid() {
			writeError(w, http.StatusBadRequest, "status must be pending, in_progress or done")
			return
		}
		status = &s
	}

	td, err := h.uc.Update(r.Context(), UpdateInput{
		ID:          r.PathValue("id"),
		Title:       req.Title,
		Description: req.Description,
		Status:      status,
		OwnerID:     caller.ID,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, td)
}

// Delete 删除待办（属主或管理员）
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	caller := auth.GetAuthUser(r.Context())
	if caller == nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	success, err := h.uc.Delete(r.Context(), r.PathValue("id"), caller.ID, caller.Role)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, deleteTodoResponse{Success: success})
}
