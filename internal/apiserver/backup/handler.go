package backup

import (
	"net/http"

	"todo-admin/internal/apiserver/auth"
)

// Handler 备份管理 HTTP 处理器，所有路由仅管理员可用
type Handler struct {
	svc *Service
}

// NewHandler 创建备份处理器
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes 注册备份管理路由
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/backup/create", auth.AdminOnly(h.Create))
	mux.HandleFunc("GET /api/v1/backup/list", auth.AdminOnly(h.List))
	mux.HandleFunc("POST /api/v1/backup/restore/{filename}", auth.AdminOnly(h.Restore))
}

// Create 处理创建备份请求
// POST /api/v1/backup/create
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	info, err := h.svc.Create(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, info)
}

// List 处理备份列表请求
// GET /api/v1/backup/list
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	infos, err := h.svc.List()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"backups": infos})
}

// Restore 处理恢复备份请求
// POST /api/v1/backup/restore/{filename}
func (h *Handler) Restore(w http.ResponseWriter, r *http.Request) {
	filename := r.PathValue("filename")
	if err := h.svc.Restore(r.Context(), filename); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
