// Package server 组装 HTTP API
//
// 本包把各业务域的处理器装配成一个完整的路由：
//   - 认证与账户（user）
//   - 待办事项（todo）
//   - 备份管理（backup）
//   - 健康检查与 Prometheus 指标
//
// 文件组织：
//   - common.go: Handler 定义、路由装配和通用工具函数
//   - metrics.go: Prometheus 指标与 HTTP 指标中间件
package server

import (
	"encoding/json"
	"net/http"

	"todo-admin/internal/apiserver/auth"
	"todo-admin/internal/apiserver/backup"
	"todo-admin/internal/apiserver/todo"
	"todo-admin/internal/apiserver/user"
	"todo-admin/internal/shared/storage"
)

// Handler API 入口，持有各业务域处理器
type Handler struct {
	users   *user.Handler
	todos   *todo.Handler
	backups *backup.Handler

	authCfg auth.Config
	deny    *auth.Denylist
	metrics *Metrics
}

// Options Handler 依赖项，Deny 与 Backup 可为 nil
type Options struct {
	Store   storage.Store
	AuthCfg auth.Config
	Deny    *auth.Denylist
	Backup  *backup.Service
}

// NewHandler 创建 Handler 并装配各业务域处理器
func NewHandler(opts Options) *Handler {
	hasher := auth.NewHasher(opts.AuthCfg.BcryptCost)

	userUC := user.NewUseCases(opts.Store, hasher, opts.AuthCfg)
	todoUC := todo.NewUseCases(opts.Store)

	h := &Handler{
		users:   user.NewHandler(userUC, opts.Deny, opts.AuthCfg),
		todos:   todo.NewHandler(todoUC),
		authCfg: opts.AuthCfg,
		deny:    opts.Deny,
		metrics: NewMetrics("todo_admin"),
	}
	if opts.Backup != nil {
		opts.Backup.SetMetrics(h.metrics)
		h.backups = backup.NewHandler(opts.Backup)
	}
	return h
}

// GetMetrics 返回指标实例
func (h *Handler) GetMetrics() *Metrics {
	return h.metrics
}

// Router 构建完整路由，认证中间件和指标中间件包在最外层
func (h *Handler) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", h.Health)
	mux.Handle("GET /metrics", MetricsHandler())

	h.users.RegisterRoutes(mux)
	h.todos.RegisterRoutes(mux)
	if h.backups != nil {
		h.backups.RegisterRoutes(mux)
	}

	var handler http.Handler = mux
	handler = auth.Middleware(h.authCfg, h.deny)(handler)
	handler = h.metrics.MetricsMiddleware(handler)
	return handler
}

// Health 健康检查接口
//
// 路由: GET /health
//
// 用于负载均衡器和监控系统检查服务状态。
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON 将数据以 JSON 格式写入 HTTP 响应
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
