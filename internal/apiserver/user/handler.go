package user

import (
	"encoding/json"
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"

	"todo-admin/internal/apiserver/auth"
	"todo-admin/internal/shared/model"
)

// Handler 用户域 HTTP 处理器
//
// 入参校验（非空、邮箱格式、密码长度）在这一层完成，
// 用例层保持宽松，只负责领域规则。
type Handler struct {
	uc   *UseCases
	deny *auth.Denylist // 可为 nil：未配置 Redis 时 logout 不做服务端吊销
	cfg  auth.Config
}

// NewHandler 创建用户处理器
func NewHandler(uc *UseCases, deny *auth.Denylist, cfg auth.Config) *Handler {
	return &Handler{uc: uc, deny: deny, cfg: cfg}
}

// RegisterRoutes 注册用户相关路由
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/auth/signup", h.SignUp)
	mux.HandleFunc("POST /api/v1/auth/login", h.Login)
	mux.HandleFunc("GET /api/v1/auth/me", h.Me)
	mux.HandleFunc("POST /api/v1/auth/logout", h.Logout)
}

// ============================================================================
// 请求/响应类型
// ============================================================================

type signUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signUpResponse struct {
	User        model.UserView `json:"user"`
	AccessToken string         `json:"access_token"`
}

type loginResponse struct {
	User        *model.User `json:"user"`
	AccessToken string      `json:"access_token"`
}

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

func isValidEmail(email string) bool {
	return emailRe.MatchString(email)
}

// ============================================================================
// Handlers
// ============================================================================

// SignUp 用户注册
func (h *Handler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "name, email, password are required")
		return
	}
	if !isValidEmail(req.Email) {
		writeError(w, http.StatusBadRequest, "invalid email format")
		return
	}
	if len(req.Password) < 8 {
		writeError(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}
	role := model.UserRole(req.Role)
	if req.Role != "" && !role.Valid() {
		writeError(w, http.StatusBadRequest, "role must be admin or user")
		return
	}

	out, err := h.uc.SignUp(r.Context(), SignUpInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     role,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, signUpResponse{User: out.User, AccessToken: out.Token})
}

// Login 用户登录
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	out, err := h.uc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{User: out.User, AccessToken: out.Token})
}

// Me 查询当前用户资料
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	authUser := auth.GetAuthUser(r.Context())
	if authUser == nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	usr, err := h.uc.GetProfile(r.Context(), authUser.ID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, usr)
}

// Logout 吊销当前令牌
//
// 未配置吊销表时仅由客户端丢弃令牌。
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if h.deny == nil {
		writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
		return
	}

	authHeader := r.Header.Get("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		writeError(w, http.StatusUnauthorized, "missing authorization header")
		return
	}
	claims, err := auth.ParseToken(h.cfg, parts[1])
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid or expired token")
		return
	}

	expiresAt := time.Now().Add(h.cfg.TokenTTL)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	if err := h.deny.Revoke(r.Context(), claims.ID, expiresAt); err != nil {
		log.Printf("[user.logout] revoke error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}
