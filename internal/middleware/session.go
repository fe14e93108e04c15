package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"
	"os"
	"strings"

	"commonyouth/internal/logger"
)

// Session：当前请求的身份；UID 为空表示匿名
type Session struct {
	UID   string
	Admin bool
}

func (s Session) Authenticated() bool { return s.UID != "" }

type sessionKey struct{}

// SessionFrom：读取上下文中的会话；未经过 Sessions 中间件时返回匿名会话
func SessionFrom(ctx context.Context) Session {
	s, _ := ctx.Value(sessionKey{}).(Session)
	return s
}

// WithSession：测试与内部调用时直接注入会话
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionConfig：管理员判定依据
type SessionConfig struct {
	AdminToken string
	AdminUIDs  map[string]bool
}

// SessionConfigFromEnv：读取 ADMIN_TOKEN 与逗号分隔的 ADMIN_UIDS
func SessionConfigFromEnv() SessionConfig {
	cfg := SessionConfig{AdminToken: os.Getenv("ADMIN_TOKEN"), AdminUIDs: map[string]bool{}}
	for _, u := range strings.Split(os.Getenv("ADMIN_UIDS"), ",") {
		if u = strings.TrimSpace(u); u != "" {
			cfg.AdminUIDs[u] = true
		}
	}
	return cfg
}

// 文档注释：会话解析中间件
// 背景：身份由上游网关认证后以 x-user-id 头传入，本服务不做登录。
// 约束：x-admin-token 与 ADMIN_TOKEN 一致（且后者非空）或 uid 在 ADMIN_UIDS 中时视为管理员。
func Sessions(cfg SessionConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s := Session{UID: strings.TrimSpace(r.Header.Get("x-user-id"))}
			if t := r.Header.Get("x-admin-token"); t != "" && cfg.AdminToken != "" &&
				subtle.ConstantTimeCompare([]byte(t), []byte(cfg.AdminToken)) == 1 {
				s.Admin = true
			}
			if s.UID != "" && cfg.AdminUIDs[s.UID] {
				s.Admin = true
			}
			if s.Admin {
				logger.L().Debug("session_admin", "uid", s.UID, "path", r.URL.Path)
			}
			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), s)))
		})
	}
}
