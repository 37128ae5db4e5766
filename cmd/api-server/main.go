// Package main API Server 入口
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"todo-admin/internal/apiserver/auth"
	"todo-admin/internal/apiserver/backup"
	"todo-admin/internal/apiserver/server"
	"todo-admin/internal/apiserver/user"
	"todo-admin/internal/config"
	"todo-admin/internal/shared/objstore"
	"todo-admin/internal/shared/storage/mongostore"
)

func main() {
	// 加载配置（自动加载 .env，根据 APP_ENV 切换配置文件）
	cfg := config.Load()

	log.Printf("Starting API Server... [env=%s]", cfg.Env)
	log.Printf("Config: %s", cfg.String())

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	// 初始化 MongoDB
	store, err := mongostore.NewStore(cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer store.Close()
	log.Println("Connected to MongoDB")

	authCfg := auth.Config{
		JWTSecret:  cfg.JWTSecret,
		TokenTTL:   cfg.TokenTTL,
		BcryptCost: cfg.BcryptCost,
	}

	// 初始化 Redis 令牌黑名单（未配置时登出为无状态）
	var deny *auth.Denylist
	if cfg.RedisURL != "" {
		deny, err = auth.NewDenylist(cfg.RedisURL)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		log.Println("Connected to Redis")
	}

	// 初始化 MinIO（未配置时备份仅写本地目录）
	var obj *objstore.Client
	if cfg.MinIO.Enabled() {
		obj, err = objstore.NewClient(cfg.MinIO)
		if err != nil {
			log.Fatalf("Failed to create MinIO client: %v", err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := obj.EnsureBucket(ctx); err != nil {
			cancel()
			log.Fatalf("Failed to ensure MinIO bucket: %v", err)
		}
		cancel()
		log.Println("Connected to MinIO")
	}

	// 管理员引导（幂等）
	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		hasher := auth.NewHasher(cfg.BcryptCost)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := user.EnsureAdminUser(ctx, store, hasher, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			cancel()
			log.Fatalf("Failed to ensure admin user: %v", err)
		}
		cancel()
	}

	h := server.NewHandler(server.Options{
		Store:   store,
		AuthCfg: authCfg,
		Deny:    deny,
		Backup:  backup.NewService(cfg, obj),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      h.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 优雅关闭
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	log.Printf("API Server listening on :%s", cfg.APIPort)
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}

	fmt.Println("Server stopped")
}
