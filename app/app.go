package app

import (
	"consumable_stock_ledger/config"
	"consumable_stock_ledger/db"
	"consumable_stock_ledger/notify"
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// 简化别名，便于 handlers 调用
type Ctx = gin.Context
type H = gin.H

// App 聚合各依赖
type App struct {
	Router *gin.Engine
	DB     *gorm.DB
	RDB    *redis.Client
	Sink   notify.Sink
	Gate   ApprovalGate
	Config config.Config
}

func MustNew(cfg config.Config) *App {
	// --- DB: Postgres ---
	dbConn := db.ConnectDB()

	// --- Redis ---
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPwd, DB: 0})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("redis: %v", err)
	}

	// --- Gin ---
	r := gin.Default()
	useCORS(r, cfg.WebOrigin)
	r.Use(RateLimit(cfg.RateLimit))

	// 未接外部待办系统时，告警只落库不外推
	var sink notify.Sink = notify.NopSink{}
	if !cfg.NotifyDisabled {
		sink = notify.NewRedisSink(rdb, cfg.NotifyQueueKey, cfg.NotifyThrottle)
	}

	return &App{
		Router: r,
		DB:     dbConn,
		RDB:    rdb,
		Sink:   sink,
		Gate:   NewStaticGate(cfg.ApprovalRequiredTypes),
		Config: cfg,
	}
}

func (a *App) Close() { _ = a.RDB.Close() }
