package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	RedisAddr string
	RedisPwd  string
	WebOrigin string

	// 告警事件队列与 updated 事件限流
	NotifyDisabled bool
	NotifyQueueKey string
	NotifyThrottle time.Duration

	// 需要审批才能直接 done 的操作类型
	ApprovalRequiredTypes []string

	// ulule/limiter 格式，如 "120-M"
	RateLimit string
}

func LoadConfig() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	throttleSec, err := strconv.Atoi(getEnv("NOTIFY_THROTTLE_SECONDS", "60"))
	if err != nil {
		log.Printf("Invalid NOTIFY_THROTTLE_SECONDS, falling back to 60")
		throttleSec = 60
	}

	notifyDisabled, err := strconv.ParseBool(getEnv("NOTIFY_DISABLED", "false"))
	if err != nil {
		log.Printf("Invalid NOTIFY_DISABLED, falling back to false")
		notifyDisabled = false
	}

	var approvalTypes []string
	for _, t := range strings.Split(os.Getenv("APPROVAL_REQUIRED_TYPES"), ",") {
		if s := strings.TrimSpace(t); s != "" {
			approvalTypes = append(approvalTypes, s)
		}
	}

	return Config{
		RedisAddr:             getEnv("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPwd:              os.Getenv("REDIS_PASSWORD"),
		WebOrigin:             getEnv("WEB_ORIGIN", "http://localhost:3000"),
		NotifyDisabled:        notifyDisabled,
		NotifyQueueKey:        getEnv("NOTIFY_QUEUE_KEY", "stock:alert:events"),
		NotifyThrottle:        time.Duration(throttleSec) * time.Second,
		ApprovalRequiredTypes: approvalTypes,
		RateLimit:             getEnv("RATE_LIMIT", "120-M"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
