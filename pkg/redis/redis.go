package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"fieldpulse/backend/config"
)

// Client Redis 客户端封装
// 当前用于员工最近活跃位置；后续可扩展缓存、分布式锁等场景
type Client struct {
	rdb    *goredis.Client
	logger *zap.Logger
}

// NewClient 创建 Redis 连接并执行 Ping 健康检查
func NewClient(cfg *config.RedisConfig, logger *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("Redis 连接失败: %w", err)
	}

	logger.Info("Redis 连接成功", zap.String("addr", cfg.Addr))

	return &Client{rdb: rdb, logger: logger}, nil
}

// ── 最近活跃位置 ──
//
// 打卡与位置上报时写入，按活跃窗口设置 TTL。
// 过期后键自动消失，管理端看不到过期位置，避免陈旧位置泄漏。

const presencePrefix = "presence:location:"

// LastLocation 员工最近上报的位置
type LastLocation struct {
	EmployeeID string    `json:"employee_id"`
	Lat        float64   `json:"lat"`
	Lon        float64   `json:"lon"`
	SeenAt     time.Time `json:"seen_at"`
}

// SetLastLocation 写入员工最近活跃位置，TTL 即可见窗口
func (c *Client) SetLastLocation(ctx context.Context, loc *LastLocation, window time.Duration) error {
	raw, err := json.Marshal(loc)
	if err != nil {
		return fmt.Errorf("序列化位置失败: %w", err)
	}
	return c.rdb.Set(ctx, presencePrefix+loc.EmployeeID, raw, window).Err()
}

// GetLastLocation 读取单个员工的最近活跃位置；窗口外返回 (nil, nil)
func (c *Client) GetLastLocation(ctx context.Context, employeeID string) (*LastLocation, error) {
	raw, err := c.rdb.Get(ctx, presencePrefix+employeeID).Bytes()
	if err == goredis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var loc LastLocation
	if err := json.Unmarshal(raw, &loc); err != nil {
		return nil, fmt.Errorf("解析位置失败: %w", err)
	}
	return &loc, nil
}

// ListActiveLocations 扫描全部窗口内的活跃位置
// 使用 SCAN 而非 KEYS，避免阻塞 Redis
func (c *Client) ListActiveLocations(ctx context.Context) ([]LastLocation, error) {
	var result []LastLocation

	iter := c.rdb.Scan(ctx, 0, presencePrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		raw, err := c.rdb.Get(ctx, iter.Val()).Bytes()
		if err == goredis.Nil {
			continue // 扫描与读取之间刚好过期
		}
		if err != nil {
			return nil, err
		}
		var loc LastLocation
		if err := json.Unmarshal(raw, &loc); err != nil {
			c.logger.Warn("跳过无法解析的位置记录", zap.String("key", iter.Val()), zap.Error(err))
			continue
		}
		result = append(result, loc)
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

// ── 速率限制 ──

// CheckRateLimit 滑动窗口速率检查
// 以 ZSET 记录窗口内的请求时间戳，超限返回 false
func (c *Client) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	now := time.Now()
	windowStart := now.Add(-window)

	pipe := c.rdb.TxPipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", fmt.Sprintf("%d", windowStart.UnixNano()))
	countCmd := pipe.ZCard(ctx, key)
	pipe.ZAdd(ctx, key, goredis.Z{
		Score:  float64(now.UnixNano()),
		Member: now.UnixNano(),
	})
	pipe.Expire(ctx, key, window)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}
	return countCmd.Val() < int64(limit), nil
}

// Close 关闭 Redis 连接
func (c *Client) Close() error {
	return c.rdb.Close()
}
