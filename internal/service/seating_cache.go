package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/MohamedBENIAICH/Exam-Planning-backend-sub000/internal/dto"
	"github.com/MohamedBENIAICH/Exam-Planning-backend-sub000/internal/model"
	pkgerrors "github.com/MohamedBENIAICH/Exam-Planning-backend-sub000/pkg/errors"
	"github.com/MohamedBENIAICH/Exam-Planning-backend-sub000/pkg/metrics"
	"github.com/MohamedBENIAICH/Exam-Planning-backend-sub000/pkg/redis"
)

// minGenerationTTL 代次键的最短保留时间，须远大于缓存条目 TTL
const minGenerationTTL = 24 * time.Hour

// SeatingCache 座位分配读缓存；Redis 不可用时所有操作退化为空操作
//
// 每个归属方维护一个代次计数器，缓存键带代次。写操作只需自增代次：
// 读路径在查库前记下代次并写回该代次的键，期间发生的写入会让这份结果不再可达。
type SeatingCache struct {
	rdb     *redis.Client
	ttl     time.Duration
	genTTL  time.Duration
	metrics metrics.Collector
	logger  *zap.Logger
}

// NewSeatingCache 创建座位分配缓存，rdb 可为 nil
func NewSeatingCache(rdb *redis.Client, ttl time.Duration, collector metrics.Collector, logger *zap.Logger) *SeatingCache {
	return &SeatingCache{
		rdb:     rdb,
		ttl:     ttl,
		genTTL:  max(minGenerationTTL, 2*ttl),
		metrics: collector,
		logger:  logger,
	}
}

func seatingGenerationKey(owner model.SeatOwner) string {
	return "seating:gen:" + owner.Key()
}

func seatingCacheKey(owner model.SeatOwner, gen int64) string {
	return fmt.Sprintf("seating:%s:g%d", owner.Key(), gen)
}

func (c *SeatingCache) enabled() bool {
	return c != nil && c.rdb != nil && c.ttl > 0
}

// Generation 读取归属方当前代次；ok=false 表示缓存不可用，本次读取不应回写
func (c *SeatingCache) Generation(ctx context.Context, owner model.SeatOwner) (gen int64, ok bool) {
	if !c.enabled() {
		return 0, false
	}
	gen, err := c.rdb.GetInt64(ctx, seatingGenerationKey(owner))
	if err != nil {
		c.logger.Warn("读取座位分配缓存代次失败", zap.String("owner", owner.Key()), zap.Error(err))
		return 0, false
	}
	return gen, true
}

// Get 命中时填充 dest 并返回 true
func (c *SeatingCache) Get(ctx context.Context, owner model.SeatOwner, gen int64, dest *dto.SeatingResponse) bool {
	if !c.enabled() {
		return false
	}

	err := c.rdb.GetJSON(ctx, seatingCacheKey(owner, gen), dest)
	if err == nil {
		c.metrics.IncCache(true)
		return true
	}
	if !errors.Is(err, pkgerrors.ErrCacheMiss) {
		c.logger.Warn("读取座位分配缓存失败", zap.String("owner", owner.Key()), zap.Error(err))
	}
	c.metrics.IncCache(false)
	return false
}

// Set 写入 gen 代次的缓存，失败仅记录日志
func (c *SeatingCache) Set(ctx context.Context, owner model.SeatOwner, gen int64, resp *dto.SeatingResponse) {
	if !c.enabled() {
		return
	}
	if err := c.rdb.SetJSON(ctx, seatingCacheKey(owner, gen), resp, c.ttl); err != nil {
		c.logger.Warn("写入座位分配缓存失败", zap.String("owner", owner.Key()), zap.Error(err))
		return
	}
	// 代次键须比任何条目活得更久，否则计数归零后旧条目会重新可达
	if err := c.rdb.Expire(ctx, seatingGenerationKey(owner), c.genTTL); err != nil {
		c.logger.Warn("刷新座位分配缓存代次失败", zap.String("owner", owner.Key()), zap.Error(err))
	}
}

// Invalidate 自增代次使已有缓存失效，失败仅记录日志（最迟 TTL 后过期）
func (c *SeatingCache) Invalidate(ctx context.Context, owner model.SeatOwner) {
	if !c.enabled() {
		return
	}
	if _, err := c.rdb.IncrWithTTL(ctx, seatingGenerationKey(owner), c.genTTL); err != nil {
		c.logger.Warn("失效座位分配缓存失败", zap.String("owner", owner.Key()), zap.Error(err))
	}
}
