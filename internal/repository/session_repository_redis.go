package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"support-flow-go/internal/config"
	"support-flow-go/internal/model"
	"support-flow-go/pkg/log"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// redisSessionRepository 是 SessionRepository 的 Redis 实现。
// 每个会话以 JSON 形式存储在 session:{id}，过期交给 Redis TTL；
// 容量控制通过按活跃时间排序的 zset 实现。
type redisSessionRepository struct {
	redisClient *redis.Client
	cfg         config.SessionConfig
}

const sessionActivityKey = "sessions:by_activity"

// NewRedisSessionRepository 创建一个 Redis 会话存储。
func NewRedisSessionRepository(redisClient *redis.Client, cfg config.SessionConfig) SessionRepository {
	return &redisSessionRepository{redisClient: redisClient, cfg: cfg}
}

func sessionKey(sessionID string) string {
	return fmt.Sprintf("session:%s", sessionID)
}

func (r *redisSessionRepository) Create(ctx context.Context, mode model.SessionMode, initialMessage string) (*model.Session, error) {
	// 容量达到上限时淘汰活跃时间最早的会话。
	count, err := r.redisClient.ZCard(ctx, sessionActivityKey).Result()
	if err == nil && count >= int64(r.cfg.MaxSessions) {
		oldest, zerr := r.redisClient.ZRange(ctx, sessionActivityKey, 0, 0).Result()
		if zerr == nil && len(oldest) > 0 {
			_ = r.redisClient.Del(ctx, sessionKey(oldest[0])).Err()
			_ = r.redisClient.ZRem(ctx, sessionActivityKey, oldest[0]).Err()
			log.Warnf("会话存储已满，淘汰最久未活跃的会话: %s", oldest[0])
		}
	}

	now := time.Now()
	state := model.StateAwaitingAnswer
	if mode == model.ModeFreeText {
		state = model.StateAwaitingCategory
	}
	s := &model.Session{
		ID:           uuid.NewString(),
		Mode:         mode,
		State:        state,
		Answers:      make(map[string]string),
		CreatedAt:    now,
		LastActivity: now,
	}
	if initialMessage != "" {
		s.History = append(s.History, model.ChatMessage{Role: "user", Content: initialMessage, Timestamp: now})
	}
	if err := r.save(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *redisSessionRepository) Get(ctx context.Context, sessionID string) (*model.Session, error) {
	jsonData, err := r.redisClient.Get(ctx, sessionKey(sessionID)).Result()
	if err == redis.Nil {
		_ = r.redisClient.ZRem(ctx, sessionActivityKey, sessionID).Err()
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	var s model.Session
	if err := json.Unmarshal([]byte(jsonData), &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	// Redis TTL 之外再做一次活跃时间检查，与内存实现的语义保持一致。
	if time.Since(s.LastActivity) > r.cfg.TTL {
		_ = r.redisClient.Del(ctx, sessionKey(sessionID)).Err()
		_ = r.redisClient.ZRem(ctx, sessionActivityKey, sessionID).Err()
		return nil, ErrSessionNotFound
	}
	return &s, nil
}

func (r *redisSessionRepository) Update(ctx context.Context, sessionID string, mutate func(*model.Session)) (*model.Session, error) {
	s, err := r.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	mutate(s)
	s.LastActivity = time.Now()
	if err := r.save(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *redisSessionRepository) AppendMessage(ctx context.Context, sessionID, role, content string) (*model.Session, error) {
	return r.Update(ctx, sessionID, func(s *model.Session) {
		s.History = append(s.History, model.ChatMessage{Role: role, Content: content, Timestamp: time.Now()})
		if len(s.History) > r.cfg.MaxHistory {
			s.History = s.History[len(s.History)-r.cfg.MaxHistory:]
		}
	})
}

func (r *redisSessionRepository) RecordAnswer(ctx context.Context, sessionID, questionID, answer string) (*model.Session, error) {
	return r.Update(ctx, sessionID, func(s *model.Session) {
		s.Answers[questionID] = answer
	})
}

func (r *redisSessionRepository) Resolve(ctx context.Context, sessionID string, resolution *model.Resolution) (*model.Session, error) {
	return r.Update(ctx, sessionID, func(s *model.Session) {
		s.Resolved = true
		s.Resolution = resolution
		s.State = model.StateResolved
	})
}

func (r *redisSessionRepository) Delete(ctx context.Context, sessionID string) error {
	n, err := r.redisClient.Del(ctx, sessionKey(sessionID)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	_ = r.redisClient.ZRem(ctx, sessionActivityKey, sessionID).Err()
	if n == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// Sweep 清理 zset 中已超过 TTL 的会话条目。
// 键本身由 Redis TTL 过期，这里保证索引不残留。
func (r *redisSessionRepository) Sweep(ctx context.Context) int {
	cutoff := float64(time.Now().Add(-r.cfg.TTL).UnixNano())
	ids, err := r.redisClient.ZRangeByScore(ctx, sessionActivityKey, &redis.ZRangeBy{
		Min: "-inf",
		Max: fmt.Sprintf("%f", cutoff),
	}).Result()
	if err != nil {
		log.Errorf("会话清扫读取索引失败: %v", err)
		return 0
	}
	for _, id := range ids {
		_ = r.redisClient.Del(ctx, sessionKey(id)).Err()
		_ = r.redisClient.ZRem(ctx, sessionActivityKey, id).Err()
	}
	return len(ids)
}

func (r *redisSessionRepository) Count(ctx context.Context) int {
	n, err := r.redisClient.ZCard(ctx, sessionActivityKey).Result()
	if err != nil {
		return 0
	}
	return int(n)
}

func (r *redisSessionRepository) save(ctx context.Context, s *model.Session) error {
	jsonData, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := r.redisClient.Set(ctx, sessionKey(s.ID), jsonData, r.cfg.TTL).Err(); err != nil {
		return fmt.Errorf("failed to set session: %w", err)
	}
	if err := r.redisClient.ZAdd(ctx, sessionActivityKey, &redis.Z{
		Score:  float64(s.LastActivity.UnixNano()),
		Member: s.ID,
	}).Err(); err != nil {
		return fmt.Errorf("failed to update session activity index: %w", err)
	}
	return nil
}
