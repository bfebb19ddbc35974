// Package repository 提供了数据访问层的实现。
package repository

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"support-flow-go/internal/config"
	"support-flow-go/internal/model"
	"support-flow-go/pkg/log"

	"github.com/google/uuid"
)

// ErrSessionNotFound 表示会话不存在或已过期。
// 对调用方而言这是可恢复的：重新创建会话即可。
var ErrSessionNotFound = errors.New("session not found")

// SessionRepository 定义了会话存储的操作接口。
// 默认实现是并发安全的内存存储；可替换为 Redis 等持久化后端而不改动引擎。
type SessionRepository interface {
	// Create 分配一个带全局唯一 ID 的新会话；存储已满时先淘汰最久未活跃的会话。
	Create(ctx context.Context, mode model.SessionMode, initialMessage string) (*model.Session, error)
	// Get 返回未过期的会话；过期会话被就地淘汰并报告不存在。
	Get(ctx context.Context, sessionID string) (*model.Session, error)
	// Update 在存储内对会话应用变更函数并刷新活跃时间。
	Update(ctx context.Context, sessionID string, mutate func(*model.Session)) (*model.Session, error)
	// AppendMessage 追加一条历史消息，超出上限时丢弃最旧的条目。
	AppendMessage(ctx context.Context, sessionID, role, content string) (*model.Session, error)
	// RecordAnswer 记录某个问题的归一化答案。
	RecordAnswer(ctx context.Context, sessionID, questionID, answer string) (*model.Session, error)
	// Resolve 置位 resolved 标志并存储最终决议。
	Resolve(ctx context.Context, sessionID string, resolution *model.Resolution) (*model.Session, error)
	// Delete 显式删除会话。
	Delete(ctx context.Context, sessionID string) error
	// Sweep 移除所有超过 TTL 的会话，返回清除数量。
	Sweep(ctx context.Context) int
	// Count 返回当前存活的会话数量。
	Count(ctx context.Context) int
}

// StartSweeper 启动后台清扫协程，按固定间隔调用存储的 Sweep。
// 清扫独立于各后端的懒淘汰路径：内存后端靠它保证低流量下内存有界，
// Redis 后端靠它清理活跃索引中键已过期的残留条目。
// 返回的函数用于停止清扫，可以安全地多次调用。
func StartSweeper(repo SessionRepository, interval time.Duration) func() {
	stopCh := make(chan struct{})
	var stopOnce sync.Once
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n := repo.Sweep(context.Background()); n > 0 {
					log.Infof("会话清扫完成，移除 %d 个过期会话", n)
				}
			case <-stopCh:
				return
			}
		}
	}()
	return func() {
		stopOnce.Do(func() { close(stopCh) })
	}
}

// memorySessionRepository 是 SessionRepository 的内存实现。
// 清扫与请求路径共用同一把锁，保证淘汰不会与在途更新交错。
type memorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]*model.Session
	cfg      config.SessionConfig
}

// NewMemorySessionRepository 创建一个内存会话存储。
func NewMemorySessionRepository(cfg config.SessionConfig) *memorySessionRepository {
	return &memorySessionRepository{
		sessions: make(map[string]*model.Session),
		cfg:      cfg,
	}
}

func (r *memorySessionRepository) Create(_ context.Context, mode model.SessionMode, initialMessage string) (*model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// 容量达到上限时淘汰最久未活跃的会话，新会话的创建永不被拒绝。
	if len(r.sessions) >= r.cfg.MaxSessions {
		r.evictOldestLocked()
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
	r.sessions[s.ID] = s
	return s.Clone(), nil
}

func (r *memorySessionRepository) Get(_ context.Context, sessionID string) (*model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, err := r.aliveLocked(sessionID)
	if err != nil {
		return nil, err
	}
	return s.Clone(), nil
}

func (r *memorySessionRepository) Update(_ context.Context, sessionID string, mutate func(*model.Session)) (*model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, err := r.aliveLocked(sessionID)
	if err != nil {
		return nil, err
	}
	mutate(s)
	s.LastActivity = time.Now()
	return s.Clone(), nil
}

func (r *memorySessionRepository) AppendMessage(ctx context.Context, sessionID, role, content string) (*model.Session, error) {
	return r.Update(ctx, sessionID, func(s *model.Session) {
		s.History = append(s.History, model.ChatMessage{Role: role, Content: content, Timestamp: time.Now()})
		// 历史达到上限时保留末尾的滑动窗口，而不是无限增长。
		if len(s.History) > r.cfg.MaxHistory {
			s.History = s.History[len(s.History)-r.cfg.MaxHistory:]
		}
	})
}

func (r *memorySessionRepository) RecordAnswer(ctx context.Context, sessionID, questionID, answer string) (*model.Session, error) {
	return r.Update(ctx, sessionID, func(s *model.Session) {
		s.Answers[questionID] = answer
	})
}

func (r *memorySessionRepository) Resolve(ctx context.Context, sessionID string, resolution *model.Resolution) (*model.Session, error) {
	return r.Update(ctx, sessionID, func(s *model.Session) {
		s.Resolved = true
		s.Resolution = resolution
		s.State = model.StateResolved
	})
}

func (r *memorySessionRepository) Delete(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[sessionID]; !ok {
		return ErrSessionNotFound
	}
	delete(r.sessions, sessionID)
	return nil
}

func (r *memorySessionRepository) Sweep(_ context.Context) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := time.Now().Add(-r.cfg.TTL)
	removed := 0
	for id, s := range r.sessions {
		if s.LastActivity.Before(cutoff) {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}

func (r *memorySessionRepository) Count(_ context.Context) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// aliveLocked 取出会话并执行懒淘汰检查：过期即删除并报告不存在。
// 所有访问路径都必须经过这里，不允许任何路径返回过期会话。
func (r *memorySessionRepository) aliveLocked(sessionID string) (*model.Session, error) {
	s, ok := r.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if time.Since(s.LastActivity) > r.cfg.TTL {
		delete(r.sessions, sessionID)
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// evictOldestLocked 按 LastActivity 淘汰最旧的一个会话。
func (r *memorySessionRepository) evictOldestLocked() {
	type entry struct {
		id string
		at time.Time
	}
	entries := make([]entry, 0, len(r.sessions))
	for id, s := range r.sessions {
		entries = append(entries, entry{id: id, at: s.LastActivity})
	}
	if len(entries) == 0 {
		return
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].at.Before(entries[j].at) })
	delete(r.sessions, entries[0].id)
	log.Warnf("会话存储已满，淘汰最久未活跃的会话: %s", entries[0].id)
}
