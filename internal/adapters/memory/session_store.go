package memory

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/ogurasousui/hr-onboarding/internal/core/onboarding"
)

// SessionStore は会話セッションをプロセス内に保持します。
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*onboarding.Session
	idle     time.Duration
}

// NewSessionStore は SessionStore を生成します。idle が 0 以下の場合は掃除を行いません。
func NewSessionStore(idle time.Duration) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*onboarding.Session),
		idle:     idle,
	}
}

// Put はセッションを登録します。
func (s *SessionStore) Put(sess *onboarding.Session) {
	if sess == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID()] = sess
}

// Get はセッションを取得します。
func (s *SessionStore) Get(id string) (*onboarding.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

// Len は保持しているセッション数を返します。
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep は最終操作から idle 以上経過したセッションを破棄し、破棄した件数を返します。
// 保存処理中のセッションは破棄しません。
func (s *SessionStore) Sweep(now time.Time) int {
	if s.idle <= 0 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		if sess.Busy() {
			continue
		}
		if now.Sub(sess.LastActive()) >= s.idle {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Run は ctx がキャンセルされるまで interval ごとに Sweep を実行します。
func (s *SessionStore) Run(ctx context.Context, interval time.Duration) {
	if s.idle <= 0 || interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := s.Sweep(now.UTC()); n > 0 {
				log.Printf("onboarding: evicted %d idle sessions", n)
			}
		}
	}
}
