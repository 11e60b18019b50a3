package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// StudentLoginKey returns the cache key holding a student's active login JTI
func (r *CacheKeyStruct) StudentLoginKey(studentID int) string {
	return fmt.Sprintf("login:%d", studentID)
}

// SessionDeadlineKey returns the cache key for a session's submission deadline
func (r *CacheKeyStruct) SessionDeadlineKey(sessionID string) string {
	return fmt.Sprintf("session:%s:deadline", sessionID)
}

// SessionAnswersKey returns the cache key for a session's autosaved answers
func (r *CacheKeyStruct) SessionAnswersKey(sessionID string) string {
	return fmt.Sprintf("session:%s:answers", sessionID)
}

// SessionViolationsKey returns the cache key for a session's violation counter
func (r *CacheKeyStruct) SessionViolationsKey(sessionID string) string {
	return fmt.Sprintf("session:%s:violations", sessionID)
}

// SessionTimeSpentKey returns the cache key for a session's per-question time spent
func (r *CacheKeyStruct) SessionTimeSpentKey(sessionID string) string {
	return fmt.Sprintf("session:%s:time_spent", sessionID)
}

// RateLimitKey returns the request counter key for one client IP in one
// fixed rate-limit window
func (r *CacheKeyStruct) RateLimitKey(clientIP string, windowBucket int64) string {
	return fmt.Sprintf("ratelimit:%s:%d", clientIP, windowBucket)
}

var CacheKey = NewCacheKeyStruct()
