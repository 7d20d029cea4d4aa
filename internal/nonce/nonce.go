package nonce

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strconv"
	"time"
)

// Service issues and checks anti-forgery tokens scoped to one action.
// A token is an HMAC over the action and a coarse time tick, so it needs
// no server-side storage and stays valid across replicas sharing the
// secret. Tokens from the current and the previous tick verify, giving a
// validity window between lifetime/2 and lifetime.
type Service struct {
	secret   []byte
	lifetime time.Duration
	now      func() time.Time
}

func New(secret string, lifetime time.Duration) *Service {
	if lifetime <= 0 {
		lifetime = 12 * time.Hour
	}
	return &Service{
		secret:   []byte(secret),
		lifetime: lifetime,
		now:      time.Now,
	}
}

// Create returns a token for action valid for at least lifetime/2.
func (s *Service) Create(action string) string {
	return s.tokenAt(action, s.tick(0))
}

// Verify reports whether token was issued for action within the validity
// window. Comparison is constant-time.
func (s *Service) Verify(token, action string) bool {
	if token == "" {
		return false
	}
	for _, offset := range []int64{0, -1} {
		want := s.tokenAt(action, s.tick(offset))
		if subtle.ConstantTimeCompare([]byte(token), []byte(want)) == 1 {
			return true
		}
	}
	return false
}

func (s *Service) tick(offset int64) int64 {
	half := int64(s.lifetime / (2 * time.Second))
	if half <= 0 {
		half = 1
	}
	return s.now().Unix()/half + offset
}

func (s *Service) tokenAt(action string, tick int64) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(strconv.FormatInt(tick, 10)))
	mac.Write([]byte("|"))
	mac.Write([]byte(action))
	return hex.EncodeToString(mac.Sum(nil))[:20]
}
