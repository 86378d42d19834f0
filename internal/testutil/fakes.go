package testutil

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	infraCache "blog-backend/internal/infrastructure/cache"
	"blog-backend/pkg/cache"
)

const storageBaseURL = "http://storage.test/blog/"

// ObjectStorage is an in-memory bucket. URLs look like MinIO public links.
type ObjectStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func NewObjectStorage() *ObjectStorage {
	return &ObjectStorage{objects: make(map[string][]byte)}
}

func (s *ObjectStorage) Upload(_ context.Context, key string, data []byte, _ string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = append([]byte(nil), data...)
	return storageBaseURL + key, nil
}

func (s *ObjectStorage) DeleteByPrefix(_ context.Context, prefix string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.objects {
		if strings.HasPrefix(key, prefix) {
			delete(s.objects, key)
		}
	}
	return nil
}

func (s *ObjectStorage) KeyFromURL(url string) (string, bool) {
	key, ok := strings.CutPrefix(url, storageBaseURL)
	return key, ok && key != ""
}

// Keys lists stored object keys in order.
func (s *ObjectStorage) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.objects))
	for key := range s.objects {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Message is one recorded publish.
type Message struct {
	Channel string
	Payload any
}

// Publisher records messages instead of sending them. A non-nil Err makes
// every publish fail without recording.
type Publisher struct {
	mu       sync.Mutex
	Err      error
	messages []Message
}

func (p *Publisher) Publish(_ context.Context, channel string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.messages = append(p.messages, Message{Channel: channel, Payload: payload})
	return nil
}

func (p *Publisher) Messages() []Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Message(nil), p.messages...)
}

// CleanupQueue records avatar cleanup jobs.
type CleanupQueue struct {
	mu       sync.Mutex
	Err      error
	prefixes []string
}

func (q *CleanupQueue) EnqueueAvatarCleanup(_ context.Context, _ string, prefix string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.Err != nil {
		return q.Err
	}
	q.prefixes = append(q.prefixes, prefix)
	return nil
}

func (q *CleanupQueue) Prefixes() []string {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]string(nil), q.prefixes...)
}

// NewListCache returns a list cache over an in-process LRU.
func NewListCache(t *testing.T) *cache.ListCache {
	t.Helper()
	mem, err := infraCache.NewMemoryCache(256)
	require.NoError(t, err)
	return cache.NewListCache(mem, time.Minute)
}

// PNG encodes a solid w x h image.
func PNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 80, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}
