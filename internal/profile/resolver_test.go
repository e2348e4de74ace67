package profile

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGravatar serves profile documents for known hashes and avatar bytes
// under /avatar/<hash>.
type fakeGravatar struct {
	t        *testing.T
	server   *httptest.Server
	profiles map[string]string // hash -> display name
	failures map[string]int    // path -> remaining 503 responses
	hits     map[string]int
	mu       sync.Mutex
	sizes    []string
}

func newFakeGravatar(t *testing.T) *fakeGravatar {
	f := &fakeGravatar{
		t:        t,
		profiles: map[string]string{},
		failures: map[string]int{},
		hits:     map[string]int{},
	}
	f.server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeGravatar) add(email, name string) {
	f.profiles[Hash(email)] = name
}

func (f *fakeGravatar) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.hits[r.URL.Path]++
	if f.failures[r.URL.Path] > 0 {
		f.failures[r.URL.Path]--
		f.mu.Unlock()
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	f.mu.Unlock()

	if hash, ok := strings.CutPrefix(r.URL.Path, "/avatar/"); ok {
		f.mu.Lock()
		f.sizes = append(f.sizes, r.URL.Query().Get("s"))
		f.mu.Unlock()
		_, _ = w.Write([]byte("png:" + hash))
		return
	}

	hash := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/"), ".json")
	name, ok := f.profiles[hash]
	if !ok {
		http.NotFound(w, r)
		return
	}
	root := Root{Entry: []Entry{{
		ID:          "1",
		Hash:        hash,
		DisplayName: name,
		Photos:      []Photo{{Value: f.server.URL + "/avatar/" + hash + "?s=80", Type: "thumbnail"}},
	}}}
	require.NoError(f.t, json.NewEncoder(w).Encode(root))
}

func (f *fakeGravatar) hitCount(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[path]
}

func newTestResolver(f *fakeGravatar, cfg ResolverConfig) *Resolver {
	client := NewClient(ClientConfig{
		BaseURL:        f.server.URL,
		Timeout:        time.Second,
		MaxRetries:     3,
		InitialBackoff: time.Millisecond,
	})
	if cfg.Status == nil {
		cfg.Status = func(string) bool { return true }
	}
	return NewResolver(client, cfg)
}

func TestHash(t *testing.T) {
	// Reference value from the Gravatar documentation.
	assert.Equal(t, "0bc83cb571cd1c50ba6f3e8a78ef1346", Hash("MyEmailAddress@example.com "))
	assert.Equal(t, Hash("a@b.c"), Hash("  A@B.C\n"))
}

func TestAvatarURL(t *testing.T) {
	entry := Entry{Photos: []Photo{{Value: "https://secure.gravatar.com/avatar/abc?s=80&d=mm"}}}

	got, err := AvatarURL(entry, 100, 3)
	require.NoError(t, err)
	assert.Equal(t, "https://secure.gravatar.com/avatar/abc?s=300", got)

	_, err = AvatarURL(Entry{}, 100, 1)
	assert.Error(t, err)
}

func TestResolve_Success(t *testing.T) {
	f := newFakeGravatar(t)
	f.add("jane@example.com", "Jane Doe")
	r := newTestResolver(f, ResolverConfig{AvatarSize: 50, Scale: 2, FetchAvatars: true})

	e := r.Resolve(context.Background(), "  Jane@Example.com ")

	assert.Equal(t, "Jane Doe", e.Name)
	assert.Equal(t, "jane@example.com", e.Email)
	assert.Equal(t, Hash("jane@example.com"), e.ID)
	assert.True(t, e.Active)
	assert.False(t, e.Placeholder)
	assert.Equal(t, "png:"+e.ID, string(e.Avatar))
	assert.Contains(t, e.AvatarURL, "s=100")
	assert.Equal(t, []string{"100"}, f.sizes)
}

func TestResolve_SkipsAvatarDownload(t *testing.T) {
	f := newFakeGravatar(t)
	f.add("jane@example.com", "Jane Doe")
	r := newTestResolver(f, ResolverConfig{FetchAvatars: false})

	e := r.Resolve(context.Background(), "jane@example.com")

	assert.Equal(t, "Jane Doe", e.Name)
	assert.Empty(t, e.Avatar)
	assert.NotEmpty(t, e.AvatarURL)
	assert.Empty(t, f.sizes)
}

func TestResolve_PlaceholderOnNotFound(t *testing.T) {
	f := newFakeGravatar(t)
	r := newTestResolver(f, ResolverConfig{})

	e := r.Resolve(context.Background(), "ghost@example.com")

	assert.True(t, e.Placeholder)
	assert.Equal(t, PlaceholderName, e.Name)
	assert.Equal(t, "ghost@example.com", e.Email)
	assert.False(t, e.Active)
	assert.Equal(t, 1, f.hitCount("/"+Hash("ghost@example.com")+".json"), "404 is not retried")
}

func TestResolve_PlaceholderForEmptyEmail(t *testing.T) {
	f := newFakeGravatar(t)
	r := newTestResolver(f, ResolverConfig{})

	e := r.Resolve(context.Background(), "   ")

	assert.Equal(t, PlaceholderEmail, e.Email)
	assert.Equal(t, Hash(PlaceholderEmail), e.ID)
	assert.True(t, e.Placeholder)
}

func TestResolve_RetriesTransientFailures(t *testing.T) {
	f := newFakeGravatar(t)
	f.add("jane@example.com", "Jane Doe")
	path := "/" + Hash("jane@example.com") + ".json"
	f.failures[path] = 2
	r := newTestResolver(f, ResolverConfig{})

	e := r.Resolve(context.Background(), "jane@example.com")

	assert.Equal(t, "Jane Doe", e.Name)
	assert.Equal(t, 3, f.hitCount(path))
}

func TestResolve_GivesUpAfterMaxRetries(t *testing.T) {
	f := newFakeGravatar(t)
	f.add("jane@example.com", "Jane Doe")
	path := "/" + Hash("jane@example.com") + ".json"
	f.failures[path] = 10
	r := newTestResolver(f, ResolverConfig{})

	e := r.Resolve(context.Background(), "jane@example.com")

	assert.True(t, e.Placeholder)
	assert.Equal(t, 3, f.hitCount(path))
}

func TestFetchProfile_Errors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/"+Hash("empty@example.com")):
			_, _ = w.Write([]byte(`{"entry":[]}`))
		case strings.HasPrefix(r.URL.Path, "/"+Hash("garbage@example.com")):
			_, _ = w.Write([]byte(`not json`))
		default:
			w.WriteHeader(http.StatusForbidden)
		}
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL + "/", MaxRetries: 2, InitialBackoff: time.Millisecond})

	_, err := client.FetchProfile(context.Background(), "empty@example.com")
	assert.ErrorIs(t, err, ErrNoProfile)

	_, err = client.FetchProfile(context.Background(), "garbage@example.com")
	assert.ErrorContains(t, err, "failed to decode profile")

	_, err = client.FetchProfile(context.Background(), "other@example.com")
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusForbidden, statusErr.StatusCode)
}

func TestFetchAvatar_SizeLimit(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		size := maxBodySize
		if r.URL.Path == "/huge.png" {
			size++
		}
		_, _ = w.Write(make([]byte, size))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL, MaxRetries: 3, InitialBackoff: time.Millisecond})

	body, err := client.FetchAvatar(context.Background(), server.URL+"/exact.png")
	require.NoError(t, err)
	assert.Len(t, body, maxBodySize)

	hits.Store(0)
	_, err = client.FetchAvatar(context.Background(), server.URL+"/huge.png")
	assert.ErrorContains(t, err, "too large")
	assert.Equal(t, int32(1), hits.Load(), "an oversized response is not retried")
}

func TestFetchProfile_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client := NewClient(ClientConfig{
		BaseURL:        server.URL,
		Timeout:        20 * time.Millisecond,
		MaxRetries:     2,
		InitialBackoff: time.Millisecond,
	})

	start := time.Now()
	_, err := client.FetchProfile(context.Background(), "slow@example.com")
	assert.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestResolveAll_PreservesOrder(t *testing.T) {
	f := newFakeGravatar(t)
	emails := []string{"a@example.com", "b@example.com", "missing@example.com", "c@example.com"}
	f.add("a@example.com", "Alpha")
	f.add("b@example.com", "Bravo")
	f.add("c@example.com", "Charlie")

	var progress atomic.Int64
	var maxSeen atomic.Int64
	r := newTestResolver(f, ResolverConfig{
		Concurrency: 3,
		OnProgress: func(done, total int) {
			progress.Add(1)
			assert.Equal(t, 4, total)
			for {
				cur := maxSeen.Load()
				if int64(done) <= cur || maxSeen.CompareAndSwap(cur, int64(done)) {
					break
				}
			}
		},
	})

	got := r.ResolveAll(context.Background(), emails)

	require.Len(t, got, 4)
	assert.Equal(t, "Alpha", got[0].Name)
	assert.Equal(t, "Bravo", got[1].Name)
	assert.True(t, got[2].Placeholder)
	assert.Equal(t, "missing@example.com", got[2].Email)
	assert.Equal(t, "Charlie", got[3].Name)
	assert.Equal(t, int64(4), progress.Load())
	assert.Equal(t, int64(4), maxSeen.Load())
}

func TestPlaceholder(t *testing.T) {
	p := Placeholder(" Someone@Example.com")

	assert.Equal(t, "someone@example.com", p.Email)
	assert.Equal(t, Hash("someone@example.com"), p.ID)
	assert.Equal(t, PlaceholderName, p.Name)
	assert.True(t, p.Placeholder)
	assert.False(t, p.Active)
}
