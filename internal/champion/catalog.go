// Package champion implements the Champion Catalog (C3): a cached,
// bijective mapping between numeric champion keys and canonical champion
// names, sourced from Data Dragon at a pinned version.
package champion

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheTTL = 6 * time.Hour

// ddragonChampionList mirrors the subset of Data Dragon's champion.json
// response this catalog needs.
type ddragonChampionList struct {
	Data map[string]struct {
		Key  string `json:"key"`  // numeric id, as a string
		Name string `json:"name"` // canonical display name
	} `json:"data"`
}

// Catalog is the read-mostly, process-wide champion key/name mapping. It
// is safe for concurrent use; Sync replaces the mapping atomically.
type Catalog struct {
	mu      sync.RWMutex
	byKey   map[string]string // key -> canonical name
	byName  map[string]string // lowercased name -> key
	version string
	baseURL string

	httpClient *http.Client
	cache      *redis.Client
}

// New constructs a Catalog against a pinned Data Dragon version. cache may
// be nil, in which case the catalog is process-local only.
func New(version, baseURL string, cache *redis.Client) *Catalog {
	return &Catalog{
		byKey:      make(map[string]string),
		byName:     make(map[string]string),
		version:    version,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		cache:      cache,
	}
}

// Sync fetches the full champion list from Data Dragon and atomically
// replaces the in-memory mapping. It first tries the Redis cache (if
// configured) to avoid hammering the CDN on every process restart.
func (c *Catalog) Sync(ctx context.Context) error {
	cacheKey := "champion:catalog:" + c.version

	if c.cache != nil {
		if raw, err := c.cache.Get(ctx, cacheKey).Bytes(); err == nil {
			if c.loadFromBytes(raw) == nil {
				return nil
			}
		}
	}

	url := fmt.Sprintf("%s/cdn/%s/data/en_US/champion.json", c.baseURL, c.version)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("champion catalog fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("champion catalog fetch: unexpected status %d", resp.StatusCode)
	}

	var list ddragonChampionList
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return fmt.Errorf("champion catalog decode: %w", err)
	}

	raw, err := json.Marshal(list)
	if err == nil && c.cache != nil {
		c.cache.Set(ctx, cacheKey, raw, cacheTTL)
	}

	c.apply(list)
	return nil
}

func (c *Catalog) loadFromBytes(raw []byte) error {
	var list ddragonChampionList
	if err := json.Unmarshal(raw, &list); err != nil {
		return err
	}
	c.apply(list)
	return nil
}

func (c *Catalog) apply(list ddragonChampionList) {
	byKey := make(map[string]string, len(list.Data))
	byName := make(map[string]string, len(list.Data))
	for _, champ := range list.Data {
		byKey[champ.Key] = champ.Name
		byName[strings.ToLower(champ.Name)] = champ.Key
	}

	c.mu.Lock()
	c.byKey = byKey
	c.byName = byName
	c.mu.Unlock()
}

// NameFor resolves a numeric champion key to its canonical display name.
func (c *Catalog) NameFor(key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	name, ok := c.byKey[key]
	return name, ok
}

// NormalizeToKey resolves a champion reference to its canonical numeric
// key. Numeric strings are accepted as-is (even if unknown to the
// catalog, per processAction step 3: "accept numeric strings as-is");
// canonical names are looked up case-insensitively; anything else is
// rejected.
func (c *Catalog) NormalizeToKey(ref string) (string, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", false
	}
	if isNumeric(ref) {
		return ref, true
	}
	c.mu.RLock()
	key, ok := c.byName[strings.ToLower(ref)]
	c.mu.RUnlock()
	return key, ok
}

// RandomExcluding returns a random known champion key not present in
// excluded, for bot auto-play. Returns ok=false if no candidate remains.
func (c *Catalog) RandomExcluding(excluded map[string]struct{}) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	candidates := make([]string, 0, len(c.byKey))
	for key := range c.byKey {
		if _, used := excluded[key]; !used {
			candidates = append(candidates, key)
		}
	}
	if len(candidates) == 0 {
		return "", false
	}
	return candidates[rand.Intn(len(candidates))], true
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
