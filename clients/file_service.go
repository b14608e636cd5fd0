package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/open436/section-service/utils"
)

const (
	serviceURLTTL = 5 * time.Minute
	fileURLTTL    = 10 * time.Minute
)

type cacheEntry struct {
	value     string
	expiresAt time.Time
}

// FileServiceClient resolves icon file ids to URLs via the external
// file service. Every failure path (no discovery, timeout, non-2xx,
// malformed body) degrades to "no URL" rather than an error; a missing
// icon never fails the enclosing request.
type FileServiceClient struct {
	discovery   ServiceDiscovery
	serviceName string
	httpc       *http.Client

	mu    sync.RWMutex
	cache map[string]cacheEntry
}

// NewFileServiceClient builds a client that discovers the file service
// by name and bounds each lookup with timeout.
func NewFileServiceClient(discovery ServiceDiscovery, serviceName string, timeout time.Duration) *FileServiceClient {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &FileServiceClient{
		discovery:   discovery,
		serviceName: serviceName,
		httpc:       &http.Client{Timeout: timeout},
		cache:       make(map[string]cacheEntry),
	}
}

type fileURLResp struct {
	Data struct {
		URL string `json:"url"`
	} `json:"data"`
}

// ResolveIconURL returns the access URL for a file id, or nil when the
// id is empty or the file service cannot answer in time.
func (f *FileServiceClient) ResolveIconURL(ctx context.Context, fileID *string) *string {
	if fileID == nil || *fileID == "" {
		return nil
	}
	id := *fileID

	cacheKey := "fileurl:" + id
	if v, ok := f.cacheGet(cacheKey); ok {
		return &v
	}
	if v, ok := utils.CacheGetString(cacheKey); ok {
		f.cacheSet(cacheKey, v, fileURLTTL)
		return &v
	}

	baseURL, ok := f.serviceURL()
	if !ok {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/files/%s", baseURL, id), nil)
	if err != nil {
		return nil
	}
	resp, err := f.httpc.Do(req)
	if err != nil {
		if utils.Sugar != nil {
			utils.Sugar.Warnf("file service lookup failed id=%s err=%v", id, err)
		}
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		if utils.Sugar != nil {
			utils.Sugar.Warnf("file service lookup id=%s status=%d", id, resp.StatusCode)
		}
		return nil
	}

	var body fileURLResp
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.Data.URL == "" {
		return nil
	}

	url := body.Data.URL
	f.cacheSet(cacheKey, url, fileURLTTL)
	utils.CacheSetString(cacheKey, url, fileURLTTL)
	return &url
}

// serviceURL resolves the file service base URL through discovery,
// caching the answer briefly to keep Consul off the hot path.
func (f *FileServiceClient) serviceURL() (string, bool) {
	cacheKey := "serviceurl:" + f.serviceName
	if v, ok := f.cacheGet(cacheKey); ok {
		return v, true
	}

	if f.discovery == nil {
		return "", false
	}
	host, port, err := f.discovery.Discover(f.serviceName)
	if err != nil {
		if utils.Sugar != nil {
			utils.Sugar.Warnf("cannot discover %s: %v", f.serviceName, err)
		}
		return "", false
	}

	baseURL := fmt.Sprintf("http://%s:%d", host, port)
	f.cacheSet(cacheKey, baseURL, serviceURLTTL)
	return baseURL, true
}

func (f *FileServiceClient) cacheGet(key string) (string, bool) {
	f.mu.RLock()
	e, ok := f.cache[key]
	f.mu.RUnlock()
	if !ok {
		return "", false
	}
	if time.Now().After(e.expiresAt) {
		f.mu.Lock()
		delete(f.cache, key)
		f.mu.Unlock()
		return "", false
	}
	return e.value, true
}

func (f *FileServiceClient) cacheSet(key, value string, ttl time.Duration) {
	f.mu.Lock()
	f.cache[key] = cacheEntry{value: value, expiresAt: time.Now().Add(ttl)}
	f.mu.Unlock()
}
