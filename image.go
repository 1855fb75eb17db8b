package main

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/disintegration/imaging"
	lru "github.com/hashicorp/golang-lru/v2"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// LoadedImage is a decoded image ready for display.
type LoadedImage struct {
	Path ImagePath
	// Original is the decoded image, orientation applied, alpha intact.
	Original image.Image
	// Display is Original flattened onto the background color.
	Display *image.NRGBA
}

// Width returns the natural pixel width.
func (l *LoadedImage) Width() int {
	return l.Display.Bounds().Dx()
}

// Height returns the natural pixel height.
func (l *LoadedImage) Height() int {
	return l.Display.Bounds().Dy()
}

// ImageLoadFailure reports that an image could not be opened or decoded.
type ImageLoadFailure struct {
	Path  string
	Cause error
}

func (e *ImageLoadFailure) Error() string {
	return fmt.Sprintf("failed to read image from path '%s': %v", e.Path, e.Cause)
}

func (e *ImageLoadFailure) Unwrap() error {
	return e.Cause
}

// Decoder decodes the image at a path.
type Decoder func(p ImagePath) (image.Image, error)

// decodeImage decodes a file or archive entry, applying EXIF orientation.
func decodeImage(p ImagePath) (image.Image, error) {
	if !p.InArchive() {
		return imaging.Open(p.Path, imaging.AutoOrientation(true))
	}
	data, err := readArchiveEntry(p)
	if err != nil {
		return nil, err
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", p.EntryPath, err)
	}
	return img, nil
}

// NavigationDirection represents the direction of navigation
type NavigationDirection int

const (
	NavigationForward NavigationDirection = iota
	NavigationBackward
	NavigationJump
)

// LoadResult is a completed asynchronous load.
type LoadResult struct {
	Seq   uint64
	Path  ImagePath
	Image *LoadedImage
	Err   error
}

// ImageManagerConfig configures an ImageManager.
type ImageManagerConfig struct {
	CacheSize      int
	Background     Color
	PreloadEnabled bool
	PreloadCount   int
	// Decoder overrides decodeImage, mainly for tests.
	Decoder Decoder
}

// ImageManager decodes images, caches them by path and runs loads off the
// UI goroutine. Every Request gets a sequence number; Poll drops results
// that are not newer than the last one it handed out.
type ImageManager struct {
	cache      *lru.Cache[string, *LoadedImage]
	background Color
	decode     Decoder

	ctx     context.Context
	cancel  context.CancelFunc
	results chan LoadResult
	seq     atomic.Uint64

	// committed is only touched by the goroutine calling Poll.
	committed uint64

	preloadManager *PreloadManager
}

// NewImageManager creates an ImageManager and starts its preload worker.
func NewImageManager(cfg ImageManagerConfig) *ImageManager {
	cacheSize := cfg.CacheSize
	if cacheSize <= 0 {
		cacheSize = 16
	}
	cache, err := lru.New[string, *LoadedImage](cacheSize)
	if err != nil {
		log.Printf("Error: Failed to create LRU cache: %v", err)
		cache, _ = lru.New[string, *LoadedImage](16)
	}

	decode := cfg.Decoder
	if decode == nil {
		decode = decodeImage
	}

	ctx, cancel := context.WithCancel(context.Background())
	m := &ImageManager{
		cache:      cache,
		background: cfg.Background,
		decode:     decode,
		ctx:        ctx,
		cancel:     cancel,
		results:    make(chan LoadResult, 8),
	}

	m.preloadManager = NewPreloadManager(m, cfg.PreloadCount)
	m.preloadManager.SetEnabled(cfg.PreloadEnabled)
	return m
}

// Load returns the image at p, from the cache when possible.
func (m *ImageManager) Load(ctx context.Context, p ImagePath) (*LoadedImage, error) {
	if img, ok := m.cache.Get(p.Path); ok {
		debugLog("Cache HIT: %s (cache: %d items)", p.Path, m.cache.Len())
		return img, nil
	}

	original, err := m.decode(p)
	if err != nil {
		return nil, &ImageLoadFailure{Path: p.Path, Cause: err}
	}

	display := imaging.Clone(original)
	if err := FlattenTransparency(ctx, m.background, display); err != nil {
		return nil, &ImageLoadFailure{Path: p.Path, Cause: err}
	}

	img := &LoadedImage{Path: p, Original: original, Display: display}
	m.cache.Add(p.Path, img)

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	debugLog("Cache MISS: %s, loaded and cached (cache: %d items, memory: %dMB)",
		p.Path, m.cache.Len(), mem.Alloc/1024/1024)
	return img, nil
}

// Cached reports whether p is in the cache without touching its recency.
func (m *ImageManager) Cached(p ImagePath) bool {
	return m.cache.Contains(p.Path)
}

// Request starts loading p in the background and returns its sequence number.
func (m *ImageManager) Request(p ImagePath) uint64 {
	seq := m.seq.Add(1)
	go func() {
		img, err := m.Load(m.ctx, p)
		select {
		case m.results <- LoadResult{Seq: seq, Path: p, Image: img, Err: err}:
		case <-m.ctx.Done():
		}
	}()
	return seq
}

// Poll returns the next completed load, if any. Results older than the last
// returned one are discarded.
func (m *ImageManager) Poll() (LoadResult, bool) {
	for {
		select {
		case r := <-m.results:
			if r.Seq <= m.committed {
				debugLog("Discarding stale load #%d of %s", r.Seq, r.Path.Path)
				continue
			}
			m.committed = r.Seq
			return r, true
		default:
			return LoadResult{}, false
		}
	}
}

// Preload warms the cache around paths[current].
func (m *ImageManager) Preload(paths []ImagePath, current int, direction NavigationDirection) {
	m.preloadManager.StartPreload(paths, current, direction)
}

// PreloadStats returns the preload worker's counters.
func (m *ImageManager) PreloadStats() PreloadStats {
	return m.preloadManager.GetStats()
}

// Stop cancels pending loads and the preload worker.
func (m *ImageManager) Stop() {
	m.preloadManager.Stop()
	m.cancel()
}

// PreloadRequest represents a request to preload an image
type PreloadRequest struct {
	Paths     []ImagePath
	Index     int
	Direction NavigationDirection
}

// PreloadStats provides statistics about preloading
type PreloadStats struct {
	QueueSize     int
	LoadedCount   int
	FailedCount   int
	LastDirection NavigationDirection
}

// PreloadManager manages asynchronous image preloading
type PreloadManager struct {
	requestChan  chan PreloadRequest
	ctx          context.Context
	cancel       context.CancelFunc
	imageManager *ImageManager
	mu           sync.RWMutex
	stats        PreloadStats
	maxPreload   int
	enabled      bool
	done         chan struct{}
}

// NewPreloadManager creates a new PreloadManager
func NewPreloadManager(imageManager *ImageManager, maxPreload int) *PreloadManager {
	ctx, cancel := context.WithCancel(context.Background())
	pm := &PreloadManager{
		requestChan:  make(chan PreloadRequest, 100),
		ctx:          ctx,
		cancel:       cancel,
		imageManager: imageManager,
		maxPreload:   maxPreload,
		enabled:      true,
		done:         make(chan struct{}),
	}

	go pm.worker()

	return pm
}

// SetEnabled enables or disables preloading
func (pm *PreloadManager) SetEnabled(enabled bool) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.enabled = enabled
}

// IsEnabled returns whether preloading is enabled
func (pm *PreloadManager) IsEnabled() bool {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	return pm.enabled
}

// GetStats returns current preload statistics
func (pm *PreloadManager) GetStats() PreloadStats {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	stats := pm.stats
	stats.QueueSize = len(pm.requestChan)
	return stats
}

// Stop stops the preload manager and waits for the worker to exit
func (pm *PreloadManager) Stop() {
	pm.cancel()
	<-pm.done
}

// StartPreload replaces any pending request with one around currentIdx.
func (pm *PreloadManager) StartPreload(paths []ImagePath, currentIdx int, direction NavigationDirection) {
	if !pm.IsEnabled() || pm.maxPreload <= 0 || len(paths) < 2 {
		return
	}

drain:
	for {
		select {
		case <-pm.requestChan:
		default:
			break drain
		}
	}

	select {
	case pm.requestChan <- PreloadRequest{Paths: paths, Index: currentIdx, Direction: direction}:
	default:
		debugLog("Preload request channel full, skipping preload request")
	}
}

func (pm *PreloadManager) worker() {
	defer close(pm.done)
	for {
		select {
		case <-pm.ctx.Done():
			return
		case req := <-pm.requestChan:
			if pm.IsEnabled() {
				pm.processPreloadRequest(req)
			}
		}
	}
}

func (pm *PreloadManager) processPreloadRequest(req PreloadRequest) {
	pm.mu.Lock()
	pm.stats.LastDirection = req.Direction
	pm.mu.Unlock()

	for _, idx := range calculatePreloadIndices(req.Index, req.Direction, len(req.Paths), pm.maxPreload) {
		if pm.ctx.Err() != nil {
			return
		}
		pm.preloadImage(req.Paths[idx], idx)
	}
}

// calculatePreloadIndices lists the neighbours of currentIdx to preload,
// wrapping around the ends like navigation does. currentIdx itself and
// duplicates are never included.
func calculatePreloadIndices(currentIdx int, direction NavigationDirection, pathsCount, maxPreload int) []int {
	if pathsCount < 2 {
		return nil
	}
	var offsets []int
	switch direction {
	case NavigationForward:
		for i := 1; i <= maxPreload; i++ {
			offsets = append(offsets, i)
		}
	case NavigationBackward:
		for i := 1; i <= maxPreload; i++ {
			offsets = append(offsets, -i)
		}
	case NavigationJump:
		half := max(maxPreload/2, 1)
		for i := 1; i <= half; i++ {
			offsets = append(offsets, i, -i)
		}
	}

	seen := map[int]bool{wrapIndex(currentIdx, pathsCount): true}
	var indices []int
	for _, off := range offsets {
		idx := wrapIndex(currentIdx+off, pathsCount)
		if seen[idx] {
			continue
		}
		seen[idx] = true
		indices = append(indices, idx)
	}
	return indices
}

func (pm *PreloadManager) preloadImage(p ImagePath, idx int) {
	if pm.imageManager.Cached(p) {
		return
	}

	if _, err := pm.imageManager.Load(pm.ctx, p); err != nil {
		pm.mu.Lock()
		pm.stats.FailedCount++
		pm.mu.Unlock()
		debugLog("Preload failed for [%d] %s: %v", idx+1, p.Path, err)
		return
	}

	pm.mu.Lock()
	pm.stats.LoadedCount++
	pm.mu.Unlock()

	debugLog("Preloaded [%d] %s (cache: %d items)", idx+1, p.Path, pm.imageManager.cache.Len())
}
