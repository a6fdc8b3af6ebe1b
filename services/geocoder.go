package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/HSouheill/fieldtrack_backend/logging"
	"github.com/HSouheill/fieldtrack_backend/metrics"
	"github.com/HSouheill/fieldtrack_backend/models"
)

// LocationNotAvailable is returned for the 0,0 "no fix" position.
const LocationNotAvailable = "Location not available"

// ReverseGeocoder turns coordinates into a human-readable address.
type ReverseGeocoder interface {
	Reverse(ctx context.Context, lat, lng float64) (string, error)
}

// AddressCache is an optional second-level cache shared between replicas.
type AddressCache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, address string, ttl time.Duration)
	Clear(ctx context.Context) error
}

// GeocodeOptions tunes a GeocodeCache. Zero values take the defaults.
type GeocodeOptions struct {
	TTL         time.Duration // default 1h
	Timeout     time.Duration // per upstream call, default 5s
	MinInterval time.Duration // spacing between upstream calls, default 1s
	Shared      AddressCache
	Now         func() time.Time
}

type geocodeEntry struct {
	address   string
	expiresAt time.Time
}

// GeocodeCache resolves addresses through a rate-limited upstream geocoder and
// caches successful answers. Fallback coordinate strings are never cached.
type GeocodeCache struct {
	upstream ReverseGeocoder
	shared   AddressCache
	limiter  *rate.Limiter
	ttl      time.Duration
	timeout  time.Duration
	now      func() time.Time

	mu      sync.RWMutex
	entries map[string]geocodeEntry
}

func NewGeocodeCache(upstream ReverseGeocoder, opts GeocodeOptions) *GeocodeCache {
	if opts.TTL <= 0 {
		opts.TTL = time.Hour
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	if opts.MinInterval <= 0 {
		opts.MinInterval = time.Second
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &GeocodeCache{
		upstream: upstream,
		shared:   opts.Shared,
		limiter:  rate.NewLimiter(rate.Every(opts.MinInterval), 1),
		ttl:      opts.TTL,
		timeout:  opts.Timeout,
		now:      opts.Now,
		entries:  make(map[string]geocodeEntry),
	}
}

// CoordinateKey rounds a position to 6 decimals (about 10 cm).
func CoordinateKey(lat, lng float64) string {
	return fmt.Sprintf("%.6f,%.6f", lat, lng)
}

// FormatCoordinates is the address used when geocoding fails.
func FormatCoordinates(lat, lng float64) string {
	return fmt.Sprintf("%.6f, %.6f", lat, lng)
}

// Resolve never fails: on upstream trouble it returns the formatted coordinates.
func (g *GeocodeCache) Resolve(ctx context.Context, lat, lng float64) string {
	if lat == 0 && lng == 0 {
		return LocationNotAvailable
	}

	key := CoordinateKey(lat, lng)
	if address, ok := g.lookup(key); ok {
		metrics.GeocodeCacheHits.Inc()
		return address
	}
	if g.shared != nil {
		if address, ok := g.shared.Get(ctx, key); ok {
			metrics.GeocodeCacheHits.Inc()
			g.store(key, address)
			return address
		}
	}
	metrics.GeocodeCacheMisses.Inc()

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	if err := g.limiter.Wait(ctx); err != nil {
		return g.fail(lat, lng, err)
	}
	address, err := g.upstream.Reverse(ctx, lat, lng)
	if err == nil && address == "" {
		err = fmt.Errorf("empty address")
	}
	if err != nil {
		return g.fail(lat, lng, err)
	}

	g.store(key, address)
	if g.shared != nil {
		g.shared.Set(ctx, key, address, g.ttl)
	}
	return address
}

// Fill sets loc.Address when the client sent only coordinates.
func (g *GeocodeCache) Fill(ctx context.Context, loc *models.Location) {
	if loc == nil || loc.Address != "" {
		return
	}
	loc.Address = g.Resolve(ctx, loc.Lat, loc.Lng)
}

// Clear drops every cached address, including the shared cache.
func (g *GeocodeCache) Clear(ctx context.Context) {
	g.mu.Lock()
	g.entries = make(map[string]geocodeEntry)
	g.mu.Unlock()

	if g.shared != nil {
		if err := g.shared.Clear(ctx); err != nil {
			logging.Warn().Err(err).Msg("clearing shared geocode cache failed")
		}
	}
}

// Len is the number of locally cached addresses, expired ones included.
func (g *GeocodeCache) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.entries)
}

func (g *GeocodeCache) lookup(key string) (string, bool) {
	g.mu.RLock()
	entry, ok := g.entries[key]
	g.mu.RUnlock()

	if !ok {
		return "", false
	}
	if !g.now().Before(entry.expiresAt) {
		g.mu.Lock()
		delete(g.entries, key)
		g.mu.Unlock()
		return "", false
	}
	return entry.address, true
}

func (g *GeocodeCache) store(key, address string) {
	g.mu.Lock()
	g.entries[key] = geocodeEntry{address: address, expiresAt: g.now().Add(g.ttl)}
	g.mu.Unlock()
}

func (g *GeocodeCache) fail(lat, lng float64, err error) string {
	metrics.GeocodeFailures.Inc()
	logging.Warn().Err(err).Float64("lat", lat).Float64("lng", lng).Msg("reverse geocoding failed, using coordinates")
	return FormatCoordinates(lat, lng)
}
