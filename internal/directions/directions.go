// Package directions turns the straight legs of a routing decision into road
// paths using the OpenRouteService directions API. A leg the provider cannot
// resolve is drawn as its straight segment.
package directions

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/yusuferdem16/zero-emission/internal/logger"
	"github.com/yusuferdem16/zero-emission/internal/metrics"
	"github.com/yusuferdem16/zero-emission/pkg/geo"
	"github.com/yusuferdem16/zero-emission/pkg/routing"
)

// ErrNoRoute is returned when the provider answers without a usable path.
var ErrNoRoute = errors.New("no route")

// ErrNoAPIKey is returned by Fetch when no API key is configured.
var ErrNoAPIKey = errors.New("missing directions api key")

const directionsPath = "/v2/directions/driving-car/geojson"

// Cache stores resolved paths keyed by leg.
type Cache interface {
	Get(ctx context.Context, key string) ([]geo.Point, bool, error)
	Set(ctx context.Context, key string, path []geo.Point) error
}

// Client calls the directions provider.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	cache   Cache
	log     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithCache sets the path cache.
func WithCache(c Cache) Option {
	return func(cl *Client) { cl.cache = c }
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(cl *Client) { cl.http = h }
}

// WithLogger replaces the logger.
func WithLogger(l *slog.Logger) Option {
	return func(cl *Client) { cl.log = l }
}

// New creates a client for the provider at baseURL.
func New(baseURL, apiKey string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
		log:     logger.L(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type request struct {
	Coordinates  [][2]float64 `json:"coordinates"`
	Preference   string       `json:"preference"`
	Units        string       `json:"units"`
	Geometry     bool         `json:"geometry"`
	Instructions bool         `json:"instructions"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// CacheKey identifies a leg in the cache.
func CacheKey(from, to geo.Point) string {
	return fmt.Sprintf("directions:%.6f,%.6f;%.6f,%.6f", from.Lat, from.Lng, to.Lat, to.Lng)
}

// Fetch returns the driving path from one point to another, first point to
// last.
func (c *Client) Fetch(ctx context.Context, from, to geo.Point) ([]geo.Point, error) {
	key := CacheKey(from, to)
	if c.cache != nil {
		path, ok, err := c.cache.Get(ctx, key)
		if err != nil {
			c.log.Warn("directions_cache_error", "op", "get", "err", err)
		}
		if ok {
			metrics.CacheHitsTotal.Inc()
			return path, nil
		}
		metrics.CacheMissesTotal.Inc()
	}

	if c.apiKey == "" {
		return nil, ErrNoAPIKey
	}

	path, err := c.fetch(ctx, from, to)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, key, path); err != nil {
			c.log.Warn("directions_cache_error", "op", "set", "err", err)
		}
	}
	return path, nil
}

func (c *Client) fetch(ctx context.Context, from, to geo.Point) ([]geo.Point, error) {
	body, err := json.Marshal(request{
		Coordinates:  [][2]float64{{from.Lng, from.Lat}, {to.Lng, to.Lat}},
		Preference:   "recommended",
		Units:        "km",
		Geometry:     true,
		Instructions: false,
	})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+directionsPath, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Accept", "application/json, application/geo+json")

	t0 := time.Now()
	metrics.DirectionsRequestsTotal.Inc()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("directions request: %w", err)
	}
	defer resp.Body.Close()
	metrics.DirectionsDurationMs.Observe(float64(time.Since(t0).Milliseconds()))

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading directions response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		var e errorResponse
		if json.Unmarshal(data, &e) == nil && e.Error.Message != "" {
			return nil, fmt.Errorf("directions: status %d: %s", resp.StatusCode, e.Error.Message)
		}
		return nil, fmt.Errorf("directions: status %d", resp.StatusCode)
	}

	return parsePath(data)
}

// parsePath extracts the first LineString of a GeoJSON FeatureCollection.
func parsePath(data []byte) ([]geo.Point, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("decoding directions response: %w", err)
	}
	if len(fc.Features) == 0 {
		return nil, ErrNoRoute
	}
	ls, ok := fc.Features[0].Geometry.(orb.LineString)
	if !ok || len(ls) < 2 {
		return nil, fmt.Errorf("first feature is %T: %w", fc.Features[0].Geometry, ErrNoRoute)
	}
	path := make([]geo.Point, len(ls))
	for i, p := range ls {
		path[i] = geo.Pt(p.Lat(), p.Lon())
	}
	return path, nil
}

// Path is a leg with the points drawn for it.
type Path struct {
	Leg      routing.Leg `json:"leg"`
	Points   []geo.Point `json:"points"`
	Fallback bool        `json:"fallback"`
}

// Resolve fetches each leg independently. A leg whose fetch fails is drawn
// as the straight segment between its ends and marked Fallback. Only a done
// context stops resolution.
func (c *Client) Resolve(ctx context.Context, legs []routing.Leg) ([]Path, error) {
	paths := make([]Path, 0, len(legs))
	for i, leg := range legs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pts, err := c.Fetch(ctx, leg.From, leg.To)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			if !errors.Is(err, ErrNoAPIKey) {
				c.log.Warn("directions_fallback", "leg", i, "err", err)
			}
			metrics.DirectionsFallbackTotal.Inc()
			paths = append(paths, Path{Leg: leg, Points: []geo.Point{leg.From, leg.To}, Fallback: true})
			continue
		}
		paths = append(paths, Path{Leg: leg, Points: pts})
	}
	return paths, nil
}
