package osrm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/roadbook/roadbook/internal/core/domain"
	"github.com/roadbook/roadbook/internal/pkg/metrics"
)

// Client fetches routes from an OSRM-compatible directions API
// (GET /route/v1/{profile}/{lng,lat;lng,lat}). OSRM itself, Mapbox Directions,
// and self-hosted routers all speak this shape.
type Client struct {
	baseURL     string
	profile     string
	accessToken string
	http        *http.Client
}

// Config holds provider connection settings.
type Config struct {
	BaseURL     string
	Profile     string
	AccessToken string
	Timeout     time.Duration
}

// New creates a directions client.
func New(cfg Config) *Client {
	profile := cfg.Profile
	if profile == "" {
		profile = "driving"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		profile:     profile,
		accessToken: cfg.AccessToken,
		http:        &http.Client{Timeout: timeout},
	}
}

type routeResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Routes  []struct {
		Distance float64 `json:"distance"`
		Duration float64 `json:"duration"`
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"routes"`
}

// FetchRoute requests a road-following route through the given points in
// order. It returns the dense path plus raw distance in meters and duration
// in seconds.
func (c *Client) FetchRoute(ctx context.Context, points []domain.GeoPoint) (domain.Path, float64, float64, error) {
	if len(points) < 2 {
		return nil, 0, 0, fmt.Errorf("%w: need at least 2 points, got %d", domain.ErrInvalidRequest, len(points))
	}
	for i, pt := range points {
		if !pt.Valid() {
			return nil, 0, 0, fmt.Errorf("%w: point %d out of bounds", domain.ErrInvalidRequest, i)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.routeURL(points), nil)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.ProviderRequests.WithLabelValues("error").Inc()
		return nil, 0, 0, fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()
	metrics.ProviderLatency.Observe(time.Since(start).Seconds())

	body, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		metrics.ProviderRequests.WithLabelValues("error").Inc()
		return nil, 0, 0, fmt.Errorf("%w: read response: %v", domain.ErrProviderUnavailable, err)
	}

	if resp.StatusCode >= 500 {
		metrics.ProviderRequests.WithLabelValues("upstream_5xx").Inc()
		return nil, 0, 0, fmt.Errorf("%w: provider returned %d", domain.ErrProviderUnavailable, resp.StatusCode)
	}

	var parsed routeResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		metrics.ProviderRequests.WithLabelValues("error").Inc()
		return nil, 0, 0, fmt.Errorf("%w: malformed response: %v", domain.ErrProviderUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK || parsed.Code != "Ok" {
		return nil, 0, 0, c.mapFailure(resp.StatusCode, parsed)
	}
	if len(parsed.Routes) == 0 {
		metrics.ProviderRequests.WithLabelValues("no_route").Inc()
		return nil, 0, 0, domain.ErrNoRouteFound
	}

	route := parsed.Routes[0]
	path := domain.FromCoordinates(route.Geometry.Coordinates)
	if len(path) < 2 {
		metrics.ProviderRequests.WithLabelValues("no_route").Inc()
		return nil, 0, 0, fmt.Errorf("%w: provider geometry unusable", domain.ErrNoRouteFound)
	}

	metrics.ProviderRequests.WithLabelValues("ok").Inc()
	return path, route.Distance, route.Duration, nil
}

// routeURL builds {base}/route/v1/{profile}/{lng,lat;lng,lat}?... with
// coordinates in provider order (longitude first).
func (c *Client) routeURL(points []domain.GeoPoint) string {
	var sb strings.Builder
	for i, pt := range points {
		if i > 0 {
			sb.WriteByte(';')
		}
		sb.WriteString(strconv.FormatFloat(pt.Lng, 'f', 6, 64))
		sb.WriteByte(',')
		sb.WriteString(strconv.FormatFloat(pt.Lat, 'f', 6, 64))
	}

	q := url.Values{}
	q.Set("overview", "full")
	q.Set("geometries", "geojson")
	if c.accessToken != "" {
		q.Set("access_token", c.accessToken)
	}

	return fmt.Sprintf("%s/route/v1/%s/%s?%s", c.baseURL, c.profile, sb.String(), q.Encode())
}

func (c *Client) mapFailure(status int, parsed routeResponse) error {
	// OSRM reports routing failures with a 200/4xx and a non-Ok code.
	switch parsed.Code {
	case "NoRoute", "NoSegment":
		metrics.ProviderRequests.WithLabelValues("no_route").Inc()
		if parsed.Message != "" {
			return fmt.Errorf("%w: %s", domain.ErrNoRouteFound, parsed.Message)
		}
		return domain.ErrNoRouteFound
	case "InvalidUrl", "InvalidQuery", "InvalidOptions", "InvalidValue", "TooBig":
		metrics.ProviderRequests.WithLabelValues("rejected").Inc()
		return fmt.Errorf("%w: provider rejected request (%s)", domain.ErrInvalidRequest, parsed.Code)
	}
	if status >= 400 && status < 500 {
		metrics.ProviderRequests.WithLabelValues("rejected").Inc()
		return fmt.Errorf("%w: provider returned %d", domain.ErrInvalidRequest, status)
	}
	metrics.ProviderRequests.WithLabelValues("error").Inc()
	return fmt.Errorf("%w: unexpected provider response %q", domain.ErrProviderUnavailable, parsed.Code)
}
