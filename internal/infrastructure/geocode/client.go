package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/eventhub/backend/domain"
	"github.com/eventhub/backend/usecase"
)

// Config holds geocoder provider settings.
type Config struct {
	BaseURL  string
	APIKey   string
	Timeout  time.Duration
	CacheTTL time.Duration
}

// Cache stores raw lookup results keyed by address. A nil cache disables
// caching.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte)
}

// Client resolves addresses against a Yandex-geocoder-shaped HTTP API.
// Every failure mode, transport error, timeout, malformed body, empty
// result, resolves to "nothing found" so a degraded provider can never
// abort the calling workflow.
type Client struct {
	http   *fasthttp.Client
	cfg    Config
	cache  Cache
	logger *zap.Logger
}

func NewClient(cfg Config, cache Cache, logger *zap.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		http:   &fasthttp.Client{},
		cfg:    cfg,
		cache:  cache,
		logger: logger,
	}
}

var _ usecase.Geocoder = (*Client)(nil)

func (c *Client) Geocode(ctx context.Context, address string) (domain.Coordinates, bool) {
	res, err := c.lookup(ctx, address)
	if err != nil {
		c.logger.Warn("geocoding lookup failed", zap.String("address", address), zap.Error(err))
		return domain.Coordinates{}, false
	}
	if !res.HasPoint {
		return domain.Coordinates{}, false
	}
	return domain.Coordinates{Latitude: res.Latitude, Longitude: res.Longitude}, true
}

func (c *Client) Locality(ctx context.Context, address string) (string, bool) {
	res, err := c.lookup(ctx, address)
	if err != nil {
		c.logger.Warn("locality lookup failed", zap.String("address", address), zap.Error(err))
		return "", false
	}
	if res.City == "" {
		return "", false
	}
	return res.City, true
}

type lookupResult struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	HasPoint  bool    `json:"has_point"`
	City      string  `json:"city"`
}

func (c *Client) lookup(ctx context.Context, address string) (*lookupResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := "geo:" + strings.ToLower(strings.TrimSpace(address))
	if c.cache != nil {
		if cached, ok := c.cache.Get(ctx, key); ok {
			var res lookupResult
			if err := json.Unmarshal(cached, &res); err == nil {
				return &res, nil
			}
		}
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(fmt.Sprintf("%s?apikey=%s&format=json&geocode=%s",
		c.cfg.BaseURL, url.QueryEscape(c.cfg.APIKey), url.QueryEscape(address)))
	req.Header.SetMethod(fasthttp.MethodGet)

	if err := c.http.DoTimeout(req, resp, c.cfg.Timeout); err != nil {
		return nil, err
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, fmt.Errorf("geocoder responded with status %d", resp.StatusCode())
	}

	res, err := parseResponse(resp.Body())
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		if payload, err := json.Marshal(res); err == nil {
			c.cache.Set(ctx, key, payload)
		}
	}
	return res, nil
}

type geocodeResponse struct {
	Response struct {
		GeoObjectCollection struct {
			FeatureMember []struct {
				GeoObject struct {
					Point struct {
						Pos string `json:"pos"`
					} `json:"Point"`
					MetaDataProperty struct {
						GeocoderMetaData struct {
							Address struct {
								Components []struct {
									Kind string `json:"kind"`
									Name string `json:"name"`
								} `json:"Components"`
							} `json:"Address"`
						} `json:"GeocoderMetaData"`
					} `json:"metaDataProperty"`
				} `json:"GeoObject"`
			} `json:"featureMember"`
		} `json:"GeoObjectCollection"`
	} `json:"response"`
}

// parseResponse extracts coordinates and the locality component from the
// provider payload. The "pos" field is "longitude latitude".
func parseResponse(body []byte) (*lookupResult, error) {
	var parsed geocodeResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, err
	}

	res := &lookupResult{}
	members := parsed.Response.GeoObjectCollection.FeatureMember
	if len(members) == 0 {
		return res, nil
	}
	obj := members[0].GeoObject

	if parts := strings.Fields(obj.Point.Pos); len(parts) == 2 {
		lon, errLon := strconv.ParseFloat(parts[0], 64)
		lat, errLat := strconv.ParseFloat(parts[1], 64)
		if errLon == nil && errLat == nil {
			res.Longitude = lon
			res.Latitude = lat
			res.HasPoint = true
		}
	}

	for _, comp := range obj.MetaDataProperty.GeocoderMetaData.Address.Components {
		if comp.Kind == "locality" {
			res.City = comp.Name
			break
		}
	}
	return res, nil
}
