package services

import (
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	cache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"

	"spendlens/backend/models"
)

// MetadataTTL is how long fetched place metadata stays valid. Place data
// is public and changes rarely, so the cache is shared across users.
const MetadataTTL = time.Hour

const defaultPlacesURL = "https://maps.googleapis.com/maps/api/place/findplacefromtext/json"

// NewMetadataCache creates the shared merchant metadata cache.
func NewMetadataCache(ttl time.Duration) *cache.Cache {
	return cache.New(ttl, 10*time.Minute)
}

// PlacesClient looks up merchant metadata through the place-search API,
// caching results by normalized merchant name.
type PlacesClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
	cache   *cache.Cache
}

// NewPlacesClient builds a client around the given metadata cache. An
// empty baseURL falls back to the Google Places find-place endpoint.
func NewPlacesClient(baseURL, apiKey string, c *cache.Cache) *PlacesClient {
	if baseURL == "" {
		baseURL = defaultPlacesURL
	}
	return &PlacesClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 30 * time.Second},
		cache:   c,
	}
}

type findPlaceResponse struct {
	Candidates []models.PlaceDetails `json:"candidates"`
	Status     string                `json:"status"`
}

// Lookup resolves metadata for a normalized merchant name, serving from
// the cache when a fresh entry exists. Lookup never fails: any transport,
// HTTP or decode problem degrades to empty metadata so an import is never
// aborted by the enrichment side. The empty result is cached too, to avoid
// hammering the API for merchants it does not know.
func (p *PlacesClient) Lookup(merchant string) models.PlaceDetails {
	if cached, found := p.cache.Get(merchant); found {
		return cached.(models.PlaceDetails)
	}

	details := p.fetch(merchant)
	p.cache.Set(merchant, details, cache.DefaultExpiration)
	return details
}

func (p *PlacesClient) fetch(merchant string) models.PlaceDetails {
	params := url.Values{}
	params.Set("input", merchant)
	params.Set("inputtype", "textquery")
	params.Set("fields", "place_id,name,types,geometry,price_level")
	params.Set("key", p.apiKey)

	resp, err := p.client.Get(p.baseURL + "?" + params.Encode())
	if err != nil {
		// Failed lookups and missing candidates look the same to the
		// pipeline; log the cause so they stay distinguishable.
		log.Warn().Err(err).Str("merchant", merchant).Msg("Place lookup request failed")
		return models.PlaceDetails{}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Warn().Int("status", resp.StatusCode).Str("merchant", merchant).
			Msg("Place lookup returned non-OK status")
		return models.PlaceDetails{}
	}

	var response findPlaceResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		log.Warn().Err(err).Str("merchant", merchant).Msg("Failed to decode place lookup response")
		return models.PlaceDetails{}
	}

	if len(response.Candidates) == 0 {
		log.Debug().Str("merchant", merchant).Str("status", response.Status).
			Msg("No place candidates for merchant")
		return models.PlaceDetails{}
	}

	// Use the best (first) candidate
	return response.Candidates[0]
}
