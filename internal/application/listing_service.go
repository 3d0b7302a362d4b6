package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/bhudevswayam/service-app/internal/domain/entity"
	repo "github.com/bhudevswayam/service-app/internal/domain/repository"
	"github.com/bhudevswayam/service-app/internal/infrastructure/metrics"
	"github.com/bhudevswayam/service-app/pkg/apperr"
	"github.com/bhudevswayam/service-app/pkg/helpers"
)

// ErrImageStorageDisabled is returned by UploadImage when no bucket is configured.
var ErrImageStorageDisabled = apperr.New(apperr.KindStoreUnavailable, "image storage is not configured")

// ListingService manages business listings. Owner and tenant always come from
// the verified identity, never from input.
type ListingService struct {
	Listings  repo.ListingRepository
	ES        *elasticsearch.Client
	ESIndex   string
	GCS       *storage.Client
	GCSBucket string
	Logger    *logrus.Logger
}

func NewListingService(listings repo.ListingRepository, es *elasticsearch.Client, esIndex string, gcs *storage.Client, gcsBucket string, logger *logrus.Logger) *ListingService {
	return &ListingService{
		Listings:  listings,
		ES:        es,
		ESIndex:   esIndex,
		GCS:       gcs,
		GCSBucket: gcsBucket,
		Logger:    logger,
	}
}

// ListingInput is the editable part of a listing. Nil pointers leave the
// current value untouched on update.
type ListingInput struct {
	Name          *string
	Category      *string
	Description   *string
	AddressLine1  *string
	AddressLine2  *string
	City          *string
	State         *string
	ZipCode       *string
	PhoneNumber   *string
	Email         *string
	PriceRange    *string
	BusinessHours *string
	Active        *bool
}

func (in ListingInput) apply(l *entity.Listing) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	set(&l.Name, in.Name)
	set(&l.Category, in.Category)
	set(&l.Description, in.Description)
	set(&l.AddressLine1, in.AddressLine1)
	set(&l.AddressLine2, in.AddressLine2)
	set(&l.City, in.City)
	set(&l.State, in.State)
	set(&l.ZipCode, in.ZipCode)
	set(&l.PhoneNumber, in.PhoneNumber)
	set(&l.Email, in.Email)
	set(&l.PriceRange, in.PriceRange)
	set(&l.BusinessHours, in.BusinessHours)
	if in.Active != nil {
		l.Active = *in.Active
	}
}

type SearchQuery struct {
	Text     string
	Category string
	City     string
	Size     int
}

func (s *ListingService) Create(ctx context.Context, id entity.Identity, in ListingInput) (*entity.Listing, error) {
	if id.Role != entity.RoleBusiness {
		return nil, apperr.ErrForbidden
	}
	l := &entity.Listing{
		ID:       uuid.NewString(),
		TenantID: id.TenantID,
		OwnerID:  id.UserID,
		Active:   true,
	}
	in.apply(l)
	if l.Name == "" {
		return nil, apperr.New(apperr.KindValidation, "name is required")
	}
	if err := s.Listings.Create(ctx, l); err != nil {
		metrics.ObserveListingMutation("create", string(apperr.KindOf(err)))
		return nil, err
	}
	metrics.ObserveListingMutation("create", "ok")
	_ = s.indexListing(ctx, l)
	return l, nil
}

// Get returns a listing in the caller's tenant. Inactive listings are visible
// only to their owner.
func (s *ListingService) Get(ctx context.Context, id entity.Identity, listingID string) (*entity.Listing, error) {
	l, err := s.load(ctx, id.TenantID, listingID)
	if err != nil {
		return nil, err
	}
	if !l.Active && l.OwnerID != id.UserID {
		return nil, apperr.ErrNotFound
	}
	return l, nil
}

// List returns the tenant's active listings, optionally only one business's.
// A business listing its own services also sees inactive ones.
func (s *ListingService) List(ctx context.Context, id entity.Identity, businessID string) ([]*entity.Listing, error) {
	f := entity.ListingFilter{OwnerID: businessID}
	if businessID != "" && businessID == id.UserID {
		f.IncludeInactive = true
	}
	return s.Listings.List(ctx, id.TenantID, f)
}

func (s *ListingService) Update(ctx context.Context, id entity.Identity, listingID string, in ListingInput) (*entity.Listing, error) {
	l, err := s.loadOwned(ctx, id, listingID)
	if err != nil {
		return nil, err
	}
	in.apply(l)
	if l.Name == "" {
		return nil, apperr.New(apperr.KindValidation, "name is required")
	}
	if err := s.Listings.Update(ctx, l); err != nil {
		metrics.ObserveListingMutation("update", string(apperr.KindOf(err)))
		return nil, err
	}
	metrics.ObserveListingMutation("update", "ok")
	_ = s.indexListing(ctx, l)
	return l, nil
}

// Delete soft-deletes one listing owned by the caller.
func (s *ListingService) Delete(ctx context.Context, id entity.Identity, listingID string) error {
	_, err := s.BulkDelete(ctx, id, []string{listingID})
	return err
}

// BulkDelete soft-deletes every listed id. All ids must exist in the tenant
// and belong to the caller, otherwise nothing is changed.
func (s *ListingService) BulkDelete(ctx context.Context, id entity.Identity, ids []string) (int64, error) {
	owned := make([]*entity.Listing, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, lid := range ids {
		if _, dup := seen[lid]; dup {
			continue
		}
		seen[lid] = struct{}{}
		l, err := s.loadOwned(ctx, id, lid)
		if err != nil {
			return 0, err
		}
		owned = append(owned, l)
	}
	keys := make([]string, 0, len(owned))
	for _, l := range owned {
		keys = append(keys, l.ID)
	}
	n, err := s.Listings.Deactivate(ctx, id.TenantID, id.UserID, keys)
	if err != nil {
		metrics.ObserveListingMutation("deactivate", string(apperr.KindOf(err)))
		return 0, err
	}
	metrics.ObserveListingMutation("deactivate", "ok")
	for _, l := range owned {
		l.Active = false
		_ = s.indexListing(ctx, l)
	}
	return n, nil
}

// ErrNotAnImage rejects uploads whose bytes are not a supported image.
var ErrNotAnImage = apperr.New(apperr.KindValidation, "file must be a jpeg, png, gif or webp image")

// UploadImage stores an image in GCS and points the listing at it. The
// content type is sniffed from the data; whatever the client declared is
// not trusted.
func (s *ListingService) UploadImage(ctx context.Context, id entity.Identity, listingID string, r io.Reader, filename string) (*entity.Listing, error) {
	if s.GCS == nil || s.GCSBucket == "" {
		return nil, ErrImageStorageDisabled
	}
	l, err := s.loadOwned(ctx, id, listingID)
	if err != nil {
		return nil, err
	}
	contentType, r, err := helpers.SniffImage(r)
	if err != nil {
		if errors.Is(err, helpers.ErrNotAnImage) {
			return nil, ErrNotAnImage
		}
		return nil, apperr.Wrap(apperr.KindValidation, "could not read upload", err)
	}
	objectPath := helpers.ListingImageObject(l.TenantID, l.ID, filename)
	url, err := helpers.UploadObject(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStoreUnavailable, "image upload failed", err)
	}
	previous := l.ImageURL
	l.ImageURL = url
	if err := s.Listings.Update(ctx, l); err != nil {
		_ = helpers.DeleteObject(ctx, s.GCS, s.GCSBucket, objectPath)
		return nil, err
	}
	if old, ok := helpers.ObjectFromPublicURL(s.GCSBucket, previous); ok {
		if err := helpers.DeleteObject(ctx, s.GCS, s.GCSBucket, old); err != nil {
			helpers.LogWarn(s.Logger, "old listing image not removed", err, logrus.Fields{"listing_id": l.ID, "object": old})
		}
	}
	_ = s.indexListing(ctx, l)
	return l, nil
}

// Search filters the tenant's active listings. Results are ordered by
// creation time, newest first; there is no relevance ranking.
func (s *ListingService) Search(ctx context.Context, id entity.Identity, q SearchQuery) ([]*entity.Listing, error) {
	if q.Size <= 0 || q.Size > 50 {
		q.Size = 20
	}
	if s.ES == nil || s.ESIndex == "" {
		return s.searchStore(ctx, id, q)
	}
	ids, err := s.searchIndex(ctx, id.TenantID, q)
	if err != nil {
		helpers.LogWarn(s.Logger, "es search failed, falling back to store", err, logrus.Fields{"tenant_id": id.TenantID})
		return s.searchStore(ctx, id, q)
	}
	out := make([]*entity.Listing, 0, len(ids))
	for _, lid := range ids {
		l, err := s.Listings.GetByID(ctx, id.TenantID, lid)
		if errors.Is(err, apperr.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if l.Active {
			out = append(out, l)
		}
	}
	return out, nil
}

func (s *ListingService) searchStore(ctx context.Context, id entity.Identity, q SearchQuery) ([]*entity.Listing, error) {
	all, err := s.Listings.List(ctx, id.TenantID, entity.ListingFilter{})
	if err != nil {
		return nil, err
	}
	text := strings.ToLower(strings.TrimSpace(q.Text))
	out := make([]*entity.Listing, 0)
	for _, l := range all {
		if q.Category != "" && !strings.EqualFold(l.Category, q.Category) {
			continue
		}
		if q.City != "" && !strings.EqualFold(l.City, q.City) {
			continue
		}
		if text != "" && !strings.Contains(strings.ToLower(l.Name+" "+l.Description), text) {
			continue
		}
		out = append(out, l)
		if len(out) == q.Size {
			break
		}
	}
	return out, nil
}

func (s *ListingService) load(ctx context.Context, tenantID, listingID string) (*entity.Listing, error) {
	if _, err := uuid.Parse(listingID); err != nil {
		return nil, apperr.ErrNotFound
	}
	return s.Listings.GetByID(ctx, tenantID, listingID)
}

func (s *ListingService) loadOwned(ctx context.Context, id entity.Identity, listingID string) (*entity.Listing, error) {
	if id.Role != entity.RoleBusiness {
		return nil, apperr.ErrForbidden
	}
	l, err := s.load(ctx, id.TenantID, listingID)
	if err != nil {
		return nil, err
	}
	if l.OwnerID != id.UserID {
		return nil, apperr.ErrForbidden
	}
	return l, nil
}

// listingIndexBody creates the index with keyword fields for exact filters.
const listingIndexBody = `{
  "settings": {"analysis": {"normalizer": {"lower": {"type": "custom", "filter": ["lowercase"]}}}},
  "mappings": {"properties": {
    "id":          {"type": "keyword"},
    "tenantId":    {"type": "keyword"},
    "ownerId":     {"type": "keyword"},
    "name":        {"type": "text"},
    "description": {"type": "text"},
    "category":    {"type": "keyword", "normalizer": "lower"},
    "city":        {"type": "keyword", "normalizer": "lower"},
    "state":       {"type": "keyword", "normalizer": "lower"},
    "zipCode":     {"type": "keyword"},
    "priceRange":  {"type": "keyword"},
    "active":      {"type": "boolean"},
    "createdAt":   {"type": "date"}
  }}
}`

// EnsureIndex creates the listing index when it does not exist yet.
func (s *ListingService) EnsureIndex(ctx context.Context) error {
	if s.ES == nil || s.ESIndex == "" {
		return nil
	}
	c, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	exists, err := esapi.IndicesExistsRequest{Index: []string{s.ESIndex}}.Do(c, s.ES)
	if err != nil {
		return err
	}
	_ = exists.Body.Close()
	if exists.StatusCode == 200 {
		return nil
	}
	res, err := esapi.IndicesCreateRequest{Index: s.ESIndex, Body: strings.NewReader(listingIndexBody)}.Do(c, s.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("create index %s: %s", s.ESIndex, res.Status())
	}
	return nil
}

func listingDocument(l *entity.Listing) map[string]any {
	return map[string]any{
		"id":          l.ID,
		"tenantId":    l.TenantID,
		"ownerId":     l.OwnerID,
		"name":        l.Name,
		"description": l.Description,
		"category":    l.Category,
		"city":        l.City,
		"state":       l.State,
		"zipCode":     l.ZipCode,
		"priceRange":  l.PriceRange,
		"active":      l.Active,
		"createdAt":   l.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func (s *ListingService) indexListing(ctx context.Context, l *entity.Listing) error {
	if s.ES == nil || s.ESIndex == "" {
		return nil
	}
	b, _ := json.Marshal(listingDocument(l))
	req := esapi.IndexRequest{Index: s.ESIndex, DocumentID: l.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		helpers.LogWarn(s.Logger, "es index failed", err, logrus.Fields{"listing_id": l.ID})
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("listing_id", l.ID).Warn("es index response error")
	}
	return nil
}

// buildSearchQuery puts every clause in filter context so nothing is scored.
func buildSearchQuery(tenantID string, q SearchQuery) map[string]any {
	filters := []any{
		map[string]any{"term": map[string]any{"tenantId": tenantID}},
		map[string]any{"term": map[string]any{"active": true}},
	}
	if c := strings.TrimSpace(q.Category); c != "" {
		filters = append(filters, map[string]any{"term": map[string]any{"category": c}})
	}
	if c := strings.TrimSpace(q.City); c != "" {
		filters = append(filters, map[string]any{"term": map[string]any{"city": c}})
	}
	if t := strings.TrimSpace(q.Text); t != "" {
		filters = append(filters, map[string]any{"multi_match": map[string]any{
			"query":    t,
			"fields":   []string{"name", "description"},
			"operator": "and",
		}})
	}
	return map[string]any{
		"query":   map[string]any{"bool": map[string]any{"filter": filters}},
		"sort":    []any{map[string]any{"createdAt": map[string]any{"order": "desc"}}},
		"size":    q.Size,
		"_source": []string{"id"},
	}
}

func (s *ListingService) searchIndex(ctx context.Context, tenantID string, q SearchQuery) ([]string, error) {
	b, _ := json.Marshal(buildSearchQuery(tenantID, q))

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(s.ES.Search.WithContext(c), s.ES.Search.WithIndex(s.ESIndex), s.ES.Search.WithBody(strings.NewReader(string(b))))
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, fmt.Errorf("es search: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	out := make([]string, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.ID)
	}
	return out, nil
}
