package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tablekeep/tablekeep/internal/api/validate"
	"github.com/tablekeep/tablekeep/internal/model"
	"github.com/tablekeep/tablekeep/internal/objstore"
	"github.com/tablekeep/tablekeep/internal/store"
)

// Blobs is the object storage used for map files.
type Blobs interface {
	Put(ctx context.Context, key string, r io.Reader, contentType string) (int64, error)
	Get(ctx context.Context, key string) (*objstore.Object, error)
	Delete(ctx context.Context, key string) error
	URL(key, mapID string) string
}

// Upload describes an incoming map file.
type Upload = model.MapUpload

type MapService struct {
	store store.Store
	blobs Blobs
	log   zerolog.Logger
	now   Clock
}

func NewMapService(s store.Store, b Blobs, log zerolog.Logger) *MapService {
	return &MapService{store: s, blobs: b, log: log, now: time.Now}
}

// UploadMap stores the file under <userID>/<millis><ext> and then records it.
// The blob is removed again when the record cannot be written.
func (s *MapService) UploadMap(ctx context.Context, userID string, u Upload) (*model.CampaignMap, error) {
	if err := validate.CreateMap(u.CampaignID, u.Title); err != nil {
		return nil, err
	}
	if u.Body == nil {
		return nil, fmt.Errorf("%w: file is required", model.ErrValidation)
	}
	if err := requireCampaign(ctx, s.store, userID, u.CampaignID); err != nil {
		return nil, err
	}

	id := uuid.New().String()
	key := objstore.KeyFor(userID, u.Filename, s.now())
	size, err := s.blobs.Put(ctx, key, u.Body, u.ContentType)
	if err != nil {
		return nil, fmt.Errorf("store map file: %w", err)
	}

	m, err := s.store.Maps().Create(ctx, &model.CampaignMap{
		ID:          id,
		UserID:      userID,
		CampaignID:  u.CampaignID,
		Title:       u.Title,
		Description: u.Description,
		FileURL:     s.blobs.URL(key, id),
		FileKey:     key,
		FileType:    u.ContentType,
		FileSize:    size,
	})
	if err != nil {
		if derr := s.blobs.Delete(ctx, key); derr != nil {
			s.log.Error().Err(derr).Str("file_key", key).Msg("orphaned map file")
		}
		return nil, err
	}
	return m, nil
}

func (s *MapService) ListMaps(ctx context.Context, userID string) ([]*model.CampaignMap, error) {
	return s.store.Maps().List(ctx, userID)
}

// OpenMap returns the record and an open reader over its file.
func (s *MapService) OpenMap(ctx context.Context, userID, mapID string) (*model.CampaignMap, *objstore.Object, error) {
	m, err := s.store.Maps().Get(ctx, userID, mapID)
	if err != nil {
		return nil, nil, err
	}
	obj, err := s.blobs.Get(ctx, m.FileKey)
	if err != nil {
		return nil, nil, err
	}
	return m, obj, nil
}

// DeleteMap removes the file first, then the record.
func (s *MapService) DeleteMap(ctx context.Context, userID, mapID string) error {
	m, err := s.store.Maps().Get(ctx, userID, mapID)
	if err != nil {
		return err
	}
	if err := s.blobs.Delete(ctx, m.FileKey); err != nil {
		return fmt.Errorf("delete map file: %w", err)
	}
	return s.store.Maps().Delete(ctx, userID, mapID)
}
