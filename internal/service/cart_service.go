package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/aircart/api/internal/model"
	"github.com/aircart/api/internal/storage"
	"github.com/aircart/api/internal/store"
)

// CartService is the minimal cart CRUD surface the pipeline and its callers
// need. Tag/artist/type management lives elsewhere.
type CartService struct {
	carts *store.CartStore
	blobs storage.BlobStore
}

func NewCartService(carts *store.CartStore, blobs storage.BlobStore) *CartService {
	return &CartService{
		carts: carts,
		blobs: blobs,
	}
}

// Create inserts an empty cart to upload audio against.
func (s *CartService) Create(ctx context.Context, req *model.CreateCartRequest) (*model.Cart, error) {
	cart := &model.Cart{
		ID:        uuid.New().String(),
		Title:     req.Title,
		Artist:    req.Artist,
		CutID:     req.CutID,
		CreatedAt: time.Now(),
	}
	if err := s.carts.Create(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// Get loads a cart by id.
func (s *CartService) Get(ctx context.Context, id string) (*model.Cart, error) {
	return s.carts.Get(ctx, id)
}

// Delete removes the cart record and its stored audio. The audio and
// compressed blobs are checked independently: either may be absent if the
// pipeline never completed that stage.
func (s *CartService) Delete(ctx context.Context, id string) error {
	if _, err := s.carts.Get(ctx, id); err != nil {
		return err
	}

	for _, key := range []string{storage.AudioPath(id), storage.CompressedPath(id)} {
		ok, err := s.blobs.Exists(ctx, key)
		if err != nil {
			return err
		}
		if ok {
			if err := s.blobs.Delete(ctx, key); err != nil {
				return err
			}
		}
	}

	return s.carts.Delete(ctx, id)
}
