package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/textproto"
	"path"

	"github.com/rs/zerolog"

	"shopfront/internal/ids"
	"shopfront/internal/media"
	"shopfront/internal/models"
	"shopfront/internal/repository"
)

type ImageStore interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	Remove(ctx context.Context, key string) error
	PublicURL(key string) string
}

type ProductImages interface {
	GetByID(ctx context.Context, id string) (models.Product, error)
	SetImage(ctx context.Context, id string, url string) error
}

type ImageUpload struct {
	ProductID string
	File      io.Reader
	Header    textproto.MIMEHeader
}

type MediaService struct {
	products ProductImages
	store    ImageStore
	maxBytes int64
	log      zerolog.Logger
}

func NewMediaService(products ProductImages, store ImageStore, maxBytes int64, log zerolog.Logger) *MediaService {
	return &MediaService{products: products, store: store, maxBytes: maxBytes, log: log}
}

// UploadProductImage stores the image under a fresh key and points the
// product at it. Returns the public URL.
func (s *MediaService) UploadProductImage(ctx context.Context, input ImageUpload) (string, error) {
	if input.File == nil {
		return "", validation("Image file is required")
	}
	if _, err := s.products.GetByID(ctx, input.ProductID); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return "", notFound("Product not found")
		}
		return "", err
	}

	data, err := io.ReadAll(io.LimitReader(input.File, s.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	if len(data) == 0 {
		return "", validation("Image file is empty")
	}
	if int64(len(data)) > s.maxBytes {
		return "", validation("Image exceeds %d bytes", s.maxBytes)
	}

	detected, err := media.Sniff(data)
	if err != nil {
		return "", validation("Unsupported image format")
	}
	if declared := media.DeclaredType(input.Header); declared != "" && declared != detected.ContentType {
		return "", validation("Content type mismatch: declared %s, actual %s", declared, detected.ContentType)
	}

	if detected.Format == media.FormatSVG {
		if data, err = media.SanitizeSVG(data); err != nil {
			return "", validation("Invalid SVG document")
		}
	}

	key := path.Join("products", input.ProductID, ids.New()+"."+detected.Extension())
	if err := s.store.Put(ctx, key, bytes.NewReader(data), int64(len(data)), detected.ContentType); err != nil {
		return "", err
	}

	url := s.store.PublicURL(key)
	if err := s.products.SetImage(ctx, input.ProductID, url); err != nil {
		if rmErr := s.store.Remove(ctx, key); rmErr != nil {
			s.log.Warn().Err(rmErr).Str("key", key).Msg("remove orphaned image failed")
		}
		return "", err
	}
	return url, nil
}
