package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GridFSAssetStore keeps floor maps in a GridFS bucket inside the same Mongo
// deployment. Nothing touches local disk, so the process stays freely
// horizontally scalable; maps are streamed back out through the router's
// /uploads/floor-maps handler.
type GridFSAssetStore struct {
	bucket  *gridfs.Bucket
	baseURL string
}

func NewGridFSAssetStore(db *mongo.Database, baseURL string) (*GridFSAssetStore, error) {
	bucket, err := gridfs.NewBucket(db, options.GridFSBucket().SetName("floor-maps"))
	if err != nil {
		return nil, fmt.Errorf("open gridfs bucket: %w", err)
	}
	return &GridFSAssetStore{bucket: bucket, baseURL: baseURL}, nil
}

func (s *GridFSAssetStore) Save(ctx context.Context, name string, data []byte) (string, error) {
	opts := options.GridFSUpload().SetMetadata(bson.M{"contentType": "image/jpeg"})
	if _, err := s.bucket.UploadFromStream(name, bytes.NewReader(data), opts); err != nil {
		return "", fmt.Errorf("gridfs upload: %w", err)
	}
	return publicMapURL(s.baseURL, name), nil
}

// Open returns a reader over a previously stored floor map.
func (s *GridFSAssetStore) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	stream, err := s.bucket.OpenDownloadStreamByName(name)
	if err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return nil, ErrAssetNotFound
		}
		return nil, fmt.Errorf("gridfs open %s: %w", name, err)
	}
	return stream, nil
}
