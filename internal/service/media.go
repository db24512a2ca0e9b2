package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/pageza/foodgram/backend/config"
	"github.com/sirupsen/logrus"
)

// ErrMediaNotFound is returned when a media reference points nowhere
var ErrMediaNotFound = fmt.Errorf("media %w", ErrNotFound)

// MediaStore persists binary payloads and hands back opaque references
type MediaStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Get(ctx context.Context, ref string) ([]byte, string, error)
	// Owns reports whether ref was produced by this store
	Owns(ref string) bool
}

// S3MediaStore keeps media in an S3 bucket
type S3MediaStore struct {
	s3Config *config.S3Config
}

// NewS3MediaStore creates a new S3MediaStore
func NewS3MediaStore(s3Config *config.S3Config) *S3MediaStore {
	return &S3MediaStore{s3Config: s3Config}
}

// Put uploads data to S3 and returns the public URL
func (s *S3MediaStore) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	ref := s.s3Config.ObjectURL(key)
	logrus.WithField("ref", ref).Debug("uploaded media to S3")
	return ref, nil
}

// Get downloads the object behind ref
func (s *S3MediaStore) Get(ctx context.Context, ref string) ([]byte, string, error) {
	if !s.Owns(ref) {
		return nil, "", ErrMediaNotFound
	}
	key := strings.TrimPrefix(ref, s.s3Config.ObjectURL(""))

	out, err := s.s3Config.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.s3Config.BucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to download from S3: %w", err)
	}
	defer func() { _ = out.Body.Close() }()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read S3 object: %w", err)
	}
	return data, aws.ToString(out.ContentType), nil
}

// Owns reports whether ref is an object URL of this bucket
func (s *S3MediaStore) Owns(ref string) bool {
	return strings.HasPrefix(ref, s.s3Config.ObjectURL(""))
}

// LocalMediaStore keeps media in a directory on disk
type LocalMediaStore struct {
	dir     string
	baseURL string
}

// NewLocalMediaStore creates a store rooted at dir whose references start
// with baseURL
func NewLocalMediaStore(dir, baseURL string) *LocalMediaStore {
	if baseURL == "" {
		baseURL = "/media"
	}
	return &LocalMediaStore{dir: dir, baseURL: strings.TrimSuffix(baseURL, "/")}
}

// Put writes data below the media directory
func (s *LocalMediaStore) Put(_ context.Context, key string, data []byte, _ string) (string, error) {
	full, err := s.resolve(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("failed to create media directory: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write media file: %w", err)
	}
	return s.baseURL + "/" + key, nil
}

// Get reads the file behind ref
func (s *LocalMediaStore) Get(_ context.Context, ref string) ([]byte, string, error) {
	if !s.Owns(ref) {
		return nil, "", ErrMediaNotFound
	}
	full, err := s.resolve(strings.TrimPrefix(ref, s.baseURL+"/"))
	if err != nil {
		return nil, "", err
	}
	data, err := os.ReadFile(full)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, "", ErrMediaNotFound
		}
		return nil, "", fmt.Errorf("failed to read media file: %w", err)
	}
	return data, mimetype.Detect(data).String(), nil
}

// Owns reports whether ref lives under the store's base URL
func (s *LocalMediaStore) Owns(ref string) bool {
	return strings.HasPrefix(ref, s.baseURL+"/")
}

func (s *LocalMediaStore) resolve(key string) (string, error) {
	clean := path.Clean("/" + key)
	if clean == "/" || strings.Contains(key, "..") {
		return "", ErrMediaNotFound
	}
	return filepath.Join(s.dir, filepath.FromSlash(clean)), nil
}

// ImageService turns base64 image payloads into stored media references
type ImageService struct {
	store MediaStore
}

// NewImageService creates a new ImageService instance
func NewImageService(store MediaStore) *ImageService {
	return &ImageService{store: store}
}

// Store decodes a raw base64 or data URI payload, writes it to the media
// store and returns the reference. References already produced by the
// store are returned unchanged.
func (s *ImageService) Store(ctx context.Context, payload string) (string, error) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return "", newValidationError("image", "this field is required")
	}
	if s.store.Owns(payload) {
		return payload, nil
	}

	data, err := DecodeImage(payload)
	if err != nil {
		return "", err
	}

	mt := mimetype.Detect(data)
	key := fmt.Sprintf("recipes/%s%s", uuid.New().String(), mt.Extension())
	ref, err := s.store.Put(ctx, key, data, mt.String())
	if err != nil {
		return "", fmt.Errorf("failed to store image: %w", err)
	}
	return ref, nil
}

// Open returns the stored bytes and content type of ref
func (s *ImageService) Open(ctx context.Context, ref string) ([]byte, string, error) {
	return s.store.Get(ctx, ref)
}

// DecodeImage decodes raw base64 or a data:<mime>;base64,<data> URI
func DecodeImage(payload string) ([]byte, error) {
	encoded := payload
	if strings.HasPrefix(payload, "data:") {
		_, rest, ok := strings.Cut(payload, ";base64,")
		if !ok {
			return nil, newValidationError("image", "data URI must be base64 encoded")
		}
		encoded = rest
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(encoded)
	}
	if err != nil || len(data) == 0 {
		return nil, newValidationError("image", "must be valid base64 data")
	}
	return data, nil
}
