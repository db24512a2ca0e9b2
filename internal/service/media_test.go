package service_test

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestDecodeImage(t *testing.T) {
	png, err := base64.StdEncoding.DecodeString(onePixelPNG)
	require.NoError(t, err)

	got, err := service.DecodeImage(onePixelPNG)
	require.NoError(t, err)
	assert.Equal(t, png, got)

	got, err = service.DecodeImage("data:image/png;base64," + onePixelPNG)
	require.NoError(t, err)
	assert.Equal(t, png, got)

	got, err = service.DecodeImage(strings.TrimRight(onePixelPNG, "="))
	require.NoError(t, err)
	assert.Equal(t, png, got)

	for _, bad := range []string{"not base64!", "data:image/png,plain", "data:image/png;base64,"} {
		_, err := service.DecodeImage(bad)
		assertValidationField(t, err, "image")
	}
}

func TestLocalMediaStoreRoundTrip(t *testing.T) {
	store := service.NewLocalMediaStore(t.TempDir(), "/media/")
	images := service.NewImageService(store)
	ctx := context.Background()

	ref, err := images.Store(ctx, "data:image/png;base64,"+onePixelPNG)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ref, "/media/recipes/"))
	assert.True(t, strings.HasSuffix(ref, ".png"))
	assert.True(t, store.Owns(ref))

	data, contentType, err := images.Open(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, "image/png", contentType)
	assert.NotEmpty(t, data)

	again, err := images.Store(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, ref, again)

	_, _, err = store.Get(ctx, "/media/recipes/missing.png")
	assert.ErrorIs(t, err, service.ErrMediaNotFound)
	_, _, err = store.Get(ctx, "/media/../secrets")
	assert.ErrorIs(t, err, service.ErrMediaNotFound)
	_, _, err = store.Get(ctx, "https://elsewhere.example.com/x.png")
	assert.ErrorIs(t, err, service.ErrMediaNotFound)
}

func TestImageServiceStoreUsesDetectedType(t *testing.T) {
	store := &testhelpers.MockMediaStore{}
	store.On("Put", mock.Anything, mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "recipes/") && strings.HasSuffix(key, ".png")
	}), mock.Anything, "image/png").Return("/media/recipes/abc.png", nil).Once()

	ref, err := service.NewImageService(store).Store(context.Background(), onePixelPNG)
	require.NoError(t, err)
	assert.Equal(t, "/media/recipes/abc.png", ref)
	store.AssertExpectations(t)
}

func TestImageServiceStoreFailure(t *testing.T) {
	store := &testhelpers.MockMediaStore{}
	store.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("", errors.New("bucket unavailable"))

	_, err := service.NewImageService(store).Store(context.Background(), onePixelPNG)
	require.Error(t, err)
	assert.False(t, service.IsValidation(err))

	_, err = service.NewImageService(store).Store(context.Background(), "   ")
	assertValidationField(t, err, "image")
}
