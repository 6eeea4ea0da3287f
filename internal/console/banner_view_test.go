package console

import (
	"context"
	"errors"
	"testing"

	"admin-console/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBannerView_UploadRequiresImage(t *testing.T) {
	api := &fakeBanners{}
	view := NewBannerView(api, nil, ListOptions{})

	err := view.Upload(context.Background(), BannerForm{Title: "Summer sale"})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"image"}, verr.Keys())
	assert.Equal(t, 0, api.count("Upload"))

	require.NoError(t, view.Upload(context.Background(), BannerForm{
		Title: "Summer sale",
		Image: &ImageUpload{Filename: "sale.png", Content: pngBytes},
	}))
	assert.Equal(t, []string{"title", "description", "image"}, api.forms[0].FieldNames())
}

func TestBannerView_UpdateImageOptional(t *testing.T) {
	api := &fakeBanners{banners: []models.Banner{{ID: 2, Title: "Old"}}}
	view := NewBannerView(api, nil, ListOptions{})
	require.NoError(t, view.Load(context.Background()))

	require.NoError(t, view.Update(context.Background(), 2, BannerForm{Title: "New"}))
	assert.Equal(t, []string{"title", "description"}, api.forms[0].FieldNames())

	assert.ErrorIs(t, view.Update(context.Background(), 3, BannerForm{Title: "New"}), ErrNotFound)
}
