package console

import (
	"context"
	"fmt"
	"strings"

	"admin-console/internal/clients"
	"admin-console/internal/models"

	"github.com/gabriel-vasile/mimetype"
)

// BannerForm uploads or edits a banner.
type BannerForm struct {
	Title       string       `form:"title" validate:"required,max=120"`
	Description string       `form:"description" validate:"max=500"`
	Image       *ImageUpload `form:"image" json:"-"`
}

// BannerView lists banners and uploads new ones.
type BannerView struct {
	*ListView[models.Banner]

	api       BannersAPI
	validator *FormValidator
}

func NewBannerView(api BannersAPI, validator *FormValidator, opts ListOptions) *BannerView {
	if validator == nil {
		validator = NewFormValidator()
	}
	v := &BannerView{api: api, validator: validator}
	v.ListView = NewListView(ListConfig[models.Banner]{
		View:       "banners",
		Fetch:      api.List,
		Remove:     api.Delete,
		ID:         func(b models.Banner) int64 { return b.ID },
		Label:      func(b models.Banner) string { return fmt.Sprintf("banner %q", b.Title) },
		SearchText: func(b models.Banner) string { return b.Title + " " + b.Description },
		PageSize:   opts.PageSize,
		Confirmer:  opts.Confirmer,
		Notifier:   opts.Notifier,
		Tasks:      opts.Tasks,
	})
	return v
}

// Upload creates a banner; the image is required.
func (v *BannerView) Upload(ctx context.Context, form BannerForm) error {
	body, err := v.body(form, true)
	if err != nil {
		v.Fail(err)
		return err
	}
	return v.Mutate(ctx, fmt.Sprintf("Banner %q uploaded", form.Title), func(ctx context.Context) error {
		return v.api.Upload(ctx, body)
	})
}

// Update edits banner id; a new image is optional.
func (v *BannerView) Update(ctx context.Context, id int64, form BannerForm) error {
	if _, ok := v.Find(id); !ok {
		return fmt.Errorf("banner %d: %w", id, ErrNotFound)
	}
	body, err := v.body(form, false)
	if err != nil {
		v.Fail(err)
		return err
	}
	return v.Mutate(ctx, fmt.Sprintf("Banner %q updated", form.Title), func(ctx context.Context) error {
		return v.api.Update(ctx, id, body)
	})
}

func (v *BannerView) body(form BannerForm, imageRequired bool) (*clients.MultipartBody, error) {
	form.Title = strings.TrimSpace(form.Title)
	err := v.validator.Validate(form)
	verr, _ := err.(*ValidationError)
	if err != nil && verr == nil {
		return nil, err
	}
	if verr == nil {
		verr = &ValidationError{Fields: map[string]string{}}
	}

	hasImage := form.Image != nil && len(form.Image.Content) > 0
	switch {
	case !hasImage && imageRequired:
		verr.Fields["image"] = "Image is required"
	case hasImage:
		if msg := checkImage(form.Image); msg != "" {
			verr.Fields["image"] = msg
		}
	}
	if len(verr.Fields) > 0 {
		return nil, verr
	}

	body := clients.NewMultipartBody().
		Set("title", form.Title).
		Set("description", form.Description)
	if hasImage {
		body.Attach(clients.FilePart{
			Field:       "image",
			Filename:    form.Image.Filename,
			ContentType: mimetype.Detect(form.Image.Content).String(),
			Content:     form.Image.Content,
		})
	}
	return body, nil
}
