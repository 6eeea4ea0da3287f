package models

import "encoding/json"

// Banner is a storefront banner.
type Banner struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
}

func (b *Banner) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID          flexInt `json:"id"`
		Title       string  `json:"title"`
		Description string  `json:"description"`
		ImageURL    string  `json:"image_url"`
		Image       string  `json:"image"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*b = Banner{
		ID:          int64(raw.ID),
		Title:       raw.Title,
		Description: raw.Description,
		ImageURL:    firstNonEmpty(raw.ImageURL, raw.Image),
	}
	return nil
}
