package handler

import "time"

// --- Request / Response types ---

type registerMediaRequest struct {
	Title           string `json:"title"           validate:"required,max=255"`
	Type            string `json:"type"            validate:"required,oneof=VIDEO AUDIO IMAGE"`
	Description     string `json:"description"     validate:"max=2000"`
	ContentBase64   string `json:"contentBase64"   validate:"required,base64"`
	DurationSeconds int    `json:"durationSeconds" validate:"min=0"`
	Available       *bool  `json:"available"`
}

// replaceMediaRequest is the PUT body: every field is required.
type replaceMediaRequest struct {
	Title           string `json:"title"           validate:"required,max=255"`
	Type            string `json:"type"            validate:"required,oneof=VIDEO AUDIO IMAGE"`
	Description     string `json:"description"     validate:"required,max=2000"`
	ContentBase64   string `json:"contentBase64"   validate:"required,base64"`
	DurationSeconds *int   `json:"durationSeconds" validate:"required,min=0"`
	Available       *bool  `json:"available"       validate:"required"`
}

// patchMediaRequest is the PATCH body: absent fields are left untouched.
type patchMediaRequest struct {
	Title           *string `json:"title"           validate:"omitnil,min=1,max=255"`
	Type            *string `json:"type"            validate:"omitnil,oneof=VIDEO AUDIO IMAGE"`
	Description     *string `json:"description"     validate:"omitnil,max=2000"`
	ContentBase64   *string `json:"contentBase64"   validate:"omitnil,base64"`
	DurationSeconds *int    `json:"durationSeconds" validate:"omitnil,min=0"`
	Available       *bool   `json:"available"`
}

type registerMediaResponse struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Type            string `json:"type"`
	Description     string `json:"description"`
	DurationSeconds int    `json:"durationSeconds"`
}

type mediaResponse struct {
	Title           string    `json:"title"`
	Type            string    `json:"type"`
	Description     string    `json:"description"`
	ContentBase64   string    `json:"contentBase64"`
	DurationSeconds int       `json:"durationSeconds"`
	Views           int64     `json:"views"`
	Available       bool      `json:"available"`
	CreatedAt       time.Time `json:"createdAt"`
	Owner           string    `json:"owner"`
}

type mediaSummaryResponse struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Type            string    `json:"type"`
	Description     string    `json:"description"`
	DurationSeconds int       `json:"durationSeconds"`
	Views           int64     `json:"views"`
	Available       bool      `json:"available"`
	CreatedAt       time.Time `json:"createdAt"`
	Username        string    `json:"username"`
}
