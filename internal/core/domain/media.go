package domain

import "time"

// MediaType classifies the content of a media record.
type MediaType string

const (
	MediaTypeVideo MediaType = "VIDEO"
	MediaTypeAudio MediaType = "AUDIO"
	MediaTypeImage MediaType = "IMAGE"
)

// Valid reports whether t is one of the known media types.
func (t MediaType) Valid() bool {
	switch t {
	case MediaTypeVideo, MediaTypeAudio, MediaTypeImage:
		return true
	}
	return false
}

// Owner is the user a media record belongs to.
type Owner struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Media is the catalog's core record.
type Media struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Type            MediaType `json:"type"`
	Description     string    `json:"description"`
	ContentBase64   string    `json:"content_base64"`
	DurationSeconds int       `json:"duration_seconds"`
	Views           int64     `json:"views"`
	Available       bool      `json:"available"`
	Owner           Owner     `json:"owner"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// MediaFilter carries the optional search criteria for media.
// Zero values (and nil pointers) mean "no constraint".
type MediaFilter struct {
	Title           string
	Type            MediaType
	Description     string
	DurationSeconds *int
	Views           *int64
	Available       *bool
	CreatedAt       *time.Time // matches records created on the same UTC day
	Username        string
	Take            int
	Skip            int
}

// MediaPatch carries the mutable media fields. Nil fields are left untouched.
type MediaPatch struct {
	Title           *string
	Type            *MediaType
	Description     *string
	ContentBase64   *string
	DurationSeconds *int
	Available       *bool
}

// Empty reports whether the patch changes nothing.
func (p MediaPatch) Empty() bool {
	return p.Title == nil && p.Type == nil && p.Description == nil &&
		p.ContentBase64 == nil && p.DurationSeconds == nil && p.Available == nil
}
