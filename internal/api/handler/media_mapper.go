package handler

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/esteveslima/media-collection/internal/core/domain"
	"github.com/esteveslima/media-collection/internal/core/ports"
)

// --- Request → Service input ---

func toRegisterMediaInput(req registerMediaRequest) ports.RegisterMediaInput {
	available := true
	if req.Available != nil {
		available = *req.Available
	}
	return ports.RegisterMediaInput{
		Title:           req.Title,
		Type:            domain.MediaType(req.Type),
		Description:     req.Description,
		ContentBase64:   req.ContentBase64,
		DurationSeconds: req.DurationSeconds,
		Available:       available,
	}
}

func replaceToModifyMediaInput(req replaceMediaRequest) ports.ModifyMediaInput {
	t := domain.MediaType(req.Type)
	return ports.ModifyMediaInput{
		Title:           &req.Title,
		Type:            &t,
		Description:     &req.Description,
		ContentBase64:   &req.ContentBase64,
		DurationSeconds: req.DurationSeconds,
		Available:       req.Available,
	}
}

func patchToModifyMediaInput(req patchMediaRequest) ports.ModifyMediaInput {
	in := ports.ModifyMediaInput{
		Title:           req.Title,
		Description:     req.Description,
		ContentBase64:   req.ContentBase64,
		DurationSeconds: req.DurationSeconds,
		Available:       req.Available,
	}
	if req.Type != nil {
		t := domain.MediaType(*req.Type)
		in.Type = &t
	}
	return in
}

// searchType reads a media type filter case-insensitively.
func searchType(v string) domain.MediaType {
	return domain.MediaType(strings.ToUpper(v))
}

// toMediaFilter parses the search query string. It returns the names of the
// parameters that could not be parsed.
func toMediaFilter(q url.Values) (domain.MediaFilter, []string) {
	var (
		f       domain.MediaFilter
		invalid []string
	)
	f.Title = q.Get("title")
	f.Type = searchType(q.Get("type"))
	f.Description = q.Get("description")
	f.Username = q.Get("username")

	if v := q.Get("durationSeconds"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			f.DurationSeconds = &n
		} else {
			invalid = append(invalid, "durationSeconds must be an integer number")
		}
	}
	if v := q.Get("views"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			f.Views = &n
		} else {
			invalid = append(invalid, "views must be an integer number")
		}
	}
	if v := q.Get("available"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			f.Available = &b
		} else {
			invalid = append(invalid, "available must be a boolean value")
		}
	}
	if v := q.Get("createdAt"); v != "" {
		if t, ok := parseDay(v); ok {
			f.CreatedAt = &t
		} else {
			invalid = append(invalid, "createdAt must be a valid ISO 8601 date string")
		}
	}
	if v := q.Get("take"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			f.Take = n
		} else {
			invalid = append(invalid, "take must be an integer number")
		}
	}
	if v := q.Get("skip"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			f.Skip = n
		} else {
			invalid = append(invalid, "skip must be an integer number")
		}
	}
	return f, invalid
}

func parseDay(v string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339Nano, time.DateOnly} {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// --- Service result → HTTP response ---

func toRegisterMediaResponse(r *ports.RegisterMediaResult) registerMediaResponse {
	return registerMediaResponse{
		ID:              r.ID,
		Title:           r.Title,
		Type:            string(r.Type),
		Description:     r.Description,
		DurationSeconds: r.DurationSeconds,
	}
}

func toMediaResponse(r *ports.MediaDetail) mediaResponse {
	return mediaResponse{
		Title:           r.Title,
		Type:            string(r.Type),
		Description:     r.Description,
		ContentBase64:   r.ContentBase64,
		DurationSeconds: r.DurationSeconds,
		Views:           r.Views,
		Available:       r.Available,
		CreatedAt:       r.CreatedAt.UTC(),
		Owner:           r.Owner,
	}
}

func toMediaSummaryResponses(rs []ports.MediaSummary) []mediaSummaryResponse {
	out := make([]mediaSummaryResponse, len(rs))
	for i, r := range rs {
		out[i] = mediaSummaryResponse{
			ID:              r.ID,
			Title:           r.Title,
			Type:            string(r.Type),
			Description:     r.Description,
			DurationSeconds: r.DurationSeconds,
			Views:           r.Views,
			Available:       r.Available,
			CreatedAt:       r.CreatedAt.UTC(),
			Username:        r.Username,
		}
	}
	return out
}
