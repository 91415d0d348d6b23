package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/esteveslima/media-collection/internal/core/domain"
	"github.com/esteveslima/media-collection/internal/core/ports"
)

const mediaSelect = `SELECT m.id, m.user_id, u.username, m.title, m.type, m.description,
	m.content_base64, m.duration_seconds, m.views, m.available, m.created_at, m.updated_at
	FROM media m JOIN users u ON u.id = m.user_id`

type mediaRow struct {
	ID              string    `db:"id"`
	UserID          string    `db:"user_id"`
	Username        string    `db:"username"`
	Title           string    `db:"title"`
	Type            string    `db:"type"`
	Description     string    `db:"description"`
	ContentBase64   string    `db:"content_base64"`
	DurationSeconds int       `db:"duration_seconds"`
	Views           int64     `db:"views"`
	Available       bool      `db:"available"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

func (r mediaRow) toDomain() *domain.Media {
	return &domain.Media{
		ID:              r.ID,
		Title:           r.Title,
		Type:            domain.MediaType(r.Type),
		Description:     r.Description,
		ContentBase64:   r.ContentBase64,
		DurationSeconds: r.DurationSeconds,
		Views:           r.Views,
		Available:       r.Available,
		Owner:           domain.Owner{ID: r.UserID, Username: r.Username},
		CreatedAt:       r.CreatedAt.UTC(),
		UpdatedAt:       r.UpdatedAt.UTC(),
	}
}

// MediaRepository implements ports.MediaRepository with sqlx.
type MediaRepository struct {
	db *sqlx.DB
}

func NewMediaRepository(db *sqlx.DB) ports.MediaRepository {
	return &MediaRepository{db: db}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s match literally inside a LIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// Search matches title, type and username exactly and description as a
// case-insensitive substring. Results are newest first.
func (r *MediaRepository) Search(ctx context.Context, f domain.MediaFilter) ([]*domain.Media, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var (
		where []string
		args  []any
	)
	add := func(clause string, arg ...any) {
		where = append(where, clause)
		args = append(args, arg...)
	}

	if f.Title != "" {
		add("m.title = ?", f.Title)
	}
	if f.Type != "" {
		add("m.type = ?", string(f.Type))
	}
	if f.Description != "" {
		add(`LOWER(m.description) LIKE ? ESCAPE '\'`, "%"+escapeLike(strings.ToLower(f.Description))+"%")
	}
	if f.DurationSeconds != nil {
		add("m.duration_seconds = ?", *f.DurationSeconds)
	}
	if f.Views != nil {
		add("m.views = ?", *f.Views)
	}
	if f.Available != nil {
		add("m.available = ?", *f.Available)
	}
	if f.CreatedAt != nil {
		day := f.CreatedAt.UTC().Truncate(24 * time.Hour)
		add("m.created_at >= ? AND m.created_at < ?", day, day.Add(24*time.Hour))
	}
	if f.Username != "" {
		add("u.username = ?", f.Username)
	}

	q := mediaSelect
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, " AND ")
	}
	q += ` ORDER BY m.created_at DESC, m.id LIMIT ? OFFSET ?`
	args = append(args, f.Take, f.Skip)

	var rows []mediaRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(q), args...); err != nil {
		return nil, fmt.Errorf("search media: %w", err)
	}

	out := make([]*domain.Media, len(rows))
	for i, row := range rows {
		out[i] = row.toDomain()
	}
	return out, nil
}

// Register inserts media. A title already used by the same owner yields
// domain.SignalMediaAlreadyExists.
func (r *MediaRepository) Register(ctx context.Context, m *domain.Media) (*domain.Media, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	const q = `INSERT INTO media (id, user_id, title, type, description, content_base64,
		duration_seconds, views, available, created_at, updated_at)
		VALUES (:id, :user_id, :title, :type, :description, :content_base64,
		:duration_seconds, :views, :available, :created_at, :updated_at)`

	row := mediaRow{
		ID:              m.ID,
		UserID:          m.Owner.ID,
		Username:        m.Owner.Username,
		Title:           m.Title,
		Type:            string(m.Type),
		Description:     m.Description,
		ContentBase64:   m.ContentBase64,
		DurationSeconds: m.DurationSeconds,
		Views:           m.Views,
		Available:       m.Available,
		CreatedAt:       m.CreatedAt.UTC(),
		UpdatedAt:       m.UpdatedAt.UTC(),
	}
	if _, err := r.db.NamedExecContext(ctx, q, row); err != nil {
		if isUniqueViolation(err) {
			return nil, domain.SignalMediaAlreadyExists
		}
		return nil, fmt.Errorf("register media: %w", err)
	}
	return row.toDomain(), nil
}

// GetByID returns nil, nil when no record has id.
func (r *MediaRepository) GetByID(ctx context.Context, id string) (*domain.Media, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var row mediaRow
	err := r.db.GetContext(ctx, &row, r.db.Rebind(mediaSelect+` WHERE m.id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get media: %w", err)
	}
	return row.toDomain(), nil
}

func (r *MediaRepository) ModifyByID(ctx context.Context, id, ownerID string, p domain.MediaPatch) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := []string{"updated_at = ?"}
	args := []any{time.Now().UTC()}
	if p.Title != nil {
		set = append(set, "title = ?")
		args = append(args, *p.Title)
	}
	if p.Type != nil {
		set = append(set, "type = ?")
		args = append(args, string(*p.Type))
	}
	if p.Description != nil {
		set = append(set, "description = ?")
		args = append(args, *p.Description)
	}
	if p.ContentBase64 != nil {
		set = append(set, "content_base64 = ?")
		args = append(args, *p.ContentBase64)
	}
	if p.DurationSeconds != nil {
		set = append(set, "duration_seconds = ?")
		args = append(args, *p.DurationSeconds)
	}
	if p.Available != nil {
		set = append(set, "available = ?")
		args = append(args, *p.Available)
	}

	where, whereArgs := ownedBy(id, ownerID)
	q := `UPDATE media SET ` + strings.Join(set, ", ") + ` WHERE ` + where
	res, err := r.db.ExecContext(ctx, r.db.Rebind(q), append(args, whereArgs...)...)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.SignalMediaAlreadyExists
		}
		return fmt.Errorf("modify media: %w", err)
	}
	return requireAffected(res, domain.SignalMediaNotFound)
}

func (r *MediaRepository) DeleteByID(ctx context.Context, id, ownerID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	where, args := ownedBy(id, ownerID)
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM media WHERE `+where), args...)
	if err != nil {
		return fmt.Errorf("delete media: %w", err)
	}
	return requireAffected(res, domain.SignalMediaNotFound)
}

// IncrementViews adds delta to the view counter atomically.
func (r *MediaRepository) IncrementViews(ctx context.Context, id string, delta int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, r.db.Rebind(`UPDATE media SET views = views + ? WHERE id = ?`), delta, id)
	if err != nil {
		return fmt.Errorf("increment views: %w", err)
	}
	return requireAffected(res, domain.SignalMediaNotFound)
}

func ownedBy(id, ownerID string) (string, []any) {
	if ownerID == "" {
		return "id = ?", []any{id}
	}
	return "id = ? AND user_id = ?", []any{id, ownerID}
}
