package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/toldwithlove/toldwithlove/internal/intake"
)

// StoryRecord is one persisted generation.
type StoryRecord struct {
	ID          string
	UserEmail   string
	Title       string
	Content     string
	ContentType string
	Fields      intake.FieldSet
	CreatedAt   time.Time
}

// InsertStory persists a generated story. Replaces an existing record with
// the same ID.
func (s *Store) InsertStory(ctx context.Context, rec *StoryRecord) error {
	if s == nil || s.DB == nil {
		return errors.New("store is not initialized")
	}
	if rec == nil || strings.TrimSpace(rec.ID) == "" {
		return errors.New("story id is required")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	var fieldsJSON sql.NullString
	if len(rec.Fields) > 0 {
		data, err := json.Marshal(rec.Fields)
		if err != nil {
			return fmt.Errorf("encode story fields: %w", err)
		}
		fieldsJSON = sql.NullString{String: string(data), Valid: true}
	}

	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO stories (id, user_email, title, content, content_type, fields, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			user_email = excluded.user_email,
			title = excluded.title,
			content = excluded.content,
			content_type = excluded.content_type,
			fields = excluded.fields
	`, rec.ID, nullable(rec.UserEmail), rec.Title, rec.Content, rec.ContentType, fieldsJSON, createdAt.Unix())
	if err != nil {
		return fmt.Errorf("insert story: %w", err)
	}
	return nil
}

// GetStory fetches a story by ID. Returns (nil, nil) when not found.
func (s *Store) GetStory(ctx context.Context, id string) (*StoryRecord, error) {
	if s == nil || s.DB == nil {
		return nil, errors.New("store is not initialized")
	}
	if strings.TrimSpace(id) == "" {
		return nil, errors.New("story id is required")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	var (
		rec        StoryRecord
		userEmail  sql.NullString
		fieldsJSON sql.NullString
		createdAt  int64
	)

	row := s.DB.QueryRowContext(ctx, `
		SELECT id, user_email, title, content, content_type, fields, created_at
		FROM stories WHERE id = ?
	`, id)
	if err := row.Scan(&rec.ID, &userEmail, &rec.Title, &rec.Content, &rec.ContentType, &fieldsJSON, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetch story: %w", err)
	}

	rec.UserEmail = userEmail.String
	rec.CreatedAt = time.Unix(createdAt, 0).UTC()

	if fieldsJSON.Valid && fieldsJSON.String != "" {
		if err := json.Unmarshal([]byte(fieldsJSON.String), &rec.Fields); err != nil {
			return nil, fmt.Errorf("decode story fields: %w", err)
		}
	}

	return &rec, nil
}

// ListStoriesByUser returns a user's stories, newest first.
func (s *Store) ListStoriesByUser(ctx context.Context, email string, limit int) ([]*StoryRecord, error) {
	if s == nil || s.DB == nil {
		return nil, errors.New("store is not initialized")
	}
	if strings.TrimSpace(email) == "" {
		return nil, errors.New("user email is required")
	}
	if limit <= 0 {
		limit = 50
	}

	if ctx == nil {
		ctx = context.Background()
	}

	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, user_email, title, content, content_type, fields, created_at
		FROM stories WHERE user_email = ?
		ORDER BY created_at DESC LIMIT ?
	`, email, limit)
	if err != nil {
		return nil, fmt.Errorf("list stories: %w", err)
	}
	defer rows.Close() // nolint:errcheck // best-effort cleanup on SQL rows

	var out []*StoryRecord
	for rows.Next() {
		var (
			rec        StoryRecord
			userEmail  sql.NullString
			fieldsJSON sql.NullString
			createdAt  int64
		)
		if err := rows.Scan(&rec.ID, &userEmail, &rec.Title, &rec.Content, &rec.ContentType, &fieldsJSON, &createdAt); err != nil {
			return nil, fmt.Errorf("list stories: %w", err)
		}
		rec.UserEmail = userEmail.String
		rec.CreatedAt = time.Unix(createdAt, 0).UTC()
		if fieldsJSON.Valid && fieldsJSON.String != "" {
			if err := json.Unmarshal([]byte(fieldsJSON.String), &rec.Fields); err != nil {
				return nil, fmt.Errorf("decode story fields: %w", err)
			}
		}
		out = append(out, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list stories: %w", err)
	}

	return out, nil
}

func nullable(s string) sql.NullString {
	s = strings.TrimSpace(s)
	return sql.NullString{String: s, Valid: s != ""}
}
