package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/pgvector/pgvector-go"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/calebowu/ghostwriter/internal/config"
	"github.com/calebowu/ghostwriter/internal/core"
	"github.com/calebowu/ghostwriter/internal/models"
)

type DatabaseClient struct {
	db *sql.DB
}

func NewDatabaseClient(ctx context.Context, cfg *config.Config) (core.DbClient, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database client configuration is nil")
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is empty")
	}

	sqlDB, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// Pool settings sized for an API service.
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	if err := EnsureBootstrapped(ctx, sqlDB, cfg.EmbedDim); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("bootstrap: %w", err)
	}

	return &DatabaseClient{db: sqlDB}, nil
}

func (c *DatabaseClient) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// Users

func (c *DatabaseClient) CreateUser(ctx context.Context, user *models.User) error {
	if user == nil {
		return errors.New("nil user")
	}
	const q = `
		INSERT INTO users (id, name, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, COALESCE($5, now()), COALESCE($6, now()))
	`
	_, err := c.db.ExecContext(ctx, q,
		user.ID, user.Name, user.Email, user.PasswordHash, user.CreatedAt, user.UpdatedAt)
	return err
}

func (c *DatabaseClient) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const q = `
		SELECT id, name, email, password_hash, created_at, updated_at
		FROM users WHERE email = $1
	`
	var u models.User
	err := c.db.QueryRowContext(ctx, q, email).Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *DatabaseClient) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	const q = `
		SELECT id, name, email, password_hash, created_at, updated_at
		FROM users WHERE id = $1
	`
	var u models.User
	err := c.db.QueryRowContext(ctx, q, id).Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Voice profiles

// UpsertVoiceProfile replaces the user's profile wholesale (one profile
// per user, last write wins) and returns the stored row.
func (c *DatabaseClient) UpsertVoiceProfile(ctx context.Context, p *models.VoiceProfile) (*models.VoiceProfile, error) {
	if p == nil {
		return nil, errors.New("nil profile")
	}
	extracted, err := json.Marshal(p.Extracted)
	if err != nil {
		return nil, fmt.Errorf("marshal extracted profile: %w", err)
	}
	settings, err := json.Marshal(p.Settings)
	if err != nil {
		return nil, fmt.Errorf("marshal settings: %w", err)
	}

	const q = `
		INSERT INTO voice_profiles
			(id, user_id, raw_samples, extracted_profile, settings, samples_url, trained, created_at, updated_at)
		VALUES
			($1, $2, $3, $4, $5, $6, $7, COALESCE($8, now()), COALESCE($9, now()))
		ON CONFLICT (user_id) DO UPDATE SET
			raw_samples = EXCLUDED.raw_samples,
			extracted_profile = EXCLUDED.extracted_profile,
			settings = EXCLUDED.settings,
			samples_url = EXCLUDED.samples_url,
			trained = EXCLUDED.trained,
			updated_at = EXCLUDED.updated_at
		RETURNING id, created_at
	`
	stored := *p
	err = c.db.QueryRowContext(ctx, q,
		p.ID, p.UserID, p.RawSamples, extracted, settings, p.SamplesURL, p.Trained, p.CreatedAt, p.UpdatedAt,
	).Scan(&stored.ID, &stored.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

func (c *DatabaseClient) GetVoiceProfileByUser(ctx context.Context, userID string) (*models.VoiceProfile, error) {
	const q = `
		SELECT id, user_id, raw_samples, extracted_profile, settings, samples_url, trained, created_at, updated_at
		FROM voice_profiles WHERE user_id = $1
	`
	var (
		p         models.VoiceProfile
		extracted []byte
		settings  []byte
	)
	err := c.db.QueryRowContext(ctx, q, userID).Scan(
		&p.ID, &p.UserID, &p.RawSamples, &extracted, &settings, &p.SamplesURL, &p.Trained, &p.CreatedAt, &p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(extracted, &p.Extracted); err != nil {
		return nil, fmt.Errorf("unmarshal extracted profile: %w", err)
	}
	if err := json.Unmarshal(settings, &p.Settings); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}
	return &p, nil
}

// Draft posts

// InsertDraftPosts inserts a batch in a single transaction.
func (c *DatabaseClient) InsertDraftPosts(ctx context.Context, posts []models.DraftPost) error {
	if len(posts) == 0 {
		return nil
	}
	tx, err := c.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}

	const q = `
		INSERT INTO draft_posts
			(id, user_id, topic, audience, content, tags, is_favorite, embedding, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, COALESCE($9, now()), COALESCE($10, now()))
	`
	stmt, err := tx.PrepareContext(ctx, q)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer stmt.Close()

	for i := range posts {
		p := &posts[i]
		tags, err := json.Marshal(p.Tags)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("marshal tags: %w", err)
		}
		if _, err := stmt.ExecContext(ctx,
			p.ID, p.UserID, p.Topic, p.Audience, p.Content, tags, p.IsFavorite,
			nullableVector(p.Embedding), p.CreatedAt, p.UpdatedAt,
		); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

func (c *DatabaseClient) GetDraftPostByID(ctx context.Context, id string) (*models.DraftPost, error) {
	const q = `
		SELECT id, user_id, topic, audience, content, tags, is_favorite, created_at, updated_at
		FROM draft_posts WHERE id = $1
	`
	var (
		p    models.DraftPost
		tags []byte
	)
	err := c.db.QueryRowContext(ctx, q, id).Scan(
		&p.ID, &p.UserID, &p.Topic, &p.Audience, &p.Content, &tags, &p.IsFavorite, &p.CreatedAt, &p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(tags, &p.Tags); err != nil {
		return nil, fmt.Errorf("unmarshal tags: %w", err)
	}
	return &p, nil
}

func (c *DatabaseClient) ListDraftPostsByUser(ctx context.Context, userID string, favoritesOnly bool) ([]models.DraftPost, error) {
	q := `
		SELECT id, user_id, topic, audience, content, tags, is_favorite, created_at, updated_at
		FROM draft_posts
		WHERE user_id = $1
	`
	if favoritesOnly {
		q += ` AND is_favorite`
	}
	q += ` ORDER BY created_at DESC LIMIT 100`

	rows, err := c.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.DraftPost
	for rows.Next() {
		var (
			p    models.DraftPost
			tags []byte
		)
		if err := rows.Scan(
			&p.ID, &p.UserID, &p.Topic, &p.Audience, &p.Content, &tags, &p.IsFavorite, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(tags, &p.Tags); err != nil {
			return nil, fmt.Errorf("unmarshal tags: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (c *DatabaseClient) UpdateDraftPost(ctx context.Context, p *models.DraftPost, refreshEmbedding bool) error {
	if p == nil {
		return errors.New("nil post")
	}
	tags, err := json.Marshal(p.Tags)
	if err != nil {
		return fmt.Errorf("marshal tags: %w", err)
	}
	// reads do not load the vector, so a plain write would wipe it on
	// every favorite toggle; COALESCE keeps it unless the caller is
	// deliberately replacing or clearing it
	q := `
		UPDATE draft_posts
		SET content = $2, tags = $3, is_favorite = $4, embedding = COALESCE($5, embedding), updated_at = $6
		WHERE id = $1
	`
	if refreshEmbedding {
		q = `
		UPDATE draft_posts
		SET content = $2, tags = $3, is_favorite = $4, embedding = $5, updated_at = $6
		WHERE id = $1
	`
	}
	res, err := c.db.ExecContext(ctx, q, p.ID, p.Content, tags, p.IsFavorite, nullableVector(p.Embedding), p.UpdatedAt)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("draft post not found: %s", p.ID)
	}
	return nil
}

func (c *DatabaseClient) DeleteDraftPost(ctx context.Context, id string) error {
	res, err := c.db.ExecContext(ctx, `DELETE FROM draft_posts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("draft post not found: %s", id)
	}
	return nil
}

// SearchFavoriteDrafts finds the user's favorite posts most similar to
// the query embedding.
func (c *DatabaseClient) SearchFavoriteDrafts(ctx context.Context, userID string, queryVec []float32, limit int) ([]models.DraftPost, error) {
	const q = `
		SELECT id, user_id, topic, audience, content, tags, is_favorite, created_at, updated_at
		FROM draft_posts
		WHERE user_id = $1 AND is_favorite AND embedding IS NOT NULL
		ORDER BY embedding <-> $2
		LIMIT $3
	`
	vec := pgvector.NewVector(queryVec)
	rows, err := c.db.QueryContext(ctx, q, userID, vec, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.DraftPost
	for rows.Next() {
		var (
			p    models.DraftPost
			tags []byte
		)
		if err := rows.Scan(
			&p.ID, &p.UserID, &p.Topic, &p.Audience, &p.Content, &tags, &p.IsFavorite, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(tags, &p.Tags); err != nil {
			return nil, fmt.Errorf("unmarshal tags: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// nullableVector maps an absent embedding to SQL NULL.
func nullableVector(v []float32) any {
	if len(v) == 0 {
		return nil
	}
	return pgvector.NewVector(v)
}
