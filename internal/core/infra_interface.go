package core

import (
	"context"
	"io"

	"github.com/calebowu/ghostwriter/internal/models"
)

// DbClient defines all persistence operations the services need.
// It abstracts Postgres so higher layers never depend on a specific DB.
type DbClient interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	UpsertVoiceProfile(ctx context.Context, profile *models.VoiceProfile) (*models.VoiceProfile, error)
	GetVoiceProfileByUser(ctx context.Context, userID string) (*models.VoiceProfile, error)

	InsertDraftPosts(ctx context.Context, posts []models.DraftPost) error
	GetDraftPostByID(ctx context.Context, id string) (*models.DraftPost, error)
	ListDraftPostsByUser(ctx context.Context, userID string, favoritesOnly bool) ([]models.DraftPost, error)
	// refreshEmbedding writes post.Embedding as-is, clearing the stored
	// vector when nil; false keeps whatever is stored.
	UpdateDraftPost(ctx context.Context, post *models.DraftPost, refreshEmbedding bool) error
	DeleteDraftPost(ctx context.Context, id string) error
	SearchFavoriteDrafts(ctx context.Context, userID string, queryVec []float32, limit int) ([]models.DraftPost, error)

	Close() error
}

// ObjectClient defines interactions with S3 or any object storage.
// Abstract so AWS can be swapped for MinIO, GCP, etc.
type ObjectClient interface {
	UploadFile(ctx context.Context, bucket, key string, data io.Reader, contentType string) (url string, err error)
	DeleteFile(ctx context.Context, bucket, key string) error
}

// LLMProvider is the outbound text-generation capability. One call per
// operation; implementations must honor ctx cancellation since calls can
// block for tens of seconds.
type LLMProvider interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	Close() error
}

// EmbeddingProvider turns texts into vectors for exemplar search.
type EmbeddingProvider interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}
