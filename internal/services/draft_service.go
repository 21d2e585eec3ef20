package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/calebowu/ghostwriter/internal/core"
	"github.com/calebowu/ghostwriter/internal/core/errs"
	"github.com/calebowu/ghostwriter/internal/core/generator"
	"github.com/calebowu/ghostwriter/internal/models"
)

// exemplarLimit caps how many favorite posts feed the generation prompt.
const exemplarLimit = 3

// DraftService owns persisted drafts: generation, CRUD, favorites and
// regeneration, all scoped to the calling user.
type DraftService struct {
	db       core.DbClient
	gen      *generator.Generator
	embedder core.EmbeddingProvider // nil disables exemplar retrieval
	log      zerolog.Logger
}

func NewDraftService(db core.DbClient, gen *generator.Generator, embedder core.EmbeddingProvider, log zerolog.Logger) *DraftService {
	return &DraftService{db: db, gen: gen, embedder: embedder, log: log}
}

// Generate renders a full batch in the user's voice and persists it.
// Requires a trained or sample profile; absence is a caller error.
func (s *DraftService) Generate(ctx context.Context, userID, topic string, audience *string) ([]models.DraftPost, error) {
	profile, err := s.db.GetVoiceProfileByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, errs.Validation("create a voice profile first")
	}

	posts, err := s.gen.Generate(ctx, topic, audience, profile, profile.Settings, s.exemplars(ctx, userID, topic))
	if err != nil {
		return nil, err
	}

	for i := range posts {
		posts[i].UserID = userID
	}
	s.embedPosts(ctx, posts)

	if err := s.db.InsertDraftPosts(ctx, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// List returns the user's drafts, newest first.
func (s *DraftService) List(ctx context.Context, userID string, favoritesOnly bool) ([]models.DraftPost, error) {
	return s.db.ListDraftPostsByUser(ctx, userID, favoritesOnly)
}

// Update edits content and/or toggles favorite on an owned post.
func (s *DraftService) Update(ctx context.Context, userID, postID string, content *string, isFavorite *bool) (*models.DraftPost, error) {
	post, err := s.owned(ctx, userID, postID)
	if err != nil {
		return nil, err
	}

	if content != nil {
		post.Content = *content
		post.Embedding = nil // stale once edited; re-embedded below
	}
	if isFavorite != nil {
		post.IsFavorite = *isFavorite
	}
	post.UpdatedAt = time.Now().UTC()

	if content != nil {
		batch := []models.DraftPost{*post}
		s.embedPosts(ctx, batch)
		post.Embedding = batch[0].Embedding
	}
	// an edited post with no fresh vector must drop the stale one, or
	// exemplar search would rank it by its pre-edit embedding
	if err := s.db.UpdateDraftPost(ctx, post, content != nil); err != nil {
		return nil, err
	}
	return post, nil
}

// Delete removes an owned post.
func (s *DraftService) Delete(ctx context.Context, userID, postID string) error {
	if _, err := s.owned(ctx, userID, postID); err != nil {
		return err
	}
	return s.db.DeleteDraftPost(ctx, postID)
}

// Regenerate replaces one post's content in place, reusing the topic,
// audience and variant tag captured at creation. Id and favorite state
// survive; updated_at moves. On failure nothing is written.
func (s *DraftService) Regenerate(ctx context.Context, userID, postID string) (*models.DraftPost, error) {
	post, err := s.owned(ctx, userID, postID)
	if err != nil {
		return nil, err
	}

	profile, err := s.db.GetVoiceProfileByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, errs.Validation("create a voice profile first")
	}

	content, err := s.gen.RegenerateContent(ctx, post, profile, profile.Settings)
	if err != nil {
		return nil, err
	}

	post.Content = content
	post.Embedding = nil
	post.UpdatedAt = time.Now().UTC()
	batch := []models.DraftPost{*post}
	s.embedPosts(ctx, batch)
	post.Embedding = batch[0].Embedding

	if err := s.db.UpdateDraftPost(ctx, post, true); err != nil {
		return nil, err
	}
	return post, nil
}

// owned fetches a post and enforces ownership. A post belonging to
// someone else is an authorization failure, not a lookup miss.
func (s *DraftService) owned(ctx context.Context, userID, postID string) (*models.DraftPost, error) {
	post, err := s.db.GetDraftPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, &errs.NotFoundError{Resource: "draft post"}
	}
	if post.UserID != userID {
		return nil, &errs.AuthzError{Msg: "draft post belongs to another user"}
	}
	return post, nil
}

// exemplars finds the caller's favorite posts closest to the topic.
// Best effort: retrieval failures degrade to no exemplars.
func (s *DraftService) exemplars(ctx context.Context, userID, topic string) []string {
	if s.embedder == nil {
		return nil
	}
	vecs, err := s.embedder.EmbedTexts(ctx, []string{topic})
	if err != nil || len(vecs) == 0 {
		s.log.Warn().Err(err).Msg("topic embedding failed; generating without exemplars")
		return nil
	}
	favorites, err := s.db.SearchFavoriteDrafts(ctx, userID, vecs[0], exemplarLimit)
	if err != nil {
		s.log.Warn().Err(err).Msg("favorite search failed; generating without exemplars")
		return nil
	}
	out := make([]string, 0, len(favorites))
	for _, f := range favorites {
		out = append(out, f.Content)
	}
	return out
}

// embedPosts attaches embeddings in place. Best effort: posts without a
// vector simply never surface as exemplars.
func (s *DraftService) embedPosts(ctx context.Context, posts []models.DraftPost) {
	if s.embedder == nil || len(posts) == 0 {
		return
	}
	texts := make([]string, len(posts))
	for i := range posts {
		texts[i] = posts[i].Content
	}
	vecs, err := s.embedder.EmbedTexts(ctx, texts)
	if err != nil || len(vecs) != len(posts) {
		s.log.Warn().Err(err).Msg("draft embedding failed")
		return
	}
	for i := range posts {
		posts[i].Embedding = vecs[i]
	}
}
