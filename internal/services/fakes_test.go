package services

import (
	"context"
	"io"
	"sort"
	"sync"

	"github.com/calebowu/ghostwriter/internal/core"
	"github.com/calebowu/ghostwriter/internal/models"
)

// fakeDB is an in-memory core.DbClient for service tests.
type fakeDB struct {
	mu       sync.Mutex
	users    map[string]*models.User
	profiles map[string]*models.VoiceProfile // by user id
	posts    map[string]*models.DraftPost
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		users:    map[string]*models.User{},
		profiles: map[string]*models.VoiceProfile{},
		posts:    map[string]*models.DraftPost{},
	}
}

func (f *fakeDB) CreateUser(_ context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[u.ID] = u
	return nil
}

func (f *fakeDB) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeDB) GetUserByID(_ context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeDB) UpsertVoiceProfile(_ context.Context, p *models.VoiceProfile) (*models.VoiceProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := *p
	if existing, ok := f.profiles[p.UserID]; ok {
		stored.ID = existing.ID
		stored.CreatedAt = existing.CreatedAt
	}
	f.profiles[p.UserID] = &stored
	cp := stored
	return &cp, nil
}

func (f *fakeDB) GetVoiceProfileByUser(_ context.Context, userID string) (*models.VoiceProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.profiles[userID]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeDB) InsertDraftPosts(_ context.Context, posts []models.DraftPost) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range posts {
		cp := posts[i]
		f.posts[cp.ID] = &cp
	}
	return nil
}

func (f *fakeDB) GetDraftPostByID(_ context.Context, id string) (*models.DraftPost, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.posts[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeDB) ListDraftPostsByUser(_ context.Context, userID string, favoritesOnly bool) ([]models.DraftPost, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.DraftPost
	for _, p := range f.posts {
		if p.UserID != userID {
			continue
		}
		if favoritesOnly && !p.IsFavorite {
			continue
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeDB) UpdateDraftPost(_ context.Context, p *models.DraftPost, refreshEmbedding bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *p
	if !refreshEmbedding {
		if old, ok := f.posts[p.ID]; ok {
			cp.Embedding = old.Embedding
		}
	}
	f.posts[p.ID] = &cp
	return nil
}

func (f *fakeDB) DeleteDraftPost(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.posts, id)
	return nil
}

func (f *fakeDB) SearchFavoriteDrafts(_ context.Context, userID string, _ []float32, limit int) ([]models.DraftPost, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.DraftPost
	for _, p := range f.posts {
		if p.UserID == userID && p.IsFavorite && len(p.Embedding) > 0 {
			out = append(out, *p)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeDB) Close() error { return nil }

var _ core.DbClient = (*fakeDB)(nil)

// stubLLM returns a scripted response.
type stubLLM struct {
	resp       string
	err        error
	lastSystem string
}

func (s *stubLLM) Generate(_ context.Context, system, _ string) (string, error) {
	s.lastSystem = system
	return s.resp, s.err
}

func (s *stubLLM) Close() error { return nil }

// stubEmbedder returns fixed-size vectors.
type stubEmbedder struct {
	err   error
	calls int
}

func (s *stubEmbedder) EmbedTexts(_ context.Context, texts []string) ([][]float32, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 2, 3}
	}
	return out, nil
}

// fakeObjects records uploads and deletes.
type fakeObjects struct {
	uploads []string
	deletes []string
	err     error
}

func (f *fakeObjects) UploadFile(_ context.Context, _, key string, _ io.Reader, _ string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.uploads = append(f.uploads, key)
	return "https://bucket.s3.test/" + key, nil
}

func (f *fakeObjects) DeleteFile(_ context.Context, _, key string) error {
	f.deletes = append(f.deletes, key)
	return nil
}

var _ core.ObjectClient = (*fakeObjects)(nil)
