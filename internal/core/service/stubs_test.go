package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/openshelf/digital-library/internal/core/domain"
	"github.com/openshelf/digital-library/internal/core/ports"
	"github.com/openshelf/digital-library/internal/core/query"
)

// --- books ---

type stubBookRepo struct {
	books  map[string]*domain.Book
	nextID int
}

func newStubBookRepo() *stubBookRepo {
	return &stubBookRepo{books: make(map[string]*domain.Book)}
}

func cloneBook(b *domain.Book) *domain.Book {
	if b == nil {
		return nil
	}
	clone := *b
	return &clone
}

func (r *stubBookRepo) Create(_ context.Context, b *domain.Book) (*domain.Book, error) {
	r.nextID++
	clone := cloneBook(b)
	clone.ID = fmt.Sprintf("%024x", r.nextID)
	r.books[clone.ID] = cloneBook(clone)
	return clone, nil
}

func (r *stubBookRepo) FindByID(_ context.Context, id string) (*domain.Book, error) {
	b, ok := r.books[id]
	if !ok {
		return nil, domain.ErrBookNotFound
	}
	return cloneBook(b), nil
}

func (r *stubBookRepo) FindByIDs(_ context.Context, ids []string) (map[string]*domain.Book, error) {
	out := make(map[string]*domain.Book)
	for _, id := range ids {
		if b, ok := r.books[id]; ok {
			out[id] = cloneBook(b)
		}
	}
	return out, nil
}

func (r *stubBookRepo) List(_ context.Context, q query.ListQuery) ([]*domain.Book, int64, error) {
	var matched []*domain.Book
	for _, b := range r.books {
		if q.Category != "" && b.Category != q.Category {
			continue
		}
		if q.BookType != "" && b.BookType != q.BookType {
			continue
		}
		if q.SearchTerm != "" {
			term := strings.ToLower(q.SearchTerm)
			haystack := strings.ToLower(b.Title + " " + b.Author + " " + b.Description)
			if !strings.Contains(haystack, term) {
				continue
			}
		}
		matched = append(matched, cloneBook(b))
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Title < matched[j].Title })

	total := int64(len(matched))
	if q.Skip >= len(matched) {
		return nil, total, nil
	}
	matched = matched[q.Skip:]
	if len(matched) > q.Limit {
		matched = matched[:q.Limit]
	}
	return matched, total, nil
}

func (r *stubBookRepo) Update(_ context.Context, b *domain.Book) error {
	if _, ok := r.books[b.ID]; !ok {
		return domain.ErrBookNotFound
	}
	r.books[b.ID] = cloneBook(b)
	return nil
}

func (r *stubBookRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.books[id]; !ok {
		return domain.ErrBookNotFound
	}
	delete(r.books, id)
	return nil
}

func (r *stubBookRepo) DistinctCategories(_ context.Context) ([]string, error) {
	seen := make(map[string]struct{})
	var out []string
	for _, b := range r.books {
		if _, ok := seen[b.Category]; !ok {
			seen[b.Category] = struct{}{}
			out = append(out, b.Category)
		}
	}
	return out, nil
}

func (r *stubBookRepo) DistinctTypes(_ context.Context) ([]string, error) {
	seen := make(map[string]struct{})
	var out []string
	for _, b := range r.books {
		if _, ok := seen[b.BookType]; !ok {
			seen[b.BookType] = struct{}{}
			out = append(out, b.BookType)
		}
	}
	return out, nil
}

// --- memberships ---

type stubMembershipRepo struct {
	links []*domain.Membership
	clock time.Time
}

func newStubMembershipRepo() *stubMembershipRepo {
	return &stubMembershipRepo{clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (r *stubMembershipRepo) Insert(_ context.Context, userID, bookID string) error {
	for _, l := range r.links {
		if l.UserID == userID && l.BookID == bookID {
			return domain.ErrAlreadyInLibrary
		}
	}
	r.clock = r.clock.Add(time.Minute)
	r.links = append(r.links, &domain.Membership{
		ID:        fmt.Sprintf("link-%d", len(r.links)+1),
		UserID:    userID,
		BookID:    bookID,
		CreatedAt: r.clock,
	})
	return nil
}

func (r *stubMembershipRepo) Delete(_ context.Context, userID, bookID string) error {
	for i, l := range r.links {
		if l.UserID == userID && l.BookID == bookID {
			r.links = append(r.links[:i], r.links[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotInLibrary
}

func (r *stubMembershipRepo) ListByUser(_ context.Context, userID string) ([]*domain.Membership, error) {
	var out []*domain.Membership
	for _, l := range r.links {
		if l.UserID == userID {
			clone := *l
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *stubMembershipRepo) DeleteByBook(_ context.Context, bookID string) error {
	var kept []*domain.Membership
	for _, l := range r.links {
		if l.BookID != bookID {
			kept = append(kept, l)
		}
	}
	r.links = kept
	return nil
}

// --- users ---

type stubUserRepo struct {
	users  map[string]*domain.User
	nextID int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	r.nextID++
	clone := cloneUser(u)
	clone.ID = fmt.Sprintf("%024x", r.nextID)
	r.users[clone.ID] = cloneUser(clone)
	return clone, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) Update(_ context.Context, u *domain.User) error {
	if _, ok := r.users[u.ID]; !ok {
		return domain.ErrUserNotFound
	}
	r.users[u.ID] = cloneUser(u)
	return nil
}

// --- reset codes ---

type stubCodeRepo struct {
	codes map[string]*domain.ResetCode
}

func newStubCodeRepo() *stubCodeRepo {
	return &stubCodeRepo{codes: make(map[string]*domain.ResetCode)}
}

func (r *stubCodeRepo) Upsert(_ context.Context, code *domain.ResetCode) error {
	clone := *code
	r.codes[code.Email] = &clone
	return nil
}

func (r *stubCodeRepo) Find(_ context.Context, email string) (*domain.ResetCode, error) {
	c, ok := r.codes[email]
	if !ok {
		return nil, domain.ErrResetCodeInvalid
	}
	clone := *c
	return &clone, nil
}

func (r *stubCodeRepo) Delete(_ context.Context, email string) error {
	delete(r.codes, email)
	return nil
}

// --- blob store ---

type memBlobStore struct {
	blobs  map[string][]byte
	putErr error
}

func newMemBlobStore() *memBlobStore {
	return &memBlobStore{blobs: make(map[string][]byte)}
}

func (s *memBlobStore) Put(_ context.Context, key string, data []byte) error {
	if s.putErr != nil {
		return s.putErr
	}
	s.blobs[key] = append([]byte(nil), data...)
	return nil
}

func (s *memBlobStore) Get(_ context.Context, key string) (io.ReadCloser, error) {
	data, ok := s.blobs[key]
	if !ok {
		return nil, ports.ErrBlobNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *memBlobStore) Delete(_ context.Context, key string) error {
	delete(s.blobs, key)
	return nil
}

// --- renderer ---

type stubRenderer struct {
	result *ports.RenderResult
	err    error
}

func (r *stubRenderer) RenderCover(_ context.Context, _ []byte) (*ports.RenderResult, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.result, nil
}

// --- mailer ---

type sentMail struct {
	to   string
	code string
}

type stubMailer struct {
	sent []sentMail
	err  error
}

func (m *stubMailer) SendResetCode(_ context.Context, to, code string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to: to, code: code})
	return nil
}

// --- metrics ---

type stubCatalogMetrics struct {
	created       []string
	deleted       int
	coverSources  []string
	coverFailures int
}

func (m *stubCatalogMetrics) BookCreated(category string) { m.created = append(m.created, category) }
func (m *stubCatalogMetrics) BookDeleted()                { m.deleted++ }
func (m *stubCatalogMetrics) CoverStored(source string)   { m.coverSources = append(m.coverSources, source) }
func (m *stubCatalogMetrics) CoverFailed()                { m.coverFailures++ }

type stubIdentityMetrics struct {
	signups       int
	loginSuccess  int
	loginFailures int
}

func (m *stubIdentityMetrics) AccountCreated() { m.signups++ }
func (m *stubIdentityMetrics) LoginSucceeded() { m.loginSuccess++ }
func (m *stubIdentityMetrics) LoginFailed()    { m.loginFailures++ }
