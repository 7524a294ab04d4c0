package mongo

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/openshelf/digital-library/internal/core/domain"
	"github.com/openshelf/digital-library/internal/core/query"
)

const collectionBooks = "books"

type BookRepository struct {
	col *mongo.Collection
}

func NewBookRepository(db *mongo.Database) *BookRepository {
	return &BookRepository{col: db.Collection(collectionBooks)}
}

type mongoBook struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Title         string             `bson:"title"`
	Author        string             `bson:"author"`
	Description   string             `bson:"description,omitempty"`
	Category      string             `bson:"category"`
	BookType      string             `bson:"book_type"`
	CoverURL      string             `bson:"cover_url,omitempty"`
	ISBN          string             `bson:"isbn,omitempty"`
	PublishedYear int                `bson:"published_year,omitempty"`
	FilePath      string             `bson:"filePath,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt"`
}

func bookToDoc(b *domain.Book) mongoBook {
	return mongoBook{
		Title:         b.Title,
		Author:        b.Author,
		Description:   b.Description,
		Category:      b.Category,
		BookType:      b.BookType,
		CoverURL:      b.CoverURL,
		ISBN:          b.ISBN,
		PublishedYear: b.PublishedYear,
		FilePath:      b.FilePath,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

func bookFromDoc(d *mongoBook) *domain.Book {
	return &domain.Book{
		ID:            d.ID.Hex(),
		Title:         d.Title,
		Author:        d.Author,
		Description:   d.Description,
		Category:      d.Category,
		BookType:      d.BookType,
		CoverURL:      d.CoverURL,
		ISBN:          d.ISBN,
		PublishedYear: d.PublishedYear,
		FilePath:      d.FilePath,
		CreatedAt:     d.CreatedAt.UTC(),
		UpdatedAt:     d.UpdatedAt.UTC(),
	}
}

// Create inserts a new book document and returns it with the assigned id.
func (r *BookRepository) Create(ctx context.Context, b *domain.Book) (*domain.Book, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, bookToDoc(b))
	if err != nil {
		return nil, err
	}

	created := *b
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *BookRepository) FindByID(ctx context.Context, id string) (*domain.Book, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrBookNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoBook
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrBookNotFound
		}
		return nil, err
	}
	return bookFromDoc(&doc), nil
}

// FindByIDs returns the books that still exist, keyed by id. Unknown or
// malformed ids are simply absent from the result.
func (r *BookRepository) FindByIDs(ctx context.Context, ids []string) (map[string]*domain.Book, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			continue
		}
		oids = append(oids, oid)
	}
	out := make(map[string]*domain.Book, len(oids))
	if len(oids) == 0 {
		return out, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return nil, err
	}
	var docs []mongoBook
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	for i := range docs {
		b := bookFromDoc(&docs[i])
		out[b.ID] = b
	}
	return out, nil
}

// List runs the validated catalog query. With a search term it attempts an
// index-accelerated text search with relevance-then-sort ordering; when the
// text index is unavailable it degrades to a case-insensitive substring match
// with all regex metacharacters escaped.
func (r *BookRepository) List(ctx context.Context, q query.ListQuery) ([]*domain.Book, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	base := bson.M{}
	if q.Category != "" {
		base["category"] = q.Category
	}
	if q.BookType != "" {
		base["book_type"] = q.BookType
	}

	order := 1
	if q.Order == query.OrderDesc {
		order = -1
	}
	plainSort := bson.D{{Key: q.Key, Value: order}}

	if !q.UseTextSearch {
		opts := options.Find().
			SetSort(plainSort).
			SetSkip(int64(q.Skip)).
			SetLimit(int64(q.Limit))
		return r.page(ctx, base, opts)
	}

	textFilter := bson.M{"$text": bson.M{"$search": q.SearchTerm}}
	for k, v := range base {
		textFilter[k] = v
	}
	textOpts := options.Find().
		SetSort(bson.D{
			{Key: "score", Value: bson.M{"$meta": "textScore"}},
			{Key: q.Key, Value: order},
		}).
		SetProjection(bson.M{"score": bson.M{"$meta": "textScore"}}).
		SetSkip(int64(q.Skip)).
		SetLimit(int64(q.Limit))

	books, total, err := r.page(ctx, textFilter, textOpts)
	if err == nil {
		return books, total, nil
	}
	if !textSearchUnavailable(err) {
		return nil, 0, err
	}

	fallback := bson.M{}
	for k, v := range base {
		fallback[k] = v
	}
	re := primitive.Regex{Pattern: regexp.QuoteMeta(q.SearchTerm), Options: "i"}
	fallback["$or"] = bson.A{
		bson.M{"title": re},
		bson.M{"author": re},
		bson.M{"description": re},
	}
	opts := options.Find().
		SetSort(plainSort).
		SetSkip(int64(q.Skip)).
		SetLimit(int64(q.Limit))
	return r.page(ctx, fallback, opts)
}

func (r *BookRepository) page(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domain.Book, int64, error) {
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	var docs []mongoBook
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, err
	}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	books := make([]*domain.Book, 0, len(docs))
	for i := range docs {
		books = append(books, bookFromDoc(&docs[i]))
	}
	return books, total, nil
}

// textSearchUnavailable detects the server complaining about a missing text
// index (code 27, IndexNotFound).
func textSearchUnavailable(err error) bool {
	var ce mongo.CommandError
	if errors.As(err, &ce) {
		return ce.Code == 27 || strings.Contains(ce.Message, "text index")
	}
	return strings.Contains(err.Error(), "text index")
}

func (r *BookRepository) Update(ctx context.Context, b *domain.Book) error {
	oid, err := primitive.ObjectIDFromHex(b.ID)
	if err != nil {
		return domain.ErrBookNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateByID(ctx, oid, bson.M{"$set": bookToDoc(b)})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrBookNotFound
	}
	return nil
}

func (r *BookRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrBookNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrBookNotFound
	}
	return nil
}

func (r *BookRepository) DistinctCategories(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, "category")
}

func (r *BookRepository) DistinctTypes(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, "book_type")
}

func (r *BookRepository) distinct(ctx context.Context, field string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	raw, err := r.col.Distinct(ctx, field, bson.M{})
	if err != nil {
		return nil, err
	}
	values := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok && s != "" {
			values = append(values, s)
		}
	}
	return values, nil
}

// EnsureIndexes creates the text, filter, and sort indexes on the books
// collection.
func (r *BookRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "title", Value: "text"},
				{Key: "author", Value: "text"},
				{Key: "description", Value: "text"},
			},
			Options: options.Index().
				SetName("books_text").
				SetWeights(bson.D{
					{Key: "title", Value: 10},
					{Key: "author", Value: 5},
					{Key: "description", Value: 1},
				}),
		},
		{Keys: bson.D{{Key: "category", Value: 1}, {Key: "book_type", Value: 1}}},
		{Keys: bson.D{{Key: "title", Value: 1}}},
		{Keys: bson.D{{Key: "author", Value: 1}}},
		{Keys: bson.D{{Key: "published_year", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
