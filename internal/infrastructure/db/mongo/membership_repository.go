package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/openshelf/digital-library/internal/core/domain"
)

const collectionMemberships = "user_books"

type MembershipRepository struct {
	col *mongo.Collection
}

func NewMembershipRepository(db *mongo.Database) *MembershipRepository {
	return &MembershipRepository{col: db.Collection(collectionMemberships)}
}

type mongoMembership struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	User      primitive.ObjectID `bson:"user"`
	Book      primitive.ObjectID `bson:"book"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

// Insert creates a link. The unique (user, book) index turns a concurrent or
// repeated add into domain.ErrAlreadyInLibrary.
func (r *MembershipRepository) Insert(ctx context.Context, userID, bookID string) error {
	userOID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return domain.ErrBookNotFound
	}
	bookOID, err := primitive.ObjectIDFromHex(bookID)
	if err != nil {
		return domain.ErrBookNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	now := time.Now().UTC()
	_, err = r.col.InsertOne(ctx, mongoMembership{
		User:      userOID,
		Book:      bookOID,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrAlreadyInLibrary
		}
		return err
	}
	return nil
}

func (r *MembershipRepository) Delete(ctx context.Context, userID, bookID string) error {
	userOID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return domain.ErrNotInLibrary
	}
	bookOID, err := primitive.ObjectIDFromHex(bookID)
	if err != nil {
		return domain.ErrNotInLibrary
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"user": userOID, "book": bookOID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotInLibrary
	}
	return nil
}

// ListByUser returns the user's links, most recently added first.
func (r *MembershipRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Membership, error) {
	userOID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return []*domain.Membership{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"user": userOID}, opts)
	if err != nil {
		return nil, err
	}
	var docs []mongoMembership
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	links := make([]*domain.Membership, 0, len(docs))
	for _, d := range docs {
		links = append(links, &domain.Membership{
			ID:        d.ID.Hex(),
			UserID:    d.User.Hex(),
			BookID:    d.Book.Hex(),
			CreatedAt: d.CreatedAt.UTC(),
		})
	}
	return links, nil
}

// DeleteByBook removes every link referencing the book. Zero matches is fine.
func (r *MembershipRepository) DeleteByBook(ctx context.Context, bookID string) error {
	bookOID, err := primitive.ObjectIDFromHex(bookID)
	if err != nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err = r.col.DeleteMany(ctx, bson.M{"book": bookOID})
	return err
}

// EnsureIndexes creates the unique (user, book) index that serializes
// concurrent duplicate adds.
func (r *MembershipRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user", Value: 1}, {Key: "book", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
