package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/openshelf/digital-library/internal/core/domain"
)

const collectionResetCodes = "otps"

type ResetCodeRepository struct {
	col *mongo.Collection
}

func NewResetCodeRepository(db *mongo.Database) *ResetCodeRepository {
	return &ResetCodeRepository{col: db.Collection(collectionResetCodes)}
}

type mongoResetCode struct {
	Email     string    `bson:"email"`
	Code      string    `bson:"otp"`
	ExpiresAt time.Time `bson:"expiresAt"`
}

// Upsert replaces any live code for the email, so codes never accumulate.
func (r *ResetCodeRepository) Upsert(ctx context.Context, code *domain.ResetCode) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.UpdateOne(ctx,
		bson.M{"email": code.Email},
		bson.M{"$set": bson.M{"otp": code.Code, "expiresAt": code.ExpiresAt}},
		options.Update().SetUpsert(true),
	)
	return err
}

func (r *ResetCodeRepository) Find(ctx context.Context, email string) (*domain.ResetCode, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoResetCode
	if err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrResetCodeInvalid
		}
		return nil, err
	}
	return &domain.ResetCode{
		Email:     doc.Email,
		Code:      doc.Code,
		ExpiresAt: doc.ExpiresAt.UTC(),
	}, nil
}

func (r *ResetCodeRepository) Delete(ctx context.Context, email string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.DeleteOne(ctx, bson.M{"email": email})
	return err
}

// EnsureIndexes creates the email lookup index and the TTL index that
// auto-expires stale codes.
func (r *ResetCodeRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}},
		{
			Keys:    bson.D{{Key: "expiresAt", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
