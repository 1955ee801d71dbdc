package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/chatcord/chat-api/internal/core/domain"
)

// BanRepository implements ports.BanRepository using MongoDB.
type BanRepository struct {
	coll *mongo.Collection
}

func NewBanRepository(db *mongo.Database) *BanRepository {
	return &BanRepository{coll: db.Collection(collectionBans)}
}

type banDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    primitive.ObjectID `bson:"user_id"`
	Reason    string             `bson:"reason"`
	IssuedAt  time.Time          `bson:"issued_at"`
	ExpiresAt *time.Time         `bson:"expires_at,omitempty"`
	Permanent bool               `bson:"permanent"`
}

func (d *banDoc) toDomain() *domain.Ban {
	b := &domain.Ban{
		ID:        d.ID.Hex(),
		UserID:    d.UserID.Hex(),
		Reason:    d.Reason,
		IssuedAt:  d.IssuedAt.UTC(),
		Permanent: d.Permanent,
	}
	if d.ExpiresAt != nil {
		t := d.ExpiresAt.UTC()
		b.ExpiresAt = &t
	}
	return b
}

func (r *BanRepository) Create(ctx context.Context, ban *domain.Ban) (*domain.Ban, error) {
	userID, err := objectID(ban.UserID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := banDoc{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Reason:    ban.Reason,
		IssuedAt:  ban.IssuedAt,
		ExpiresAt: ban.ExpiresAt,
		Permanent: ban.Permanent,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert ban: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *BanRepository) findOne(ctx context.Context, filter bson.M, opts ...*options.FindOneOptions) (*domain.Ban, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc banDoc
	if err := r.coll.FindOne(ctx, filter, opts...).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("find ban: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *BanRepository) FindPermanent(ctx context.Context, userID string) (*domain.Ban, error) {
	oid, err := objectID(userID)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"user_id": oid, "permanent": true})
}

func (r *BanRepository) FindLatestTemporary(ctx context.Context, userID string, now time.Time) (*domain.Ban, error) {
	oid, err := objectID(userID)
	if err != nil {
		return nil, err
	}
	filter := bson.M{
		"user_id":    oid,
		"permanent":  false,
		"expires_at": bson.M{"$gt": now.UTC()},
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "expires_at", Value: -1}})
	return r.findOne(ctx, filter, opts)
}

func (r *BanRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Ban, error) {
	oid, err := objectID(userID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "issued_at", Value: -1}})
	cur, err := r.coll.Find(ctx, bson.M{"user_id": oid}, opts)
	if err != nil {
		return nil, fmt.Errorf("list bans: %w", err)
	}
	var docs []banDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode bans: %w", err)
	}

	out := make([]*domain.Ban, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}
