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

// FriendRequestRepository implements ports.FriendRequestRepository. The
// unique pair_key index keeps one pending request per unordered pair.
type FriendRequestRepository struct {
	coll *mongo.Collection
}

func NewFriendRequestRepository(db *mongo.Database) *FriendRequestRepository {
	return &FriendRequestRepository{coll: db.Collection(collectionFriendRequests)}
}

type friendRequestDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Sender    primitive.ObjectID `bson:"sender"`
	Receiver  primitive.ObjectID `bson:"receiver"`
	PairKey   string             `bson:"pair_key"`
	CreatedAt time.Time          `bson:"created_at"`
}

func (d *friendRequestDoc) toDomain() *domain.FriendRequest {
	return &domain.FriendRequest{
		ID:         d.ID.Hex(),
		SenderID:   d.Sender.Hex(),
		ReceiverID: d.Receiver.Hex(),
		CreatedAt:  d.CreatedAt.UTC(),
	}
}

func (r *FriendRequestRepository) Create(ctx context.Context, req *domain.FriendRequest) (*domain.FriendRequest, error) {
	sender, err := objectID(req.SenderID)
	if err != nil {
		return nil, err
	}
	receiver, err := objectID(req.ReceiverID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := friendRequestDoc{
		ID:        primitive.NewObjectID(),
		Sender:    sender,
		Receiver:  receiver,
		PairKey:   domain.PairKey(req.SenderID, req.ReceiverID),
		CreatedAt: req.CreatedAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrFriendRequestExists
		}
		return nil, fmt.Errorf("insert friend request: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *FriendRequestRepository) findOne(ctx context.Context, filter bson.M) (*domain.FriendRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc friendRequestDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrFriendRequestNotFound
		}
		return nil, fmt.Errorf("find friend request: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *FriendRequestRepository) FindByID(ctx context.Context, id string) (*domain.FriendRequest, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *FriendRequestRepository) FindBetween(ctx context.Context, a, b string) (*domain.FriendRequest, error) {
	return r.findOne(ctx, bson.M{"pair_key": domain.PairKey(a, b)})
}

func (r *FriendRequestRepository) list(ctx context.Context, field, userID string) ([]*domain.FriendRequest, error) {
	oid, err := objectID(userID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, bson.M{field: oid}, options.Find().SetSort(pendingOrder))
	if err != nil {
		return nil, fmt.Errorf("list friend requests: %w", err)
	}
	var docs []friendRequestDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode friend requests: %w", err)
	}

	out := make([]*domain.FriendRequest, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

// pendingOrder lists pending requests newest first.
var pendingOrder = bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}

func (r *FriendRequestRepository) ListByReceiver(ctx context.Context, receiverID string) ([]*domain.FriendRequest, error) {
	return r.list(ctx, "receiver", receiverID)
}

func (r *FriendRequestRepository) ListBySender(ctx context.Context, senderID string) ([]*domain.FriendRequest, error) {
	return r.list(ctx, "sender", senderID)
}

func (r *FriendRequestRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete friend request: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrFriendRequestNotFound
	}
	return nil
}

func (r *FriendRequestRepository) DeleteBetween(ctx context.Context, a, b string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.coll.DeleteMany(ctx, bson.M{"pair_key": domain.PairKey(a, b)}); err != nil {
		return fmt.Errorf("delete friend requests: %w", err)
	}
	return nil
}

func (r *FriendRequestRepository) DeleteInvolving(ctx context.Context, userID string) error {
	oid, err := objectID(userID)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"$or": bson.A{bson.M{"sender": oid}, bson.M{"receiver": oid}}}
	if _, err := r.coll.DeleteMany(ctx, filter); err != nil {
		return fmt.Errorf("delete friend requests: %w", err)
	}
	return nil
}
