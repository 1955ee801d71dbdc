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
	"github.com/chatcord/chat-api/internal/core/ports"
)

// ChannelRepository implements ports.ChannelRepository using MongoDB.
type ChannelRepository struct {
	coll *mongo.Collection
}

func NewChannelRepository(db *mongo.Database) *ChannelRepository {
	return &ChannelRepository{coll: db.Collection(collectionChannels)}
}

type channelDoc struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty"`
	Type        string               `bson:"type"`
	Server      *primitive.ObjectID  `bson:"server,omitempty"`
	Recipients  []primitive.ObjectID `bson:"recipients,omitempty"`
	Name        string               `bson:"name,omitempty"`
	LastMessage *primitive.ObjectID  `bson:"last_message_id,omitempty"`
	Icon        string               `bson:"icon,omitempty"`
	Owner       *primitive.ObjectID  `bson:"owner,omitempty"`
}

func optionalID(id string) *primitive.ObjectID {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}
	return &oid
}

func optionalHex(oid *primitive.ObjectID) string {
	if oid == nil {
		return ""
	}
	return oid.Hex()
}

func toChannelDoc(ch *domain.Channel) channelDoc {
	return channelDoc{
		Type:        string(ch.Type),
		Server:      optionalID(ch.ServerID),
		Recipients:  objectIDs(ch.Recipients),
		Name:        ch.Name,
		LastMessage: optionalID(ch.LastMessageID),
		Icon:        ch.Icon,
		Owner:       optionalID(ch.OwnerID),
	}
}

func (d *channelDoc) toDomain() *domain.Channel {
	ch := &domain.Channel{
		ID:            d.ID.Hex(),
		Type:          domain.ChannelType(d.Type),
		ServerID:      optionalHex(d.Server),
		Name:          d.Name,
		LastMessageID: optionalHex(d.LastMessage),
		Icon:          d.Icon,
		OwnerID:       optionalHex(d.Owner),
	}
	if len(d.Recipients) > 0 {
		ch.Recipients = hexIDs(d.Recipients)
	}
	return ch
}

func (r *ChannelRepository) Create(ctx context.Context, ch *domain.Channel) (*domain.Channel, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toChannelDoc(ch)
	doc.ID = primitive.NewObjectID()
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert channel: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ChannelRepository) findOne(ctx context.Context, filter bson.M) (*domain.Channel, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc channelDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrChannelNotFound
		}
		return nil, fmt.Errorf("find channel: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ChannelRepository) FindByID(ctx context.Context, id string) (*domain.Channel, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *ChannelRepository) FindDM(ctx context.Context, a, b string) (*domain.Channel, error) {
	aID, err := objectID(a)
	if err != nil {
		return nil, err
	}
	bID, err := objectID(b)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{
		"type":       string(domain.ChannelDM),
		"recipients": bson.M{"$all": bson.A{aID, bID}, "$size": 2},
	})
}

func (r *ChannelRepository) ListByServer(ctx context.Context, serverID string) ([]*domain.Channel, error) {
	oid, err := objectID(serverID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := r.coll.Find(ctx, bson.M{"server": oid}, opts)
	if err != nil {
		return nil, fmt.Errorf("list channels: %w", err)
	}
	var docs []channelDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode channels: %w", err)
	}

	out := make([]*domain.Channel, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

func (r *ChannelRepository) SetLastMessage(ctx context.Context, channelID, messageID string) error {
	oid, err := objectID(channelID)
	if err != nil {
		return err
	}
	msgID, err := objectID(messageID)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateByID(ctx, oid, bson.M{"$set": bson.M{"last_message_id": msgID}})
	if err != nil {
		return fmt.Errorf("set last message: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrChannelNotFound
	}
	return nil
}

func (r *ChannelRepository) DeleteByServer(ctx context.Context, serverID string) error {
	oid, err := objectID(serverID)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.coll.DeleteMany(ctx, bson.M{"server": oid}); err != nil {
		return fmt.Errorf("delete channels: %w", err)
	}
	return nil
}

// MessageRepository implements ports.MessageRepository using MongoDB.
type MessageRepository struct {
	coll *mongo.Collection
}

func NewMessageRepository(db *mongo.Database) *MessageRepository {
	return &MessageRepository{coll: db.Collection(collectionMessages)}
}

type messageDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Channel   primitive.ObjectID `bson:"channel"`
	Author    primitive.ObjectID `bson:"author"`
	Content   string             `bson:"content"`
	Timestamp time.Time          `bson:"timestamp"`
}

func (d *messageDoc) toDomain() *domain.Message {
	return &domain.Message{
		ID:        d.ID.Hex(),
		ChannelID: d.Channel.Hex(),
		AuthorID:  d.Author.Hex(),
		Content:   d.Content,
		Timestamp: d.Timestamp.UTC(),
	}
}

func (r *MessageRepository) Create(ctx context.Context, msg *domain.Message) (*domain.Message, error) {
	channel, err := objectID(msg.ChannelID)
	if err != nil {
		return nil, err
	}
	author, err := objectID(msg.AuthorID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := messageDoc{
		ID:        primitive.NewObjectID(),
		Channel:   channel,
		Author:    author,
		Content:   msg.Content,
		Timestamp: msg.Timestamp,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}
	return doc.toDomain(), nil
}

// historyFilter builds the page filter for q.
func historyFilter(channel primitive.ObjectID, q ports.MessageQuery) bson.M {
	filter := bson.M{"channel": channel}
	if !q.Before.IsZero() {
		filter["timestamp"] = bson.M{"$lt": q.Before.UTC()}
	}
	return filter
}

func (r *MessageRepository) List(ctx context.Context, q ports.MessageQuery) ([]*domain.Message, error) {
	channel, err := objectID(q.ChannelID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}
	cur, err := r.coll.Find(ctx, historyFilter(channel, q), opts)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	var docs []messageDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode messages: %w", err)
	}

	out := make([]*domain.Message, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

func (r *MessageRepository) DeleteByChannels(ctx context.Context, channelIDs []string) error {
	oids := objectIDs(channelIDs)
	if len(oids) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.coll.DeleteMany(ctx, bson.M{"channel": bson.M{"$in": oids}}); err != nil {
		return fmt.Errorf("delete messages: %w", err)
	}
	return nil
}
