package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/chatcord/chat-api/internal/core/domain"
)

const defaultTimeout = 10 * time.Second

const (
	collectionUsers          = "users"
	collectionFriendRequests = "friendrequests"
	collectionBans           = "bans"
	collectionServers        = "servers"
	collectionMembers        = "servermembers"
	collectionChannels       = "channels"
	collectionMessages       = "messages"
)

// Config captures the minimal settings required to establish a MongoDB connection.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
	// Transactions enables multi-document transactions. It requires a replica
	// set or sharded cluster.
	Transactions bool
}

// Connect establishes a MongoDB client, verifies connectivity with a ping, and
// returns both the client and the selected database. A default timeout is
// applied when none is provided.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(cfg.Database)
	return client, db, nil
}

// Store groups the repositories over one database and implements
// ports.Transactor.
type Store struct {
	client       *mongo.Client
	db           *mongo.Database
	transactions bool
}

func NewStore(client *mongo.Client, db *mongo.Database, transactions bool) *Store {
	return &Store{client: client, db: db, transactions: transactions}
}

func (s *Store) Users() *UserRepository { return NewUserRepository(s.db) }
func (s *Store) FriendRequests() *FriendRequestRepository {
	return NewFriendRequestRepository(s.db)
}
func (s *Store) Bans() *BanRepository         { return NewBanRepository(s.db) }
func (s *Store) Servers() *ServerRepository   { return NewServerRepository(s.db) }
func (s *Store) Members() *MemberRepository   { return NewMemberRepository(s.db) }
func (s *Store) Channels() *ChannelRepository { return NewChannelRepository(s.db) }
func (s *Store) Messages() *MessageRepository { return NewMessageRepository(s.db) }

// WithinTransaction runs fn inside a session transaction when transactions
// are enabled. The session context passed to fn carries the session, so
// repository calls made with it join the transaction. Without transactions
// fn runs directly and earlier writes persist if a later one fails.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if !s.transactions {
		return fn(ctx)
	}

	session, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

// EnsureIndexes creates the unique and lookup indexes every collection
// relies on.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	unique := options.Index().SetUnique(true)
	indexes := map[string][]mongo.IndexModel{
		collectionUsers: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).SetName(indexUserEmail)},
			{Keys: bson.D{{Key: "username", Value: 1}, {Key: "discriminator", Value: 1}}, Options: options.Index().SetUnique(true).SetName(indexUserTag)},
		},
		collectionFriendRequests: {
			{Keys: bson.D{{Key: "pair_key", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "receiver", Value: 1}}},
			{Keys: bson.D{{Key: "sender", Value: 1}}},
		},
		collectionBans: {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "permanent", Value: 1}, {Key: "expires_at", Value: -1}}},
		},
		collectionServers: {
			{Keys: bson.D{{Key: "owner", Value: 1}}},
		},
		collectionMembers: {
			{Keys: bson.D{{Key: "server", Value: 1}, {Key: "user", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "user", Value: 1}}},
		},
		collectionChannels: {
			{Keys: bson.D{{Key: "server", Value: 1}}},
			{Keys: bson.D{{Key: "recipients", Value: 1}}},
		},
		collectionMessages: {
			{Keys: bson.D{{Key: "channel", Value: 1}, {Key: "timestamp", Value: -1}}},
		},
	}

	for coll, models := range indexes {
		if _, err := s.db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("ensure indexes %s: %w", coll, err)
		}
	}
	return nil
}

// objectID parses a hex id. Malformed ids map to domain.ErrInvalidID.
func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, domain.ErrInvalidID
	}
	return oid, nil
}

// objectIDs parses ids, skipping malformed entries.
func objectIDs(ids []string) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			out = append(out, oid)
		}
	}
	return out
}

func hexIDs(oids []primitive.ObjectID) []string {
	out := make([]string, 0, len(oids))
	for _, oid := range oids {
		out = append(out, oid.Hex())
	}
	return out
}
