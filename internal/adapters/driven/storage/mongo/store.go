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
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"

	"github.com/gachadex/catalogsync/internal/core/domain"
	"github.com/gachadex/catalogsync/internal/core/ports/driven"
)

const (
	// DefaultDatabase is used when neither settings nor the URI name one.
	DefaultDatabase = "test"

	// ConnectTimeout bounds the initial connection and ping.
	ConnectTimeout = 10 * time.Second

	// DisconnectTimeout bounds Close.
	DisconnectTimeout = 5 * time.Second
)

// Ensure Store implements the interface.
var _ driven.Database = (*Store)(nil)

// Store is a MongoDB-backed record database.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect opens a connection to uri and verifies it with a ping.
// If database is empty, the database named in the URI is used.
func Connect(ctx context.Context, uri, database string) (*Store, error) {
	if uri == "" {
		return nil, fmt.Errorf("%w: database URL not set", domain.ErrMissingConfig)
	}

	name, err := databaseName(uri, database)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connecting to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("pinging mongo: %w", err)
	}

	return &Store{client: client, db: client.Database(name)}, nil
}

// Close disconnects from the server.
func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), DisconnectTimeout)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// Collection returns a RecordStore for the named collection keyed on keyField.
func (s *Store) Collection(name, keyField string) driven.RecordStore {
	return &recordStore{coll: s.db.Collection(name), keyField: keyField}
}

// databaseName picks the explicit name, then the URI's, then the default.
func databaseName(uri, database string) (string, error) {
	if database != "" {
		return database, nil
	}
	cs, err := connstring.ParseAndValidate(uri)
	if err != nil {
		return "", fmt.Errorf("%w: parsing database URL: %w", domain.ErrInvalidInput, err)
	}
	if cs.Database != "" {
		return cs.Database, nil
	}
	return DefaultDatabase, nil
}

// recordStore implements driven.RecordStore for one collection.
type recordStore struct {
	coll     *mongo.Collection
	keyField string
}

var _ driven.RecordStore = (*recordStore)(nil)

// UpsertByKey replaces the document matching key, inserting it if absent.
func (s *recordStore) UpsertByKey(ctx context.Context, key domain.Key, payload domain.Fields) (*domain.Document, error) {
	opts := options.FindOneAndReplace().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var raw bson.M
	err := s.coll.FindOneAndReplace(ctx, keyFilter(s.keyField, key), replacement(s.keyField, key, payload), opts).Decode(&raw)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("upserting document: %w", err)
	}
	return toDocument(s.keyField, key, raw)
}

// FindByKey retrieves the document matching key.
func (s *recordStore) FindByKey(ctx context.Context, key domain.Key) (*domain.Document, error) {
	var raw bson.M
	err := s.coll.FindOne(ctx, keyFilter(s.keyField, key)).Decode(&raw)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("finding document: %w", err)
	}
	return toDocument(s.keyField, key, raw)
}

// keyValue stores numeric keys as integers and everything else as strings.
func keyValue(key domain.Key) any {
	if n, ok := key.Int(); ok {
		return n
	}
	return key.String()
}

func keyFilter(keyField string, key domain.Key) bson.D {
	return bson.D{{Key: keyField, Value: keyValue(key)}}
}

// replacement builds the document body written on upsert. It never carries
// an _id, so the server keeps or assigns its own.
func replacement(keyField string, key domain.Key, payload domain.Fields) bson.M {
	doc := make(bson.M, len(payload)+1)
	for k, v := range payload {
		if k == domain.IDField {
			continue
		}
		doc[k] = v
	}
	doc[keyField] = keyValue(key)
	return doc
}

// toDocument converts a raw BSON document into a domain document.
func toDocument(keyField string, key domain.Key, raw bson.M) (*domain.Document, error) {
	id, err := decodeID(raw[domain.IDField])
	if err != nil {
		return nil, err
	}

	fields := make(domain.Fields, len(raw))
	for k, v := range raw {
		if k == domain.IDField || k == keyField {
			continue
		}
		fields[k] = v
	}

	return &domain.Document{Key: key, ID: id, Fields: fields}, nil
}

// decodeID renders a BSON _id as an opaque domain ID.
func decodeID(v any) (domain.ID, error) {
	switch id := v.(type) {
	case primitive.ObjectID:
		return domain.ID(id.Hex()), nil
	case string:
		return domain.ID(id), nil
	case nil:
		return "", fmt.Errorf("%w: document has no _id", domain.ErrInvalidInput)
	default:
		return domain.ID(fmt.Sprint(id)), nil
	}
}
