package mongo

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/turbolytics/rowset/internal"
	"github.com/turbolytics/rowset/pkg/result"
	"github.com/turbolytics/rowset/pkg/row"
)

type Option func(*Source)

func WithLogger(l *zap.Logger) Option {
	return func(s *Source) {
		s.logger = l
	}
}

func WithKeyStyle(style row.KeyStyle) Option {
	return func(s *Source) {
		s.style = style
	}
}

// Source snapshots a mongo collection. Documents are flattened into rows
// using the field order of the first document seen.
type Source struct {
	client *mongo.Client
	logger *zap.Logger

	database   string
	collection string
	style      row.KeyStyle
}

func NewSource(ctx context.Context, uri string, database string, collection string, opts ...Option) (*Source, error) {
	s := &Source{
		logger:     zap.NewNop(),
		database:   database,
		collection: collection,
		style:      row.DefaultKeyStyle,
	}

	for _, opt := range opts {
		opt(s)
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	s.client = client
	s.logger.Info("connected to mongodb",
		zap.String("database", database),
		zap.String("collection", collection),
	)

	return s, nil
}

func (s *Source) Name() string {
	return fmt.Sprintf("%s.%s", s.database, s.collection)
}

func (s *Source) Count(ctx context.Context) (int, error) {
	n, err := s.client.Database(s.database).Collection(s.collection).CountDocuments(ctx, bson.D{})
	return int(n), err
}

func (s *Source) Snapshot(ctx context.Context) (internal.Snapshot, error) {
	coll := s.client.Database(s.database).Collection(s.collection)

	// A stable sort keeps reruns aligned with the metadata derived from
	// the first document.
	cursor, err := coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}

	return &Snapshot{
		cursor: cursor,
		name:   s.Name(),
		style:  s.style,
		logger: s.logger,
	}, nil
}

func (s *Source) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Snapshot streams the documents of one collection scan as rows.
type Snapshot struct {
	cursor *mongo.Cursor
	name   string
	style  row.KeyStyle
	logger *zap.Logger

	meta *result.Metadata
	keys []string
}

func (s *Snapshot) Columns() []string {
	if s.meta == nil {
		return nil
	}
	return s.meta.Keys()
}

func (s *Snapshot) Query() string {
	return fmt.Sprintf("%s.find({})", s.name)
}

func (s *Snapshot) Next(ctx context.Context) (*row.Row, error) {
	if !s.cursor.Next(ctx) {
		if err := s.cursor.Err(); err != nil {
			return nil, err
		}
		return nil, io.EOF
	}

	var doc bson.D
	if err := s.cursor.Decode(&doc); err != nil {
		return nil, err
	}

	if s.meta == nil {
		s.initMetadata(doc)
	}

	byName := make(map[string]any, len(doc))
	for _, e := range doc {
		byName[e.Key] = e.Value
	}

	// Fields missing from a later document surface as nil values.
	values := make([]any, len(s.keys))
	for i, k := range s.keys {
		values[i] = byName[k]
	}

	return row.New(s.meta, nil, s.meta.KeyIndex(), s.style, values), nil
}

func (s *Snapshot) initMetadata(doc bson.D) {
	columns := make([]*result.Column, len(doc))
	s.keys = make([]string, len(doc))
	for i, e := range doc {
		columns[i] = &result.Column{Name: e.Key, Type: fmt.Sprintf("%T", e.Value)}
		s.keys[i] = e.Key
	}
	s.meta = result.NewMetadata(columns, result.MetadataWithLogger(s.logger))
}

func (s *Snapshot) Close(ctx context.Context) error {
	return s.cursor.Close(ctx)
}
