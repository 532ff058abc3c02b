// Package mongodb wraps the official MongoDB driver behind a small client
// that is constructed from pkg/options/mongodb Options.
package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	mongoopts "go.mongodb.org/mongo-driver/mongo/options"

	mongodboptions "github.com/tablewise/boardcorpus/pkg/options/mongodb"
)

// Client wraps mongo.Client together with the default database resolved from
// the options. The underlying driver stays reachable through Raw for
// operations the wrapper does not expose.
type Client struct {
	client   *mongo.Client
	database *mongo.Database
	opts     *mongodboptions.Options
}

// New creates a new MongoDB client from the provided options.
func New(opts *mongodboptions.Options) (*Client, error) {
	return NewWithContext(context.Background(), opts)
}

// NewWithContext creates a new MongoDB client with context support.
// The context bounds connection establishment and the initial ping.
func NewWithContext(ctx context.Context, opts *mongodboptions.Options) (*Client, error) {
	if opts == nil {
		return nil, fmt.Errorf("mongodb options cannot be nil")
	}

	if errs := opts.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("invalid mongodb options: %v", errs)
	}

	uri := mongodboptions.BuildURI(opts)

	clientOpts := mongoopts.Client().ApplyURI(uri)
	if opts.MaxPoolSize > 0 {
		clientOpts.SetMaxPoolSize(opts.MaxPoolSize)
	}
	if opts.MinPoolSize > 0 {
		clientOpts.SetMinPoolSize(opts.MinPoolSize)
	}
	if opts.ConnectTimeout > 0 {
		clientOpts.SetConnectTimeout(opts.ConnectTimeout)
	}
	if opts.SocketTimeout > 0 {
		clientOpts.SetSocketTimeout(opts.SocketTimeout)
	}
	if opts.ServerSelectionTimeout > 0 {
		clientOpts.SetServerSelectionTimeout(opts.ServerSelectionTimeout)
	}

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	var db *mongo.Database
	if opts.Database != "" {
		db = client.Database(opts.Database)
	}

	return &Client{
		client:   client,
		database: db,
		opts:     opts,
	}, nil
}

// Ping checks if the connection to MongoDB is alive.
func (c *Client) Ping(ctx context.Context) error {
	if c.client == nil {
		return fmt.Errorf("client is nil")
	}
	return c.client.Ping(ctx, nil)
}

// Close closes the MongoDB connection gracefully.
// Safe to call multiple times.
func (c *Client) Close() error {
	if c.client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return c.client.Disconnect(ctx)
}

// Database returns the default database.
// If no database was specified in options, this returns nil.
func (c *Client) Database() *mongo.Database {
	return c.database
}

// Collection returns a collection from the default database.
// Panics if no default database was set.
func (c *Client) Collection(name string) *mongo.Collection {
	if c.database == nil {
		panic("no default database set")
	}
	return c.database.Collection(name)
}

// Raw returns the underlying mongo.Client for operations not exposed by the
// wrapper.
func (c *Client) Raw() *mongo.Client {
	return c.client
}
