// Package mongo reads framework records from a MongoDB collection.
//
// Sources are addressed with a regular connection string whose path names
// the database and whose "collection" query parameter names the collection:
//
//	mongodb://localhost:27017/agentscape?collection=frameworks
//
// Documents use the same field names as the JSON dataset format. They are
// returned in _id order so layouts stay stable between loads.
package mongo

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/agentscape/pkg/dataset"
	"github.com/matzehuels/agentscape/pkg/errors"
)

// DefaultCollection is used when the URI has no collection parameter.
const DefaultCollection = "frameworks"

// DefaultTimeout bounds connecting and reading when ctx has no deadline.
const DefaultTimeout = 10 * time.Second

// Source identifies a collection.
type Source struct {
	URI        string // connection string without the collection parameter
	Database   string
	Collection string
}

// IsURI reports whether s looks like a MongoDB connection string.
func IsURI(s string) bool {
	return strings.HasPrefix(s, "mongodb://") || strings.HasPrefix(s, "mongodb+srv://")
}

// ParseURI splits a source URI into connection string, database and
// collection.
func ParseURI(raw string) (Source, error) {
	if !IsURI(raw) {
		return Source{}, errors.New(errors.ErrCodeInvalidInput, "not a mongodb URI: %q", raw)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return Source{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid mongodb URI")
	}

	q := u.Query()
	src := Source{
		Database:   strings.Trim(u.Path, "/"),
		Collection: q.Get("collection"),
	}
	if src.Database == "" {
		return Source{}, errors.New(errors.ErrCodeInvalidInput, "mongodb URI must name a database")
	}
	if src.Collection == "" {
		src.Collection = DefaultCollection
	}
	q.Del("collection")
	u.RawQuery = q.Encode()
	src.URI = u.String()
	return src, nil
}

// String returns the source without credentials, for logs and cache keys.
func (s Source) String() string {
	u, err := url.Parse(s.URI)
	if err != nil {
		return s.Database + "." + s.Collection
	}
	u.User = nil
	u.Path = ""
	u.RawQuery = ""
	return fmt.Sprintf("%s/%s.%s", u.String(), s.Database, s.Collection)
}

// Load reads every document of the collection named by uri.
func Load(ctx context.Context, uri string) ([]dataset.Record, error) {
	src, err := ParseURI(uri)
	if err != nil {
		return nil, err
	}
	return src.Load(ctx)
}

// Load connects, reads all documents, and disconnects.
func (s Source) Load(ctx context.Context) ([]dataset.Record, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultTimeout)
		defer cancel()
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(s.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect to %s", s)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	cur, err := client.Database(s.Database).Collection(s.Collection).
		Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, classify(ctx, err, s)
	}

	var records []dataset.Record
	if err := cur.All(ctx, &records); err != nil {
		return nil, classify(ctx, err, s)
	}
	return records, nil
}

func classify(ctx context.Context, err error, s Source) error {
	if ctx.Err() != nil {
		return errors.Wrap(errors.ErrCodeTimeout, err, "read %s", s)
	}
	return errors.Wrap(errors.ErrCodeNetwork, err, "read %s", s)
}
