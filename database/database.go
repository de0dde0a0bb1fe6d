// Package database - Handles all interaction with ArangoDB
package database

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/arangodb/go-driver/v2/arangodb"
	"github.com/arangodb/go-driver/v2/connection"
	"github.com/cenkalti/backoff"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/relaychat/supportgate/model"
)

var logger = InitLogger() // setup the logger

// DBConnection is the structure that defined the database engine and collections
type DBConnection struct {
	Collections map[string]arangodb.Collection
	Database    arangodb.Database
}

// Define a struct to hold the index definition
type indexConfig struct {
	Collection string
	IdxName    string
	IdxField   string
	Unique     bool
}

var initDone = false          // has the data been initialized
var dbConnection DBConnection // database connection definition

// GetEnvDefault is a convenience function for handling env vars
func GetEnvDefault(key, defVal string) string {
	val, ex := os.LookupEnv(key) // get the env var
	if !ex {                     // not found return default
		return defVal
	}
	return val // return value for env var
}

// InitLogger sets up the Zap Logger to log to the console in a human readable format
func InitLogger() *zap.Logger {
	prodConfig := zap.NewProductionConfig()
	prodConfig.Encoding = "console"
	prodConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	prodConfig.EncoderConfig.EncodeDuration = zapcore.StringDurationEncoder
	logger, _ := prodConfig.Build()
	return logger
}

func dbConnectionConfig(endpoint connection.Endpoint, dbuser string, dbpass string) connection.HttpConfiguration {
	return connection.HttpConfiguration{
		Authentication: connection.NewBasicAuth(dbuser, dbpass),
		Endpoint:       endpoint,
		ContentType:    connection.ApplicationJSON,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: true, // #nosec G402
			},
			DialContext: (&net.Dialer{
				Timeout:   30 * time.Second,
				KeepAlive: 90 * time.Second,
			}).DialContext,
			MaxIdleConns:          100,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
		},
	}
}

// InitializeDatabase is the function for connecting to the db engine, creating the database and collections
func InitializeDatabase() DBConnection {
	const initialInterval = 10 * time.Second
	const maxInterval = 2 * time.Minute

	var db arangodb.Database
	var collections map[string]arangodb.Collection
	const databaseName = "supportgate"

	ctx := context.Background()

	if initDone {
		return dbConnection
	}

	False := false
	True := true
	dbhost := GetEnvDefault("ARANGO_HOST", "localhost")
	dbport := GetEnvDefault("ARANGO_PORT", "8529")
	dbuser := GetEnvDefault("ARANGO_USER", "root")
	dbpass := GetEnvDefault("ARANGO_PASS", "mypassword")
	dburl := GetEnvDefault("ARANGO_URL", "http://"+dbhost+":"+dbport)

	var client arangodb.Client

	//
	// Database connection with backoff retry
	//

	// Configure exponential backoff
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = initialInterval
	bo.MaxInterval = maxInterval
	bo.MaxElapsedTime = 0 // Set to 0 for indefinite retries

	// Retry logic
	err := backoff.RetryNotify(func() error {
		fmt.Println("Attempting to connect to ArangoDB")
		endpoint := connection.NewRoundRobinEndpoints([]string{dburl})
		conn := connection.NewHttpConnection(dbConnectionConfig(endpoint, dbuser, dbpass))

		client = arangodb.NewClient(conn)

		// Ask the version of the server
		versionInfo, err := client.Version(context.Background())
		if err != nil {
			return err
		}

		logger.Sugar().Infof("Database has version '%s' and license '%s'\n", versionInfo.Version, versionInfo.License)
		return nil

	}, bo, func(err error, _ time.Duration) {
		fmt.Printf("Retrying connection to ArangoDB: %v\n", err)
	})

	if err != nil {
		logger.Sugar().Fatalf("Backoff Error %v\n", err)
	}

	//
	// Database creation
	//

	exists := false
	dblist, _ := client.Databases(ctx)

	for _, dbinfo := range dblist {
		if dbinfo.Name() == databaseName {
			exists = true
			break
		}
	}

	if exists {
		var options arangodb.GetDatabaseOptions
		if db, err = client.GetDatabase(ctx, databaseName, &options); err != nil {
			logger.Sugar().Fatalf("Failed to get Database: %v", err)
		}
	} else {
		if db, err = client.CreateDatabase(ctx, databaseName, nil); err != nil {
			logger.Sugar().Fatalf("Failed to create Database: %v", err)
		}
	}

	//
	// Collection creation for document storage
	//

	collections = make(map[string]arangodb.Collection)
	collectionNames := []string{"server", "dispatch"}

	for _, collectionName := range collectionNames {
		var col arangodb.Collection

		exists, _ = db.CollectionExists(ctx, collectionName)
		if exists {
			var options arangodb.GetCollectionOptions
			if col, err = db.GetCollection(ctx, collectionName, &options); err != nil {
				logger.Sugar().Fatalf("Failed to use collection: %v", err)
			}
		} else {
			if col, err = db.CreateCollectionV2(ctx, collectionName, nil); err != nil {
				logger.Sugar().Fatalf("Failed to create collection: %v", err)
			}
		}

		collections[collectionName] = col
	}

	//
	// Index creation
	//

	idxList := []indexConfig{
		// Server collection: one record per workspace server url
		{Collection: "server", IdxName: "server_url_unique", IdxField: "url", Unique: true},
		{Collection: "server", IdxName: "server_workspace_uid", IdxField: "workspace_uid"},
		{Collection: "server", IdxName: "server_supported", IdxField: "supported"},
		{Collection: "server", IdxName: "server_last_checked", IdxField: "last_checked_at"},

		// Dispatch history: supports per-server timelines
		{Collection: "dispatch", IdxName: "dispatch_url", IdxField: "url"},
		{Collection: "dispatch", IdxName: "dispatch_dispatched_at", IdxField: "dispatched_at"},
	}

	for _, idx := range idxList {
		found := false

		if indexes, err := collections[idx.Collection].Indexes(ctx); err == nil {
			for _, index := range indexes {
				if idx.IdxName == index.Name {
					found = true
					break
				}
			}
		}

		if !found {
			unique := &False
			if idx.Unique {
				unique = &True
			}

			indexOptions := arangodb.CreatePersistentIndexOptions{
				Unique: unique,
				Sparse: &False,
				Name:   idx.IdxName,
			}

			_, _, err = collections[idx.Collection].EnsurePersistentIndex(ctx, []string{idx.IdxField}, &indexOptions)
			if err != nil {
				logger.Sugar().Fatalln("Error creating index:", err)
			} else {
				logger.Sugar().Infof("Created index: %s on %s.%s", idx.IdxName, idx.Collection, idx.IdxField)
			}
		}
	}

	// Composite index for dispatch lookup by url + dispatched_at
	dispatchTimelineIdx := "dispatch_url_dispatched_at"
	found := false
	if indexes, err := collections["dispatch"].Indexes(ctx); err == nil {
		for _, index := range indexes {
			if dispatchTimelineIdx == index.Name {
				found = true
				break
			}
		}
	}
	if !found {
		compositeIdxOptions := arangodb.CreatePersistentIndexOptions{
			Unique: &False,
			Sparse: &False,
			Name:   dispatchTimelineIdx,
		}
		_, _, err = collections["dispatch"].EnsurePersistentIndex(ctx, []string{"url", "dispatched_at"}, &compositeIdxOptions)
		if err != nil {
			logger.Sugar().Fatalln("Error creating composite index:", err)
		} else {
			logger.Sugar().Infof("Created composite index: %s on dispatch", dispatchTimelineIdx)
		}
	}

	initDone = true

	dbConnection = DBConnection{
		Database:    db,
		Collections: collections,
	}

	logger.Sugar().Infof("Database initialization complete")

	return dbConnection
}

// FindServerByURL returns the stored server record for a url, or nil when the
// server has not been registered.
func FindServerByURL(ctx context.Context, db arangodb.Database, url string) (*model.Server, error) {
	query := `
		FOR s IN server
			FILTER s.url == @url
			LIMIT 1
			RETURN s
	`
	bindVars := map[string]interface{}{
		"url": url,
	}

	cursor, err := db.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: bindVars,
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	if cursor.HasMore() {
		var server model.Server
		meta, err := cursor.ReadDocument(ctx, &server)
		if err != nil {
			return nil, err
		}
		server.Key = meta.Key
		return &server, nil
	}

	return nil, nil
}

// UpsertServer inserts or updates the server record keyed by url.
func UpsertServer(ctx context.Context, db arangodb.Database, server *model.Server) error {
	query := `
		UPSERT { url: @doc.url }
			INSERT @doc
			UPDATE @doc
			IN server
	`
	bindVars := map[string]interface{}{
		"doc": server,
	}

	cursor, err := db.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: bindVars,
	})
	if err != nil {
		return err
	}
	return cursor.Close()
}

// ListServers returns all registered servers ordered by url.
func ListServers(ctx context.Context, db arangodb.Database) ([]model.Server, error) {
	query := `
		FOR s IN server
			SORT s.url
			RETURN s
	`

	cursor, err := db.Query(ctx, query, nil)
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	servers := []model.Server{}
	for cursor.HasMore() {
		var server model.Server
		meta, err := cursor.ReadDocument(ctx, &server)
		if err != nil {
			return nil, err
		}
		server.Key = meta.Key
		servers = append(servers, server)
	}

	return servers, nil
}

// SaveDispatchRecord appends one dispatch-history entry.
func SaveDispatchRecord(ctx context.Context, db arangodb.Database, record *model.DispatchRecord) error {
	query := `
		INSERT @doc IN dispatch
	`
	bindVars := map[string]interface{}{
		"doc": record,
	}

	cursor, err := db.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: bindVars,
	})
	if err != nil {
		return err
	}
	return cursor.Close()
}

// ListDispatchHistory returns the dispatch timeline for a server, newest
// first, capped at limit entries.
func ListDispatchHistory(ctx context.Context, db arangodb.Database, url string, limit int) ([]model.DispatchRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		FOR d IN dispatch
			FILTER d.url == @url
			SORT d.dispatched_at DESC
			LIMIT @limit
			RETURN d
	`
	bindVars := map[string]interface{}{
		"url":   url,
		"limit": limit,
	}

	cursor, err := db.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: bindVars,
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	records := []model.DispatchRecord{}
	for cursor.HasMore() {
		var record model.DispatchRecord
		if _, err := cursor.ReadDocument(ctx, &record); err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, nil
}
