// package main provides the entry point for the supportgate microservice: the
// supported-versions backend that registers chat workspace servers, evaluates
// their support and license expiration state, and serves the REST and GraphQL
// APIs.
package main

import (
	"context"
	"log"
	"os"
	"strings"

	"github.com/relaychat/supportgate/database"
	supportevents "github.com/relaychat/supportgate/events/modules/support"
	"github.com/relaychat/supportgate/internal/api"
	"github.com/relaychat/supportgate/internal/i18n"
	"github.com/relaychat/supportgate/internal/kafka"
	"github.com/relaychat/supportgate/internal/policy"
	"github.com/relaychat/supportgate/internal/services"
	"github.com/relaychat/supportgate/internal/support"
	"github.com/relaychat/supportgate/internal/token"
)

func main() {
	logger := database.InitLogger()

	// Initialize database connection
	db := database.InitializeDatabase()

	// Policy token verification against the pinned public key
	verifier, err := token.NewVerifier()
	if err != nil {
		log.Fatalf("Failed to load policy public key: %v", err)
	}

	// Policy resolution: built-in baseline, server-reported, cloud
	cloud := policy.NewCloudHTTPClient(database.GetEnvDefault("CLOUD_RELEASES_URL", "https://releases.relay.chat"))
	policyFile := database.GetEnvDefault("SUPPORT_POLICY_FILE", "/etc/supportgate/supportedVersions.jwt")
	resolver := policy.NewResolver(verifier, cloud, logger, policyFile)

	// Expiration message dispatch: Kafka when brokers are configured,
	// direct store writes otherwise
	store := &services.ServerStoreWrapper{DB: db}
	dispatcher := &services.MessageDispatcher{Store: store}
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		topic := database.GetEnvDefault("KAFKA_SUPPORT_TOPIC", "support-events")
		dispatcher.Producer = supportevents.NewProducer(strings.Split(brokers, ","), topic)
		defer dispatcher.Producer.Close()
	}

	// Support evaluation
	language := database.GetEnvDefault("SUPPORT_LANGUAGE", i18n.DefaultLanguage)
	evaluator := support.NewEvaluator(resolver, dispatcher, language, logger)

	// Optional dictionary overrides from a mounted YAML file
	if dictFile := os.Getenv("SUPPORT_I18N_FILE"); dictFile != "" {
		dict, err := i18n.LoadDictionaryFile(dictFile)
		if err != nil {
			log.Printf("Failed to load i18n file %s: %v", dictFile, err)
		} else {
			evaluator.Dictionary = dict
		}
	}

	// Kafka event processor applies dispatched updates to the registry
	ctx := context.Background()
	if err := kafka.RunEventProcessor(ctx, db); err != nil {
		log.Printf("Kafka event processor unavailable: %v", err)
	}

	app := api.NewFiberApp(db, resolver, evaluator)

	// Get port from environment or default to 3000
	port := os.Getenv("MS_PORT")
	if port == "" {
		port = "3000"
	}

	log.Printf("Starting server on port %s", port)
	log.Printf("GraphQL endpoint available at /api/v1/graphql")
	log.Printf("Admin endpoints available at /api/v1/admin/*")
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
