package main

import (
	"context"
	"log/slog"
	"os"
	"strconv"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awsses "github.com/aws/aws-sdk-go-v2/service/ses"
	awssqs "github.com/aws/aws-sdk-go-v2/service/sqs"
	awsssm "github.com/aws/aws-sdk-go-v2/service/ssm"

	"dining-concierge/handler"
	"dining-concierge/internal/integrations/paramstore"
	"dining-concierge/internal/integrations/searchindex"
	"dining-concierge/internal/integrations/sesmail"
	"dining-concierge/internal/integrations/sqsqueue"
	"dining-concierge/internal/repository"
	"dining-concierge/internal/usecase"
)

func main() {
	ctx := context.Background()

	// ---- Configuration (read only here) ----
	queueURL := mustEnv("QUEUE_URL")
	searchEndpoint := mustEnv("SEARCH_ENDPOINT")
	restaurantsTable := mustEnv("RESTAURANTS_TABLE")
	preferencesTable := mustEnv("PREFERENCES_TABLE")
	paramPrefix := mustEnv("PARAM_PREFIX")
	senderEmail := mustEnv("SENDER_EMAIL")
	visibilityTimeout := envInt("VISIBILITY_TIMEOUT_SECONDS", 60)

	// ---- AWS SDK config ----
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		slog.Error("failed to load AWS config", "err", err)
		os.Exit(1)
	}

	// ---- Clients ----
	ssmClient, err := paramstore.New(awsssm.NewFromConfig(cfg))
	if err != nil {
		slog.Error("failed to create SSM client", "err", err)
		os.Exit(1)
	}
	queue, err := sqsqueue.New(awssqs.NewFromConfig(cfg), queueURL, int32(visibilityTimeout))
	if err != nil {
		slog.Error("failed to create queue client", "err", err)
		os.Exit(1)
	}
	search, err := searchindex.NewClient(ssmClient, paramPrefix, searchEndpoint)
	if err != nil {
		slog.Error("failed to create search client", "err", err)
		os.Exit(1)
	}
	dynamoClient := awsdynamodb.NewFromConfig(cfg)
	restaurants, err := repository.NewRestaurantStore(dynamoClient, restaurantsTable)
	if err != nil {
		slog.Error("failed to create restaurant store", "err", err)
		os.Exit(1)
	}
	preferences, err := repository.NewPreferenceStore(dynamoClient, preferencesTable)
	if err != nil {
		slog.Error("failed to create preference store", "err", err)
		os.Exit(1)
	}
	notifier, err := sesmail.New(awsses.NewFromConfig(cfg), senderEmail)
	if err != nil {
		slog.Error("failed to create notifier", "err", err)
		os.Exit(1)
	}

	// ---- Handler ----
	recommender, err := usecase.NewRecommendService(search, restaurants, notifier, nil)
	if err != nil {
		slog.Error("failed to create recommend service", "err", err)
		os.Exit(1)
	}
	fulfillmentService, err := usecase.NewFulfillmentService(queue, recommender, preferences)
	if err != nil {
		slog.Error("failed to create fulfillment service", "err", err)
		os.Exit(1)
	}
	h, err := handler.NewWorkerHandler(fulfillmentService)
	if err != nil {
		slog.Error("failed to create handler", "err", err)
		os.Exit(1)
	}

	lambda.Start(h.Handle)
}

func mustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		slog.Error("required environment variable is not set", "key", key)
		os.Exit(1)
	}
	return v
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
