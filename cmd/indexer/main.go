package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/uslugo/backend/internal/adapters/database"
	"github.com/uslugo/backend/internal/adapters/search"
	"github.com/uslugo/backend/internal/application/services"
	"github.com/uslugo/backend/internal/domain/entities"
	"github.com/uslugo/backend/internal/domain/repositories"
	"github.com/uslugo/backend/internal/infrastructure/clients/openai"
	"github.com/uslugo/backend/internal/infrastructure/clients/postgres"
	"github.com/uslugo/backend/internal/infrastructure/clients/typesense"
	"github.com/uslugo/backend/internal/infrastructure/observability"
	"github.com/uslugo/backend/pkg/config"
	"github.com/uslugo/backend/pkg/retry"
	"github.com/uslugo/backend/pkg/vectors"
)

// embedBatchSize is how many listings are sent per embedding request.
// OpenAI accepts far larger batches but small ones keep failure blast
// radius and retry cost down.
const embedBatchSize = 10

func main() {
	batchLimit := flag.Int("limit", 500, "maximum listings to embed in this run")
	dryRun := flag.Bool("dry-run", false, "report pending listings without calling the embedding API")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	env := os.Getenv("ENV")
	if env == "" {
		env = "production"
	}
	observability.InitLogger(cfg.OTEL.ServiceName+"-indexer", env)

	if cfg.OpenAI.APIKey == "" {
		log.Fatal("OPENAI_API_KEY is required for the indexer")
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize PostgreSQL client: %v", err)
	}
	defer pgClient.Close()

	openaiClient, err := openai.NewClient(&cfg.OpenAI)
	if err != nil {
		log.Fatalf("Failed to initialize OpenAI client: %v", err)
	}

	listingRepo := database.NewListingAdapter(pgClient)
	model := openaiClient.EmbeddingModel()

	// Mirror freshly embedded listings into Typesense so the lexical tier
	// serves the same data the database does
	var lexicalEngine repositories.LexicalSearchEngine
	if cfg.Typesense.URL != "" {
		typesenseClient, err := typesense.NewClient(&cfg.Typesense)
		if err != nil {
			log.Printf("Warning: Failed to initialize Typesense client: %v", err)
		} else {
			if err := typesenseClient.InitSchema(context.Background()); err != nil {
				log.Printf("Warning: Failed to init Typesense schema: %v", err)
			}
			lexicalEngine = search.NewTypesenseAdapter(typesenseClient)
		}
	}
	lexicalIndex := services.NewLexicalIndexService(lexicalEngine)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	listings, err := listingRepo.ListNeedingEmbedding(ctx, model, *batchLimit)
	if err != nil {
		log.Fatalf("Failed to list listings needing embedding: %v", err)
	}
	if len(listings) == 0 {
		log.Println("All listings are up to date")
		return
	}
	log.Printf("Found %d listings needing embedding (model %s)", len(listings), model)

	if *dryRun {
		var estimatedCost float64
		for _, l := range listings {
			estimatedCost += vectors.EstimateCost(l.EmbeddingText(), vectors.DefaultEmbeddingPricePerMillionTokens)
		}
		log.Printf("Dry run: would embed %d listings, estimated cost $%.6f", len(listings), estimatedCost)
		return
	}

	retryConfig := retry.DefaultConfig()
	var embedded, failed int
	var totalCost float64

	for start := 0; start < len(listings); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(listings) {
			end = len(listings)
		}
		batch := listings[start:end]

		texts := make([]string, len(batch))
		for i, l := range batch {
			texts[i] = l.EmbeddingText()
		}

		var embeddings [][]float32
		err := retry.Do(ctx, retryConfig, func() error {
			var embedErr error
			embeddings, embedErr = openaiClient.EmbedBatch(ctx, texts)
			return embedErr
		})
		if err != nil {
			log.Printf("Warning: Failed to embed batch starting at %d: %v", start, err)
			failed += len(batch)
			continue
		}
		if len(embeddings) != len(batch) {
			log.Printf("Warning: embedding count mismatch for batch starting at %d: got %d, want %d",
				start, len(embeddings), len(batch))
			failed += len(batch)
			continue
		}

		synced := make([]*entities.Listing, 0, len(batch))
		for i, l := range batch {
			if err := listingRepo.UpdateEmbedding(ctx, l.ID, embeddings[i], model); err != nil {
				log.Printf("Warning: Failed to store embedding for listing %s: %v", l.ID, err)
				failed++
				continue
			}
			totalCost += vectors.EstimateCost(texts[i], vectors.DefaultEmbeddingPricePerMillionTokens)
			embedded++
			synced = append(synced, l)
		}

		upserted, _ := lexicalIndex.SyncListings(ctx, synced)
		if lexicalEngine != nil && upserted < len(synced) {
			log.Printf("Warning: %d/%d listings failed to index lexically", len(synced)-upserted, len(synced))
		}

		log.Printf("Embedded %d/%d listings", embedded, len(listings))
	}

	log.Printf("Indexer finished: %d embedded, %d failed, estimated cost $%.6f", embedded, failed, totalCost)
}
