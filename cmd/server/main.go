// Command server exposes the Serbian morphology pipeline as a JSON API.
//
// Endpoints:
//
//	GET    /api/v1/analyze?word=<token>
//	GET    /api/v1/synthesize?lemma=<lemma>&tag=<pattern>[&regexp=true]
//	GET    /api/v1/tags
//	POST   /api/v1/check          body: {"text":"..."}
//	POST   /api/v1/check/batch    body: {"texts":["...", ...]}
//	GET    /api/v1/overrides?kind=<added|removed|spelling>
//	POST   /api/v1/overrides      body: {"kind":"added","line":"form\tlemma\ttag"}
//	DELETE /api/v1/overrides      body: {"kind":"added","line":"form\tlemma\ttag"}
//
// Staged overrides live in Redis and are applied on the next start.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"

	"srmorph/internal/config"
	"srmorph/internal/language"
	"srmorph/internal/override"
)

func main() {
	configPath := flag.String("config", os.Getenv("SRMORPH_CONFIG"), "path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	opts, err := cfg.LanguageOptions()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	var store *override.Store
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		store = override.NewStore(client, cfg.Redis.Prefix)
		loadStaged(store, &opts)
	} else {
		log.Printf("REDIS_ADDR not set, staged overrides disabled")
	}

	log.Printf("loading %s resources from %s", opts.Dialect.Name, opts.Root)
	lang, err := language.New(opts)
	if err != nil {
		log.Fatalf("init error: %v", err)
	}
	if err := lang.SelfTest(); err != nil {
		log.Printf("warning: %v", err)
	}

	handler := cors.New(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(newMux(&app{lang: lang, store: store}))

	log.Printf("listening on %s", cfg.HTTPAddr)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, handler))
}

// loadStaged merges the overrides and accepted words staged in Redis. An
// unreachable store only costs the staged entries.
func loadStaged(store *override.Store, opts *language.Options) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	lists, err := store.Lists(ctx, opts.Dialect.Name)
	if err != nil {
		log.Printf("warning: could not load staged overrides: %v", err)
		return
	}
	words, err := store.Words(ctx, opts.Dialect.Name)
	if err != nil {
		log.Printf("warning: could not load accepted words: %v", err)
	}
	opts.Overrides = opts.Overrides.Merge(lists)
	opts.AcceptWords = append(opts.AcceptWords, words...)
	log.Printf("staged: %d additions, %d removals, %d accepted words",
		len(lists.Additions), len(lists.Removals), len(words))
}
