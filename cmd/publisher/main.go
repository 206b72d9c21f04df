// Command publisher loads a schedule document from disk, persists it as the
// latest version, and announces the new version over the reload subject so
// running API processes rebuild their graph.
package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log"
	"os"

	natsadapter "github.com/oiangu/trenbide/internal/adapters/nats"
	"github.com/oiangu/trenbide/internal/adapters/postgres"
	"github.com/oiangu/trenbide/internal/core/schedule"
	"github.com/oiangu/trenbide/internal/pkg/config"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: publisher <schedule-file>")
	}
	path := os.Args[1]

	cfg, err := config.Load("trenbide-publisher")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()

	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("read %s: %v", path, err)
	}

	if _, err := schedule.ParseDocument(data); err != nil {
		log.Fatalf("schedule document rejected: %v", err)
	}

	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	version := versionOf(data)

	repo := postgres.NewScheduleRepo(db)
	if err := repo.SaveDocument(ctx, version, data); err != nil {
		log.Fatalf("save document: %v", err)
	}
	log.Printf("saved schedule document version %s", version)

	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("nats: %v", err)
	}
	defer pub.Close()

	if err := pub.PublishReload(ctx, version); err != nil {
		log.Fatalf("publish reload: %v", err)
	}
	log.Printf("announced reload for version %s", version)
}

// versionOf derives a stable version tag from the document's content, so
// republishing an unchanged file upserts the existing row instead of adding
// a new one. The reload is still announced on every run.
func versionOf(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])[:16]
}
