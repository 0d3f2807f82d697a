package main

import (
	"context"
	"fmt"
	"os"

	"github.com/bamao88/Topic-Monitoring-feishu/internal/feishu"
	"github.com/bamao88/Topic-Monitoring-feishu/pkg/config"
	"github.com/bamao88/Topic-Monitoring-feishu/pkg/logger"
)

// Bootstraps a fresh Bitable app: checks the connection, creates the
// bloggers/notes/comments tables if missing, and prints the table IDs to
// put into the environment.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log := logger.New()

	client, err := feishu.NewClient(cfg, log)
	if err != nil {
		log.Error("Failed to create Feishu client: %v", err)
		os.Exit(1)
	}

	ctx := context.Background()
	if err := client.TestConnection(ctx); err != nil {
		log.Error("Feishu connection check failed: %v", err)
		os.Exit(1)
	}
	log.Info("Feishu connection ok")

	existing, err := client.ListTables(ctx)
	if err != nil {
		log.Error("Failed to list tables: %v", err)
		os.Exit(1)
	}
	existingByName := make(map[string]string, len(existing))
	for _, t := range existing {
		existingByName[t.Name] = t.TableID
	}

	tableIDs := make(map[string]string)
	for _, name := range []string{feishu.TableBloggers, feishu.TableNotes, feishu.TableComments} {
		if id, ok := existingByName[name]; ok {
			log.Info("table %s already exists (%s)", name, id)
			tableIDs[name] = id
			continue
		}
		id, err := client.CreateTable(ctx, name, feishu.FieldDefinitions[name])
		if err != nil {
			log.Error("Failed to create table %s: %v", name, err)
			os.Exit(1)
		}
		tableIDs[name] = id
	}

	fmt.Println("\nadd these to your .env:")
	fmt.Printf("FEISHU_TABLE_BLOGGERS=%s\n", tableIDs[feishu.TableBloggers])
	fmt.Printf("FEISHU_TABLE_NOTES=%s\n", tableIDs[feishu.TableNotes])
	fmt.Printf("FEISHU_TABLE_COMMENTS=%s\n", tableIDs[feishu.TableComments])
}
