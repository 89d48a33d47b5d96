package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"

	"ai-assistant-be/internal/config"
	"ai-assistant-be/internal/model"
	"ai-assistant-be/pkg/database"
	"ai-assistant-be/pkg/embedding"
	"ai-assistant-be/pkg/utils"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

// Seeds the document index from a directory of plain text or markdown files.
// Each file becomes one source; its content is split into overlapping chunks,
// embedded and inserted into document_chunks.
func main() {
	dir := flag.String("dir", "./documents", "directory of .txt/.md files to ingest")
	chatType := flag.String("chat-type", "doc", "index partition: doc or data")
	deptName := flag.String("dept", "", "department name for the ingested documents")
	flag.Parse()

	cfg := config.Load()

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatalf("Error: Failed to connect to database: %v", err)
	}

	var embedder embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embedder = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.EmbeddingModel)
	} else {
		embedder = embedding.NewOpenAIProvider(cfg.Keys.OpenAI, cfg.Ai.OpenAIBaseURL, cfg.Ai.EmbeddingModel)
	}

	entries, err := os.ReadDir(*dir)
	if err != nil {
		log.Fatalf("Error: Failed to read directory %s: %v", *dir, err)
	}

	ctx := context.Background()
	totalChunks := 0

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".txt" && ext != ".md" {
			continue
		}

		path := filepath.Join(*dir, entry.Name())
		raw, err := os.ReadFile(path)
		if err != nil {
			log.Printf("Warn: Failed to read %s: %v. Skipping.", path, err)
			continue
		}

		source := strings.TrimSuffix(entry.Name(), ext)
		chunks := utils.SplitText(string(raw), 1500, 200)
		log.Printf("Ingesting %s (%d chunks)", source, len(chunks))

		for i, chunk := range chunks {
			vector, err := embedder.Embed(ctx, chunk)
			if err != nil {
				log.Fatalf("Error: Embedding failed for %s chunk %d: %v", source, i, err)
			}

			row := model.DocumentChunk{
				Id:        uuid.New(),
				Source:    source,
				ChatType:  *chatType,
				DeptName:  *deptName,
				Content:   chunk,
				Embedding: pgvector.NewVector(vector),
			}
			if err := db.Create(&row).Error; err != nil {
				log.Fatalf("Error: Insert failed for %s chunk %d: %v", source, i, err)
			}
			totalChunks++
		}
	}

	log.Printf("✅ Success: Ingested %d chunks into %s partition.", totalChunks, *chatType)
}
