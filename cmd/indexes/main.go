// Comando utilitário para criar os índices do MongoDB fora do boot da API.
// Útil em pipelines de deploy, onde a criação de índices em coleções grandes
// deve acontecer antes de subir as novas instâncias.
//
// Uso:
//
//	go run ./cmd/indexes
package main

import (
	"context"
	stdlog "log"
	"time"

	"github.com/joho/godotenv"

	"goexam/config"
	"goexam/internal/pkg/database"
	"goexam/internal/pkg/logger"
)

func main() {
	stdlog.Println("⚡ Criando índices do GoExam...")

	if err := godotenv.Load(); err != nil {
		stdlog.Println("⚠️ Aviso: Arquivo .env não encontrado ou erro de leitura. Carregando configs apenas do ambiente do sistema.")
	}

	cfg := config.LoadConfig()
	log := logger.NewLogger(cfg.LogLevel)

	db, err := database.NewMongoDB(cfg.MongoURL, cfg.MongoDB)
	if err != nil {
		log.Fatal("Falha ao conectar ao banco de dados.", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = database.Disconnect(ctx, db)
	}()

	// Criação de índices pode demorar em coleções populadas; usamos uma
	// janela maior que o timeout de consulta da API.
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := database.EnsureIndexes(ctx, db); err != nil {
		log.Fatal("Falha ao criar os índices.", err)
	}

	log.Info("Índices criados com sucesso.", map[string]interface{}{"database": cfg.MongoDB})
}
