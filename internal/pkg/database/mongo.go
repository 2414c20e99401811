package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// NewMongoDB inicializa a conexão com o MongoDB e retorna o handle do database.
// A conexão é testada imediatamente com um Ping.
func NewMongoDB(mongoURL string, dbName string) (*mongo.Database, error) {

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// 1. Abrir a Conexão
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURL))
	if err != nil {
		return nil, fmt.Errorf("falha ao conectar ao MongoDB: %w", err)
	}

	// 2. Testar a Conexão Imediatamente
	// Garante que a connection string e o servidor estão corretos
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("falha ao realizar o ping inicial no MongoDB: %w", err)
	}

	log.Println("✅ Conexão MongoDB estabelecida e pronta.")

	return client.Database(dbName), nil
}

// Disconnect encerra a conexão subjacente do database.
// Chamado no shutdown do main.go.
func Disconnect(ctx context.Context, db *mongo.Database) error {
	return db.Client().Disconnect(ctx)
}

// IsDup informa se o erro do driver é uma violação de índice único (duplicate key).
// A unicidade real é garantida pelos índices criados em EnsureIndexes; os
// pre-checks das camadas de serviço são apenas um fast-path de UX.
func IsDup(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}

// EnsureIndexes cria os índices únicos exigidos pelo modelo de dados.
// Idempotente: o Mongo ignora a criação de índices já existentes.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	unique := options.Index().SetUnique(true)

	specs := []struct {
		collection string
		models     []mongo.IndexModel
	}{
		{"users", []mongo.IndexModel{
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
		}},
		{"subjects", []mongo.IndexModel{
			{Keys: bson.D{{Key: "name", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "code", Value: 1}}, Options: unique},
		}},
		{"exams", []mongo.IndexModel{
			{Keys: bson.D{{Key: "title", Value: 1}}, Options: unique},
		}},
		{"questions", []mongo.IndexModel{
			{Keys: bson.D{{Key: "subject_id", Value: 1}, {Key: "content", Value: 1}}, Options: unique},
		}},
	}

	for _, spec := range specs {
		if _, err := db.Collection(spec.collection).Indexes().CreateMany(ctx, spec.models); err != nil {
			return fmt.Errorf("falha ao criar índices da coleção %s: %w", spec.collection, err)
		}
	}

	return nil
}
