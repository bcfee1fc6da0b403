package postgres_test

import (
	"context"
	"os"
	"testing"

	"github.com/joho/godotenv"

	"advisor-marketplace-api/internal/store"
	"advisor-marketplace-api/internal/store/postgres"
	"advisor-marketplace-api/internal/store/storetest"
)

func TestContract(t *testing.T) {
	_ = godotenv.Load("../../../.env")
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}

	ctx := context.Background()
	st, err := postgres.Open(ctx, dsn)
	if err != nil {
		t.Fatalf("db: %v", err)
	}
	t.Cleanup(st.Close)
	if err := st.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	// every case creates its own users, so one shared database is enough
	storetest.Run(t, func(*testing.T) store.Store { return st })
}
