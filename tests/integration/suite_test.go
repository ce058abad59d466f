package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"

	httpAdapter "github.com/moneta-app/moneta/internal/adapter/http"
	"github.com/moneta-app/moneta/internal/adapter/http/handler"
	"github.com/moneta-app/moneta/internal/adapter/oracle"
	postgresRepo "github.com/moneta-app/moneta/internal/adapter/repository/postgres"
	redisRepo "github.com/moneta-app/moneta/internal/adapter/repository/redis"
	infraredis "github.com/moneta-app/moneta/internal/infrastructure/redis"
	"github.com/moneta-app/moneta/internal/usecase"
	"github.com/moneta-app/moneta/tests/testutil"
)

// testEnv wires the full HTTP stack against a real database, an embedded
// redis and a stub quote service.
type testEnv struct {
	router http.Handler
	db     *testutil.TestDB
}

func newTestEnv(t *testing.T, quotes map[string]string) *testEnv {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	testDB := testutil.NewTestDB(t)
	t.Cleanup(testDB.Cleanup)
	testDB.TruncateAll(ctx)

	mr := miniredis.RunT(t)
	redisClient, err := infraredis.NewClient(ctx, fmt.Sprintf("redis://%s", mr.Addr()))
	if err != nil {
		t.Fatalf("failed to connect to redis: %v", err)
	}
	t.Cleanup(func() { redisClient.Close() })

	quoteServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		symbol := r.URL.Query().Get("symbol")
		price, ok := quotes[symbol]
		if !ok {
			http.Error(w, "unknown symbol", http.StatusNotFound)
			return
		}
		fmt.Fprintf(w, `{"symbol":%q,"price":%q}`, symbol, price)
	}))
	t.Cleanup(quoteServer.Close)

	pool := testDB.Pool
	txManager := postgresRepo.NewTxManager(pool)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	holdingRepo := postgresRepo.NewHoldingRepository(pool)
	budgetRepo := postgresRepo.NewBudgetRepository(pool)
	liabilityRepo := postgresRepo.NewLiabilityRepository(pool)
	paymentRepo := postgresRepo.NewPaymentRepository(pool)
	expenseRepo := postgresRepo.NewExpenseRepository(pool)
	tradeRepo := postgresRepo.NewTradeRepository(pool)
	transferRepo := postgresRepo.NewTransferRepository(pool)
	journalRepo := postgresRepo.NewJournalRepository(pool)
	syncLogRepo := postgresRepo.NewSyncLogRepository(pool)
	outboxRepo := postgresRepo.NewOutboxRepository(pool)
	idGen := postgresRepo.NewULIDGenerator()

	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	cache := redisRepo.NewCache(redisClient)
	priceOracle := oracle.NewCachedOracle(oracle.NewClient(quoteServer.URL, 5*time.Second), cache, time.Minute)

	policies := usecase.DefaultPolicies()
	logger := zerolog.Nop()

	accountUC := usecase.NewAccountUseCase(txManager, accountRepo, holdingRepo, liabilityRepo, journalRepo, outboxRepo, idGen)
	expenseUC := usecase.NewExpenseUseCase(txManager, accountRepo, budgetRepo, expenseRepo, journalRepo, outboxRepo, idGen, policies)
	transferUC := usecase.NewTransferUseCase(txManager, accountRepo, transferRepo, journalRepo, outboxRepo, idGen)
	tradeUC := usecase.NewTradeUseCase(txManager, accountRepo, holdingRepo, tradeRepo, journalRepo, outboxRepo, idGen)
	budgetUC := usecase.NewBudgetUseCase(txManager, budgetRepo, outboxRepo, idGen)
	liabilityUC := usecase.NewLiabilityUseCase(txManager, accountRepo, liabilityRepo, paymentRepo, journalRepo, outboxRepo, idGen, policies)
	syncUC := usecase.NewSyncUseCase(txManager, accountRepo, holdingRepo, syncLogRepo, priceOracle, idGen, policies, logger)
	journalUC := usecase.NewJournalUseCase(accountRepo, journalRepo, logger)

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AccountHandler:   handler.NewAccountHandler(accountUC),
		ExpenseHandler:   handler.NewExpenseHandler(expenseUC),
		TransferHandler:  handler.NewTransferHandler(transferUC),
		TradeHandler:     handler.NewTradeHandler(tradeUC),
		BudgetHandler:    handler.NewBudgetHandler(budgetUC),
		LiabilityHandler: handler.NewLiabilityHandler(liabilityUC),
		JournalHandler:   handler.NewJournalHandler(journalUC),
		SyncHandler:      handler.NewSyncHandler(syncUC),
		HealthHandler:    handler.NewHealthHandler(pool, redisClient),
		Logger:           logger,
		IdempotencyStore: idempotencyStore,
		IdempotencyTTL:   time.Hour,
	})

	return &testEnv{router: router, db: testDB}
}

// doJSON performs a request with an optional JSON body and decodes the
// response into out when it is non-nil.
func (e *testEnv) doJSON(t *testing.T, method, path string, body any, out any) *httptest.ResponseRecorder {
	t.Helper()
	return e.do(t, method, path, body, out, "")
}

// doJSONWithKey performs a request carrying an Idempotency-Key header.
func (e *testEnv) doJSONWithKey(t *testing.T, method, path string, body any, key string) *httptest.ResponseRecorder {
	t.Helper()
	return e.do(t, method, path, body, nil, key)
}

func (e *testEnv) do(t *testing.T, method, path string, body, out any, idempotencyKey string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}
	rec := httptest.NewRecorder()

	e.router.ServeHTTP(rec, req)

	if out != nil && rec.Code < 300 {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
		}
	}

	return rec
}
