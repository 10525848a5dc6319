package storage

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tallyhq/tally/internal/ledger"
	"github.com/tallyhq/tally/internal/logger"
	"github.com/tallyhq/tally/internal/model"
)

func sampleState() ledger.StoredState {
	return ledger.StoredState{
		Version: ledger.CurrentVersion,
		Statements: []model.Statement{{
			ID:          "stmt_1",
			FileName:    "jan.csv",
			AccountType: model.AccountChecking,
			Period:      model.Period{Start: "2024-01-02", End: "2024-01-20"},
			Transactions: []model.Transaction{
				model.NewTransaction("t1", "2024-01-20", "PAYROLL", decimal.RequireFromString("1000"), model.CategoryIncome),
				model.NewTransaction("t2", "2024-01-02", "PETCO", decimal.RequireFromString("-30.25"), "custom_pets"),
			},
			UploadedAt: time.Date(2024, 1, 21, 0, 0, 0, 0, time.UTC),
		}},
		CustomCategories: map[model.Category]model.CategoryConfig{
			"custom_pets": {Label: "Pets", Color: "#f43f5e"},
		},
		LastUpdated: time.Date(2024, 1, 21, 0, 0, 0, 0, time.UTC),
	}
}

// exercisePersister runs the behavior every backend shares.
func exercisePersister(t *testing.T, p ledger.Persister) {
	t.Helper()
	ctx := context.Background()

	got, err := p.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	want := sampleState()
	require.NoError(t, p.Save(ctx, want))

	got, err = p.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, ledger.CurrentVersion, got.Version)
	require.Len(t, got.Statements, 1)
	assert.Equal(t, "jan.csv", got.Statements[0].FileName)
	require.Len(t, got.Statements[0].Transactions, 2)
	assert.True(t, got.Statements[0].Transactions[1].Amount.Equal(decimal.RequireFromString("-30.25")))
	assert.Equal(t, model.Category("custom_pets"), got.Statements[0].Transactions[1].Category)
	assert.Equal(t, "Pets", got.CustomCategories["custom_pets"].Label)
	assert.True(t, want.LastUpdated.Equal(got.LastUpdated))

	// Overwrite.
	want.Statements = nil
	require.NoError(t, p.Save(ctx, want))
	got, err = p.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, got.Statements)
}

func TestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "finance.json")
	f := NewFile(path)
	exercisePersister(t, f)

	_, err := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestFile_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "finance.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	_, err := NewFile(path).Load(context.Background())
	assert.Error(t, err)
}

func TestFile_NumbersAndContextLogger(t *testing.T) {
	var logs bytes.Buffer
	ctx := logger.WithContext(context.Background(), logger.NewConsole(&logs, "debug"))
	path := filepath.Join(t.TempDir(), "finance.json")

	require.NoError(t, NewFile(path).Save(ctx, sampleState()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"amount": -30.25,`)
	assert.Contains(t, logs.String(), "state written")
	assert.Contains(t, logs.String(), path)
}

func TestSQLite(t *testing.T) {
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "finance.db"))
	require.NoError(t, err)
	defer db.Close()
	exercisePersister(t, db)
}

func TestSQLite_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "finance.db")
	db, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, db.Save(context.Background(), sampleState()))
	require.NoError(t, db.Close())

	db, err = OpenSQLite(path)
	require.NoError(t, err)
	defer db.Close()
	got, err := db.Load(context.Background())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Len(t, got.Statements, 1)
}

func TestRedis(t *testing.T) {
	addr := os.Getenv("TALLY_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TALLY_TEST_REDIS_ADDR not set")
	}
	key := "tally:test:" + t.Name() + ":" + time.Now().Format("150405.000000")
	r, err := OpenRedis(addr, key)
	require.NoError(t, err)
	defer func() {
		r.client.Del(context.Background(), key)
		r.Close()
	}()
	exercisePersister(t, r)
}

func TestDecode_OtherVersion(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    int
	}{
		{"older", `{"version":0,"statements":"an older shape"}`, 0},
		{"newer", `{"version":2,"statements":{}}`, 2},
		{"quoted", `{"version":"1","statements":[]}`, 0},
		{"fractional", `{"version":1.5,"statements":[]}`, 0},
		{"null", `{"version":null,"statements":[]}`, 0},
		{"missing", `{"statements":[]}`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, err := decode([]byte(tt.payload))
			require.NoError(t, err)
			assert.Equal(t, tt.want, st.Version)
			assert.Empty(t, st.Statements)
		})
	}
}

func TestStore_DiscardsQuotedVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "finance.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version":"1","statements":[{"fileName":"old.csv"}]}`), 0o644))

	s := ledger.New(NewFile(path))
	require.NoError(t, s.Load(context.Background()))
	assert.Empty(t, s.Statements())
}

func TestStore_DiscardsOldVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "finance.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version":0,"statements":[{"fileName":"old.csv"}]}`), 0o644))

	s := ledger.New(NewFile(path))
	require.NoError(t, s.Load(context.Background()))
	assert.Empty(t, s.Statements())
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	b, err := Open(Options{Path: filepath.Join(dir, "finance.json")})
	require.NoError(t, err)
	assert.IsType(t, &File{}, b)

	b, err = Open(Options{Backend: BackendSQLite, Path: filepath.Join(dir, "finance.db")})
	require.NoError(t, err)
	assert.IsType(t, &SQLite{}, b)
	require.NoError(t, b.Close())

	_, err = Open(Options{Backend: "s3"})
	assert.ErrorContains(t, err, "unknown storage backend")
}
