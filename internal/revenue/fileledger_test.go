package revenue

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xenking/pos-engine/internal/domain/money"
)

func TestFileLedger_AppendsEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.jsonl")
	ctx := context.Background()

	l, err := NewFileLedger(path)
	require.NoError(t, err)

	require.NoError(t, l.NewRevenue(ctx, money.FromFloat(318.50)))
	require.NoError(t, l.NewRevenue(ctx, money.FromFloat(81.50)))

	assert.True(t, money.FromInt(400).Equal(l.Total()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)

	type entry struct {
		TS     string `json:"ts"`
		Amount string `json:"amount"`
		Total  string `json:"total"`
	}
	var first, second entry
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))

	assert.Equal(t, "318.50", first.Amount)
	assert.Equal(t, "318.50", first.Total)
	assert.Equal(t, "81.50", second.Amount)
	assert.Equal(t, "400.00", second.Total)

	_, err = time.Parse(time.RFC3339, first.TS)
	assert.NoError(t, err)
}

func TestFileLedger_ResumesFromExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.jsonl")
	ctx := context.Background()

	l, err := NewFileLedger(path)
	require.NoError(t, err)
	require.NoError(t, l.NewRevenue(ctx, money.FromInt(100)))
	require.NoError(t, l.NewRevenue(ctx, money.FromInt(50)))

	resumed, err := NewFileLedger(path)
	require.NoError(t, err)
	assert.True(t, money.FromInt(150).Equal(resumed.Total()))

	require.NoError(t, resumed.NewRevenue(ctx, money.FromInt(25)))
	assert.True(t, money.FromInt(175).Equal(resumed.Total()))
}

func TestFileLedger_MissingFileStartsFresh(t *testing.T) {
	l, err := NewFileLedger(filepath.Join(t.TempDir(), "absent.jsonl"))
	require.NoError(t, err)
	assert.True(t, l.Total().IsZero())
}

func TestFileLedger_MalformedEntryFailsConstruction(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("{\"amount\":\"10.00\"}\n"), 0o644))

	_, err := NewFileLedger(path)
	require.Error(t, err)
}

func TestLogObserver_AccumulatesTotal(t *testing.T) {
	o := NewLogObserver(zap.NewNop())
	ctx := context.Background()

	require.NoError(t, o.NewRevenue(ctx, money.FromInt(100)))
	require.NoError(t, o.NewRevenue(ctx, money.FromFloat(18.50)))

	assert.True(t, money.FromFloat(118.50).Equal(o.Total()))
}
