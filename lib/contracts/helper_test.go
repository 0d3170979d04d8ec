package contracts

import (
	"fmt"
	"os"
	"testing"

	"github.com/bitmark-inc/logger"

	"github.com/quietbit/cellar/lib/store"
	"github.com/quietbit/cellar/lib/store/engines/mem"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "contracts-test-log")
	if err != nil {
		panic(err)
	}

	logConfig := logger.Configuration{
		Directory: dir,
		File:      "contracts.log",
		Size:      1048576,
		Count:     10,
		Console:   false,
		Levels: map[string]string{
			logger.DefaultTag: "error",
		},
	}
	if err := logger.Initialise(logConfig); err != nil {
		panic(fmt.Sprintf("logger initialisation failed: %s", err))
	}

	rc := m.Run()

	logger.Finalise()
	_ = os.RemoveAll(dir)
	os.Exit(rc)
}

// --------------------------------------------------------------------------
// Test environment
// --------------------------------------------------------------------------

// default calibration: marginal per-item cost 1, marginal per-key cost 10
const (
	testBaseCost    = 10
	testPerItemCost = 1
	testPerKeyCost  = 10
)

type testEnv struct {
	engine *Engine
	store  store.KeyedStore
	tick   uint64
}

func newTestEnv(t *testing.T) *testEnv {
	return newTestEnvWith(t, func(*Config) {})
}

func newTestEnvWith(t *testing.T, adjust func(*Config)) *testEnv {
	t.Helper()

	env := &testEnv{
		store: mem.NewMemStore(),
		tick:  1,
	}

	cfg := Config{
		Store: env.store,
		Ticks: TickFunc(func() uint64 { return env.tick }),
		Costs: Costs{
			Base:          testBaseCost,
			QueueItemZero: 100,
			QueueItemOne:  100 + testPerItemCost,
			KeyZero:       200,
			KeyOne:        200 + testPerKeyCost,
		},
		QueueDepth: 16,
		Log:        logger.New("contracts-test"),
	}
	adjust(&cfg)

	engine, err := NewEngine(cfg)
	if err != nil {
		t.Fatalf("failed to create engine: %s", err)
	}
	env.engine = engine

	t.Cleanup(func() {
		_ = env.store.Close()
	})
	return env
}

// account builds a deterministic test account id
func account(i byte) AccountID {
	var a AccountID
	for k := range a {
		a[k] = i
	}
	return a
}

// placeContract creates a contract for the account and returns its namespace
func (env *testEnv) placeContract(t *testing.T, a AccountID) store.NamespaceID {
	t.Helper()

	ns := env.engine.GenerateNamespaceID(a)
	if err := env.engine.PlaceRecord(a, ns, CodeRef{0xc0}); err != nil {
		t.Fatalf("failed to place record: %s", err)
	}
	return ns
}

// aliveRecord fetches the Alive record of the account or fails the test
func (env *testEnv) aliveRecord(t *testing.T, a AccountID) *AliveRecord {
	t.Helper()

	record, ok := env.engine.getRecord(a).(*AliveRecord)
	if !ok {
		t.Fatalf("account %s holds no alive record", a)
	}
	return record
}
