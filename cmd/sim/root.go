package sim

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/bitmark-inc/logger"
	gometrics "github.com/rcrowley/go-metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	cmdUtil "github.com/quietbit/cellar/cmd/util"
	"github.com/quietbit/cellar/lib/contracts"
	"github.com/quietbit/cellar/lib/store"
	"github.com/quietbit/cellar/lib/store/engines/ldb"
	"github.com/quietbit/cellar/lib/store/engines/mem"
)

// simConfig collects all simulator parameters
type simConfig struct {
	Engine       string
	DataDir      string
	Contracts    int
	Keys         int
	ValueSize    int
	Ticks        int
	Budget       uint64
	QueueDepth   uint64
	DestroyEvery int
	Seed         int64
	LogLevel     string
}

var (
	simCmdConfig = &simConfig{}

	SimCmd = &cobra.Command{
		Use:     "sim",
		Short:   "Run a deterministic storage workload against the engine",
		Long:    "Run a deterministic workload of contract creations, writes, destructions and per-tick batch deletions against a configured store engine, and report operation timings. Configuration can be set via command line flags or environment variables (format: CELLAR_<flag>, e.g. CELLAR_TICKS=500).",
		PreRunE: processConfig,
		RunE:    run,
	}
)

func init() {
	// initialize viper
	cobra.OnInitialize(cmdUtil.InitConfig)

	// add flags
	key := "engine"
	SimCmd.PersistentFlags().String(key, "mem", cmdUtil.WrapString("Store engine to run against (mem, ldb)"))

	key = "data-dir"
	SimCmd.PersistentFlags().String(key, "data", cmdUtil.WrapString("Directory for the ldb engine database and the log files"))

	key = "contracts"
	SimCmd.PersistentFlags().Int(key, 50, cmdUtil.WrapString("Number of live contracts to maintain"))

	key = "keys"
	SimCmd.PersistentFlags().Int(key, 200, cmdUtil.WrapString("Key spread per contract"))

	key = "value-size"
	SimCmd.PersistentFlags().Int(key, 256, cmdUtil.WrapString("Size of each written value in bytes"))

	key = "ticks"
	SimCmd.PersistentFlags().Int(key, 1000, cmdUtil.WrapString("Number of scheduling ticks to simulate"))

	key = "budget"
	SimCmd.PersistentFlags().Uint64(key, 5000, cmdUtil.WrapString("Deletion budget per tick handed to the batch processor"))

	key = "queue-depth"
	SimCmd.PersistentFlags().Uint64(key, 32, cmdUtil.WrapString("Maximum depth of the deletion queue"))

	key = "destroy-every"
	SimCmd.PersistentFlags().Int(key, 10, cmdUtil.WrapString("Destroy (and replace) one contract every N ticks"))

	key = "seed"
	SimCmd.PersistentFlags().Int64(key, 1, cmdUtil.WrapString("Seed for the workload random generator"))

	key = "log-level"
	SimCmd.PersistentFlags().String(key, "info", cmdUtil.WrapString("Log level (debug, info, warn, error)"))
}

// processConfig reads the configuration from the command line flags and environment variables
func processConfig(cmd *cobra.Command, _ []string) error {
	if err := cmdUtil.BindCommandFlags(cmd); err != nil {
		return err
	}

	simCmdConfig.Engine = viper.GetString("engine")
	simCmdConfig.DataDir = viper.GetString("data-dir")
	simCmdConfig.Contracts = viper.GetInt("contracts")
	simCmdConfig.Keys = viper.GetInt("keys")
	simCmdConfig.ValueSize = viper.GetInt("value-size")
	simCmdConfig.Ticks = viper.GetInt("ticks")
	simCmdConfig.Budget = viper.GetUint64("budget")
	simCmdConfig.QueueDepth = viper.GetUint64("queue-depth")
	simCmdConfig.DestroyEvery = viper.GetInt("destroy-every")
	simCmdConfig.Seed = viper.GetInt64("seed")
	simCmdConfig.LogLevel = viper.GetString("log-level")

	if simCmdConfig.Engine != "mem" && simCmdConfig.Engine != "ldb" {
		return fmt.Errorf("invalid engine %s (expected one of: mem, ldb)", simCmdConfig.Engine)
	}
	return nil
}

func run(_ *cobra.Command, _ []string) error {
	cfg := simCmdConfig

	// logging
	logDir := filepath.Join(cfg.DataDir, "log")
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return err
	}
	if err := logger.Initialise(logger.Configuration{
		Directory: logDir,
		File:      "cellar.log",
		Size:      1048576,
		Count:     10,
		Console:   true,
		Levels: map[string]string{
			logger.DefaultTag: cfg.LogLevel,
		},
	}); err != nil {
		return fmt.Errorf("logger initialisation failed: %w", err)
	}
	defer logger.Finalise()

	// store engine
	var (
		s   store.KeyedStore
		err error
	)
	switch cfg.Engine {
	case "mem":
		s = mem.NewMemStore()
	case "ldb":
		s, err = ldb.NewLevelDBStore(filepath.Join(cfg.DataDir, "cellar.leveldb"))
		if err != nil {
			return fmt.Errorf("failed to open leveldb store: %w", err)
		}
	}
	defer s.Close()

	// engine with a locally advanced tick
	tick := uint64(1)
	engine, err := contracts.NewEngine(contracts.Config{
		Store: s,
		Ticks: contracts.TickFunc(func() uint64 { return tick }),
		Costs: contracts.Costs{
			Base:          25,
			QueueItemZero: 0,
			QueueItemOne:  4,
			KeyZero:       0,
			KeyOne:        60,
		},
		QueueDepth: cfg.QueueDepth,
		Log:        logger.New("sim"),
	})
	if err != nil {
		return err
	}

	if err := simulate(engine, cfg, &tick); err != nil {
		return err
	}

	info := s.Info()
	fmt.Printf("  store                    : %s, %d namespaces, %d keys\n\n",
		info.Engine, info.NamespaceCount, info.KeyCount)
	return nil
}

// --------------------------------------------------------------------------
// Workload
// --------------------------------------------------------------------------

type liveContract struct {
	account contracts.AccountID
	ns      store.NamespaceID
}

func simulate(engine *contracts.Engine, cfg *simConfig, tick *uint64) error {
	log := logger.New("sim")
	rng := rand.New(rand.NewSource(cfg.Seed))

	registry := gometrics.NewRegistry()
	writeTimer := gometrics.GetOrRegisterTimer("write", registry)
	batchTimer := gometrics.GetOrRegisterTimer("batch", registry)

	nextAccount := uint64(0)
	newContract := func() (liveContract, error) {
		nextAccount++
		var a contracts.AccountID
		copy(a[:], fmt.Sprintf("sim-account-%016d", nextAccount))
		ns := engine.GenerateNamespaceID(a)
		if err := engine.PlaceRecord(a, ns, contracts.CodeRef{}); err != nil {
			return liveContract{}, err
		}
		return liveContract{account: a, ns: ns}, nil
	}

	// initial contract population
	live := make([]liveContract, 0, cfg.Contracts)
	for i := 0; i < cfg.Contracts; i++ {
		c, err := newContract()
		if err != nil {
			return err
		}
		live = append(live, c)
	}

	value := make([]byte, cfg.ValueSize)
	var consumedTotal uint64
	started := time.Now()

	for t := 0; t < cfg.Ticks; t++ {
		*tick = uint64(t + 1)

		// one write per live contract per tick, a tenth of them deletes
		for _, c := range live {
			key := []byte(fmt.Sprintf("key-%08d", rng.Intn(cfg.Keys)))
			newValue := value
			if rng.Intn(10) == 0 {
				newValue = nil
			} else {
				rng.Read(newValue)
			}

			var err error
			writeTimer.Time(func() {
				err = engine.Write(c.account, c.ns, key, newValue)
			})
			if err != nil {
				return fmt.Errorf("write on contract %s failed: %w", c.account, err)
			}
		}

		// periodically destroy the oldest contract and replace it
		if cfg.DestroyEvery > 0 && (t+1)%cfg.DestroyEvery == 0 {
			victim := live[0]
			switch err := engine.DestroyRecord(victim.account); err {
			case nil:
				live = live[1:]
				replacement, err := newContract()
				if err != nil {
					return err
				}
				live = append(live, replacement)
			case contracts.ErrDeletionQueueFull:
				// backpressure: keep the contract and retry on a later tick
				log.Warnf("deletion queue full at tick %d, destruction delayed", *tick)
			default:
				return err
			}
		}

		// the per-tick batch deletion
		batchTimer.Time(func() {
			consumedTotal += engine.ProcessBatch(cfg.Budget)
		})
	}

	report(cfg, writeTimer, batchTimer, engine, consumedTotal, time.Since(started))
	return nil
}

func report(cfg *simConfig, writeTimer, batchTimer gometrics.Timer, engine *contracts.Engine, consumedTotal uint64, elapsed time.Duration) {
	row := func(name string, timer gometrics.Timer) {
		fmt.Printf("  %-8s %10d ops   mean %8.1f µs   p95 %8.1f µs\n",
			name,
			timer.Count(),
			timer.Mean()/1000.0,
			timer.Percentile(0.95)/1000.0,
		)
	}

	fmt.Printf("\nsimulated %d ticks in %s (engine: %s)\n\n", cfg.Ticks, elapsed.Round(time.Millisecond), cfg.Engine)
	row("write", writeTimer)
	row("batch", batchTimer)
	fmt.Printf("\n  deletion budget consumed : %d\n", consumedTotal)
	fmt.Printf("  namespaces still queued  : %d\n", engine.QueueLen())
}
