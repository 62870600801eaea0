package main

import (
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"runtime"
	"runtime/debug"
	"time"

	decimal "github.com/geseq/udecimal"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/geseq/instancepool"
	"github.com/geseq/instancepool/pkg/observe"
)

// order is the pooled instance: expensive enough to be worth recycling,
// and carrying state that must be reset before reuse.
type order struct {
	id     uint64
	buy    bool
	qty    decimal.Decimal
	price  decimal.Decimal
	fills  []decimal.Decimal
	active bool
}

type settings struct {
	Pool     instancepool.Config `mapstructure:"pool"`
	Duration time.Duration       `mapstructure:"duration"`
	Print    time.Duration       `mapstructure:"print"`
	Seed     int64               `mapstructure:"seed"`
	Live     int                 `mapstructure:"live"`
	Lower    string              `mapstructure:"lower"`
	Upper    string              `mapstructure:"upper"`
	Spread   string              `mapstructure:"spread"`
	GC       bool                `mapstructure:"gc"`
	Metrics  string              `mapstructure:"metrics"`
	LogLevel string              `mapstructure:"log_level"`
}

func main() {
	v := viper.New()

	root := &cobra.Command{
		Use:   "throughput",
		Short: "Churn a pool of orders and report obtain/recycle throughput",
		RunE: func(cmd *cobra.Command, args []string) error {
			if file := v.GetString("config"); file != "" {
				v.SetConfigFile(file)
				if err := v.ReadInConfig(); err != nil {
					return fmt.Errorf("read config: %w", err)
				}
			}

			var s settings
			if err := v.Unmarshal(&s); err != nil {
				return fmt.Errorf("decode config: %w", err)
			}
			return run(s)
		},
	}

	flags := root.Flags()
	flags.String("config", "", "YAML config file")
	flags.Duration("duration", 10*time.Second, "benchmark duration")
	flags.Duration("print", 2*time.Second, "print interval")
	flags.Int64("seed", time.Now().UnixNano(), "rand seed")
	flags.Int("live", 1000, "maximum orders held at once")
	flags.String("lower", "50.0", "lower price bound")
	flags.String("upper", "100.0", "upper price bound")
	flags.String("spread", "0.25", "price step")
	flags.Bool("gc", true, "use gc")
	flags.String("metrics", "", "address to serve prometheus metrics on, e.g. :9090")
	flags.String("log-level", "info", "log level")
	flags.Int("initial-size", 256, "orders allocated up front")
	flags.Int("growth", 64, "orders allocated when the pool is exhausted")
	flags.Int("available-maximum", 512, "cap on parked orders")

	for key, flag := range map[string]string{
		"config":                 "config",
		"duration":               "duration",
		"print":                  "print",
		"seed":                   "seed",
		"live":                   "live",
		"lower":                  "lower",
		"upper":                  "upper",
		"spread":                 "spread",
		"gc":                     "gc",
		"metrics":                "metrics",
		"log_level":              "log-level",
		"pool.initial_size":      "initial-size",
		"pool.growth":            "growth",
		"pool.available_maximum": "available-maximum",
	} {
		if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	v.SetEnvPrefix("INSTANCEPOOL")
	v.AutomaticEnv()

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

func run(s settings) error {
	logger, err := newLogger(s.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if !s.GC {
		debug.SetGCPercent(-1)
	}
	if s.Live <= 0 {
		return errors.New("live must be greater than 0")
	}

	lowerBound := decimal.MustParse(s.Lower)
	upperBound := decimal.MustParse(s.Upper)
	step := decimal.MustParse(s.Spread)

	name := s.Pool.Name
	if name == "" {
		name = "orders"
	}
	metrics := observe.NewPrometheus("throughput", name)

	opts := append(s.Pool.Options(),
		instancepool.WithName(name),
		instancepool.WithObserver(observe.Multi(observe.Zap(logger.Named("pool")), metrics)),
	)
	pool, err := instancepool.NewSynchronized[*order, int](16, instancepool.FactoryFunc[*order, int](func(fills int) (*order, error) {
		return &order{fills: make([]decimal.Decimal, 0, fills)}, nil
	}), instancepool.Hooks[*order]{
		OnObtain:  func(o *order) { o.active = true },
		OnRecycle: func(o *order) {
			o.active = false
			o.id, o.buy = 0, false
			o.qty, o.price = decimal.Zero, decimal.Zero
			o.fills = o.fills[:0]
		},
	}, opts...)
	if err != nil {
		return err
	}
	metrics.Bind(pool)

	if s.Metrics != "" {
		reg := prometheus.NewRegistry()
		if err := reg.Register(metrics); err != nil {
			return err
		}
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		go func() {
			if err := http.ListenAndServe(s.Metrics, mux); err != nil {
				logger.Error("metrics server stopped", zap.Error(err))
			}
		}()
		logger.Info("serving metrics", zap.String("addr", s.Metrics))
	}

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	rand := rand.New(rand.NewSource(s.Seed))
	price := lowerBound.Add(upperBound).Div(decimal.NewI(2, 0))
	qty := decimal.NewI(10, 0)

	held := make([]*order, 0, s.Live)
	var tok, ops uint64

	logger.Info("starting throughput benchmark",
		zap.Duration("duration", s.Duration),
		zap.Int("live", s.Live),
		zap.Int64("seed", s.Seed),
	)

	start := time.Now()
	end := start.Add(s.Duration)
	for time.Now().Before(end) {
		if rand.Intn(10) < 5 {
			price = price.Sub(step)
		} else {
			price = price.Add(step)
		}
		if price.LessThan(lowerBound) || price.GreaterThan(upperBound) {
			price = lowerBound.Add(upperBound).Div(decimal.NewI(2, 0))
		}

		if len(held) < s.Live && (len(held) == 0 || rand.Intn(10) < 5) {
			o, err := pool.Obtain()
			if err != nil {
				return err
			}
			tok++
			o.id, o.buy, o.qty, o.price = tok, rand.Intn(2) == 0, qty, price
			o.fills = append(o.fills, qty.Div(decimal.NewI(2, 0)))
			held = append(held, o)
		} else {
			i := rand.Intn(len(held))
			o := held[i]
			held[i] = held[len(held)-1]
			held = held[:len(held)-1]
			if err := pool.Recycle(o); err != nil {
				return err
			}
		}
		ops++

		if elapsed := time.Since(start); elapsed > s.Print {
			st := pool.Stats()
			fmt.Printf("ops/s: %d available: %d unrecycled: %d allocated: %d discarded: %d\n",
				uint64(float64(ops)/elapsed.Seconds()), st.Available, st.Unrecycled, st.Allocated, st.Discarded)
			ops = 0
			start = time.Now()
		}
	}

	for _, o := range held {
		if err := pool.Recycle(o); err != nil {
			return err
		}
	}

	st := pool.Stats()
	logger.Info("finished throughput benchmark",
		zap.Uint64("obtained", st.Obtained),
		zap.Uint64("allocated", st.Allocated),
		zap.Uint64("exhaustions", st.Exhaustions),
		zap.Int("unrecycled", st.Unrecycled),
	)
	return nil
}
