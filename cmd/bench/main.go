package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"fortio.org/fortio/log"
	"fortio.org/fortio/stats"
	"github.com/loov/hrtime"

	"github.com/geseq/instancepool"
)

type payload struct {
	buf []byte
}

func record(h *stats.Histogram, laps []time.Duration) {
	for _, lap := range laps {
		h.Record(float64(lap.Nanoseconds()))
	}
}

func main() {
	count := flag.Int("n", 100_000, "obtains per round")
	rounds := flag.Int("rounds", 5, "obtain/recycle rounds")
	size := flag.Int("size", 4096, "payload buffer size")
	initial := flag.Int("initial", 0, "initial pool size")
	growth := flag.Int("growth", 1024, "pool growth")
	maximum := flag.Int("max", 50_000, "available maximum")
	hist := flag.Bool("hist", false, "print hrtime histograms")
	flag.Parse()

	pool, err := instancepool.New[*payload, int](*size, instancepool.FactoryFunc[*payload, int](func(size int) (*payload, error) {
		return &payload{buf: make([]byte, 0, size)}, nil
	}), instancepool.Hooks[*payload]{
		OnRecycle: func(p *payload) { p.buf = p.buf[:0] },
	},
		instancepool.WithName("payloads"),
		instancepool.WithInitialSize(*initial),
		instancepool.WithGrowth(*growth),
		instancepool.WithAvailableMaximum(*maximum),
	)
	if err != nil {
		log.Fatalf("create pool: %v", err)
	}

	obtainHist := stats.NewHistogram(0, 1)
	recycleHist := stats.NewHistogram(0, 1)
	held := make([]*payload, 0, *count)

	for r := 0; r < *rounds; r++ {
		held = held[:0]

		obtain := hrtime.NewBenchmark(*count)
		for obtain.Next() {
			p, err := pool.Obtain()
			if err != nil {
				log.Fatalf("obtain: %v", err)
			}
			p.buf = append(p.buf, byte(r))
			held = append(held, p)
		}

		recycle := hrtime.NewBenchmark(len(held))
		i := 0
		for recycle.Next() {
			if i < len(held) {
				if err := pool.Recycle(held[i]); err != nil {
					log.Fatalf("recycle: %v", err)
				}
				i++
			}
		}

		record(obtainHist, obtain.Laps())
		record(recycleHist, recycle.Laps())
		if *hist {
			fmt.Println(obtain.Histogram(10))
			fmt.Println(recycle.Histogram(10))
		}

		s := pool.Stats()
		log.Infof("round %d: available=%d allocated=%d discarded=%d exhaustions=%d",
			r, s.Available, s.Allocated, s.Discarded, s.Exhaustions)
	}

	percentiles := []float64{50, 75, 90, 99, 99.9}
	obtainHist.Print(os.Stdout, "Obtain latency (ns)", percentiles)
	recycleHist.Print(os.Stdout, "Recycle latency (ns)", percentiles)
}
