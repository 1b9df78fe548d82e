// Bench is a benchmarking tool for measuring seed index build performance,
// lookup throughput, and memory usage on random DNA references.
//
// Usage:
//
//	go run ./cmd/bench -refs 2000 -length 50000 -workers 2
//
// Flags:
//
//	-refs      Number of reference sequences (default: 1,000)
//	-length    Length of each reference (default: 100,000)
//	-shape     Seed pattern (default: the DNA default shape)
//	-tables    Number of tables, all with the same shape (default: 1)
//	-workers   Number of tables built in parallel (default: 1)
//	-step      Seeding step (default: 1)
//	-lookups   Number of timed lookups (default: 1,000,000)
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"runtime"
	"runtime/metrics"
	"runtime/pprof"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/tamirms/seedindex"
)

// getMaxRSS returns the maximum resident set size in bytes.
// Uses getrusage(RUSAGE_SELF) which tracks peak RSS since process start.
func getMaxRSS() uint64 {
	var rusage syscall.Rusage
	if err := syscall.Getrusage(syscall.RUSAGE_SELF, &rusage); err != nil {
		return 0
	}
	// On macOS, MaxRss is in bytes. On Linux, it's in kilobytes.
	maxRSS := uint64(rusage.Maxrss)
	if runtime.GOOS == "linux" {
		maxRSS *= 1024
	}
	return maxRSS
}

// peakSampler tracks peak heap and RSS every 10ms. It reads runtime/metrics
// rather than ReadMemStats to avoid stop-the-world pauses.
type peakSampler struct {
	heap, rss atomic.Uint64
	done      chan struct{}
}

func startPeakSampler(heap, rss uint64) *peakSampler {
	s := &peakSampler{done: make(chan struct{})}
	s.heap.Store(heap)
	s.rss.Store(rss)
	go func() {
		samples := []metrics.Sample{{Name: "/memory/classes/heap/objects:bytes"}}
		ticker := time.NewTicker(10 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-s.done:
				return
			case <-ticker.C:
				metrics.Read(samples)
				storeMax(&s.heap, samples[0].Value.Uint64())
				storeMax(&s.rss, getMaxRSS())
			}
		}
	}()
	return s
}

func storeMax(v *atomic.Uint64, x uint64) {
	for {
		old := v.Load()
		if x <= old || v.CompareAndSwap(old, x) {
			return
		}
	}
}

func (s *peakSampler) stop() {
	close(s.done)
	var final runtime.MemStats
	runtime.ReadMemStats(&final)
	storeMax(&s.heap, final.Alloc)
	storeMax(&s.rss, getMaxRSS())
}

func main() {
	refsFlag := flag.Int("refs", 1_000, "number of reference sequences")
	lengthFlag := flag.Int("length", 100_000, "length of each reference")
	shapeFlag := flag.String("shape", seedindex.DefaultDNAShape, "seed pattern")
	tablesFlag := flag.Int("tables", 1, "number of tables")
	workersFlag := flag.Int("workers", 1, "number of tables built in parallel")
	stepFlag := flag.Int("step", 1, "seeding step")
	lookupsFlag := flag.Int("lookups", 1_000_000, "number of timed lookups")
	cpuprofile := flag.String("cpuprofile", "", "write cpu profile to file (build phase only)")
	memprofile := flag.String("memprofile", "", "write memory profile to file (build phase only)")
	flag.Parse()

	shape, err := seedindex.NewSeedShape(seedindex.DNAAlphabet(), *shapeFlag)
	if err != nil {
		fmt.Printf("Invalid shape: %v\n", err)
		return
	}
	shapes := make([]*seedindex.SeedShape, *tablesFlag)
	for i := range shapes {
		shapes[i] = shape
	}

	fmt.Println("Generating references...")
	rng := rand.New(rand.NewPCG(0x1234, 0x5678))
	refs := make([]seedindex.Reference, *refsFlag)
	for i := range refs {
		seq := make([]byte, *lengthFlag)
		for j := range seq {
			seq[j] = "ACGT"[rng.IntN(4)]
		}
		refs[i] = seedindex.Reference{Name: fmt.Sprintf("ref%d", i), Sequence: seq}
	}
	letters := int64(*refsFlag) * int64(*lengthFlag)

	tmpDir, err := os.MkdirTemp("", "bench-")
	if err != nil {
		fmt.Printf("Failed to create temp dir: %v\n", err)
		return
	}
	defer func() { _ = os.RemoveAll(tmpDir) }()

	runtime.GC()
	time.Sleep(50 * time.Millisecond)
	var baseline runtime.MemStats
	runtime.ReadMemStats(&baseline)
	baselineRSS := getMaxRSS()
	sampler := startPeakSampler(baseline.Alloc, baselineRSS)

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			fmt.Printf("could not create CPU profile: %v\n", err)
			return
		}
		defer func() { _ = f.Close() }()
		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Printf("could not start CPU profile: %v\n", err)
			return
		}
	}

	fmt.Println("Building index...")
	buildStart := time.Now()
	summary, err := seedindex.BuildIndex(context.Background(), tmpDir, refs, seedindex.DNA, shapes,
		seedindex.WithWorkers(*workersFlag),
		seedindex.WithBuildStepSize(*stepFlag))
	buildDuration := time.Since(buildStart)

	if *cpuprofile != "" {
		pprof.StopCPUProfile()
	}
	if *memprofile != "" {
		f, err := os.Create(*memprofile)
		if err != nil {
			fmt.Printf("could not create memory profile: %v\n", err)
		} else {
			runtime.GC()
			if err := pprof.WriteHeapProfile(f); err != nil {
				fmt.Printf("could not write memory profile: %v\n", err)
			}
			_ = f.Close()
		}
	}
	sampler.stop()
	if err != nil {
		fmt.Printf("Build failed: %v\n", err)
		return
	}

	table, err := seedindex.Open(tmpDir, 0)
	if err != nil {
		fmt.Printf("Open failed: %v\n", err)
		return
	}
	defer func() { _ = table.Close() }()
	var fileBytes int64
	for _, name := range []string{"table0.idx", "table0.db"} {
		if info, err := os.Stat(filepath.Join(tmpDir, name)); err == nil {
			fileBytes += info.Size()
		}
	}

	// Query seeds sampled from the references, so every lookup hits.
	numQueries := *lookupsFlag
	queries := make([][]byte, 0, 1<<16)
	for len(queries) < cap(queries) {
		ref := refs[rng.IntN(len(refs))].Sequence
		if len(ref) < shape.Length() {
			break
		}
		seed := make([]byte, shape.Weight())
		if _, ok := shape.Extract(ref, rng.IntN(len(ref)-shape.Length()+1), seed); ok {
			queries = append(queries, seed)
		}
	}
	if len(queries) == 0 {
		fmt.Println("References are shorter than the shape")
		return
	}

	fmt.Println("Warming up lookups...")
	var row seedindex.Row
	for i := 0; i < 10000; i++ {
		table.Lookup(queries[i%len(queries)], &row)
	}

	fmt.Println("Benchmarking lookups...")
	var pairs int64
	queryStart := time.Now()
	for i := 0; i < numQueries; i++ {
		pairs += int64(table.Lookup(queries[i%len(queries)], &row))
	}
	queryDuration := time.Since(queryStart)
	avgLatency := float64(queryDuration.Nanoseconds()) / float64(max(numQueries, 1)) / 1000

	occurrences := summary.Shapes[0].SeedCount
	peakHeapMem := sampler.heap.Load() - baseline.Alloc
	peakRSSMem := sampler.rss.Load() - baselineRSS

	fmt.Printf("\n")
	fmt.Printf("╔═════════════════════╦════════════════╗\n")
	fmt.Printf("║ Metric              ║ Value          ║\n")
	fmt.Printf("╠═════════════════════╬════════════════╣\n")
	fmt.Printf("║ Letters             ║ %10.1f M   ║\n", float64(letters)/1_000_000)
	fmt.Printf("║ Seeds per table     ║ %10.1f M   ║\n", float64(occurrences)/1_000_000)
	fmt.Printf("║ Table 0 size        ║ %10.1f MB  ║\n", float64(fileBytes)/1_000_000)
	fmt.Printf("║ Bytes per seed      ║ %10.2f     ║\n", float64(fileBytes)/float64(max(occurrences, 1)))
	fmt.Printf("║ Lookup latency      ║ %10.3f μs  ║\n", avgLatency)
	fmt.Printf("║ Pairs per lookup    ║ %10.2f     ║\n", float64(pairs)/float64(max(numQueries, 1)))
	fmt.Printf("║ Build time          ║ %10.2f sec ║\n", buildDuration.Seconds())
	fmt.Printf("║ Build throughput    ║ %10.2f M/s ║\n", float64(letters)*float64(len(shapes))/buildDuration.Seconds()/1_000_000)
	fmt.Printf("║ Peak heap memory    ║ %10.1f MB  ║\n", float64(peakHeapMem)/1_000_000)
	fmt.Printf("║ Peak RSS memory     ║ %10.1f MB  ║\n", float64(peakRSSMem)/1_000_000)
	fmt.Printf("╚═════════════════════╩════════════════╝\n")
}
