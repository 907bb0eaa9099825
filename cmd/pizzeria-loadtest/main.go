package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	grpcsvc "github.com/vladislavdragonenkov/pizzeria/internal/service/grpc"
)

type scenario string

const (
	// Только CreateOrder.
	scenarioCreate scenario = "create"
	// CreateOrder, затем AddItem и ReplaceItemToppings.
	scenarioMutate scenario = "mutate"
	// CreateOrder с одной пиццей и RemoveItem, который снимает заказ.
	scenarioCancel scenario = "cancel"

	scenarioCall = "scenario"
)

type config struct {
	addr        string
	total       int
	duration    time.Duration
	concurrency int
	connections int
	timeout     time.Duration
	scenario    scenario
	customer    string
	outputPath  string
}

// orderAPI перечисляет вызовы PizzeriaService, которые использует нагрузочный тест.
type orderAPI interface {
	AddCustomer(ctx context.Context, in *grpcsvc.AddCustomerRequest, opts ...grpc.CallOption) (*grpcsvc.AddCustomerResponse, error)
	CreateOrder(ctx context.Context, in *grpcsvc.CreateOrderRequest, opts ...grpc.CallOption) (*grpcsvc.OrderResponse, error)
	AddItem(ctx context.Context, in *grpcsvc.AddItemRequest, opts ...grpc.CallOption) (*grpcsvc.OrderResponse, error)
	ReplaceItemToppings(ctx context.Context, in *grpcsvc.ReplaceItemToppingsRequest, opts ...grpc.CallOption) (*grpcsvc.OrderResponse, error)
	RemoveItem(ctx context.Context, in *grpcsvc.RemoveItemRequest, opts ...grpc.CallOption) (*grpcsvc.OrderResponse, error)
}

type latencySummary struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
	Avg float64 `json:"avg"`
	P50 float64 `json:"p50"`
	P95 float64 `json:"p95"`
	P99 float64 `json:"p99"`
}

type callReport struct {
	Calls     int64            `json:"calls"`
	Failed    int64            `json:"failed"`
	Codes     map[string]int64 `json:"codes"`
	LatencyMs latencySummary   `json:"latency_ms"`
}

type report struct {
	Scenario        scenario              `json:"scenario"`
	StartedAt       time.Time             `json:"started_at"`
	DurationSeconds float64               `json:"duration_seconds"`
	Scenarios       int64                 `json:"scenarios"`
	Failed          int64                 `json:"failed"`
	ErrorRate       float64               `json:"error_rate"`
	RPS             float64               `json:"rps"`
	Calls           map[string]callReport `json:"calls"`
}

type callStats struct {
	failed    int64
	codes     map[string]int64
	latencies []float64
}

// recorder собирает коды и задержки по каждому вызову.
type recorder struct {
	mu    sync.Mutex
	calls map[string]*callStats
}

func newRecorder() *recorder {
	return &recorder{calls: make(map[string]*callStats)}
}

func (r *recorder) record(call string, latency time.Duration, code codes.Code) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats, ok := r.calls[call]
	if !ok {
		stats = &callStats{codes: make(map[string]int64)}
		r.calls[call] = stats
	}
	if code != codes.OK {
		stats.failed++
	}
	stats.codes[code.String()]++
	stats.latencies = append(stats.latencies, float64(latency.Microseconds())/1000.0)
}

func (r *recorder) report(sc scenario, startedAt time.Time, elapsed time.Duration) report {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := report{
		Scenario:        sc,
		StartedAt:       startedAt.UTC(),
		DurationSeconds: elapsed.Seconds(),
		Calls:           make(map[string]callReport, len(r.calls)),
	}
	for name, stats := range r.calls {
		codesCopy := make(map[string]int64, len(stats.codes))
		for code, count := range stats.codes {
			codesCopy[code] = count
		}
		result.Calls[name] = callReport{
			Calls:     int64(len(stats.latencies)),
			Failed:    stats.failed,
			Codes:     codesCopy,
			LatencyMs: summarize(stats.latencies),
		}
	}

	if total, ok := result.Calls[scenarioCall]; ok {
		result.Scenarios = total.Calls
		result.Failed = total.Failed
		if total.Calls > 0 {
			result.ErrorRate = float64(total.Failed) / float64(total.Calls)
		}
	}
	if elapsed > 0 {
		result.RPS = float64(result.Scenarios) / elapsed.Seconds()
	}
	return result
}

func parseConfig(args []string) (config, error) {
	var (
		cfg          config
		scenarioName string
	)

	fs := flag.NewFlagSet("pizzeria-loadtest", flag.ContinueOnError)
	fs.StringVar(&cfg.addr, "addr", "localhost:50051", "PizzeriaService gRPC address")
	fs.IntVar(&cfg.total, "total", 400, "scenarios to run; with -duration acts as an upper bound when > 0")
	fs.DurationVar(&cfg.duration, "duration", 0, "optional time-based run (e.g. 1m)")
	fs.IntVar(&cfg.concurrency, "concurrency", 20, "concurrent workers")
	fs.IntVar(&cfg.connections, "connections", 4, "gRPC client connections")
	fs.DurationVar(&cfg.timeout, "timeout", 5*time.Second, "per-call timeout")
	fs.StringVar(&scenarioName, "scenario", string(scenarioCreate), "scenario: create | mutate | cancel")
	fs.StringVar(&cfg.customer, "customer", "Load Tester", "customer registered before the run")
	fs.StringVar(&cfg.outputPath, "output", "", "optional JSON report file")
	if err := fs.Parse(args); err != nil {
		return config{}, err
	}

	switch scenario(strings.TrimSpace(scenarioName)) {
	case scenarioCreate, scenarioMutate, scenarioCancel:
		cfg.scenario = scenario(strings.TrimSpace(scenarioName))
	default:
		return config{}, fmt.Errorf("unsupported scenario: %s", scenarioName)
	}

	switch {
	case cfg.duration < 0:
		return config{}, errors.New("duration must be >= 0")
	case cfg.duration == 0 && cfg.total <= 0:
		return config{}, errors.New("total must be > 0 without duration")
	case cfg.concurrency <= 0:
		return config{}, errors.New("concurrency must be > 0")
	case cfg.connections <= 0:
		return config{}, errors.New("connections must be > 0")
	case cfg.timeout <= 0:
		return config{}, errors.New("timeout must be > 0")
	case strings.TrimSpace(cfg.customer) == "":
		return config{}, errors.New("customer is required")
	}
	return cfg, nil
}

func main() {
	cfg, err := parseConfig(os.Args[1:])
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(2)
	}

	clients := make([]orderAPI, 0, cfg.connections)
	for i := 0; i < cfg.connections; i++ {
		conn, dialErr := grpc.NewClient(cfg.addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
		if dialErr != nil {
			_, _ = fmt.Fprintf(os.Stderr, "failed to create grpc client connection: %v\n", dialErr)
			os.Exit(1)
		}
		defer conn.Close()
		clients = append(clients, grpcsvc.NewPizzeriaClient(conn))
	}

	result, err := runLoad(context.Background(), cfg, clients)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "load test failed: %v\n", err)
		os.Exit(1)
	}

	printReport(os.Stdout, result)
	if cfg.outputPath != "" {
		if err := writeJSONReport(cfg.outputPath, result); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "failed to write report: %v\n", err)
			os.Exit(1)
		}
	}
	if result.Failed > 0 {
		os.Exit(1)
	}
}

// runLoad регистрирует клиента и гоняет сценарии на пуле воркеров.
func runLoad(ctx context.Context, cfg config, clients []orderAPI) (report, error) {
	if len(clients) == 0 {
		return report{}, errors.New("at least one client is required")
	}

	setupCtx, cancel := context.WithTimeout(ctx, cfg.timeout)
	_, err := clients[0].AddCustomer(setupCtx, &grpcsvc.AddCustomerRequest{
		Customer: grpcsvc.Customer{Name: cfg.customer, Address: "load test"},
	})
	cancel()
	if err != nil {
		return report{}, fmt.Errorf("register customer: %w", err)
	}

	rec := newRecorder()
	startedAt := time.Now()
	jobs := make(chan int, cfg.concurrency*2)

	var wg sync.WaitGroup
	for w := 0; w < cfg.concurrency; w++ {
		wg.Add(1)
		go func(client orderAPI) {
			defer wg.Done()
			for index := range jobs {
				runScenario(ctx, client, cfg, index, rec)
			}
		}(clients[w%len(clients)])
	}

	dispatch(ctx, jobs, cfg)
	wg.Wait()

	return rec.report(cfg.scenario, startedAt, time.Since(startedAt)), nil
}

func dispatch(ctx context.Context, jobs chan<- int, cfg config) {
	defer close(jobs)

	var deadline <-chan time.Time
	if cfg.duration > 0 {
		timer := time.NewTimer(cfg.duration)
		defer timer.Stop()
		deadline = timer.C
	}

	for i := 0; cfg.total <= 0 || i < cfg.total; i++ {
		select {
		case <-ctx.Done():
			return
		case <-deadline:
			return
		case jobs <- i:
		}
	}
}

var (
	loadSizes    = []string{"small", "regular", "large"}
	loadToppings = [][]string{
		{"margherita"},
		{"pepperoni", "mozzarella"},
		{"four_cheese", "calabresa", "tuna"},
		{"chicken_catupiry", "portuguesa"},
	}
)

func loadItem(index int) grpcsvc.Item {
	return grpcsvc.Item{
		Size:     loadSizes[index%len(loadSizes)],
		Toppings: loadToppings[index%len(loadToppings)],
	}
}

func runScenario(ctx context.Context, client orderAPI, cfg config, index int, rec *recorder) {
	start := time.Now()
	err := scenarioSteps(ctx, client, cfg, index, rec)
	rec.record(scenarioCall, time.Since(start), grpcCode(err))
}

func scenarioSteps(ctx context.Context, client orderAPI, cfg config, index int, rec *recorder) error {
	req := &grpcsvc.CreateOrderRequest{
		CustomerName: cfg.customer,
		Items:        []grpcsvc.Item{loadItem(index)},
		DistanceKm:   fmt.Sprintf("%d.5", index%10),
	}
	if cfg.scenario != scenarioCancel {
		req.Beverages = []string{"cola_2l"}
	}

	created, err := timed(ctx, cfg.timeout, rec, "CreateOrder", func(callCtx context.Context) (*grpcsvc.OrderResponse, error) {
		return client.CreateOrder(callCtx, req)
	})
	if err != nil {
		return err
	}
	orderID := created.Order.ID

	switch cfg.scenario {
	case scenarioMutate:
		if _, err := timed(ctx, cfg.timeout, rec, "AddItem", func(callCtx context.Context) (*grpcsvc.OrderResponse, error) {
			return client.AddItem(callCtx, &grpcsvc.AddItemRequest{OrderID: orderID, Item: loadItem(index + 1)})
		}); err != nil {
			return err
		}
		_, err = timed(ctx, cfg.timeout, rec, "ReplaceItemToppings", func(callCtx context.Context) (*grpcsvc.OrderResponse, error) {
			return client.ReplaceItemToppings(callCtx, &grpcsvc.ReplaceItemToppingsRequest{
				OrderID:  orderID,
				Index:    0,
				Toppings: []string{"house_special"},
			})
		})
		return err
	case scenarioCancel:
		_, err = timed(ctx, cfg.timeout, rec, "RemoveItem", func(callCtx context.Context) (*grpcsvc.OrderResponse, error) {
			return client.RemoveItem(callCtx, &grpcsvc.RemoveItemRequest{OrderID: orderID, Index: 0})
		})
		// удаление последней позиции снимает заказ
		if status.Code(err) == codes.NotFound {
			return nil
		}
		if err == nil {
			return errors.New("order was not cancelled after removing its only item")
		}
		return err
	}
	return nil
}

func timed(
	ctx context.Context,
	timeout time.Duration,
	rec *recorder,
	call string,
	fn func(context.Context) (*grpcsvc.OrderResponse, error),
) (*grpcsvc.OrderResponse, error) {
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	resp, err := fn(callCtx)
	rec.record(call, time.Since(start), grpcCode(err))
	return resp, err
}

func grpcCode(err error) codes.Code {
	if err == nil {
		return codes.OK
	}
	if code := status.Code(err); code != codes.Unknown {
		return code
	}
	return codes.Internal
}

func summarize(values []float64) latencySummary {
	if len(values) == 0 {
		return latencySummary{}
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}
	return latencySummary{
		Min: sorted[0],
		Max: sorted[len(sorted)-1],
		Avg: sum / float64(len(sorted)),
		P50: percentile(sorted, 50),
		P95: percentile(sorted, 95),
		P99: percentile(sorted, 99),
	}
}

// percentile интерполирует между соседними рангами отсортированной выборки.
func percentile(sorted []float64, p float64) float64 {
	switch len(sorted) {
	case 0:
		return 0
	case 1:
		return sorted[0]
	}

	rank := p / 100.0 * float64(len(sorted)-1)
	lower, upper := int(math.Floor(rank)), int(math.Ceil(rank))
	if lower == upper {
		return sorted[lower]
	}
	return sorted[lower] + (sorted[upper]-sorted[lower])*(rank-float64(lower))
}

func printReport(w io.Writer, result report) {
	fmt.Fprintf(w, "scenario=%s scenarios=%d failed=%d error_rate=%.4f\n",
		result.Scenario, result.Scenarios, result.Failed, result.ErrorRate)
	fmt.Fprintf(w, "duration=%.2fs rps=%.2f\n", result.DurationSeconds, result.RPS)

	names := make([]string, 0, len(result.Calls))
	for name := range result.Calls {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		stats := result.Calls[name]
		fmt.Fprintf(w, "%s: calls=%d failed=%d p50=%.2fms p95=%.2fms p99=%.2fms\n",
			name, stats.Calls, stats.Failed, stats.LatencyMs.P50, stats.LatencyMs.P95, stats.LatencyMs.P99)
	}
}

func writeJSONReport(path string, result report) error {
	cleanPath := filepath.Clean(path)
	if cleanPath == "." || cleanPath == ".." || strings.HasPrefix(cleanPath, ".."+string(filepath.Separator)) {
		return fmt.Errorf("output path must be a file inside current directory: %s", path)
	}

	// #nosec G304 -- путь задаётся явно флагом -output.
	file, err := os.Create(cleanPath)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}
