package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/IBM/sarama"
	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/vladislavdragonenkov/pizzeria/internal/messaging/kafka"
	grpcsvc "github.com/vladislavdragonenkov/pizzeria/internal/service/grpc"
)

const (
	defaultAddr    = "localhost:50051"
	defaultTimeout = 5 * time.Second
	defaultGroup   = "pizzeria-report"
)

type config struct {
	addr          string
	timeout       time.Duration
	toppingLimit  int
	beverageLimit int
	follow        bool
	brokers       []string
	group         string
}

func main() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	cfg, err := parseConfig(os.Args[1:], os.Getenv)
	if err != nil {
		fail("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
		fail("report failed: %v", err)
	}
}

func parseConfig(args []string, getenv func(string) string) (config, error) {
	var (
		cfg        config
		brokersRaw string
	)

	fs := flag.NewFlagSet("pizzeria-report", flag.ContinueOnError)
	fs.StringVar(&cfg.addr, "addr", defaultAddr, "PizzeriaService gRPC address")
	fs.DurationVar(&cfg.timeout, "timeout", defaultTimeout, "request timeout")
	fs.IntVar(&cfg.toppingLimit, "toppings", 0, "top toppings to show (0 = default, <0 = all)")
	fs.IntVar(&cfg.beverageLimit, "beverages", 0, "top beverages to show (0 = default, <0 = all)")
	fs.BoolVar(&cfg.follow, "follow", false, "after the report, print order events from Kafka until interrupted")
	fs.StringVar(&brokersRaw, "brokers", "", "Kafka brokers as comma-separated list (fallback: PIZZERIA_KAFKA_BROKERS)")
	fs.StringVar(&cfg.group, "group", defaultGroup, "Kafka consumer group for -follow")
	if err := fs.Parse(args); err != nil {
		return config{}, err
	}

	if strings.TrimSpace(brokersRaw) == "" {
		brokersRaw = getenv("PIZZERIA_KAFKA_BROKERS")
	}
	cfg.brokers = parseBrokers(brokersRaw)

	if strings.TrimSpace(cfg.addr) == "" {
		return config{}, fmt.Errorf("addr is required")
	}
	if cfg.timeout <= 0 {
		return config{}, fmt.Errorf("timeout must be > 0")
	}
	if cfg.follow && len(cfg.brokers) == 0 {
		return config{}, fmt.Errorf("kafka brokers are required with -follow (-brokers or PIZZERIA_KAFKA_BROKERS)")
	}
	return cfg, nil
}

func parseBrokers(raw string) []string {
	chunks := strings.Split(raw, ",")
	brokers := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		broker := strings.TrimSpace(chunk)
		if broker == "" {
			continue
		}
		brokers = append(brokers, broker)
	}
	return brokers
}

type reportClient interface {
	GetSalesReport(ctx context.Context, in *grpcsvc.GetSalesReportRequest, opts ...grpc.CallOption) (*grpcsvc.GetSalesReportResponse, error)
}

func run(ctx context.Context, cfg config, out io.Writer) error {
	conn, err := grpc.NewClient(cfg.addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return fmt.Errorf("dial %s: %w", cfg.addr, err)
	}
	defer conn.Close()

	if err := fetchReport(ctx, cfg, grpcsvc.NewPizzeriaClient(conn), out); err != nil {
		return err
	}
	if !cfg.follow {
		return nil
	}
	return follow(ctx, cfg, out)
}

func fetchReport(ctx context.Context, cfg config, client reportClient, out io.Writer) error {
	callCtx, cancel := context.WithTimeout(ctx, cfg.timeout)
	defer cancel()

	resp, err := client.GetSalesReport(callCtx, &grpcsvc.GetSalesReportRequest{
		ToppingLimit:  cfg.toppingLimit,
		BeverageLimit: cfg.beverageLimit,
	})
	if err != nil {
		return fmt.Errorf("get sales report: %w", err)
	}
	return printReport(out, resp)
}

func printReport(w io.Writer, resp *grpcsvc.GetSalesReportResponse) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "Orders:\t%d\n", resp.OrderCount)
	fmt.Fprintf(tw, "Revenue:\t%s\n", resp.Revenue)

	fmt.Fprintln(tw, "\nTop toppings")
	if len(resp.TopToppings) == 0 {
		fmt.Fprintln(tw, "  (none)")
	}
	for i, entry := range resp.TopToppings {
		fmt.Fprintf(tw, "  %d.\t%s\t%d\n", i+1, entry.Name, entry.Count)
	}

	fmt.Fprintln(tw, "\nTop beverages")
	if len(resp.TopBeverages) == 0 {
		fmt.Fprintln(tw, "  (none)")
	}
	for i, entry := range resp.TopBeverages {
		fmt.Fprintf(tw, "  %d.\t%s\t%d\n", i+1, entry.Name, entry.Count)
	}

	fmt.Fprintln(tw, "\nTopping pairs")
	if len(resp.Pairs) == 0 {
		fmt.Fprintln(tw, "  (none)")
	}
	for _, pair := range resp.Pairs {
		fmt.Fprintf(tw, "  %s + %s\t%d\n", pair.A, pair.B, pair.Weight)
	}

	return tw.Flush()
}

func follow(ctx context.Context, cfg config, out io.Writer) error {
	consumer, err := kafka.NewConsumer(cfg.brokers, cfg.group, []string{kafka.TopicOrderEvents}, eventPrinter(out),
		kafka.WithConsumerLogger(log.WithField("component", "pizzeria-report")),
	)
	if err != nil {
		return err
	}
	if err := consumer.Start(ctx); err != nil {
		return err
	}

	fmt.Fprintf(out, "\nfollowing %s (Ctrl+C to stop)\n", kafka.TopicOrderEvents)
	<-ctx.Done()
	return consumer.Stop()
}

// eventPrinter печатает по строке на событие заказа.
func eventPrinter(out io.Writer) kafka.MessageHandler {
	return func(_ context.Context, message *sarama.ConsumerMessage) error {
		envelope, err := kafka.ParseOrderEnvelope(message)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(out, "%s  %-22s order=%s  %s\n",
			envelope.PublishedAt.Format(time.RFC3339), envelope.EventType, envelope.AggregateID, envelope.Payload)
		return err
	}
}

func fail(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
