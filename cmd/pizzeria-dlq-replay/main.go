package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/IBM/sarama"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/pizzeria/internal/messaging/kafka"
)

const (
	defaultLimit       = 100
	defaultIdleTimeout = 2 * time.Second
)

type config struct {
	brokers     []string
	sourceTopic string
	targetTopic string
	limit       int
	execute     bool
	idleTimeout time.Duration
}

// offsetReader описывает часть sarama.Client, нужная для обхода партиций.
type offsetReader interface {
	Partitions(topic string) ([]int32, error)
	GetOffset(topic string, partition int32, time int64) (int64, error)
}

type messageStream interface {
	Messages() <-chan *sarama.ConsumerMessage
	Errors() <-chan *sarama.ConsumerError
	Close() error
}

type streamSource interface {
	ConsumePartition(topic string, partition int32, offset int64) (messageStream, error)
}

type saramaSource struct {
	consumer sarama.Consumer
}

func (s saramaSource) ConsumePartition(topic string, partition int32, offset int64) (messageStream, error) {
	return s.consumer.ConsumePartition(topic, partition, offset)
}

type summary struct {
	scanned  int
	replayed int
	skipped  int
}

func (s *summary) add(other summary) {
	s.scanned += other.scanned
	s.replayed += other.replayed
	s.skipped += other.skipped
}

// replayer перекладывает события из DLQ обратно в рабочие topics.
// Без execute только печатает кандидатов.
type replayer struct {
	cfg     config
	offsets offsetReader
	source  streamSource
	sink    sarama.SyncProducer
	now     func() time.Time
	logger  *log.Entry
}

func main() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	cfg, err := parseConfig(os.Args[1:], os.Getenv)
	if err != nil {
		fail("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil && !errors.Is(err, context.Canceled) {
		fail("dlq replay failed: %v", err)
	}
}

func parseConfig(args []string, getenv func(string) string) (config, error) {
	var (
		cfg        config
		brokersRaw string
	)

	fs := flag.NewFlagSet("pizzeria-dlq-replay", flag.ContinueOnError)
	fs.StringVar(&brokersRaw, "brokers", "", "Kafka brokers as comma-separated list (fallback: PIZZERIA_KAFKA_BROKERS)")
	fs.StringVar(&cfg.sourceTopic, "source-topic", kafka.TopicDeadLetterQueue, "DLQ topic to scan")
	fs.StringVar(&cfg.targetTopic, "target-topic", kafka.TopicOrderEvents, "topic for replayed outbox events")
	fs.IntVar(&cfg.limit, "limit", defaultLimit, "max number of DLQ messages to scan")
	fs.BoolVar(&cfg.execute, "execute", false, "publish replayed messages; default is dry-run")
	fs.DurationVar(&cfg.idleTimeout, "idle-timeout", defaultIdleTimeout, "stop reading a partition after this idle period")
	if err := fs.Parse(args); err != nil {
		return config{}, err
	}

	if strings.TrimSpace(brokersRaw) == "" {
		brokersRaw = getenv("PIZZERIA_KAFKA_BROKERS")
	}
	cfg.brokers = parseBrokers(brokersRaw)

	switch {
	case len(cfg.brokers) == 0:
		return config{}, errors.New("kafka brokers are required (-brokers or PIZZERIA_KAFKA_BROKERS)")
	case strings.TrimSpace(cfg.sourceTopic) == "":
		return config{}, errors.New("source-topic is required")
	case strings.TrimSpace(cfg.targetTopic) == "":
		return config{}, errors.New("target-topic is required")
	case cfg.limit <= 0:
		return config{}, errors.New("limit must be > 0")
	case cfg.idleTimeout <= 0:
		return config{}, errors.New("idle-timeout must be > 0")
	}
	return cfg, nil
}

func parseBrokers(raw string) []string {
	var brokers []string
	for _, chunk := range strings.Split(raw, ",") {
		if broker := strings.TrimSpace(chunk); broker != "" {
			brokers = append(brokers, broker)
		}
	}
	return brokers
}

func run(ctx context.Context, cfg config) error {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Consumer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Return.Successes = true

	client, err := sarama.NewClient(cfg.brokers, saramaConfig)
	if err != nil {
		return fmt.Errorf("create kafka client: %w", err)
	}
	defer func() { _ = client.Close() }()

	consumer, err := sarama.NewConsumerFromClient(client)
	if err != nil {
		return fmt.Errorf("create kafka consumer: %w", err)
	}
	defer func() { _ = consumer.Close() }()

	r := &replayer{
		cfg:     cfg,
		offsets: client,
		source:  saramaSource{consumer: consumer},
		now:     func() time.Time { return time.Now().UTC() },
		logger:  log.WithField("component", "dlq-replay"),
	}

	if cfg.execute {
		producer, err := sarama.NewSyncProducerFromClient(client)
		if err != nil {
			return fmt.Errorf("create kafka producer: %w", err)
		}
		defer func() { _ = producer.Close() }()
		r.sink = producer
	}

	total, err := r.run(ctx)
	mode := "dry-run"
	if cfg.execute {
		mode = "execute"
	}
	r.logger.WithFields(log.Fields{
		"mode":     mode,
		"scanned":  total.scanned,
		"replayed": total.replayed,
		"skipped":  total.skipped,
	}).Info("dlq replay finished")
	return err
}

func (r *replayer) run(ctx context.Context) (summary, error) {
	var total summary
	if r.cfg.execute && r.sink == nil {
		return total, errors.New("producer is required in execute mode")
	}

	partitions, err := r.offsets.Partitions(r.cfg.sourceTopic)
	if err != nil {
		return total, fmt.Errorf("list partitions of %s: %w", r.cfg.sourceTopic, err)
	}
	sort.Slice(partitions, func(i, j int) bool { return partitions[i] < partitions[j] })

	for _, partition := range partitions {
		budget := r.cfg.limit - total.scanned
		if budget <= 0 {
			break
		}
		part, err := r.scanPartition(ctx, partition, budget)
		total.add(part)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// scanPartition читает партицию от самого старого offset до зафиксированного на старте конца.
func (r *replayer) scanPartition(ctx context.Context, partition int32, budget int) (summary, error) {
	var part summary

	oldest, err := r.offsets.GetOffset(r.cfg.sourceTopic, partition, sarama.OffsetOldest)
	if err != nil {
		return part, fmt.Errorf("oldest offset of partition %d: %w", partition, err)
	}
	end, err := r.offsets.GetOffset(r.cfg.sourceTopic, partition, sarama.OffsetNewest)
	if err != nil {
		return part, fmt.Errorf("newest offset of partition %d: %w", partition, err)
	}
	if end <= oldest {
		return part, nil
	}

	stream, err := r.source.ConsumePartition(r.cfg.sourceTopic, partition, oldest)
	if err != nil {
		return part, fmt.Errorf("consume partition %d: %w", partition, err)
	}
	defer func() { _ = stream.Close() }()

	idle := time.NewTimer(r.cfg.idleTimeout)
	defer idle.Stop()

	for part.scanned < budget {
		select {
		case <-ctx.Done():
			return part, ctx.Err()
		case <-idle.C:
			return part, nil
		case consumerErr := <-stream.Errors():
			if consumerErr != nil {
				return part, fmt.Errorf("partition %d: %w", partition, consumerErr)
			}
		case msg, ok := <-stream.Messages():
			if !ok || msg == nil || msg.Offset >= end {
				return part, nil
			}
			idle.Reset(r.cfg.idleTimeout)

			part.scanned++
			replayed, err := r.handle(msg)
			if err != nil {
				return part, err
			}
			if replayed {
				part.replayed++
			} else {
				part.skipped++
			}

			if msg.Offset+1 >= end {
				return part, nil
			}
		}
	}
	return part, nil
}

func (r *replayer) handle(msg *sarama.ConsumerMessage) (bool, error) {
	fields := log.Fields{"partition": msg.Partition, "offset": msg.Offset}

	replay, err := kafka.DecodeDeadLetter(msg.Value, r.cfg.targetTopic, r.now())
	if err != nil {
		r.logger.WithError(err).WithFields(fields).Warn("skip dlq message")
		return false, nil
	}

	fields["target_topic"] = replay.Topic
	fields["key"] = replay.Key
	if !r.cfg.execute {
		r.logger.WithFields(fields).Info("dlq replay candidate")
		return true, nil
	}

	_, _, err = r.sink.SendMessage(&sarama.ProducerMessage{
		Topic:     replay.Topic,
		Key:       sarama.StringEncoder(replay.Key),
		Value:     sarama.ByteEncoder(replay.Value),
		Timestamp: r.now(),
	})
	if err != nil {
		return false, fmt.Errorf("publish replay of offset %d: %w", msg.Offset, err)
	}
	r.logger.WithFields(fields).Info("dlq message replayed")
	return true, nil
}

func fail(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
