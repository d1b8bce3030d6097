package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/IBM/sarama"
	"github.com/google/uuid"

	"github.com/prabhat9478/jyotish-web/internal/ports/queue"
)

const headerJobType = "job_type"

// Producer submits background jobs to the worker topic.
type Producer struct {
	producer sarama.SyncProducer
	cfg      *Config
	log      *slog.Logger
}

// NewProducer creates a new Kafka producer.
func NewProducer(cfg *Config, log *slog.Logger) (*Producer, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5

	applySecurity(config, cfg)

	producer, err := sarama.NewSyncProducer(cfg.GetBrokers(), config)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	log.Info("kafka producer created",
		"brokers", cfg.Brokers,
		"topic", cfg.Topic,
	)

	return &Producer{
		producer: producer,
		cfg:      cfg,
		log:      log,
	}, nil
}

// applySecurity configures SASL/TLS when a security protocol is set.
func applySecurity(config *sarama.Config, cfg *Config) {
	if cfg.SecurityProtocol != "SASL_SSL" && cfg.SecurityProtocol != "SASL_PLAINTEXT" {
		return
	}

	config.Net.SASL.Enable = true
	config.Net.SASL.Mechanism = sarama.SASLTypePlaintext
	if cfg.SASLMechanism == "SCRAM-SHA-256" {
		config.Net.SASL.Mechanism = sarama.SASLTypeSCRAMSHA256
	}
	config.Net.SASL.User = cfg.SASLUsername
	config.Net.SASL.Password = cfg.SASLPassword
	if cfg.SecurityProtocol == "SASL_SSL" {
		config.Net.TLS.Enable = true
	}
}

type pdfJobPayload struct {
	ReportID uuid.UUID `json:"report_id"`
}

type alertJobPayload struct {
	ProfileID uuid.UUID `json:"profile_id"`
}

// EnqueuePDFGeneration submits a PDF render job for a completed report.
func (p *Producer) EnqueuePDFGeneration(ctx context.Context, reportID uuid.UUID) error {
	value, err := json.Marshal(pdfJobPayload{ReportID: reportID})
	if err != nil {
		return fmt.Errorf("failed to marshal pdf job: %w", err)
	}
	return p.send(queue.JobGeneratePDF, reportID.String(), value)
}

// EnqueueAlertScan submits a transit alert scan for one profile.
func (p *Producer) EnqueueAlertScan(ctx context.Context, profileID uuid.UUID) error {
	value, err := json.Marshal(alertJobPayload{ProfileID: profileID})
	if err != nil {
		return fmt.Errorf("failed to marshal alert job: %w", err)
	}
	return p.send(queue.JobGenerateAlerts, profileID.String(), value)
}

// send publishes one job message. Keying by entity ID keeps all jobs for
// the same report or profile on one partition, in order.
func (p *Producer) send(jobType, key string, value []byte) error {
	msg := &sarama.ProducerMessage{
		Topic: p.cfg.Topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(value),
		Headers: []sarama.RecordHeader{
			{
				Key:   []byte(headerJobType),
				Value: []byte(jobType),
			},
		},
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		p.log.Debug("kafka send failed",
			"error", err,
			"topic", p.cfg.Topic,
			"job_type", jobType,
			"key", key,
		)
		return fmt.Errorf("kafka send failed [topic=%s, key=%s]: %w",
			p.cfg.Topic, key, err)
	}

	p.log.Debug("job sent to kafka",
		"topic", p.cfg.Topic,
		"partition", partition,
		"offset", offset,
		"job_type", jobType,
		"key", key,
	)

	return nil
}

// Close closes the producer.
func (p *Producer) Close() error {
	if err := p.producer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka producer: %w", err)
	}
	p.log.Info("kafka producer closed")
	return nil
}
