package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"go.uber.org/zap"

	"github.com/turbolytics/rowset/pkg/row"
)

// Emitter publishes rows to a kafka topic as JSON documents, keyed by a
// configurable column.
type Emitter struct {
	config    kafka.ConfigMap
	producer  *kafka.Producer
	topic     string
	keyColumn string
	logger    *zap.Logger
}

// NewEmitter parses a kafka URI of the form
//
//	kafka://broker:9092/topic?key_column=id&acks=all
//
// The path names the topic. The key_column query parameter selects the
// message key; every other parameter is passed through as a producer
// config override.
func NewEmitter(ctx context.Context, uri *url.URL, logger *zap.Logger) (*Emitter, error) {
	topic := strings.TrimPrefix(uri.Path, "/")
	if topic == "" {
		return nil, fmt.Errorf("topic must be specified in URL path")
	}

	config := kafka.ConfigMap{
		"bootstrap.servers": uri.Host,
		"client.id":         "rowset-emitter",

		"acks":                                  "1",
		"retries":                               "3",
		"batch.size":                            "16384",
		"linger.ms":                             "5",
		"compression.type":                      "snappy",
		"max.in.flight.requests.per.connection": "5",

		"request.timeout.ms":  "5000",
		"delivery.timeout.ms": "10000",
	}

	keyColumn := ""
	for key, values := range uri.Query() {
		if len(values) == 0 {
			continue
		}
		if key == "key_column" {
			keyColumn = values[0]
			continue
		}
		config[key] = values[0]
	}

	return &Emitter{
		topic:     topic,
		keyColumn: keyColumn,
		config:    config,
		logger:    logger,
	}, nil
}

func (e *Emitter) Connect(ctx context.Context) error {
	producer, err := kafka.NewProducer(&e.config)
	if err != nil {
		return err
	}
	e.producer = producer

	go func() {
		defer e.logger.Info("producer event loop closed")

		for ev := range producer.Events() {
			switch ev := ev.(type) {
			case *kafka.Message:
				if ev.TopicPartition.Error != nil {
					e.logger.Error("delivery failed", zap.Error(ev.TopicPartition.Error))
				} else {
					e.logger.Debug("message delivered",
						zap.String("topic", *ev.TopicPartition.Topic),
						zap.Int32("partition", ev.TopicPartition.Partition),
						zap.Int64("offset", int64(ev.TopicPartition.Offset)))
				}
			case kafka.Error:
				e.logger.Error("producer error", zap.Error(ev))
			}
		}
	}()

	e.logger.Info("kafka emitter connected",
		zap.String("topic", e.topic),
	)

	return nil
}

// Emit publishes the row's mapping view as a JSON document. Rows whose
// labels cannot form a mapping (duplicates) fail here rather than
// producing a lossy document.
func (e *Emitter) Emit(ctx context.Context, r *row.Row) error {
	doc, err := r.AsMap()
	if err != nil {
		return err
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	var key []byte
	if e.keyColumn != "" {
		v, err := r.Field(e.keyColumn)
		if err != nil {
			return fmt.Errorf("key column: %w", err)
		}
		key = []byte(fmt.Sprintf("%v", v))
	}

	message := &kafka.Message{
		TopicPartition: kafka.TopicPartition{
			Topic:     &e.topic,
			Partition: kafka.PartitionAny,
		},
		Key:   key,
		Value: data,
	}

	return e.producer.Produce(message, nil)
}

// Flush blocks until outstanding messages deliver or the timeout lapses,
// returning the number still undelivered.
func (e *Emitter) Flush(timeoutMS int) int {
	return e.producer.Flush(timeoutMS)
}

func (e *Emitter) Close(ctx context.Context) error {
	if e.producer != nil {
		e.producer.Flush(5000)
		e.producer.Close()
	}
	return nil
}
