// Package events publishes pipeline run events to NATS JetStream.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"
)

const (
	streamName    = "INVENTORY_PIPELINE"
	subjectPrefix = "inventory.pipeline"
)

// StageEvent is the payload published after each pipeline stage.
type StageEvent struct {
	Stage     string         `json:"stage"`
	RunID     string         `json:"runId"`
	Counts    map[string]int `json:"counts,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// PipelineEventPublisher publishes stage-completion events. The service runs
// fine without it; callers treat construction failure as a soft error.
type PipelineEventPublisher struct {
	nc     *nats.Conn
	js     nats.JetStreamContext
	logger *logrus.Entry
}

// NewPipelineEventPublisher connects to NATS and ensures the pipeline stream
// exists.
func NewPipelineEventPublisher(natsURL string, logger *logrus.Logger) (*PipelineEventPublisher, error) {
	if natsURL == "" {
		return nil, fmt.Errorf("NATS URL is required")
	}

	log := logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	nc, err := nats.Connect(natsURL,
		nats.Name("inventory-automation-publisher"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}

	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("open JetStream context: %w", err)
	}

	if _, err := js.StreamInfo(streamName); err != nil {
		_, err = js.AddStream(&nats.StreamConfig{
			Name:     streamName,
			Subjects: []string{subjectPrefix + ".>"},
			MaxAge:   7 * 24 * time.Hour,
		})
		if err != nil {
			log.WithError(err).Warn("Failed to ensure pipeline stream exists")
		}
	}

	return &PipelineEventPublisher{
		nc:     nc,
		js:     js,
		logger: log.WithField("component", "pipeline-events"),
	}, nil
}

// PublishStageCompleted publishes an inventory.pipeline.<stage>.completed
// event.
func (p *PipelineEventPublisher) PublishStageCompleted(ctx context.Context, stage, runID string, counts map[string]int) error {
	event := StageEvent{
		Stage:     stage,
		RunID:     runID,
		Counts:    counts,
		Timestamp: time.Now().UTC(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal stage event: %w", err)
	}

	subject := fmt.Sprintf("%s.%s.completed", subjectPrefix, stage)
	if _, err := p.js.Publish(subject, data, nats.Context(ctx)); err != nil {
		p.logger.WithFields(logrus.Fields{
			"stage": stage,
			"runId": runID,
		}).WithError(err).Error("Failed to publish stage event")
		return err
	}

	p.logger.WithFields(logrus.Fields{
		"stage": stage,
		"runId": runID,
	}).Info("Published stage event")
	return nil
}

// IsConnected returns true if connected to NATS.
func (p *PipelineEventPublisher) IsConnected() bool {
	return p.nc != nil && p.nc.IsConnected()
}

// Close drains the NATS connection.
func (p *PipelineEventPublisher) Close() {
	if p.nc != nil {
		p.nc.Close()
	}
}
