// Package notify publishes equipment status changes to the fleet's MQTT
// broker.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/sirupsen/logrus"
	"github.com/ukydev/marine-pms/internal/models"
	"github.com/ukydev/marine-pms/internal/pms"
)

const (
	DefaultTopicPrefix = "marine-pms"
	publishQoS         = 1
	publishTimeout     = 5 * time.Second
)

var ErrPublishTimeout = errors.New("mqtt publish timed out")

// StatusMessage is the payload published for every status change.
type StatusMessage struct {
	EquipmentID           string                 `json:"equipment_id"`
	EquipmentCode         string                 `json:"equipment_code"`
	VesselID              string                 `json:"vessel_id"`
	PreviousStatus        models.EquipmentStatus `json:"previous_status"`
	Status                models.EquipmentStatus `json:"status"`
	CurrentRunningHours   float64                `json:"current_running_hours"`
	OverhaulIntervalHours *float64               `json:"overhaul_interval_hours,omitempty"`
	At                    time.Time              `json:"at"`
}

// NewStatusMessage converts a status change into its wire payload.
func NewStatusMessage(c pms.StatusChange) StatusMessage {
	eq := c.Equipment
	return StatusMessage{
		EquipmentID:           eq.ID.Hex(),
		EquipmentCode:         eq.EquipmentCode,
		VesselID:              eq.VesselID.Hex(),
		PreviousStatus:        c.Previous,
		Status:                eq.Status,
		CurrentRunningHours:   eq.CurrentRunningHours,
		OverhaulIntervalHours: eq.OverhaulIntervalHours,
		At:                    c.At,
	}
}

// StatusTopic is the topic status changes of equipmentID are published on.
func StatusTopic(prefix, equipmentID string) string {
	prefix = strings.TrimSuffix(prefix, "/")
	if prefix == "" {
		prefix = DefaultTopicPrefix
	}
	return fmt.Sprintf("%s/equipment/%s/status", prefix, equipmentID)
}

type publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// MQTTPublisher sends status changes to an MQTT broker.
type MQTTPublisher struct {
	client      publisher
	disconnect  func()
	topicPrefix string
	timeout     time.Duration
	log         logrus.FieldLogger
}

// Config holds the broker settings.
type Config struct {
	Broker      string
	ClientID    string
	TopicPrefix string
	Username    string
	Password    string
}

// NewMQTTPublisher connects to the broker and returns a ready publisher.
func NewMQTTPublisher(ctx context.Context, cfg Config, log logrus.FieldLogger) (*MQTTPublisher, error) {
	if cfg.Broker == "" {
		return nil, errors.New("mqtt broker address is required")
	}
	clientID := cfg.ClientID
	if clientID == "" {
		clientID = fmt.Sprintf("marine-pms-%d", time.Now().UnixNano())
	}

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectTimeout(10 * time.Second).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			log.WithError(err).Warn("MQTT connection lost")
		})
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}

	client := mqtt.NewClient(opts)
	token := client.Connect()
	select {
	case <-token.Done():
	case <-ctx.Done():
		return nil, fmt.Errorf("connect to mqtt broker: %w", ctx.Err())
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to mqtt broker: %w", err)
	}

	log.WithFields(logrus.Fields{
		"broker":    cfg.Broker,
		"client_id": clientID,
	}).Info("Connected to MQTT broker")

	return &MQTTPublisher{
		client:      client,
		disconnect:  func() { client.Disconnect(250) },
		topicPrefix: cfg.TopicPrefix,
		timeout:     publishTimeout,
		log:         log,
	}, nil
}

// NotifyStatusChange publishes c with QoS 1, not retained.
func (p *MQTTPublisher) NotifyStatusChange(ctx context.Context, c pms.StatusChange) error {
	payload, err := json.Marshal(NewStatusMessage(c))
	if err != nil {
		return fmt.Errorf("encode status message: %w", err)
	}
	topic := StatusTopic(p.topicPrefix, c.Equipment.ID.Hex())

	token := p.client.Publish(topic, publishQoS, false, payload)
	timer := time.NewTimer(p.timeout)
	defer timer.Stop()
	select {
	case <-token.Done():
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return ErrPublishTimeout
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}

	p.log.WithFields(logrus.Fields{
		"topic":  topic,
		"status": c.Equipment.Status,
	}).Debug("Published status change")
	return nil
}

// Close disconnects from the broker.
func (p *MQTTPublisher) Close() {
	if p.disconnect != nil {
		p.disconnect()
	}
}

// Fanout forwards every status change to each notifier in turn. All
// notifiers are tried; their errors are joined.
type Fanout []pms.StatusNotifier

// NotifyStatusChange hands c to every notifier.
func (f Fanout) NotifyStatusChange(ctx context.Context, c pms.StatusChange) error {
	var errs []error
	for _, n := range f {
		if n == nil {
			continue
		}
		if err := n.NotifyStatusChange(ctx, c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LogNotifier writes status changes to the log.
type LogNotifier struct {
	Log logrus.FieldLogger
}

// NotifyStatusChange logs c at Info level.
func (n LogNotifier) NotifyStatusChange(_ context.Context, c pms.StatusChange) error {
	n.Log.WithFields(logrus.Fields{
		"equipment_id":    c.Equipment.ID.Hex(),
		"equipment_code":  c.Equipment.EquipmentCode,
		"previous_status": c.Previous,
		"status":          c.Equipment.Status,
		"running_hours":   c.Equipment.CurrentRunningHours,
	}).Info("Equipment status changed")
	return nil
}
