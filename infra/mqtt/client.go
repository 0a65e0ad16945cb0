package mqtt

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/helmside/boatclub/core/notify"
	"github.com/helmside/boatclub/infra/logger"
)

// Config defines the connection parameters for the Paho MQTT notifier.
type Config struct {
	Broker           string `json:"broker"`
	ClientID         string `json:"client_id"`
	Username         string `json:"username"`
	Password         string `json:"password"`
	TopicPrefix      string `json:"topic_prefix"`
	QoS              byte   `json:"qos"`
	Retained         bool   `json:"retained"`
	UseTLS           bool   `json:"use_tls"`
	ClientCert       string `json:"client_cert"`
	ClientKey        string `json:"client_key"`
	CABundle         string `json:"ca_bundle"`
	PublishTimeoutMS int    `json:"publish_timeout_ms"`
}

// SetDefaults applies the standard topic prefix and publish timeout.
func (c *Config) SetDefaults() {
	if c.TopicPrefix == "" {
		c.TopicPrefix = "boatclub/notify"
	}
	if c.PublishTimeoutMS == 0 {
		c.PublishTimeoutMS = 5000
	}
}

type pahoClient interface {
	IsConnected() bool
	Connect() paho.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
}

var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// PahoNotifier delivers hand-off messages over MQTT, one message per member
// topic.
type PahoNotifier struct {
	cli      pahoClient
	prefix   string
	qos      byte
	retained bool
	timeout  time.Duration
	log      logger.Logger
}

// NewPahoNotifier connects to the MQTT broker.
func NewPahoNotifier(cfg Config) (*PahoNotifier, error) {
	cfg.SetDefaults()
	opts, err := NewClientOptions(cfg)
	if err != nil {
		return nil, err
	}
	log := logger.New("mqtt_notifier")
	opts.OnConnect = func(paho.Client) { log.Infof("MQTT connected") }
	opts.OnConnectionLost = func(_ paho.Client, err error) { log.Errorf("connection lost: %v", err) }
	opts.OnReconnecting = func(paho.Client, *paho.ClientOptions) { log.Warnf("reconnecting to MQTT broker") }

	c := newMQTTClient(opts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	return &PahoNotifier{
		cli:      c,
		prefix:   cfg.TopicPrefix,
		qos:      cfg.QoS,
		retained: cfg.Retained,
		timeout:  time.Duration(cfg.PublishTimeoutMS) * time.Millisecond,
		log:      log,
	}, nil
}

// NewClientOptions builds mqtt client options from Config.
func NewClientOptions(cfg Config) (*paho.ClientOptions, error) {
	opts := paho.NewClientOptions().AddBroker(cfg.Broker).SetClientID(cfg.ClientID)
	opts.AutoReconnect = true
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	if cfg.UseTLS {
		tlsCfg := &tls.Config{MinVersion: tls.VersionTLS12}
		if cfg.CABundle != "" {
			ca, err := os.ReadFile(cfg.CABundle)
			if err != nil {
				return nil, fmt.Errorf("read ca bundle: %w", err)
			}
			pool := x509.NewCertPool()
			if !pool.AppendCertsFromPEM(ca) {
				return nil, fmt.Errorf("invalid ca bundle %s", cfg.CABundle)
			}
			tlsCfg.RootCAs = pool
		}
		if cfg.ClientCert != "" && cfg.ClientKey != "" {
			cert, err := tls.LoadX509KeyPair(cfg.ClientCert, cfg.ClientKey)
			if err != nil {
				return nil, fmt.Errorf("load client cert: %w", err)
			}
			tlsCfg.Certificates = []tls.Certificate{cert}
		}
		opts.SetTLSConfig(tlsCfg)
	}
	return opts, nil
}

// Notify publishes every message of the batch to its member topic. The first
// failed publish aborts the batch; the caller retries the whole sweep.
func (n *PahoNotifier) Notify(ctx context.Context, msgs []notify.Message) error {
	for _, m := range msgs {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		payload, err := json.Marshal(m)
		if err != nil {
			return fmt.Errorf("marshal message %s: %w", m.ID, err)
		}
		topic := n.prefix + "/" + strconv.FormatInt(m.UserID, 10)
		token := n.cli.Publish(topic, n.qos, n.retained, payload)
		if !token.WaitTimeout(n.timeout) {
			return fmt.Errorf("publish %s: %w", topic, notify.ErrPublishTimeout)
		}
		if token.Error() != nil {
			return fmt.Errorf("publish %s: %w", topic, token.Error())
		}
		n.log.Debugw("notification published", map[string]any{"topic": topic, "title": m.Title})
	}
	return nil
}

// Close disconnects from the broker.
func (n *PahoNotifier) Close() error {
	if n.cli != nil && n.cli.IsConnected() {
		n.cli.Disconnect(250)
	}
	return nil
}
