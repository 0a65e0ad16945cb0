package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helmside/boatclub/core/notify"
)

type stubToken struct {
	err     error
	timeout bool
}

func (t *stubToken) Wait() bool                     { return true }
func (t *stubToken) WaitTimeout(time.Duration) bool { return !t.timeout }
func (t *stubToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
func (t *stubToken) Error() error { return t.err }

type stubClient struct {
	connected  bool
	connectErr error
	publishErr error
	timeout    bool

	published []struct {
		topic   string
		payload []byte
	}
}

func (c *stubClient) IsConnected() bool { return c.connected }

func (c *stubClient) Connect() paho.Token {
	c.connected = c.connectErr == nil
	return &stubToken{err: c.connectErr}
}

func (c *stubClient) Disconnect(quiesce uint) { c.connected = false }

func (c *stubClient) Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token {
	c.published = append(c.published, struct {
		topic   string
		payload []byte
	}{topic, payload.([]byte)})
	return &stubToken{err: c.publishErr, timeout: c.timeout}
}

func withStubClient(t *testing.T, c *stubClient) {
	t.Helper()
	orig := newMQTTClient
	newMQTTClient = func(opts *paho.ClientOptions) pahoClient { return c }
	t.Cleanup(func() { newMQTTClient = orig })
}

func TestNotifyPublishesPerMember(t *testing.T) {
	cli := &stubClient{}
	withStubClient(t, cli)

	n, err := NewPahoNotifier(Config{Broker: "tcp://localhost:1883", ClientID: "test"})
	require.NoError(t, err)

	msgs := []notify.Message{
		{ID: "a", UserID: 7, Title: notify.TitleBatteryAssigned, Body: "x"},
		{ID: "b", UserID: 9, Title: notify.TitleBatteryAssigned, Body: "y"},
	}
	require.NoError(t, n.Notify(context.Background(), msgs))
	require.Len(t, cli.published, 2)
	assert.Equal(t, "boatclub/notify/7", cli.published[0].topic)
	assert.Equal(t, "boatclub/notify/9", cli.published[1].topic)

	var decoded notify.Message
	require.NoError(t, json.Unmarshal(cli.published[0].payload, &decoded))
	assert.Equal(t, "a", decoded.ID)
	assert.Equal(t, int64(7), decoded.UserID)

	require.NoError(t, n.Close())
	assert.False(t, cli.connected)
}

func TestNotifyPublishFailureAbortsBatch(t *testing.T) {
	cli := &stubClient{publishErr: errors.New("broker gone")}
	withStubClient(t, cli)

	n, err := NewPahoNotifier(Config{Broker: "tcp://localhost:1883", ClientID: "test"})
	require.NoError(t, err)

	msgs := []notify.Message{{ID: "a", UserID: 1}, {ID: "b", UserID: 2}}
	err = n.Notify(context.Background(), msgs)
	require.Error(t, err)
	// The first failure stops the batch.
	assert.Len(t, cli.published, 1)
}

func TestNotifyPublishTimeout(t *testing.T) {
	cli := &stubClient{timeout: true}
	withStubClient(t, cli)

	n, err := NewPahoNotifier(Config{Broker: "tcp://localhost:1883", ClientID: "test", PublishTimeoutMS: 10})
	require.NoError(t, err)

	err = n.Notify(context.Background(), []notify.Message{{ID: "a", UserID: 1}})
	assert.ErrorIs(t, err, notify.ErrPublishTimeout)
}

func TestNotifyHonoursContext(t *testing.T) {
	cli := &stubClient{}
	withStubClient(t, cli)

	n, err := NewPahoNotifier(Config{Broker: "tcp://localhost:1883", ClientID: "test"})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = n.Notify(ctx, []notify.Message{{ID: "a", UserID: 1}})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, cli.published)
}

func TestNewPahoNotifierConnectFailure(t *testing.T) {
	cli := &stubClient{connectErr: errors.New("refused")}
	withStubClient(t, cli)

	_, err := NewPahoNotifier(Config{Broker: "tcp://localhost:1883", ClientID: "test"})
	assert.Error(t, err)
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{}
	cfg.SetDefaults()
	assert.Equal(t, "boatclub/notify", cfg.TopicPrefix)
	assert.Equal(t, 5000, cfg.PublishTimeoutMS)
}
