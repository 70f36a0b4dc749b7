package notify

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/lixenwraith/holodisc/config"
	"github.com/lixenwraith/holodisc/core"
	"github.com/lixenwraith/holodisc/engine"
	"github.com/lixenwraith/holodisc/parameter"
	"github.com/lixenwraith/holodisc/session"
	"github.com/lixenwraith/holodisc/status"
)

// Publisher sends one message; implementations may block up to their own timeout
type Publisher interface {
	Publish(topic string, payload []byte) error
}

// MQTT publishes lifecycle events to <prefix>/<identity>/<event>
// A single publisher goroutine drains the queue, so events reach the broker in the order they happened
type MQTT struct {
	pub    Publisher
	prefix string
	logger *log.Logger

	queue     chan outbound
	done      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once

	statPublished *atomic.Int64
	statErrors    *atomic.Int64
}

type outbound struct {
	topic   string
	payload []byte
}

func NewMQTT(pub Publisher, prefix string, logger *log.Logger, metrics *status.Registry) *MQTT {
	return newMQTT(pub, prefix, logger, metrics, parameter.MQTTQueueSize)
}

func newMQTT(pub Publisher, prefix string, logger *log.Logger, metrics *status.Registry, size int) *MQTT {
	if logger == nil {
		logger = log.Default()
	}
	m := &MQTT{
		pub:           pub,
		prefix:        prefix,
		logger:        logger,
		queue:         make(chan outbound, size),
		done:          make(chan struct{}),
		stopped:       make(chan struct{}),
		statPublished: metrics.Counter("mqtt.published"),
		statErrors:    metrics.Counter("mqtt.errors"),
	}
	core.Go(m.publishLoop)
	return m
}

// Topic returns the topic for event on identity
func (m *MQTT) Topic(identity, event string) string {
	return fmt.Sprintf("%s/%s/%s", m.prefix, identity, event)
}

func (m *MQTT) SessionStarted(s *session.Session) {
	m.send(newEvent(s, EventStarted))
}

func (m *MQTT) SessionEnded(s *session.Session, reason engine.Reason) {
	m.send(newEvent(s, endEvent(reason)))
}

// Close stops the publisher goroutine; queued events not yet sent are dropped
func (m *MQTT) Close() {
	m.closeOnce.Do(func() {
		close(m.done)
	})
	<-m.stopped
}

// send enqueues without blocking the tick goroutine; a full queue counts as an error
func (m *MQTT) send(ev Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		m.statErrors.Add(1)
		return
	}
	msg := outbound{topic: m.Topic(ev.Identity, ev.Event), payload: payload}

	select {
	case <-m.done:
		return
	default:
	}

	select {
	case m.queue <- msg:
	default:
		m.statErrors.Add(1)
		m.logger.Printf("mqtt queue full, dropped %s", msg.topic)
	}
}

func (m *MQTT) publishLoop() {
	defer close(m.stopped)
	for {
		select {
		case <-m.done:
			return
		case msg := <-m.queue:
			if err := m.pub.Publish(msg.topic, msg.payload); err != nil {
				m.statErrors.Add(1)
				m.logger.Printf("mqtt publish %s: %v", msg.topic, err)
				continue
			}
			m.statPublished.Add(1)
		}
	}
}

// PahoPublisher publishes through a paho client at QoS 0
type PahoPublisher struct {
	Client mqtt.Client
}

// Connect dials the broker in cfg with auto-reconnect
func Connect(cfg config.MQTTConfig, logger *log.Logger) (*PahoPublisher, error) {
	if logger == nil {
		logger = log.Default()
	}
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	clientID := cfg.ClientID
	if clientID == "" {
		clientID = "holodisc"
	}
	opts.SetClientID(clientID)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.OnConnect = func(mqtt.Client) {
		logger.Printf("mqtt connected to %s", cfg.Broker)
	}
	opts.OnConnectionLost = func(_ mqtt.Client, err error) {
		logger.Printf("mqtt connection lost: %v", err)
	}

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(parameter.ConnectTimeout) {
		return nil, fmt.Errorf("mqtt connect to %s: timeout", cfg.Broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect to %s: %w", cfg.Broker, err)
	}
	return &PahoPublisher{Client: client}, nil
}

func (p *PahoPublisher) Publish(topic string, payload []byte) error {
	token := p.Client.Publish(topic, 0, false, payload)
	if !token.WaitTimeout(parameter.PublishTimeout) {
		return fmt.Errorf("publish timeout")
	}
	return token.Error()
}

// Close disconnects with a short grace period
func (p *PahoPublisher) Close() {
	if p.Client != nil && p.Client.IsConnected() {
		p.Client.Disconnect(250)
	}
}
