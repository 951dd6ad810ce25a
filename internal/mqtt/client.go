package mqtt

import (
	"errors"
	"fmt"
	"math/rand"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/berfenger/pvledger2mqtt/internal/config"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const (
	MQTT_PAYLOAD_ONLINE  = "online"
	MQTT_PAYLOAD_OFFLINE = "offline"
	MQTT_PAYLOAD_ON      = "on"
	MQTT_PAYLOAD_OFF     = "off"
)

var ErrStaleOrUnavailableSample = errors.New("stale or unavailable sample")

func OptsFromConfig(cfg *config.Config) *mqtt.ClientOptions {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s:%d", cfg.MQTT.Host, cfg.MQTT.Port))
	opts.SetClientID(fmt.Sprintf("pvledger_%d", rand.Intn(1000)))
	if cfg.MQTT.Username != "" && cfg.MQTT.Password != "" {
		opts.SetUsername(cfg.MQTT.Username)
		opts.SetPassword(cfg.MQTT.Password)
	}
	opts.WillEnabled = true
	opts.WillPayload = []byte(MQTT_PAYLOAD_OFFLINE)
	opts.WillRetained = true
	opts.WillTopic = bridgeStateTopic(cfg.MQTT.BaseTopic)
	opts.WillQos = 0

	return opts
}

func CreateMQTTClient(cfg *config.Config, opts *mqtt.ClientOptions, onConnectHandler func(client mqtt.Client),
	onConnectionLostHandler func(mqtt.Client, error)) *MQTTClient {
	if onConnectHandler != nil {
		opts.OnConnect = onConnectHandler
	}
	if onConnectionLostHandler != nil {
		opts.OnConnectionLost = onConnectionLostHandler
	}
	return &MQTTClient{
		client:              mqtt.NewClient(opts),
		cfg:                 cfg.MQTT,
		buttonCommandRegexp: buttonCommandExtractor(cfg.MQTT.BaseTopic),
	}
}

type MQTTClient struct {
	client              mqtt.Client
	cfg                 config.MQTTConfig
	buttonCommandRegexp *regexp.Regexp
}

type ParsedMQTTCommand struct {
	DeviceId string
	Command  string
	Payload  string
}

func (c *MQTTClient) baseTopic() string {
	return c.cfg.BaseTopic
}

func (c *MQTTClient) BridgeStateTopic() string {
	return bridgeStateTopic(c.baseTopic())
}

func (c *MQTTClient) SensorStateTopic(sensorId string) string {
	return fmt.Sprintf("%s/sensor/%s/state", c.baseTopic(), sensorId)
}

func (c *MQTTClient) BinarySensorStateTopic(sensorId string) string {
	return fmt.Sprintf("%s/binary_sensor/%s/state", c.baseTopic(), sensorId)
}

func (c *MQTTClient) ButtonCommandTopic(buttonId string) string {
	return fmt.Sprintf("%s/button/%s/command", c.baseTopic(), buttonId)
}

func (c *MQTTClient) ParseMQTTCommand(msg mqtt.Message) (*ParsedMQTTCommand, error) {
	topic := msg.Topic()
	matches := c.buttonCommandRegexp.FindAllStringSubmatch(topic, 1)
	if len(matches) == 0 {
		return nil, errors.New("invalid command")
	}
	if len(matches[0]) != 2 {
		return nil, errors.New("invalid button command")
	}
	return &ParsedMQTTCommand{
		DeviceId: matches[0][1],
		Command:  "button",
		Payload:  string(msg.Payload()),
	}, nil
}

// ParseMeterPayload parses an energy reading or a price from an upstream
// state topic. Home Assistant style placeholder payloads ("unavailable",
// "unknown") and negative readings are reported as stale, never as zero.
func ParseMeterPayload(payload []byte) (float64, error) {
	text := strings.TrimSpace(string(payload))
	switch strings.ToLower(text) {
	case "", "unavailable", "unknown", "none", "null":
		return 0, ErrStaleOrUnavailableSample
	}
	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("unparseable meter payload %q: %w", text, err)
	}
	if value < 0 {
		return 0, ErrStaleOrUnavailableSample
	}
	return value, nil
}

func (c *MQTTClient) Publish(topic string, payload any, qos byte, retain bool, continuation func(error), timeout time.Duration) {
	token := c.client.Publish(topic, qos, retain, payload)
	go func() {
		didTO := token.WaitTimeout(timeout)
		if !didTO {
			continuation(errors.New("MQTT publish timed out"))
		} else {
			continuation(token.Error())
		}
	}()
}

func (c *MQTTClient) Subscribe(topic string, qos byte, handler mqtt.MessageHandler, continuation func(error), timeout time.Duration) {
	token := c.client.Subscribe(topic, qos, handler)
	go func() {
		didTO := token.WaitTimeout(timeout)
		if !didTO {
			continuation(errors.New("MQTT subscribe timed out"))
		} else {
			continuation(token.Error())
		}
	}()
}

func (c *MQTTClient) SubscribeToCommandTopic(handler mqtt.MessageHandler, continuation func(error), timeout time.Duration) {
	c.Subscribe(c.commandTopic(), 1, handler, continuation, timeout)
}

func (c *MQTTClient) Unsubscribe(topic string, continuation func(error), timeout time.Duration) {
	token := c.client.Unsubscribe(topic)
	go func() {
		didTO := token.WaitTimeout(timeout)
		if !didTO {
			continuation(errors.New("MQTT unsubscribe timed out"))
		} else {
			continuation(token.Error())
		}
	}()
}

func (c *MQTTClient) Connect(continuation func(error), timeout time.Duration) {
	token := c.client.Connect()
	go func() {
		didTO := token.WaitTimeout(timeout)
		if !didTO {
			continuation(errors.New("MQTT connect timed out"))
		} else {
			continuation(token.Error())
		}
	}()
}

func (c *MQTTClient) Disconnect(timeout time.Duration) {
	c.client.Disconnect(uint(timeout.Milliseconds()))
}

func (c *MQTTClient) commandTopic() string {
	return fmt.Sprintf("%s/button/+/command", c.baseTopic())
}

func buttonCommandExtractor(baseTopic string) *regexp.Regexp {
	return regexp.MustCompile(fmt.Sprintf("%s/button/([a-zA-Z0-9_]+)/command", baseTopic))
}

func bridgeStateTopic(baseTopic string) string {
	return fmt.Sprintf("%s/bridge/state", baseTopic)
}
