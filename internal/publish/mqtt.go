// Package publish pushes a decoded schedule onto an MQTT broker for a
// downstream automation (e.g. Home Assistant) to consume. Adapted from
// ryansname-powerctl's mqtt_sender.go queue-while-disconnected worker,
// simplified to the planner's one-shot publish-then-done use: a run
// produces one schedule, not a continuous reading stream.
package publish

import (
	"encoding/json"
	"fmt"
	"log"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"energyplanner/internal/apperr"
	"energyplanner/internal/model"
)

// Config holds the broker connection settings.
type Config struct {
	Broker      string `yaml:"broker"`
	ClientID    string `yaml:"client_id"`
	TopicPrefix string `yaml:"topic_prefix"`
	QoS         byte   `yaml:"qos"`
	Retain      bool   `yaml:"retain"`
}

// Publisher pushes an OptimizeResponse's schedule to topics under
// TopicPrefix, one per battery plus one for appliances.
type Publisher struct {
	cfg    Config
	client mqtt.Client
}

// Connect dials the broker and blocks until the connection token resolves,
// mirroring ryansname's client.Connect()/token.Wait()/token.Error() idiom.
func Connect(cfg Config) (*Publisher, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, apperr.Wrap(apperr.Internal, "mqtt connect failed", token.Error())
	}
	return &Publisher{cfg: cfg, client: client}, nil
}

// Close disconnects cleanly, waiting up to 250ms for in-flight publishes.
func (p *Publisher) Close() {
	p.client.Disconnect(250)
}

// PublishSchedule publishes each battery's hourly plan and the appliance
// start-hour map as JSON messages, retained when cfg.Retain is set.
func (p *Publisher) PublishSchedule(sched model.Schedule) error {
	for batteryID, hours := range sched.Batteries {
		payload, err := json.Marshal(hours)
		if err != nil {
			return apperr.Wrap(apperr.Internal, "marshal battery schedule", err)
		}
		topic := fmt.Sprintf("%s/battery/%s/schedule", p.cfg.TopicPrefix, batteryID)
		if err := p.publish(topic, payload); err != nil {
			return err
		}
	}

	payload, err := json.Marshal(sched.Appliances)
	if err != nil {
		return apperr.Wrap(apperr.Internal, "marshal appliance schedule", err)
	}
	if err := p.publish(p.cfg.TopicPrefix+"/appliances/schedule", payload); err != nil {
		return err
	}
	return nil
}

func (p *Publisher) publish(topic string, payload []byte) error {
	token := p.client.Publish(topic, p.cfg.QoS, p.cfg.Retain, payload)
	token.Wait()
	if token.Error() != nil {
		log.Printf("publish to %s failed: %v", topic, token.Error())
		return apperr.Wrap(apperr.Internal, "mqtt publish failed", token.Error())
	}
	return nil
}
