package consumer

import (
	"context"
	"encoding/json"

	"github.com/nsqio/go-nsq"
	"github.com/sirupsen/logrus"

	"emosense/internal/config"
	"emosense/internal/dao"
	"emosense/internal/model"
	"emosense/pkg/log"
)

// Consumer drains the emotion-sample topic and persists samples that
// belong to known sessions.
type Consumer struct {
	consumer *nsq.Consumer
	conf     *config.NSQConfig
	logger   *logrus.Entry
}

func NewConsumer(conf *config.NSQConfig) (*Consumer, error) {
	nsqConf := nsq.NewConfig()
	nsqConsumer, err := nsq.NewConsumer(conf.Topic, conf.Channel, nsqConf)
	if err != nil {
		return nil, err
	}
	c := &Consumer{
		consumer: nsqConsumer,
		conf:     conf,
		logger:   log.GetLogger(context.Background()),
	}
	nsqConsumer.AddHandler(c)
	return c, nil
}

func (c *Consumer) Start() error {
	return c.consumer.ConnectToNSQDs(c.conf.Addrs)
}

func (c *Consumer) Stop() {
	c.consumer.Stop()
	<-c.consumer.StopChan
}

// HandleMessage persists one emotion sample. Messages for unknown sessions
// are finished with a warning rather than requeued: the session will never
// appear retroactively.
func (c *Consumer) HandleMessage(m *nsq.Message) error {
	var msg dao.EmotionSampleMessage
	if err := json.Unmarshal(m.Body, &msg); err != nil {
		c.logger.WithError(err).Warn("drop malformed sample message")
		return nil
	}

	session, err := model.GetSessionByUuid(msg.SessionUuid)
	if err != nil {
		return err
	}
	if session == nil {
		c.logger.Warnf("drop sample for unknown session %s", msg.SessionUuid)
		return nil
	}

	return model.AddDetectedEmotion(&model.DetectedEmotion{
		SessionId:  session.Id,
		Emotion:    msg.Emotion,
		Confidence: msg.Confidence,
		DetectedAt: msg.Timestamp,
	})
}
