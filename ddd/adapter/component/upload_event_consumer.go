package component

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"

	appsvc "clipstream-service/ddd/application/app"
	cqe "clipstream-service/ddd/application/cqe"
	"clipstream-service/pkg/config"
	pkgkafka "clipstream-service/pkg/kafka"
	"clipstream-service/pkg/logger"
	"clipstream-service/pkg/manager"
)

// UploadEventConsumerPlugin 消费上传完成事件，触发视频入队处理
type UploadEventConsumerPlugin struct{}

func (p *UploadEventConsumerPlugin) Name() string { return "uploadEventConsumer" }

func (p *UploadEventConsumerPlugin) MustCreateComponent(deps *manager.Dependencies) manager.Component {
	cfg := deps.Config
	if cfg == nil {
		cfg = config.GetGlobalConfig()
	}
	return &uploadEventConsumer{app: appsvc.DefaultVideoApp(), cfg: cfg}
}

type uploadEventConsumer struct {
	app    appsvc.VideoApp
	cfg    *config.Config
	ctx    context.Context
	cancel context.CancelFunc
}

func (c *uploadEventConsumer) Start() error {
	if !c.cfg.Kafka.Enabled {
		logger.Infof("Upload event consumer disabled by config")
		return nil
	}
	c.ctx, c.cancel = context.WithCancel(context.Background())
	topic := c.cfg.Kafka.Topics.VideoUploaded
	groupID := c.cfg.Kafka.GroupID
	reader := pkgkafka.DefaultClient().Reader(topic, groupID)
	go func() {
		defer reader.Close()
		logger.Infof("Kafka consumer started topic=%s group=%s", topic, groupID)
		for {
			msg, err := reader.ReadMessage(c.ctx)
			if err != nil {
				if c.ctx.Err() != nil {
					return
				}
				if errors.Is(err, io.EOF) || strings.Contains(err.Error(), "EOF") {
					logger.Debugf("Kafka reader EOF")
				} else {
					logger.Warnf("Kafka read error error=%s", err.Error())
				}
				continue
			}
			var m struct {
				VideoUUID string `json:"video_uuid"`
			}
			if err := json.Unmarshal(msg.Value, &m); err != nil {
				logger.Warnf("Kafka message unmarshal error error=%s", err.Error())
				continue
			}
			logger.Infof("Upload event received video_uuid=%s", m.VideoUUID)
			req := &cqe.CompleteUploadReq{VideoUUID: m.VideoUUID}
			if _, err := c.app.CompleteUpload(context.Background(), req); err != nil {
				// 处理失败只记日志，事件侧不重试；前端仍可走HTTP补偿
				logger.Warnf("CompleteUpload failed error=%s video_uuid=%s", err.Error(), m.VideoUUID)
			}
		}
	}()
	return nil
}

func (c *uploadEventConsumer) Stop() error {
	if c.cancel != nil {
		c.cancel()
	}
	return nil
}

func (c *uploadEventConsumer) GetName() string { return "uploadEventConsumer" }
