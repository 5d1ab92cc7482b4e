package resource

import (
	"clipstream-service/pkg/config"
	"clipstream-service/pkg/kafka"
	"clipstream-service/pkg/logger"
	"clipstream-service/pkg/manager"
)

type KafkaResource struct{}

type KafkaResourcePlugin struct{}

func (p *KafkaResourcePlugin) Name() string { return "kafka" }

func (p *KafkaResourcePlugin) MustCreateResource() manager.Resource { return &KafkaResource{} }

func (r *KafkaResource) MustOpen() {
	client := kafka.DefaultClient()
	client.MustOpen()

	cfg := config.GetGlobalConfig()
	if !cfg.Kafka.Enabled {
		return
	}
	for _, topic := range []string{cfg.Kafka.Topics.VideoUploaded, cfg.Kafka.Topics.VideoProcessed} {
		if err := client.EnsureTopic(topic, 3, 1); err != nil {
			// 主题创建失败不阻塞启动，broker可能已预建或禁用自动建题
			logger.Warnf("Failed to ensure Kafka topic topic=%s error=%v", topic, err)
		}
	}
}

func (r *KafkaResource) Close() { kafka.DefaultClient().Close() }
