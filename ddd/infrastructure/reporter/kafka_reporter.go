package reporter

import (
	"context"
	"encoding/json"
	"time"

	"clipstream-service/ddd/domain/gateway"
	"clipstream-service/pkg/config"
	"clipstream-service/pkg/kafka"
	"clipstream-service/pkg/logger"
)

// 处理结果事件类型
const (
	EventVideoReady     = "video.ready"
	EventVideoDuplicate = "video.duplicate"
	EventVideoFailed    = "video.failed"
)

// ResultEvent 处理结果事件载荷
type ResultEvent struct {
	Event        string `json:"event"`
	VideoUUID    string `json:"video_uuid"`
	StreamUUID   string `json:"stream_uuid,omitempty"`
	OriginalUUID string `json:"original_uuid,omitempty"`
	Reason       string `json:"reason,omitempty"`
	Timestamp    int64  `json:"timestamp"`
}

// KafkaResultReporter 通过Kafka向下游广播流水线结局
type KafkaResultReporter struct {
	client *kafka.Client
	topic  string
}

// NewKafkaResultReporter 创建Kafka结果上报器
func NewKafkaResultReporter(client *kafka.Client, topic string) gateway.ProcessingResultReporter {
	return &KafkaResultReporter{client: client, topic: topic}
}

// DefaultKafkaResultReporter 使用全局配置的VideoProcessed主题
func DefaultKafkaResultReporter() gateway.ProcessingResultReporter {
	return NewKafkaResultReporter(kafka.DefaultClient(), config.GetGlobalConfig().Kafka.Topics.VideoProcessed)
}

func (r *KafkaResultReporter) produce(ctx context.Context, event ResultEvent) error {
	event.Timestamp = time.Now().Unix()
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if err := r.client.Produce(ctx, r.topic, []byte(event.VideoUUID), payload); err != nil {
		logger.Errorf("Failed to produce result event topic=%s event=%s video_uuid=%s error=%v",
			r.topic, event.Event, event.VideoUUID, err)
		return err
	}
	return nil
}

// ReportReady 通知视频处理完成
func (r *KafkaResultReporter) ReportReady(ctx context.Context, videoUUID, streamUUID string) error {
	return r.produce(ctx, ResultEvent{Event: EventVideoReady, VideoUUID: videoUUID, StreamUUID: streamUUID})
}

// ReportDuplicate 通知视频被判定为重复
func (r *KafkaResultReporter) ReportDuplicate(ctx context.Context, videoUUID, originalUUID string) error {
	return r.produce(ctx, ResultEvent{Event: EventVideoDuplicate, VideoUUID: videoUUID, OriginalUUID: originalUUID})
}

// ReportFailed 通知视频处理失败
func (r *KafkaResultReporter) ReportFailed(ctx context.Context, videoUUID, reason string) error {
	return r.produce(ctx, ResultEvent{Event: EventVideoFailed, VideoUUID: videoUUID, Reason: reason})
}
