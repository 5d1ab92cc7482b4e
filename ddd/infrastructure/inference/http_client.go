package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"clipstream-service/ddd/domain/gateway"
	"clipstream-service/ddd/domain/vo"
	"clipstream-service/pkg/logger"
)

// HTTPInferenceClient 推理服务的HTTP客户端实现
type HTTPInferenceClient struct {
	baseURL string
	client  *http.Client
}

// NewHTTPInferenceClient 创建推理服务客户端
func NewHTTPInferenceClient(baseURL string, timeout time.Duration) gateway.InferenceGateway {
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &HTTPInferenceClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type transcribeRequest struct {
	MediaURL string `json:"media_url"`
}

type transcribeResponse struct {
	Segments []vo.TranscriptSegment `json:"segments"`
}

type embedRequest struct {
	MediaURL   string `json:"media_url"`
	Transcript string `json:"transcript,omitempty"`
}

type embedResponse struct {
	Vector vo.Vector `json:"vector"`
}

// Transcribe 对媒体文件做语音转写
func (c *HTTPInferenceClient) Transcribe(ctx context.Context, mediaURL string) (vo.Transcript, error) {
	var resp transcribeResponse
	if err := c.post(ctx, "/v1/transcribe", transcribeRequest{MediaURL: mediaURL}, &resp); err != nil {
		return nil, err
	}
	transcript := vo.Transcript(resp.Segments)
	if err := transcript.Validate(); err != nil {
		return nil, fmt.Errorf("inference returned malformed transcript: %w", err)
	}
	return transcript, nil
}

// EmbedVideo 抽取内容向量
func (c *HTTPInferenceClient) EmbedVideo(ctx context.Context, mediaURL string, transcriptText string) (vo.Vector, error) {
	var resp embedResponse
	if err := c.post(ctx, "/v1/embed", embedRequest{MediaURL: mediaURL, Transcript: transcriptText}, &resp); err != nil {
		return nil, err
	}
	return resp.Vector, nil
}

func (c *HTTPInferenceClient) post(ctx context.Context, path string, reqBody, respBody interface{}) error {
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("marshal inference request failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build inference request failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("call inference service failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<20))
	if err != nil {
		return fmt.Errorf("read inference response failed: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		logger.Warnf("Inference service returned error path=%s status=%d body_len=%d", path, resp.StatusCode, len(body))
		return fmt.Errorf("inference service returned status %d", resp.StatusCode)
	}

	if err := json.Unmarshal(body, respBody); err != nil {
		return fmt.Errorf("decode inference response failed: %w", err)
	}
	return nil
}
