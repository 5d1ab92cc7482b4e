package media

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"clipstream-service/ddd/domain/gateway"
	"clipstream-service/pkg/logger"
)

// FFmpegMedia 基于本地ffmpeg/ffprobe的媒体处理实现
type FFmpegMedia struct {
	binary string
}

// NewFFmpegMedia 创建媒体处理器，binary为ffmpeg可执行文件路径
func NewFFmpegMedia(binary string) gateway.MediaGateway {
	if binary == "" {
		binary = "ffmpeg"
	}
	return &FFmpegMedia{binary: binary}
}

// probeBinary 从ffmpeg路径推导ffprobe路径
func (m *FFmpegMedia) probeBinary() string {
	dir, base := filepath.Split(m.binary)
	probe := strings.Replace(base, "ffmpeg", "ffprobe", 1)
	if probe == base {
		probe = "ffprobe"
	}
	return filepath.Join(dir, probe)
}

// Probe 获取视频时长（秒）
func (m *FFmpegMedia) Probe(ctx context.Context, inputPath string) (float64, error) {
	cmd := exec.CommandContext(ctx, m.probeBinary(),
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		inputPath,
	)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		logger.Errorf("ffprobe failed input=%s stderr=%s", inputPath, strings.TrimSpace(stderr.String()))
		return 0, fmt.Errorf("probe media failed: %w", err)
	}
	duration, err := strconv.ParseFloat(strings.TrimSpace(stdout.String()), 64)
	if err != nil || duration <= 0 {
		return 0, fmt.Errorf("media has no valid duration: %q", strings.TrimSpace(stdout.String()))
	}
	return duration, nil
}

// Transcode 转码归一化为H.264/AAC的MP4，返回视频时长
func (m *FFmpegMedia) Transcode(ctx context.Context, inputPath, outputPath string) (float64, error) {
	// 先探测，损坏的媒体文件在这里直接失败
	duration, err := m.Probe(ctx, inputPath)
	if err != nil {
		return 0, err
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return 0, fmt.Errorf("create output dir: %w", err)
	}

	args := []string{
		"-y",
		"-i", inputPath,
		"-c:v", "libx264",
		"-preset", "veryfast",
		"-crf", "23",
		"-c:a", "aac",
		"-b:a", "128k",
		"-movflags", "+faststart",
		outputPath,
	}
	if err := m.run(ctx, args); err != nil {
		return 0, fmt.Errorf("transcode failed: %w", err)
	}
	return duration, nil
}

// ExtractClip 截取片段（流拷贝，避免重复编码）
func (m *FFmpegMedia) ExtractClip(ctx context.Context, inputPath, outputPath string, startSeconds, endSeconds float64) error {
	if endSeconds <= startSeconds {
		return fmt.Errorf("invalid clip range: start=%f end=%f", startSeconds, endSeconds)
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	args := []string{
		"-y",
		"-ss", strconv.FormatFloat(startSeconds, 'f', 3, 64),
		"-to", strconv.FormatFloat(endSeconds, 'f', 3, 64),
		"-i", inputPath,
		"-c", "copy",
		outputPath,
	}
	if err := m.run(ctx, args); err != nil {
		return fmt.Errorf("extract clip failed: %w", err)
	}
	return nil
}

func (m *FFmpegMedia) run(ctx context.Context, args []string) error {
	cmd := exec.CommandContext(ctx, m.binary, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	logger.Debugf("ffmpeg command args=%s", strings.Join(args, " "))
	if err := cmd.Run(); err != nil {
		tail := stderr.String()
		if len(tail) > 2048 {
			tail = tail[len(tail)-2048:]
		}
		logger.Errorf("ffmpeg failed tail_stderr=%s", tail)
		return err
	}
	return nil
}
