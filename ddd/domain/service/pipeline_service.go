package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"clipstream-service/ddd/domain/entity"
	"clipstream-service/ddd/domain/gateway"
	"clipstream-service/ddd/domain/repo"
	"clipstream-service/ddd/domain/vo"
	"clipstream-service/pkg/config"
	"clipstream-service/pkg/errno"
	"clipstream-service/pkg/logger"
)

// PipelineOutcome 流水线执行结局
type PipelineOutcome string

const (
	// OutcomeReady 全部阶段完成，视频就绪
	OutcomeReady PipelineOutcome = "ready"
	// OutcomeDuplicate 重复检测命中，剩余阶段短路
	OutcomeDuplicate PipelineOutcome = "duplicate"
)

// 相似关联最多保留的邻居数
const maxSimilarNeighbors = 20

// PipelineService 流水线领域服务。从断点阶段恢复执行，逐阶段推进检查点。
type PipelineService interface {
	// ExecuteVideo 执行视频的处理流水线。从processingIndex+1阶段开始，
	// 逐阶段执行并持久化检查点；任一阶段失败立即返回，断点保留。
	ExecuteVideo(ctx context.Context, videoUUID string) (PipelineOutcome, error)
}

type pipelineServiceImpl struct {
	videoRepo         repo.VideoRepository
	similarLinkRepo   repo.SimilarLinkRepository
	storage           gateway.StorageGateway
	inference         gateway.InferenceGateway
	media             gateway.MediaGateway
	similarityService SimilarityService
	searchService     SearchService
	reporter          gateway.ProcessingResultReporter
	cfg               *config.Config
}

// NewPipelineService 创建流水线领域服务
func NewPipelineService(
	videoRepo repo.VideoRepository,
	similarLinkRepo repo.SimilarLinkRepository,
	storage gateway.StorageGateway,
	inference gateway.InferenceGateway,
	media gateway.MediaGateway,
	similarityService SimilarityService,
	searchService SearchService,
	reporter gateway.ProcessingResultReporter,
	cfg *config.Config,
) PipelineService {
	return &pipelineServiceImpl{
		videoRepo:         videoRepo,
		similarLinkRepo:   similarLinkRepo,
		storage:           storage,
		inference:         inference,
		media:             media,
		similarityService: similarityService,
		searchService:     searchService,
		reporter:          reporter,
		cfg:               cfg,
	}
}

// ExecuteVideo 执行视频的处理流水线
func (s *pipelineServiceImpl) ExecuteVideo(ctx context.Context, videoUUID string) (PipelineOutcome, error) {
	video, err := s.videoRepo.GetVideoByUUID(ctx, videoUUID)
	if err != nil {
		return "", fmt.Errorf("failed to get video: %w", err)
	}
	if err := video.StartProcessing(); err != nil {
		return "", err
	}
	if err := s.videoRepo.UpdateVideo(ctx, video); err != nil {
		return "", fmt.Errorf("failed to persist processing start: %w", err)
	}

	for {
		stage, ok := vo.NextStage(video.ProcessingIndex())
		if !ok {
			break
		}

		stageCtx, cancel := context.WithTimeout(ctx, s.cfg.Pipeline.StageDeadline)
		err := s.runStage(stageCtx, video, stage)
		cancel()
		if err != nil {
			return "", fmt.Errorf("stage %s failed: %w", stage, err)
		}

		// 重复命中时短路：状态与检查点已由MarkDuplicate改写
		if video.IsDuplicate() {
			if err := s.videoRepo.UpdateVideo(ctx, video); err != nil {
				return "", fmt.Errorf("failed to persist duplicate verdict: %w", err)
			}
			if err := s.reporter.ReportDuplicate(ctx, video.VideoUUID(), video.DuplicateOf()); err != nil {
				logger.Warnf("Failed to report duplicate video_uuid=%s error=%v", video.VideoUUID(), err)
			}
			logger.Infof("Pipeline short-circuited video_uuid=%s duplicate_of=%s", video.VideoUUID(), video.DuplicateOf())
			return OutcomeDuplicate, nil
		}

		if err := s.commitStage(ctx, video, stage); err != nil {
			return "", err
		}
		logger.Infof("Stage completed video_uuid=%s stage=%s index=%d", video.VideoUUID(), stage, video.ProcessingIndex())
	}

	if err := video.MarkReady(); err != nil {
		return "", err
	}
	if err := s.videoRepo.UpdateVideo(ctx, video); err != nil {
		return "", fmt.Errorf("failed to persist ready status: %w", err)
	}
	if err := s.reporter.ReportReady(ctx, video.VideoUUID(), video.StreamUUID()); err != nil {
		logger.Warnf("Failed to report ready video_uuid=%s error=%v", video.VideoUUID(), err)
	}
	logger.Infof("Pipeline completed video_uuid=%s duration=%.1fs", video.VideoUUID(), video.DurationSeconds())
	return OutcomeReady, nil
}

// commitStage 先持久化阶段产物，再以乐观校验推进检查点
func (s *pipelineServiceImpl) commitStage(ctx context.Context, video *entity.VideoEntity, stage vo.Stage) error {
	if err := s.videoRepo.UpdateVideo(ctx, video); err != nil {
		return fmt.Errorf("failed to persist stage artifacts: %w", err)
	}
	from := video.ProcessingIndex()
	if err := s.videoRepo.AdvanceProcessingIndex(ctx, video.VideoUUID(), from, stage.Index()); err != nil {
		return fmt.Errorf("failed to advance checkpoint: %w", err)
	}
	return video.CompleteStage(stage)
}

func (s *pipelineServiceImpl) runStage(ctx context.Context, video *entity.VideoEntity, stage vo.Stage) error {
	switch stage {
	case vo.StageTranscode:
		return s.runTranscode(ctx, video)
	case vo.StageTranscript:
		return s.runTranscript(ctx, video)
	case vo.StageEmbedding:
		return s.runEmbedding(ctx, video)
	case vo.StageDuplicateDetection:
		return s.runDuplicateDetection(ctx, video)
	case vo.StagePOVClustering:
		return s.runPovClustering(ctx, video)
	case vo.StageSimilarLinking:
		return s.runSimilarLinking(ctx, video)
	case vo.StageAutoTrim:
		return s.runAutoTrim(ctx, video)
	case vo.StageSearchIndex:
		return s.runSearchIndex(ctx, video)
	default:
		return fmt.Errorf("unknown stage: %s", stage)
	}
}

// runTranscode 拉取原始对象，转码归一化为MP4并回传
func (s *pipelineServiceImpl) runTranscode(ctx context.Context, video *entity.VideoEntity) error {
	workDir, err := os.MkdirTemp(s.cfg.Pipeline.TempDir, "clipstream-transcode-")
	if err != nil {
		return fmt.Errorf("failed to create work dir: %w", err)
	}
	defer os.RemoveAll(workDir)

	inputPath := filepath.Join(workDir, "source")
	if err := s.storage.FetchToFile(ctx, video.StorageKey(), inputPath); err != nil {
		return fmt.Errorf("failed to fetch source object: %w", err)
	}

	outputPath := filepath.Join(workDir, "playback.mp4")
	duration, err := s.media.Transcode(ctx, inputPath, outputPath)
	if err != nil {
		// 解码失败说明源介质本身有问题，重试不会改变结果
		return errno.NewBizError(errno.ErrCorruptMedia, err)
	}

	playbackKey := fmt.Sprintf("videos/%s/playback.mp4", video.VideoUUID())
	if _, err := s.storage.UploadFromFile(ctx, outputPath, playbackKey, "video/mp4"); err != nil {
		return fmt.Errorf("failed to upload playback object: %w", err)
	}

	video.SetPlaybackKey(playbackKey)
	video.SetDuration(duration)
	return nil
}

// runTranscript 调用推理服务做语音转写
func (s *pipelineServiceImpl) runTranscript(ctx context.Context, video *entity.VideoEntity) error {
	mediaURL, err := s.storage.PresignGetURL(ctx, video.PlaybackKey(), s.cfg.Minio.PresignExpiry)
	if err != nil {
		return fmt.Errorf("failed to presign playback url: %w", err)
	}
	transcript, err := s.inference.Transcribe(ctx, mediaURL)
	if err != nil {
		return fmt.Errorf("failed to transcribe: %w", err)
	}
	if err := transcript.Validate(); err != nil {
		return errno.NewBizError(errno.ErrMalformedTranscript, err)
	}
	video.SetTranscript(transcript)
	return nil
}

// runEmbedding 抽取内容向量。此阶段只持久化，不发布到索引。
func (s *pipelineServiceImpl) runEmbedding(ctx context.Context, video *entity.VideoEntity) error {
	mediaURL, err := s.storage.PresignGetURL(ctx, video.PlaybackKey(), s.cfg.Minio.PresignExpiry)
	if err != nil {
		return fmt.Errorf("failed to presign playback url: %w", err)
	}
	embedding, err := s.inference.EmbedVideo(ctx, mediaURL, video.Transcript().FullText())
	if err != nil {
		return fmt.Errorf("failed to embed: %w", err)
	}
	if err := embedding.Validate(s.cfg.Similarity.EmbeddingDim); err != nil {
		return errno.NewBizError(errno.ErrEmbeddingDim, err)
	}
	video.SetEmbedding(embedding)
	return nil
}

// runDuplicateDetection 重复检测。命中则标记重复并短路；未命中才发布向量。
func (s *pipelineServiceImpl) runDuplicateDetection(_ context.Context, video *entity.VideoEntity) error {
	if match, found := s.similarityService.FindDuplicate(video); found {
		logger.Infof("Duplicate detected video_uuid=%s original_uuid=%s score=%.4f",
			video.VideoUUID(), match.OriginalUUID, match.Score)
		return video.MarkDuplicate(match.OriginalUUID)
	}
	return s.similarityService.PublishEmbedding(video)
}

// runPovClustering 多视角聚类
func (s *pipelineServiceImpl) runPovClustering(ctx context.Context, video *entity.VideoEntity) error {
	groupID, err := s.similarityService.AssignPovGroup(ctx, video)
	if err != nil {
		return fmt.Errorf("failed to assign pov group: %w", err)
	}
	logger.Infof("Pov group assigned video_uuid=%s group_id=%s", video.VideoUUID(), groupID)
	return nil
}

// runSimilarLinking 相似关联落库
func (s *pipelineServiceImpl) runSimilarLinking(ctx context.Context, video *entity.VideoEntity) error {
	neighbors := s.similarityService.ComputeSimilarNeighbors(video, maxSimilarNeighbors)
	if err := s.similarLinkRepo.ReplaceLinksForVideo(ctx, video.VideoUUID(), neighbors); err != nil {
		return fmt.Errorf("failed to persist similar links: %w", err)
	}
	return nil
}

// runAutoTrim 基于转写分段自动剪辑精华片段并渲染上传
func (s *pipelineServiceImpl) runAutoTrim(ctx context.Context, video *entity.VideoEntity) error {
	clips := buildClips(video.Transcript(), s.cfg.Pipeline.MinClipSeconds, s.cfg.Pipeline.MaxClips)
	if len(clips) == 0 {
		video.SetClips(nil)
		return nil
	}

	workDir, err := os.MkdirTemp(s.cfg.Pipeline.TempDir, "clipstream-trim-")
	if err != nil {
		return fmt.Errorf("failed to create work dir: %w", err)
	}
	defer os.RemoveAll(workDir)

	inputPath := filepath.Join(workDir, "playback.mp4")
	if err := s.storage.FetchToFile(ctx, video.PlaybackKey(), inputPath); err != nil {
		return fmt.Errorf("failed to fetch playback object: %w", err)
	}

	for i, clip := range clips {
		clipPath := filepath.Join(workDir, fmt.Sprintf("clip_%02d.mp4", i))
		if err := s.media.ExtractClip(ctx, inputPath, clipPath, clip.Start, clip.End); err != nil {
			return fmt.Errorf("failed to extract clip %d: %w", i, err)
		}
		clipKey := fmt.Sprintf("videos/%s/clips/clip_%02d.mp4", video.VideoUUID(), i)
		if _, err := s.storage.UploadFromFile(ctx, clipPath, clipKey, "video/mp4"); err != nil {
			return fmt.Errorf("failed to upload clip %d: %w", i, err)
		}
	}

	video.SetClips(clips)
	return nil
}

// runSearchIndex 发布到搜索索引
func (s *pipelineServiceImpl) runSearchIndex(_ context.Context, video *entity.VideoEntity) error {
	s.searchService.PublishVideo(video)
	return nil
}

// buildClips 从转写分段切出候选窗口：相邻分段合并到不短于minSeconds，
// 按语速（词数/秒）取最高的maxClips个，按起点排序输出。
func buildClips(t vo.Transcript, minSeconds float64, maxClips int) []vo.TrimmedClip {
	if len(t) == 0 || maxClips <= 0 {
		return nil
	}

	type window struct {
		start, end float64
		words      int
		label      string
	}
	var windows []window
	var cur *window
	for _, seg := range t {
		if cur == nil {
			windows = append(windows, window{start: seg.Start, end: seg.End, words: len(strings.Fields(seg.Text)), label: clipLabel(seg.Text)})
			cur = &windows[len(windows)-1]
		} else {
			cur.end = seg.End
			cur.words += len(strings.Fields(seg.Text))
		}
		if cur.end-cur.start >= minSeconds {
			cur = nil
		}
	}
	// 尾部不足最短时长的窗口并入前一个
	if cur != nil && len(windows) > 1 {
		last := windows[len(windows)-1]
		windows = windows[:len(windows)-1]
		windows[len(windows)-1].end = last.end
		windows[len(windows)-1].words += last.words
	}

	sort.SliceStable(windows, func(i, j int) bool {
		di := windows[i].end - windows[i].start
		dj := windows[j].end - windows[j].start
		return float64(windows[i].words)/di > float64(windows[j].words)/dj
	})
	if len(windows) > maxClips {
		windows = windows[:maxClips]
	}
	sort.Slice(windows, func(i, j int) bool { return windows[i].start < windows[j].start })

	clips := make([]vo.TrimmedClip, 0, len(windows))
	for _, w := range windows {
		clips = append(clips, vo.TrimmedClip{Start: w.start, End: w.end, Label: w.label})
	}
	return clips
}

func clipLabel(text string) string {
	words := strings.Fields(text)
	if len(words) > 6 {
		words = words[:6]
	}
	return strings.Join(words, " ")
}
