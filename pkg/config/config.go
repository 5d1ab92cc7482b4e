package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 应用配置
type Config struct {
	Server          ServerConfig          `mapstructure:"server"`
	Database        DatabaseConfig        `mapstructure:"database"`
	Redis           RedisConfig           `mapstructure:"redis"`
	Kafka           KafkaConfig           `mapstructure:"kafka"`
	JWT             JWTConfig             `mapstructure:"jwt"`
	Log             LogConfig             `mapstructure:"log"`
	Minio           MinioConfig           `mapstructure:"minio"`
	Inference       InferenceConfig       `mapstructure:"inference"`
	Pipeline        PipelineConfig        `mapstructure:"pipeline"`
	Scheduler       SchedulerConfig       `mapstructure:"scheduler"`
	Worker          WorkerConfig          `mapstructure:"worker"`
	Similarity      SimilarityConfig      `mapstructure:"similarity"`
	Search          SearchConfig          `mapstructure:"search"`
	ServiceRegistry ServiceRegistryConfig `mapstructure:"service_registry"`
	Observability   ObservabilityConfig   `mapstructure:"observability"`
	Public          PublicConfig          `mapstructure:"public"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Mode         string        `mapstructure:"mode"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	Charset         string        `mapstructure:"charset"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// RedisConfig Redis配置
type RedisConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	EnableTLS    bool          `mapstructure:"enable_tls"`
}

// KafkaConfig Kafka配置
type KafkaConfig struct {
	BootstrapServers     []string          `mapstructure:"bootstrap_servers"`
	ClientID             string            `mapstructure:"client_id"`
	GroupID              string            `mapstructure:"group_id"`
	Enabled              bool              `mapstructure:"enabled"`
	Topics               KafkaTopicsConfig `mapstructure:"topics"`
	CommitOnDecodeError  bool              `mapstructure:"commit_on_decode_error"`
	CommitOnProcessError bool              `mapstructure:"commit_on_process_error"`
}

type KafkaTopicsConfig struct {
	VideoUploaded  string `mapstructure:"video_uploaded"`
	VideoProcessed string `mapstructure:"video_processed"`
}

// MinioConfig MinIO配置
type MinioConfig struct {
	Endpoint        string        `mapstructure:"endpoint"`
	AccessKeyID     string        `mapstructure:"access_key_id"`
	AccessKey       string        `mapstructure:"access_key"`
	SecretAccessKey string        `mapstructure:"secret_access_key"`
	SecretKey       string        `mapstructure:"secret_key"`
	UseSSL          bool          `mapstructure:"use_ssl"`
	BucketName      string        `mapstructure:"bucket_name"`
	PresignExpiry   time.Duration `mapstructure:"presign_expiry"`
}

// InferenceConfig 推理服务配置（语音转写 + 向量抽取）
type InferenceConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// PipelineConfig 处理流水线配置
type PipelineConfig struct {
	StageDeadline  time.Duration `mapstructure:"stage_deadline"`
	FFmpegBinary   string        `mapstructure:"ffmpeg_binary"`
	TempDir        string        `mapstructure:"temp_dir"`
	MinClipSeconds float64       `mapstructure:"min_clip_seconds"`
	MaxClips       int           `mapstructure:"max_clips"`
}

// SchedulerConfig 调度器配置
type SchedulerConfig struct {
	MaxAttempts     int           `mapstructure:"max_attempts"`
	BackoffBase     time.Duration `mapstructure:"backoff_base"`
	BackoffFactor   int           `mapstructure:"backoff_factor"`
	BackoffCap      time.Duration `mapstructure:"backoff_cap"`
	LeaseTTL        time.Duration `mapstructure:"lease_ttl"`
	ReclaimInterval time.Duration `mapstructure:"reclaim_interval"`
	QueueCapacity   int           `mapstructure:"queue_capacity"`
}

// WorkerConfig Worker配置
type WorkerConfig struct {
	Enabled             bool          `mapstructure:"enabled"`
	WorkerID            string        `mapstructure:"worker_id"`
	PoolSize            int           `mapstructure:"pool_size"`
	PollInterval        time.Duration `mapstructure:"poll_interval"`
	ShutdownGracePeriod time.Duration `mapstructure:"shutdown_grace_period"`
}

// SimilarityConfig 相似度引擎配置
type SimilarityConfig struct {
	EmbeddingDim       int           `mapstructure:"embedding_dim"`
	DuplicateThreshold float64       `mapstructure:"duplicate_threshold"`
	PovThreshold       float64       `mapstructure:"pov_threshold"`
	SimilarThreshold   float64       `mapstructure:"similar_threshold"`
	PovWindow          time.Duration `mapstructure:"pov_window"`
	HashPlanes         int           `mapstructure:"hash_planes"`
}

// SearchConfig 搜索索引配置
type SearchConfig struct {
	RecencyHalfLife time.Duration `mapstructure:"recency_half_life"`
	TitleWeight     float64       `mapstructure:"title_weight"`
	MaxSuggestions  int           `mapstructure:"max_suggestions"`
}

// ServiceRegistryConfig registration configuration.
type ServiceRegistryConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Endpoints       []string      `mapstructure:"endpoints"`
	ServiceName     string        `mapstructure:"service_name"`
	ServiceID       string        `mapstructure:"service_id"`
	RegisterHost    string        `mapstructure:"register_host"`
	TTL             time.Duration `mapstructure:"ttl"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
}

// ObservabilityConfig 持续剖析配置
type ObservabilityConfig struct {
	ProfilingEnabled bool   `mapstructure:"profiling_enabled"`
	ServerAddress    string `mapstructure:"server_address"`
	ApplicationName  string `mapstructure:"application_name"`
}

// JWTConfig JWT配置
type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Issuer     string        `mapstructure:"issuer"`
	ExpireTime time.Duration `mapstructure:"expire_time"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	Filename   string `mapstructure:"filename"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxAge     int    `mapstructure:"max_age"`
	MaxBackups int    `mapstructure:"max_backups"`
	Compress   bool   `mapstructure:"compress"`
}

// PublicConfig 对外访问配置
type PublicConfig struct {
	StorageBase string `mapstructure:"storage_base"`
}

// Load 加载配置
func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	viper.SetDefault("service_registry.enabled", true)
	viper.SetDefault("kafka.enabled", true)
	viper.SetDefault("kafka.client_id", "clipstream-service")
	viper.SetDefault("kafka.group_id", "clipstream-service-group")
	viper.SetDefault("kafka.bootstrap_servers", []string{"localhost:29092"})
	viper.SetDefault("kafka.topics.video_uploaded", "clipstream.video.uploaded")
	viper.SetDefault("kafka.topics.video_processed", "clipstream.video.processed")
	viper.SetDefault("kafka.commit_on_decode_error", true)
	viper.SetDefault("kafka.commit_on_process_error", false)

	// 设置环境变量前缀
	viper.SetEnvPrefix("CLIPSTREAM")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	config.normalize()

	return &config, nil
}

// normalize 补全配置的默认值
func (c *Config) normalize() {
	// 兼容不同的密钥字段
	if c.Minio.AccessKeyID == "" {
		c.Minio.AccessKeyID = c.Minio.AccessKey
	}
	if c.Minio.SecretAccessKey == "" {
		c.Minio.SecretAccessKey = c.Minio.SecretKey
	}
	if c.Minio.PresignExpiry <= 0 {
		c.Minio.PresignExpiry = 15 * time.Minute
	}

	// 调度器默认值：重试与退避参数
	if c.Scheduler.MaxAttempts <= 0 {
		c.Scheduler.MaxAttempts = 5
	}
	if c.Scheduler.BackoffBase <= 0 {
		c.Scheduler.BackoffBase = 30 * time.Second
	}
	if c.Scheduler.BackoffFactor <= 1 {
		c.Scheduler.BackoffFactor = 2
	}
	if c.Scheduler.BackoffCap <= 0 {
		c.Scheduler.BackoffCap = 30 * time.Minute
	}
	if c.Scheduler.LeaseTTL <= 0 {
		c.Scheduler.LeaseTTL = 2 * time.Minute
	}
	if c.Scheduler.ReclaimInterval <= 0 {
		c.Scheduler.ReclaimInterval = 15 * time.Second
	}
	if c.Scheduler.QueueCapacity <= 0 {
		c.Scheduler.QueueCapacity = 1000
	}

	// Worker默认值
	if c.Worker.PoolSize <= 0 {
		c.Worker.PoolSize = 2
	}
	if c.Worker.PollInterval <= 0 {
		c.Worker.PollInterval = time.Second
	}
	if c.Worker.ShutdownGracePeriod == 0 {
		c.Worker.ShutdownGracePeriod = 10 * time.Second
	}
	if c.Worker.WorkerID == "" {
		c.Worker.WorkerID = "clipstream-worker"
	}

	// 相似度引擎默认值（阈值来源于产品调参，可通过配置覆盖）
	if c.Similarity.EmbeddingDim <= 0 {
		c.Similarity.EmbeddingDim = 512
	}
	if c.Similarity.DuplicateThreshold <= 0 {
		c.Similarity.DuplicateThreshold = 0.97
	}
	if c.Similarity.PovThreshold <= 0 {
		c.Similarity.PovThreshold = 0.85
	}
	if c.Similarity.SimilarThreshold <= 0 {
		c.Similarity.SimilarThreshold = 0.70
	}
	if c.Similarity.PovWindow <= 0 {
		c.Similarity.PovWindow = 15 * time.Minute
	}
	if c.Similarity.HashPlanes <= 0 {
		c.Similarity.HashPlanes = 8
	}

	// 搜索索引默认值
	if c.Search.RecencyHalfLife <= 0 {
		c.Search.RecencyHalfLife = 7 * 24 * time.Hour
	}
	if c.Search.TitleWeight <= 0 {
		c.Search.TitleWeight = 3.0
	}
	if c.Search.MaxSuggestions <= 0 {
		c.Search.MaxSuggestions = 10
	}

	// 流水线默认值
	if c.Pipeline.StageDeadline <= 0 {
		c.Pipeline.StageDeadline = 10 * time.Minute
	}
	if c.Pipeline.FFmpegBinary == "" {
		c.Pipeline.FFmpegBinary = "ffmpeg"
	}
	if c.Pipeline.TempDir == "" {
		c.Pipeline.TempDir = "/tmp/clipstream"
	}
	if c.Pipeline.MinClipSeconds <= 0 {
		c.Pipeline.MinClipSeconds = 5
	}
	if c.Pipeline.MaxClips <= 0 {
		c.Pipeline.MaxClips = 5
	}

	// 推理服务默认值
	if c.Inference.Timeout <= 0 {
		c.Inference.Timeout = 5 * time.Minute
	}

	if c.Observability.ApplicationName == "" {
		c.Observability.ApplicationName = "clipstream-service"
	}

	if c.ServiceRegistry.ServiceName == "" {
		c.ServiceRegistry.ServiceName = "clipstream-service"
	}
	if c.ServiceRegistry.TTL == 0 {
		c.ServiceRegistry.TTL = 30 * time.Second
	}
	if c.ServiceRegistry.RefreshInterval == 0 {
		c.ServiceRegistry.RefreshInterval = 10 * time.Second
	}
	if len(c.Kafka.BootstrapServers) == 0 {
		c.Kafka.BootstrapServers = []string{"localhost:29092"}
	}
	if c.Kafka.ClientID == "" {
		c.Kafka.ClientID = "clipstream-service"
	}
}

// GetDSN 获取数据库连接字符串
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=True&loc=Local",
		c.Username, c.Password, c.Host, c.Port, c.Database, c.Charset)
}

// GetRedisAddr 获取Redis地址
func (c *RedisConfig) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
