package vo

// JobStatus 处理作业状态
type JobStatus string

const (
	// JobStatusPending 等待调度
	JobStatusPending JobStatus = "pending"
	// JobStatusLeased 已被Worker租约占用
	JobStatusLeased JobStatus = "leased"
	// JobStatusSucceeded 全部阶段执行成功
	JobStatusSucceeded JobStatus = "succeeded"
	// JobStatusFailed 阶段失败，等待退避重试
	JobStatusFailed JobStatus = "failed"
	// JobStatusAbandoned 重试次数耗尽，放弃处理
	JobStatusAbandoned JobStatus = "abandoned"
)

// IsValid 检查状态是否有效
func (s JobStatus) IsValid() bool {
	switch s {
	case JobStatusPending, JobStatusLeased, JobStatusSucceeded, JobStatusFailed, JobStatusAbandoned:
		return true
	default:
		return false
	}
}

// String 返回状态字符串
func (s JobStatus) String() string {
	return string(s)
}

// IsFinalStatus 检查是否为最终状态
func (s JobStatus) IsFinalStatus() bool {
	return s == JobStatusSucceeded || s == JobStatusAbandoned
}

// CanTransitionTo 检查是否可以转换到目标状态
func (s JobStatus) CanTransitionTo(target JobStatus) bool {
	switch s {
	case JobStatusPending:
		return target == JobStatusLeased
	case JobStatusLeased:
		return target == JobStatusSucceeded || target == JobStatusFailed ||
			target == JobStatusAbandoned || target == JobStatusPending
	case JobStatusFailed:
		// 退避到期后重新入队，或由管理员手动重试
		return target == JobStatusPending || target == JobStatusLeased
	case JobStatusAbandoned:
		// 管理员重试允许从放弃状态复活
		return target == JobStatusPending
	case JobStatusSucceeded:
		return false
	default:
		return false
	}
}
