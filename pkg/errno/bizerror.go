package errno

import "errors"

// BizError 业务错误。携带业务错误码，同时保留底层原因供日志排查。
type BizError struct {
	errno *Errno
	cause error
}

// NewBizError 用业务错误码包装底层错误
func NewBizError(e *Errno, cause error) error {
	return &BizError{errno: e, cause: cause}
}

// Error 实现error接口
func (e *BizError) Error() string {
	if e.cause != nil {
		return e.errno.Message + ": " + e.cause.Error()
	}
	return e.errno.Message
}

// Unwrap 同时暴露错误码与底层原因
func (e *BizError) Unwrap() []error {
	if e.cause == nil {
		return []error{e.errno}
	}
	return []error{e.errno, e.cause}
}

// 重试也不会成功的错误码：介质损坏、转写格式错误、向量维度不符
var permanentCodes = []*Errno{ErrCorruptMedia, ErrMalformedTranscript, ErrEmbeddingDim}

// IsPermanent 判断错误是否为永久性失败，永久性失败不进入退避重试
func IsPermanent(err error) bool {
	for _, code := range permanentCodes {
		if errors.Is(err, code) {
			return true
		}
	}
	return false
}
