package errno

// code=0 请求成功
// code=4xx 客户端请求错误
// code=5xx 服务器端错误
// code=2xxxx 业务处理错误码

type Errno struct {
	Code    int
	Message string
}

// Error 实现error接口
func (e *Errno) Error() string {
	return e.Message
}

var (
	OK = &Errno{Code: 200, Message: "Success"}

	ErrInvalidParam = &Errno{Code: 400, Message: "Invalid parameter"}
	ErrUnauthorized = &Errno{Code: 401, Message: "Unauthorized"}
	ErrForbidden    = &Errno{Code: 403, Message: "Forbidden"}
	ErrNotFound     = &Errno{Code: 404, Message: "Not found"}

	ErrInternalServer = &Errno{Code: 500, Message: "Internal server error"}
	ErrDatabase       = &Errno{Code: 501, Message: "Database error"}
	ErrUnknown        = &Errno{Code: 510, Message: "Unknown error"}

	// 业务错误码
	ErrMissingParam        = &Errno{Code: 20001, Message: "Missing required parameter"}
	ErrStreamNotFound      = &Errno{Code: 20002, Message: "Stream not found"}
	ErrVideoNotFound       = &Errno{Code: 20003, Message: "Video not found"}
	ErrJobNotFound         = &Errno{Code: 20004, Message: "Processing job not found"}
	ErrJobNotFailed        = &Errno{Code: 20005, Message: "Job is not in failed status"}
	ErrVideoNotDuplicate   = &Errno{Code: 20006, Message: "Video is not flagged duplicate"}
	ErrQueueFull           = &Errno{Code: 20007, Message: "Job queue is full"}
	ErrQueueClosed         = &Errno{Code: 20008, Message: "Job queue is closed"}
	ErrStreamUUIDRequired  = &Errno{Code: 20009, Message: "Stream UUID is required"}
	ErrVideoUUIDRequired   = &Errno{Code: 20010, Message: "Video UUID is required"}
	ErrStorageKeyRequired  = &Errno{Code: 20011, Message: "Storage key is required"}
	ErrTitleRequired       = &Errno{Code: 20012, Message: "Title is required"}
	ErrQueryRequired       = &Errno{Code: 20013, Message: "Search query is required"}
	ErrInviteNotFound      = &Errno{Code: 20014, Message: "Invite not found"}
	ErrInviteExpired       = &Errno{Code: 20015, Message: "Invite expired or exhausted"}
	ErrShareLinkNotFound   = &Errno{Code: 20016, Message: "Share link not found"}
	ErrShareLinkExpired    = &Errno{Code: 20017, Message: "Share link expired"}
	ErrInvalidOverride     = &Errno{Code: 20018, Message: "Invalid duplicate override action"}
	ErrLeaseHeld           = &Errno{Code: 20019, Message: "Video lease is held by an active worker"}
	ErrEmbeddingDim        = &Errno{Code: 20020, Message: "Embedding dimensionality mismatch"}
	ErrCorruptMedia        = &Errno{Code: 20021, Message: "Corrupt or unsupported media"}
	ErrMalformedTranscript = &Errno{Code: 20022, Message: "Malformed transcript payload"}
	ErrVideoNotReady       = &Errno{Code: 20023, Message: "Video processing not complete"}
	ErrVideoTerminal       = &Errno{Code: 20024, Message: "Video is in a terminal state"}
)
