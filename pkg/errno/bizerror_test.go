package errno

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsPermanent_DetectsTaggedCodesThroughWrapping(t *testing.T) {
	base := NewBizError(ErrCorruptMedia, errors.New("ffmpeg exited with code 1"))
	// 流水线外层会再套一层阶段上下文
	wrapped := fmt.Errorf("stage transcode failed: %w", base)

	require.True(t, IsPermanent(base))
	require.True(t, IsPermanent(wrapped))
	require.True(t, IsPermanent(NewBizError(ErrMalformedTranscript, nil)))
	require.True(t, IsPermanent(NewBizError(ErrEmbeddingDim, nil)))
}

func TestIsPermanent_TransientErrorsStayRetryable(t *testing.T) {
	require.False(t, IsPermanent(errors.New("connection refused")))
	require.False(t, IsPermanent(NewBizError(ErrInternalServer, errors.New("inference timeout"))))
	require.False(t, IsPermanent(nil))
}
