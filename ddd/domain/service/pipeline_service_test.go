package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"clipstream-service/ddd/domain/vo"
)

func TestBuildClips_MergesSegmentsToMinDuration(t *testing.T) {
	transcript := vo.Transcript{
		{Start: 0, End: 5, Text: "a b c"},
		{Start: 5, End: 10, Text: "d e"},
		{Start: 10, End: 15, Text: "f"},
	}

	// 前两段合并满10秒成窗，尾部不足时长的段并入前一个窗口
	clips := buildClips(transcript, 10, 10)
	require.Len(t, clips, 1)
	require.Equal(t, 0.0, clips[0].Start)
	require.Equal(t, 15.0, clips[0].End)
}

func TestBuildClips_SelectsDensestWindow(t *testing.T) {
	transcript := vo.Transcript{
		{Start: 0, End: 5, Text: "one two"},
		{Start: 5, End: 10, Text: "a b c d e f g h"},
		{Start: 10, End: 15, Text: "x y"},
	}

	clips := buildClips(transcript, 5, 1)
	require.Len(t, clips, 1)
	require.Equal(t, 5.0, clips[0].Start)
	require.Equal(t, 10.0, clips[0].End)
	require.Equal(t, "a b c d e f", clips[0].Label)
}

func TestBuildClips_OutputSortedByStart(t *testing.T) {
	transcript := vo.Transcript{
		{Start: 0, End: 5, Text: "one two"},
		{Start: 5, End: 10, Text: "a b c d e f g h"},
		{Start: 10, End: 15, Text: "x y"},
	}

	// 入选的两个窗口按密度挑选，输出仍按起点排序
	clips := buildClips(transcript, 5, 2)
	require.Len(t, clips, 2)
	require.Less(t, clips[0].Start, clips[1].Start)
	require.Equal(t, 0.0, clips[0].Start)
	require.Equal(t, 5.0, clips[1].Start)
}

func TestBuildClips_ShortTranscriptKeepsSingleWindow(t *testing.T) {
	transcript := vo.Transcript{
		{Start: 0, End: 3, Text: "hi there"},
	}

	clips := buildClips(transcript, 10, 5)
	require.Len(t, clips, 1)
	require.Equal(t, 0.0, clips[0].Start)
	require.Equal(t, 3.0, clips[0].End)
}

func TestBuildClips_EmptyInputs(t *testing.T) {
	require.Nil(t, buildClips(nil, 10, 5))
	require.Nil(t, buildClips(vo.Transcript{{Start: 0, End: 5, Text: "hi"}}, 10, 0))
}

func TestClipLabel_TruncatesToSixWords(t *testing.T) {
	require.Equal(t, "one two three four five six",
		clipLabel("one two three four five six seven eight"))
	require.Equal(t, "short", clipLabel("short"))
	require.Empty(t, clipLabel(""))
}
