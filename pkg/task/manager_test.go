package task

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

type recordedTask struct {
	name  string
	trace *[]string
}

func (t *recordedTask) Name() string { return t.name }

func (t *recordedTask) Start(ctx context.Context) error {
	*t.trace = append(*t.trace, "start:"+t.name)
	return nil
}

func (t *recordedTask) Stop() error {
	*t.trace = append(*t.trace, "stop:"+t.name)
	return nil
}

func TestRegistry_StartsInOrderStopsInReverse(t *testing.T) {
	t.Cleanup(func() { defaultRegistry = &registry{tasks: make([]BackgroundTask, 0)} })

	var trace []string
	Register(&recordedTask{name: "worker", trace: &trace})
	Register(&recordedTask{name: "reporter", trace: &trace})
	Register(nil) // 忽略

	require.NoError(t, StartAll(context.Background()))
	// 重复启动无效果
	require.NoError(t, StartAll(context.Background()))
	StopAll()

	require.Equal(t, []string{"start:worker", "start:reporter", "stop:reporter", "stop:worker"}, trace)
}
