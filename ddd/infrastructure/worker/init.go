package worker

import "clipstream-service/pkg/manager"

func init() {
	manager.RegisterComponentPlugin(&PipelineWorkerComponentPlugin{})
}
