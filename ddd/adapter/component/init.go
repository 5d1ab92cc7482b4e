package component

import "clipstream-service/pkg/manager"

func init() {
	manager.RegisterComponentPlugin(&UploadEventConsumerPlugin{})
}
