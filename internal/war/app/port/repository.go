package port

import (
	"WarSim/internal/war/entity"
	"context"
)

// StateRepository 是引擎对存储层的全部要求：启动时全量加载，运行中增量保存。
// 保存必须幂等：同一快照重复写入结果一致（写库失败会整体重试）。
type StateRepository interface {
	Load(ctx context.Context) (*entity.WarState, error)
	Save(ctx context.Context, s *entity.WarStateSnap) error
}
