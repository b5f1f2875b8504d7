package app

import (
	"context"
	"errors"

	"WarSim/modules/kit/errx"
)

// Persist 同步把当前内存态写入持久化层。失败返回 PERSISTENCE_ERROR，
// 内存态保持不变，未写成功的增量会在下一次落库时重试。
func (s *Service) Persist(ctx context.Context) error {
	if s.flusher == nil {
		return nil
	}
	err := s.flusher.Flush(ctx)
	if err == nil {
		return nil
	}
	var e *errx.Error
	if !errors.As(err, &e) || e.Code() != errx.CodePersistence {
		err = errx.ErrPersistence.WithCause(err)
	}
	s.report(ctx, "store.persist", Key{}, "", err)
	return err
}
