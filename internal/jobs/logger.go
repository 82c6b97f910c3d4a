package jobs

import (
	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

type gocronLoggerAdapter struct {
	logger *zap.SugaredLogger
}

var _ gocron.Logger = (*gocronLoggerAdapter)(nil)

func (a *gocronLoggerAdapter) Debug(msg string, args ...any) { a.logger.Debugw(msg, args...) }
func (a *gocronLoggerAdapter) Info(msg string, args ...any)  { a.logger.Infow(msg, args...) }
func (a *gocronLoggerAdapter) Warn(msg string, args ...any)  { a.logger.Warnw(msg, args...) }
func (a *gocronLoggerAdapter) Error(msg string, args ...any) { a.logger.Errorw(msg, args...) }
