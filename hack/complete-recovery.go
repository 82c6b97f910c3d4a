package main

import (
	"context"
	"os"

	"github.com/distr-sh/recoverd/internal/client"
	"github.com/distr-sh/recoverd/internal/envutil"
	"github.com/distr-sh/recoverd/internal/util"
	"go.uber.org/zap"
)

// usage: go run ./hack/complete-recovery.go ACCOUNT_ID TOKEN KEY_FILE
func main() {
	logger := util.Require(zap.NewDevelopment())
	c := util.Require(client.New(envutil.GetEnvOrDefault("RECOVERD_HOST", "http://localhost:8080")))

	logger.Info("completing recovery", zap.String("accountId", os.Args[1]))

	key := util.Require(os.ReadFile(os.Args[3]))
	descriptor := util.Require(c.CompleteRecovery(context.Background(), os.Args[1], os.Args[2], string(key)))
	logger.Info("key bound", zap.Any("key", descriptor))
	_ = logger.Sync()
}
