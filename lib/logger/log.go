package logger

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"math/rand"
	"os"

	"go.uber.org/zap"
	"moul.io/zapfilter"
)

// RuleEnv holds a zapfilter rule, e.g. "*:*,-policy.* warn+:policy.*".
const RuleEnv = "SWARMPOLICY_LOG"

const defaultRule = "info+:*"

var Log *zap.Logger

func Named(s string) *zap.Logger {
	return Log.Named(s)
}

type ctxKey string

var kCtxID = ctxKey("ctxID")

func Ctx(prev *zap.Logger, ctx context.Context) *zap.Logger {
	if v, ok := ctx.Value(kCtxID).(string); ok {
		return prev.With(zap.String("ctxID", v))
	}
	return prev
}

func NewContextid(ctx context.Context) context.Context {
	w := make([]byte, 8)
	binary.BigEndian.PutUint64(w, rand.Uint64())
	return WithContextid(ctx, hex.EncodeToString(w))
}

func WithContextid(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, kCtxID, id)
}

// SetRule swaps the filtering rule of the global logger.
func SetRule(rule string) error {
	filter, err := zapfilter.ParseRules(rule)
	if err != nil {
		return err
	}
	devLog, err := zap.NewDevelopment()
	if err != nil {
		return err
	}
	Log = zap.New(zapfilter.NewFilteringCore(devLog.Core(), filter))
	return nil
}

func init() {
	rule := os.Getenv(RuleEnv)
	if rule == "" {
		rule = defaultRule
	}
	if err := SetRule(rule); err != nil {
		_ = SetRule(defaultRule)
	}
}
