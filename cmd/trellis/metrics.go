package main

import (
	"time"

	"github.com/trellisdev/trellis/internal/telemetry"
)

func recordOp(method string, err error, start time.Time) {
	telemetry.RecordOp(rootCtx, method, err, time.Since(start))
}
