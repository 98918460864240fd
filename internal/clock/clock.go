// Package clock provides the pipeline's monotonic timestamp source.
//
// Every hot-path timestamp in the system is "nanoseconds since process
// start" read from the runtime's monotonic clock. There is no global wall
// clock on the hot path; per-event timestamps only order events within one
// producer.
package clock

import (
	"time"

	"github.com/shreejitverma/trishul-ultra-hft-project/pkg/types"
)

var start = time.Now()

// Monotime returns nanoseconds elapsed since process start. The underlying
// reading is monotonic, so successive calls on one thread never go backwards.
func Monotime() types.Timestamp {
	return types.Timestamp(time.Since(start))
}
