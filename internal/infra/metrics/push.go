package metrics

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

const pushJobName = "rtspshot"

// Push sends the default registry to a Pushgateway. A batch run is too short
// lived to be scraped, so the final counters are pushed once at exit.
func Push(ctx context.Context, gatewayURL, instance string) error {
	pusher := push.New(gatewayURL, pushJobName).
		Gatherer(prometheus.DefaultGatherer).
		Grouping("instance", instance)
	if err := pusher.PushContext(ctx); err != nil {
		return fmt.Errorf("push metrics: %w", err)
	}
	return nil
}
