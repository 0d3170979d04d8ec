package contracts

import (
	"github.com/VictoriaMetrics/metrics"

	"github.com/quietbit/cellar/lib/store"
)

var (
	metricBatchRuns     = metrics.NewCounter("cellar_batch_runs_total")
	metricDroppedKeys   = metrics.NewCounter("cellar_batch_dropped_keys_total")
	metricDrainedQueues = metrics.NewCounter("cellar_batch_drained_namespaces_total")
	metricAnomalies     = metrics.NewCounter("cellar_batch_count_anomalies_total")
)

// ProcessBatch drains the deletion queue under the given budget and returns
// the budget actually consumed. It is meant to be invoked exactly once per
// scheduling tick.
//
// The invocation reserves the base cost and the cost of decoding the queue
// (safe to do eagerly because the queue depth is bounded); what remains is
// converted into a key removal budget. Namespaces are drained from the head
// of the queue, a namespace larger than the remaining budget stays queued
// with its pair count reduced, so removal resumes deterministically on a
// later tick. Unused key budget is refunded to the caller.
//
// Budget exhaustion is a normal termination, not an error; this method has
// no failure path.
func (e *Engine) ProcessBatch(maxBudget uint64) uint64 {
	metricBatchRuns.Inc()

	baseCost := e.costs.Base

	queue, err := e.loadQueue()
	if err != nil {
		// an undecodable queue cannot be processed; treated like empty
		// until a newer write repairs it
		return baseCost
	}
	if len(queue) == 0 {
		return baseCost
	}

	perItemCost := e.costs.perQueueItem()
	perKeyCost := e.costs.perKey()
	decodeCost := satMul(perItemCost, uint64(len(queue)))

	// A zero per-key cost makes no sense and would mean a failure to
	// calibrate the cost table. Remove no keys at all in this case rather
	// than risk unbounded removal.
	if perKeyCost == 0 {
		return satAdd(baseCost, decodeCost)
	}
	keyBudget := satSub(satSub(maxBudget, baseCost), decodeCost) / perKeyCost

	for len(queue) > 0 && keyBudget > 0 {
		entry := &queue[0]
		pairCount := entry.remainingPairCount

		outcome := e.store.DropKeys(entry.namespaceID, keyBudget)

		if pairCount > keyBudget {
			// cannot underflow because of the condition
			entry.remainingPairCount = pairCount - keyBudget
		} else {
			// The namespace is fully drained. Order need not be preserved:
			// the contract is gone already and nothing waits on its
			// namespace, so the last entry takes the freed slot.
			removed := queue[0]
			queue[0] = queue[len(queue)-1]
			queue = queue[:len(queue)-1]
			metricDrainedQueues.Inc()

			// The budget was large enough to remove every counted key, so
			// leftover keys indicate a mismatch between the bookkeeping and
			// the store. Not fatal: the count was exhausted either way and
			// a later write path owns the namespace no longer.
			if outcome == store.DropSomeRemaining {
				metricAnomalies.Inc()
				e.log.Warnf("keys remaining in dropped namespace %s", removed.namespaceID)
			}
		}

		consumed := min(keyBudget, pairCount)
		metricDroppedKeys.Add(int(consumed))
		keyBudget = satSub(keyBudget, consumed)
	}

	e.storeQueue(queue)

	// refund the key budget that was not spent
	return satSub(maxBudget, satMul(perKeyCost, keyBudget))
}
