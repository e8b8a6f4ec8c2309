// Package jobs runs the periodic maintenance work of the shop on
// github.com/robfig/cron/v3 schedules.
//
// # Available Jobs
//
//  1. OutboxRelayJob publishes pending order events every second.
//  2. CartReconciliationJob removes cart lines left behind by a checkout
//     whose cart update failed, once a minute.
//
// # Usage
//
//	manager := jobs.NewJobManager(
//		jobs.NewOutboxRelayJob(relayHandler, relayCmd, logger),
//		jobs.NewCartReconciliationJob(reconcileHandler, reconcileCmd, logger),
//	)
//	if err := manager.StartAll(); err != nil {
//		return err
//	}
//	defer manager.StopAll()
//
// # Error Handling
//
// A pass that finds nothing to do is silent. Failures are logged and the
// next tick retries. Passes of the same job never overlap.
package jobs
