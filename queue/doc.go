// Package queue provides bounded-parallelism schedulers for batches and
// streams of work items.
//
// Three schedulers cover the common shapes:
//
//   - ConcurrentQueue processes one fixed batch with a concurrency cap,
//     recording an independent outcome per item.
//   - PriorityQueue drains a growing set in descending priority order,
//     dispatching eagerly as worker slots free up.
//   - WorkQueue is a long-lived stream: items are added over time, each
//     returning a Ticket that settles when its item finishes.
//
// All three bound the number of simultaneously running processor
// invocations; none of them interrupts work that has already started.
// Cancellation and Clear only prevent pending items from starting.
//
// Example:
//
//	q := queue.NewConcurrentQueue(fetch, func(u string) string { return u },
//		queue.Config{Concurrency: 4, PreserveOrder: true})
//	outcomes, err := q.Process(ctx, urls)
package queue
