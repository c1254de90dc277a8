// Package async runs bcrypt computations on a bounded set of worker slots
// and delivers their results over channels.
//
// Every submission returns immediately with a buffered channel that receives
// exactly one [Result]. A context that ends before a slot is acquired yields
// ctx.Err(); a computation that has started always runs to completion and
// its result is dropped into the buffer if nobody is waiting.
//
//	p, _ := async.New(async.Options{Workers: 4, Logger: log})
//	defer p.Close()
//
//	hash, err := async.Await(ctx, p.HashWithCost(ctx, []byte(pw), 12))
package async
