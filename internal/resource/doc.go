// Package resource limits blob I/O: the number of requests in flight and
// the byte rate across them.
//
// Concurrency is bounded with a weighted semaphore and throughput with a
// token bucket whose burst equals one second of traffic. Requests larger
// than the burst are admitted in burst-sized steps.
package resource
