// Package sim provides simulated collaborators for running a sleep engine
// without a real mesh stack: a membership service, a radio driver that
// accounts its on-time, and a traffic generator feeding the interceptor.
package sim
