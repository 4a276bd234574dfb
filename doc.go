// Package oxbow is the scheduling core of a distributed SQL
// query-execution engine: the shared vocabulary by which the scheduler and
// a fleet of executors describe cluster resources, locate shuffle outputs
// and hand off units of work.
//
// The model types live in the partition, executor, task and plan packages;
// their wire representations in oxbowpb; the cluster package holds the
// scheduler-side executor slot table and the coordinator-backed shared
// state. Scheduling policy, plan execution and the RPC services consuming
// these types live outside this module.
package oxbow
