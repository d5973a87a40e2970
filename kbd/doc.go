// Package kbd is the firmware's control loop.
//
// A Keyboard owns an ordered list of modules (the hook bus), the event
// sources and the output sink. Each Step runs one iteration:
//
//	tick++ → before_scan → scan → process_event → after_scan →
//	before_output → output → after_output
//
// Modules run in registration order for every phase. Nothing runs
// concurrently, so modules share State without locks; every phase must
// return promptly because its duration adds to keystroke latency.
package kbd
