package config

type WorkerKeyStruct struct {
	PersistAnswersQueue    string
	PersistViolationsQueue string
	// SessionDeadlineIndex is a sorted set of active session IDs scored by
	// their auto-submit deadline (unix seconds).
	SessionDeadlineIndex string
}

var WorkerKey = &WorkerKeyStruct{
	PersistAnswersQueue:    "persist_answers_queue",
	PersistViolationsQueue: "persist_violations_queue",
	SessionDeadlineIndex:   "session_deadline_index",
}
