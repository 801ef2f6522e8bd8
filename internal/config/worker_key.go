package config

type WorkerKeyStruct struct {
	PersistResultsQueue string
}

var WorkerKey = &WorkerKeyStruct{
	PersistResultsQueue: "persist_assessment_results_queue",
}
