package types

type JobStage string

const (
	StageQueued        JobStage = "QUEUED"
	StageParsingInput  JobStage = "PARSING_INPUT"
	StageTOCAnalysis   JobStage = "TOC_ANALYSIS"
	StageIndexBuild    JobStage = "INDEX_BUILD"
	StageRefinement    JobStage = "REFINEMENT"
	StageSummarization JobStage = "SUMMARIZATION"
	StageFinalizing    JobStage = "FINALIZING"
	StageCompleted     JobStage = "COMPLETED"
)

// StageOrder is the pipeline sequence from submission to completion.
var StageOrder = []JobStage{
	StageQueued,
	StageParsingInput,
	StageTOCAnalysis,
	StageIndexBuild,
	StageRefinement,
	StageSummarization,
	StageFinalizing,
	StageCompleted,
}

var stageRanks = func() map[JobStage]int {
	m := make(map[JobStage]int, len(StageOrder))
	for i, s := range StageOrder {
		m[s] = i
	}
	return m
}()

var stageProgress = map[JobStage]float64{
	StageQueued:        0.05,
	StageParsingInput:  0.20,
	StageTOCAnalysis:   0.35,
	StageIndexBuild:    0.60,
	StageRefinement:    0.75,
	StageSummarization: 0.88,
	StageFinalizing:    0.95,
	StageCompleted:     1.00,
}

// Rank returns the stage's position in the pipeline order, or -1 for an
// unknown stage.
func (s JobStage) Rank() int {
	if r, ok := stageRanks[s]; ok {
		return r
	}
	return -1
}

// NominalProgress returns the display progress associated with entering the
// stage, used when a job has not reported a finer-grained fraction.
func (s JobStage) NominalProgress() float64 {
	return stageProgress[s]
}
