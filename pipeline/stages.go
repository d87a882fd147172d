// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package pipeline

// Stage names, in execution order. The checkpoint stored on a job is the
// name of the last stage that finished, so renaming or reordering stages
// invalidates in-flight jobs.
const (
	StageDiscovery            = "discovery"
	StageFocusedExtraction    = "focused-extraction"
	StageChunking             = "chunking"
	StageTextEmbedding        = "text-embedding"
	StageImageExtraction      = "image-extraction"
	StageImageAnalysis        = "image-analysis"
	StageVisualEmbedding      = "visual-embedding"
	StageEntityLinking        = "entity-linking"
	StageMetadataExtraction   = "metadata-extraction"
	StageValidationSubmission = "validation-submission"
	StageCleanup              = "cleanup"
)

// Stages is the fixed execution order of the ingestion pipeline.
var Stages = []string{
	StageDiscovery,
	StageFocusedExtraction,
	StageChunking,
	StageTextEmbedding,
	StageImageExtraction,
	StageImageAnalysis,
	StageVisualEmbedding,
	StageEntityLinking,
	StageMetadataExtraction,
	StageValidationSubmission,
	StageCleanup,
}

// stageIndex returns the position of a stage in the execution order,
// or -1 for unknown stages.
func stageIndex(stage string) int {
	for i, s := range Stages {
		if s == stage {
			return i
		}
	}
	return -1
}
