// Package pipeline drives catalog ingestion as a sequence of checkpointed
// stages. A job moves from discovery through text and image extraction,
// chunking, embedding, entity linking and metadata extraction to cleanup;
// after every stage the job's checkpoint advances, so an interrupted or
// failed job resumes at the first unfinished stage instead of repeating
// work. Stages are written to be idempotent: content-derived IDs and
// presence checks make re-running a partially finished stage converge on
// the same stored state.
package pipeline
