package badger

import (
	"encoding/binary"
	"fmt"

	"github.com/poiesic/folio/core"
)

// Key prefixes for different data types
const (
	jobRecordPrefix      = "jobrec"
	jobStagePrefix       = "jobstg"
	chunkRecordPrefix    = "chkrec"
	chunkHashPrefix      = "chkhsh"
	pageTextPrefix       = "pagtxt"
	imageRecordPrefix    = "imgrec"
	productRecordPrefix  = "prdrec"
	vectorSetPrefix      = "vecset"
	validationPrefix     = "valrec"
	validationEntityIdx  = "valent"
	validationPendingIdx = "valpnd"
	validationIDSeq      = "valrecseq"
)

// makeJobKey generates a key for a job by its UUID.
func makeJobKey(id string) []byte {
	return []byte(jobRecordPrefix + ":" + id)
}

// makeJobStageKey generates a key for the (job, stage) progress row.
func makeJobStageKey(jobID, stage string) []byte {
	return []byte(jobStagePrefix + ":" + jobID + ":" + stage)
}

// makeJobStagePrefix generates the iteration prefix for all stages of a job.
func makeJobStagePrefix(jobID string) []byte {
	return []byte(jobStagePrefix + ":" + jobID + ":")
}

// appendID writes an ID in BigEndian order so lexicographic sort works correctly.
func appendID(buf []byte, id core.ID) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(id))
	return append(buf, b[:]...)
}

// idFromKeySuffix reads an ID from the trailing 8 bytes of a key or value.
func idFromKeySuffix(b []byte) (core.ID, error) {
	if len(b) < 8 {
		return 0, fmt.Errorf("key too short for ID suffix: %d bytes", len(b))
	}
	return core.ID(binary.BigEndian.Uint64(b[len(b)-8:])), nil
}

// makeChunkKey generates a key for a chunk scoped by document.
// Format: prefix:documentID:chunkID
func makeChunkKey(documentID, id core.ID) []byte {
	buf := make([]byte, 0, len(chunkRecordPrefix)+1+16)
	buf = append(buf, chunkRecordPrefix...)
	buf = append(buf, ':')
	buf = appendID(buf, documentID)
	return appendID(buf, id)
}

// makeChunkPrefix generates the iteration prefix for a document's chunks.
func makeChunkPrefix(documentID core.ID) []byte {
	buf := make([]byte, 0, len(chunkRecordPrefix)+1+8)
	buf = append(buf, chunkRecordPrefix...)
	buf = append(buf, ':')
	return appendID(buf, documentID)
}

// makeChunkHashKey generates the uniqueness key for (document, content hash).
// The key's existence is the dedup constraint.
func makeChunkHashKey(documentID core.ID, hash string) []byte {
	buf := make([]byte, 0, len(chunkHashPrefix)+1+8+len(hash))
	buf = append(buf, chunkHashPrefix...)
	buf = append(buf, ':')
	buf = appendID(buf, documentID)
	return append(buf, hash...)
}

// makePageTextKey generates a key for a page text.
// Pages are encoded BigEndian so iteration yields page order.
func makePageTextKey(documentID core.ID, page int) []byte {
	buf := make([]byte, 0, len(pageTextPrefix)+1+12)
	buf = append(buf, pageTextPrefix...)
	buf = append(buf, ':')
	buf = appendID(buf, documentID)
	var p [4]byte
	binary.BigEndian.PutUint32(p[:], uint32(page))
	return append(buf, p[:]...)
}

// makePageTextPrefix generates the iteration prefix for a document's pages.
func makePageTextPrefix(documentID core.ID) []byte {
	buf := make([]byte, 0, len(pageTextPrefix)+1+8)
	buf = append(buf, pageTextPrefix...)
	buf = append(buf, ':')
	return appendID(buf, documentID)
}

// makeImageKey generates a key for a catalog image scoped by document.
func makeImageKey(documentID, id core.ID) []byte {
	buf := make([]byte, 0, len(imageRecordPrefix)+1+16)
	buf = append(buf, imageRecordPrefix...)
	buf = append(buf, ':')
	buf = appendID(buf, documentID)
	return appendID(buf, id)
}

// makeImagePrefix generates the iteration prefix for a document's images.
func makeImagePrefix(documentID core.ID) []byte {
	buf := make([]byte, 0, len(imageRecordPrefix)+1+8)
	buf = append(buf, imageRecordPrefix...)
	buf = append(buf, ':')
	return appendID(buf, documentID)
}

// makeProductKey generates a key for a product scoped by document.
func makeProductKey(documentID, id core.ID) []byte {
	buf := make([]byte, 0, len(productRecordPrefix)+1+16)
	buf = append(buf, productRecordPrefix...)
	buf = append(buf, ':')
	buf = appendID(buf, documentID)
	return appendID(buf, id)
}

// makeProductPrefix generates the iteration prefix for a document's products.
func makeProductPrefix(documentID core.ID) []byte {
	buf := make([]byte, 0, len(productRecordPrefix)+1+8)
	buf = append(buf, productRecordPrefix...)
	buf = append(buf, ':')
	return appendID(buf, documentID)
}

// makeVectorSetKey generates a key for an entity's vector set.
// Format: prefix:entityType:entityID
func makeVectorSetKey(entityType core.EntityType, entityID core.ID) []byte {
	buf := make([]byte, 0, len(vectorSetPrefix)+3+8)
	buf = append(buf, vectorSetPrefix...)
	buf = append(buf, ':', byte('0'+entityType), ':')
	return appendID(buf, entityID)
}

// makeValidationKey generates a key for a validation item by ID.
func makeValidationKey(id core.ID) []byte {
	buf := make([]byte, 0, len(validationPrefix)+1+8)
	buf = append(buf, validationPrefix...)
	buf = append(buf, ':')
	return appendID(buf, id)
}

// makeValidationEntityKey generates the uniqueness key that marks an entity as
// having an outstanding queue item. Its existence enforces at-most-one
// outstanding item per entity.
func makeValidationEntityKey(entityType core.EntityType, entityID core.ID) []byte {
	buf := make([]byte, 0, len(validationEntityIdx)+3+8)
	buf = append(buf, validationEntityIdx...)
	buf = append(buf, ':', byte('0'+entityType), ':')
	return appendID(buf, entityID)
}

// makeValidationPendingKey generates the priority-ordered index key for a
// pending item. Priority is inverted so ascending key order yields the highest
// priority first; insertion micros break ties FIFO.
func makeValidationPendingKey(priority int, insertedMicro int64, id core.ID) []byte {
	buf := make([]byte, 0, len(validationPendingIdx)+1+20)
	buf = append(buf, validationPendingIdx...)
	buf = append(buf, ':')
	var p [4]byte
	binary.BigEndian.PutUint32(p[:], ^uint32(priority))
	buf = append(buf, p[:]...)
	var t [8]byte
	binary.BigEndian.PutUint64(t[:], uint64(insertedMicro))
	buf = append(buf, t[:]...)
	return appendID(buf, id)
}
