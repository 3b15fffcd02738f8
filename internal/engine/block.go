package engine

// blockItem is a filled input block in flight between the reader and a
// hasher. buf is always exactly blockSize bytes long; the reader
// zero-pads the tail of the final, short block so every hasher always
// digests exactly blockSize bytes (spec's fixed padding policy).
type blockItem struct {
	index uint64
	buf   []byte
}
