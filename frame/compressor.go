package frame

import "io"

// BodyCompressor performs frame-body compression for the v3/v4 plain framing format, applied when the connection
// negotiated a compression algorithm at STARTUP and HeaderFlagCompressed is set on an outgoing frame.
type BodyCompressor interface {
	// Algorithm names the algorithm this compressor implements. Cassandra only recognizes "LZ4" and "SNAPPY".
	Algorithm() string

	// Compress reads source to completion and writes the compressed form to dest.
	Compress(source io.Reader, dest io.Writer) error

	// Decompress reads source to completion and writes the decompressed form to dest.
	Decompress(source io.Reader, dest io.Writer) error
}
