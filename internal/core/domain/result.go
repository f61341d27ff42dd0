package domain

// Result is the payload produced by an operation handler: encoded image bytes
// plus declared format and metadata. Results are immutable once published to
// the cache.
type Result struct {
	// Data is the encoded output image.
	Data []byte

	// Format is the encoding of Data, e.g. "png" or "jpeg". Non-image
	// results (info queries, color reports) use "json".
	Format string

	// Width and Height are the pixel dimensions of the output, zero for
	// non-image results.
	Width  int
	Height int

	// Meta carries operation-specific details for the protocol response.
	Meta map[string]string
}

// SizeBytes reports the resident size the cache accounts for this result.
func (r *Result) SizeBytes() int64 {
	if r == nil {
		return 0
	}
	size := int64(len(r.Data))
	for k, v := range r.Meta {
		size += int64(len(k) + len(v))
	}
	return size
}
