package pipeline

// OutputBuffer is a reusable worker output buffer. After use, Release
// should be called so the underlying slice is put back into the pool
// instead of being left for the garbage collector.
type OutputBuffer struct {
	Data []byte
	pool *BufferPool
}

// Release puts the buffer back into the pool it came from. Buffers that
// have grown past maxSize are dropped instead, so one oversized chunk
// doesn't pin a large buffer in the pool forever.
func (b *OutputBuffer) Release() {
	pool := b.pool
	if pool == nil || cap(b.Data) > pool.maxSize {
		return
	}

	b.Data = b.Data[:0]
	select {
	case pool.ch <- b:
	default:
	}
}

// BufferPool is a bounded pool of reusable OutputBuffers, sized so that
// each of the N workers can have one buffer in flight.
type BufferPool struct {
	ch      chan *OutputBuffer
	size    int
	maxSize int
}

// NewBufferPool initializes a pool that holds at most max buffers. New
// buffers are allocated with capacity size (the worker picks size as a
// small multiple of the expected chunk size); buffers that grow beyond
// maxSize are not recycled.
func NewBufferPool(max int, size int) *BufferPool {
	return &BufferPool{
		ch:      make(chan *OutputBuffer, max),
		size:    size,
		maxSize: size * 4,
	}
}

// Get returns a buffer, either recycled from the pool or freshly allocated.
func (p *BufferPool) Get() *OutputBuffer {
	select {
	case b := <-p.ch:
		return b
	default:
	}

	return &OutputBuffer{
		Data: make([]byte, 0, p.size),
		pool: p,
	}
}
