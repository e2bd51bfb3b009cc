package chunk

var (
	_ Chunk = &Chunk0{}
	_ Chunk = &Chunk1{}
	_ Chunk = &Chunk2{}
)
