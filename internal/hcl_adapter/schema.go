package hcl_adapter

// fileRoot is the top-level structure of a packaging config file.
type fileRoot struct {
	Workers []*workerBlock `hcl:"worker,block"`
}

// workerBlock is the raw decoded form of a `worker "name" { ... }` block.
// Optional attributes are pointers so an omitted attribute can be told
// apart from one set to its zero value.
type workerBlock struct {
	Name            string   `hcl:"name,label"`
	Graph           string   `hcl:"graph"`
	OutputPath      string   `hcl:"output_path"`
	Filename        *string  `hcl:"filename,optional"`
	ChunkFilename   *string  `hcl:"chunk_filename,optional"`
	ContentHashType *string  `hcl:"content_hash_type,optional"`
	RealHash        *bool    `hcl:"real_hash,optional"`
	Entries         []string `hcl:"entries,optional"`
	Minify          *bool    `hcl:"minify,optional"`
	Archive         *string  `hcl:"archive,optional"`
	EmptyContext    *string  `hcl:"empty_context,optional"`
	FillHashes      *bool    `hcl:"fill_hashes,optional"`
	HashFunction    *string  `hcl:"hash_function,optional"`
}
